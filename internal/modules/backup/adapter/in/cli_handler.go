package in

import (
	"context"

	"dictation/internal/modules/backup/dto"
	backupin "dictation/internal/modules/backup/port/in"
)

type CLIHandler struct {
	usecase backupin.Usecase
}

func NewCLIHandler(usecase backupin.Usecase) CLIHandler {
	return CLIHandler{usecase: usecase}
}

func (h CLIHandler) Export(ctx context.Context, path string) (dto.ExportOutput, error) {
	return h.usecase.Export(ctx, dto.ExportInput{Path: path})
}

func (h CLIHandler) Inspect(ctx context.Context, path string) (dto.ImportOutput, error) {
	return h.usecase.Inspect(ctx, path)
}

func (h CLIHandler) Import(ctx context.Context, path string, confirmed bool) (dto.ImportOutput, error) {
	return h.usecase.Import(ctx, dto.ImportInput{Path: path, Confirmed: confirmed})
}
