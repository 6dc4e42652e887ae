package in

import (
	"context"

	"dictation/internal/modules/backup/dto"
)

type Usecase interface {
	Export(ctx context.Context, input dto.ExportInput) (dto.ExportOutput, error)
	Inspect(ctx context.Context, path string) (dto.ImportOutput, error)
	Import(ctx context.Context, input dto.ImportInput) (dto.ImportOutput, error)
}
