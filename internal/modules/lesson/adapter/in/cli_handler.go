package in

import (
	"context"

	"dictation/internal/modules/lesson/dto"
	lessonin "dictation/internal/modules/lesson/port/in"
)

type CLIHandler struct {
	usecase lessonin.Usecase
}

func NewCLIHandler(usecase lessonin.Usecase) CLIHandler {
	return CLIHandler{usecase: usecase}
}

func (h CLIHandler) Index(ctx context.Context) (dto.IndexOutput, error) {
	return h.usecase.LoadIndex(ctx)
}

func (h CLIHandler) Unit(ctx context.Context, unitID string) (dto.UnitOutput, error) {
	return h.usecase.LoadUnit(ctx, dto.LoadUnitInput{UnitID: unitID})
}

func (h CLIHandler) Resolve(ctx context.Context, requested string) (string, error) {
	return h.usecase.Resolve(ctx, dto.ResolveInput{Requested: requested})
}

func (h CLIHandler) Upload(ctx context.Context, payload []byte) (dto.UnitRefOutput, error) {
	return h.usecase.Upload(ctx, dto.UploadInput{Payload: payload})
}
