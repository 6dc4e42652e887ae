package in

import (
	"context"

	"dictation/internal/modules/stats/dto"
	statsin "dictation/internal/modules/stats/port/in"
)

type CLIHandler struct {
	usecase statsin.Usecase
}

func NewCLIHandler(usecase statsin.Usecase) CLIHandler {
	return CLIHandler{usecase: usecase}
}

func (h CLIHandler) List(ctx context.Context) ([]dto.UnitStatsOutput, error) {
	return h.usecase.List(ctx)
}

func (h CLIHandler) Get(ctx context.Context, unitID string) (dto.UnitStatsOutput, error) {
	return h.usecase.Get(ctx, unitID)
}
