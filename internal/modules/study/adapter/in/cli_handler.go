package in

import (
	"context"

	studydto "dictation/internal/modules/study/dto"
	studyin "dictation/internal/modules/study/port/in"
)

type CLIHandler struct {
	usecase studyin.Usecase
}

func NewCLIHandler(usecase studyin.Usecase) CLIHandler {
	return CLIHandler{usecase: usecase}
}

// Show opens a unit without counting a visit.
func (h CLIHandler) Show(ctx context.Context, unitID string) (studydto.WorkspaceOutput, error) {
	return h.usecase.Open(ctx, studydto.OpenInput{UnitID: unitID})
}

func (h CLIHandler) Visit(ctx context.Context, unitID string) (studydto.WorkspaceOutput, error) {
	return h.usecase.Open(ctx, studydto.OpenInput{UnitID: unitID, Visit: true})
}

func (h CLIHandler) Correct(ctx context.Context, unitID, itemID string) (studydto.MarkOutput, error) {
	if _, err := h.Show(ctx, unitID); err != nil {
		return studydto.MarkOutput{}, err
	}
	return h.usecase.MarkCorrect(ctx, itemID)
}

func (h CLIHandler) Review(ctx context.Context, unitID, itemID string) (studydto.MarkOutput, error) {
	if _, err := h.Show(ctx, unitID); err != nil {
		return studydto.MarkOutput{}, err
	}
	return h.usecase.MarkReview(ctx, itemID)
}

func (h CLIHandler) ResetTab(ctx context.Context, unitID, kind string, confirmed bool) error {
	if _, err := h.Show(ctx, unitID); err != nil {
		return err
	}
	return h.usecase.ResetTab(ctx, studydto.ResetTabInput{Kind: kind, Confirmed: confirmed})
}

func (h CLIHandler) ResetAll(ctx context.Context, confirmed bool) error {
	return h.usecase.ResetAll(ctx, confirmed)
}

func (h CLIHandler) Overview(ctx context.Context, unitID string) (studydto.OverviewOutput, error) {
	if _, err := h.Show(ctx, unitID); err != nil {
		return studydto.OverviewOutput{}, err
	}
	return h.usecase.Overview(ctx)
}
