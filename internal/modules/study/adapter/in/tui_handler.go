package in

import (
	"context"

	studydto "dictation/internal/modules/study/dto"
	studyin "dictation/internal/modules/study/port/in"
)

// TUIHandler drives the interactive session; every unit it opens counts as a visit.
type TUIHandler struct {
	usecase studyin.Usecase
}

func NewTUIHandler(usecase studyin.Usecase) TUIHandler {
	return TUIHandler{usecase: usecase}
}

func (h TUIHandler) Open(ctx context.Context, unitID string) (studydto.WorkspaceOutput, error) {
	return h.usecase.Open(ctx, studydto.OpenInput{UnitID: unitID, Visit: true})
}

func (h TUIHandler) Reload(ctx context.Context) (studydto.WorkspaceOutput, error) {
	return h.usecase.Reload(ctx)
}

func (h TUIHandler) Current(ctx context.Context) (studydto.WorkspaceOutput, error) {
	return h.usecase.Current(ctx)
}

func (h TUIHandler) SelectTab(ctx context.Context, kind string) (studydto.WorkspaceOutput, error) {
	return h.usecase.SelectTab(ctx, kind)
}

func (h TUIHandler) Flip(ctx context.Context, itemID string) (studydto.FlipOutput, error) {
	return h.usecase.Flip(ctx, itemID)
}

func (h TUIHandler) MarkCorrect(ctx context.Context, itemID string) (studydto.MarkOutput, error) {
	return h.usecase.MarkCorrect(ctx, itemID)
}

func (h TUIHandler) MarkReview(ctx context.Context, itemID string) (studydto.MarkOutput, error) {
	return h.usecase.MarkReview(ctx, itemID)
}

func (h TUIHandler) Play(ctx context.Context, itemID string) (studydto.PlayOutput, error) {
	return h.usecase.Play(ctx, itemID)
}

func (h TUIHandler) ResetTab(ctx context.Context, kind string) error {
	return h.usecase.ResetTab(ctx, studydto.ResetTabInput{Kind: kind, Confirmed: true})
}

func (h TUIHandler) ResetAll(ctx context.Context) error {
	return h.usecase.ResetAll(ctx, true)
}

func (h TUIHandler) Tick(ctx context.Context) error {
	return h.usecase.Tick(ctx)
}

func (h TUIHandler) Overview(ctx context.Context) (studydto.OverviewOutput, error) {
	return h.usecase.Overview(ctx)
}

func (h TUIHandler) Close(ctx context.Context) error {
	return h.usecase.Close(ctx)
}
