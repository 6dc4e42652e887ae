package in

import (
	"context"

	"dictation/internal/modules/study/dto"
)

type Usecase interface {
	Open(ctx context.Context, input dto.OpenInput) (dto.WorkspaceOutput, error)
	Reload(ctx context.Context) (dto.WorkspaceOutput, error)
	Current(ctx context.Context) (dto.WorkspaceOutput, error)
	SelectTab(ctx context.Context, kind string) (dto.WorkspaceOutput, error)
	Flip(ctx context.Context, itemID string) (dto.FlipOutput, error)
	MarkCorrect(ctx context.Context, itemID string) (dto.MarkOutput, error)
	MarkReview(ctx context.Context, itemID string) (dto.MarkOutput, error)
	Play(ctx context.Context, itemID string) (dto.PlayOutput, error)
	ResetTab(ctx context.Context, input dto.ResetTabInput) error
	ResetAll(ctx context.Context, confirmed bool) error
	Tick(ctx context.Context) error
	Overview(ctx context.Context) (dto.OverviewOutput, error)
	Close(ctx context.Context) error
}
