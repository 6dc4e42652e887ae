package in

import (
	"context"

	"dictation/internal/modules/mastery/dto"
)

type Usecase interface {
	Stars(ctx context.Context, input dto.IDsInput) (dto.StarsOutput, error)
	Increment(ctx context.Context, id string) (dto.StarOutput, error)
	Decrement(ctx context.Context, id string) (dto.StarOutput, error)
	Ensure(ctx context.Context, input dto.IDsInput) error
	Reset(ctx context.Context, input dto.IDsInput) error
	Summary(ctx context.Context, input dto.IDsInput) (dto.SummaryOutput, error)
	Snapshot(ctx context.Context) (map[string]int, error)
	Replace(ctx context.Context, input dto.ReplaceInput) error
	Clear(ctx context.Context) error
}
