package in

import (
	"context"

	"dictation/internal/modules/stats/dto"
)

type Usecase interface {
	RecordVisit(ctx context.Context, unitID string) (dto.UnitStatsOutput, error)
	Touch(ctx context.Context, unitID string) (dto.UnitStatsOutput, error)
	AccrueTime(ctx context.Context, input dto.AccrueInput) (dto.UnitStatsOutput, error)
	SetMastery(ctx context.Context, input dto.SetMasteryInput) error
	Get(ctx context.Context, unitID string) (dto.UnitStatsOutput, error)
	List(ctx context.Context) ([]dto.UnitStatsOutput, error)
	Snapshot(ctx context.Context) (map[string]dto.Record, error)
	Replace(ctx context.Context, input dto.ReplaceInput) error
	Clear(ctx context.Context) error
}
