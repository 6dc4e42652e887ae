package in

import (
	"context"

	"dictation/internal/modules/lesson/dto"
)

type Usecase interface {
	LoadIndex(ctx context.Context) (dto.IndexOutput, error)
	LoadUnit(ctx context.Context, input dto.LoadUnitInput) (dto.UnitOutput, error)
	Resolve(ctx context.Context, input dto.ResolveInput) (string, error)
	Upload(ctx context.Context, input dto.UploadInput) (dto.UnitRefOutput, error)
}
