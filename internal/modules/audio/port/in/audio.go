package in

import (
	"context"

	"dictation/internal/modules/audio/dto"
)

type Usecase interface {
	Play(ctx context.Context, input dto.PlayInput) (dto.PlayOutput, error)
	Stop(ctx context.Context, control string) (bool, error)
	Wait(ctx context.Context) error
	WarmUp(ctx context.Context)
	Status(ctx context.Context) dto.StatusOutput
	Events() <-chan dto.EventOutput
	Engine(ctx context.Context) (dto.EngineOutput, error)
}
