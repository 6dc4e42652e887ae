package in

import (
	"context"

	"dictation/internal/modules/audio/dto"
	audioin "dictation/internal/modules/audio/port/in"
)

type CLIHandler struct {
	usecase audioin.Usecase
}

func NewCLIHandler(usecase audioin.Usecase) CLIHandler {
	return CLIHandler{usecase: usecase}
}

// Say speaks text (or key when text is empty) and returns once the playback is released.
func (h CLIHandler) Say(ctx context.Context, key, text string) error {
	events := h.usecase.Events()
	if _, err := h.usecase.Play(ctx, dto.PlayInput{Key: key, Text: text, Control: key}); err != nil {
		return err
	}
	for {
		select {
		case event := <-events:
			if event.Control == key && event.Kind == "released" {
				return event.Err
			}
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

func (h CLIHandler) Check(ctx context.Context) (dto.EngineOutput, error) {
	return h.usecase.Engine(ctx)
}
