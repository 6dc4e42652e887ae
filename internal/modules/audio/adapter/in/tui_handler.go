package in

import (
	"context"

	"dictation/internal/modules/audio/dto"
	audioin "dictation/internal/modules/audio/port/in"
)

const freeTextControl = "say"

type TUIHandler struct {
	usecase audioin.Usecase
}

func NewTUIHandler(usecase audioin.Usecase) TUIHandler {
	return TUIHandler{usecase: usecase}
}

// Events must be read by one consumer only.
func (h TUIHandler) Events() <-chan dto.EventOutput {
	return h.usecase.Events()
}

// Say speaks free text on its own control without waiting for it to finish.
func (h TUIHandler) Say(ctx context.Context, text string) (dto.PlayOutput, error) {
	return h.usecase.Play(ctx, dto.PlayInput{Key: text, Text: text, Control: freeTextControl})
}

func (h TUIHandler) WarmUp(ctx context.Context) {
	h.usecase.WarmUp(ctx)
}

func (h TUIHandler) Engine(ctx context.Context) (dto.EngineOutput, error) {
	return h.usecase.Engine(ctx)
}
