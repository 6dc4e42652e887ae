package out

import (
	"context"

	"dictation/internal/modules/audio/domain"
	audioout "dictation/internal/modules/audio/port/out"
	apperrors "dictation/internal/platform/errors"
)

type NullEngine struct{}

func NewNullEngine() audioout.Engine {
	return NullEngine{}
}

func (NullEngine) Available() bool { return false }

func (NullEngine) Speak(context.Context, domain.Utterance, func()) error {
	return apperrors.ErrSpeechUnavailable
}

func (NullEngine) Describe(context.Context) (domain.EngineInfo, error) {
	return domain.EngineInfo{Name: "none", Kind: "none"}, nil
}
