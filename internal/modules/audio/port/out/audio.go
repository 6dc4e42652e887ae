package out

import (
	"context"

	"dictation/internal/modules/audio/domain"
)

// Engine speaks one utterance and blocks until it ends or ctx is cancelled.
// started is called once sound output begins; it may be nil.
type Engine interface {
	Available() bool
	Speak(ctx context.Context, utterance domain.Utterance, started func()) error
	Describe(ctx context.Context) (domain.EngineInfo, error)
}
