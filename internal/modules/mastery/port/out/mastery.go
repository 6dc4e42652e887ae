package out

import (
	"context"

	"dictation/internal/modules/mastery/domain"
)

// StarStore persists the whole star map. Load returns an empty map when nothing is stored.
type StarStore interface {
	Load(ctx context.Context) (domain.Map, error)
	Save(ctx context.Context, stars domain.Map) error
	Clear(ctx context.Context) error
}
