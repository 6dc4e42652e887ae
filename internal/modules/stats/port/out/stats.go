package out

import (
	"context"

	"dictation/internal/modules/stats/domain"
)

// StatsStore persists every unit record at once. Load returns an empty book when nothing is stored.
type StatsStore interface {
	Load(ctx context.Context) (domain.Book, error)
	Save(ctx context.Context, book domain.Book) error
	Clear(ctx context.Context) error
}
