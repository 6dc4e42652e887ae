package out

import (
	"context"

	"dictation/internal/modules/lesson/domain"
)

// Source fetches raw documents: the index file name or a unit location taken from the index.
type Source interface {
	Fetch(ctx context.Context, location string) ([]byte, error)
}

type UploadStore interface {
	List(ctx context.Context) ([]domain.UnitRef, error)
	Save(ctx context.Context, ref domain.UnitRef, payload []byte) error
	Read(ctx context.Context, unitID string) ([]byte, error)
}
