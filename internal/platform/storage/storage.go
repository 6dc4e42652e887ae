package storage

import (
	"context"
	"fmt"

	apperrors "dictation/internal/platform/errors"
)

// Keys shared with the backup bundle format.
const (
	KeyStarData      = "starData"
	KeyLearningStats = "learningStats"
	KeyCurrentUnit   = "currentUnit"
)

// Store is a key/value store of JSON blobs. Get returns apperrors.ErrNotFound for missing keys.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Put(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	Close() error
}

func validKey(key string) error {
	if key == "" {
		return fmt.Errorf("%w: storage key is required", apperrors.ErrInvalidInput)
	}
	return nil
}
