package out

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	hclog "github.com/hashicorp/go-hclog"

	"dictation/internal/modules/mastery/domain"
	masteryout "dictation/internal/modules/mastery/port/out"
	apperrors "dictation/internal/platform/errors"
	"dictation/internal/platform/storage"
)

// KVStarStore keeps the star map as one JSON object under the starData key.
type KVStarStore struct {
	kv     storage.Store
	logger hclog.Logger
}

func NewKVStarStore(kv storage.Store, logger hclog.Logger) masteryout.StarStore {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	return &KVStarStore{kv: kv, logger: logger}
}

func (s *KVStarStore) Load(ctx context.Context) (domain.Map, error) {
	payload, err := s.kv.Get(ctx, storage.KeyStarData)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return domain.Map{}, nil
		}
		return nil, fmt.Errorf("load star data: %w", err)
	}
	stars := domain.Map{}
	if err := json.Unmarshal(payload, &stars); err != nil {
		s.logger.Warn("stored star data is corrupt, starting empty", "error", err)
		return domain.Map{}, nil
	}
	if stars == nil {
		return domain.Map{}, nil
	}
	stars.Normalize()
	return stars, nil
}

func (s *KVStarStore) Save(ctx context.Context, stars domain.Map) error {
	payload, err := json.Marshal(stars)
	if err != nil {
		return fmt.Errorf("marshal star data: %w", err)
	}
	if err := s.kv.Put(ctx, storage.KeyStarData, payload); err != nil {
		return fmt.Errorf("save star data: %w", err)
	}
	return nil
}

func (s *KVStarStore) Clear(ctx context.Context) error {
	if err := s.kv.Delete(ctx, storage.KeyStarData); err != nil {
		return fmt.Errorf("clear star data: %w", err)
	}
	return nil
}
