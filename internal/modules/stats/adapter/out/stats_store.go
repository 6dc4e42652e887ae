package out

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	hclog "github.com/hashicorp/go-hclog"

	"dictation/internal/modules/stats/domain"
	statsout "dictation/internal/modules/stats/port/out"
	apperrors "dictation/internal/platform/errors"
	"dictation/internal/platform/storage"
)

// KVStatsStore keeps every unit record as one JSON object under the learningStats key.
type KVStatsStore struct {
	kv     storage.Store
	logger hclog.Logger
}

func NewKVStatsStore(kv storage.Store, logger hclog.Logger) statsout.StatsStore {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	return &KVStatsStore{kv: kv, logger: logger}
}

func (s *KVStatsStore) Load(ctx context.Context) (domain.Book, error) {
	payload, err := s.kv.Get(ctx, storage.KeyLearningStats)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return domain.Book{}, nil
		}
		return nil, fmt.Errorf("load learning stats: %w", err)
	}
	book := domain.Book{}
	if err := json.Unmarshal(payload, &book); err != nil {
		s.logger.Warn("stored learning stats are corrupt, starting empty", "error", err)
		return domain.Book{}, nil
	}
	if book == nil {
		book = domain.Book{}
	}
	return book, nil
}

func (s *KVStatsStore) Save(ctx context.Context, book domain.Book) error {
	payload, err := json.Marshal(book)
	if err != nil {
		return fmt.Errorf("marshal learning stats: %w", err)
	}
	if err := s.kv.Put(ctx, storage.KeyLearningStats, payload); err != nil {
		return fmt.Errorf("save learning stats: %w", err)
	}
	return nil
}

func (s *KVStatsStore) Clear(ctx context.Context) error {
	if err := s.kv.Delete(ctx, storage.KeyLearningStats); err != nil {
		return fmt.Errorf("clear learning stats: %w", err)
	}
	return nil
}
