package out

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	studyout "dictation/internal/modules/study/port/out"
	"dictation/internal/platform/clock"
	apperrors "dictation/internal/platform/errors"
	"dictation/internal/platform/storage"
)

type currentUnit struct {
	UnitID    string    `json:"unitId"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// KVCurrentUnitStore keeps the current unit under the currentUnit key.
type KVCurrentUnitStore struct {
	kv    storage.Store
	clock clock.Clock
}

func NewKVCurrentUnitStore(kv storage.Store, clock clock.Clock) studyout.CurrentUnitStore {
	return &KVCurrentUnitStore{kv: kv, clock: clock}
}

func (s *KVCurrentUnitStore) Save(ctx context.Context, unitID string) error {
	payload, err := json.Marshal(currentUnit{UnitID: unitID, UpdatedAt: s.clock.Now()})
	if err != nil {
		return fmt.Errorf("marshal current unit: %w", err)
	}
	if err := s.kv.Put(ctx, storage.KeyCurrentUnit, payload); err != nil {
		return fmt.Errorf("write current unit: %w", err)
	}
	return nil
}

func (s *KVCurrentUnitStore) Load(ctx context.Context) (string, error) {
	payload, err := s.kv.Get(ctx, storage.KeyCurrentUnit)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return "", apperrors.ErrNoActiveUnit
		}
		return "", fmt.Errorf("read current unit: %w", err)
	}
	current := currentUnit{}
	if err := json.Unmarshal(payload, &current); err != nil {
		return "", fmt.Errorf("decode current unit: %w", err)
	}
	if current.UnitID == "" {
		return "", apperrors.ErrNoActiveUnit
	}
	return current.UnitID, nil
}
