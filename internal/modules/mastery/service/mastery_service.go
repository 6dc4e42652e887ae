package service

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"dictation/internal/modules/mastery/domain"
	masteryout "dictation/internal/modules/mastery/port/out"
	apperrors "dictation/internal/platform/errors"
)

// MasteryService reads the stored map, applies one change and writes it back before returning.
type MasteryService struct {
	mu    sync.Mutex
	store masteryout.StarStore
}

func NewMasteryService(store masteryout.StarStore) *MasteryService {
	return &MasteryService{store: store}
}

func (s *MasteryService) Stars(ctx context.Context, ids []string) (domain.Map, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	stars, err := s.store.Load(ctx)
	if err != nil {
		return nil, err
	}
	out := make(domain.Map, len(ids))
	for _, id := range ids {
		out[id] = stars.Get(id)
	}
	return out, nil
}

func (s *MasteryService) Increment(ctx context.Context, id string) (int, bool, error) {
	return s.step(ctx, id, domain.Map.Increment)
}

func (s *MasteryService) Decrement(ctx context.Context, id string) (int, bool, error) {
	return s.step(ctx, id, domain.Map.Decrement)
}

func (s *MasteryService) step(ctx context.Context, id string, apply func(domain.Map, string) (int, bool)) (int, bool, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return 0, false, fmt.Errorf("%w: item id is required", apperrors.ErrInvalidInput)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	stars, err := s.store.Load(ctx)
	if err != nil {
		return 0, false, err
	}
	count, changed := apply(stars, id)
	if !changed {
		return count, false, nil
	}
	if err := s.store.Save(ctx, stars); err != nil {
		return 0, false, err
	}
	return count, true, nil
}

func (s *MasteryService) Ensure(ctx context.Context, ids []string) error {
	return s.update(ctx, func(stars domain.Map) bool { return stars.Ensure(ids) })
}

func (s *MasteryService) Reset(ctx context.Context, ids []string) error {
	return s.update(ctx, func(stars domain.Map) bool { return stars.Reset(ids) })
}

func (s *MasteryService) update(ctx context.Context, apply func(domain.Map) bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	stars, err := s.store.Load(ctx)
	if err != nil {
		return err
	}
	if !apply(stars) {
		return nil
	}
	return s.store.Save(ctx, stars)
}

func (s *MasteryService) Summary(ctx context.Context, ids []string) (domain.Summary, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	stars, err := s.store.Load(ctx)
	if err != nil {
		return domain.Summary{}, err
	}
	return stars.Summary(ids), nil
}

func (s *MasteryService) Snapshot(ctx context.Context) (domain.Map, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	stars, err := s.store.Load(ctx)
	if err != nil {
		return nil, err
	}
	return stars.Clone(), nil
}

// Replace overwrites the whole map, clamping imported counts into range.
func (s *MasteryService) Replace(ctx context.Context, stars domain.Map) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	next := stars.Clone()
	next.Normalize()
	return s.store.Save(ctx, next)
}

func (s *MasteryService) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.store.Clear(ctx)
}
