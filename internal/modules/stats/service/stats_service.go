package service

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"dictation/internal/modules/stats/domain"
	statsout "dictation/internal/modules/stats/port/out"
	"dictation/internal/platform/clock"
	apperrors "dictation/internal/platform/errors"
)

type StatsService struct {
	mu    sync.Mutex
	clock clock.Clock
	store statsout.StatsStore
}

func NewStatsService(clock clock.Clock, store statsout.StatsStore) *StatsService {
	return &StatsService{clock: clock, store: store}
}

func (s *StatsService) RecordVisit(ctx context.Context, unitID string) (domain.UnitStats, error) {
	if err := requireUnit(unitID); err != nil {
		return domain.UnitStats{}, err
	}
	var record domain.UnitStats
	err := s.update(ctx, func(book domain.Book) bool {
		record = book.Visit(unitID, s.clock.Now())
		return true
	})
	return record, err
}

func (s *StatsService) Touch(ctx context.Context, unitID string) (domain.UnitStats, error) {
	if err := requireUnit(unitID); err != nil {
		return domain.UnitStats{}, err
	}
	var record domain.UnitStats
	err := s.update(ctx, func(book domain.Book) bool {
		record = book.Touch(unitID, s.clock.Now())
		return true
	})
	return record, err
}

func (s *StatsService) AccrueTime(ctx context.Context, unitID string, minutes float64) (domain.UnitStats, bool, error) {
	if err := requireUnit(unitID); err != nil {
		return domain.UnitStats{}, false, err
	}
	var (
		record  domain.UnitStats
		changed bool
	)
	err := s.update(ctx, func(book domain.Book) bool {
		record, changed = book.Accrue(unitID, minutes)
		return changed
	})
	return record, changed, err
}

func (s *StatsService) SetMastery(ctx context.Context, unitID string, percent int) error {
	if err := requireUnit(unitID); err != nil {
		return err
	}
	return s.update(ctx, func(book domain.Book) bool {
		_, changed := book.SetMastery(unitID, percent)
		return changed
	})
}

func (s *StatsService) Get(ctx context.Context, unitID string) (domain.UnitStats, bool, error) {
	book, err := s.load(ctx)
	if err != nil {
		return domain.UnitStats{}, false, err
	}
	record, ok := book[unitID]
	return record, ok, nil
}

func (s *StatsService) List(ctx context.Context) ([]domain.Entry, error) {
	book, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	return book.Entries(), nil
}

func (s *StatsService) Snapshot(ctx context.Context) (domain.Book, error) {
	book, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	return book.Clone(), nil
}

func (s *StatsService) Replace(ctx context.Context, book domain.Book) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	next := book.Clone()
	next.Normalize()
	return s.store.Save(ctx, next)
}

func (s *StatsService) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.store.Clear(ctx)
}

func (s *StatsService) load(ctx context.Context) (domain.Book, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.store.Load(ctx)
}

func (s *StatsService) update(ctx context.Context, apply func(domain.Book) bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	book, err := s.store.Load(ctx)
	if err != nil {
		return err
	}
	if !apply(book) {
		return nil
	}
	return s.store.Save(ctx, book)
}

func requireUnit(unitID string) error {
	if strings.TrimSpace(unitID) == "" {
		return fmt.Errorf("%w: unit id is required", apperrors.ErrInvalidInput)
	}
	return nil
}
