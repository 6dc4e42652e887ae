package service

import (
	"context"
	"fmt"
	"strings"
	"sync"

	hclog "github.com/hashicorp/go-hclog"

	"dictation/internal/modules/lesson/domain"
	lessonout "dictation/internal/modules/lesson/port/out"
	"dictation/internal/platform/clock"
	apperrors "dictation/internal/platform/errors"
)

type LoaderService struct {
	clock       clock.Clock
	source      lessonout.Source
	uploads     lessonout.UploadStore
	indexFile   string
	defaultUnit string
	logger      hclog.Logger

	mu     sync.Mutex
	index  domain.Index
	loaded bool
}

func NewLoaderService(clock clock.Clock, source lessonout.Source, uploads lessonout.UploadStore, indexFile, defaultUnit string, logger hclog.Logger) *LoaderService {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	return &LoaderService{
		clock:       clock,
		source:      source,
		uploads:     uploads,
		indexFile:   indexFile,
		defaultUnit: defaultUnit,
		logger:      logger,
	}
}

// LoadIndex fetches the index and merges registered uploads. On failure the catalog is empty.
func (s *LoaderService) LoadIndex(ctx context.Context) (domain.Index, error) {
	raw, err := s.source.Fetch(ctx, s.indexFile)
	if err != nil {
		s.logger.Warn("fetch unit index failed", "file", s.indexFile, "error", err)
		s.remember(domain.Index{}, false)
		return domain.Index{}, fmt.Errorf("%w: %v", apperrors.ErrIndexUnavailable, err)
	}
	index, err := domain.ParseIndex(raw)
	if err != nil {
		s.logger.Warn("parse unit index failed", "file", s.indexFile, "error", err)
		s.remember(domain.Index{}, false)
		return domain.Index{}, fmt.Errorf("%w: %v", apperrors.ErrIndexUnavailable, err)
	}
	uploads, err := s.uploads.List(ctx)
	if err != nil {
		s.logger.Warn("list uploaded units failed", "error", err)
	} else {
		index = index.Merge(uploads)
	}
	s.remember(index, true)
	return index, nil
}

// Index returns the last loaded index, loading it on first use.
func (s *LoaderService) Index(ctx context.Context) (domain.Index, error) {
	s.mu.Lock()
	index, loaded := s.index, s.loaded
	s.mu.Unlock()
	if loaded {
		return index, nil
	}
	return s.LoadIndex(ctx)
}

func (s *LoaderService) LoadUnit(ctx context.Context, unitID string) (domain.Unit, error) {
	unitID = strings.TrimSpace(unitID)
	if unitID == "" {
		return domain.Unit{}, fmt.Errorf("%w: unit id is required", apperrors.ErrInvalidInput)
	}
	index, err := s.Index(ctx)
	if err != nil {
		return domain.Unit{}, err
	}
	ref, ok := index.Find(unitID)
	if !ok {
		ref = domain.UnitRef{ID: unitID}
	}

	var raw []byte
	if ref.IsUpload() {
		raw, err = s.uploads.Read(ctx, strings.TrimPrefix(ref.DataURL, domain.UploadScheme))
	} else {
		raw, err = s.source.Fetch(ctx, ref.Location())
	}
	if err != nil {
		s.logger.Warn("fetch unit failed", "unit", unitID, "location", ref.Location(), "error", err)
		return domain.Unit{}, fmt.Errorf("%w: %s: %v", apperrors.ErrUnitUnavailable, unitID, err)
	}
	doc, err := domain.ParseDocument(raw)
	if err != nil {
		s.logger.Warn("parse unit failed", "unit", unitID, "error", err)
		return domain.Unit{}, fmt.Errorf("%w: %s: %v", apperrors.ErrUnitUnavailable, unitID, err)
	}
	return doc.Unit(unitID), nil
}

// Resolve applies the unit selection rule against the current index.
func (s *LoaderService) Resolve(ctx context.Context, requested string) (string, error) {
	index, err := s.Index(ctx)
	if err != nil {
		return "", err
	}
	unitID, ok := index.Resolve(strings.TrimSpace(requested), s.defaultUnit)
	if !ok {
		return "", fmt.Errorf("%w: index has no units", apperrors.ErrNotFound)
	}
	return unitID, nil
}

// Upload validates payload before anything is written, then registers it.
func (s *LoaderService) Upload(ctx context.Context, payload []byte) (domain.UnitRef, error) {
	doc, err := domain.ParseDocument(payload)
	if err != nil {
		return domain.UnitRef{}, err
	}
	ref := doc.UploadRef(clock.Day(s.clock.Now()))
	if err := s.uploads.Save(ctx, ref, payload); err != nil {
		return domain.UnitRef{}, err
	}
	s.logger.Info("unit uploaded", "unit", ref.ID, "words", ref.WordsCount, "sentences", ref.SentencesCount)

	s.mu.Lock()
	if s.loaded {
		s.index = s.index.Merge([]domain.UnitRef{ref})
	}
	s.mu.Unlock()
	return ref, nil
}

func (s *LoaderService) remember(index domain.Index, loaded bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.index = index
	s.loaded = loaded
}
