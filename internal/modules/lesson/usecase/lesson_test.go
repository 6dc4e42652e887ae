package usecase_test

import (
	"context"
	"errors"
	"testing"
	"time"

	lessonout "dictation/internal/modules/lesson/adapter/out"
	"dictation/internal/modules/lesson/dto"
	lessonin "dictation/internal/modules/lesson/port/in"
	lessonport "dictation/internal/modules/lesson/port/out"
	"dictation/internal/modules/lesson/service"
	"dictation/internal/modules/lesson/usecase"
	apperrors "dictation/internal/platform/errors"
	"dictation/internal/platform/logging"
)

type fixedClock struct{ now time.Time }

func (c fixedClock) Now() time.Time { return c.now }

type failingSource struct{ calls int }

func (s *failingSource) Fetch(context.Context, string) ([]byte, error) {
	s.calls++
	return nil, errors.New("connection refused")
}

type mapSource map[string]string

func (m mapSource) Fetch(_ context.Context, location string) ([]byte, error) {
	raw, ok := m[location]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return []byte(raw), nil
}

var now = time.Date(2026, 10, 19, 8, 30, 0, 0, time.UTC)

func newInteractor(t *testing.T, source lessonport.Source) lessonin.Usecase {
	t.Helper()
	svc := service.NewLoaderService(fixedClock{now: now}, source, lessonout.NewFileUploadStore(t.TempDir()), "units-index.json", "unit5", logging.Discard())
	return usecase.NewInteractor(svc)
}

func TestLoadUnitFromSamples(t *testing.T) {
	t.Parallel()
	uc := newInteractor(t, lessonout.NewSampleSource(time.Second))
	ctx := context.Background()

	unitID, err := uc.Resolve(ctx, dto.ResolveInput{Requested: "nope"})
	if err != nil || unitID != "unit5" {
		t.Fatalf("expected default unit, got %q %v", unitID, err)
	}
	unit, err := uc.LoadUnit(ctx, dto.LoadUnitInput{UnitID: unitID})
	if err != nil {
		t.Fatalf("load unit: %v", err)
	}
	if unit.ID != "unit5" || len(unit.Words) == 0 || len(unit.Sentences) == 0 {
		t.Fatalf("unexpected unit: %+v", unit)
	}
	if unit.Words[1].Position != 2 || unit.Words[1].Kind != "words" || unit.Sentences[0].Kind != "sentences" {
		t.Fatalf("items must carry kind and position: %+v", unit.Words[1])
	}
}

func TestIndexFailureYieldsEmptyCatalog(t *testing.T) {
	t.Parallel()
	source := &failingSource{}
	uc := newInteractor(t, source)
	ctx := context.Background()

	index, err := uc.LoadIndex(ctx)
	if !errors.Is(err, apperrors.ErrIndexUnavailable) {
		t.Fatalf("expected index unavailable, got %v", err)
	}
	if len(index.Units) != 0 {
		t.Fatalf("failed index must be empty")
	}
	if _, err := uc.Resolve(ctx, dto.ResolveInput{Requested: "unit1"}); !errors.Is(err, apperrors.ErrIndexUnavailable) {
		t.Fatalf("resolve should surface the index failure, got %v", err)
	}
	if _, err := uc.LoadUnit(ctx, dto.LoadUnitInput{UnitID: "unit1"}); !errors.Is(err, apperrors.ErrIndexUnavailable) {
		t.Fatalf("load unit should surface the index failure, got %v", err)
	}
}

func TestLoadUnitUsesDataURLAndReportsBadDocuments(t *testing.T) {
	t.Parallel()
	source := mapSource{
		"units-index.json":   `{"units":[{"id":"a","title":"A","dataUrl":"custom/a-data.json"},{"id":"b","title":"B"},{"id":"c","title":"C"}]}`,
		"custom/a-data.json": `{"unit_id":"a","unit_title":"A","words":[{"id":"w1","english":"cat","translation":"貓","audio":"w1.mp3"}],"sentences":[]}`,
		"b.json":             `{"unit_id":"b","unit_title":"B"}`,
	}
	uc := newInteractor(t, source)
	ctx := context.Background()

	unit, err := uc.LoadUnit(ctx, dto.LoadUnitInput{UnitID: "a"})
	if err != nil || len(unit.Words) != 1 || unit.Words[0].English != "cat" {
		t.Fatalf("expected unit from dataUrl, got %+v %v", unit, err)
	}
	if _, err := uc.LoadUnit(ctx, dto.LoadUnitInput{UnitID: "b"}); !errors.Is(err, apperrors.ErrUnitUnavailable) {
		t.Fatalf("invalid document should be unavailable, got %v", err)
	}
	if _, err := uc.LoadUnit(ctx, dto.LoadUnitInput{UnitID: "c"}); !errors.Is(err, apperrors.ErrUnitUnavailable) {
		t.Fatalf("missing document should be unavailable, got %v", err)
	}
	if id, _ := uc.Resolve(ctx, dto.ResolveInput{}); id != "a" {
		t.Fatalf("missing default should resolve to the first unit, got %s", id)
	}
}

func TestUploadValidatesThenRegisters(t *testing.T) {
	t.Parallel()
	uc := newInteractor(t, lessonout.NewSampleSource(time.Second))
	ctx := context.Background()

	if _, err := uc.Upload(ctx, dto.UploadInput{Payload: []byte(`{"unit_id":"mine","words":[],"sentences":[]}`)}); !errors.Is(err, apperrors.ErrInvalidUnit) {
		t.Fatalf("expected invalid unit, got %v", err)
	}
	index, err := uc.LoadIndex(ctx)
	if err != nil {
		t.Fatalf("load index: %v", err)
	}
	before := len(index.Units)

	payload := []byte(`{"unit_id":"mine","unit_title":"Mine","words":[{"id":"m1","english":"kite","translation":"風箏","audio":"m1.mp3"}],"sentences":[]}`)
	ref, err := uc.Upload(ctx, dto.UploadInput{Payload: payload})
	if err != nil {
		t.Fatalf("upload: %v", err)
	}
	if ref.Created != "2026-10-19" || ref.Difficulty != "custom" || ref.Description != "自定義上傳單元" || !ref.Uploaded {
		t.Fatalf("unexpected upload metadata: %+v", ref)
	}
	if _, err := uc.Upload(ctx, dto.UploadInput{Payload: payload}); err != nil {
		t.Fatalf("re-upload: %v", err)
	}

	index, err = uc.LoadIndex(ctx)
	if err != nil {
		t.Fatalf("reload index: %v", err)
	}
	if len(index.Units) != before+1 {
		t.Fatalf("same-id upload must replace, got %d units (was %d)", len(index.Units), before)
	}
	unit, err := uc.LoadUnit(ctx, dto.LoadUnitInput{UnitID: "mine"})
	if err != nil || unit.Words[0].English != "kite" {
		t.Fatalf("uploaded unit not loadable: %+v %v", unit, err)
	}
}
