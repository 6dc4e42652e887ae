package usecase_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	audiodomain "dictation/internal/modules/audio/domain"
	audioout "dictation/internal/modules/audio/adapter/out"
	audioport "dictation/internal/modules/audio/port/out"
	audioservice "dictation/internal/modules/audio/service"
	audiousecase "dictation/internal/modules/audio/usecase"
	lessonout "dictation/internal/modules/lesson/adapter/out"
	lessonport "dictation/internal/modules/lesson/port/out"
	lessonservice "dictation/internal/modules/lesson/service"
	lessonusecase "dictation/internal/modules/lesson/usecase"
	masteryout "dictation/internal/modules/mastery/adapter/out"
	masteryservice "dictation/internal/modules/mastery/service"
	masteryusecase "dictation/internal/modules/mastery/usecase"
	statsout "dictation/internal/modules/stats/adapter/out"
	statsservice "dictation/internal/modules/stats/service"
	statsusecase "dictation/internal/modules/stats/usecase"
	studyout "dictation/internal/modules/study/adapter/out"
	"dictation/internal/modules/study/dto"
	studyin "dictation/internal/modules/study/port/in"
	"dictation/internal/modules/study/service"
	"dictation/internal/modules/study/usecase"
	apperrors "dictation/internal/platform/errors"
	"dictation/internal/platform/logging"
	"dictation/internal/platform/storage"
)

const indexJSON = `{"units":[{"id":"unit1","title":"Unit 1"},{"id":"unit2","title":"Unit 2"}]}`

const unit1JSON = `{
  "unit_id": "unit1",
  "unit_title": "Unit 1",
  "words": [
    {"id": "w1", "english": "cat", "translation": "貓", "audio": "w1.mp3"},
    {"id": "w2", "english": "dog", "translation": "狗", "audio": "w2.mp3"}
  ],
  "sentences": [
    {"id": "s1", "english": "The cat sleeps.", "translation": "貓在睡覺。", "audio": "s1.mp3"}
  ]
}`

const unit2JSON = `{
  "unit_id": "unit2",
  "unit_title": "Unit 2",
  "words": [{"id": "u2w1", "english": "rain", "translation": "雨", "audio": "u2w1.mp3"}],
  "sentences": []
}`

type fixedClock struct{ now time.Time }

func (c fixedClock) Now() time.Time { return c.now }

type mapSource map[string]string

func (m mapSource) Fetch(_ context.Context, location string) ([]byte, error) {
	raw, ok := m[location]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return []byte(raw), nil
}

type failingSource struct{}

func (failingSource) Fetch(context.Context, string) ([]byte, error) {
	return nil, errors.New("connection refused")
}

// countingStore counts writes that reach storage.
type countingStore struct {
	storage.Store
	mu     sync.Mutex
	writes int
}

func (s *countingStore) Put(ctx context.Context, key string, value []byte) error {
	s.mu.Lock()
	s.writes++
	s.mu.Unlock()
	return s.Store.Put(ctx, key, value)
}

func (s *countingStore) Delete(ctx context.Context, key string) error {
	s.mu.Lock()
	s.writes++
	s.mu.Unlock()
	return s.Store.Delete(ctx, key)
}

func (s *countingStore) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.writes
}

type holdEngine struct {
	mu     sync.Mutex
	spoken []string
}

func (e *holdEngine) Available() bool { return true }

func (e *holdEngine) Speak(ctx context.Context, utterance audiodomain.Utterance, started func()) error {
	e.mu.Lock()
	e.spoken = append(e.spoken, utterance.Text)
	e.mu.Unlock()
	if started != nil {
		started()
	}
	<-ctx.Done()
	return ctx.Err()
}

func (e *holdEngine) Describe(context.Context) (audiodomain.EngineInfo, error) {
	return audiodomain.EngineInfo{Name: "hold", Available: true}, nil
}

func (e *holdEngine) texts() []string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]string(nil), e.spoken...)
}

var now = time.Date(2026, 10, 19, 9, 0, 0, 0, time.UTC)

type fixture struct {
	kv *countingStore
	uc studyin.Usecase
}

func newFixture(t *testing.T, source lessonport.Source, engine audioport.Engine, kv *countingStore) fixture {
	t.Helper()
	if kv == nil {
		kv = &countingStore{Store: storage.NewFileStore(t.TempDir())}
	}
	log := logging.Discard()
	clk := fixedClock{now: now}
	lesson := lessonusecase.NewInteractor(lessonservice.NewLoaderService(clk, source, lessonout.NewFileUploadStore(t.TempDir()), "units-index.json", "unit1", log))
	mastery := masteryusecase.NewInteractor(masteryservice.NewMasteryService(masteryout.NewKVStarStore(kv, log)))
	stats := statsusecase.NewInteractor(statsservice.NewStatsService(clk, statsout.NewKVStatsStore(kv, log)))
	audio := audiousecase.NewInteractor(audioservice.NewController(engine, audioservice.Options{Grace: time.Millisecond, SpeakDelay: time.Millisecond}))
	svc := service.NewStudyService(service.Deps{
		Lesson:      lesson,
		Mastery:     mastery,
		Stats:       stats,
		Audio:       audio,
		Current:     studyout.NewKVCurrentUnitStore(kv, clk),
		TickMinutes: 0.5,
		Logger:      log,
	})
	uc := usecase.NewInteractor(svc)
	t.Cleanup(func() { _ = uc.Close(context.Background()) })
	return fixture{kv: kv, uc: uc}
}

func samples() mapSource {
	return mapSource{"units-index.json": indexJSON, "unit1.json": unit1JSON, "unit2.json": unit2JSON}
}

func TestFiveCorrectAnswersMasterAWord(t *testing.T) {
	t.Parallel()
	f := newFixture(t, samples(), audioout.NewNullEngine(), nil)
	ctx := context.Background()

	ws, err := f.uc.Open(ctx, dto.OpenInput{UnitID: "unit1", Visit: true})
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if ws.Words[0].ID != "w1" || ws.Words[0].Stars != 0 || ws.Words[0].Flipped {
		t.Fatalf("unexpected first card: %+v", ws.Words[0])
	}

	flipped, err := f.uc.Flip(ctx, "w1")
	if err != nil {
		t.Fatalf("flip: %v", err)
	}
	if !errors.Is(flipped.AudioErr, apperrors.ErrSpeechUnavailable) {
		t.Fatalf("missing engine should be reported, got %v", flipped.AudioErr)
	}
	if !flipped.Card.Flipped || !flipped.Card.CorrectEnabled || flipped.Card.ReviewEnabled {
		t.Fatalf("back of a new card: %+v", flipped.Card)
	}

	var mark dto.MarkOutput
	for i := 0; i < 5; i++ {
		if mark, err = f.uc.MarkCorrect(ctx, "w1"); err != nil {
			t.Fatalf("correct %d: %v", i+1, err)
		}
	}
	if mark.Card.Stars != 5 || mark.Card.CorrectEnabled || !mark.Card.ReviewEnabled {
		t.Fatalf("expected mastered card, got %+v", mark.Card)
	}
	if mark.Card.English != "cat" || mark.Card.Translation != "貓" || mark.Card.Audio != "w1.mp3" {
		t.Fatalf("card content changed: %+v", mark.Card)
	}
	if mark.Overall.Mastered != 1 || mark.Overall.Percent != 33 {
		t.Fatalf("unexpected overall: %+v", mark.Overall)
	}

	writes := f.kv.count()
	sixth, err := f.uc.MarkCorrect(ctx, "w1")
	if err != nil || sixth.Changed || sixth.Card.Stars != 5 {
		t.Fatalf("sixth correct must be a no-op: %+v %v", sixth, err)
	}
	if f.kv.count() != writes {
		t.Fatalf("no-op mark must not write")
	}

	overview, err := f.uc.Overview(ctx)
	if err != nil {
		t.Fatalf("overview: %v", err)
	}
	if !overview.Unit.Found || overview.Unit.Sessions != 1 || overview.Unit.Mastery != 33 {
		t.Fatalf("unexpected unit stats: %+v", overview.Unit)
	}
	if overview.Words.Mastered != 1 || overview.Sentences.Review != 1 {
		t.Fatalf("unexpected tab summaries: %+v %+v", overview.Words, overview.Sentences)
	}
}

func TestIndexFailureOpensNothing(t *testing.T) {
	t.Parallel()
	f := newFixture(t, failingSource{}, audioout.NewNullEngine(), nil)
	ctx := context.Background()

	if _, err := f.uc.Open(ctx, dto.OpenInput{Visit: true}); !errors.Is(err, apperrors.ErrIndexUnavailable) {
		t.Fatalf("expected index unavailable, got %v", err)
	}
	if _, err := f.uc.Current(ctx); !errors.Is(err, apperrors.ErrNoActiveUnit) {
		t.Fatalf("no unit may be active, got %v", err)
	}
	if _, err := f.uc.MarkCorrect(ctx, "w1"); !errors.Is(err, apperrors.ErrNoActiveUnit) {
		t.Fatalf("marks need an open unit, got %v", err)
	}
	if err := f.uc.Tick(ctx); err != nil {
		t.Fatalf("tick without a unit is a no-op: %v", err)
	}
	if f.kv.count() != 0 {
		t.Fatalf("nothing may be written, saw %d writes", f.kv.count())
	}
}

func TestSwitchingUnitsKeepsOtherProgress(t *testing.T) {
	t.Parallel()
	f := newFixture(t, samples(), audioout.NewNullEngine(), nil)
	ctx := context.Background()

	if _, err := f.uc.Open(ctx, dto.OpenInput{UnitID: "unit1", Visit: true}); err != nil {
		t.Fatalf("open unit1: %v", err)
	}
	for i := 0; i < 2; i++ {
		if _, err := f.uc.MarkCorrect(ctx, "s1"); err != nil {
			t.Fatalf("correct s1: %v", err)
		}
	}
	if _, err := f.uc.Open(ctx, dto.OpenInput{UnitID: "unit2", Visit: true}); err != nil {
		t.Fatalf("open unit2: %v", err)
	}
	if _, err := f.uc.MarkCorrect(ctx, "s1"); !errors.Is(err, apperrors.ErrNotFound) {
		t.Fatalf("items of another unit are not markable, got %v", err)
	}
	if _, err := f.uc.MarkCorrect(ctx, "u2w1"); err != nil {
		t.Fatalf("correct u2w1: %v", err)
	}

	back, err := f.uc.Open(ctx, dto.OpenInput{UnitID: "unit1", Visit: true})
	if err != nil {
		t.Fatalf("reopen unit1: %v", err)
	}
	if back.Sentences[0].Stars != 2 {
		t.Fatalf("unit1 progress lost: %+v", back.Sentences[0])
	}
	overview, err := f.uc.Overview(ctx)
	if err != nil {
		t.Fatalf("overview: %v", err)
	}
	if len(overview.All) != 2 {
		t.Fatalf("both units should have statistics: %+v", overview.All)
	}
	if overview.Unit.Sessions != 2 {
		t.Fatalf("two visits to unit1, got %d", overview.Unit.Sessions)
	}
}

func TestRememberedUnitIsReopened(t *testing.T) {
	t.Parallel()
	kv := &countingStore{Store: storage.NewFileStore(t.TempDir())}
	ctx := context.Background()

	first := newFixture(t, samples(), audioout.NewNullEngine(), kv)
	if _, err := first.uc.Open(ctx, dto.OpenInput{UnitID: "unit2", Visit: true}); err != nil {
		t.Fatalf("open unit2: %v", err)
	}

	second := newFixture(t, samples(), audioout.NewNullEngine(), kv)
	ws, err := second.uc.Open(ctx, dto.OpenInput{Visit: true})
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	if ws.UnitID != "unit2" {
		t.Fatalf("expected remembered unit2, got %s", ws.UnitID)
	}

	fresh := newFixture(t, samples(), audioout.NewNullEngine(), nil)
	ws, err = fresh.uc.Open(ctx, dto.OpenInput{UnitID: "missing"})
	if err != nil || ws.UnitID != "unit1" {
		t.Fatalf("unknown unit falls back to the default: %s %v", ws.UnitID, err)
	}
}

func TestResetsNeedConfirmation(t *testing.T) {
	t.Parallel()
	f := newFixture(t, samples(), audioout.NewNullEngine(), nil)
	ctx := context.Background()

	if _, err := f.uc.Open(ctx, dto.OpenInput{UnitID: "unit1", Visit: true}); err != nil {
		t.Fatalf("open: %v", err)
	}
	for _, id := range []string{"w1", "w2", "s1"} {
		if _, err := f.uc.MarkCorrect(ctx, id); err != nil {
			t.Fatalf("correct %s: %v", id, err)
		}
	}
	if _, err := f.uc.Flip(ctx, "w1"); err != nil {
		t.Fatalf("flip: %v", err)
	}

	if err := f.uc.ResetTab(ctx, dto.ResetTabInput{Kind: "words"}); !errors.Is(err, apperrors.ErrConfirmationRequired) {
		t.Fatalf("expected confirmation required, got %v", err)
	}
	if err := f.uc.ResetTab(ctx, dto.ResetTabInput{Kind: "stats", Confirmed: true}); !errors.Is(err, apperrors.ErrInvalidInput) {
		t.Fatalf("only word and sentence tabs reset, got %v", err)
	}
	if err := f.uc.ResetTab(ctx, dto.ResetTabInput{Kind: "words", Confirmed: true}); err != nil {
		t.Fatalf("reset words: %v", err)
	}
	ws, err := f.uc.Current(ctx)
	if err != nil {
		t.Fatalf("current: %v", err)
	}
	if ws.Words[0].Stars != 0 || ws.Words[1].Stars != 0 || ws.Words[0].Flipped {
		t.Fatalf("words should be reset and unflipped: %+v", ws.Words)
	}
	if ws.Sentences[0].Stars != 1 {
		t.Fatalf("sentences must be untouched: %+v", ws.Sentences[0])
	}

	if err := f.uc.ResetAll(ctx, false); !errors.Is(err, apperrors.ErrConfirmationRequired) {
		t.Fatalf("expected confirmation required, got %v", err)
	}
	if err := f.uc.ResetAll(ctx, true); err != nil {
		t.Fatalf("reset all: %v", err)
	}
	overview, err := f.uc.Overview(ctx)
	if err != nil {
		t.Fatalf("overview: %v", err)
	}
	if overview.Overall.Review != 3 || !overview.Unit.Found || overview.Unit.Sessions != 0 || len(overview.All) != 1 {
		t.Fatalf("open unit should start over without counting a visit: %+v", overview)
	}
}

func TestFlipSpeaksAndFlipBackStops(t *testing.T) {
	t.Parallel()
	engine := &holdEngine{}
	f := newFixture(t, samples(), engine, nil)
	ctx := context.Background()

	if _, err := f.uc.Open(ctx, dto.OpenInput{UnitID: "unit1", Visit: true}); err != nil {
		t.Fatalf("open: %v", err)
	}
	out, err := f.uc.Flip(ctx, "w1")
	if err != nil || out.AudioErr != nil {
		t.Fatalf("flip: %v %v", err, out.AudioErr)
	}
	if !out.Card.Playing {
		t.Fatalf("flipped card should own playback: %+v", out.Card)
	}

	back, err := f.uc.Flip(ctx, "w1")
	if err != nil {
		t.Fatalf("flip back: %v", err)
	}
	if back.Card.Flipped || back.Card.Playing {
		t.Fatalf("front card must be silent: %+v", back.Card)
	}
	if texts := engine.texts(); len(texts) > 1 || (len(texts) == 1 && texts[0] != "cat") {
		t.Fatalf("unexpected speech: %v", texts)
	}

	played, err := f.uc.Play(ctx, "s1")
	if err != nil || played.Outcome != string(audiodomain.OutcomeRequested) {
		t.Fatalf("play s1: %+v %v", played, err)
	}
	stopped, err := f.uc.Play(ctx, "s1")
	if err != nil || stopped.Outcome != string(audiodomain.OutcomeStopped) {
		t.Fatalf("second press stops: %+v %v", stopped, err)
	}
}

func TestTickAccruesToOpenUnit(t *testing.T) {
	t.Parallel()
	f := newFixture(t, samples(), audioout.NewNullEngine(), nil)
	ctx := context.Background()

	if _, err := f.uc.Open(ctx, dto.OpenInput{UnitID: "unit1", Visit: true}); err != nil {
		t.Fatalf("open: %v", err)
	}
	for i := 0; i < 3; i++ {
		if err := f.uc.Tick(ctx); err != nil {
			t.Fatalf("tick: %v", err)
		}
	}
	overview, err := f.uc.Overview(ctx)
	if err != nil {
		t.Fatalf("overview: %v", err)
	}
	if overview.Unit.TotalTime != 1.5 {
		t.Fatalf("expected 1.5 minutes, got %v", overview.Unit.TotalTime)
	}
	if _, err := f.uc.SelectTab(ctx, "sentences"); err != nil {
		t.Fatalf("select tab: %v", err)
	}
	ws, err := f.uc.Reload(ctx)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if ws.Tab != "sentences" {
		t.Fatalf("reload keeps the tab, got %s", ws.Tab)
	}
	if overview, _ = f.uc.Overview(ctx); overview.Unit.Sessions != 2 {
		t.Fatalf("reload counts a visit, got %d", overview.Unit.Sessions)
	}
}
