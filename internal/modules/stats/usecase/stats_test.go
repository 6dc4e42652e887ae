package usecase_test

import (
	"context"
	"testing"
	"time"

	statsout "dictation/internal/modules/stats/adapter/out"
	"dictation/internal/modules/stats/dto"
	statsin "dictation/internal/modules/stats/port/in"
	"dictation/internal/modules/stats/service"
	"dictation/internal/modules/stats/usecase"
	"dictation/internal/platform/logging"
	"dictation/internal/platform/storage"
)

type fakeClock struct {
	values []time.Time
	idx    int
}

func (f *fakeClock) Now() time.Time {
	if f.idx >= len(f.values) {
		return f.values[len(f.values)-1]
	}
	v := f.values[f.idx]
	f.idx++
	return v
}

func newUsecase(t *testing.T, clk *fakeClock) (statsin.Usecase, storage.Store) {
	t.Helper()
	kv, err := storage.NewSQLiteStore(t.TempDir() + "/stats.db")
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { _ = kv.Close() })
	return usecase.NewInteractor(service.NewStatsService(clk, statsout.NewKVStatsStore(kv, logging.Discard()))), kv
}

func TestVisitsTicksAndMastery(t *testing.T) {
	t.Parallel()
	first := time.Date(2026, 10, 18, 20, 0, 0, 0, time.UTC)
	second := time.Date(2026, 10, 19, 7, 45, 0, 0, time.UTC)
	uc, _ := newUsecase(t, &fakeClock{values: []time.Time{first, second}})
	ctx := context.Background()

	out, err := uc.AccrueTime(ctx, dto.AccrueInput{UnitID: "unit5", Minutes: 0.5})
	if err != nil || out.Found {
		t.Fatalf("tick before any visit must be ignored: %+v %v", out, err)
	}
	if err := uc.SetMastery(ctx, dto.SetMasteryInput{UnitID: "unit5", Percent: 50}); err != nil {
		t.Fatalf("set mastery: %v", err)
	}
	if got, _ := uc.Get(ctx, "unit5"); got.Found {
		t.Fatalf("mastery alone must not create a record")
	}

	if _, err := uc.RecordVisit(ctx, "unit5"); err != nil {
		t.Fatalf("visit: %v", err)
	}
	if _, err := uc.RecordVisit(ctx, "unit5"); err != nil {
		t.Fatalf("visit: %v", err)
	}
	for i := 0; i < 3; i++ {
		if _, err := uc.AccrueTime(ctx, dto.AccrueInput{UnitID: "unit5", Minutes: 0.5}); err != nil {
			t.Fatalf("tick: %v", err)
		}
	}
	if err := uc.SetMastery(ctx, dto.SetMasteryInput{UnitID: "unit5", Percent: 67}); err != nil {
		t.Fatalf("set mastery: %v", err)
	}

	got, err := uc.Get(ctx, "unit5")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if !got.Found || got.Sessions != 2 || got.TotalTime != 1.5 || got.Mastery != 67 || !got.LastAccessed.Equal(second) {
		t.Fatalf("unexpected record: %+v", got)
	}
}

func TestSnapshotReplaceAndClear(t *testing.T) {
	t.Parallel()
	now := time.Date(2026, 10, 19, 9, 0, 0, 0, time.UTC)
	uc, kv := newUsecase(t, &fakeClock{values: []time.Time{now}})
	ctx := context.Background()

	records := map[string]dto.Record{
		"unit1": {TotalTime: 12.5, LastAccessed: now, Sessions: 3, Mastery: 40},
		"unit5": {TotalTime: 1, Sessions: 1},
	}
	if err := uc.Replace(ctx, dto.ReplaceInput{Records: records}); err != nil {
		t.Fatalf("replace: %v", err)
	}
	snapshot, err := uc.Snapshot(ctx)
	if err != nil {
		t.Fatalf("snapshot: %v", err)
	}
	if len(snapshot) != 2 || !sameRecord(snapshot["unit1"], records["unit1"]) || !sameRecord(snapshot["unit5"], records["unit5"]) {
		t.Fatalf("snapshot mismatch: %+v", snapshot)
	}
	list, err := uc.List(ctx)
	if err != nil || len(list) != 2 || list[0].UnitID != "unit1" {
		t.Fatalf("unexpected list: %+v %v", list, err)
	}

	if err := uc.Clear(ctx); err != nil {
		t.Fatalf("clear: %v", err)
	}
	if _, err := kv.Get(ctx, storage.KeyLearningStats); err == nil {
		t.Fatalf("clear must remove the stored key")
	}
	if list, _ := uc.List(ctx); len(list) != 0 {
		t.Fatalf("expected empty list after clear")
	}
}

func TestCorruptStatsReadAsEmpty(t *testing.T) {
	t.Parallel()
	uc, kv := newUsecase(t, &fakeClock{values: []time.Time{time.Now()}})
	ctx := context.Background()
	if err := kv.Put(ctx, storage.KeyLearningStats, []byte(`[1,2,3]`)); err != nil {
		t.Fatalf("seed: %v", err)
	}
	list, err := uc.List(ctx)
	if err != nil || len(list) != 0 {
		t.Fatalf("expected empty list, got %v %v", list, err)
	}
}

func sameRecord(a, b dto.Record) bool {
	return a.TotalTime == b.TotalTime && a.Sessions == b.Sessions && a.Mastery == b.Mastery && a.LastAccessed.Equal(b.LastAccessed)
}
