package out_test

import (
	"context"
	"errors"
	"testing"

	lessonout "dictation/internal/modules/lesson/adapter/out"
	"dictation/internal/modules/lesson/domain"
	apperrors "dictation/internal/platform/errors"
)

func TestFileUploadStoreReplacesSameID(t *testing.T) {
	t.Parallel()
	store := lessonout.NewFileUploadStore(t.TempDir())
	ctx := context.Background()

	if refs, err := store.List(ctx); err != nil || len(refs) != 0 {
		t.Fatalf("expected empty store, got %v %v", refs, err)
	}
	first := domain.UnitRef{ID: "mine", Title: "Mine", DataURL: "upload://mine", WordsCount: 1}
	if err := store.Save(ctx, first, []byte(`{"v":1}`)); err != nil {
		t.Fatalf("save: %v", err)
	}
	second := domain.UnitRef{ID: "mine", Title: "Mine v2", DataURL: "upload://mine", WordsCount: 2}
	if err := store.Save(ctx, second, []byte(`{"v":2}`)); err != nil {
		t.Fatalf("save again: %v", err)
	}
	if err := store.Save(ctx, domain.UnitRef{ID: "index", Title: "Index"}, []byte(`{"v":3}`)); err != nil {
		t.Fatalf("save index-named unit: %v", err)
	}

	refs, err := store.List(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(refs) != 2 || refs[0].Title != "Mine v2" || refs[0].WordsCount != 2 {
		t.Fatalf("unexpected refs: %+v", refs)
	}
	payload, err := store.Read(ctx, "mine")
	if err != nil || string(payload) != `{"v":2}` {
		t.Fatalf("unexpected payload %q %v", payload, err)
	}
	if _, err := store.Read(ctx, "other"); !errors.Is(err, apperrors.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestFileUploadStoreKeepsSimilarIDsApart(t *testing.T) {
	t.Parallel()
	store := lessonout.NewFileUploadStore(t.TempDir())
	ctx := context.Background()

	docs := map[string]string{
		"第一單元": `{"unit_id":"第一單元","words":[{"english":"apple"}]}`,
		"第二單元": `{"unit_id":"第二單元","words":[{"english":"bag"}]}`,
		"Unit5": `{"unit_id":"Unit5"}`,
		"unit5": `{"unit_id":"unit5"}`,
	}
	for _, id := range []string{"第一單元", "第二單元", "Unit5", "unit5"} {
		if err := store.Save(ctx, domain.UnitRef{ID: id, Title: id}, []byte(docs[id])); err != nil {
			t.Fatalf("save %s: %v", id, err)
		}
	}
	for id, want := range docs {
		payload, err := store.Read(ctx, id)
		if err != nil {
			t.Fatalf("read %s: %v", id, err)
		}
		if string(payload) != want {
			t.Fatalf("read %s returned %s", id, payload)
		}
	}
	if refs, err := store.List(ctx); err != nil || len(refs) != 4 {
		t.Fatalf("expected four refs, got %d %v", len(refs), err)
	}
}
