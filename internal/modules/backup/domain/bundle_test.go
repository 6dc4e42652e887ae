package domain

import (
	"errors"
	"strings"
	"testing"
	"time"

	apperrors "dictation/internal/platform/errors"
)

func TestFileName(t *testing.T) {
	t.Parallel()
	got := FileName(time.Date(2026, 10, 19, 23, 59, 0, 0, time.UTC))
	if got != "english-dictation-backup-2026-10-19.json" {
		t.Fatalf("unexpected file name %s", got)
	}
}

func TestMarshalIncludesEverySection(t *testing.T) {
	t.Parallel()
	payload, err := NewBundle(nil, nil, time.Date(2026, 10, 19, 8, 0, 0, 0, time.UTC)).Marshal()
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	text := string(payload)
	for _, want := range []string{`"starData": {}`, `"learningStats": {}`, `"exportDate": "2026-10-19T08:00:00Z"`, `"version": "1.0"`} {
		if !strings.Contains(text, want) {
			t.Fatalf("missing %s in %s", want, text)
		}
	}
}

func TestParseKeepsSectionPresence(t *testing.T) {
	t.Parallel()
	bundle, err := Parse([]byte(`{"starData":{"w1":3},"version":"1.0"}`))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if bundle.StarData == nil || (*bundle.StarData)["w1"] != 3 {
		t.Fatalf("star data not parsed: %+v", bundle)
	}
	if bundle.LearningStats != nil {
		t.Fatalf("absent section must stay nil")
	}
	if _, err := Parse([]byte("not json")); !errors.Is(err, apperrors.ErrInvalidInput) {
		t.Fatalf("expected invalid input, got %v", err)
	}
}
