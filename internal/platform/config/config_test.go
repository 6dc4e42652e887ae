package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	apperrors "dictation/internal/platform/errors"
)

func TestNewDefaults(t *testing.T) {
	t.Parallel()
	home := t.TempDir()
	cfg, err := New(home)
	if err != nil {
		t.Fatalf("new config: %v", err)
	}
	if cfg.Storage.DBPath != filepath.Join(home, "dictation.db") {
		t.Fatalf("unexpected db path: %s", cfg.Storage.DBPath)
	}
	if cfg.Lessons.DefaultUnit != "unit5" || cfg.Speech.Lang != "en-GB" || cfg.Speech.Rate != 0.85 {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
	if cfg.Study.TickInterval != 30*time.Second || cfg.Study.TickMinutes != 0.5 {
		t.Fatalf("unexpected tick defaults: %+v", cfg.Study)
	}
}

func TestNewRequiresHome(t *testing.T) {
	t.Parallel()
	if _, err := New(" "); !errors.Is(err, apperrors.ErrInvalidInput) {
		t.Fatalf("expected invalid input, got %v", err)
	}
}

func TestNewReadsYAMLAndEnvOverrides(t *testing.T) {
	home := t.TempDir()
	yaml := []byte(`
locale: en-US
lessons:
  source: lessons
  default_unit: unit1
  timeout: 3s
storage:
  backend: file
speech:
  engine: none
  rate: 0.9
study:
  tick_interval: 10s
`)
	if err := os.WriteFile(filepath.Join(home, FileName), yaml, 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv("DICTATION_LESSONS_DEFAULT_UNIT", "unit2")
	t.Setenv("DICTATION_STUDY_TICK_MINUTES", "1.5")

	cfg, err := New(home)
	if err != nil {
		t.Fatalf("new config: %v", err)
	}
	if cfg.Locale != "en-US" || cfg.Storage.Backend != StorageFile || cfg.Speech.Engine != EngineNone {
		t.Fatalf("yaml values not applied: %+v", cfg)
	}
	if cfg.Lessons.Source != filepath.Join(home, "lessons") {
		t.Fatalf("expected lesson source under home, got %s", cfg.Lessons.Source)
	}
	if cfg.Lessons.Timeout != 3*time.Second || cfg.Study.TickInterval != 10*time.Second {
		t.Fatalf("durations not decoded: %+v %+v", cfg.Lessons, cfg.Study)
	}
	if cfg.Lessons.DefaultUnit != "unit2" || cfg.Study.TickMinutes != 1.5 {
		t.Fatalf("env overrides not applied: %+v %+v", cfg.Lessons, cfg.Study)
	}
	if cfg.Speech.Rate != 0.9 || cfg.Speech.Lang != "en-GB" {
		t.Fatalf("speech merge mismatch: %+v", cfg.Speech)
	}
}

func TestNewRejectsUnknownFieldsAndBadValues(t *testing.T) {
	t.Parallel()
	cases := map[string]string{
		"unknown": "colour: red\n",
		"backend": "storage:\n  backend: redis\n",
		"engine":  "speech:\n  engine: plugin\n",
		"volume":  "speech:\n  volume: 2\n",
	}
	for name, body := range cases {
		home := t.TempDir()
		if err := os.WriteFile(filepath.Join(home, FileName), []byte(body), 0o644); err != nil {
			t.Fatalf("%s: write config: %v", name, err)
		}
		if _, err := New(home); !errors.Is(err, apperrors.ErrInvalidInput) {
			t.Fatalf("%s: expected invalid input, got %v", name, err)
		}
	}
}
