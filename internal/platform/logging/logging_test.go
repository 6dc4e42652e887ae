package logging

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestNewFiltersByLevel(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	logger := New("warn", &buf)
	logger.Info("hidden")
	logger.Warn("shown", "unit", "unit5")
	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Fatalf("info line must be filtered: %s", out)
	}
	if !strings.Contains(out, "shown") || !strings.Contains(out, "unit=unit5") {
		t.Fatalf("warn line missing: %s", out)
	}
}

func TestNewFileAppends(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "logs", "dictation.log")
	logger, closer, err := NewFile("debug", path)
	if err != nil {
		t.Fatalf("new file logger: %v", err)
	}
	logger.Named("audio").Debug("warm up")
	if err := closer.Close(); err != nil {
		t.Fatalf("close log: %v", err)
	}
	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	if !strings.Contains(string(b), "dictation.audio: warm up") {
		t.Fatalf("unexpected log content: %s", b)
	}
}
