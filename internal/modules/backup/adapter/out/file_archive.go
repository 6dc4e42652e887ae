package out

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	backupout "dictation/internal/modules/backup/port/out"
	apperrors "dictation/internal/platform/errors"
)

type FileArchive struct{}

func NewFileArchive() backupout.Archive {
	return FileArchive{}
}

func (FileArchive) Write(_ context.Context, path string, payload []byte, defaultName string) (string, error) {
	if path == "" {
		path = defaultName
	} else if info, err := os.Stat(path); err == nil && info.IsDir() {
		path = filepath.Join(path, defaultName)
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return "", fmt.Errorf("create export dir: %w", err)
		}
	}
	if err := os.WriteFile(path, payload, 0o644); err != nil {
		return "", fmt.Errorf("write backup: %w", err)
	}
	return path, nil
}

func (FileArchive) Read(_ context.Context, path string) ([]byte, error) {
	payload, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: backup file %s", apperrors.ErrNotFound, path)
		}
		return nil, fmt.Errorf("read backup: %w", err)
	}
	return payload, nil
}
