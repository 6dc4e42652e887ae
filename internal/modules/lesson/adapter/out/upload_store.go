package out

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"dictation/internal/modules/lesson/domain"
	lessonout "dictation/internal/modules/lesson/port/out"
	apperrors "dictation/internal/platform/errors"
	"dictation/internal/platform/slug"
)

const uploadIndexFile = "index.json"

// FileUploadStore keeps uploaded lesson documents as unit-<slug>-<hash>.json next to an index.json of their refs.
type FileUploadStore struct {
	dir string
	mu  sync.Mutex
}

func NewFileUploadStore(dir string) lessonout.UploadStore {
	return &FileUploadStore{dir: dir}
}

func (s *FileUploadStore) List(_ context.Context) ([]domain.UnitRef, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.readIndex()
}

func (s *FileUploadStore) Save(_ context.Context, ref domain.UnitRef, payload []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("create upload dir: %w", err)
	}
	refs, err := s.readIndex()
	if err != nil {
		return err
	}
	if err := writeAtomic(s.documentPath(ref.ID), payload); err != nil {
		return fmt.Errorf("write uploaded unit: %w", err)
	}
	merged := domain.Index{Units: refs}.Merge([]domain.UnitRef{ref})
	raw, err := json.MarshalIndent(merged.Units, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal upload index: %w", err)
	}
	if err := writeAtomic(filepath.Join(s.dir, uploadIndexFile), raw); err != nil {
		return fmt.Errorf("write upload index: %w", err)
	}
	return nil
}

func (s *FileUploadStore) Read(_ context.Context, unitID string) ([]byte, error) {
	payload, err := os.ReadFile(s.documentPath(unitID))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: uploaded unit %s", apperrors.ErrNotFound, unitID)
		}
		return nil, fmt.Errorf("read uploaded unit: %w", err)
	}
	return payload, nil
}

func (s *FileUploadStore) readIndex() ([]domain.UnitRef, error) {
	payload, err := os.ReadFile(filepath.Join(s.dir, uploadIndexFile))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read upload index: %w", err)
	}
	var refs []domain.UnitRef
	if err := json.Unmarshal(payload, &refs); err != nil {
		return nil, fmt.Errorf("decode upload index: %w", err)
	}
	return refs, nil
}

func (s *FileUploadStore) documentPath(unitID string) string {
	return filepath.Join(s.dir, "unit-"+slug.Unique(unitID)+".json")
}

func writeAtomic(path string, payload []byte) error {
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, payload, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}
