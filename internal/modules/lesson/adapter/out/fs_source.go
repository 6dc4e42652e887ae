package out

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	lessonout "dictation/internal/modules/lesson/port/out"
	apperrors "dictation/internal/platform/errors"
)

//go:embed data/*.json
var sampleData embed.FS

// FSSource reads documents from a file tree. Absolute http(s) locations found in an index are fetched over HTTP.
type FSSource struct {
	fsys   fs.FS
	client *http.Client
}

func NewFSSource(fsys fs.FS, timeout time.Duration) lessonout.Source {
	return &FSSource{fsys: fsys, client: &http.Client{Timeout: timeout}}
}

// NewDirSource serves documents from a local directory.
func NewDirSource(dir string, timeout time.Duration) lessonout.Source {
	return NewFSSource(os.DirFS(dir), timeout)
}

// NewSampleSource serves the bundled sample units.
func NewSampleSource(timeout time.Duration) lessonout.Source {
	sub, err := fs.Sub(sampleData, "data")
	if err != nil {
		panic(err)
	}
	return NewFSSource(sub, timeout)
}

// NewSource picks the source for a configured location: empty for the samples, a URL, or a directory.
func NewSource(location string, timeout time.Duration) (lessonout.Source, error) {
	switch {
	case strings.TrimSpace(location) == "":
		return NewSampleSource(timeout), nil
	case isHTTP(location):
		return NewHTTPSource(location, timeout)
	default:
		return NewDirSource(location, timeout), nil
	}
}

func (s *FSSource) Fetch(ctx context.Context, location string) ([]byte, error) {
	if isHTTP(location) {
		return fetchURL(ctx, s.client, location)
	}
	if filepath.IsAbs(location) {
		return readFile(os.ReadFile(location))
	}
	name := path.Clean(strings.TrimPrefix(filepath.ToSlash(location), "./"))
	if !fs.ValidPath(name) {
		return nil, fmt.Errorf("%w: location %q", apperrors.ErrInvalidInput, location)
	}
	return readFile(fs.ReadFile(s.fsys, name))
}

func readFile(payload []byte, err error) ([]byte, error) {
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %v", apperrors.ErrNotFound, err)
		}
		return nil, fmt.Errorf("read lesson document: %w", err)
	}
	return payload, nil
}

func isHTTP(location string) bool {
	return strings.HasPrefix(location, "http://") || strings.HasPrefix(location, "https://")
}
