package out

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	lessonout "dictation/internal/modules/lesson/port/out"
	apperrors "dictation/internal/platform/errors"
)

const maxDocumentBytes = 4 << 20

type HTTPSource struct {
	base   *url.URL
	client *http.Client
}

// NewHTTPSource resolves relative locations against baseURL, which is treated as a directory.
func NewHTTPSource(baseURL string, timeout time.Duration) (lessonout.Source, error) {
	if !strings.HasSuffix(baseURL, "/") {
		baseURL += "/"
	}
	base, err := url.Parse(baseURL)
	if err != nil || (base.Scheme != "http" && base.Scheme != "https") {
		return nil, fmt.Errorf("%w: lesson source url %q", apperrors.ErrInvalidInput, baseURL)
	}
	return &HTTPSource{base: base, client: &http.Client{Timeout: timeout}}, nil
}

func (s *HTTPSource) Fetch(ctx context.Context, location string) ([]byte, error) {
	ref, err := url.Parse(location)
	if err != nil {
		return nil, fmt.Errorf("%w: location %q", apperrors.ErrInvalidInput, location)
	}
	return fetchURL(ctx, s.client, s.base.ResolveReference(ref).String())
}

func fetchURL(ctx context.Context, client *http.Client, target string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("get %s: %w", target, err)
	}
	defer resp.Body.Close()
	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, fmt.Errorf("%w: %s", apperrors.ErrNotFound, target)
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		return nil, fmt.Errorf("get %s: status %d", target, resp.StatusCode)
	}
	payload, err := io.ReadAll(io.LimitReader(resp.Body, maxDocumentBytes))
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", target, err)
	}
	return payload, nil
}
