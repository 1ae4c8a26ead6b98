package fetcher

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/Arthurvroum/odoo-ci/internal/domain"
)

// ErrUnexpectedContentType means the server answered with an HTML page
// (usually its own error or login page) instead of the archive.
var ErrUnexpectedContentType = errors.New("server returned an HTML page instead of the archive")

const errorPageName = "error_response.html"

type HTTPFetcher struct {
	client *http.Client
}

func New(timeout time.Duration) *HTTPFetcher {
	return &HTTPFetcher{client: &http.Client{Timeout: timeout}}
}

func NewWithClient(client *http.Client) *HTTPFetcher {
	return &HTTPFetcher{client: client}
}

// Fetch streams url to dst. The response content type is inspected before
// any archive byte is written: an HTML answer is persisted next to dst as
// a diagnostic and reported as ErrUnexpectedContentType. Progress is
// reported per chunk against Content-Length (-1 when absent).
func (f *HTTPFetcher) Fetch(ctx context.Context, url, dst string, progress domain.ProgressFunc) error {
	req, err := http.NewRequestWithContext(ctx, "GET", url, nil)
	if err != nil {
		return err
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return fmt.Errorf("downloading archive: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("downloading archive: unexpected status: %d", resp.StatusCode)
	}

	if strings.Contains(resp.Header.Get("Content-Type"), "text/html") {
		diag := filepath.Join(filepath.Dir(dst), errorPageName)
		if err := saveBody(diag, resp.Body); err != nil {
			return fmt.Errorf("%w (failed to save response: %v)", ErrUnexpectedContentType, err)
		}
		return fmt.Errorf("%w (response saved to %s)", ErrUnexpectedContentType, diag)
	}

	if err := os.MkdirAll(filepath.Dir(dst), 0755); err != nil {
		return err
	}

	file, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer file.Close()

	pw := &progressWriter{total: resp.ContentLength, fn: progress}
	if _, err := io.Copy(io.MultiWriter(file, pw), resp.Body); err != nil {
		os.Remove(dst)
		return fmt.Errorf("downloading archive: %w", err)
	}

	return nil
}

func saveBody(path string, body io.Reader) error {
	out, err := os.Create(path)
	if err != nil {
		return err
	}
	defer out.Close()

	_, err = io.Copy(out, body)
	return err
}

type progressWriter struct {
	total   int64
	written int64
	fn      domain.ProgressFunc
}

func (w *progressWriter) Write(p []byte) (int, error) {
	w.written += int64(len(p))
	if w.fn != nil {
		w.fn(w.written, w.total)
	}
	return len(p), nil
}
