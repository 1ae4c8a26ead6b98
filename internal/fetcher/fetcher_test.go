package fetcher

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFetchWritesArchive(t *testing.T) {
	t.Parallel()

	payload := []byte("not-really-a-tarball-but-bytes")
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/octet-stream")
		w.Write(payload)
	}))
	defer srv.Close()

	dst := filepath.Join(t.TempDir(), "odoo-enterprise-18.0.tar.gz")

	var lastCurrent, lastTotal int64
	err := New(time.Minute).Fetch(context.Background(), srv.URL, dst, func(current, total int64) {
		lastCurrent, lastTotal = current, total
	})
	require.NoError(t, err)

	data, err := os.ReadFile(dst)
	require.NoError(t, err)
	assert.Equal(t, payload, data)
	assert.Equal(t, int64(len(payload)), lastCurrent)
	assert.Equal(t, int64(len(payload)), lastTotal)
}

func TestFetchHTMLGuard(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Write([]byte("<html><body>Please log in</body></html>"))
	}))
	defer srv.Close()

	dir := t.TempDir()
	dst := filepath.Join(dir, "odoo-enterprise-18.0.tar.gz")

	err := New(time.Minute).Fetch(context.Background(), srv.URL, dst, nil)
	assert.ErrorIs(t, err, ErrUnexpectedContentType)

	_, err = os.Stat(dst)
	assert.True(t, os.IsNotExist(err), "archive path must stay untouched")

	diag, err := os.ReadFile(filepath.Join(dir, "error_response.html"))
	require.NoError(t, err)
	assert.Contains(t, string(diag), "Please log in")
}

func TestFetchBadStatus(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone", http.StatusNotFound)
	}))
	defer srv.Close()

	dst := filepath.Join(t.TempDir(), "a.tar.gz")
	err := New(time.Minute).Fetch(context.Background(), srv.URL, dst, nil)
	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrUnexpectedContentType)

	_, statErr := os.Stat(dst)
	assert.True(t, os.IsNotExist(statErr))
}

func TestFetchCreatesParentDir(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/gzip")
		w.Write([]byte("x"))
	}))
	defer srv.Close()

	dst := filepath.Join(t.TempDir(), "nested", "deep", "a.tar.gz")
	err := New(time.Minute).Fetch(context.Background(), srv.URL, dst, nil)
	require.NoError(t, err)

	_, err = os.Stat(dst)
	assert.NoError(t, err)
}
