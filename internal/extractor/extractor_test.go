package extractor

import (
	"archive/tar"
	"bytes"
	"compress/gzip"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type entry struct {
	name string
	body string
	dir  bool
}

func writeArchive(t *testing.T, entries []entry) string {
	t.Helper()

	var buf bytes.Buffer
	gz := gzip.NewWriter(&buf)
	tw := tar.NewWriter(gz)

	for _, e := range entries {
		hdr := &tar.Header{Name: e.name, Mode: 0644}
		if e.dir {
			hdr.Typeflag = tar.TypeDir
			hdr.Mode = 0755
		} else {
			hdr.Typeflag = tar.TypeReg
			hdr.Size = int64(len(e.body))
		}
		require.NoError(t, tw.WriteHeader(hdr))
		if !e.dir {
			_, err := tw.Write([]byte(e.body))
			require.NoError(t, err)
		}
	}

	require.NoError(t, tw.Close())
	require.NoError(t, gz.Close())

	path := filepath.Join(t.TempDir(), "archive.tar.gz")
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0644))
	return path
}

func TestExtractStripsCommonRoot(t *testing.T) {
	t.Parallel()

	src := writeArchive(t, []entry{
		{name: "odoo-18.0/", dir: true},
		{name: "odoo-18.0/addons/", dir: true},
		{name: "odoo-18.0/addons/base/x.py", body: "print('x')"},
		{name: "odoo-18.0/addons/base/__manifest__.py", body: "{}"},
	})
	dst := t.TempDir()

	require.NoError(t, NewTar().Extract(src, dst, nil))

	data, err := os.ReadFile(filepath.Join(dst, "addons", "base", "x.py"))
	require.NoError(t, err)
	assert.Equal(t, "print('x')", string(data))

	_, err = os.Stat(filepath.Join(dst, "addons", "base", "__manifest__.py"))
	assert.NoError(t, err)

	_, err = os.Stat(filepath.Join(dst, "odoo-18.0"))
	assert.True(t, os.IsNotExist(err), "stripped root must not appear under dst")
}

func TestExtractNoCommonRootKeepsLiteralPaths(t *testing.T) {
	t.Parallel()

	src := writeArchive(t, []entry{
		{name: "alpha/", dir: true},
		{name: "alpha/a.txt", body: "a"},
		{name: "beta/b.txt", body: "b"},
	})
	dst := t.TempDir()

	require.NoError(t, NewTar().Extract(src, dst, nil))

	_, err := os.Stat(filepath.Join(dst, "alpha", "a.txt"))
	assert.NoError(t, err)
	_, err = os.Stat(filepath.Join(dst, "beta", "b.txt"))
	assert.NoError(t, err)
}

func TestExtractSingleTopLevelFile(t *testing.T) {
	t.Parallel()

	src := writeArchive(t, []entry{
		{name: "README", body: "hello"},
	})
	dst := t.TempDir()

	require.NoError(t, NewTar().Extract(src, dst, nil))

	data, err := os.ReadFile(filepath.Join(dst, "README"))
	require.NoError(t, err)
	assert.Equal(t, "hello", string(data))
}

func TestExtractReportsMemberProgress(t *testing.T) {
	t.Parallel()

	src := writeArchive(t, []entry{
		{name: "root/", dir: true},
		{name: "root/a", body: "a"},
		{name: "root/b", body: "b"},
	})

	var calls []int64
	var total int64
	err := NewTar().Extract(src, t.TempDir(), func(current, n int64) {
		calls = append(calls, current)
		total = n
	})
	require.NoError(t, err)

	assert.Equal(t, []int64{1, 2, 3}, calls)
	assert.Equal(t, int64(3), total)
}

func TestExtractRejectsTraversal(t *testing.T) {
	t.Parallel()

	src := writeArchive(t, []entry{
		{name: "../evil.txt", body: "x"},
	})

	err := NewTar().Extract(src, t.TempDir(), nil)
	assert.Error(t, err)
}

func TestExtractCorruptStream(t *testing.T) {
	t.Parallel()

	// Valid gzip wrapping bytes that are not a tar stream.
	var buf bytes.Buffer
	gz := gzip.NewWriter(&buf)
	_, err := gz.Write([]byte("this is not a tar archive at all, just some text padding"))
	require.NoError(t, err)
	require.NoError(t, gz.Close())

	src := filepath.Join(t.TempDir(), "bad.tar.gz")
	require.NoError(t, os.WriteFile(src, buf.Bytes(), 0644))

	err = NewTar().Extract(src, t.TempDir(), nil)
	assert.ErrorIs(t, err, ErrCorruptArchive)
}
