package cache

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
)

// DiskCache stores one enterprise archive per version under a single
// directory. Entries are never expired; invalidation is manual.
type DiskCache struct {
	sync.RWMutex
	dir string
}

func New(dir string) (*DiskCache, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}

	return &DiskCache{dir: dir}, nil
}

// Path is deterministic and does not touch disk.
func (c *DiskCache) Path(version string) string {
	return filepath.Join(c.dir, fmt.Sprintf("odoo-enterprise-%s.tar.gz", version))
}

// Has reports whether a non-empty archive is cached for version. An empty
// file is treated as absent so a crashed write never poisons the cache.
func (c *DiskCache) Has(version string) bool {
	c.RLock()
	defer c.RUnlock()

	info, err := os.Stat(c.Path(version))
	return err == nil && info.Size() > 0
}

// Store moves the downloaded archive at src into the cache. The copy goes
// through a .part file renamed on success, so a failed Store leaves no
// entry that Has would accept.
func (c *DiskCache) Store(version, src string) (string, error) {
	c.Lock()
	defer c.Unlock()

	if err := os.MkdirAll(c.dir, 0755); err != nil {
		return "", err
	}

	dst := c.Path(version)

	if err := os.Rename(src, dst); err == nil {
		return dst, nil
	}

	// Rename fails across filesystems; fall back to copy via temp file.
	in, err := os.Open(src)
	if err != nil {
		return "", err
	}
	defer in.Close()

	part := dst + ".part"
	out, err := os.Create(part)
	if err != nil {
		return "", err
	}

	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		os.Remove(part)
		return "", err
	}
	if err := out.Close(); err != nil {
		os.Remove(part)
		return "", err
	}

	if err := os.Rename(part, dst); err != nil {
		os.Remove(part)
		return "", err
	}

	os.Remove(src)
	return dst, nil
}

func (c *DiskCache) Size() (int64, error) {
	c.RLock()
	defer c.RUnlock()

	var size int64

	err := filepath.Walk(c.dir, func(_ string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}

		if !info.IsDir() {
			size += info.Size()
		}
		return nil
	})

	return size, err
}

func (c *DiskCache) Clear() error {
	c.Lock()
	defer c.Unlock()

	return os.RemoveAll(c.dir)
}
