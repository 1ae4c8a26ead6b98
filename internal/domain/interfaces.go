package domain

import (
	"context"
)

// ProgressFunc reports units done against a total. The total is -1 when
// unknown (missing Content-Length).
type ProgressFunc func(current, total int64)

type Resolver interface {
	Resolve(ctx context.Context, version, token string) (string, error)
}

type Fetcher interface {
	Fetch(ctx context.Context, url, dst string, progress ProgressFunc) error
}

type Cache interface {
	Has(version string) bool
	Path(version string) string
	Store(version, src string) (string, error)
	Size() (int64, error)
	Clear() error
}

type Extractor interface {
	Extract(src, dst string, progress ProgressFunc) error
}

type State interface {
	Add(inst *Instance) error
	Get(name string) (*Instance, error)
	List() ([]*Instance, error)
	Remove(name string) error
	Close() error
}
