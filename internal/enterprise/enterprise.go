package enterprise

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/Arthurvroum/odoo-ci/internal/domain"
)

type Stage string

const (
	StageCacheHit    Stage = "cache-hit"
	StageResolving   Stage = "resolving"
	StageDownloading Stage = "downloading"
	StageExtracting  Stage = "extracting"
)

// Events carries optional presentation callbacks. The manager emits plain
// progress data; rendering belongs to the caller.
type Events struct {
	Stage    func(stage Stage)
	Download domain.ProgressFunc
	Extract  domain.ProgressFunc
}

// Manager turns a version and an access token into an extracted enterprise
// source tree, keeping one cached archive per version across invocations.
type Manager struct {
	resolver  domain.Resolver
	fetcher   domain.Fetcher
	cache     domain.Cache
	extractor domain.Extractor
	events    Events
}

func New(resolver domain.Resolver, fetcher domain.Fetcher, cache domain.Cache, extractor domain.Extractor, events Events) *Manager {
	return &Manager{
		resolver:  resolver,
		fetcher:   fetcher,
		cache:     cache,
		extractor: extractor,
		events:    events,
	}
}

// Ensure populates destDir with the enterprise sources for version. A
// cached archive is extracted directly; otherwise the archive is resolved,
// downloaded into destDir, moved into the cache and then extracted. A
// failed cache-hit extraction is surfaced as-is, it does not trigger a
// re-download.
func (m *Manager) Ensure(ctx context.Context, version, token, destDir string) error {
	version = domain.NormalizeVersion(version)

	if err := os.MkdirAll(destDir, 0755); err != nil {
		return err
	}

	if m.cache.Has(version) {
		m.emit(StageCacheHit)
		m.emit(StageExtracting)
		if err := m.extractor.Extract(m.cache.Path(version), destDir, m.events.Extract); err != nil {
			return fmt.Errorf("extracting cached archive: %w", err)
		}
		return nil
	}

	m.emit(StageResolving)
	url, err := m.resolver.Resolve(ctx, version, token)
	if err != nil {
		return err
	}

	m.emit(StageDownloading)
	staging := filepath.Join(destDir, fmt.Sprintf("odoo-enterprise-%s.tar.gz", version))
	if err := m.fetcher.Fetch(ctx, url, staging, m.events.Download); err != nil {
		return err
	}

	archive, err := m.cache.Store(version, staging)
	if err != nil {
		return fmt.Errorf("caching archive: %w", err)
	}

	m.emit(StageExtracting)
	if err := m.extractor.Extract(archive, destDir, m.events.Extract); err != nil {
		return fmt.Errorf("extracting archive: %w", err)
	}

	return nil
}

func (m *Manager) emit(stage Stage) {
	if m.events.Stage != nil {
		m.events.Stage(stage)
	}
}
