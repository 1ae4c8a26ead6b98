package state

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Arthurvroum/odoo-ci/internal/domain"
)

func newTestState(t *testing.T) *SQLiteState {
	t.Helper()

	s, err := New(filepath.Join(t.TempDir(), "instances.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestAddGetRoundTrip(t *testing.T) {
	t.Parallel()

	s := newTestState(t)

	inst := &domain.Instance{
		Name:      "odoo-18.0-enterprise",
		Version:   "18.0",
		Edition:   "enterprise",
		Port:      8069,
		Path:      "/tmp/odoo-18.0-enterprise",
		CreatedAt: time.Now().Truncate(time.Second),
	}
	require.NoError(t, s.Add(inst))

	got, err := s.Get("odoo-18.0-enterprise")
	require.NoError(t, err)
	assert.Equal(t, inst.Version, got.Version)
	assert.Equal(t, inst.Port, got.Port)
	assert.True(t, inst.CreatedAt.Equal(got.CreatedAt))
}

func TestAddUpsertsExistingName(t *testing.T) {
	t.Parallel()

	s := newTestState(t)

	inst := &domain.Instance{Name: "odoo-16.0-community", Version: "16.0", Edition: "community", Port: 8069, Path: "/a", CreatedAt: time.Now()}
	require.NoError(t, s.Add(inst))

	inst.Port = 8099
	require.NoError(t, s.Add(inst))

	got, err := s.Get("odoo-16.0-community")
	require.NoError(t, err)
	assert.Equal(t, 8099, got.Port)

	all, err := s.List()
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestGetMissing(t *testing.T) {
	t.Parallel()

	s := newTestState(t)

	_, err := s.Get("odoo-99.0-community")
	assert.ErrorContains(t, err, "not found")
}

func TestListAndRemove(t *testing.T) {
	t.Parallel()

	s := newTestState(t)

	for i, name := range []string{"odoo-16.0-community", "odoo-18.0-enterprise"} {
		require.NoError(t, s.Add(&domain.Instance{
			Name:      name,
			Version:   "x",
			Edition:   "community",
			Port:      8069 + i,
			Path:      "/tmp/" + name,
			CreatedAt: time.Now().Add(time.Duration(i) * time.Second),
		}))
	}

	all, err := s.List()
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "odoo-16.0-community", all[0].Name)

	require.NoError(t, s.Remove("odoo-16.0-community"))
	assert.ErrorContains(t, s.Remove("odoo-16.0-community"), "not found")

	all, err = s.List()
	require.NoError(t, err)
	assert.Len(t, all, 1)
}
