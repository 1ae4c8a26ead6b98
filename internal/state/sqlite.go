package state

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	_ "modernc.org/sqlite"

	"github.com/Arthurvroum/odoo-ci/internal/domain"
)

const schema = `
CREATE TABLE IF NOT EXISTS instances (
    name       TEXT PRIMARY KEY,
    version    TEXT NOT NULL,
    edition    TEXT NOT NULL,
    port       INTEGER NOT NULL,
    path       TEXT NOT NULL,
    created_at TEXT NOT NULL
);
`

type SQLiteState struct {
	mu sync.RWMutex
	db *sql.DB
}

func New(dbPath string) (*SQLiteState, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("failed to create state directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}

	return &SQLiteState{db: db}, nil
}

func (s *SQLiteState) Add(inst *domain.Instance) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.Exec(`
INSERT INTO instances (name, version, edition, port, path, created_at)
VALUES (?, ?, ?, ?, ?, ?)
ON CONFLICT(name) DO UPDATE SET
    version = excluded.version,
    edition = excluded.edition,
    port = excluded.port,
    path = excluded.path,
    created_at = excluded.created_at`,
		inst.Name, inst.Version, inst.Edition, inst.Port, inst.Path,
		inst.CreatedAt.Format(time.RFC3339))
	return err
}

func (s *SQLiteState) Get(name string) (*domain.Instance, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRow(
		"SELECT name, version, edition, port, path, created_at FROM instances WHERE name = ?", name)

	inst, err := scanInstance(row)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("instance %s not found", name)
	}
	return inst, err
}

func (s *SQLiteState) List() ([]*domain.Instance, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.Query(
		"SELECT name, version, edition, port, path, created_at FROM instances ORDER BY created_at")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var instances []*domain.Instance
	for rows.Next() {
		inst, err := scanInstance(rows)
		if err != nil {
			return nil, err
		}
		instances = append(instances, inst)
	}

	return instances, rows.Err()
}

func (s *SQLiteState) Remove(name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.Exec("DELETE FROM instances WHERE name = ?", name)
	if err != nil {
		return err
	}

	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("instance %s not found", name)
	}
	return nil
}

func (s *SQLiteState) Close() error {
	return s.db.Close()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanInstance(row scanner) (*domain.Instance, error) {
	var inst domain.Instance
	var created string

	if err := row.Scan(&inst.Name, &inst.Version, &inst.Edition, &inst.Port, &inst.Path, &created); err != nil {
		return nil, err
	}

	t, err := time.Parse(time.RFC3339, created)
	if err != nil {
		return nil, fmt.Errorf("failed to parse created_at: %w", err)
	}
	inst.CreatedAt = t

	return &inst, nil
}
