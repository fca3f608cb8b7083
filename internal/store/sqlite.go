// Package store caches normalized record sets in SQLite so repeat
// analysis runs skip re-parsing the source document. The cache is a
// caller-side optimization: the pipeline itself never requires it.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"

	"github.com/sells-group/pipeline-insights/internal/model"
)

// Store persists normalized snapshots using modernc.org/sqlite.
type Store struct {
	db *sql.DB
}

// Open opens a SQLite database at the given path and configures WAL mode.
func Open(dsn string) (*Store, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: open")
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, eris.Wrapf(err, "sqlite: exec %s", pragma)
		}
	}
	return &Store{db: db}, nil
}

const migration = `
CREATE TABLE IF NOT EXISTS snapshots (
	id         TEXT PRIMARY KEY,
	source     TEXT NOT NULL,
	records    TEXT NOT NULL,
	row_count  INTEGER NOT NULL,
	created_at DATETIME NOT NULL DEFAULT (datetime('now'))
);

CREATE INDEX IF NOT EXISTS idx_snapshots_source ON snapshots(source);
CREATE INDEX IF NOT EXISTS idx_snapshots_created_at ON snapshots(created_at);
`

// Migrate creates the snapshot schema if it does not exist.
func (s *Store) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, migration)
	return eris.Wrap(err, "sqlite: migrate")
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Snapshot is one saved normalized record set.
type Snapshot struct {
	ID        string         `json:"id"`
	Source    string         `json:"source"`
	Records   []model.Record `json:"records,omitempty"`
	RowCount  int            `json:"row_count"`
	CreatedAt time.Time      `json:"created_at"`
}

// Save stores a normalized record set under a fresh snapshot ID.
func (s *Store) Save(ctx context.Context, source string, records []model.Record) (*Snapshot, error) {
	id := uuid.New().String()
	now := time.Now().UTC()

	payload, err := json.Marshal(records)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: marshal records")
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO snapshots (id, source, records, row_count, created_at) VALUES (?, ?, ?, ?, ?)`,
		id, source, string(payload), len(records), now,
	)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: insert snapshot")
	}

	return &Snapshot{ID: id, Source: source, Records: records, RowCount: len(records), CreatedAt: now}, nil
}

// Get loads a snapshot by ID, records included.
func (s *Store) Get(ctx context.Context, id string) (*Snapshot, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, source, records, row_count, created_at FROM snapshots WHERE id = ?`, id)
	return scanSnapshot(row)
}

// Latest loads the most recent snapshot for a source, records included.
func (s *Store) Latest(ctx context.Context, source string) (*Snapshot, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, source, records, row_count, created_at FROM snapshots
		 WHERE source = ? ORDER BY created_at DESC, id DESC LIMIT 1`, source)
	return scanSnapshot(row)
}

// List returns snapshot metadata (no records), newest first.
func (s *Store) List(ctx context.Context) ([]Snapshot, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, source, row_count, created_at FROM snapshots ORDER BY created_at DESC, id DESC`)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list snapshots")
	}
	defer rows.Close()

	var out []Snapshot
	for rows.Next() {
		var snap Snapshot
		if err := rows.Scan(&snap.ID, &snap.Source, &snap.RowCount, &snap.CreatedAt); err != nil {
			return nil, eris.Wrap(err, "sqlite: scan snapshot")
		}
		out = append(out, snap)
	}
	return out, eris.Wrap(rows.Err(), "sqlite: iterate snapshots")
}

func scanSnapshot(row *sql.Row) (*Snapshot, error) {
	var snap Snapshot
	var payload string
	if err := row.Scan(&snap.ID, &snap.Source, &payload, &snap.RowCount, &snap.CreatedAt); err != nil {
		if err == sql.ErrNoRows {
			return nil, eris.Wrap(err, "sqlite: snapshot not found")
		}
		return nil, eris.Wrap(err, "sqlite: scan snapshot")
	}
	if err := json.Unmarshal([]byte(payload), &snap.Records); err != nil {
		return nil, eris.Wrap(err, "sqlite: unmarshal records")
	}
	return &snap, nil
}
