package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"

	"github.com/sells-group/directory-cli/internal/model"
)

// SQLiteStore implements Store using modernc.org/sqlite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLite opens a SQLite database at the given path and configures WAL mode.
func NewSQLite(dsn string) (*SQLiteStore, error) {
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
			db.Close() //nolint:errcheck,gosec
			return nil, eris.Wrapf(err, "sqlite: exec %s", pragma)
		}
	}
	return &SQLiteStore{db: db}, nil
}

const sqliteMigration = `
CREATE TABLE IF NOT EXISTS locations (
	slug       TEXT PRIMARY KEY,
	name       TEXT NOT NULL DEFAULT '',
	state      TEXT NOT NULL DEFAULT '',
	data       TEXT NOT NULL,
	updated_at DATETIME NOT NULL DEFAULT (datetime('now'))
);

CREATE TABLE IF NOT EXISTS merge_runs (
	id                TEXT PRIMARY KEY,
	started_at        DATETIME NOT NULL,
	finished_at       DATETIME NOT NULL,
	base_path         TEXT NOT NULL DEFAULT '',
	output_path       TEXT NOT NULL DEFAULT '',
	sources           TEXT NOT NULL DEFAULT '[]',
	locations         INTEGER NOT NULL DEFAULT 0,
	upgraded_existing INTEGER NOT NULL DEFAULT 0,
	added_new         INTEGER NOT NULL DEFAULT 0,
	skipped_verified  INTEGER NOT NULL DEFAULT 0,
	error_count       INTEGER NOT NULL DEFAULT 0
);

CREATE INDEX IF NOT EXISTS idx_merge_runs_started_at ON merge_runs(started_at);
`

func (s *SQLiteStore) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, sqliteMigration)
	return eris.Wrap(err, "sqlite: migrate")
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) SaveLocations(ctx context.Context, locations []model.Location) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return eris.Wrap(err, "sqlite: begin tx")
	}
	defer tx.Rollback() //nolint:errcheck

	now := time.Now().UTC()
	for _, loc := range locations {
		data, err := json.Marshal(loc)
		if err != nil {
			return eris.Wrapf(err, "sqlite: marshal location %s", loc.Slug)
		}
		_, err = tx.ExecContext(ctx,
			`INSERT INTO locations (slug, name, state, data, updated_at) VALUES (?, ?, ?, ?, ?)
			ON CONFLICT (slug) DO UPDATE SET name = excluded.name, state = excluded.state,
				data = excluded.data, updated_at = excluded.updated_at`,
			loc.Slug, loc.Name, loc.State, string(data), now,
		)
		if err != nil {
			return eris.Wrapf(err, "sqlite: upsert location %s", loc.Slug)
		}
	}
	return eris.Wrap(tx.Commit(), "sqlite: commit locations")
}

func (s *SQLiteStore) GetLocation(ctx context.Context, slug string) (*model.Location, error) {
	var data string
	err := s.db.QueryRowContext(ctx, `SELECT data FROM locations WHERE slug = ?`, slug).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, eris.Wrapf(ErrNotFound, "sqlite: location %s", slug)
	}
	if err != nil {
		return nil, eris.Wrapf(err, "sqlite: get location %s", slug)
	}
	return decodeLocation([]byte(data))
}

func (s *SQLiteStore) ListLocations(ctx context.Context) ([]model.Location, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT data FROM locations ORDER BY slug`)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list locations")
	}
	defer rows.Close() //nolint:errcheck

	var out []model.Location
	for rows.Next() {
		var data string
		if err := rows.Scan(&data); err != nil {
			return nil, eris.Wrap(err, "sqlite: scan location")
		}
		loc, err := decodeLocation([]byte(data))
		if err != nil {
			return nil, err
		}
		out = append(out, *loc)
	}
	return out, eris.Wrap(rows.Err(), "sqlite: iterate locations")
}

func (s *SQLiteStore) RecordMergeRun(ctx context.Context, run *MergeRun) error {
	if run.ID == "" {
		run.ID = uuid.New().String()
	}
	sources, err := json.Marshal(nonNil(run.Sources))
	if err != nil {
		return eris.Wrap(err, "sqlite: marshal sources")
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO merge_runs (id, started_at, finished_at, base_path, output_path, sources,
			locations, upgraded_existing, added_new, skipped_verified, error_count)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		run.ID, run.StartedAt.UTC(), run.FinishedAt.UTC(), run.BasePath, run.OutputPath, string(sources),
		run.Locations, run.UpgradedExisting, run.AddedNew, run.SkippedVerified, run.ErrorCount,
	)
	return eris.Wrap(err, "sqlite: insert merge run")
}

func (s *SQLiteStore) ListMergeRuns(ctx context.Context, limit int) ([]MergeRun, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, started_at, finished_at, base_path, output_path, sources,
			locations, upgraded_existing, added_new, skipped_verified, error_count
		FROM merge_runs ORDER BY started_at DESC LIMIT ?`, runLimit(limit))
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list merge runs")
	}
	defer rows.Close() //nolint:errcheck

	var out []MergeRun
	for rows.Next() {
		var r MergeRun
		var sources string
		if err := rows.Scan(&r.ID, &r.StartedAt, &r.FinishedAt, &r.BasePath, &r.OutputPath, &sources,
			&r.Locations, &r.UpgradedExisting, &r.AddedNew, &r.SkippedVerified, &r.ErrorCount); err != nil {
			return nil, eris.Wrap(err, "sqlite: scan merge run")
		}
		if err := json.Unmarshal([]byte(sources), &r.Sources); err != nil {
			return nil, eris.Wrap(err, "sqlite: unmarshal sources")
		}
		out = append(out, r)
	}
	return out, eris.Wrap(rows.Err(), "sqlite: iterate merge runs")
}

// helpers

func decodeLocation(data []byte) (*model.Location, error) {
	var loc model.Location
	if err := json.Unmarshal(data, &loc); err != nil {
		return nil, eris.Wrap(err, "store: unmarshal location")
	}
	return &loc, nil
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
