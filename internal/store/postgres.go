package store

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/directory-cli/internal/db"
	"github.com/sells-group/directory-cli/internal/model"
)

// PostgresStore implements Store using pgxpool.
type PostgresStore struct {
	pool db.Pool
}


// PoolConfig holds optional connection pool tuning parameters.
type PoolConfig struct {
	MaxConns int32 `yaml:"max_conns" mapstructure:"max_conns"`
	MinConns int32 `yaml:"min_conns" mapstructure:"min_conns"`
}

// NewPostgres creates a PostgresStore with a connection pool.
func NewPostgres(ctx context.Context, connString string, poolCfg *PoolConfig) (*PostgresStore, error) {
	pgxCfg, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: parse config")
	}

	maxConns := int32(4)
	minConns := int32(1)
	if poolCfg != nil {
		if poolCfg.MaxConns > 0 {
			maxConns = poolCfg.MaxConns
		}
		if poolCfg.MinConns > 0 {
			minConns = poolCfg.MinConns
		}
	}
	pgxCfg.MaxConns = maxConns
	pgxCfg.MinConns = minConns
	pgxCfg.MaxConnLifetime = 30 * time.Minute
	pgxCfg.MaxConnIdleTime = 5 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, pgxCfg)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: create pool")
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, eris.Wrap(err, "postgres: ping")
	}
	return &PostgresStore{pool: pool}, nil
}

const postgresMigration = `
CREATE TABLE IF NOT EXISTS locations (
	slug       TEXT PRIMARY KEY,
	name       TEXT NOT NULL DEFAULT '',
	state      TEXT NOT NULL DEFAULT '',
	data       JSONB NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS merge_runs (
	id                TEXT PRIMARY KEY DEFAULT gen_random_uuid()::text,
	started_at        TIMESTAMPTZ NOT NULL,
	finished_at       TIMESTAMPTZ NOT NULL,
	base_path         TEXT NOT NULL DEFAULT '',
	output_path       TEXT NOT NULL DEFAULT '',
	sources           JSONB NOT NULL DEFAULT '[]',
	locations         INTEGER NOT NULL DEFAULT 0,
	upgraded_existing INTEGER NOT NULL DEFAULT 0,
	added_new         INTEGER NOT NULL DEFAULT 0,
	skipped_verified  INTEGER NOT NULL DEFAULT 0,
	error_count       INTEGER NOT NULL DEFAULT 0
);

CREATE INDEX IF NOT EXISTS idx_merge_runs_started_at ON merge_runs(started_at DESC);
`

func (s *PostgresStore) Migrate(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, postgresMigration)
	return eris.Wrap(err, "postgres: migrate")
}

func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}

func (s *PostgresStore) SaveLocations(ctx context.Context, locations []model.Location) error {
	n, err := db.UpsertLocations(ctx, s.pool, locations, time.Now())
	if err != nil {
		return eris.Wrap(err, "postgres: save locations")
	}
	zap.L().Debug("postgres: locations saved", zap.Int("locations", len(locations)), zap.Int64("changed", n))
	return nil
}

func (s *PostgresStore) GetLocation(ctx context.Context, slug string) (*model.Location, error) {
	var data []byte
	err := s.pool.QueryRow(ctx, `SELECT data FROM locations WHERE slug = $1`, slug).Scan(&data)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, eris.Wrapf(ErrNotFound, "postgres: location %s", slug)
	}
	if err != nil {
		return nil, eris.Wrapf(err, "postgres: get location %s", slug)
	}
	return decodeLocation(data)
}

func (s *PostgresStore) ListLocations(ctx context.Context) ([]model.Location, error) {
	rows, err := s.pool.Query(ctx, `SELECT data FROM locations ORDER BY slug`)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: list locations")
	}
	defer rows.Close()

	var out []model.Location
	for rows.Next() {
		var data []byte
		if err := rows.Scan(&data); err != nil {
			return nil, eris.Wrap(err, "postgres: scan location")
		}
		loc, err := decodeLocation(data)
		if err != nil {
			return nil, err
		}
		out = append(out, *loc)
	}
	return out, eris.Wrap(rows.Err(), "postgres: iterate locations")
}

func (s *PostgresStore) RecordMergeRun(ctx context.Context, run *MergeRun) error {
	if run.ID == "" {
		run.ID = uuid.New().String()
	}
	sources, err := json.Marshal(nonNil(run.Sources))
	if err != nil {
		return eris.Wrap(err, "postgres: marshal sources")
	}
	_, err = s.pool.Exec(ctx,
		`INSERT INTO merge_runs (id, started_at, finished_at, base_path, output_path, sources,
			locations, upgraded_existing, added_new, skipped_verified, error_count)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		run.ID, run.StartedAt.UTC(), run.FinishedAt.UTC(), run.BasePath, run.OutputPath, sources,
		run.Locations, run.UpgradedExisting, run.AddedNew, run.SkippedVerified, run.ErrorCount,
	)
	return eris.Wrap(err, "postgres: insert merge run")
}

func (s *PostgresStore) ListMergeRuns(ctx context.Context, limit int) ([]MergeRun, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, started_at, finished_at, base_path, output_path, sources,
			locations, upgraded_existing, added_new, skipped_verified, error_count
		FROM merge_runs ORDER BY started_at DESC LIMIT $1`, runLimit(limit))
	if err != nil {
		return nil, eris.Wrap(err, "postgres: list merge runs")
	}
	defer rows.Close()

	var out []MergeRun
	for rows.Next() {
		var r MergeRun
		var sources []byte
		if err := rows.Scan(&r.ID, &r.StartedAt, &r.FinishedAt, &r.BasePath, &r.OutputPath, &sources,
			&r.Locations, &r.UpgradedExisting, &r.AddedNew, &r.SkippedVerified, &r.ErrorCount); err != nil {
			return nil, eris.Wrap(err, "postgres: scan merge run")
		}
		if err := json.Unmarshal(sources, &r.Sources); err != nil {
			return nil, eris.Wrap(err, "postgres: unmarshal sources")
		}
		out = append(out, r)
	}
	return out, eris.Wrap(rows.Err(), "postgres: iterate merge runs")
}
