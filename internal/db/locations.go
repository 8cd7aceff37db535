package db

import (
	"context"
	"encoding/json"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/rotisserie/eris"

	"github.com/sells-group/directory-cli/internal/model"
)

// LocationColumns is the column order of staged location rows.
var LocationColumns = []string{"slug", "name", "state", "data", "updated_at"}

const stageTable = "_stage_locations"

const createStage = `CREATE TEMP TABLE _stage_locations (LIKE locations INCLUDING DEFAULTS) ON COMMIT DROP`

// Rows whose document is unchanged are left alone, so updated_at only moves
// when a location actually changed.
const mergeStage = `INSERT INTO locations (slug, name, state, data, updated_at)
SELECT slug, name, state, data, updated_at FROM _stage_locations
ON CONFLICT (slug) DO UPDATE SET
	name = EXCLUDED.name,
	state = EXCLUDED.state,
	data = EXCLUDED.data,
	updated_at = EXCLUDED.updated_at
WHERE locations.data IS DISTINCT FROM EXCLUDED.data`

// LocationRows encodes locations as staged rows stamped with now. A slug
// that appears more than once keeps its last occurrence, in the position of
// its first, since one INSERT cannot touch the same row twice.
func LocationRows(locations []model.Location, now time.Time) ([][]any, error) {
	index := make(map[string]int, len(locations))
	rows := make([][]any, 0, len(locations))
	for _, loc := range locations {
		if loc.Slug == "" {
			return nil, eris.Errorf("db: location %q has no slug", loc.Name)
		}
		data, err := json.Marshal(loc)
		if err != nil {
			return nil, eris.Wrapf(err, "db: marshal location %s", loc.Slug)
		}
		row := []any{loc.Slug, loc.Name, loc.State, data, now.UTC()}
		if i, ok := index[loc.Slug]; ok {
			rows[i] = row
			continue
		}
		index[loc.Slug] = len(rows)
		rows = append(rows, row)
	}
	return rows, nil
}

// UpsertLocations writes locations in one transaction: COPY into a staging
// table dropped on commit, then merge into locations by slug. It returns the
// number of rows inserted or changed.
func UpsertLocations(ctx context.Context, pool Pool, locations []model.Location, now time.Time) (int64, error) {
	rows, err := LocationRows(locations, now)
	if err != nil {
		return 0, err
	}
	if len(rows) == 0 {
		return 0, nil
	}

	tx, err := pool.Begin(ctx)
	if err != nil {
		return 0, eris.Wrap(err, "db: upsert locations: begin tx")
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	if _, err := tx.Exec(ctx, createStage); err != nil {
		return 0, eris.Wrap(err, "db: upsert locations: create staging table")
	}
	if _, err := tx.CopyFrom(ctx, pgx.Identifier{stageTable}, LocationColumns, pgx.CopyFromRows(rows)); err != nil {
		return 0, eris.Wrap(err, "db: upsert locations: copy")
	}
	tag, err := tx.Exec(ctx, mergeStage)
	if err != nil {
		return 0, eris.Wrap(err, "db: upsert locations: merge")
	}
	if err := tx.Commit(ctx); err != nil {
		return 0, eris.Wrap(err, "db: upsert locations: commit tx")
	}
	return tag.RowsAffected(), nil
}
