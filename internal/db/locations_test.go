package db

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/directory-cli/internal/model"
)

var now = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func newMockPool(t *testing.T) pgxmock.PgxPoolIface {
	t.Helper()
	mock, err := pgxmock.NewPool(pgxmock.QueryMatcherOption(pgxmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { mock.Close() })
	return mock
}

func TestLocationRows_LastOccurrenceWins(t *testing.T) {
	rows, err := LocationRows([]model.Location{
		{Slug: "springfield", Name: "Springfield", State: "IL"},
		{Slug: "smallville", Name: "Smallville"},
		{Slug: "springfield", Name: "Springfield", State: "MO"},
	}, now)
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, "springfield", rows[0][0])
	assert.Equal(t, "MO", rows[0][2])
	assert.Equal(t, now, rows[0][4])
	assert.Equal(t, "smallville", rows[1][0])

	var loc model.Location
	require.NoError(t, json.Unmarshal(rows[0][3].([]byte), &loc))
	assert.Equal(t, "MO", loc.State)
}

func TestLocationRows_MissingSlug(t *testing.T) {
	_, err := LocationRows([]model.Location{{Name: "Nowhere"}}, now)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "has no slug")
}

func TestUpsertLocations_Empty(t *testing.T) {
	mock := newMockPool(t)
	n, err := UpsertLocations(context.Background(), mock, nil, now)
	require.NoError(t, err)
	assert.Zero(t, n)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpsertLocations(t *testing.T) {
	mock := newMockPool(t)

	mock.ExpectBegin()
	mock.ExpectExec(`CREATE TEMP TABLE _stage_locations \(LIKE locations INCLUDING DEFAULTS\) ON COMMIT DROP`).
		WillReturnResult(pgxmock.NewResult("CREATE", 0))
	mock.ExpectCopyFrom(pgx.Identifier{"_stage_locations"}, LocationColumns).WillReturnResult(2)
	mock.ExpectExec(`(?s)INSERT INTO locations.*ON CONFLICT \(slug\) DO UPDATE SET.*WHERE locations\.data IS DISTINCT FROM EXCLUDED\.data`).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectCommit()

	n, err := UpsertLocations(context.Background(), mock, []model.Location{
		{Slug: "springfield", Name: "Springfield"},
		{Slug: "smallville", Name: "Smallville"},
	}, now)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpsertLocations_CopyErrorRollsBack(t *testing.T) {
	mock := newMockPool(t)

	mock.ExpectBegin()
	mock.ExpectExec(`CREATE TEMP TABLE`).WillReturnResult(pgxmock.NewResult("CREATE", 0))
	mock.ExpectCopyFrom(pgx.Identifier{"_stage_locations"}, LocationColumns).
		WillReturnError(errors.New("copy failed"))
	mock.ExpectRollback()

	_, err := UpsertLocations(context.Background(), mock, []model.Location{{Slug: "springfield"}}, now)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "db: upsert locations: copy")
	assert.NoError(t, mock.ExpectationsWereMet())
}
