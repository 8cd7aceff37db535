package store

import (
	"context"
	"time"

	"github.com/rotisserie/eris"

	"github.com/sells-group/directory-cli/internal/model"
	"github.com/sells-group/directory-cli/internal/resilience"
)

// ErrNotFound is returned (wrapped) when a requested row does not exist.
var ErrNotFound = eris.New("store: not found")

// MergeRun records one non-dry-run merge of provider sources into the base
// dataset.
type MergeRun struct {
	ID               string    `json:"id"`
	StartedAt        time.Time `json:"started_at"`
	FinishedAt       time.Time `json:"finished_at"`
	BasePath         string    `json:"base_path"`
	OutputPath       string    `json:"output_path"`
	Sources          []string  `json:"sources"`
	Locations        int       `json:"locations"`
	UpgradedExisting int       `json:"upgraded_existing"`
	AddedNew         int       `json:"added_new"`
	SkippedVerified  int       `json:"skipped_verified"`
	ErrorCount       int       `json:"error_count"`
}

// Store defines the persistence interface for directory locations and merge
// history.
type Store interface {
	// Locations
	SaveLocations(ctx context.Context, locations []model.Location) error
	GetLocation(ctx context.Context, slug string) (*model.Location, error)
	ListLocations(ctx context.Context) ([]model.Location, error)

	// Merge runs
	RecordMergeRun(ctx context.Context, run *MergeRun) error
	ListMergeRuns(ctx context.Context, limit int) ([]MergeRun, error)

	// Lifecycle
	Migrate(ctx context.Context) error
	Close() error
}

// Open returns the store for driver, opened against dsn.
func Open(ctx context.Context, driver, dsn string) (Store, error) {
	switch driver {
	case "sqlite":
		if dsn == "" {
			dsn = "directory.db"
		}
		return NewSQLite(dsn)
	case "postgres":
		retry := resilience.DefaultRetryConfig()
		retry.OnRetry = resilience.RetryLogger("postgres connect")
		return resilience.DoVal(ctx, retry, func(ctx context.Context) (Store, error) {
			return NewPostgres(ctx, dsn, nil)
		})
	default:
		return nil, eris.Errorf("store: unsupported driver %q", driver)
	}
}

// defaultRunLimit caps ListMergeRuns when the caller passes no limit.
const defaultRunLimit = 50

func runLimit(limit int) int {
	if limit <= 0 {
		return defaultRunLimit
	}
	return limit
}
