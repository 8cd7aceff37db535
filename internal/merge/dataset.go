package merge

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/sells-group/directory-cli/internal/model"
	"github.com/sells-group/directory-cli/internal/provider"
)

// LocationCounts is the per-location breakdown of a dataset merge.
type LocationCounts struct {
	LocationSlug string `json:"locationSlug"`
	Counts
}

// DatasetResult is the outcome of merging providers into every location.
type DatasetResult struct {
	Locations  []model.Location `json:"locations"`
	ByLocation []LocationCounts `json:"byLocation"`
	Total      Counts           `json:"total"`
	// Errors lists providers that could not be placed, such as those naming
	// a location the dataset does not have.
	Errors []string `json:"errors,omitempty"`
}

// Dataset groups providers by location and merges each group into its
// location, one location at a time in dataset order. Locations without
// providers are carried over unchanged.
func Dataset(locations []model.Location, providers []model.Provider) DatasetResult {
	groups, order := provider.GroupByLocation(providers)

	known := make(map[string]bool, len(locations))
	for _, loc := range locations {
		known[loc.Slug] = true
	}

	var res DatasetResult
	for _, slug := range order {
		if known[slug] {
			continue
		}
		for _, p := range groups[slug] {
			res.Errors = append(res.Errors, fmt.Sprintf("provider %s: unknown location %q", p.Slug, slug))
		}
	}

	res.Locations = make([]model.Location, 0, len(locations))
	for _, loc := range locations {
		group, ok := groups[loc.Slug]
		if !ok {
			res.Locations = append(res.Locations, loc)
			continue
		}

		verified, listed := provider.SplitByTrust(group)
		merged := Location(loc.Appraisers, verified, listed)
		loc.Appraisers = merged.Appraisers
		res.Locations = append(res.Locations, loc)
		res.ByLocation = append(res.ByLocation, LocationCounts{LocationSlug: loc.Slug, Counts: merged.Counts})
		res.Total.Add(merged.Counts)

		zap.L().Debug("merge: location merged",
			zap.String("location", loc.Slug),
			zap.Int("upgraded", merged.UpgradedExisting),
			zap.Int("added", merged.AddedNew),
			zap.Int("skipped_verified", merged.SkippedVerified),
		)
	}

	zap.L().Info("merge: dataset merged",
		zap.Int("locations", len(res.ByLocation)),
		zap.Int("upgraded", res.Total.UpgradedExisting),
		zap.Int("added", res.Total.AddedNew),
		zap.Int("skipped_verified", res.Total.SkippedVerified),
		zap.Int("errors", len(res.Errors)),
	)
	return res
}
