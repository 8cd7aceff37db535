// Package rank orders a location's appraisers by trust and decides which of
// them a location page shows.
package rank

import (
	"cmp"
	"slices"
	"strings"

	"github.com/sells-group/directory-cli/internal/model"
)

// Mode names the selection branch taken for a location.
type Mode string

const (
	ModeTrustFirst    Mode = "trust_first"    // verified only
	ModeVerifiedFirst Mode = "verified_first" // verified, then listed
	ModeListedOnly    Mode = "listed_only"
	ModeFallback      Mode = "fallback" // everything, unfiltered
)

// Selection is the display subset for one location.
type Selection struct {
	LocationSlug string            `json:"location_slug"`
	Mode         Mode              `json:"mode"`
	Verified     int               `json:"verified"`
	Listed       int               `json:"listed"`
	Appraisers   []model.Appraiser `json:"appraisers"`
}

// Ranker applies a Policy. It holds no mutable state and is safe for
// concurrent use.
type Ranker struct {
	trustFirst  map[string]bool
	minVerified int
	minListed   int
}

// New builds a Ranker from p. Zero thresholds take their defaults.
func New(p Policy) *Ranker {
	p = p.withDefaults()
	tf := make(map[string]bool, len(p.TrustFirstLocations))
	for _, slug := range p.TrustFirstLocations {
		tf[strings.TrimSpace(slug)] = true
	}
	return &Ranker{trustFirst: tf, minVerified: p.MinVerified, minListed: p.MinListed}
}

// Sort returns a copy of entries stably ordered by trust rank descending,
// then case-insensitive name ascending.
func Sort(entries []model.Appraiser) []model.Appraiser {
	out := slices.Clone(entries)
	slices.SortStableFunc(out, func(a, b model.Appraiser) int {
		if c := cmp.Compare(b.Rank(), a.Rank()); c != 0 {
			return c
		}
		return cmp.Compare(strings.ToLower(a.Name), strings.ToLower(b.Name))
	})
	return out
}

// TrustFirst reports whether a location with verifiedCount verified entries
// hides listed-only entries.
func (r *Ranker) TrustFirst(locationSlug string, verifiedCount int) bool {
	return r.trustFirst[locationSlug] || verifiedCount >= r.minVerified
}

// Select picks and orders the entries a location page shows:
//   - trust-first with any verified: verified only
//   - any verified: verified, then listed
//   - at least MinListed listed: listed only
//   - otherwise the original list, unfiltered and in stored order
func (r *Ranker) Select(locationSlug string, entries []model.Appraiser) Selection {
	var verified, listed []model.Appraiser
	for _, e := range Sort(entries) {
		switch e.Rank() {
		case 2:
			verified = append(verified, e)
		case 1:
			listed = append(listed, e)
		}
	}

	sel := Selection{LocationSlug: locationSlug, Verified: len(verified), Listed: len(listed)}
	switch {
	case len(verified) > 0 && r.TrustFirst(locationSlug, len(verified)):
		sel.Mode = ModeTrustFirst
		sel.Appraisers = verified
	case len(verified) > 0:
		sel.Mode = ModeVerifiedFirst
		sel.Appraisers = append(verified, listed...)
	case len(listed) >= r.minListed:
		sel.Mode = ModeListedOnly
		sel.Appraisers = listed
	default:
		sel.Mode = ModeFallback
		sel.Appraisers = slices.Clone(entries)
	}
	if sel.Appraisers == nil {
		sel.Appraisers = []model.Appraiser{}
	}
	return sel
}

// SelectLocation is Select over a Location's own slug and entries.
func (r *Ranker) SelectLocation(loc model.Location) Selection {
	return r.Select(loc.Slug, loc.Appraisers)
}
