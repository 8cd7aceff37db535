package resolve

import (
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/sells-group/directory-cli/internal/model"
	"github.com/sells-group/directory-cli/internal/normalize"
)

// Skip reasons for candidates that a batch does not resolve.
const (
	SkipNoLocation      = "no_location"
	SkipUnknownLocation = "unknown_location"
	SkipNoName          = "no_name"
	SkipSeenOrigin      = "seen_origin"
	SkipLocationCap     = "location_cap"
	SkipAlreadyResolved = "already_resolved"
)

// BatchOptions tunes a batch run.
type BatchOptions struct {
	// MaxPerLocation caps accepted candidates per location; 0 means no cap.
	MaxPerLocation int
}

// Resolution pairs a candidate with its match.
type Resolution struct {
	Candidate model.Candidate `json:"candidate"`
	Match     Match           `json:"match"`
}

// Skipped is a candidate the batch did not resolve.
type Skipped struct {
	Candidate model.Candidate `json:"candidate"`
	Reason    string          `json:"reason"`
}

// BatchResult is the outcome of ResolveBatch.
type BatchResult struct {
	Resolved []Resolution `json:"resolved"`
	Skipped  []Skipped    `json:"skipped"`
}

// Counts tallies resolutions by reason.
func (r BatchResult) Counts() map[Reason]int {
	out := make(map[Reason]int)
	for _, res := range r.Resolved {
		out[res.Match.Reason]++
	}
	return out
}

// ResolveBatch resolves candidates in order against the given locations.
// Each accepted candidate joins its location's working list, so a later
// discovery of the same business matches it and is skipped as already
// resolved. A website origin is processed at most once per batch. New slugs
// that collide with a slug already in the working list get a numeric suffix.
func ResolveBatch(locations []model.Location, candidates []model.Candidate, opts BatchOptions) BatchResult {
	working := make(map[string][]model.Appraiser, len(locations))
	for _, loc := range locations {
		working[loc.Slug] = append([]model.Appraiser(nil), loc.Appraisers...)
	}

	seenOrigins := make(map[string]bool)
	resolvedSlugs := make(map[string]bool)
	accepted := make(map[string]int)
	var res BatchResult

	skip := func(c model.Candidate, reason string) {
		res.Skipped = append(res.Skipped, Skipped{Candidate: c, Reason: reason})
		zap.L().Debug("resolve: candidate skipped",
			zap.String("candidate", c.Name),
			zap.String("location", c.LocationSlug),
			zap.String("reason", reason),
		)
	}

	for _, c := range candidates {
		loc := strings.TrimSpace(c.LocationSlug)
		switch {
		case loc == "":
			skip(c, SkipNoLocation)
			continue
		case strings.TrimSpace(c.Name) == "":
			skip(c, SkipNoName)
			continue
		}
		list, ok := working[loc]
		if !ok {
			skip(c, SkipUnknownLocation)
			continue
		}
		origin := normalize.Origin(c.Website)
		if origin != "" && seenOrigins[origin] {
			skip(c, SkipSeenOrigin)
			continue
		}
		if opts.MaxPerLocation > 0 && accepted[loc] >= opts.MaxPerLocation {
			skip(c, SkipLocationCap)
			continue
		}

		m := Resolve(loc, c, list)
		if resolvedSlugs[m.Slug] {
			// Another candidate in this batch already claimed the entry.
			skip(c, SkipAlreadyResolved)
			continue
		}
		if m.IsNew() {
			m.Slug = uniqueSlug(m.Slug, list)
			working[loc] = append(list, model.Appraiser{
				Slug:    m.Slug,
				Name:    c.Name,
				Website: c.Website,
				Phone:   c.Phone,
			})
		}
		if origin != "" {
			seenOrigins[origin] = true
		}
		resolvedSlugs[m.Slug] = true
		accepted[loc]++
		res.Resolved = append(res.Resolved, Resolution{Candidate: c, Match: m})
	}

	counts := res.Counts()
	zap.L().Info("resolve: batch complete",
		zap.Int("candidates", len(candidates)),
		zap.Int("matched_website", counts[ReasonWebsite]),
		zap.Int("matched_phone", counts[ReasonPhone]),
		zap.Int("matched_name", counts[ReasonName]),
		zap.Int("new", counts[ReasonNew]),
		zap.Int("skipped", len(res.Skipped)),
	)
	return res
}

func uniqueSlug(slug string, list []model.Appraiser) string {
	taken := make(map[string]bool, len(list))
	for _, a := range list {
		taken[a.Key()] = true
	}
	if !taken[slug] {
		return slug
	}
	for n := 2; ; n++ {
		candidate := fmt.Sprintf("%s-%d", slug, n)
		if !taken[candidate] {
			return candidate
		}
	}
}

// ToProvider turns a resolved candidate into a listed provider record dated
// verifiedAt. A candidate without a source URL is sourced from its own
// website. The record still has to pass the provider loader.
func (r Resolution) ToProvider(verifiedAt time.Time) model.Provider {
	c := r.Candidate
	sourceType := c.SourceType
	if sourceType == "" {
		sourceType = "discovery"
	}
	website := normalize.NormalizeWebsiteURL(strings.TrimSpace(c.Website))
	sourceURL := strings.TrimSpace(c.SourceURL)
	if sourceURL == "" && !normalize.IsLikelyPlaceholderURL(website) {
		sourceURL = website
	}
	return model.Provider{
		LocationSlug: strings.TrimSpace(c.LocationSlug),
		Slug:         r.Match.Slug,
		Name:         strings.TrimSpace(c.Name),
		Website:      website,
		Email:        strings.TrimSpace(c.Email),
		Phone:        strings.TrimSpace(c.Phone),
		Address: model.Address{
			City:    strings.TrimSpace(c.City),
			Region:  normalize.NormalizeRegionCode(c.Region),
			Country: normalize.NormalizeCountryCode(c.Country),
		},
		Specialties: c.Specialties,
		Services:    c.Services,
		Verification: model.Verification{
			SourceURL:  sourceURL,
			VerifiedAt: verifiedAt.UTC().Format(time.DateOnly),
			SourceType: sourceType,
			Notes:      fmt.Sprintf("resolved by %s", r.Match.Reason),
		},
		Trust: model.TrustListed,
	}
}
