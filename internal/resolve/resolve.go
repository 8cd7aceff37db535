// Package resolve matches discovered candidates to existing directory
// entries so that one business always ends up under one slug.
package resolve

import (
	"go.uber.org/zap"

	"github.com/sells-group/directory-cli/internal/model"
	"github.com/sells-group/directory-cli/internal/normalize"
)

// Reason says which signal produced a match.
type Reason string

const (
	ReasonWebsite Reason = "website"
	ReasonPhone   Reason = "phone"
	ReasonName    Reason = "name"
	ReasonNew     Reason = "new"
)

// Match is the outcome of resolving one candidate.
type Match struct {
	Slug   string `json:"slug"`
	Reason Reason `json:"reason"`
	Index  int    `json:"index"` // position in the existing list, -1 when new
}

// IsNew reports whether no existing entry matched.
func (m Match) IsNew() bool { return m.Reason == ReasonNew }

type keys struct {
	website string
	phone   string
	name    string
}

func candidateKeys(c model.Candidate) keys {
	return keys{
		website: normalize.WebsiteMatchKey(c.Website),
		phone:   normalize.PhoneMatchKey(c.Phone),
		name:    normalize.NormalizeName(c.Name),
	}
}

func appraiserKeys(a model.Appraiser) keys {
	return keys{
		website: normalize.WebsiteMatchKey(a.Website),
		phone:   normalize.PhoneMatchKey(a.Phone),
		name:    normalize.NormalizeName(a.Name),
	}
}

// same compares two normalized values. Empty never equals empty.
func same(a, b string) bool {
	return a != "" && a == b
}

// Resolve finds the first existing entry that matches the candidate, trying
// website, then phone, then name against each entry in stored order. The
// first entry that matches on any of the three wins, so a list holding near
// duplicates resolves by position. Entries without a slug or id are never
// matched. When nothing matches a new slug is derived from the location and
// candidate name.
func Resolve(locationSlug string, c model.Candidate, existing []model.Appraiser) Match {
	ck := candidateKeys(c)

	for i, entry := range existing {
		key := entry.Key()
		if key == "" {
			continue
		}
		ek := appraiserKeys(entry)

		var reason Reason
		switch {
		case same(ck.website, ek.website):
			reason = ReasonWebsite
		case same(ck.phone, ek.phone):
			reason = ReasonPhone
		case same(ck.name, ek.name):
			reason = ReasonName
		default:
			continue
		}

		zap.L().Debug("resolve: matched existing entry",
			zap.String("location", locationSlug),
			zap.String("candidate", c.Name),
			zap.String("slug", key),
			zap.String("reason", string(reason)),
		)
		return Match{Slug: key, Reason: reason, Index: i}
	}

	return Match{Slug: NewSlug(locationSlug, c.Name), Reason: ReasonNew, Index: -1}
}

// ResolveSlug is Resolve reduced to the slug the candidate belongs under.
func ResolveSlug(locationSlug string, c model.Candidate, existing []model.Appraiser) string {
	return Resolve(locationSlug, c, existing).Slug
}

// NewSlug builds "{locationSlug}-{slugified name}". A name with no usable
// characters becomes "unnamed".
func NewSlug(locationSlug, name string) string {
	s := normalize.Slugify(name)
	if s == "" {
		s = "unnamed"
	}
	return locationSlug + "-" + s
}
