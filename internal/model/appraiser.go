package model

import (
	"encoding/json"

	"github.com/rotisserie/eris"
)

// Appraiser is an entry in the base directory dataset. Fields the directory
// tooling does not interpret (business, content, reviews, metadata and
// anything else) are carried in Extra and written back untouched.
type Appraiser struct {
	ID           string        `json:"id,omitempty"`
	Slug         string        `json:"slug,omitempty"`
	Name         string        `json:"name"`
	Website      string        `json:"website,omitempty"`
	Email        string        `json:"email,omitempty"`
	Phone        string        `json:"phone,omitempty"`
	Address      *Address      `json:"address,omitempty"`
	Specialties  []string      `json:"specialties,omitempty"`
	Services     []string      `json:"services,omitempty"`
	Verification *Verification `json:"verification,omitempty"`
	Verified     bool          `json:"verified,omitempty"`
	Listed       bool          `json:"listed,omitempty"`

	Extra map[string]json.RawMessage `json:"-"`
}

var appraiserKeys = []string{
	"id", "slug", "name", "website", "email", "phone", "address",
	"specialties", "services", "verification", "verified", "listed",
}

// Key is the lookup key used by the merge engine: slug, falling back to id.
func (a Appraiser) Key() string {
	if a.Slug != "" {
		return a.Slug
	}
	return a.ID
}

// Rank is the trust rank of the entry: 2 verified, 1 listed, 0 otherwise.
func (a Appraiser) Rank() int {
	switch {
	case a.Verified:
		return TrustVerified.Rank()
	case a.Listed:
		return TrustListed.Rank()
	default:
		return 0
	}
}

// HasContact reports whether at least one contact channel is present.
func (a Appraiser) HasContact() bool {
	return a.Website != "" || a.Email != "" || a.Phone != ""
}

// UnmarshalJSON decodes the known fields and stashes the rest in Extra.
func (a *Appraiser) UnmarshalJSON(data []byte) error {
	type alias Appraiser
	var tmp alias
	if err := json.Unmarshal(data, &tmp); err != nil {
		return eris.Wrap(err, "appraiser: decode")
	}
	extra, err := extraFields(data, appraiserKeys)
	if err != nil {
		return eris.Wrap(err, "appraiser: decode extra")
	}
	*a = Appraiser(tmp)
	a.Extra = extra
	return nil
}

// MarshalJSON encodes the known fields plus Extra. Known fields win on a
// key collision.
func (a Appraiser) MarshalJSON() ([]byte, error) {
	type alias Appraiser
	return withExtra(alias(a), a.Extra)
}

// Location is a city or region page that owns an ordered list of appraisers.
// Appraiser order is insertion order; display order comes from the ranker.
type Location struct {
	Slug       string      `json:"slug"`
	Name       string      `json:"name"`
	State      string      `json:"state,omitempty"`
	Appraisers []Appraiser `json:"appraisers"`

	Extra map[string]json.RawMessage `json:"-"`
}

var locationKeys = []string{"slug", "name", "state", "appraisers"}

// UnmarshalJSON decodes the known fields and stashes the rest in Extra.
func (l *Location) UnmarshalJSON(data []byte) error {
	type alias Location
	var tmp alias
	if err := json.Unmarshal(data, &tmp); err != nil {
		return eris.Wrap(err, "location: decode")
	}
	extra, err := extraFields(data, locationKeys)
	if err != nil {
		return eris.Wrap(err, "location: decode extra")
	}
	*l = Location(tmp)
	l.Extra = extra
	return nil
}

// MarshalJSON encodes the known fields plus Extra.
func (l Location) MarshalJSON() ([]byte, error) {
	type alias Location
	if l.Appraisers == nil {
		l.Appraisers = []Appraiser{}
	}
	return withExtra(alias(l), l.Extra)
}

func extraFields(data []byte, known []string) (map[string]json.RawMessage, error) {
	var all map[string]json.RawMessage
	if err := json.Unmarshal(data, &all); err != nil {
		return nil, err
	}
	for _, k := range known {
		delete(all, k)
	}
	if len(all) == 0 {
		return nil, nil
	}
	return all, nil
}

func withExtra(v any, extra map[string]json.RawMessage) ([]byte, error) {
	base, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	if len(extra) == 0 {
		return base, nil
	}
	var merged map[string]json.RawMessage
	if err := json.Unmarshal(base, &merged); err != nil {
		return nil, err
	}
	for k, raw := range extra {
		if _, ok := merged[k]; !ok {
			merged[k] = raw
		}
	}
	return json.Marshal(merged)
}
