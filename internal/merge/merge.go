// Package merge folds validated providers into the base directory dataset,
// upgrading existing entries by slug and appending the rest.
package merge

import (
	"slices"

	"go.uber.org/zap"

	"github.com/sells-group/directory-cli/internal/model"
)

// Counts tallies what a merge did.
type Counts struct {
	UpgradedExisting int `json:"upgradedExisting"`
	AddedNew         int `json:"addedNew"`
	SkippedVerified  int `json:"skippedVerified"` // listed providers that hit a verified entry
}

// Add accumulates other into c.
func (c *Counts) Add(other Counts) {
	c.UpgradedExisting += other.UpgradedExisting
	c.AddedNew += other.AddedNew
	c.SkippedVerified += other.SkippedVerified
}

// Result is the merged appraiser list for one location.
type Result struct {
	Appraisers []model.Appraiser `json:"appraisers"`
	Counts
}

// Location merges verified then listed providers into base and returns the
// full updated list. base is not modified. Verified providers are applied
// first so verified status always wins, and a listed provider never
// downgrades a verified entry. Merging the same providers again adds nothing
// and leaves every field as it was.
func Location(base []model.Appraiser, verified, listed []model.Provider) Result {
	out := slices.Clone(base)
	index := make(map[string]int, len(out))
	for i, a := range out {
		key := a.Key()
		if key == "" {
			continue
		}
		if _, dup := index[key]; !dup {
			index[key] = i
		}
	}

	var counts Counts
	for _, p := range verified {
		if i, ok := index[p.Slug]; ok {
			apply(&out[i], p)
			out[i].Verified = true
			out[i].Listed = false
			counts.UpgradedExisting++
			continue
		}
		entry := newEntry(p)
		entry.Verified = true
		index[p.Slug] = len(out)
		out = append(out, entry)
		counts.AddedNew++
	}

	for _, p := range listed {
		if i, ok := index[p.Slug]; ok {
			if out[i].Verified {
				counts.SkippedVerified++
				zap.L().Debug("merge: listed provider skipped, entry is verified", zap.String("slug", p.Slug))
				continue
			}
			apply(&out[i], p)
			out[i].Listed = true
			out[i].Verified = false
			counts.UpgradedExisting++
			continue
		}
		entry := newEntry(p)
		entry.Listed = true
		index[p.Slug] = len(out)
		out = append(out, entry)
		counts.AddedNew++
	}

	return Result{Appraisers: out, Counts: counts}
}

// apply overwrites contact, address, expertise and verification fields with
// the provider's non-empty values. Legacy fields in Extra are untouched.
func apply(a *model.Appraiser, p model.Provider) {
	if a.Name == "" {
		a.Name = p.Name
	}
	if p.Website != "" {
		a.Website = p.Website
	}
	if p.Email != "" {
		a.Email = p.Email
	}
	if p.Phone != "" {
		a.Phone = p.Phone
	}
	if p.Address != (model.Address{}) {
		addr := p.Address
		a.Address = &addr
	}
	if len(p.Specialties) > 0 {
		a.Specialties = slices.Clone(p.Specialties)
	}
	if len(p.Services) > 0 {
		a.Services = slices.Clone(p.Services)
	}
	ver := p.Verification
	a.Verification = &ver
}

func newEntry(p model.Provider) model.Appraiser {
	a := model.Appraiser{Slug: p.Slug, Name: p.Name}
	apply(&a, p)
	return a
}
