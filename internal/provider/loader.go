// Package provider loads provider records from trust-tiered sources,
// validates them and resolves each record's trust tier.
package provider

import (
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/sells-group/directory-cli/internal/model"
	"github.com/sells-group/directory-cli/internal/normalize"
)

// Source is one ordered collection of raw records sharing a default trust
// tier. Records are usually map[string]any decoded from JSON; anything else
// is reported as a record error.
type Source struct {
	Name         string
	Records      []any
	DefaultTrust model.Trust
}

// Options bounds free-text fields.
type Options struct {
	MaxListItems   int
	MaxItemLength  int
	MaxNotesLength int
}

// DefaultOptions mirrors the config defaults.
func DefaultOptions() Options {
	return Options{MaxListItems: 12, MaxItemLength: 80, MaxNotesLength: normalize.MaxTextLength}
}

// Result is the outcome of a load: every record that passed validation and a
// human-readable line for every problem found. Callers decide whether a
// non-empty Errors is fatal.
type Result struct {
	Providers []model.Provider
	Errors    []string
}

// Loader validates provider records.
type Loader struct {
	opts Options
}

// NewLoader creates a loader. Zero option values fall back to defaults.
func NewLoader(opts Options) *Loader {
	def := DefaultOptions()
	if opts.MaxListItems <= 0 {
		opts.MaxListItems = def.MaxListItems
	}
	if opts.MaxItemLength <= 0 {
		opts.MaxItemLength = def.MaxItemLength
	}
	if opts.MaxNotesLength <= 0 {
		opts.MaxNotesLength = def.MaxNotesLength
	}
	return &Loader{opts: opts}
}

// Load validates every record of every source in order. Slug uniqueness is
// checked against reg, so a registry shared by several Load calls enforces
// uniqueness across all of them. A nil reg gets a fresh registry.
func (l *Loader) Load(sources []Source, reg *SlugRegistry) Result {
	if reg == nil {
		reg = NewSlugRegistry()
	}
	var res Result
	for _, src := range sources {
		if src.DefaultTrust.Rank() == 0 {
			zap.L().Warn("provider: source has no valid default trust, using listed",
				zap.String("source", src.Name),
				zap.String("default_trust", string(src.DefaultTrust)),
			)
			src.DefaultTrust = model.TrustListed
		}
		accepted := 0
		for i, raw := range src.Records {
			origin := fmt.Sprintf("%s[%d]", src.Name, i)
			p, errs := l.validate(raw, src.DefaultTrust, origin, reg)
			if len(errs) > 0 {
				for _, e := range errs {
					res.Errors = append(res.Errors, origin+": "+e)
				}
				zap.L().Debug("provider: record rejected",
					zap.String("origin", origin),
					zap.Strings("errors", errs),
				)
				continue
			}
			res.Providers = append(res.Providers, p)
			accepted++
		}
		zap.L().Debug("provider: source loaded",
			zap.String("source", src.Name),
			zap.Int("records", len(src.Records)),
			zap.Int("accepted", accepted),
		)
	}
	return res
}

func (l *Loader) validate(raw any, defaultTrust model.Trust, origin string, reg *SlugRegistry) (model.Provider, []string) {
	rec, ok := raw.(map[string]any)
	if !ok {
		return model.Provider{}, []string{"record is not an object"}
	}

	var errs []string
	p := model.Provider{
		LocationSlug: stringField(rec, "locationSlug"),
		Slug:         stringField(rec, "slug"),
		Name:         normalize.SanitizePlainTextN(stringField(rec, "name"), 200),
	}

	// Required scalars.
	if p.LocationSlug == "" {
		errs = append(errs, "missing locationSlug")
	}
	if p.Name == "" {
		errs = append(errs, "missing name")
	}
	if p.Slug == "" {
		errs = append(errs, "missing slug")
	} else if prev, ok := reg.Claim(p.Slug, origin); !ok {
		errs = append(errs, fmt.Sprintf("duplicate slug %q (first seen at %s)", p.Slug, prev))
	}

	// Contacts.
	if w := normalize.NormalizeWebsiteURL(stringField(rec, "website")); normalize.IsValidWebsite(w) {
		p.Website = w
	}
	p.Email = normalize.NormalizeEmail(stringField(rec, "email"))
	p.Phone = normalize.NormalizePhone(stringField(rec, "phone"))
	if !p.HasContact() {
		errs = append(errs, "no usable contact (website, email or phone)")
	}

	// Address.
	addr := objectField(rec, "address")
	p.Address = model.Address{
		City:    normalize.SanitizePlainTextN(firstString(addr, "city"), 120),
		Region:  normalize.NormalizeRegionCode(firstString(addr, "region", "state")),
		Country: normalize.NormalizeCountryCode(firstString(addr, "country")),
	}
	if p.Address.City == "" {
		p.Address.City = normalize.SanitizePlainTextN(stringField(rec, "city"), 120)
	}
	if p.Address.Region == "" {
		p.Address.Region = normalize.NormalizeRegionCode(firstString(rec, "region", "state"))
	}
	if p.Address.Country == "" {
		p.Address.Country = normalize.NormalizeCountryCode(stringField(rec, "country"))
	}

	// Expertise.
	p.Specialties = normalize.BoundList(listField(rec, "specialties"), l.opts.MaxListItems, l.opts.MaxItemLength)
	p.Services = normalize.BoundList(listField(rec, "services"), l.opts.MaxListItems, l.opts.MaxItemLength)

	// Verification.
	ver := objectField(rec, "verification")
	p.Verification = model.Verification{
		SourceURL:  firstString(ver, "sourceUrl"),
		VerifiedAt: firstString(ver, "verifiedAt"),
		SourceType: normalize.SanitizePlainTextN(firstString(ver, "sourceType"), 60),
		Notes:      normalize.SanitizePlainTextN(firstString(ver, "notes"), l.opts.MaxNotesLength),
	}
	switch {
	case p.Verification.SourceURL == "":
		errs = append(errs, "missing verification.sourceUrl")
	case normalize.IsLikelyPlaceholderURL(p.Verification.SourceURL):
		errs = append(errs, fmt.Sprintf("verification.sourceUrl %q is a placeholder", p.Verification.SourceURL))
	}
	switch {
	case p.Verification.VerifiedAt == "":
		errs = append(errs, "missing verification.verifiedAt")
	case !normalize.IsISODate(p.Verification.VerifiedAt):
		errs = append(errs, fmt.Sprintf("verification.verifiedAt %q is not YYYY-MM-DD", p.Verification.VerifiedAt))
	}

	p.Trust = resolveTrust(rec, ver, defaultTrust)
	return p, errs
}

// resolveTrust prefers an explicit trust on the record, then on its
// verification block (trust or level), then the source default.
func resolveTrust(rec, ver Record, defaultTrust model.Trust) model.Trust {
	for _, s := range []string{
		stringField(rec, "trust"),
		stringField(ver, "trust"),
		stringField(ver, "level"),
	} {
		if t, ok := model.ParseTrust(s); ok {
			return t
		}
	}
	return defaultTrust
}

// SplitByTrust partitions providers into verified and listed, keeping order.
// Providers with any other trust value are dropped.
func SplitByTrust(providers []model.Provider) (verified, listed []model.Provider) {
	for _, p := range providers {
		switch p.Trust {
		case model.TrustVerified:
			verified = append(verified, p)
		case model.TrustListed:
			listed = append(listed, p)
		}
	}
	return verified, listed
}

// GroupByLocation buckets providers by locationSlug, keeping order within
// each bucket. The returned slice lists location slugs in first-seen order.
func GroupByLocation(providers []model.Provider) (map[string][]model.Provider, []string) {
	groups := make(map[string][]model.Provider)
	var order []string
	for _, p := range providers {
		key := strings.TrimSpace(p.LocationSlug)
		if _, ok := groups[key]; !ok {
			order = append(order, key)
		}
		groups[key] = append(groups[key], p)
	}
	return groups, order
}
