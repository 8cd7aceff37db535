package model

import "strings"

// Trust is the provenance tier of a provider record.
type Trust string

const (
	TrustVerified Trust = "verified" // manually curated or directory-confirmed
	TrustListed   Trust = "listed"   // automated discovery, lighter validation bar
)

// ParseTrust returns the trust tier named by s. The second return value is
// false when s is not one of the two known tiers.
func ParseTrust(s string) (Trust, bool) {
	switch Trust(strings.ToLower(strings.TrimSpace(s))) {
	case TrustVerified:
		return TrustVerified, true
	case TrustListed:
		return TrustListed, true
	default:
		return "", false
	}
}

// Rank orders trust tiers: verified outranks listed, anything else is 0.
func (t Trust) Rank() int {
	switch t {
	case TrustVerified:
		return 2
	case TrustListed:
		return 1
	default:
		return 0
	}
}

// Address is the postal locality of a provider.
type Address struct {
	City    string `json:"city,omitempty"`
	Region  string `json:"region,omitempty"`  // 2-letter state/province code
	Country string `json:"country,omitempty"` // 2-letter country code
}

// Verification records where a provider's data was confirmed.
type Verification struct {
	SourceURL  string `json:"sourceUrl"`
	VerifiedAt string `json:"verifiedAt"` // YYYY-MM-DD
	SourceType string `json:"sourceType,omitempty"`
	Notes      string `json:"notes,omitempty"`
}

// Provider is a validated appraiser record from a source collection, ready
// to be merged into the directory.
type Provider struct {
	LocationSlug string       `json:"locationSlug"`
	Slug         string       `json:"slug"`
	Name         string       `json:"name"`
	Website      string       `json:"website,omitempty"`
	Email        string       `json:"email,omitempty"`
	Phone        string       `json:"phone,omitempty"`
	Address      Address      `json:"address"`
	Specialties  []string     `json:"specialties,omitempty"`
	Services     []string     `json:"services,omitempty"`
	Verification Verification `json:"verification"`
	Trust        Trust        `json:"trust"`
}

// HasContact reports whether at least one contact channel is present.
func (p Provider) HasContact() bool {
	return p.Website != "" || p.Email != "" || p.Phone != ""
}

// Candidate is a raw discovery result that has not been assigned a slug yet.
type Candidate struct {
	LocationSlug string   `json:"locationSlug"`
	Name         string   `json:"name"`
	Website      string   `json:"website,omitempty"`
	Email        string   `json:"email,omitempty"`
	Phone        string   `json:"phone,omitempty"`
	City         string   `json:"city,omitempty"`
	Region       string   `json:"region,omitempty"`
	Country      string   `json:"country,omitempty"`
	Specialties  []string `json:"specialties,omitempty"`
	Services     []string `json:"services,omitempty"`
	SourceURL    string   `json:"sourceUrl,omitempty"`
	SourceType   string   `json:"sourceType,omitempty"`
}
