package discovery

import (
	"net/url"
	"regexp"
	"strings"

	"go.uber.org/zap"

	"github.com/sells-group/directory-cli/internal/model"
	"github.com/sells-group/directory-cli/internal/normalize"
)

// Screening reason codes.
const (
	ReasonNoName          = "no_name"
	ReasonJunkName        = "junk_name"
	ReasonNoContact       = "no_contact"
	ReasonPlaceholderSite = "placeholder_site"
	ReasonPlaceholderSrc  = "placeholder_source"
	ReasonNoSource        = "no_source"
)

// DefaultDirectoryBlocklist lists hosts whose pages describe a business
// rather than belong to it.
var DefaultDirectoryBlocklist = []string{
	"yelp.com", "facebook.com", "linkedin.com", "yellowpages.com", "bbb.org",
	"google.com", "mapquest.com", "instagram.com", "angi.com", "thumbtack.com",
}

// genericNamePattern matches names that are a bare category with no business
// identity, e.g. "Antique Appraisers" or "Appraisal Services".
var genericNamePattern = regexp.MustCompile(`(?i)^(?:antiques?|art|estate|jewelry)?\s*(?:appraisers?|appraisals?|appraisal services)$`)

// Screen cleans a candidate and decides whether it is usable. A website on a
// directory host is dropped rather than disqualifying the candidate, since
// the phone or email found there may still be good; that page becomes the
// source URL when the candidate has none. A candidate must end up with a
// source URL or its own website, which later stands in as the source.
func Screen(c model.Candidate, blocklist []string) (model.Candidate, bool, string) {
	c.Name = normalize.SanitizePlainTextN(c.Name, 200)
	if c.Name == "" {
		return c, false, ReasonNoName
	}
	if normalize.LooksLikeJunk(c.Name) || genericNamePattern.MatchString(c.Name) {
		return c, false, ReasonJunkName
	}

	if c.Website != "" {
		site := normalize.NormalizeWebsiteURL(c.Website)
		switch {
		case isDirectoryURL(site, blocklist):
			if strings.TrimSpace(c.SourceURL) == "" {
				c.SourceURL = site
			}
			c.Website = ""
		case normalize.IsLikelyPlaceholderURL(site):
			return c, false, ReasonPlaceholderSite
		default:
			c.Website = site
		}
	}
	if c.Website == "" && normalize.NormalizeEmail(c.Email) == "" && normalize.NormalizePhone(c.Phone) == "" {
		return c, false, ReasonNoContact
	}
	c.SourceURL = strings.TrimSpace(c.SourceURL)
	if c.SourceURL != "" && normalize.IsLikelyPlaceholderURL(c.SourceURL) {
		return c, false, ReasonPlaceholderSrc
	}
	if c.SourceURL == "" && c.Website == "" {
		return c, false, ReasonNoSource
	}
	return c, true, ""
}

// ScreenAll screens candidates in order and returns the usable ones plus a
// count of rejections per reason.
func ScreenAll(candidates []model.Candidate, blocklist []string) ([]model.Candidate, map[string]int) {
	kept := make([]model.Candidate, 0, len(candidates))
	rejected := make(map[string]int)
	for _, c := range candidates {
		cleaned, ok, reason := Screen(c, blocklist)
		if !ok {
			rejected[reason]++
			zap.L().Debug("discovery: candidate rejected",
				zap.String("name", c.Name),
				zap.String("location", c.LocationSlug),
				zap.String("reason", reason),
			)
			continue
		}
		kept = append(kept, cleaned)
	}
	return kept, rejected
}

// isDirectoryURL checks if a URL's hostname matches any entry in the blocklist.
func isDirectoryURL(website string, blocklist []string) bool {
	u, err := url.Parse(website)
	if err != nil {
		return false
	}

	host := strings.ToLower(u.Hostname())
	host = strings.TrimPrefix(host, "www.")

	for _, blocked := range blocklist {
		blocked = strings.ToLower(blocked)
		if host == blocked || strings.HasSuffix(host, "."+blocked) {
			return true
		}
	}
	return false
}
