package normalize

import (
	"net/url"
	"regexp"
	"strings"
)

var schemePrefixes = []string{"http:", "https:", "mailto:", "tel:"}

// NormalizeWebsiteURL returns "" for empty input, input with a known scheme
// unchanged, and anything else with leading slashes stripped and https://
// prepended.
func NormalizeWebsiteURL(input string) string {
	s := strings.TrimSpace(input)
	if s == "" {
		return ""
	}
	lower := strings.ToLower(s)
	for _, p := range schemePrefixes {
		if strings.HasPrefix(lower, p) {
			return s
		}
	}
	s = strings.TrimLeft(s, "/")
	if s == "" {
		return ""
	}
	return "https://" + s
}

// IsValidWebsite reports whether u parses as an http(s) URL with a host.
func IsValidWebsite(u string) bool {
	parsed, err := url.Parse(u)
	if err != nil {
		return false
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return false
	}
	host := parsed.Hostname()
	return host != "" && !strings.ContainsAny(host, " \t") && strings.Contains(host, ".")
}

// WebsiteMatchKey reduces a website to the form used for identity matching:
// normalized, then without scheme, "www." prefix, case or trailing slash.
func WebsiteMatchKey(input string) string {
	s := NormalizeWebsiteURL(input)
	if s == "" {
		return ""
	}
	s = strings.ToLower(s)
	s = strings.TrimPrefix(s, "https://")
	s = strings.TrimPrefix(s, "http://")
	s = strings.TrimPrefix(s, "www.")
	return strings.TrimRight(s, "/")
}

var downtownHost = regexp.MustCompile(`^downtown[a-z0-9-]*\.com$`)

// IsLikelyPlaceholderURL reports whether u is empty, unparseable or points at
// a placeholder host. Matched hosts:
//   - example.com and any subdomain of it
//   - any host containing "example" or "placehold"
//   - generic downtown*.com hosts
func IsLikelyPlaceholderURL(u string) bool {
	s := strings.TrimSpace(u)
	if s == "" {
		return true
	}
	parsed, err := url.Parse(s)
	if err != nil {
		return true
	}
	host := strings.ToLower(parsed.Hostname())
	if host == "" {
		return true
	}
	host = strings.TrimPrefix(host, "www.")
	switch {
	case host == "example.com", strings.HasSuffix(host, ".example.com"):
		return true
	case strings.Contains(host, "example"), strings.Contains(host, "placehold"):
		return true
	case downtownHost.MatchString(host):
		return true
	}
	return false
}

// Origin returns scheme://host for a website, lowercased, or "" when the
// website does not parse. Used to avoid processing one site twice in a run.
func Origin(website string) string {
	s := NormalizeWebsiteURL(website)
	if s == "" {
		return ""
	}
	parsed, err := url.Parse(s)
	if err != nil || parsed.Hostname() == "" {
		return ""
	}
	host := strings.TrimPrefix(strings.ToLower(parsed.Hostname()), "www.")
	return strings.ToLower(parsed.Scheme) + "://" + host
}
