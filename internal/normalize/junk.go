package normalize

import "regexp"

// junkPatterns match artifacts of scraped or generated content that should
// never be shown as a specialty or service. This is a heuristic filter: some
// false positives and misses are expected.
var junkPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\bas an ai\b`),
	regexp.MustCompile(`(?i)\blanguage model\b`),
	regexp.MustCompile(`(?i)\bi (?:cannot|can't|am unable to) (?:browse|access|verify)\b`),
	regexp.MustCompile(`(?i)\blorem ipsum\b`),
	regexp.MustCompile(`(?i)\[citation needed\]`),
	regexp.MustCompile(`(?i)\bplaceholder\b`),
	regexp.MustCompile(`(?i)^(?:n/?a|tbd|todo|unknown|none|null|undefined)$`),
	regexp.MustCompile(`(?i)\bclick here\b`),
}

// LooksLikeJunk reports whether s matches one of the known junk patterns.
func LooksLikeJunk(s string) bool {
	for _, re := range junkPatterns {
		if re.MatchString(s) {
			return true
		}
	}
	return false
}
