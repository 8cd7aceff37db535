// Package normalize canonicalizes free text, contact fields, region codes and
// URLs so that comparisons elsewhere in the directory tooling are stable.
// Every function is total: bad input yields "" or false, never an error.
package normalize

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// MaxTextLength is the default cap applied by SanitizePlainText.
const MaxTextLength = 2000

const ellipsis = "…"

var (
	mdImage      = regexp.MustCompile(`!\[([^\]]*)\]\([^)]*\)`)
	mdLink       = regexp.MustCompile(`\[([^\]]+)\]\([^)]*\)`)
	mdRefLink    = regexp.MustCompile(`\[([^\]]+)\]\[[^\]]*\]`)
	footnote     = regexp.MustCompile(`\[\d+\]`)
	rawURL       = regexp.MustCompile(`(?i)\b(?:https?://|www\.)\S+`)
	mdHeader     = regexp.MustCompile(`(?m)^[ \t]*#{1,6}[ \t]*`)
	mdBullet     = regexp.MustCompile(`(?m)^[ \t]*(?:[-*+•]|\d+[.)])[ \t]+`)
	mdQuote      = regexp.MustCompile(`(?m)^[ \t]*>[ \t]?`)
	mdEmphasis   = regexp.MustCompile(`\*\*|__|~~`)
	inlineCode   = regexp.MustCompile("`+")
	whitespaceRe = regexp.MustCompile(`\s+`)
)

// SanitizePlainText strips markdown artifacts, footnote markers and raw URLs,
// collapses whitespace and caps the result at MaxTextLength runes.
// SanitizePlainText(SanitizePlainText(s)) == SanitizePlainText(s).
func SanitizePlainText(input string) string {
	return SanitizePlainTextN(input, MaxTextLength)
}

// SanitizePlainTextN is SanitizePlainText with an explicit rune limit.
// A non-positive limit disables truncation.
func SanitizePlainTextN(input string, limit int) string {
	s := input
	// Stripping one layer can expose another (a bullet behind a header, a
	// footnote inside a footnote), so run to a fixed point. Passes only delete
	// or collapse characters, so this terminates.
	for {
		next := cleanOnce(s)
		if next == s {
			break
		}
		s = next
	}
	return truncate(s, limit)
}

func cleanOnce(s string) string {
	s = mdImage.ReplaceAllString(s, "$1")
	s = mdLink.ReplaceAllString(s, "$1")
	s = mdRefLink.ReplaceAllString(s, "$1")
	s = footnote.ReplaceAllString(s, "")
	s = rawURL.ReplaceAllString(s, "")
	s = mdHeader.ReplaceAllString(s, "")
	s = mdBullet.ReplaceAllString(s, "")
	s = mdQuote.ReplaceAllString(s, "")
	s = mdEmphasis.ReplaceAllString(s, "")
	s = inlineCode.ReplaceAllString(s, "")
	s = whitespaceRe.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}

func truncate(s string, limit int) string {
	if limit <= 0 || utf8.RuneCountInString(s) <= limit {
		return s
	}
	if limit < 3 {
		return string([]rune(s)[:limit])
	}
	// The space before the marker keeps a cut like "www." from turning into
	// something the URL pattern would strip on a second pass.
	runes := []rune(s)
	cut := strings.TrimSpace(string(runes[:limit-2]))
	return cut + " " + ellipsis
}

// ExtractKeywordPhrases splits comma-joined values into sanitized phrases of
// 3 to 60 runes, deduplicated case-insensitively in first-seen order and
// capped at limit. A non-positive limit means no cap.
func ExtractKeywordPhrases(values []string, limit int) []string {
	var out []string
	seen := make(map[string]bool)
	for _, v := range values {
		for _, part := range strings.Split(SanitizePlainText(v), ",") {
			phrase := strings.TrimSpace(part)
			n := utf8.RuneCountInString(phrase)
			if n < 3 || n > 60 {
				continue
			}
			key := strings.ToLower(phrase)
			if seen[key] {
				continue
			}
			seen[key] = true
			out = append(out, phrase)
			if limit > 0 && len(out) >= limit {
				return out
			}
		}
	}
	return out
}

// BoundList sanitizes each item, drops empty, junk and over-long items,
// dedupes case-insensitively and caps the list at maxItems.
func BoundList(values []string, maxItems, maxItemLen int) []string {
	var out []string
	seen := make(map[string]bool)
	for _, v := range values {
		item := SanitizePlainText(v)
		if item == "" || LooksLikeJunk(item) {
			continue
		}
		if maxItemLen > 0 && utf8.RuneCountInString(item) > maxItemLen {
			continue
		}
		key := strings.ToLower(item)
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, item)
		if maxItems > 0 && len(out) >= maxItems {
			break
		}
	}
	return out
}
