package normalize

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
)

func TestSanitizePlainText(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"empty", "", ""},
		{"headers and bullets", "## Heading\n- item one\n- item two", "Heading item one item two"},
		{"markdown link and footnote", "See [Acme](https://acme.com) for details[12].", "See Acme for details."},
		{"raw url", "Visit https://acme.com/about today", "Visit today"},
		{"www url", "Visit www.acme.com today", "Visit today"},
		{"inline code", "Use `code` here", "Use code here"},
		{"emphasis", "**Bold** text", "Bold text"},
		{"numbered list", "1. First\n2) Second", "First Second"},
		{"nested markers", "# - ## Title", "Title"},
		{"whitespace", "  a\t\tb \n\n c  ", "a b c"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, SanitizePlainText(tt.input))
		})
	}
}

func TestSanitizePlainText_Truncates(t *testing.T) {
	t.Parallel()

	got := SanitizePlainText(strings.Repeat("a ", 1500))
	assert.LessOrEqual(t, utf8.RuneCountInString(got), MaxTextLength)
	assert.True(t, strings.HasSuffix(got, "…"))
}

func TestSanitizePlainText_Idempotent(t *testing.T) {
	t.Parallel()

	inputs := []string{
		"",
		"plain words",
		"# - ## Title",
		"- - nested bullet",
		"See [Acme](https://acme.com)[3] and `x`",
		"> quoted **bold** ~~gone~~",
		strings.Repeat("a ", 1500),
		strings.Repeat("x", 1997) + " www. trailing",
		strings.Repeat("y", 1998) + " http:// end",
		"[[1]](x)",
		"Acme [1[1[1[1[1[1[1[1[1[1[1[11]]]]]]]]]]]] Appraisals",
		strings.Repeat("[", 12) + "x" + strings.Repeat("](a)", 12),
		strings.Repeat("- # > ", 20) + "deep",
	}

	for _, in := range inputs {
		once := SanitizePlainText(in)
		assert.Equal(t, once, SanitizePlainText(once), "input %q", in)
	}
}

func TestSanitizePlainText_DeeplyNested(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "Acme Appraisals", SanitizePlainText("Acme [1[1[1[1[1[1[1[1[1[1[1[11]]]]]]]]]]]] Appraisals"))
	assert.Equal(t, "x", SanitizePlainText(strings.Repeat("[", 12)+"x"+strings.Repeat("](a)", 12)))
}

func TestSanitizePlainTextN_NoLimit(t *testing.T) {
	t.Parallel()
	long := strings.Repeat("b", 3000)
	assert.Equal(t, long, SanitizePlainTextN(long, 0))
}

func TestExtractKeywordPhrases(t *testing.T) {
	t.Parallel()

	values := []string{"Antique furniture, Fine art, ab, Fine Art", "Estate jewelry"}
	assert.Equal(t, []string{"Antique furniture", "Fine art", "Estate jewelry"}, ExtractKeywordPhrases(values, 3))
	assert.Equal(t, []string{"Antique furniture", "Fine art"}, ExtractKeywordPhrases(values, 2))
	assert.Empty(t, ExtractKeywordPhrases(nil, 5))

	long := strings.Repeat("z", 61)
	assert.Empty(t, ExtractKeywordPhrases([]string{long}, 0))
}

func TestBoundList(t *testing.T) {
	t.Parallel()

	values := []string{" Antiques ", "antiques", "", "N/A", strings.Repeat("q", 100), "Coins", "Stamps"}
	assert.Equal(t, []string{"Antiques", "Coins"}, BoundList(values, 2, 80))
	assert.Equal(t, []string{"Antiques", "Coins", "Stamps"}, BoundList(values, 0, 80))
}

func TestNormalizeWebsiteURL(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in, want string
	}{
		{"", ""},
		{"   ", ""},
		{"acme.com", "https://acme.com"},
		{"//acme.com/about", "https://acme.com/about"},
		{"http://acme.com", "http://acme.com"},
		{"HTTPS://Acme.com", "HTTPS://Acme.com"},
		{"mailto:info@acme.com", "mailto:info@acme.com"},
		{"tel:+15550100100", "tel:+15550100100"},
		{"///", ""},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, NormalizeWebsiteURL(tt.in))
		})
	}
}

func TestWebsiteMatchKey(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "acme.com", WebsiteMatchKey("https://www.Acme.com/"))
	assert.Equal(t, "acme.com", WebsiteMatchKey("acme.com"))
	assert.Equal(t, "acme.com", WebsiteMatchKey("http://acme.com"))
	assert.Equal(t, "acme.com/about", WebsiteMatchKey("https://acme.com/about/"))
	assert.Empty(t, WebsiteMatchKey(""))
}

func TestIsValidWebsite(t *testing.T) {
	t.Parallel()
	assert.True(t, IsValidWebsite("https://acme.com"))
	assert.True(t, IsValidWebsite("http://sub.acme.co.uk/path"))
	assert.False(t, IsValidWebsite("mailto:info@acme.com"))
	assert.False(t, IsValidWebsite("https://localhost"))
	assert.False(t, IsValidWebsite("https://"))
}

func TestIsLikelyPlaceholderURL(t *testing.T) {
	t.Parallel()

	tests := []struct {
		url  string
		want bool
	}{
		{"", true},
		{"not a url", true},
		{"http://[::1", true},
		{"https://example.com/foo", true},
		{"https://www.example.com", true},
		{"https://listings.example.com/x", true},
		{"https://myexamplesite.org", true},
		{"https://placehold.co/600x400", true},
		{"https://downtownappraisers.com", true},
		{"https://www.downtown-antiques.com/about", true},
		{"https://realappraiser.biz/profile/12", false},
		{"https://downtown.org", false},
	}

	for _, tt := range tests {
		t.Run(tt.url, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, IsLikelyPlaceholderURL(tt.url))
		})
	}
}

func TestOrigin(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "https://acme.com", Origin("www.Acme.com/about"))
	assert.Equal(t, "http://acme.com", Origin("http://acme.com/x?y=1"))
	assert.Empty(t, Origin(""))
}

func TestNormalizePhoneDigits(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "+15550100100", NormalizePhoneDigits("+1 (555) 010-0100"))
	assert.Equal(t, "5550100", NormalizePhoneDigits("555-0100"))
	assert.Equal(t, "12", NormalizePhoneDigits("1+2"))
	assert.Empty(t, NormalizePhoneDigits("abc"))
	assert.Empty(t, NormalizePhoneDigits("+"))
	assert.Equal(t, "15550100100", PhoneMatchKey("+1 555 010 0100"))
}

func TestNormalizePhone(t *testing.T) {
	t.Parallel()
	assert.Empty(t, NormalizePhone("555-0100"))
	assert.Equal(t, "(555) 010-0100", NormalizePhone(" (555) 010-0100 "))
	assert.Equal(t, "+44 20 7946 0958", NormalizePhone("+44 20 7946 0958"))
	assert.Empty(t, NormalizePhone("+1 555 010 0100 ext 12345 678"))
}

func TestNormalizeEmail(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "info@acme.com", NormalizeEmail("Info@Acme.com"))
	assert.Equal(t, "info@acme.com", NormalizeEmail("mailto:info@acme.com?subject=hi"))
	assert.Empty(t, NormalizeEmail("not-an-email"))
	assert.Empty(t, NormalizeEmail(""))
}

func TestNormalizeRegionCode(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in, want string
	}{
		{"BR", "BC"},
		{"QU", "QC"},
		{"Quebec", "QC"},
		{"Ontario", "ON"},
		{"not-a-region", ""},
		{"il", "IL"},
		{"new  york", "NY"},
		{"Texas", "TX"},
		{"CA", "CA"},
		{"British Columbia", "BC"},
		{"", ""},
		{"ZZ", ""},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, NormalizeRegionCode(tt.in))
		})
	}
}

func TestNormalizeCountryCode(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "US", NormalizeCountryCode("usa"))
	assert.Equal(t, "US", NormalizeCountryCode("United States"))
	assert.Equal(t, "CA", NormalizeCountryCode("Canada"))
	assert.Equal(t, "GB", NormalizeCountryCode("gb"))
	assert.Empty(t, NormalizeCountryCode("Germany"))
	assert.Empty(t, NormalizeCountryCode(""))
}

func TestSlugify(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in, want string
	}{
		{"Acme Appraisals", "acme-appraisals"},
		{"Smith & Sons", "smith-and-sons"},
		{"A&B", "aandb"},
		{"  --Café Élan!! ", "cafe-elan"},
		{"", ""},
		{"!!!", ""},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, Slugify(tt.in))
		})
	}

	long := Slugify(strings.Repeat("abc ", 40))
	assert.LessOrEqual(t, len(long), MaxSlugLength)
	assert.False(t, strings.HasSuffix(long, "-"))
}

// The junk filter is a heuristic; these cases pin the intended triggers, not
// an exhaustive classification.
func TestLooksLikeJunk(t *testing.T) {
	t.Parallel()
	assert.True(t, LooksLikeJunk("As an AI language model, I"))
	assert.True(t, LooksLikeJunk("Lorem ipsum dolor"))
	assert.True(t, LooksLikeJunk("N/A"))
	assert.True(t, LooksLikeJunk("click here for more"))
	assert.False(t, LooksLikeJunk("Antique furniture"))
	assert.False(t, LooksLikeJunk("Estate liquidation"))
}

func TestIsISODate(t *testing.T) {
	t.Parallel()
	assert.True(t, IsISODate("2024-03-15"))
	assert.False(t, IsISODate("2024-13-01"))
	assert.False(t, IsISODate("03/15/2024"))
	assert.False(t, IsISODate("2024-3-5"))
	assert.False(t, IsISODate(""))
}
