package normalize

import "strings"

// regionNames maps lowercase full names of US states, DC, and Canadian
// provinces and territories to their 2-letter codes.
var regionNames = map[string]string{
	"alabama": "AL", "alaska": "AK", "arizona": "AZ", "arkansas": "AR",
	"california": "CA", "colorado": "CO", "connecticut": "CT", "delaware": "DE",
	"florida": "FL", "georgia": "GA", "hawaii": "HI", "idaho": "ID",
	"illinois": "IL", "indiana": "IN", "iowa": "IA", "kansas": "KS",
	"kentucky": "KY", "louisiana": "LA", "maine": "ME", "maryland": "MD",
	"massachusetts": "MA", "michigan": "MI", "minnesota": "MN", "mississippi": "MS",
	"missouri": "MO", "montana": "MT", "nebraska": "NE", "nevada": "NV",
	"new hampshire": "NH", "new jersey": "NJ", "new mexico": "NM", "new york": "NY",
	"north carolina": "NC", "north dakota": "ND", "ohio": "OH", "oklahoma": "OK",
	"oregon": "OR", "pennsylvania": "PA", "rhode island": "RI", "south carolina": "SC",
	"south dakota": "SD", "tennessee": "TN", "texas": "TX", "utah": "UT",
	"vermont": "VT", "virginia": "VA", "washington": "WA", "west virginia": "WV",
	"wisconsin": "WI", "wyoming": "WY", "district of columbia": "DC",

	"alberta": "AB", "british columbia": "BC", "manitoba": "MB", "new brunswick": "NB",
	"newfoundland and labrador": "NL", "newfoundland": "NL", "nova scotia": "NS",
	"ontario": "ON", "prince edward island": "PE", "quebec": "QC", "québec": "QC",
	"saskatchewan": "SK", "northwest territories": "NT", "nunavut": "NU", "yukon": "YT",
}

// legacyRegionCodes corrects non-standard codes found in older data.
var legacyRegionCodes = map[string]string{
	"BR": "BC",
	"QU": "QC",
}

var regionCodes = func() map[string]bool {
	m := make(map[string]bool, len(regionNames))
	for _, code := range regionNames {
		m[code] = true
	}
	return m
}()

// NormalizeRegionCode maps a 2-letter code or full state/province name to its
// canonical 2-letter code, or "" when it cannot be resolved.
func NormalizeRegionCode(region string) string {
	s := strings.TrimSpace(region)
	if s == "" {
		return ""
	}
	upper := strings.ToUpper(strings.TrimSuffix(s, "."))
	if fixed, ok := legacyRegionCodes[upper]; ok {
		return fixed
	}
	if regionCodes[upper] {
		return upper
	}
	name := strings.Join(strings.Fields(strings.ToLower(s)), " ")
	return regionNames[name]
}

var countryNames = map[string]string{
	"us": "US", "usa": "US", "u.s.": "US", "u.s.a.": "US", "united states": "US",
	"united states of america": "US",
	"ca": "CA", "can": "CA", "canada": "CA",
}

// NormalizeCountryCode maps common spellings of the US and Canada to their
// 2-letter codes and passes any other 2-letter alphabetic code through
// uppercased. Anything else yields "".
func NormalizeCountryCode(country string) string {
	s := strings.ToLower(strings.Join(strings.Fields(country), " "))
	if s == "" {
		return ""
	}
	if code, ok := countryNames[s]; ok {
		return code
	}
	if len(s) == 2 && isASCIILetter(s[0]) && isASCIILetter(s[1]) {
		return strings.ToUpper(s)
	}
	return ""
}

func isASCIILetter(b byte) bool {
	return b >= 'a' && b <= 'z'
}
