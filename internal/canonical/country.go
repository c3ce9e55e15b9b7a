package canonical

import (
	"strings"
	"unicode"
)

type keyword struct {
	term    string // normalized, see normalizeWords
	country string
}

// countryKeywords is checked in order; the first whole-word match wins.
// Regions that share a word with a country come first.
var countryKeywords = []keyword{
	{"new mexico", "United States"},
	{"new south wales", "Australia"},
	{"new jersey", "United States"},
	{"washington dc", "United States"},
	{"united states", "United States"},
	{"usa", "United States"},
	{"us", "United States"},
	{"united kingdom", "United Kingdom"},
	{"uk", "United Kingdom"},
	{"great britain", "United Kingdom"},
	{"england", "United Kingdom"},
	{"scotland", "United Kingdom"},
	{"wales", "United Kingdom"},
	{"northern ireland", "United Kingdom"},
	{"ireland", "Ireland"},
	{"canada", "Canada"},
	{"germany", "Germany"},
	{"deutschland", "Germany"},
	{"france", "France"},
	{"netherlands", "Netherlands"},
	{"the netherlands", "Netherlands"},
	{"spain", "Spain"},
	{"portugal", "Portugal"},
	{"italy", "Italy"},
	{"switzerland", "Switzerland"},
	{"austria", "Austria"},
	{"belgium", "Belgium"},
	{"sweden", "Sweden"},
	{"norway", "Norway"},
	{"denmark", "Denmark"},
	{"finland", "Finland"},
	{"poland", "Poland"},
	{"czech republic", "Czech Republic"},
	{"czechia", "Czech Republic"},
	{"romania", "Romania"},
	{"ukraine", "Ukraine"},
	{"greece", "Greece"},
	{"turkey", "Turkey"},
	{"israel", "Israel"},
	{"united arab emirates", "United Arab Emirates"},
	{"uae", "United Arab Emirates"},
	{"india", "India"},
	{"singapore", "Singapore"},
	{"japan", "Japan"},
	{"south korea", "South Korea"},
	{"korea", "South Korea"},
	{"china", "China"},
	{"hong kong", "Hong Kong"},
	{"taiwan", "Taiwan"},
	{"philippines", "Philippines"},
	{"indonesia", "Indonesia"},
	{"vietnam", "Vietnam"},
	{"australia", "Australia"},
	{"new zealand", "New Zealand"},
	{"mexico", "Mexico"},
	{"brazil", "Brazil"},
	{"argentina", "Argentina"},
	{"colombia", "Colombia"},
	{"chile", "Chile"},
	{"peru", "Peru"},
	{"nigeria", "Nigeria"},
	{"kenya", "Kenya"},
	{"south africa", "South Africa"},
	{"egypt", "Egypt"},
}

// cityCountries maps well-known hiring cities to their country.
var cityCountries = []keyword{
	{"san francisco", "United States"},
	{"sf", "United States"},
	{"bay area", "United States"},
	{"new york", "United States"},
	{"nyc", "United States"},
	{"brooklyn", "United States"},
	{"seattle", "United States"},
	{"austin", "United States"},
	{"boston", "United States"},
	{"chicago", "United States"},
	{"los angeles", "United States"},
	{"denver", "United States"},
	{"atlanta", "United States"},
	{"miami", "United States"},
	{"palo alto", "United States"},
	{"mountain view", "United States"},
	{"menlo park", "United States"},
	{"san jose", "United States"},
	{"san mateo", "United States"},
	{"sunnyvale", "United States"},
	{"san diego", "United States"},
	{"portland", "United States"},
	{"pittsburgh", "United States"},
	{"philadelphia", "United States"},
	{"salt lake city", "United States"},
	{"london", "United Kingdom"},
	{"manchester", "United Kingdom"},
	{"edinburgh", "United Kingdom"},
	{"cambridge uk", "United Kingdom"},
	{"dublin", "Ireland"},
	{"berlin", "Germany"},
	{"munich", "Germany"},
	{"hamburg", "Germany"},
	{"frankfurt", "Germany"},
	{"paris", "France"},
	{"amsterdam", "Netherlands"},
	{"rotterdam", "Netherlands"},
	{"madrid", "Spain"},
	{"barcelona", "Spain"},
	{"lisbon", "Portugal"},
	{"milan", "Italy"},
	{"zurich", "Switzerland"},
	{"geneva", "Switzerland"},
	{"vienna", "Austria"},
	{"brussels", "Belgium"},
	{"stockholm", "Sweden"},
	{"oslo", "Norway"},
	{"copenhagen", "Denmark"},
	{"helsinki", "Finland"},
	{"warsaw", "Poland"},
	{"krakow", "Poland"},
	{"prague", "Czech Republic"},
	{"tel aviv", "Israel"},
	{"dubai", "United Arab Emirates"},
	{"toronto", "Canada"},
	{"vancouver", "Canada"},
	{"montreal", "Canada"},
	{"ottawa", "Canada"},
	{"bangalore", "India"},
	{"bengaluru", "India"},
	{"hyderabad", "India"},
	{"pune", "India"},
	{"mumbai", "India"},
	{"chennai", "India"},
	{"new delhi", "India"},
	{"delhi", "India"},
	{"gurgaon", "India"},
	{"gurugram", "India"},
	{"noida", "India"},
	{"kolkata", "India"},
	{"tbilisi", "Georgia"},
	{"tokyo", "Japan"},
	{"seoul", "South Korea"},
	{"beijing", "China"},
	{"shanghai", "China"},
	{"sydney", "Australia"},
	{"melbourne", "Australia"},
	{"auckland", "New Zealand"},
	{"sao paulo", "Brazil"},
	{"são paulo", "Brazil"},
	{"buenos aires", "Argentina"},
	{"mexico city", "Mexico"},
	{"bogota", "Colombia"},
	{"lagos", "Nigeria"},
	{"nairobi", "Kenya"},
	{"cape town", "South Africa"},
}

var usStates = map[string]bool{
	"AL": true, "AK": true, "AZ": true, "AR": true, "CA": true, "CO": true, "CT": true,
	"DE": true, "FL": true, "GA": true, "HI": true, "ID": true, "IL": true, "IN": true,
	"IA": true, "KS": true, "KY": true, "LA": true, "ME": true, "MD": true, "MA": true,
	"MI": true, "MN": true, "MS": true, "MO": true, "MT": true, "NE": true, "NV": true,
	"NH": true, "NJ": true, "NM": true, "NY": true, "NC": true, "ND": true, "OH": true,
	"OK": true, "OR": true, "PA": true, "RI": true, "SC": true, "SD": true, "TN": true,
	"TX": true, "UT": true, "VT": true, "VA": true, "WA": true, "WV": true, "WI": true,
	"WY": true, "DC": true,
}

// DeriveCountry infers a country from a location string. It tries, in order,
// an explicit country keyword, a known city, and a U.S. state abbreviation
// after a comma. Nothing else is guessed: "Remote" has no country.
//
// State codes that are also ISO country codes (IN, GA, DE, ...) read as U.S.
// states unless the city is known, so "Chennai, IN" is India but an unlisted
// Indian city with ", IN" is not.
func DeriveCountry(location string) (string, bool) {
	words := " " + normalizeWords(location) + " "
	if strings.TrimSpace(words) == "" {
		return "", false
	}

	for _, kw := range countryKeywords {
		if strings.Contains(words, " "+kw.term+" ") {
			return kw.country, true
		}
	}
	for _, c := range cityCountries {
		if strings.Contains(words, " "+c.term+" ") {
			return c.country, true
		}
	}

	parts := strings.Split(location, ",")
	for _, part := range parts[1:] {
		fields := strings.Fields(part)
		if len(fields) == 0 {
			continue
		}
		abbr := strings.TrimRight(fields[0], ".;)")
		if usStates[abbr] {
			return "United States", true
		}
	}
	return "", false
}

// normalizeWords lower-cases s, drops dots so "U.S." reads "us", and turns
// every other non-alphanumeric rune into a single space.
func normalizeWords(s string) string {
	var b strings.Builder
	space := true
	for _, r := range strings.ToLower(s) {
		switch {
		case r == '.':
			continue
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
			space = false
		default:
			if !space {
				b.WriteByte(' ')
				space = true
			}
		}
	}
	return strings.TrimSpace(b.String())
}
