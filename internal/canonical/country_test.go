package canonical

import "testing"

func TestDeriveCountry(t *testing.T) {
	tests := []struct {
		location string
		want     string
		wantOK   bool
	}{
		{"Austin, TX", "United States", true},
		{"Remote", "", false},
		{"Berlin, Germany", "Germany", true},
		{"", "", false},
		{"Remote - US", "United States", true},
		{"U.S. Remote", "United States", true},
		{"London", "United Kingdom", true},
		{"Toronto, ON", "Canada", true},
		{"Boulder, CO", "United States", true},
		{"Albuquerque, New Mexico", "United States", true},
		{"Sydney, New South Wales", "Australia", true},
		{"Mexico City", "Mexico", true},
		{"São Paulo", "Brazil", true},
		{"Anywhere", "", false},
		{"Remote, EMEA", "", false},
		{"Houston", "", false},
		{"Chennai, IN", "India", true},
		{"Tbilisi, GA", "Georgia", true},
		{"Indianapolis, IN", "United States", true},
		// A city missing from the table falls through to the state layer.
		{"Coimbatore, IN", "United States", true},
	}

	for _, tc := range tests {
		t.Run(tc.location, func(t *testing.T) {
			got, ok := DeriveCountry(tc.location)
			if got != tc.want || ok != tc.wantOK {
				t.Errorf("DeriveCountry(%q) = (%q, %v), want (%q, %v)", tc.location, got, ok, tc.want, tc.wantOK)
			}
		})
	}
}

func TestDeriveCountry_Deterministic(t *testing.T) {
	inputs := []string{"Austin, TX", "Berlin, Germany", "Remote", "New York, NY; London, UK"}
	for _, in := range inputs {
		first, _ := DeriveCountry(in)
		for i := 0; i < 20; i++ {
			if got, _ := DeriveCountry(in); got != first {
				t.Fatalf("DeriveCountry(%q) changed between calls: %q then %q", in, first, got)
			}
		}
	}
}

func TestNormalizeWords(t *testing.T) {
	tests := map[string]string{
		"U.S.":                 "us",
		"  San Francisco, CA ": "san francisco ca",
		"Remote (US/Canada)":   "remote us canada",
		"Washington, D.C.":     "washington dc",
	}
	for in, want := range tests {
		if got := normalizeWords(in); got != want {
			t.Errorf("normalizeWords(%q) = %q, want %q", in, got, want)
		}
	}
}
