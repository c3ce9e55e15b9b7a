package enrich

import "testing"

func TestMapStage(t *testing.T) {
	tests := []struct {
		answer string
		want   string
		wantOK bool
	}{
		{"Public (NASDAQ: ACME)", StagePublic, true},
		{"They went through an IPO in 2021", StagePublic, true},
		{"Listed on the NYSE", StagePublic, true},
		{"Pre-seed", StageEarly, true},
		{"Seed", StageEarly, true},
		{"Series A", StageEarly, true},
		{"series b", StageMid, true},
		{"Raised a Series C in 2023", StageMid, true},
		{"Series D", StageLate, true},
		{"Series F", StageLate, true},
		{"Pre-IPO", StageLate, true},
		{"unknown", "", false},
		{"", "", false},
		{"Bootstrapped", "", false},
	}
	for _, tc := range tests {
		t.Run(tc.answer, func(t *testing.T) {
			got, ok := MapStage(tc.answer)
			if got != tc.want || ok != tc.wantOK {
				t.Errorf("MapStage(%q) = (%q, %v), want (%q, %v)", tc.answer, got, ok, tc.want, tc.wantOK)
			}
		})
	}
}

func TestMapSize(t *testing.T) {
	tests := []struct {
		answer string
		want   string
		wantOK bool
	}{
		{"11-50 employees", Size1to50, true},
		{"51-200", Size51to200, true},
		{"201 to 500 employees", Size201to1000, true},
		{"1,001-5,000 employees", Size1000Plus, true},
		{"about 1,500 employees", Size1000Plus, true},
		{"roughly 120 people", Size51to200, true},
		{"10k employees", Size1000Plus, true},
		{"5000+", Size1000Plus, true},
		{"1000+", Size1000Plus, true},
		{"1,000+ employees", Size1000Plus, true},
		{"1000+ employees", Size1000Plus, true},
		{"200+ people", Size201to1000, true},
		{"50+", Size51to200, true},
		{"fewer than 50", Size1to50, true},
		{"less than 200 employees", Size51to200, true},
		{"over 1000", Size1000Plus, true},
		{"more than 300 staff", Size201to1000, true},
		{"~40", Size1to50, true},
		{"unknown", "", false},
		{"", "", false},
	}
	for _, tc := range tests {
		t.Run(tc.answer, func(t *testing.T) {
			got, ok := MapSize(tc.answer)
			if got != tc.want || ok != tc.wantOK {
				t.Errorf("MapSize(%q) = (%q, %v), want (%q, %v)", tc.answer, got, ok, tc.want, tc.wantOK)
			}
		})
	}
}
