package canonical

import (
	"strings"
	"testing"
	"time"

	"github.com/amishk599/boardsync/internal/adapter"
	"github.com/amishk599/boardsync/internal/model"
)

func boolPtr(b bool) *bool { return &b }

func TestDeriveLocation(t *testing.T) {
	tests := []struct {
		name   string
		draft  adapter.Draft
		want   string
		wantOK bool
	}{
		{
			name: "greenhouse offices win over location object",
			draft: adapter.Draft{Posting: &adapter.GreenhousePosting{
				Location: adapter.GreenhouseLocation{Name: "SF or NYC"},
				Offices: []adapter.GreenhouseOffice{
					{Name: "HQ", Location: "San Francisco, CA"},
					{Name: "New York"},
				},
			}},
			want:   "San Francisco, CA; New York",
			wantOK: true,
		},
		{
			name: "greenhouse location object",
			draft: adapter.Draft{Posting: &adapter.GreenhousePosting{
				Location: adapter.GreenhouseLocation{Name: "Dublin"},
			}},
			want:   "Dublin",
			wantOK: true,
		},
		{
			name: "lever all locations when primary missing",
			draft: adapter.Draft{Posting: &adapter.LeverPosting{
				Categories: adapter.LeverCategories{AllLocations: []string{"Paris", "Berlin", "paris"}},
			}},
			want:   "Paris; Berlin",
			wantOK: true,
		},
		{
			name: "ashby structured address",
			draft: func() adapter.Draft {
				p := &adapter.AshbyPosting{Location: "NYC"}
				p.Address = &adapter.AshbyAddress{}
				p.Address.PostalAddress.AddressLocality = "New York"
				p.Address.PostalAddress.AddressRegion = "NY"
				return adapter.Draft{Posting: p}
			}(),
			want:   "New York, NY",
			wantOK: true,
		},
		{
			name:   "draft location fallback",
			draft:  adapter.Draft{Location: "  Austin,   TX "},
			want:   "Austin, TX",
			wantOK: true,
		},
		{
			name:   "remote flag fallback",
			draft:  adapter.Draft{Posting: &adapter.AshbyPosting{IsRemote: boolPtr(true)}},
			want:   "Remote",
			wantOK: true,
		},
		{
			name:   "nothing known",
			draft:  adapter.Draft{},
			want:   "",
			wantOK: false,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := DeriveLocation(tc.draft)
			if got != tc.want || ok != tc.wantOK {
				t.Errorf("DeriveLocation() = (%q, %v), want (%q, %v)", got, ok, tc.want, tc.wantOK)
			}
		})
	}
}

func TestDeriveRemote(t *testing.T) {
	tests := []struct {
		name     string
		draft    adapter.Draft
		location string
		want     bool
	}{
		{"greenhouse remote office", adapter.Draft{Posting: &adapter.GreenhousePosting{Offices: []adapter.GreenhouseOffice{{Name: "Remote - US"}}}}, "", true},
		{"lever workplace type", adapter.Draft{Posting: &adapter.LeverPosting{WorkplaceType: "remote"}}, "Denver, CO", true},
		{"lever hybrid", adapter.Draft{Posting: &adapter.LeverPosting{WorkplaceType: "hybrid"}}, "Denver, CO", false},
		{"ashby explicit false", adapter.Draft{Posting: &adapter.AshbyPosting{IsRemote: boolPtr(false)}}, "Berlin", false},
		{"ashby workplace type", adapter.Draft{Posting: &adapter.AshbyPosting{WorkplaceType: "Remote"}}, "Berlin", true},
		{"location text", adapter.Draft{}, "Fully Remote (EU)", true},
		{"draft flag", adapter.Draft{Remote: true}, "", true},
		{"onsite", adapter.Draft{}, "Boston, MA", false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := DeriveRemote(tc.draft, tc.location); got != tc.want {
				t.Errorf("DeriveRemote() = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestDeriveSalary(t *testing.T) {
	tests := []struct {
		name   string
		draft  adapter.Draft
		want   string
		wantOK bool
	}{
		{
			name: "greenhouse pay range in cents",
			draft: adapter.Draft{Posting: &adapter.GreenhousePosting{
				PayInputRanges: []adapter.GreenhousePayRange{{MinCents: 15000000, MaxCents: 19000000, CurrencyType: "USD"}},
			}},
			want:   "USD 150,000 - 190,000",
			wantOK: true,
		},
		{
			name: "greenhouse salary metadata",
			draft: adapter.Draft{Posting: &adapter.GreenhousePosting{
				Metadata: []adapter.GreenhouseMetadata{
					{Name: "Team", Value: []byte(`"Infra"`)},
					{Name: "Salary Range", Value: []byte(`"$120k - $150k"`)},
				},
			}},
			want:   "$120k - $150k",
			wantOK: true,
		},
		{
			name: "lever salary range",
			draft: adapter.Draft{Posting: &adapter.LeverPosting{
				SalaryRange: &adapter.LeverSalaryRange{Min: 140000, Max: 180000, Currency: "USD", Interval: "per-year-salary"},
			}},
			want:   "USD 140,000 - 180,000 per year",
			wantOK: true,
		},
		{
			name: "lever single bound",
			draft: adapter.Draft{Posting: &adapter.LeverPosting{
				SalaryRange: &adapter.LeverSalaryRange{Max: 55, Currency: "EUR", Interval: "per-hour-wage"},
			}},
			want:   "EUR 55 per hour",
			wantOK: true,
		},
		{
			name: "ashby compensation summary",
			draft: adapter.Draft{Posting: &adapter.AshbyPosting{
				Compensation: &adapter.AshbyCompensation{CompensationTierSummary: "$160K - $200K"},
			}},
			want:   "$160K - $200K",
			wantOK: true,
		},
		{
			name:   "draft salary fallback",
			draft:  adapter.Draft{Salary: "Competitive"},
			want:   "Competitive",
			wantOK: true,
		},
		{
			name:   "absent",
			draft:  adapter.Draft{Posting: &adapter.LeverPosting{}},
			want:   "",
			wantOK: false,
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := DeriveSalary(tc.draft)
			if got != tc.want || ok != tc.wantOK {
				t.Errorf("DeriveSalary() = (%q, %v), want (%q, %v)", got, ok, tc.want, tc.wantOK)
			}
		})
	}
}

func TestDescriptionText(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain text", "  Build   things.  ", "Build things."},
		{"html paragraphs", "<p>First</p><p>Second &amp; third</p>", "First\nSecond & third"},
		{"double encoded", "&lt;p&gt;Hello&lt;/p&gt;&lt;ul&gt;&lt;li&gt;Go&lt;/li&gt;&lt;/ul&gt;", "Hello\n- Go"},
		{"line breaks", "a<br>b<br/>c", "a\nb\nc"},
		{"empty", "", ""},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := DescriptionText(tc.in); got != tc.want {
				t.Errorf("DescriptionText(%q) = %q, want %q", tc.in, got, tc.want)
			}
		})
	}
}

func TestCanonicalize(t *testing.T) {
	seen := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	d := adapter.Draft{
		Platform:    model.PlatformLever,
		Title:       " Staff  Engineer ",
		JobURL:      "https://jobs.lever.co/acme/1",
		UpstreamID:  "1",
		Description: "<p>Ship it</p>",
		Posting: &adapter.LeverPosting{
			Categories:    adapter.LeverCategories{Location: "Austin, TX"},
			WorkplaceType: "remote",
		},
	}

	job := Canonicalize("rec1", d, seen)
	if job.CompanyID != "rec1" || job.Title != "Staff Engineer" {
		t.Errorf("unexpected identity fields: %+v", job)
	}
	if job.ApplyURL != job.PostingURL {
		t.Errorf("expected apply URL to fall back to posting URL, got %q", job.ApplyURL)
	}
	if job.Location != "Austin, TX" || job.Country != "United States" || !job.Remote {
		t.Errorf("unexpected derived fields: location=%q country=%q remote=%v", job.Location, job.Country, job.Remote)
	}
	if job.Description != "Ship it" {
		t.Errorf("unexpected description %q", job.Description)
	}
	if !job.FirstSeen.Equal(seen) || job.Platform != model.PlatformLever {
		t.Errorf("unexpected stamp: %v %s", job.FirstSeen, job.Platform)
	}
	if job.ID != "" {
		t.Errorf("expected no id before persistence, got %q", job.ID)
	}
}

func TestCanonicalizeAll_PreservesOrder(t *testing.T) {
	drafts := []adapter.Draft{{Title: "A"}, {Title: "B"}, {Title: "C"}}
	jobs := CanonicalizeAll("c", drafts, time.Now())
	var titles []string
	for _, j := range jobs {
		titles = append(titles, j.Title)
	}
	if strings.Join(titles, "") != "ABC" {
		t.Errorf("unexpected order %v", titles)
	}
}
