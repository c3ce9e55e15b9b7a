package adapter

import (
	"testing"
)

func TestGreenhouseParse_Success(t *testing.T) {
	payload := `{
		"jobs": [
			{
				"id": 12345,
				"title": "Software Engineer",
				"location": {"name": "San Francisco, CA"},
				"absolute_url": "https://boards.greenhouse.io/acme/jobs/12345",
				"offices": [{"id": 1, "name": "SF HQ", "location": "San Francisco, CA"}],
				"metadata": [
					{"name": "Salary Range", "value": "$150,000 - $190,000", "value_type": "short_text"},
					{"name": "Teams", "value": ["Platform", "Infra"], "value_type": "multi_select"}
				],
				"content": "&lt;p&gt;Build things.&lt;/p&gt;",
				"updated_at": "2026-02-13T10:00:00Z"
			},
			{
				"id": 67890,
				"title": "Backend Engineer",
				"location": {"name": "Remote, US"},
				"absolute_url": "https://boards.greenhouse.io/acme/jobs/67890"
			}
		]
	}`

	drafts := GreenhouseAdapter{}.Parse([]byte(payload))
	if len(drafts) != 2 {
		t.Fatalf("expected 2 drafts, got %d", len(drafts))
	}

	d := drafts[0]
	if d.UpstreamID != "12345" {
		t.Errorf("expected upstream ID 12345, got %s", d.UpstreamID)
	}
	if d.Title != "Software Engineer" {
		t.Errorf("expected title Software Engineer, got %s", d.Title)
	}
	if d.JobURL != "https://boards.greenhouse.io/acme/jobs/12345" {
		t.Errorf("unexpected job URL %s", d.JobURL)
	}
	if d.ApplyURL != d.JobURL {
		t.Errorf("expected apply URL to default to job URL, got %s", d.ApplyURL)
	}
	if d.Location != "San Francisco, CA" {
		t.Errorf("expected location San Francisco, CA, got %s", d.Location)
	}

	p, ok := d.Posting.(*GreenhousePosting)
	if !ok {
		t.Fatalf("expected *GreenhousePosting, got %T", d.Posting)
	}
	if len(p.Offices) != 1 || p.Offices[0].Name != "SF HQ" {
		t.Errorf("unexpected offices: %+v", p.Offices)
	}
	if got := p.Metadata[0].Text(); got != "$150,000 - $190,000" {
		t.Errorf("metadata[0].Text() = %q", got)
	}
	if got := p.Metadata[1].Text(); got != "Platform, Infra" {
		t.Errorf("metadata[1].Text() = %q", got)
	}
}

func TestGreenhouseParse_EmptyBoard(t *testing.T) {
	drafts := GreenhouseAdapter{}.Parse([]byte(`{"jobs": []}`))
	if len(drafts) != 0 {
		t.Fatalf("expected 0 drafts, got %d", len(drafts))
	}
}

func TestGreenhouseParse_SkipsUndecodableJobs(t *testing.T) {
	payload := `{"jobs": [
		{"id": "not-a-number", "title": "Broken"},
		{"id": 1, "title": "Kept", "absolute_url": "https://boards.greenhouse.io/acme/jobs/1"}
	]}`
	drafts := GreenhouseAdapter{}.Parse([]byte(payload))
	if len(drafts) != 1 || drafts[0].Title != "Kept" {
		t.Fatalf("expected only the decodable job, got %+v", drafts)
	}
}

func TestGreenhouseMetadata_CurrencyValue(t *testing.T) {
	m := GreenhouseMetadata{Value: []byte(`{"unit": "USD", "amount": "120000"}`)}
	if got := m.Text(); got != "USD 120000" {
		t.Errorf("Text() = %q, want %q", got, "USD 120000")
	}
}
