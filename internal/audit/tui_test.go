package audit

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/amishk599/boardsync/internal/model"
	"github.com/amishk599/boardsync/internal/poller"
)

func testReport() poller.Report {
	return poller.Report{
		Company:  "Acme",
		Platform: model.PlatformLever,
		Source:   "stored",
		Fetched:  4,
		New:      2,
		NewJobs: []model.CanonicalJob{
			{Title: "zeta engineer", PostingURL: "https://x/z"},
			{Title: "Alpha Engineer", PostingURL: "https://x/a", Country: "Germany", Location: "Berlin"},
		},
		DuplicateJobs: []model.CanonicalJob{{Title: "Old Role", PostingURL: "https://x/o"}},
		FilteredJobs:  []model.CanonicalJob{{Title: "Intern"}},
	}
}

func TestBuildEntries(t *testing.T) {
	all, fresh := buildEntries(testReport())

	if len(all) != 4 || len(fresh) != 2 {
		t.Fatalf("expected 4 entries and 2 new, got %d and %d", len(all), len(fresh))
	}
	var got []string
	for _, e := range all {
		got = append(got, e.job.Title+"/"+e.class)
	}
	want := "Alpha Engineer/new zeta engineer/new Old Role/duplicate Intern/filtered"
	if strings.Join(got, " ") != want {
		t.Errorf("expected %q, got %q", want, strings.Join(got, " "))
	}
}

func TestAuditModel_Navigation(t *testing.T) {
	var m tea.Model = newAuditModel(testReport())
	m, _ = m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyDown})
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyEnter})

	am := m.(auditModel)
	if am.view != viewDetail || am.detail.job.Title != "zeta engineer" {
		t.Fatalf("expected detail of second job, got view=%v job=%q", am.view, am.detail.job.Title)
	}
	if !strings.Contains(am.renderDetail(), "https://x/z") {
		t.Error("expected posting url in detail view")
	}

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyTab})
	am = m.(auditModel)
	if am.view != viewList || am.activePane != 1 {
		t.Errorf("expected list view on right pane, got view=%v pane=%d", am.view, am.activePane)
	}
}

func TestRenderJobs(t *testing.T) {
	_, fresh := buildEntries(testReport())
	out := renderJobs(fresh, 0, true)
	if !strings.Contains(out, "Berlin · Germany") {
		t.Errorf("expected location with country, got %q", out)
	}
	if renderJobs(nil, 0, true) != "  (no jobs)" {
		t.Error("expected empty placeholder")
	}
}

func TestWrapParagraphs(t *testing.T) {
	got := wrapParagraphs("one two three\n- item four", 7)
	want := "one two\nthree\n- item\nfour"
	if got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
}
