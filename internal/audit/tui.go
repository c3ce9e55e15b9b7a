package audit

import (
	"fmt"
	"os/exec"
	"runtime"
	"sort"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/amishk599/boardsync/internal/model"
	"github.com/amishk599/boardsync/internal/poller"
)

// Lines per job item in the list view (title + subtitle + blank separator).
const jobItemHeight = 3

// Classification of a fetched job in a dry run.
const (
	classNew       = "new"
	classDuplicate = "duplicate"
	classFiltered  = "filtered"
)

type viewState int

const (
	viewList viewState = iota
	viewDetail
)

var (
	activeBorderStyle = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(lipgloss.Color("39")) // bright blue

	inactiveBorderStyle = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(lipgloss.Color("240")) // dim gray

	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Padding(0, 1)

	activeHeaderStyle = headerStyle.
				Foreground(lipgloss.Color("39"))

	inactiveHeaderStyle = headerStyle.
				Foreground(lipgloss.Color("240"))

	statusBarStyle = lipgloss.NewStyle().
			Padding(0, 1).
			Foreground(lipgloss.Color("252")).
			Background(lipgloss.Color("236"))

	jobTitleStyle = lipgloss.NewStyle().
			Bold(true)

	jobSubtitleStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("245"))

	selectedJobTitleStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("15")).
				Background(lipgloss.Color("24"))

	selectedJobSubtitleStyle = lipgloss.NewStyle().
					Foreground(lipgloss.Color("252")).
					Background(lipgloss.Color("24"))

	classStyles = map[string]lipgloss.Style{
		classNew:       lipgloss.NewStyle().Foreground(lipgloss.Color("42")),
		classDuplicate: lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
		classFiltered:  lipgloss.NewStyle().Foreground(lipgloss.Color("208")),
	}

	detailLabelStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("39")).
				Width(16)

	detailValueStyle = lipgloss.NewStyle()

	detailTitleStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("15")).
				MarginBottom(1)

	descDividerStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("240"))

	descHintStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("245")).
			Italic(true)

	descBodyStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("252"))

	errorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
)

// entry is one fetched job with its dry-run classification.
type entry struct {
	job   model.CanonicalJob
	class string
}

// buildEntries flattens a report into all entries and the new ones, new
// jobs first, each group sorted by title.
func buildEntries(r poller.Report) (all, fresh []entry) {
	add := func(jobs []model.CanonicalJob, class string) []entry {
		out := make([]entry, 0, len(jobs))
		for _, j := range jobs {
			out = append(out, entry{job: j, class: class})
		}
		sort.SliceStable(out, func(a, b int) bool {
			return strings.ToLower(out[a].job.Title) < strings.ToLower(out[b].job.Title)
		})
		return out
	}
	fresh = add(r.NewJobs, classNew)
	all = append(all, fresh...)
	all = append(all, add(r.DuplicateJobs, classDuplicate)...)
	all = append(all, add(r.FilteredJobs, classFiltered)...)
	return all, fresh
}

type auditModel struct {
	report        poller.Report
	allJobs       []entry
	newJobs       []entry
	leftViewport  viewport.Model
	rightViewport viewport.Model
	activePane    int // 0=left, 1=right
	leftCursor    int
	rightCursor   int
	width         int
	height        int
	ready         bool

	// Detail view state
	view            viewState
	detail          entry
	detailViewport  viewport.Model
	showDescription bool

	wantQuit bool
}

func newAuditModel(r poller.Report) auditModel {
	all, fresh := buildEntries(r)
	return auditModel{report: r, allJobs: all, newJobs: fresh}
}

func (m auditModel) Init() tea.Cmd {
	return nil
}

func (m auditModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.recalcLayout()
		if m.view == viewDetail {
			m.detailViewport.Width = m.width - 4
			m.detailViewport.Height = m.height - 4
			m.detailViewport.SetContent(m.renderDetail())
		}
		return m, nil

	case tea.KeyMsg:
		if m.view == viewDetail {
			return m.updateDetailView(msg)
		}
		return m.updateListView(msg)
	}

	return m, nil
}

func (m auditModel) updateListView(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		m.wantQuit = true
		return m, tea.Quit
	case "esc", "b":
		m.wantQuit = false
		return m, tea.Quit
	case "tab", "left", "right":
		m.activePane = 1 - m.activePane
		m.recalcContent()
		return m, nil
	case "up", "k":
		m.moveCursor(-1)
		m.recalcContent()
		m.ensureCursorVisible()
		return m, nil
	case "down", "j":
		m.moveCursor(1)
		m.recalcContent()
		m.ensureCursorVisible()
		return m, nil
	case "enter":
		return m.openDetailView()
	}

	// Forward other keys (pgup/pgdn/home/end) to the active viewport.
	var cmd tea.Cmd
	if m.activePane == 0 {
		m.leftViewport, cmd = m.leftViewport.Update(msg)
	} else {
		m.rightViewport, cmd = m.rightViewport.Update(msg)
	}
	return m, cmd
}

func (m auditModel) updateDetailView(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		m.wantQuit = true
		return m, tea.Quit
	case "esc", "backspace":
		m.view = viewList
		return m, nil
	case "o":
		url := m.detail.job.ApplyURL
		if url == "" {
			url = m.detail.job.PostingURL
		}
		if url != "" {
			openURL(url)
		}
		return m, nil
	case "r":
		if m.detail.job.Description != "" {
			m.showDescription = !m.showDescription
			m.detailViewport.SetContent(m.renderDetail())
			m.detailViewport.SetYOffset(0)
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.detailViewport, cmd = m.detailViewport.Update(msg)
	return m, cmd
}

func (m *auditModel) moveCursor(delta int) {
	if m.activePane == 0 {
		m.leftCursor = clamp(m.leftCursor+delta, 0, max(len(m.allJobs)-1, 0))
	} else {
		m.rightCursor = clamp(m.rightCursor+delta, 0, max(len(m.newJobs)-1, 0))
	}
}

func (m *auditModel) ensureCursorVisible() {
	var vp *viewport.Model
	var cursor int
	if m.activePane == 0 {
		vp = &m.leftViewport
		cursor = m.leftCursor
	} else {
		vp = &m.rightViewport
		cursor = m.rightCursor
	}

	cursorTop := cursor * jobItemHeight
	cursorBottom := cursorTop + jobItemHeight - 1

	if cursorTop < vp.YOffset {
		vp.SetYOffset(cursorTop)
	} else if cursorBottom >= vp.YOffset+vp.Height {
		vp.SetYOffset(cursorBottom - vp.Height + 1)
	}
}

func (m auditModel) openDetailView() (tea.Model, tea.Cmd) {
	jobs := m.activeJobs()
	if len(jobs) == 0 {
		return m, nil
	}

	m.view = viewDetail
	m.detail = jobs[m.activeCursor()]
	m.showDescription = false
	m.detailViewport = viewport.New(m.width-4, m.height-4)
	m.detailViewport.SetContent(m.renderDetail())
	return m, nil
}

func (m *auditModel) recalcLayout() {
	// 2 border chars per pane + 1 gap between panes.
	paneWidth := max((m.width-5)/2, 20)

	// Header (1 line) + border top/bottom (2) + status bar (1) = 4 lines overhead.
	paneHeight := max(m.height-4, 5)

	if !m.ready {
		m.leftViewport = viewport.New(paneWidth, paneHeight)
		m.rightViewport = viewport.New(paneWidth, paneHeight)
		m.ready = true
	} else {
		m.leftViewport.Width = paneWidth
		m.leftViewport.Height = paneHeight
		m.rightViewport.Width = paneWidth
		m.rightViewport.Height = paneHeight
	}

	m.recalcContent()
}

func (m *auditModel) recalcContent() {
	m.leftViewport.SetContent(renderJobs(m.allJobs, m.leftCursor, m.activePane == 0))
	m.rightViewport.SetContent(renderJobs(m.newJobs, m.rightCursor, m.activePane == 1))
}

func (m auditModel) activeJobs() []entry {
	if m.activePane == 0 {
		return m.allJobs
	}
	return m.newJobs
}

func (m auditModel) activeCursor() int {
	if m.activePane == 0 {
		return m.leftCursor
	}
	return m.rightCursor
}

func (m auditModel) View() string {
	if !m.ready {
		return "Initializing..."
	}

	if m.view == viewDetail {
		return m.viewDetail()
	}

	return m.viewList()
}

func (m auditModel) viewList() string {
	paneWidth := m.leftViewport.Width

	leftHeader := fmt.Sprintf(" Fetched (%d)", len(m.allJobs))
	rightHeader := fmt.Sprintf(" Would Create (%d)", len(m.newJobs))

	var leftHeaderRendered, rightHeaderRendered string
	var leftBorder, rightBorder lipgloss.Style

	if m.activePane == 0 {
		leftHeaderRendered = activeHeaderStyle.Render(leftHeader)
		rightHeaderRendered = inactiveHeaderStyle.Render(rightHeader)
		leftBorder = activeBorderStyle.Width(paneWidth)
		rightBorder = inactiveBorderStyle.Width(paneWidth)
	} else {
		leftHeaderRendered = inactiveHeaderStyle.Render(leftHeader)
		rightHeaderRendered = activeHeaderStyle.Render(rightHeader)
		leftBorder = inactiveBorderStyle.Width(paneWidth)
		rightBorder = activeBorderStyle.Width(paneWidth)
	}

	leftPane := leftBorder.Render(m.leftViewport.View())
	rightPane := rightBorder.Render(m.rightViewport.View())

	headerRow := lipgloss.JoinHorizontal(lipgloss.Top,
		lipgloss.NewStyle().Width(paneWidth+2).Render(leftHeaderRendered),
		" ",
		lipgloss.NewStyle().Width(paneWidth+2).Render(rightHeaderRendered),
	)

	panes := lipgloss.JoinHorizontal(lipgloss.Top, leftPane, " ", rightPane)

	statusBar := statusBarStyle.Width(m.width).Render(m.statusText())

	return headerRow + "\n" + panes + "\n" + statusBar
}

func (m auditModel) statusText() string {
	r := m.report
	if r.Error != "" && r.Fetched == 0 {
		return fmt.Sprintf(" %s    esc back  q quit", r.Error)
	}
	return fmt.Sprintf(" %s via %s | %d fetched | %d new | %d duplicate | %d filtered    ←/→/Tab switch  ↑/↓ cursor  Enter detail  Esc back  q quit",
		r.Platform, r.Source, r.Fetched, r.New, r.Duplicate, r.Filtered)
}

func (m auditModel) viewDetail() string {
	title := detailTitleStyle.Render("Job Details")

	border := activeBorderStyle.Width(m.width - 2)
	content := border.Render(m.detailViewport.View())

	statusText := " o open URL  esc/backspace back  ↑/↓ scroll  q quit"
	if m.detail.job.Description != "" {
		statusText = " o open URL  r desc  esc/backspace back  ↑/↓ scroll  q quit"
	}
	statusBar := statusBarStyle.Width(m.width).Render(statusText)

	return title + "\n" + content + "\n" + statusBar
}

func (m auditModel) renderDetail() string {
	j := m.detail.job
	var b strings.Builder

	addField := func(label, value string) {
		if value == "" {
			return
		}
		b.WriteString(detailLabelStyle.Render(label))
		b.WriteString(detailValueStyle.Render(value))
		b.WriteByte('\n')
	}

	addField("Title", j.Title)
	addField("Company", m.report.Company)
	addField("Status", classStyles[m.detail.class].Render(m.detail.class))
	addField("Platform", string(j.Platform))
	addField("Upstream ID", j.UpstreamID)

	b.WriteByte('\n')
	addField("Location", j.Location)
	addField("Country", orUnknown(j.Country))
	addField("Remote", yesNo(j.Remote))
	addField("Salary", j.Salary)

	b.WriteByte('\n')
	addField("Posting URL", orUnknown(j.PostingURL))
	if j.ApplyURL != j.PostingURL {
		addField("Apply URL", j.ApplyURL)
	}

	wrapWidth := max(m.width-8, 20)
	if j.Description != "" {
		b.WriteByte('\n')
		if m.showDescription {
			fill := strings.Repeat("─", max(wrapWidth-len("── Job Description "), 3))
			b.WriteString(descDividerStyle.Render("── Job Description "+fill) + "\n\n")
			b.WriteString(descBodyStyle.Render(wrapParagraphs(j.Description, wrapWidth)) + "\n")
		} else {
			b.WriteString(descHintStyle.Render("  press r to read job description") + "\n")
		}
	}

	if m.report.Error != "" {
		b.WriteByte('\n')
		b.WriteString(errorStyle.Render("⚠ "+m.report.Error) + "\n")
	}

	return b.String()
}

func renderJobs(jobs []entry, cursor int, isActive bool) string {
	if len(jobs) == 0 {
		return "  (no jobs)"
	}

	var b strings.Builder
	for i, e := range jobs {
		isSelected := isActive && i == cursor

		titleSt := jobTitleStyle
		subtitleSt := jobSubtitleStyle
		prefix := "  "
		if isSelected {
			titleSt = selectedJobTitleStyle
			subtitleSt = selectedJobSubtitleStyle
			prefix = "> "
		}

		b.WriteString(prefix)
		b.WriteString(titleSt.Render(e.job.Title))
		b.WriteString(" ")
		b.WriteString(classStyles[e.class].Render("[" + e.class + "]"))
		b.WriteByte('\n')

		location := e.job.Location
		if location == "" {
			location = "n/a"
		}
		if e.job.Country != "" && !strings.Contains(location, e.job.Country) {
			location += " · " + e.job.Country
		}
		b.WriteString(prefix)
		b.WriteString(subtitleSt.Render(location))
		b.WriteByte('\n')

		if i < len(jobs)-1 {
			b.WriteByte('\n')
		}
	}
	return b.String()
}

// wrapParagraphs word-wraps each line of text separately so list items and
// paragraph breaks survive.
func wrapParagraphs(text string, width int) string {
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		lines[i] = wordWrap(line, width)
	}
	return strings.Join(lines, "\n")
}

func wordWrap(text string, width int) string {
	words := strings.Fields(text)
	if len(words) == 0 {
		return ""
	}
	var lines []string
	line := words[0]
	for _, w := range words[1:] {
		if len(line)+1+len(w) <= width {
			line += " " + w
		} else {
			lines = append(lines, line)
			line = w
		}
	}
	lines = append(lines, line)
	return strings.Join(lines, "\n")
}

func orUnknown(s string) string {
	if s == "" {
		return "unknown"
	}
	return s
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// openURL opens url in the default system browser, fire-and-forget.
func openURL(url string) {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", url)
	case "linux":
		cmd = exec.Command("xdg-open", url)
	case "windows":
		cmd = exec.Command("cmd", "/c", "start", url)
	default:
		return
	}
	_ = cmd.Start()
}

// RunAuditTUI launches the split-pane view of one dry-run report.
// Returns wantQuit=true if the user pressed q/ctrl+c, false if they pressed
// esc to return to the picker.
func RunAuditTUI(report poller.Report) (bool, error) {
	p := tea.NewProgram(newAuditModel(report), tea.WithAltScreen())
	result, err := p.Run()
	if err != nil {
		return false, err
	}
	final := result.(auditModel)
	return final.wantQuit, nil
}
