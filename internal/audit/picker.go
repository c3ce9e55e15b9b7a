package audit

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/amishk599/boardsync/internal/model"
)

// pickerRows is how many companies are listed at once.
const pickerRows = 15

var (
	pickerTitleStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("39")).
				Padding(1, 0, 0, 2)

	pickerItemStyle = lipgloss.NewStyle().
			Padding(0, 0, 0, 4)

	pickerSelectedStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("39")).
				Bold(true).
				Padding(0, 0, 0, 2)

	pickerMutedStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("240"))

	pickerHintStyle = pickerMutedStyle.
			Padding(1, 0, 0, 2)
)

type pickerModel struct {
	companies []model.Company
	query     textinput.Model
	matches   []int // indexes into companies
	cursor    int   // position in matches
	offset    int   // first visible match
	chosen    int   // -1 = quit, otherwise an index into companies
}

func newPickerModel(companies []model.Company) pickerModel {
	q := textinput.New()
	q.Prompt = "filter: "
	q.Placeholder = "name or platform"
	q.Focus()

	m := pickerModel{companies: companies, query: q, chosen: -1}
	m.refilter()
	return m
}

func (m pickerModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m pickerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.String() {
		case "esc", "ctrl+c":
			m.chosen = -1
			return m, tea.Quit
		case "up", "ctrl+p":
			m.move(-1)
			return m, nil
		case "down", "ctrl+n":
			m.move(1)
			return m, nil
		case "enter":
			if len(m.matches) == 0 {
				return m, nil
			}
			m.chosen = m.matches[m.cursor]
			return m, tea.Quit
		}
	}

	var cmd tea.Cmd
	before := m.query.Value()
	m.query, cmd = m.query.Update(msg)
	if m.query.Value() != before {
		m.refilter()
	}
	return m, cmd
}

// refilter keeps companies whose name or platform contains the query,
// case-insensitively, and resets the cursor.
func (m *pickerModel) refilter() {
	q := strings.ToLower(strings.TrimSpace(m.query.Value()))
	m.matches = m.matches[:0]
	for i, c := range m.companies {
		if q == "" ||
			strings.Contains(strings.ToLower(c.Name), q) ||
			strings.Contains(companyPlatform(c), q) {
			m.matches = append(m.matches, i)
		}
	}
	m.cursor, m.offset = 0, 0
}

func (m *pickerModel) move(delta int) {
	if len(m.matches) == 0 {
		return
	}
	m.cursor = clamp(m.cursor+delta, 0, len(m.matches)-1)
	if m.cursor < m.offset {
		m.offset = m.cursor
	} else if m.cursor >= m.offset+pickerRows {
		m.offset = m.cursor - pickerRows + 1
	}
}

func (m pickerModel) View() string {
	var b strings.Builder
	b.WriteString(pickerTitleStyle.Render("Pipeline Audit: select a company"))
	b.WriteString("\n")
	b.WriteString(pickerItemStyle.Render(m.query.View()))
	b.WriteString("\n\n")

	if len(m.matches) == 0 {
		b.WriteString(pickerItemStyle.Render(pickerMutedStyle.Render("no matching companies")) + "\n")
	}
	end := min(m.offset+pickerRows, len(m.matches))
	for i := m.offset; i < end; i++ {
		c := m.companies[m.matches[i]]
		label := fmt.Sprintf("%s %s", c.Name, pickerMutedStyle.Render("("+companyPlatform(c)+")"))
		if i == m.cursor {
			b.WriteString(pickerSelectedStyle.Render("> "+label) + "\n")
		} else {
			b.WriteString(pickerItemStyle.Render(label) + "\n")
		}
	}

	hint := fmt.Sprintf("%d/%d  ↑/↓ navigate  enter select  esc quit", len(m.matches), len(m.companies))
	b.WriteString(pickerHintStyle.Render(hint))
	return b.String()
}

func companyPlatform(c model.Company) string {
	if c.Platform == "" {
		return "unresolved"
	}
	return string(c.Platform)
}

// RunCompanyPicker shows an interactive company selector.
// Returns the index of the chosen company, or -1 if the user quit.
func RunCompanyPicker(companies []model.Company) (int, error) {
	p := tea.NewProgram(newPickerModel(companies))
	result, err := p.Run()
	if err != nil {
		return -1, err
	}
	return result.(pickerModel).chosen, nil
}
