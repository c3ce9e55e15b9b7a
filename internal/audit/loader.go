package audit

import (
	"context"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/amishk599/boardsync/internal/poller"
)

var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

type pollDoneMsg struct {
	report poller.Report
}

type spinnerTickMsg struct{}

type loaderModel struct {
	companyName string
	pollFn      func(ctx context.Context) poller.Report
	frame       int
	result      poller.Report
	err         error
	done        bool
}

func (m loaderModel) Init() tea.Cmd {
	return tea.Batch(m.doPoll(), m.tick())
}

func (m loaderModel) doPoll() tea.Cmd {
	pollFn := m.pollFn
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
		defer cancel()
		return pollDoneMsg{report: pollFn(ctx)}
	}
}

func (m loaderModel) tick() tea.Cmd {
	return tea.Tick(80*time.Millisecond, func(time.Time) tea.Msg {
		return spinnerTickMsg{}
	})
}

func (m loaderModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case pollDoneMsg:
		m.result = msg.report
		m.done = true
		return m, tea.Quit
	case spinnerTickMsg:
		m.frame = (m.frame + 1) % len(spinnerFrames)
		return m, m.tick()
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			m.done = true
			m.err = fmt.Errorf("cancelled")
			return m, tea.Quit
		}
	}
	return m, nil
}

func (m loaderModel) View() string {
	if m.done {
		return ""
	}
	spinner := lipgloss.NewStyle().Foreground(lipgloss.Color("33")).Render(spinnerFrames[m.frame])
	return fmt.Sprintf("%s Running pipeline for %s...\n", spinner, m.companyName)
}

// RunLoader shows a spinner while the pipeline runs. It renders inline (no alt screen).
func RunLoader(companyName string, pollFn func(ctx context.Context) poller.Report) (poller.Report, error) {
	m := loaderModel{
		companyName: companyName,
		pollFn:      pollFn,
	}
	p := tea.NewProgram(m)
	result, err := p.Run()
	if err != nil {
		return poller.Report{}, err
	}
	final := result.(loaderModel)
	return final.result, final.err
}
