package audit

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/amishk599/boardsync/internal/model"
)

func pickerCompanies() []model.Company {
	return []model.Company{
		{ID: "1", Name: "Acme", Platform: model.PlatformLever},
		{ID: "2", Name: "Globex"},
		{ID: "3", Name: "Initech", Platform: model.PlatformAshby},
	}
}

func typeInto(m tea.Model, s string) tea.Model {
	for _, r := range s {
		m, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
	return m
}

func TestPicker_FilterAndSelect(t *testing.T) {
	var m tea.Model = newPickerModel(pickerCompanies())
	m = typeInto(m, "unres")

	pm := m.(pickerModel)
	if len(pm.matches) != 1 || pm.matches[0] != 1 {
		t.Fatalf("expected only Globex to match, got %v", pm.matches)
	}

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if got := m.(pickerModel).chosen; got != 1 {
		t.Errorf("expected Globex (index 1) chosen, got %d", got)
	}
}

func TestPicker_NavigateAndQuit(t *testing.T) {
	var m tea.Model = newPickerModel(pickerCompanies())
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyDown})
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyDown})
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyDown})
	if got := m.(pickerModel).cursor; got != 2 {
		t.Errorf("expected cursor clamped at 2, got %d", got)
	}

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	if got := m.(pickerModel).chosen; got != -1 {
		t.Errorf("expected -1 after esc, got %d", got)
	}
}

func TestPicker_EnterWithNoMatches(t *testing.T) {
	var m tea.Model = newPickerModel(pickerCompanies())
	m = typeInto(m, "zzz")
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if got := m.(pickerModel).chosen; got != -1 {
		t.Errorf("expected no choice, got %d", got)
	}
}
