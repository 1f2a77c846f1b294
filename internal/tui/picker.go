package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/amishk599/resumefit/internal/config"
)

var (
	pickerTitleStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("39")).
				Padding(1, 0, 1, 2)

	pickerItemStyle = lipgloss.NewStyle().
			Padding(0, 0, 0, 4)

	pickerSelectedStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("39")).
				Bold(true).
				Padding(0, 0, 0, 2)

	pickerHintStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")).
			Padding(1, 0, 0, 2)
)

// Picker results besides a view index.
const (
	pickNone = -1
	pickQuit = -2
)

type pickerModel struct {
	views  []config.ViewConfig
	cursor int
	chosen int
}

func (m pickerModel) Init() tea.Cmd {
	return nil
}

func (m pickerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			m.chosen = pickQuit
			return m, tea.Quit
		case "up", "k":
			if m.cursor > 0 {
				m.cursor--
			}
		case "down", "j":
			if m.cursor < len(m.views)-1 {
				m.cursor++
			}
		case "enter":
			m.chosen = m.cursor
			return m, tea.Quit
		}
	}
	return m, nil
}

// describeView lists the behaviours a view enables, e.g. "score, busy guard, basename links".
func describeView(v config.ViewConfig) string {
	var parts []string
	if v.ShowScore {
		parts = append(parts, "score")
	}
	if v.BusyGuard {
		parts = append(parts, "busy guard")
	}
	parts = append(parts, v.LinkStrategy+" links")
	return strings.Join(parts, ", ")
}

func (m pickerModel) View() string {
	s := pickerTitleStyle.Render("Resume Analyzer · Select a view")
	s += "\n"

	for i, v := range m.views {
		label := fmt.Sprintf("%s (%s)", v.Name, describeView(v))
		if i == m.cursor {
			s += pickerSelectedStyle.Render("> "+label) + "\n"
		} else {
			s += pickerItemStyle.Render(label) + "\n"
		}
	}

	s += pickerHintStyle.Render("↑/↓/j/k navigate  enter select  q quit")
	return s
}

// RunViewPicker shows an interactive view selector.
// Returns the index of the chosen view, or -1 if the user quit.
func RunViewPicker(views []config.ViewConfig) (int, error) {
	m := pickerModel{
		views:  views,
		chosen: pickNone,
	}

	p := tea.NewProgram(m)
	result, err := p.Run()
	if err != nil {
		return -1, err
	}

	final := result.(pickerModel)
	if final.chosen < 0 {
		return -1, nil
	}
	return final.chosen, nil
}
