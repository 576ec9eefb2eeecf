package ui

import (
	"fmt"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
)

// Option is one selectable entry.
type Option struct {
	Label string
	Hint  string
}

// SelectProfile shows a list on stderr and returns the chosen label.
func SelectProfile(title string, options []Option) (string, error) {
	if len(options) == 0 {
		return "", fmt.Errorf("nothing to select")
	}
	if !Interactive() {
		return "", fmt.Errorf("cannot select %q: stdin is not a terminal", title)
	}

	p := tea.NewProgram(selectModel{title: title, options: options}, tea.WithOutput(os.Stderr))
	finalModel, err := p.Run()
	if err != nil {
		return "", err
	}

	m, ok := finalModel.(selectModel)
	if !ok || !m.chosen {
		return "", ErrCancelled
	}
	return m.options[m.cursor].Label, nil
}

type selectModel struct {
	title    string
	options  []Option
	cursor   int
	chosen   bool
	quitting bool
}

func (m selectModel) Init() tea.Cmd { return nil }

func (m selectModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	switch key.String() {
	case "ctrl+c", "esc", "q":
		m.quitting = true
		return m, tea.Quit
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.options)-1 {
			m.cursor++
		}
	case "enter":
		m.chosen = true
		return m, tea.Quit
	}
	return m, nil
}

func (m selectModel) View() string {
	if m.chosen {
		return ""
	}
	if m.quitting {
		return quitTextStyle.Render("Cancelled.") + "\n"
	}

	var b strings.Builder
	b.WriteString("\n" + titleStyle.Render(m.title) + "\n\n")
	for i, o := range m.options {
		line := "  " + o.Label
		if i == m.cursor {
			line = cursorStyle.Render("> " + o.Label)
		}
		if o.Hint != "" {
			line += " " + dimStyle.Render(o.Hint)
		}
		b.WriteString(line + "\n")
	}
	b.WriteString("\n" + dimStyle.Render("↑/↓ move • enter select • esc cancel") + "\n")
	return b.String()
}
