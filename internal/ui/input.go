package ui

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// ErrCancelled is returned when the user aborts a prompt or a running task.
var ErrCancelled = errors.New("cancelled")

// Password asks for the account password on stderr. Input is masked and an
// empty answer is refused.
func Password(title string) (string, error) {
	if !Interactive() {
		return "", fmt.Errorf("cannot prompt for %q: stdin is not a terminal", title)
	}

	final, err := tea.NewProgram(newPasswordModel(title), tea.WithOutput(os.Stderr)).Run()
	if err != nil {
		return "", err
	}
	m, ok := final.(passwordModel)
	if !ok || !m.submitted {
		return "", ErrCancelled
	}
	return m.input.Value(), nil
}

type passwordModel struct {
	title     string
	input     textinput.Model
	hint      string
	submitted bool
	cancelled bool
}

func newPasswordModel(title string) passwordModel {
	in := textinput.New()
	in.Prompt = "› "
	in.Placeholder = "account password"
	in.EchoMode = textinput.EchoPassword
	in.EchoCharacter = '•'
	in.CharLimit = 128
	in.Width = 32
	in.Focus()
	return passwordModel{title: title, input: in}
}

func (m passwordModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m passwordModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			m.cancelled = true
			return m, tea.Quit
		case tea.KeyEnter:
			if m.input.Value() == "" {
				m.hint = "password is required"
				return m, nil
			}
			m.submitted = true
			return m, tea.Quit
		}
		m.hint = ""
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m passwordModel) View() string {
	switch {
	case m.submitted:
		return ""
	case m.cancelled:
		return quitTextStyle.Render("Cancelled.") + "\n"
	}

	hint := "enter to log in, esc to cancel"
	if m.hint != "" {
		hint = m.hint
	}

	var b strings.Builder
	b.WriteString("\n" + titleStyle.Render(m.title) + "\n\n")
	b.WriteString(m.input.View() + "\n")
	b.WriteString(dimStyle.Render(hint) + "\n")
	return b.String()
}
