package ui

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
)

func TestPasswordModelMasksInput(t *testing.T) {
	var m tea.Model = newPasswordModel("Password for user@example.com")
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("secret")})

	pm := m.(passwordModel)
	assert.Equal(t, "secret", pm.input.Value())
	assert.Contains(t, m.View(), "Password for user@example.com")
	assert.NotContains(t, m.View(), "secret")

	m, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	assert.NotNil(t, cmd)
	assert.True(t, m.(passwordModel).submitted)
	assert.Empty(t, m.View())
}

func TestPasswordModelRefusesEmpty(t *testing.T) {
	var m tea.Model = newPasswordModel("Password")

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	assert.False(t, m.(passwordModel).submitted)
	assert.Contains(t, m.View(), "password is required")

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("x")})
	assert.NotContains(t, m.View(), "password is required")
}

func TestPasswordModelCancel(t *testing.T) {
	var m tea.Model = newPasswordModel("Password")
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyEsc})

	pm := m.(passwordModel)
	assert.True(t, pm.cancelled)
	assert.False(t, pm.submitted)
	assert.Contains(t, m.View(), "Cancelled.")
}
