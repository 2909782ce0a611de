package components

import (
	"testing"

	tea "charm.land/bubbletea/v2"
	"github.com/stretchr/testify/assert"
)

func press(r rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: r, Text: string(r)}
}

func TestMultiChoice_Keys(t *testing.T) {
	m := NewMultiChoice([]string{"a", "b", "c"})

	m, picked := m.Update(press('j'))
	assert.Equal(t, -1, picked)
	assert.Equal(t, 1, m.Cursor)

	m, picked = m.Update(press('3'))
	assert.Equal(t, 2, picked)
	assert.Equal(t, 2, m.Cursor)

	_, picked = m.Update(press('7'))
	assert.Equal(t, -1, picked, "digits past the options are ignored")

	m.Reveal(2, 0)
	assert.True(t, m.Revealed())
	_, picked = m.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	assert.Equal(t, -1, picked, "no picks after reveal")
}

func TestMenu_SkipsDisabled(t *testing.T) {
	ran := ""
	item := func(label string, disabled bool) MenuItem {
		return MenuItem{Label: label, Disabled: disabled, Action: func() tea.Cmd {
			ran = label
			return nil
		}}
	}
	m := NewMenu([]MenuItem{item("a", true), item("b", false), item("c", true), item("d", false)})
	assert.Equal(t, 1, m.Selected)

	m, _ = m.Update(press('j'))
	assert.Equal(t, 3, m.Selected)
	m, _ = m.Update(press('k'))
	assert.Equal(t, 1, m.Selected)

	m.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	assert.Equal(t, "b", ran)
}

func TestProgressBar_Clamps(t *testing.T) {
	assert.NotPanics(t, func() {
		NewProgressBar("x", 5, 0, true, 2).View()
		NewProgressBar("", 9, 3, false, 20).View()
	})
}
