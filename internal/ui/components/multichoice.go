package components

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/hanzidrill/internal/ui/theme"
)

// MultiChoice is a cursor over answer options. It only tracks the cursor
// and renders; scoring stays with the caller.
type MultiChoice struct {
	Options []string
	Cursor  int

	// Chosen and Correct are -1 until the answer is revealed.
	Chosen  int
	Correct int
}

// NewMultiChoice creates a selector over options.
func NewMultiChoice(options []string) MultiChoice {
	return MultiChoice{Options: options, Chosen: -1, Correct: -1}
}

// Update moves the cursor. It returns the index picked with a number key
// or Enter, or -1.
func (m MultiChoice) Update(msg tea.Msg) (MultiChoice, int) {
	kmsg, ok := msg.(tea.KeyMsg)
	if !ok || m.Revealed() {
		return m, -1
	}

	key := kmsg.String()
	switch key {
	case "up", "k":
		if m.Cursor > 0 {
			m.Cursor--
		}
	case "down", "j":
		if m.Cursor < len(m.Options)-1 {
			m.Cursor++
		}
	case "enter", "space":
		return m, m.Cursor
	default:
		if len(key) == 1 && key[0] >= '1' && key[0] <= '9' {
			if i := int(key[0] - '1'); i < len(m.Options) {
				m.Cursor = i
				return m, i
			}
		}
	}
	return m, -1
}

// Reveal marks the chosen and correct options for feedback rendering.
func (m *MultiChoice) Reveal(chosen, correct int) {
	m.Chosen = chosen
	m.Correct = correct
}

// Revealed reports whether feedback colors are shown.
func (m MultiChoice) Revealed() bool {
	return m.Correct >= 0
}

// View renders the options.
func (m MultiChoice) View() string {
	var b strings.Builder
	for i, opt := range m.Options {
		prefix := "  "
		if i == m.Cursor && !m.Revealed() {
			prefix = "▸ "
		}
		line := fmt.Sprintf("%s%d)  %s", prefix, i+1, opt)

		var style lipgloss.Style
		switch {
		case m.Revealed() && i == m.Correct:
			style = theme.Correct
		case m.Revealed() && i == m.Chosen:
			style = theme.Incorrect
		case m.Revealed():
			style = lipgloss.NewStyle().Foreground(theme.TextDim)
		case i == m.Cursor:
			style = theme.Selected
		default:
			style = theme.Unselected
		}
		b.WriteString(style.Render(line))
		b.WriteString("\n")
	}
	return b.String()
}
