package components

import (
	"charm.land/lipgloss/v2"

	"github.com/abhisek/hanzidrill/internal/ui/theme"
)

// ErrorBox renders a blocking error with the way back.
func ErrorBox(msg string, width int) string {
	body := theme.Incorrect.Render("Something went wrong") + "\n\n" +
		theme.Body.Render(msg) + "\n\n" +
		theme.Hint.Render("Press Esc to go back")
	return lipgloss.PlaceHorizontal(width, lipgloss.Center,
		theme.Card.Width(min(width-4, 60)).Render(body))
}

// Notice renders a dim centered line, for loading and empty states.
func Notice(msg string, width int) string {
	return lipgloss.NewStyle().
		Width(width).
		Align(lipgloss.Center).
		Foreground(theme.TextDim).
		Render("\n\n" + msg)
}
