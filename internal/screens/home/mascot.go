package home

import (
	"charm.land/lipgloss/v2"

	"github.com/abhisek/hanzidrill/internal/ui/theme"
)

// Mood selects which lantern art to display.
type Mood int

const (
	MoodIdle        Mood = iota // no plays, or an average last play
	MoodCelebrating             // last play scored 80% or better
	MoodEncouraging             // last play scored under 50%
)

const lanternIdle = `  ┬
╭─┴─╮
│ 福 │
╰─┬─╯
  ╎`

const lanternCelebrating = `✦ ┬ ✦
╭─┴─╮
│ 好 │
╰─┬─╯
 ╎╎╎`

const lanternEncouraging = `  ┬
╭─┴─╮
│ 加 │ !
╰─┬─╯
  ╎`

func moodFor(plays, lastPercent int) Mood {
	switch {
	case plays == 0:
		return MoodIdle
	case lastPercent >= 80:
		return MoodCelebrating
	case lastPercent < 50:
		return MoodEncouraging
	}
	return MoodIdle
}

// RenderLantern returns the lantern art for mood.
func RenderLantern(mood Mood) string {
	art, fg := lanternIdle, theme.Primary
	switch mood {
	case MoodCelebrating:
		art, fg = lanternCelebrating, theme.Accent
	case MoodEncouraging:
		art, fg = lanternEncouraging, theme.Secondary
	}
	return lipgloss.NewStyle().Foreground(fg).Render(art)
}

func renderLantern(mood Mood, cw int) string {
	return lipgloss.NewStyle().
		Width(cw).
		Align(lipgloss.Center).
		Render(RenderLantern(mood))
}
