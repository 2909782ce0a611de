package home

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/hanzidrill/internal/content"
	"github.com/abhisek/hanzidrill/internal/ui/components"
	"github.com/abhisek/hanzidrill/internal/ui/theme"
)

const titleFull = `╦ ╦╔═╗╔╗╔╔═╗╦╔╦╗╦═╗╦╦  ╦
╠═╣╠═╣║║║╔═╝║ ║║╠╦╝║║  ║
╩ ╩╩ ╩╝╚╝╚═╝╩═╩╝╩╚═╩╩═╝╩═╝`

const titleCompact = "汉 · H A N Z I D R I L L"

// contentWidth returns the uniform inner width used for all sections.
func contentWidth(frameWidth int) int {
	w := frameWidth - 6
	if w > 60 {
		w = 60
	}
	if w < 20 {
		w = 20
	}
	return w
}

func renderTitle(cw int, compact bool) string {
	style := lipgloss.NewStyle().Foreground(theme.Primary).Bold(true)
	art := titleFull
	if compact {
		art = titleCompact
	}
	return lipgloss.NewStyle().Width(cw).Align(lipgloss.Center).Render(style.Render(art))
}

// renderLevelBar shows every available level with the selected one lit.
func renderLevelBar(levels []int, selected int, cw int) string {
	on := lipgloss.NewStyle().
		Foreground(theme.BgDark).
		Background(theme.Accent).
		Bold(true).
		Padding(0, 1)
	off := lipgloss.NewStyle().
		Foreground(theme.TextDim).
		Padding(0, 1)

	parts := make([]string, 0, len(levels))
	for _, l := range levels {
		label := content.LevelName(l)
		if l == selected {
			parts = append(parts, on.Render(label))
		} else {
			parts = append(parts, off.Render(label))
		}
	}
	return lipgloss.NewStyle().
		Width(cw).
		Align(lipgloss.Center).
		Render("◂ " + strings.Join(parts, " ") + " ▸")
}

// renderStatsBar renders the level and history numbers in a double border.
func renderStatsBar(words, plays, lastPercent, cw int, compact bool) string {
	wordStyle := lipgloss.NewStyle().Foreground(theme.Accent).Bold(true)
	playStyle := lipgloss.NewStyle().Foreground(theme.Secondary).Bold(true)
	dimStyle := lipgloss.NewStyle().Foreground(theme.TextDim)

	last := dimStyle.Render("no plays yet")
	if plays > 0 {
		last = playStyle.Render(fmt.Sprintf("last %d%%", lastPercent))
	}

	var stats string
	if compact {
		stats = fmt.Sprintf("%s %s %s",
			wordStyle.Render(fmt.Sprintf("字%d", words)),
			playStyle.Render(fmt.Sprintf("▶%d", plays)),
			last)
	} else {
		stats = fmt.Sprintf("%s  %s  %s",
			wordStyle.Render(fmt.Sprintf("字 %d WORDS", words)),
			playStyle.Render(fmt.Sprintf("▶ %d PLAYS", plays)),
			last)
	}

	return lipgloss.NewStyle().
		Border(lipgloss.DoubleBorder()).
		BorderForeground(theme.Accent).
		Width(cw-2).
		Align(lipgloss.Center).
		Padding(0, 1).
		Render(stats)
}

func renderMenu(m components.Menu, cw int) string {
	return lipgloss.NewStyle().
		Width(cw).
		Align(lipgloss.Center).
		Render(lipgloss.NewStyle().Width(min(cw, 44)).Render(m.View()))
}

// renderLLMNote is shown when example sentences can only come from the
// content packs and the local cache.
func renderLLMNote(cw int) string {
	return lipgloss.NewStyle().
		Foreground(theme.TextDim).
		Width(cw).
		Align(lipgloss.Center).
		Render("Set an LLM API key for generated example sentences (see hanzidrill --help)")
}

// renderFrame wraps content in a double border centered in the area.
func renderFrame(content string, width, height int) string {
	return lipgloss.NewStyle().
		Border(lipgloss.DoubleBorder()).
		BorderForeground(theme.Primary).
		Width(width-2).
		Height(height-2).
		Align(lipgloss.Center, lipgloss.Center).
		Render(content)
}
