// Package history lists past play-throughs and per-mode statistics.
package history

import (
	"context"
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/hanzidrill/internal/content"
	"github.com/abhisek/hanzidrill/internal/router"
	"github.com/abhisek/hanzidrill/internal/screen"
	"github.com/abhisek/hanzidrill/internal/store"
	"github.com/abhisek/hanzidrill/internal/ui/layout"
	"github.com/abhisek/hanzidrill/internal/ui/theme"
)

// Limit caps the number of recent results loaded.
const Limit = 50

type historyLoadedMsg struct {
	Results []store.PlayResult
	Stats   []store.ModeStat
	Err     error
}

type tab int

const (
	tabRecent tab = iota
	tabStats
)

// HistoryScreen displays recent results and aggregated stats.
type HistoryScreen struct {
	repo     store.ResultRepo
	results  []store.PlayResult
	stats    []store.ModeStat
	tab      tab
	selected int
	expanded map[int]bool
	loaded   bool
	errMsg   string
}

var _ screen.Screen = (*HistoryScreen)(nil)
var _ screen.KeyHintProvider = (*HistoryScreen)(nil)

// New creates a new HistoryScreen.
func New(repo store.ResultRepo) *HistoryScreen {
	return &HistoryScreen{
		repo:     repo,
		expanded: make(map[int]bool),
	}
}

func (s *HistoryScreen) Init() tea.Cmd {
	repo := s.repo
	return func() tea.Msg {
		if repo == nil {
			return historyLoadedMsg{}
		}
		ctx := context.Background()

		results, err := repo.QueryResults(ctx, store.QueryOpts{Limit: Limit})
		if err != nil {
			return historyLoadedMsg{Err: err}
		}
		stats, err := repo.ModeStats(ctx)
		if err != nil {
			return historyLoadedMsg{Results: results, Err: err}
		}
		return historyLoadedMsg{Results: results, Stats: stats}
	}
}

func (s *HistoryScreen) Title() string {
	return "History"
}

func (s *HistoryScreen) KeyHints() []layout.KeyHint {
	if s.tab == tabStats {
		return []layout.KeyHint{
			{Key: "Tab", Description: "Recent"},
			{Key: "Esc", Description: "Back"},
		}
	}
	return []layout.KeyHint{
		{Key: "Enter", Description: "Details"},
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Tab", Description: "Stats"},
		{Key: "Esc", Description: "Back"},
	}
}

func (s *HistoryScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case historyLoadedMsg:
		if msg.Err != nil {
			s.errMsg = msg.Err.Error()
		}
		s.results = msg.Results
		s.stats = msg.Stats
		s.loaded = true
		return s, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "esc":
			return s, func() tea.Msg { return router.PopScreenMsg{} }
		case "tab":
			if s.tab == tabRecent {
				s.tab = tabStats
			} else {
				s.tab = tabRecent
			}
		case "up", "k":
			if s.selected > 0 {
				s.selected--
			}
		case "down", "j":
			if s.selected < len(s.results)-1 {
				s.selected++
			}
		case "enter":
			s.expanded[s.selected] = !s.expanded[s.selected]
		}
	}
	return s, nil
}

func (s *HistoryScreen) View(width, height int) string {
	if s.errMsg != "" {
		return lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.Error).
			Render(fmt.Sprintf("\n\nError: %s", s.errMsg))
	}
	if !s.loaded {
		return lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.TextDim).
			Render("\n\n  Loading history...")
	}
	if len(s.results) == 0 {
		return lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.TextDim).Italic(true).
			Render("\n\n  Nothing played yet. 加油!")
	}

	if s.tab == tabStats {
		return s.statsView(width)
	}
	return s.recentView(width)
}

func (s *HistoryScreen) recentView(width int) string {
	var b strings.Builder
	b.WriteString("\n")

	for i, r := range s.results {
		prefix := "  "
		if i == s.selected {
			prefix = "> "
		}

		line := fmt.Sprintf("%s%s  %-26s %-6s %3d/%-3d %3d%%  %s",
			prefix,
			r.Timestamp.Local().Format("Jan 02 15:04"),
			r.Mode,
			content.LevelName(r.Level),
			r.Score, r.Total, r.Percent(),
			duration(r.DurationSecs))

		style := lipgloss.NewStyle().Foreground(theme.Text)
		if i == s.selected {
			style = style.Foreground(theme.Primary).Bold(true)
		}
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, style.Render(line)))
		b.WriteString("\n")

		if s.expanded[i] {
			for _, d := range detailLines(r) {
				b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center,
					lipgloss.NewStyle().Foreground(theme.TextDim).Italic(true).Render("    "+d)))
				b.WriteString("\n")
			}
		}
	}
	return b.String()
}

func (s *HistoryScreen) statsView(width int) string {
	var b strings.Builder
	b.WriteString("\n")

	header := fmt.Sprintf("%-26s %-6s %5s %5s %5s  %s", "MODE", "LEVEL", "PLAYS", "BEST", "AVG", "LAST")
	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, theme.Subtitle.Render(header)))
	b.WriteString("\n")

	for _, st := range s.stats {
		line := fmt.Sprintf("%-26s %-6s %5d %4d%% %4d%%  %s",
			st.Mode, content.LevelName(st.Level), st.Plays, st.BestPercent, st.AvgPercent,
			st.LastPlayed.Local().Format("Jan 02"))
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, theme.Body.Render(line)))
		b.WriteString("\n")
	}
	return b.String()
}

func detailLines(r store.PlayResult) []string {
	lines := []string{"Session " + r.SessionID}
	if r.Moves > 0 {
		lines = append(lines, fmt.Sprintf("%d moves", r.Moves))
	}
	if r.Detail != "" {
		d := []rune(r.Detail)
		if len(d) > 120 {
			d = append(d[:117], []rune("...")...)
		}
		lines = append(lines, string(d))
	}
	return lines
}

func duration(secs int) string {
	return fmt.Sprintf("%d:%02d", secs/60, secs%60)
}
