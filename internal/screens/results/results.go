// Package results shows the outcome of a finished game and records it.
package results

import (
	"context"
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"github.com/sirupsen/logrus"

	"github.com/abhisek/hanzidrill/internal/router"
	"github.com/abhisek/hanzidrill/internal/screen"
	"github.com/abhisek/hanzidrill/internal/store"
	"github.com/abhisek/hanzidrill/internal/ui/components"
	"github.com/abhisek/hanzidrill/internal/ui/layout"
	"github.com/abhisek/hanzidrill/internal/ui/theme"
)

// Detail is one reviewed answer.
type Detail struct {
	Prompt  string
	Answer  string
	Correct bool
}

// Summary is what the screen displays.
type Summary struct {
	Heading string
	Score   int
	Total   int
	Percent int
	// Extra lines under the score, e.g. moves or a grade message.
	Notes   []string
	Details []Detail
}

type savedMsg struct {
	Err error
}

// ResultsScreen displays a Summary, persists the play-through once, and
// offers a replay.
type ResultsScreen struct {
	summary Summary
	record  *store.ResultData
	repo    store.ResultRepo
	log     logrus.FieldLogger
	again   func() screen.Screen

	saved   bool
	saveErr string
}

var _ screen.Screen = (*ResultsScreen)(nil)
var _ screen.KeyHintProvider = (*ResultsScreen)(nil)

// New creates a ResultsScreen. record is written to repo on Init when both
// are non-nil. again builds the replay screen; nil disables replay.
func New(summary Summary, record *store.ResultData, repo store.ResultRepo, log logrus.FieldLogger, again func() screen.Screen) *ResultsScreen {
	return &ResultsScreen{
		summary: summary,
		record:  record,
		repo:    repo,
		log:     log,
		again:   again,
	}
}

func (s *ResultsScreen) Init() tea.Cmd {
	if s.repo == nil || s.record == nil {
		return nil
	}
	repo, data := s.repo, *s.record
	return func() tea.Msg {
		return savedMsg{Err: repo.AppendResult(context.Background(), data)}
	}
}

func (s *ResultsScreen) Title() string {
	return "Results"
}

func (s *ResultsScreen) KeyHints() []layout.KeyHint {
	hints := []layout.KeyHint{{Key: "Enter", Description: "Home"}}
	if s.again != nil {
		hints = append(hints, layout.KeyHint{Key: "R", Description: "Play again"})
	}
	return hints
}

func (s *ResultsScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case savedMsg:
		s.saved = msg.Err == nil
		if msg.Err != nil {
			s.saveErr = msg.Err.Error()
			if s.log != nil {
				s.log.WithError(msg.Err).Warn("failed to save result")
			}
		}
		return s, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "enter", "esc", "q":
			return s, func() tea.Msg { return router.PopScreenMsg{} }
		case "r":
			if s.again != nil {
				next := s.again()
				return s, func() tea.Msg { return router.ReplaceScreenMsg{Screen: next} }
			}
		}
	}
	return s, nil
}

func (s *ResultsScreen) View(width, height int) string {
	sum := s.summary
	center := lipgloss.NewStyle().Width(width).Align(lipgloss.Center)

	var b strings.Builder
	b.WriteString("\n")
	b.WriteString(center.Inherit(theme.Title).Render(sum.Heading))
	b.WriteString("\n\n")
	b.WriteString(center.Inherit(theme.Hanzi).Render(fmt.Sprintf("%d / %d", sum.Score, sum.Total)))
	b.WriteString("\n")

	bar := components.NewProgressBar("", sum.Score, sum.Total, true, min(width-8, 50))
	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, bar.View()))
	b.WriteString("\n\n")

	for _, n := range sum.Notes {
		b.WriteString(center.Inherit(theme.Body).Render(n))
		b.WriteString("\n")
	}

	if len(sum.Details) > 0 {
		b.WriteString("\n")
		var rows []string
		for _, d := range sum.Details {
			mark, style := "✓", theme.Correct
			if !d.Correct {
				mark, style = "✗", theme.Incorrect
			}
			rows = append(rows, style.Render(mark)+"  "+theme.Body.Render(d.Prompt)+
				theme.Hint.Render("  →  "+d.Answer))
		}
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center,
			lipgloss.JoinVertical(lipgloss.Left, rows...)))
		b.WriteString("\n")
	}

	switch {
	case s.saveErr != "":
		b.WriteString("\n" + center.Foreground(theme.Error).Render("Not saved: "+s.saveErr))
	case s.saved:
		b.WriteString("\n" + center.Inherit(theme.Hint).Render("Saved to history"))
	}

	return b.String()
}
