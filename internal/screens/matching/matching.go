// Package matching is the pair-matching game screen.
package matching

import (
	"fmt"
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"github.com/google/uuid"

	"github.com/abhisek/hanzidrill/internal/content"
	"github.com/abhisek/hanzidrill/internal/matching"
	"github.com/abhisek/hanzidrill/internal/router"
	"github.com/abhisek/hanzidrill/internal/screen"
	"github.com/abhisek/hanzidrill/internal/screens/results"
	"github.com/abhisek/hanzidrill/internal/store"
	"github.com/abhisek/hanzidrill/internal/ui/components"
	"github.com/abhisek/hanzidrill/internal/ui/layout"
	"github.com/abhisek/hanzidrill/internal/ui/theme"
)

// ModePrefix prefixes the history label, e.g. "matching/pinyin-hanzi".
const ModePrefix = "matching/"

// tileColumns is the board width in cards.
const tileColumns = 4

// revealDoneMsg arrives when a mismatched pair has been hidden again.
type revealDoneMsg struct{}

// MatchingScreen renders the board and forwards picks to the engine.
type MatchingScreen struct {
	deps      screen.Deps
	level     int
	mode      matching.Mode
	engine    *matching.Engine
	cursor    int
	sessionID string
	started   time.Time
	errMsg    string
	notice    string
}

var _ screen.Screen = (*MatchingScreen)(nil)
var _ screen.KeyHintProvider = (*MatchingScreen)(nil)
var _ screen.StatusProvider = (*MatchingScreen)(nil)
var _ screen.Closer = (*MatchingScreen)(nil)

// New deals a board for level and mode.
func New(deps screen.Deps, level int, mode matching.Mode) *MatchingScreen {
	s := &MatchingScreen{
		deps:      deps,
		level:     level,
		mode:      mode,
		sessionID: uuid.New().String(),
		started:   time.Now(),
	}

	cfg := deps.Matching
	cfg.Source = deps.Source()
	cfg.Logger = deps.Log

	engine, err := matching.New(deps.Content, cfg)
	if err != nil {
		s.errMsg = err.Error()
		return s
	}
	if err := engine.Start(level, mode, cfg.PairCount); err != nil {
		s.errMsg = err.Error()
		return s
	}
	s.engine = engine
	return s
}

func (s *MatchingScreen) Init() tea.Cmd {
	return nil
}

func (s *MatchingScreen) Title() string {
	return "Matching · " + s.mode.Label()
}

func (s *MatchingScreen) Status() string {
	if s.engine == nil {
		return content.LevelName(s.level)
	}
	v := s.engine.View()
	return fmt.Sprintf("%s  %d/%d pairs  %d moves", content.LevelName(s.level), v.Matched, v.PairCount, v.Moves)
}

func (s *MatchingScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "←↑↓→", Description: "Move"},
		{Key: "Enter", Description: "Pick"},
		{Key: "Esc", Description: "Quit"},
	}
}

// Close cancels a pending reveal when the screen leaves the stack.
func (s *MatchingScreen) Close() {
	if s.engine != nil {
		s.engine.Close()
	}
}

func (s *MatchingScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	if s.engine == nil {
		return s, nil
	}

	switch msg := msg.(type) {
	case revealDoneMsg:
		return s, nil

	case tea.KeyMsg:
		s.notice = ""
		cards := s.engine.Cards()
		cols := tileColumns
		switch msg.String() {
		case "left", "h":
			if s.cursor > 0 {
				s.cursor--
			}
		case "right", "l":
			if s.cursor < len(cards)-1 {
				s.cursor++
			}
		case "up", "k":
			if s.cursor-cols >= 0 {
				s.cursor -= cols
			}
		case "down", "j":
			if s.cursor+cols < len(cards) {
				s.cursor += cols
			}
		case "enter", "space":
			return s, s.pick(cards[s.cursor].ID)
		}
	}
	return s, nil
}

func (s *MatchingScreen) pick(cardID string) tea.Cmd {
	outcome, err := s.engine.Select(cardID)
	if err != nil {
		s.notice = err.Error()
		return nil
	}

	switch outcome {
	case matching.OutcomeMismatch:
		done := s.engine.RevealDone()
		return func() tea.Msg {
			<-done
			return revealDoneMsg{}
		}
	case matching.OutcomeMatch:
		if s.engine.State() == matching.StateCompleted {
			return s.finish()
		}
	}
	return nil
}

func (s *MatchingScreen) finish() tea.Cmd {
	res, err := s.engine.Result()
	if err != nil {
		s.notice = err.Error()
		return nil
	}
	grade := res.Grade()

	record := &store.ResultData{
		SessionID:    s.sessionID,
		Mode:         ModePrefix + string(res.Mode),
		Level:        res.Level,
		Score:        res.PairCount,
		Total:        res.PairCount,
		Moves:        res.Moves,
		DurationSecs: int(time.Since(s.started).Seconds()),
		Detail:       string(grade),
	}
	summary := results.Summary{
		Heading: fmt.Sprintf("All pairs matched · %s", content.LevelName(res.Level)),
		Score:   res.PairCount,
		Total:   res.PairCount,
		Percent: 100,
		Notes: []string{
			fmt.Sprintf("%d moves for %d pairs", res.Moves, res.PairCount),
			grade.Message(),
		},
	}

	deps, level, mode := s.deps, s.level, s.mode
	next := results.New(summary, record, deps.Results, deps.Log, func() screen.Screen {
		return New(deps, level, mode)
	})
	return func() tea.Msg { return router.ReplaceScreenMsg{Screen: next} }
}

func (s *MatchingScreen) View(width, height int) string {
	if s.errMsg != "" {
		return components.ErrorBox(s.errMsg, width)
	}
	if s.engine == nil {
		return components.Notice("Dealing cards...", width)
	}

	v := s.engine.View()
	cols := tileColumns

	var rows []string
	var row []string
	for i, c := range v.Cards {
		row = append(row, s.renderTile(c, i == s.cursor, v.Revealing))
		if len(row) == cols || i == len(v.Cards)-1 {
			rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, row...))
			row = nil
		}
	}

	var b strings.Builder
	b.WriteString("\n")
	b.WriteString(lipgloss.NewStyle().Width(width).Align(lipgloss.Center).Inherit(theme.Hint).
		Render("Match each hanzi with its " + strings.ToLower(pairLabel(s.mode))))
	b.WriteString("\n\n")
	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, lipgloss.JoinVertical(lipgloss.Left, rows...)))
	if s.notice != "" {
		b.WriteString("\n\n")
		b.WriteString(lipgloss.NewStyle().Width(width).Align(lipgloss.Center).Inherit(theme.Incorrect).Render(s.notice))
	}
	return b.String()
}

func pairLabel(m matching.Mode) string {
	if m == matching.ModePinyinHanzi {
		return "Pinyin"
	}
	return "Translation"
}

func (s *MatchingScreen) renderTile(c matching.Card, cursor, revealing bool) string {
	style := theme.TileHidden
	switch {
	case c.Matched:
		style = theme.TileMatched
	case c.Selected && revealing:
		style = theme.TileSelected.BorderForeground(theme.Error).Foreground(theme.Error)
	case c.Selected:
		style = theme.TileSelected
	case cursor:
		style = theme.TileCursor
	}
	if cursor && !c.Selected {
		style = style.BorderForeground(theme.Primary)
	}
	if !c.Selected && !c.Matched {
		return style.Render(cardBack(c.Kind))
	}
	return style.Render("\n" + c.Content + "\n")
}

// cardBack is the face-down text. Hanzi backs carry their marker above the
// question mark and counterpart backs below it.
func cardBack(k matching.CardKind) string {
	if k == matching.KindHanzi {
		return "◆\n?\n"
	}
	return "\n?\n●"
}
