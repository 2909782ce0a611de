// Package flashcards is the flip-card vocabulary review screen.
package flashcards

import (
	"context"
	"errors"
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/hanzidrill/internal/content"
	"github.com/abhisek/hanzidrill/internal/examplegen"
	"github.com/abhisek/hanzidrill/internal/flashcard"
	"github.com/abhisek/hanzidrill/internal/screen"
	"github.com/abhisek/hanzidrill/internal/ui/components"
	"github.com/abhisek/hanzidrill/internal/ui/layout"
	"github.com/abhisek/hanzidrill/internal/ui/theme"
)

type exampleMsg struct {
	Hanzi   string
	Example *examplegen.Example
	Err     error
}

// FlashcardsScreen walks a shuffled deck for one level.
type FlashcardsScreen struct {
	deps   screen.Deps
	deck   *flashcard.Deck
	errMsg string

	// Example sentence state for the current card.
	loading    bool
	example    *examplegen.Example
	exampleErr string
}

var _ screen.Screen = (*FlashcardsScreen)(nil)
var _ screen.KeyHintProvider = (*FlashcardsScreen)(nil)
var _ screen.StatusProvider = (*FlashcardsScreen)(nil)

// New creates a deck for level.
func New(deps screen.Deps, level int) *FlashcardsScreen {
	s := &FlashcardsScreen{deps: deps}
	deck, err := flashcard.NewDeck(deps.Content, level, deps.Source())
	if err != nil {
		s.errMsg = err.Error()
		return s
	}
	s.deck = deck
	return s
}

func (s *FlashcardsScreen) Init() tea.Cmd {
	return nil
}

func (s *FlashcardsScreen) Title() string {
	return "Flashcards"
}

func (s *FlashcardsScreen) Status() string {
	if s.deck == nil {
		return ""
	}
	i, n := s.deck.Position()
	return fmt.Sprintf("%s  %d/%d", content.LevelName(s.deck.Level()), i+1, n)
}

func (s *FlashcardsScreen) KeyHints() []layout.KeyHint {
	hints := []layout.KeyHint{
		{Key: "Space", Description: "Flip"},
		{Key: "←→", Description: "Prev/Next"},
		{Key: "P", Description: "Pinyin"},
		{Key: "S", Description: "Shuffle"},
	}
	if s.deps.Examples != nil {
		hints = append(hints, layout.KeyHint{Key: "E", Description: "Example"})
	}
	return append(hints, layout.KeyHint{Key: "Esc", Description: "Back"})
}

func (s *FlashcardsScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	if s.deck == nil {
		return s, nil
	}

	switch msg := msg.(type) {
	case exampleMsg:
		if msg.Hanzi != s.deck.Current().Hanzi {
			return s, nil
		}
		s.loading = false
		if msg.Err != nil {
			s.exampleErr = exampleError(msg.Err)
			return s, nil
		}
		s.example = msg.Example
		return s, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "space", "enter", "f":
			s.deck.Flip()
		case "right", "l", "n":
			s.deck.Next()
			s.clearExample()
		case "left", "h", "b":
			s.deck.Prev()
			s.clearExample()
		case "p":
			s.deck.TogglePinyin()
		case "s":
			s.deck.Reshuffle()
			s.clearExample()
		case "e":
			return s, s.loadExample()
		}
	}
	return s, nil
}

func (s *FlashcardsScreen) clearExample() {
	s.loading = false
	s.example = nil
	s.exampleErr = ""
}

func (s *FlashcardsScreen) loadExample() tea.Cmd {
	if s.deps.Examples == nil || s.loading || s.example != nil {
		return nil
	}
	s.loading = true
	s.exampleErr = ""
	svc, item, level := s.deps.Examples, s.deck.Current(), s.deck.Level()
	return func() tea.Msg {
		ex, err := svc.Example(context.Background(), item, level)
		return exampleMsg{Hanzi: item.Hanzi, Example: ex, Err: err}
	}
}

func exampleError(err error) string {
	if errors.Is(err, examplegen.ErrUnavailable) {
		return "No LLM provider configured for example sentences."
	}
	return "Could not get an example: " + err.Error()
}

func (s *FlashcardsScreen) View(width, height int) string {
	if s.errMsg != "" {
		return components.ErrorBox(s.errMsg, width)
	}

	card := s.deck.Current()
	var face strings.Builder
	face.WriteString(theme.Hanzi.Render(card.Hanzi))
	face.WriteString("\n")
	if s.deck.ShowPinyin() {
		face.WriteString(theme.Pinyin.Render(card.Pinyin))
	}
	face.WriteString("\n\n")
	if s.deck.Flipped() {
		face.WriteString(theme.Body.Render(card.Translation))
	} else {
		face.WriteString(theme.Hint.Render("(space to reveal)"))
	}

	cardBox := theme.Card.
		Width(min(width-8, 40)).
		Align(lipgloss.Center).
		Render(face.String())

	var b strings.Builder
	b.WriteString("\n\n")
	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, cardBox))
	b.WriteString("\n\n")

	center := lipgloss.NewStyle().Width(width).Align(lipgloss.Center)
	switch {
	case s.loading:
		b.WriteString(center.Inherit(theme.Hint).Render("Fetching example..."))
	case s.exampleErr != "":
		b.WriteString(center.Foreground(theme.Error).Render(s.exampleErr))
	case s.example != nil:
		b.WriteString(center.Inherit(theme.Body).Render(s.example.Sentence))
		b.WriteString("\n")
		if s.example.Pinyin != "" {
			b.WriteString(center.Inherit(theme.Pinyin).Render(s.example.Pinyin))
			b.WriteString("\n")
		}
		b.WriteString(center.Inherit(theme.Hint).Render(s.example.Translation))
	}
	return b.String()
}
