// Package home is the level and mode selection screen.
package home

import (
	"context"
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/hanzidrill/internal/content"
	"github.com/abhisek/hanzidrill/internal/matching"
	"github.com/abhisek/hanzidrill/internal/router"
	"github.com/abhisek/hanzidrill/internal/screen"
	comprehensionscreen "github.com/abhisek/hanzidrill/internal/screens/comprehension"
	"github.com/abhisek/hanzidrill/internal/screens/flashcards"
	"github.com/abhisek/hanzidrill/internal/screens/history"
	matchingscreen "github.com/abhisek/hanzidrill/internal/screens/matching"
	quizscreen "github.com/abhisek/hanzidrill/internal/screens/quiz"
	writingscreen "github.com/abhisek/hanzidrill/internal/screens/writing"
	"github.com/abhisek/hanzidrill/internal/store"
	"github.com/abhisek/hanzidrill/internal/ui/components"
	"github.com/abhisek/hanzidrill/internal/ui/layout"
)

type statsLoadedMsg struct {
	Plays       int
	LastPercent int
	Err         error
}

// HomeScreen selects an HSK level and a practice mode.
type HomeScreen struct {
	deps   screen.Deps
	levels []int
	level  int
	menu   components.Menu

	plays       int
	lastPercent int
	mood        Mood
}

var _ screen.Screen = (*HomeScreen)(nil)
var _ screen.KeyHintProvider = (*HomeScreen)(nil)
var _ screen.StatusProvider = (*HomeScreen)(nil)

// New creates a HomeScreen starting at level, or the lowest level with
// vocabulary when level has none.
func New(deps screen.Deps, level int) *HomeScreen {
	h := &HomeScreen{deps: deps, levels: deps.Content.Levels(), mood: MoodIdle}
	h.level = level
	if !h.hasLevel(level) && len(h.levels) > 0 {
		h.level = h.levels[0]
	}
	h.rebuildMenu()
	return h
}

// Level returns the selected level.
func (h *HomeScreen) Level() int {
	return h.level
}

func (h *HomeScreen) hasLevel(level int) bool {
	for _, l := range h.levels {
		if l == level {
			return true
		}
	}
	return false
}

func (h *HomeScreen) rebuildMenu() {
	selected := h.menu.Selected
	deps, level := h.deps, h.level

	words := len(deps.Content.VocabularyByLevel(level))
	counts := make(map[content.ExerciseKind]int)
	for _, ex := range deps.Content.ExercisesByLevel(level) {
		counts[ex.Kind]++
	}

	push := func(build func() screen.Screen) func() tea.Cmd {
		return func() tea.Cmd {
			return func() tea.Msg { return router.PushScreenMsg{Screen: build()} }
		}
	}
	exercises := func(kind content.ExerciseKind) string {
		n := counts[kind]
		if n == 1 {
			return "1 exercise"
		}
		return fmt.Sprintf("%d exercises", n)
	}

	items := []components.MenuItem{
		{
			Label:    "Quiz",
			Hint:     fmt.Sprintf("%d questions", deps.Quiz.Length),
			Disabled: words < max(deps.Quiz.OptionCount, 1),
			Action:   push(func() screen.Screen { return quizscreen.New(deps, level) }),
		},
		{
			Label:    "Matching · pinyin",
			Hint:     matching.ModePinyinHanzi.Label(),
			Disabled: words < deps.Matching.PairCount,
			Action: push(func() screen.Screen {
				return matchingscreen.New(deps, level, matching.ModePinyinHanzi)
			}),
		},
		{
			Label:    "Matching · meaning",
			Hint:     matching.ModeTranslationHanzi.Label(),
			Disabled: words < deps.Matching.PairCount,
			Action: push(func() screen.Screen {
				return matchingscreen.New(deps, level, matching.ModeTranslationHanzi)
			}),
		},
		{
			Label:    "Flashcards",
			Hint:     fmt.Sprintf("%d words", words),
			Disabled: words == 0,
			Action:   push(func() screen.Screen { return flashcards.New(deps, level) }),
		},
		{
			Label:    "Reading",
			Hint:     exercises(content.KindReading),
			Disabled: counts[content.KindReading] == 0,
			Action: push(func() screen.Screen {
				return comprehensionscreen.New(deps, level, content.KindReading)
			}),
		},
		{
			Label:    "Listening",
			Hint:     exercises(content.KindListening),
			Disabled: counts[content.KindListening] == 0,
			Action: push(func() screen.Screen {
				return comprehensionscreen.New(deps, level, content.KindListening)
			}),
		},
		{
			Label:    "Writing",
			Hint:     exercises(content.KindWriting),
			Disabled: counts[content.KindWriting] == 0,
			Action:   push(func() screen.Screen { return writingscreen.New(deps, level) }),
		},
		{
			Label:    "Mixed",
			Hint:     exercises(content.KindMixed),
			Disabled: counts[content.KindMixed] == 0,
			Action: push(func() screen.Screen {
				return comprehensionscreen.New(deps, level, content.KindMixed)
			}),
		},
		{
			Label:  "History",
			Action: push(func() screen.Screen { return history.New(deps.Results) }),
		},
		{
			Label:  "Quit",
			Action: func() tea.Cmd { return tea.Quit },
		},
	}

	h.menu = components.NewMenu(items)
	if selected > 0 && selected < len(items) && !items[selected].Disabled {
		h.menu.Selected = selected
	}
}

func (h *HomeScreen) Init() tea.Cmd {
	repo := h.deps.Results
	if repo == nil {
		return nil
	}
	return func() tea.Msg {
		ctx := context.Background()
		recent, err := repo.QueryResults(ctx, store.QueryOpts{Limit: 1})
		if err != nil {
			return statsLoadedMsg{Err: err}
		}
		stats, err := repo.ModeStats(ctx)
		if err != nil {
			return statsLoadedMsg{Err: err}
		}
		msg := statsLoadedMsg{}
		for _, st := range stats {
			msg.Plays += st.Plays
		}
		if len(recent) > 0 {
			msg.LastPercent = recent[0].Percent()
		}
		return msg
	}
}

func (h *HomeScreen) Title() string {
	return "Home"
}

func (h *HomeScreen) Status() string {
	return content.LevelName(h.level)
}

func (h *HomeScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "←→", Description: "Level"},
		{Key: "↑↓", Description: "Mode"},
		{Key: "Enter", Description: "Start"},
		{Key: "Ctrl+C", Description: "Quit"},
	}
}

func (h *HomeScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case statsLoadedMsg:
		if msg.Err != nil {
			if h.deps.Log != nil {
				h.deps.Log.WithError(msg.Err).Warn("failed to load play stats")
			}
			return h, nil
		}
		h.plays = msg.Plays
		h.lastPercent = msg.LastPercent
		h.mood = moodFor(msg.Plays, msg.LastPercent)
		return h, nil

	case tea.KeyMsg:
		key := msg.String()
		switch key {
		case "left", "h":
			h.shiftLevel(-1)
			return h, nil
		case "right", "l":
			h.shiftLevel(1)
			return h, nil
		}
		if len(key) == 1 && key[0] >= '1' && key[0] <= '9' {
			if lvl := int(key[0] - '0'); h.hasLevel(lvl) {
				h.level = lvl
				h.rebuildMenu()
			}
			return h, nil
		}
	}

	var cmd tea.Cmd
	h.menu, cmd = h.menu.Update(msg)
	return h, cmd
}

func (h *HomeScreen) shiftLevel(delta int) {
	for i, l := range h.levels {
		if l != h.level {
			continue
		}
		j := i + delta
		if j >= 0 && j < len(h.levels) {
			h.level = h.levels[j]
			h.rebuildMenu()
		}
		return
	}
}

func (h *HomeScreen) View(width, height int) string {
	compact := layout.IsCompactWidth(width) || layout.IsCompactHeight(height+layout.HeaderHeight+layout.FooterHeight)
	cw := contentWidth(width)

	var sections []string
	sections = append(sections, renderTitle(cw, compact))
	if !compact {
		sections = append(sections, renderLantern(h.mood, cw))
	}
	sections = append(sections, renderLevelBar(h.levels, h.level, cw))
	sections = append(sections, renderStatsBar(
		len(h.deps.Content.VocabularyByLevel(h.level)), h.plays, h.lastPercent, cw, compact))
	sections = append(sections, renderMenu(h.menu, cw))

	if h.deps.Examples == nil || !h.deps.Examples.Available() {
		sections = append(sections, renderLLMNote(cw))
	}

	return renderFrame(strings.Join(sections, "\n\n"), width, height)
}
