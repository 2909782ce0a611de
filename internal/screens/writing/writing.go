// Package writing is the free-text writing prompt screen.
package writing

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"charm.land/bubbles/v2/textarea"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"github.com/google/uuid"
	"github.com/samber/lo"

	"github.com/abhisek/hanzidrill/internal/content"
	"github.com/abhisek/hanzidrill/internal/router"
	"github.com/abhisek/hanzidrill/internal/screen"
	"github.com/abhisek/hanzidrill/internal/screens/results"
	"github.com/abhisek/hanzidrill/internal/store"
	"github.com/abhisek/hanzidrill/internal/ui/components"
	"github.com/abhisek/hanzidrill/internal/ui/layout"
	"github.com/abhisek/hanzidrill/internal/ui/theme"
	"github.com/abhisek/hanzidrill/internal/writing"
)

// Mode is the history label for writing results.
const Mode = "writing"

// WritingScreen collects an answer to one writing prompt at a time and
// assesses it on submit.
type WritingScreen struct {
	deps      screen.Deps
	level     int
	exercises []content.WritingExercise
	index     int

	area          textarea.Model
	assessment    *writing.Assessment
	showTranslate bool
	showSample    bool

	sessionID string
	started   time.Time
	notice    string
	errMsg    string
}

var _ screen.Screen = (*WritingScreen)(nil)
var _ screen.KeyHintProvider = (*WritingScreen)(nil)
var _ screen.StatusProvider = (*WritingScreen)(nil)

// New opens the first writing prompt for level.
func New(deps screen.Deps, level int) *WritingScreen {
	s := &WritingScreen{deps: deps, level: level}
	s.exercises = deps.Content.WritingByLevel(level)
	if len(s.exercises) == 0 {
		s.errMsg = fmt.Sprintf("no writing exercises for %s", content.LevelName(level))
		return s
	}
	s.open(0)
	return s
}

// NewAt opens the writing prompt with id.
func NewAt(deps screen.Deps, id string) *WritingScreen {
	w, ok := deps.Content.WritingByID(id)
	if !ok {
		return &WritingScreen{deps: deps, errMsg: fmt.Sprintf("no writing exercise with id %q", id)}
	}
	s := New(deps, w.Level)
	for i, e := range s.exercises {
		if e.ID == id {
			s.open(i)
			break
		}
	}
	return s
}

func (s *WritingScreen) open(i int) {
	s.index = i
	s.assessment = nil
	s.showSample = false
	s.showTranslate = false
	s.notice = ""
	s.sessionID = uuid.New().String()
	s.started = time.Now()

	ta := textarea.New()
	ta.Placeholder = "用中文写你的回答…"
	ta.ShowLineNumbers = false
	ta.SetHeight(5)
	ta.SetWidth(60)
	if limit := s.current().MaxChars; limit > 0 {
		ta.CharLimit = limit * 2
	}
	ta.Focus()
	s.area = ta
}

func (s *WritingScreen) current() content.WritingExercise {
	return s.exercises[s.index]
}

func (s *WritingScreen) Init() tea.Cmd {
	if s.errMsg != "" {
		return nil
	}
	return s.area.Focus()
}

func (s *WritingScreen) Title() string {
	return "Writing"
}

func (s *WritingScreen) Status() string {
	if len(s.exercises) == 0 {
		return content.LevelName(s.level)
	}
	return fmt.Sprintf("%s  %d/%d", content.LevelName(s.level), s.index+1, len(s.exercises))
}

func (s *WritingScreen) KeyHints() []layout.KeyHint {
	if s.errMsg != "" {
		return []layout.KeyHint{{Key: "Esc", Description: "Back"}}
	}
	if s.assessment != nil {
		return []layout.KeyHint{
			{Key: "Enter", Description: "Finish"},
			{Key: "Ctrl+E", Description: "Sample answer"},
			{Key: "Ctrl+R", Description: "Retry"},
			{Key: "Ctrl+N", Description: "Next prompt"},
		}
	}
	return []layout.KeyHint{
		{Key: "Ctrl+S", Description: "Submit"},
		{Key: "Ctrl+T", Description: "Translation"},
		{Key: "Esc", Description: "Back"},
	}
}

func (s *WritingScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	if s.errMsg != "" {
		return s, nil
	}

	if kmsg, ok := msg.(tea.KeyMsg); ok {
		switch kmsg.String() {
		case "ctrl+t":
			s.showTranslate = !s.showTranslate
			return s, nil
		case "ctrl+s":
			if s.assessment == nil {
				s.submit()
			}
			return s, nil
		}

		if s.assessment != nil {
			switch kmsg.String() {
			case "enter":
				return s, s.finish()
			case "ctrl+e", "e":
				s.showSample = !s.showSample
			case "ctrl+r", "r":
				s.open(s.index)
				return s, s.area.Focus()
			case "ctrl+n", "n":
				s.open((s.index + 1) % len(s.exercises))
				return s, s.area.Focus()
			}
			return s, nil
		}
	}

	if s.assessment != nil {
		return s, nil
	}
	var cmd tea.Cmd
	s.area, cmd = s.area.Update(msg)
	return s, cmd
}

func (s *WritingScreen) submit() {
	a, err := writing.Assess(s.current(), s.area.Value())
	if err != nil {
		if errors.Is(err, writing.ErrEmptyAnswer) {
			s.notice = "Write something first."
		} else {
			s.notice = err.Error()
		}
		return
	}
	s.assessment = &a
	s.notice = ""
	s.area.Blur()
}

// points scores an assessment: one for meeting the length limits and one
// per suggested word used.
func points(ex content.WritingExercise, a writing.Assessment) (score, total int) {
	total = 1 + len(ex.SuggestedVocabulary)
	score = len(a.UsedVocabulary)
	if a.WithinLimits {
		score++
	}
	return score, total
}

type writingDetail struct {
	Exercise string   `json:"exercise"`
	Answer   string   `json:"answer"`
	Chars    int      `json:"chars"`
	Within   bool     `json:"within_limits"`
	Used     []string `json:"used_vocabulary"`
	Coverage int      `json:"vocabulary_coverage"`
}

func (s *WritingScreen) finish() tea.Cmd {
	ex, a := s.current(), *s.assessment
	score, total := points(ex, a)
	pct := 0
	if total > 0 {
		pct = score * 100 / total
	}

	detailJSON, _ := json.Marshal(writingDetail{
		Exercise: ex.ID,
		Answer:   strings.TrimSpace(s.area.Value()),
		Chars:    a.Chars,
		Within:   a.WithinLimits,
		Used:     a.UsedVocabulary,
		Coverage: a.VocabularyCoverage,
	})
	record := &store.ResultData{
		SessionID:    s.sessionID,
		Mode:         Mode,
		Level:        s.level,
		Score:        score,
		Total:        total,
		DurationSecs: int(time.Since(s.started).Seconds()),
		Detail:       string(detailJSON),
	}

	details := []results.Detail{{
		Prompt:  fmt.Sprintf("Length %d (%d-%d)", a.Chars, a.Min, a.Max),
		Answer:  lengthVerdict(a),
		Correct: a.WithinLimits,
	}}
	used := make(map[string]bool, len(a.UsedVocabulary))
	for _, w := range a.UsedVocabulary {
		used[w] = true
	}
	for _, w := range ex.SuggestedVocabulary {
		details = append(details, results.Detail{Prompt: w.Word, Answer: w.Translation, Correct: used[w.Word]})
	}

	summary := results.Summary{
		Heading: fmt.Sprintf("Writing · %s", content.LevelName(s.level)),
		Score:   score,
		Total:   total,
		Percent: pct,
		Notes:   []string{fmt.Sprintf("Vocabulary coverage %d%%", a.VocabularyCoverage)},
		Details: details,
	}

	deps, level, index := s.deps, s.level, s.index
	next := results.New(summary, record, deps.Results, deps.Log, func() screen.Screen {
		scr := New(deps, level)
		if scr.errMsg == "" && index < len(scr.exercises) {
			scr.open(index)
		}
		return scr
	})
	return func() tea.Msg { return router.ReplaceScreenMsg{Screen: next} }
}

func lengthVerdict(a writing.Assessment) string {
	switch {
	case a.TooShort:
		return "too short"
	case a.TooLong:
		return "too long"
	}
	return "within limits"
}

func (s *WritingScreen) View(width, height int) string {
	if s.errMsg != "" {
		return components.ErrorBox(s.errMsg, width)
	}

	ex := s.current()
	cardWidth := min(width-4, 72)
	s.area.SetWidth(cardWidth - 6)

	var b strings.Builder
	b.WriteString("\n")

	prompt := theme.Body.Render(ex.Question)
	if s.showTranslate && ex.Translation != "" {
		prompt += "\n\n" + theme.Hint.Render(ex.Translation)
	}
	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, theme.Card.Width(cardWidth).Render(prompt)))
	b.WriteString("\n")

	if len(ex.SuggestedVocabulary) > 0 {
		words := make([]string, 0, len(ex.SuggestedVocabulary))
		for _, w := range ex.SuggestedVocabulary {
			style := theme.Pinyin
			if s.assessment != nil && lo.Contains(s.assessment.UsedVocabulary, w.Word) {
				style = theme.Correct
			}
			words = append(words, style.Render(w.Word)+theme.Hint.Render(" "+w.Translation))
		}
		b.WriteString("  " + theme.Subtitle.Render("Try to use: ") + strings.Join(words, "  ") + "\n\n")
	}

	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, s.area.View()))
	b.WriteString("\n")

	n := writing.CountChars(s.area.Value())
	counter := fmt.Sprintf("%d characters (%d-%d)", n, ex.MinChars, ex.MaxChars)
	counterStyle := theme.Hint
	if n > 0 && (n < ex.MinChars || (ex.MaxChars > 0 && n > ex.MaxChars)) {
		counterStyle = theme.Incorrect
	}
	b.WriteString("  " + counterStyle.Render(counter) + "\n")

	if a := s.assessment; a != nil {
		score, total := points(ex, *a)
		b.WriteString("\n")
		if a.WithinLimits {
			b.WriteString("  " + theme.Correct.Render("Length OK"))
		} else {
			b.WriteString("  " + theme.Incorrect.Render("Length "+lengthVerdict(*a)))
		}
		b.WriteString(theme.Body.Render(fmt.Sprintf("   Vocabulary %d%%   Points %d/%d", a.VocabularyCoverage, score, total)))
		b.WriteString("\n")
		if s.showSample {
			b.WriteString("\n" + lipgloss.PlaceHorizontal(width, lipgloss.Center,
				theme.Card.Width(cardWidth).Render(theme.Hint.Render("Sample answer")+"\n\n"+theme.Body.Render(ex.SampleAnswer))))
			b.WriteString("\n")
		}
	}
	if s.notice != "" {
		b.WriteString("\n  " + theme.Hint.Render(s.notice) + "\n")
	}
	return b.String()
}
