// Package quiz is the multiple-choice vocabulary quiz screen.
package quiz

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"github.com/google/uuid"

	"github.com/abhisek/hanzidrill/internal/content"
	"github.com/abhisek/hanzidrill/internal/game"
	"github.com/abhisek/hanzidrill/internal/quiz"
	"github.com/abhisek/hanzidrill/internal/router"
	"github.com/abhisek/hanzidrill/internal/screen"
	"github.com/abhisek/hanzidrill/internal/screens/results"
	"github.com/abhisek/hanzidrill/internal/store"
	"github.com/abhisek/hanzidrill/internal/ui/components"
	"github.com/abhisek/hanzidrill/internal/ui/layout"
	"github.com/abhisek/hanzidrill/internal/ui/theme"
)

// Mode is the history label for quiz results.
const Mode = "quiz"

// QuizScreen drives a quiz.Engine from key presses.
type QuizScreen struct {
	deps      screen.Deps
	level     int
	engine    *quiz.Engine
	choice    components.MultiChoice
	sessionID string
	started   time.Time
	errMsg    string
	notice    string
}

var _ screen.Screen = (*QuizScreen)(nil)
var _ screen.KeyHintProvider = (*QuizScreen)(nil)
var _ screen.StatusProvider = (*QuizScreen)(nil)

// New creates a quiz for level and starts it. Construction errors, such
// as a level with too few words, are shown on the screen.
func New(deps screen.Deps, level int) *QuizScreen {
	s := &QuizScreen{
		deps:      deps,
		level:     level,
		sessionID: uuid.New().String(),
		started:   time.Now(),
	}

	cfg := deps.Quiz
	cfg.Source = deps.Source()
	cfg.Logger = deps.Log

	engine, err := quiz.New(deps.Content, cfg)
	if err != nil {
		s.errMsg = err.Error()
		return s
	}
	if err := engine.Start(level, cfg.Length); err != nil {
		s.errMsg = err.Error()
		return s
	}
	s.engine = engine
	s.choice = components.NewMultiChoice(engine.View().Options)
	return s
}

func (s *QuizScreen) Init() tea.Cmd {
	return nil
}

func (s *QuizScreen) Title() string {
	return "Vocabulary Quiz"
}

func (s *QuizScreen) Status() string {
	if s.engine == nil {
		return content.LevelName(s.level)
	}
	v := s.engine.View()
	return fmt.Sprintf("%s  ✓ %d", content.LevelName(s.level), v.Score)
}

func (s *QuizScreen) KeyHints() []layout.KeyHint {
	if s.engine == nil {
		return []layout.KeyHint{{Key: "Esc", Description: "Back"}}
	}
	if s.engine.State() == quiz.StateFeedback {
		return []layout.KeyHint{
			{Key: "Enter", Description: "Next"},
			{Key: "Esc", Description: "Quit"},
		}
	}
	return []layout.KeyHint{
		{Key: "1-4", Description: "Answer"},
		{Key: "↑↓", Description: "Move"},
		{Key: "Enter", Description: "Submit"},
		{Key: "Esc", Description: "Quit"},
	}
}

func (s *QuizScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	kmsg, ok := msg.(tea.KeyMsg)
	if !ok || s.engine == nil {
		return s, nil
	}

	s.notice = ""
	switch s.engine.State() {
	case quiz.StateQuestion:
		var picked int
		s.choice, picked = s.choice.Update(kmsg)
		if picked < 0 {
			return s, nil
		}
		if _, err := s.engine.SubmitAnswer(picked); err != nil {
			s.notice = err.Error()
			return s, nil
		}
		v := s.engine.View()
		s.choice.Reveal(v.Selected, v.CorrectAnswer)

	case quiz.StateFeedback:
		switch kmsg.String() {
		case "enter", "space", "n":
			if err := s.engine.Advance(); err != nil {
				s.notice = err.Error()
				return s, nil
			}
			if s.engine.State() == quiz.StateResults {
				return s, s.finish()
			}
			s.choice = components.NewMultiChoice(s.engine.View().Options)
		}
	}
	return s, nil
}

type answerDetail struct {
	Prompt  string `json:"prompt"`
	Answer  string `json:"answer"`
	Chosen  string `json:"chosen"`
	Correct bool   `json:"correct"`
}

func (s *QuizScreen) finish() tea.Cmd {
	res, err := s.engine.Result()
	if err != nil {
		s.notice = err.Error()
		return nil
	}

	questions := s.engine.Questions()
	details := make([]results.Detail, 0, len(res.Answers))
	stored := make([]answerDetail, 0, len(res.Answers))
	for _, a := range res.Answers {
		q := questions[a.Question]
		details = append(details, results.Detail{
			Prompt:  q.Prompt,
			Answer:  q.CorrectAnswer(),
			Correct: a.Correct,
		})
		stored = append(stored, answerDetail{
			Prompt:  q.Prompt,
			Answer:  q.CorrectAnswer(),
			Chosen:  a.Text,
			Correct: a.Correct,
		})
	}
	detailJSON, _ := json.Marshal(stored)

	record := &store.ResultData{
		SessionID:    s.sessionID,
		Mode:         Mode,
		Level:        res.Level,
		Score:        res.Score,
		Total:        res.Total,
		DurationSecs: int(time.Since(s.started).Seconds()),
		Detail:       string(detailJSON),
	}

	summary := results.Summary{
		Heading: fmt.Sprintf("Quiz complete · %s", content.LevelName(res.Level)),
		Score:   res.Score,
		Total:   res.Total,
		Percent: res.Percent,
		Notes:   []string{fmt.Sprintf("%d%% correct", res.Percent), percentMessage(res.Percent)},
		Details: details,
	}

	deps, level := s.deps, s.level
	next := results.New(summary, record, deps.Results, deps.Log, func() screen.Screen {
		return New(deps, level)
	})
	return func() tea.Msg { return router.ReplaceScreenMsg{Screen: next} }
}

func percentMessage(pct int) string {
	switch {
	case pct == 100:
		return game.GradeExcellent.Message()
	case pct >= 80:
		return game.GradeGreat.Message()
	case pct >= 60:
		return game.GradeGood.Message()
	default:
		return game.GradeKeepPracticing.Message()
	}
}

func (s *QuizScreen) View(width, height int) string {
	if s.errMsg != "" {
		return components.ErrorBox(s.errMsg, width)
	}
	if s.engine == nil {
		return components.Notice("Preparing quiz...", width)
	}

	v := s.engine.View()
	center := lipgloss.NewStyle().Width(width).Align(lipgloss.Center)

	var b strings.Builder
	b.WriteString("\n")
	bar := components.NewProgressBar(
		fmt.Sprintf("Question %d/%d", v.QuestionNumber, v.TotalQuestions),
		v.QuestionNumber-1, v.TotalQuestions, false, min(width-8, 60))
	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, bar.View()))
	b.WriteString("\n\n\n")

	b.WriteString(center.Inherit(theme.Hint).Render("What does this mean?"))
	b.WriteString("\n\n")
	b.WriteString(center.Inherit(theme.Hanzi).Render(v.Prompt))
	b.WriteString("\n\n")

	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, s.choice.View()))

	if v.State == quiz.StateFeedback {
		b.WriteString("\n")
		if v.LastCorrect {
			b.WriteString(center.Inherit(theme.Correct).Render("Correct!"))
		} else {
			b.WriteString(center.Inherit(theme.Incorrect).Render(
				"Not quite. The answer is " + v.Options[v.CorrectAnswer]))
		}
		b.WriteString("\n")
	}
	if s.notice != "" {
		b.WriteString("\n")
		b.WriteString(center.Inherit(theme.Incorrect).Render(s.notice))
	}

	return b.String()
}
