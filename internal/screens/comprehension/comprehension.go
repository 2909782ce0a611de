// Package comprehension is the reading, listening and mixed exercise
// screen.
package comprehension

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	tea "charm.land/bubbletea/v2"
	"github.com/google/uuid"

	"github.com/abhisek/hanzidrill/internal/comprehension"
	"github.com/abhisek/hanzidrill/internal/content"
	"github.com/abhisek/hanzidrill/internal/router"
	"github.com/abhisek/hanzidrill/internal/screen"
	"github.com/abhisek/hanzidrill/internal/screens/results"
	"github.com/abhisek/hanzidrill/internal/store"
	"github.com/abhisek/hanzidrill/internal/ui/components"
	"github.com/abhisek/hanzidrill/internal/ui/layout"
)

// TranscriptDuration is how long "play" shows a listening transcript.
const TranscriptDuration = 8 * time.Second

type hideTranscriptMsg struct {
	gen int
}

// ComprehensionScreen runs one exercise at a time for a level and kind.
type ComprehensionScreen struct {
	deps      screen.Deps
	level     int
	kind      content.ExerciseKind
	exercises []content.Exercise
	index     int

	entries []entry
	cursor  int

	// reading and listening exercises use a sheet, mixed ones a map of
	// answer text keyed by question or task id.
	sheet *comprehension.Sheet
	mixed map[string]string
	score *comprehension.MixedScore

	gate           comprehension.PlaybackGate
	showTranscript bool
	transcriptGen  int
	showTranslate  bool

	input     components.TextInput
	sessionID string
	started   time.Time
	notice    string
	errMsg    string
}

var _ screen.Screen = (*ComprehensionScreen)(nil)
var _ screen.KeyHintProvider = (*ComprehensionScreen)(nil)
var _ screen.StatusProvider = (*ComprehensionScreen)(nil)

// New opens the first exercise of kind at level. kind must be reading,
// listening or mixed.
func New(deps screen.Deps, level int, kind content.ExerciseKind) *ComprehensionScreen {
	s := &ComprehensionScreen{deps: deps, level: level, kind: kind}
	switch kind {
	case content.KindReading, content.KindListening, content.KindMixed:
	default:
		s.errMsg = fmt.Sprintf("unsupported exercise kind %q", kind)
		return s
	}
	s.exercises = exercisesOf(deps.Content, level, kind)
	if len(s.exercises) == 0 {
		s.errMsg = fmt.Sprintf("no %s exercises for %s", kind, content.LevelName(level))
		return s
	}
	s.open(0)
	return s
}

// NewAt opens the exercise with id. Next and retry then move through the
// other exercises of its level and kind.
func NewAt(deps screen.Deps, id string) *ComprehensionScreen {
	ex, ok := deps.Content.ExerciseByID(id)
	if !ok {
		return &ComprehensionScreen{deps: deps, errMsg: fmt.Sprintf("no exercise with id %q", id)}
	}
	s := New(deps, ex.Level(), ex.Kind)
	if s.errMsg != "" {
		return s
	}
	for i, e := range s.exercises {
		if e.ID() == id {
			s.open(i)
			break
		}
	}
	return s
}

// open loads exercise i and clears all answer state.
func (s *ComprehensionScreen) open(i int) {
	s.index = i
	ex := s.current()
	s.entries = entriesFor(ex)
	s.cursor = 0
	s.score = nil
	s.sheet = nil
	s.mixed = nil
	s.notice = ""
	s.showTranscript = false
	s.showTranslate = false
	s.transcriptGen++
	s.sessionID = uuid.New().String()
	s.started = time.Now()
	s.input = components.NewTextInput("Type your answer", 40)

	switch ex.Kind {
	case content.KindReading:
		s.sheet = comprehension.ForReading(*ex.Reading)
	case content.KindListening:
		s.sheet = comprehension.ForListening(*ex.Listening)
	case content.KindMixed:
		s.mixed = make(map[string]string)
	}

	if s.hasListening() {
		s.gate = comprehension.PlaybackGate{}
	} else {
		s.gate = comprehension.OpenGate()
	}
	s.syncInput()
}

func (s *ComprehensionScreen) current() content.Exercise {
	return s.exercises[s.index]
}

func (s *ComprehensionScreen) hasListening() bool {
	ex := s.current()
	return ex.Kind == content.KindListening || (ex.Kind == content.KindMixed && ex.Mixed.Listening != nil)
}

func (s *ComprehensionScreen) submitted() bool {
	if s.sheet != nil {
		return s.sheet.Submitted()
	}
	return s.score != nil
}

func (s *ComprehensionScreen) Init() tea.Cmd {
	return nil
}

func (s *ComprehensionScreen) Title() string {
	switch s.kind {
	case content.KindListening:
		return "Listening"
	case content.KindMixed:
		return "Mixed Exercise"
	}
	return "Reading"
}

func (s *ComprehensionScreen) Status() string {
	if len(s.exercises) == 0 {
		return content.LevelName(s.level)
	}
	return fmt.Sprintf("%s  %d/%d", content.LevelName(s.level), s.index+1, len(s.exercises))
}

func (s *ComprehensionScreen) KeyHints() []layout.KeyHint {
	if s.errMsg != "" {
		return []layout.KeyHint{{Key: "Esc", Description: "Back"}}
	}
	if s.submitted() {
		return []layout.KeyHint{
			{Key: "Enter", Description: "Finish"},
			{Key: "R", Description: "Retry"},
			{Key: "N", Description: "Next exercise"},
		}
	}
	hints := []layout.KeyHint{
		{Key: "↑↓", Description: "Question"},
		{Key: "1-4", Description: "Answer"},
	}
	if s.hasListening() {
		hints = append(hints, layout.KeyHint{Key: "Ctrl+P", Description: "Play"})
	}
	return append(hints,
		layout.KeyHint{Key: "Ctrl+T", Description: "Translation"},
		layout.KeyHint{Key: "Ctrl+S", Description: "Submit"},
	)
}

func (s *ComprehensionScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	if s.errMsg != "" || len(s.exercises) == 0 {
		return s, nil
	}

	switch msg := msg.(type) {
	case hideTranscriptMsg:
		if msg.gen == s.transcriptGen {
			s.showTranscript = false
		}
		return s, nil

	case tea.KeyMsg:
		if s.submitted() {
			return s.handleReviewKey(msg)
		}
		return s.handleAnswerKey(msg)
	}
	return s, nil
}

func (s *ComprehensionScreen) handleReviewKey(msg tea.KeyMsg) (screen.Screen, tea.Cmd) {
	switch msg.String() {
	case "enter":
		return s, s.finish()
	case "r":
		s.open(s.index)
	case "n":
		s.open((s.index + 1) % len(s.exercises))
	case "up", "k":
		s.move(-1)
	case "down", "j":
		s.move(1)
	case "ctrl+t", "t":
		s.showTranslate = !s.showTranslate
	}
	return s, nil
}

func (s *ComprehensionScreen) handleAnswerKey(msg tea.KeyMsg) (screen.Screen, tea.Cmd) {
	key := msg.String()
	switch key {
	case "up":
		s.move(-1)
		return s, nil
	case "down", "tab":
		s.move(1)
		return s, nil
	case "ctrl+p":
		return s, s.play()
	case "ctrl+t":
		s.showTranslate = !s.showTranslate
		return s, nil
	case "ctrl+s":
		s.submit()
		return s, nil
	}

	e := s.entries[s.cursor]
	if e.isWriting() {
		if key == "enter" {
			s.mixed[e.id] = s.input.Value()
			s.move(1)
			return s, nil
		}
		var cmd tea.Cmd
		s.input, cmd = s.input.Update(msg)
		s.mixed[e.id] = s.input.Value()
		return s, cmd
	}

	if len(key) == 1 && key[0] >= '1' && key[0] <= '9' {
		s.choose(int(key[0] - '1'))
	}
	return s, nil
}

func (s *ComprehensionScreen) move(delta int) {
	next := s.cursor + delta
	if next < 0 || next >= len(s.entries) {
		return
	}
	s.cursor = next
	s.syncInput()
}

// syncInput loads the stored answer for a writing entry into the input.
func (s *ComprehensionScreen) syncInput() {
	if len(s.entries) == 0 || !s.entries[s.cursor].isWriting() {
		return
	}
	s.input.SetValue(s.mixed[s.entries[s.cursor].id])
}

func (s *ComprehensionScreen) play() tea.Cmd {
	if !s.hasListening() {
		return nil
	}
	s.gate.MarkPlayed()
	s.showTranscript = true
	s.transcriptGen++
	gen := s.transcriptGen
	return tea.Tick(TranscriptDuration, func(time.Time) tea.Msg {
		return hideTranscriptMsg{gen: gen}
	})
}

func (s *ComprehensionScreen) choose(option int) {
	e := s.entries[s.cursor]
	if option >= len(e.options) {
		return
	}
	if e.section == sectionListening && !s.gate.CanAnswer() {
		s.notice = "Play the recording first (Ctrl+P)."
		return
	}
	s.notice = ""
	if s.sheet != nil {
		if err := s.sheet.Select(e.id, option); err != nil {
			s.notice = err.Error()
		}
		return
	}
	s.mixed[e.id] = e.options[option]
}

// chosen returns the selected option index for a choice entry, or -1.
func (s *ComprehensionScreen) chosen(e entry) int {
	if s.sheet != nil {
		if a, ok := s.sheet.Answer(e.id); ok {
			return a
		}
		return -1
	}
	for i, o := range e.options {
		if ans, ok := s.mixed[e.id]; ok && ans == o {
			return i
		}
	}
	return -1
}

func (s *ComprehensionScreen) isCorrect(e entry) bool {
	if s.sheet != nil {
		return s.sheet.IsCorrect(e.id)
	}
	if s.score == nil {
		return false
	}
	return s.score.PerQuestion[e.id]
}

func (s *ComprehensionScreen) submit() {
	if s.sheet != nil {
		if err := s.sheet.Submit(); err != nil {
			if errors.Is(err, comprehension.ErrIncomplete) {
				s.notice = "Answer every question before submitting."
			} else {
				s.notice = err.Error()
			}
		}
		return
	}
	for _, e := range s.entries {
		if _, ok := s.mixed[e.id]; !ok {
			s.notice = "Answer every question before submitting."
			return
		}
	}
	score := comprehension.ScoreMixed(*s.current().Mixed, s.mixed)
	s.score = &score
	s.notice = ""
}

func (s *ComprehensionScreen) scoreLine() (correct, total, percent int) {
	if s.sheet != nil {
		return s.sheet.Score()
	}
	if s.score == nil {
		return 0, len(s.entries), 0
	}
	return s.score.Correct, s.score.Total, s.score.Percent
}

func (s *ComprehensionScreen) finish() tea.Cmd {
	correct, total, percent := s.scoreLine()
	ex := s.current()

	details := make([]results.Detail, 0, len(s.entries))
	perQuestion := make(map[string]bool, len(s.entries))
	for _, e := range s.entries {
		answer := e.expected
		if e.correctIndex >= 0 {
			answer = e.options[e.correctIndex]
		}
		ok := s.isCorrect(e)
		perQuestion[e.id] = ok
		details = append(details, results.Detail{Prompt: e.prompt, Answer: answer, Correct: ok})
	}
	detailJSON, _ := json.Marshal(map[string]any{"exercise": ex.ID(), "questions": perQuestion})

	record := &store.ResultData{
		SessionID:    s.sessionID,
		Mode:         string(ex.Kind),
		Level:        s.level,
		Score:        correct,
		Total:        total,
		DurationSecs: int(time.Since(s.started).Seconds()),
		Detail:       string(detailJSON),
	}
	summary := results.Summary{
		Heading: fmt.Sprintf("%s · %s", ex.Title(), content.LevelName(s.level)),
		Score:   correct,
		Total:   total,
		Percent: percent,
		Notes:   []string{fmt.Sprintf("%d%% correct", percent)},
		Details: details,
	}

	deps, level, kind, index := s.deps, s.level, s.kind, s.index
	next := results.New(summary, record, deps.Results, deps.Log, func() screen.Screen {
		scr := New(deps, level, kind)
		if scr.errMsg == "" && index < len(scr.exercises) {
			scr.open(index)
		}
		return scr
	})
	return func() tea.Msg { return router.ReplaceScreenMsg{Screen: next} }
}
