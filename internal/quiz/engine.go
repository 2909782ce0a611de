package quiz

import (
	"fmt"
	"io"
	"slices"

	"github.com/samber/lo"
	"github.com/sirupsen/logrus"

	"github.com/abhisek/hanzidrill/internal/content"
	"github.com/abhisek/hanzidrill/internal/game"
)

// ErrChoiceOutOfRange is returned when a submitted option index does not
// exist on the current question.
type ErrChoiceOutOfRange struct {
	Choice int
	Count  int
}

func (e *ErrChoiceOutOfRange) Error() string {
	return fmt.Sprintf("choice %d out of range [0, %d)", e.Choice, e.Count)
}

// Engine runs one multiple-choice vocabulary quiz at a time. It is not safe
// for concurrent use; the TUI drives it from a single goroutine.
type Engine struct {
	store content.Store
	cfg   Config
	src   game.Source
	log   logrus.FieldLogger

	state     State
	level     int
	questions []Question
	answers   []Answer
	current   int
	score     int
}

// New creates an engine in StateSelecting.
func New(store content.Store, cfg Config) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	src := cfg.Source
	if src == nil {
		src = game.DefaultSource()
	}
	log := cfg.Logger
	if log == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		log = l
	}
	return &Engine{
		store: store,
		cfg:   cfg,
		src:   src,
		log:   log.WithField("component", "quiz"),
	}, nil
}

// State returns the current lifecycle state.
func (e *Engine) State() State { return e.state }

// Start builds a new session of up to length questions for level. A
// non-positive length uses the configured default; a length above the pool
// size is clamped to it. On error the engine stays in StateSelecting.
func (e *Engine) Start(level, length int) error {
	if e.state != StateSelecting {
		return e.reject("start", &game.ErrInvalidTransition{Op: "start", State: e.state.String()})
	}

	words := lo.UniqBy(e.store.VocabularyByLevel(level), func(w content.VocabularyItem) string {
		return w.Hanzi
	})
	if len(words) == 0 {
		return &game.ErrEmptyPool{Level: level}
	}
	answers := lo.Map(words, func(w content.VocabularyItem, _ int) string {
		return e.cfg.Answer.Of(w)
	})
	// Options never repeat a display string, so the pool is as deep as its
	// distinct answers.
	if distinct := len(lo.Uniq(answers)); distinct < e.cfg.OptionCount {
		return &game.ErrInsufficientPool{Need: e.cfg.OptionCount, Have: distinct}
	}

	if length <= 0 {
		length = e.cfg.Length
	}
	length = min(length, len(words))

	picks, err := game.Sample(e.src, len(words), length)
	if err != nil {
		return err
	}

	questions := make([]Question, 0, length)
	for _, i := range picks {
		opts, err := Options(e.src, answers, i, e.cfg.OptionCount)
		if err != nil {
			return fmt.Errorf("build question for %s: %w", words[i].Hanzi, err)
		}
		questions = append(questions, Question{
			Item:    words[i],
			Prompt:  e.cfg.Prompt.Of(words[i]),
			Options: opts,
			Correct: slices.Index(opts, answers[i]),
		})
	}

	e.level = level
	e.questions = questions
	e.answers = make([]Answer, 0, length)
	e.current = 0
	e.score = 0
	e.state = StateQuestion
	e.log.WithFields(logrus.Fields{"level": level, "questions": length}).Debug("quiz started")
	return nil
}

// SubmitAnswer records choice (an index into the current options) for the
// current question and moves to StateFeedback. It reports whether the
// choice was correct.
func (e *Engine) SubmitAnswer(choice int) (bool, error) {
	switch e.state {
	case StateQuestion:
	case StateFeedback:
		return false, e.reject("submit", &game.ErrAlreadyAnswered{Index: e.current})
	default:
		return false, e.reject("submit", &game.ErrInvalidTransition{Op: "submit", State: e.state.String()})
	}

	q := e.questions[e.current]
	if choice < 0 || choice >= len(q.Options) {
		return false, e.reject("submit", &ErrChoiceOutOfRange{Choice: choice, Count: len(q.Options)})
	}

	correct := choice == q.Correct
	e.answers = append(e.answers, Answer{
		Question: e.current,
		Choice:   choice,
		Text:     q.Options[choice],
		Correct:  correct,
	})
	if correct {
		e.score++
	}
	e.state = StateFeedback
	return correct, nil
}

// Advance moves past the feedback of the current question, either to the
// next question or to StateResults after the last one.
func (e *Engine) Advance() error {
	if e.state != StateFeedback {
		return e.reject("advance", &game.ErrInvalidTransition{Op: "advance", State: e.state.String()})
	}
	if e.current+1 < len(e.questions) {
		e.current++
		e.state = StateQuestion
		return nil
	}
	e.state = StateResults
	e.log.WithFields(logrus.Fields{"level": e.level, "score": e.score, "total": len(e.questions)}).Debug("quiz finished")
	return nil
}

// Restart discards the session and returns to StateSelecting. It is
// accepted in every state.
func (e *Engine) Restart() {
	e.questions = nil
	e.answers = nil
	e.current = 0
	e.score = 0
	e.level = 0
	e.state = StateSelecting
}

// View projects the engine for rendering. It has no side effects.
func (e *Engine) View() View {
	v := View{
		State:          e.state,
		Level:          e.level,
		TotalQuestions: len(e.questions),
		Score:          e.score,
		Selected:       -1,
		CorrectAnswer:  -1,
	}
	if len(e.questions) == 0 {
		return v
	}

	q := e.questions[e.current]
	v.QuestionNumber = e.current + 1
	v.Prompt = q.Prompt
	v.Options = slices.Clone(q.Options)
	if len(e.answers) > e.current {
		a := e.answers[e.current]
		v.Selected = a.Choice
		v.CorrectAnswer = q.Correct
		v.LastCorrect = a.Correct
	}
	return v
}

// Questions returns a copy of the built questions.
func (e *Engine) Questions() []Question {
	return slices.Clone(e.questions)
}

// Result returns the outcome once the session reached StateResults.
func (e *Engine) Result() (Result, error) {
	if e.state != StateResults {
		return Result{}, &game.ErrInvalidTransition{Op: "result", State: e.state.String()}
	}
	return Result{
		Level:   e.level,
		Score:   e.score,
		Total:   len(e.questions),
		Percent: game.Percent(e.score, len(e.questions)),
		Answers: slices.Clone(e.answers),
	}, nil
}

func (e *Engine) reject(op string, err error) error {
	e.log.WithFields(logrus.Fields{"op": op, "state": e.state.String()}).WithError(err).Warn("operation rejected")
	return err
}
