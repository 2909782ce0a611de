package matching

import (
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"k8s.io/utils/clock"

	"github.com/abhisek/hanzidrill/internal/game"
)

// Defaults for a matching game.
const (
	DefaultPairCount   = 8
	DefaultRevealDelay = time.Second
)

// ErrUnknownCard is returned when a card id is not on the board.
var ErrUnknownCard = errors.New("unknown card")

// Mode selects what each hanzi card is paired with.
type Mode string

const (
	ModePinyinHanzi      Mode = "pinyin-hanzi"
	ModeTranslationHanzi Mode = "translation-hanzi"
)

// Modes lists the playable modes in menu order.
var Modes = []Mode{ModePinyinHanzi, ModeTranslationHanzi}

// ParseMode converts a mode name into a Mode.
func ParseMode(s string) (Mode, error) {
	for _, m := range Modes {
		if string(m) == s {
			return m, nil
		}
	}
	return "", fmt.Errorf("unknown matching mode %q", s)
}

// Label is the menu text for a mode.
func (m Mode) Label() string {
	switch m {
	case ModePinyinHanzi:
		return "Pinyin - Hanzi"
	case ModeTranslationHanzi:
		return "Translation - Hanzi"
	}
	return string(m)
}

// CardKind tags which side of a word a card shows.
type CardKind string

const (
	KindHanzi       CardKind = "hanzi"
	KindPinyin      CardKind = "pinyin"
	KindTranslation CardKind = "translation"
)

// Card is one tile on the board. Exactly two cards share a PairID.
type Card struct {
	ID       string
	PairID   string
	Content  string
	Kind     CardKind
	Matched  bool
	Selected bool
}

// State is the lifecycle position of a matching engine.
type State int

const (
	StateModeSelect State = iota
	StatePlaying
	StateCompleted
)

func (s State) String() string {
	switch s {
	case StateModeSelect:
		return "mode-select"
	case StatePlaying:
		return "playing"
	case StateCompleted:
		return "completed"
	}
	return "unknown"
}

// Outcome describes what a Select call did.
type Outcome int

const (
	// OutcomeIgnored means the pick was a no-op.
	OutcomeIgnored Outcome = iota
	// OutcomeFirstPick means the card is now the pending selection.
	OutcomeFirstPick
	// OutcomeMatch means the pick completed a pair.
	OutcomeMatch
	// OutcomeMismatch means the pick did not match and both cards are
	// revealed until the reveal delay elapses.
	OutcomeMismatch
)

// Config holds matching game settings.
type Config struct {
	PairCount   int
	RevealDelay time.Duration

	Source game.Source
	Clock  clock.WithDelayedExecution
	Logger logrus.FieldLogger
}

// DefaultConfig returns an 8-pair game with a one second reveal.
func DefaultConfig() Config {
	return Config{
		PairCount:   DefaultPairCount,
		RevealDelay: DefaultRevealDelay,
	}
}

// Validate checks the config for unusable values.
func (c Config) Validate() error {
	if c.PairCount < 2 {
		return fmt.Errorf("matching pairs: %w", game.ErrInvalidCount)
	}
	if c.RevealDelay < 0 {
		return fmt.Errorf("reveal delay must not be negative, got %s", c.RevealDelay)
	}
	return nil
}

// View is a read-only projection of the board for rendering.
type View struct {
	State     State
	Level     int
	Mode      Mode
	Cards     []Card
	Moves     int
	Matched   int
	PairCount int
	Revealing bool
}

// Result is the outcome of a completed game.
type Result struct {
	Level     int
	Mode      Mode
	Moves     int
	PairCount int
}

// Grade classifies the result by moves per pair.
func (r Result) Grade() game.Grade {
	return game.GradeFor(r.Moves, r.PairCount)
}
