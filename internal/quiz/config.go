package quiz

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/abhisek/hanzidrill/internal/content"
	"github.com/abhisek/hanzidrill/internal/game"
)

// Default session settings.
const (
	DefaultLength      = 10
	DefaultOptionCount = 4
)

// Field selects which side of a vocabulary item a question shows or asks for.
type Field string

const (
	FieldHanzi       Field = "hanzi"
	FieldPinyin      Field = "pinyin"
	FieldTranslation Field = "translation"
)

// Of returns the field's value on w.
func (f Field) Of(w content.VocabularyItem) string {
	switch f {
	case FieldPinyin:
		return w.Pinyin
	case FieldTranslation:
		return w.Translation
	default:
		return w.Hanzi
	}
}

// Valid reports whether f names a known field.
func (f Field) Valid() bool {
	switch f {
	case FieldHanzi, FieldPinyin, FieldTranslation:
		return true
	}
	return false
}

// Config holds quiz settings.
type Config struct {
	Length      int
	OptionCount int
	Prompt      Field
	Answer      Field

	// Source drives every random choice. Nil means game.DefaultSource().
	Source game.Source
	// Logger receives warnings for rejected operations. Nil discards them.
	Logger logrus.FieldLogger
}

// DefaultConfig returns a Config for a 10-question hanzi to translation quiz.
func DefaultConfig() Config {
	return Config{
		Length:      DefaultLength,
		OptionCount: DefaultOptionCount,
		Prompt:      FieldHanzi,
		Answer:      FieldTranslation,
	}
}

// Validate checks the config for unusable values.
func (c Config) Validate() error {
	if c.Length < 1 {
		return fmt.Errorf("quiz length must be at least 1, got %d", c.Length)
	}
	if c.OptionCount < 2 {
		return fmt.Errorf("quiz options: %w", game.ErrInvalidCount)
	}
	if !c.Prompt.Valid() || !c.Answer.Valid() {
		return fmt.Errorf("unknown quiz field (prompt %q, answer %q)", c.Prompt, c.Answer)
	}
	if c.Prompt == c.Answer {
		return fmt.Errorf("prompt and answer must differ, both are %q", c.Prompt)
	}
	return nil
}
