package game

import (
	"errors"
	"fmt"
)

// ErrInvalidCount is returned when an option or pair count is below the
// minimum a game can be played with.
var ErrInvalidCount = errors.New("count must be at least 2")

// ErrEmptyPool indicates the requested level has no content at all.
type ErrEmptyPool struct {
	Level int
}

func (e *ErrEmptyPool) Error() string {
	return fmt.Sprintf("no vocabulary available for HSK %d", e.Level)
}

// ErrInsufficientPool indicates content exists but not enough of it to build
// the requested game.
type ErrInsufficientPool struct {
	Need int
	Have int
}

func (e *ErrInsufficientPool) Error() string {
	return fmt.Sprintf("not enough items: need %d, have %d", e.Need, e.Have)
}

// ErrAlreadyAnswered is returned for a second submission on the same question.
type ErrAlreadyAnswered struct {
	Index int
}

func (e *ErrAlreadyAnswered) Error() string {
	return fmt.Sprintf("question %d already answered", e.Index+1)
}

// ErrInvalidTransition is returned when an operation is invoked outside the
// state it is valid in. It always points at a caller bug, never at bad content.
type ErrInvalidTransition struct {
	Op    string
	State string
}

func (e *ErrInvalidTransition) Error() string {
	return fmt.Sprintf("%s not allowed in state %s", e.Op, e.State)
}

// IsConstructionError reports whether err should abort starting a game and
// send the learner back to selection.
func IsConstructionError(err error) bool {
	var empty *ErrEmptyPool
	var insufficient *ErrInsufficientPool
	return errors.As(err, &empty) || errors.As(err, &insufficient) || errors.Is(err, ErrInvalidCount)
}
