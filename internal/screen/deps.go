package screen

import (
	"github.com/sirupsen/logrus"

	"github.com/abhisek/hanzidrill/internal/content"
	"github.com/abhisek/hanzidrill/internal/examplegen"
	"github.com/abhisek/hanzidrill/internal/game"
	"github.com/abhisek/hanzidrill/internal/matching"
	"github.com/abhisek/hanzidrill/internal/quiz"
	"github.com/abhisek/hanzidrill/internal/store"
)

// Deps carries the services screens are built from. Results and Examples
// may be nil; screens degrade to not saving and not generating.
type Deps struct {
	Content  content.Store
	Results  store.ResultRepo
	Examples *examplegen.Service
	Quiz     quiz.Config
	Matching matching.Config
	Log      logrus.FieldLogger

	// NewSource seeds per-game randomness. Tests pin it.
	NewSource func() game.Source
}

// Source returns a fresh random source.
func (d Deps) Source() game.Source {
	if d.NewSource != nil {
		return d.NewSource()
	}
	return game.DefaultSource()
}
