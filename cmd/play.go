package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/hanzidrill/internal/app"
	"github.com/abhisek/hanzidrill/internal/content"
	"github.com/abhisek/hanzidrill/internal/matching"
	"github.com/abhisek/hanzidrill/internal/screen"
	comprehensionscreen "github.com/abhisek/hanzidrill/internal/screens/comprehension"
	"github.com/abhisek/hanzidrill/internal/screens/flashcards"
	matchingscreen "github.com/abhisek/hanzidrill/internal/screens/matching"
	quizscreen "github.com/abhisek/hanzidrill/internal/screens/quiz"
	writingscreen "github.com/abhisek/hanzidrill/internal/screens/writing"
)

type startFunc = func(screen.Deps, int) screen.Screen

// playModes maps --mode values to the screen they open.
var playModes = map[string]startFunc{
	"quiz": func(d screen.Deps, l int) screen.Screen { return quizscreen.New(d, l) },
	"matching-pinyin": func(d screen.Deps, l int) screen.Screen {
		return matchingscreen.New(d, l, matching.ModePinyinHanzi)
	},
	"matching-translation": func(d screen.Deps, l int) screen.Screen {
		return matchingscreen.New(d, l, matching.ModeTranslationHanzi)
	},
	"flashcards": func(d screen.Deps, l int) screen.Screen { return flashcards.New(d, l) },
	"reading": func(d screen.Deps, l int) screen.Screen {
		return comprehensionscreen.New(d, l, content.KindReading)
	},
	"listening": func(d screen.Deps, l int) screen.Screen {
		return comprehensionscreen.New(d, l, content.KindListening)
	},
	"writing": func(d screen.Deps, l int) screen.Screen { return writingscreen.New(d, l) },
	"mixed": func(d screen.Deps, l int) screen.Screen {
		return comprehensionscreen.New(d, l, content.KindMixed)
	},
}

func playModeNames() []string {
	return []string{
		"quiz", "matching-pinyin", "matching-translation", "flashcards",
		"reading", "listening", "writing", "mixed",
	}
}

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Start a game directly at a level",
	Example: `  hanzidrill play --level 2 --mode quiz
  hanzidrill play -l 1 -m matching-pinyin
  hanzidrill play --exercise reading-hsk3-1`,
	RunE: func(cmd *cobra.Command, args []string) error {
		level, _ := cmd.Flags().GetInt("level")
		mode, _ := cmd.Flags().GetString("mode")
		exercise, _ := cmd.Flags().GetString("exercise")

		if exercise != "" {
			if mode != "" {
				return fmt.Errorf("--exercise and --mode are mutually exclusive")
			}
			return runApp(cmd, 0, nil, exercise)
		}

		if !content.ValidLevel(level) {
			return fmt.Errorf("level %d out of range %d-%d", level, content.MinLevel, content.MaxLevel)
		}
		var start startFunc
		if mode != "" {
			s, ok := playModes[mode]
			if !ok {
				return fmt.Errorf("unknown mode %q (one of: %s)", mode, strings.Join(playModeNames(), ", "))
			}
			start = s
		}
		return runApp(cmd, level, start, "")
	},
}

// exerciseStart resolves an exercise id to the screen that plays it and
// the level it belongs to.
func exerciseStart(cs content.Store, id string) (startFunc, int, error) {
	ex, ok := cs.ExerciseByID(id)
	if !ok {
		return nil, 0, fmt.Errorf("no exercise with id %q", id)
	}
	if ex.Kind == content.KindWriting {
		return func(d screen.Deps, _ int) screen.Screen { return writingscreen.NewAt(d, id) }, ex.Level(), nil
	}
	return func(d screen.Deps, _ int) screen.Screen { return comprehensionscreen.NewAt(d, id) }, ex.Level(), nil
}

// runApp opens the store, builds dependencies, and launches the TUI. A
// non-empty exercise id overrides level and start.
func runApp(cmd *cobra.Command, level int, start startFunc, exercise string) error {
	env, err := setup(cmd)
	if err != nil {
		return err
	}
	defer env.Close()

	ctx := cmd.Context()
	deps, err := env.deps(ctx)
	if err != nil {
		return err
	}
	if exercise != "" {
		if start, level, err = exerciseStart(deps.Content, exercise); err != nil {
			return err
		}
	}
	if level == 0 {
		level = content.MinLevel
	}

	return app.Run(ctx, app.Options{Deps: deps, Level: level, Start: start})
}

func init() {
	playCmd.Flags().IntP("level", "l", content.MinLevel, "HSK level (1-6)")
	playCmd.Flags().StringP("mode", "m", "", "Game to open: "+strings.Join(playModeNames(), ", "))
	playCmd.Flags().StringP("exercise", "e", "", "Open one reading, listening, writing or mixed exercise by id")
}
