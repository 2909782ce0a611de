package cmd

import (
	"context"
	"fmt"
	"io"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/abhisek/hanzidrill/internal/config"
	"github.com/abhisek/hanzidrill/internal/content"
	"github.com/abhisek/hanzidrill/internal/examplegen"
	"github.com/abhisek/hanzidrill/internal/game"
	"github.com/abhisek/hanzidrill/internal/llm"
	"github.com/abhisek/hanzidrill/internal/logging"
	"github.com/abhisek/hanzidrill/internal/matching"
	"github.com/abhisek/hanzidrill/internal/quiz"
	"github.com/abhisek/hanzidrill/internal/screen"
	"github.com/abhisek/hanzidrill/internal/store"
)

// environment is what every command needs: validated config, a logger,
// and lazily the store and content.
type environment struct {
	cfg       *config.Config
	log       *logrus.Logger
	logCloser io.Closer
	store     *store.Store
}

// setup loads configuration and the logger for cmd.
func setup(cmd *cobra.Command) (*environment, error) {
	file, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(v, file)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	log, closer, err := logging.New(cfg.Log)
	if err != nil {
		return nil, fmt.Errorf("setup logging: %w", err)
	}
	log.WithFields(logrus.Fields{
		"command": cmd.CommandPath(),
		"db":      cfg.DB,
	}).Debug("starting")

	return &environment{cfg: cfg, log: log, logCloser: closer}, nil
}

// Close releases the store and the log file.
func (e *environment) Close() {
	if e.store != nil {
		if err := e.store.Close(); err != nil {
			e.log.WithError(err).Warn("failed to close store")
		}
	}
	if e.logCloser != nil {
		_ = e.logCloser.Close()
	}
}

// openStore opens the database once per command.
func (e *environment) openStore() (*store.Store, error) {
	if e.store != nil {
		return e.store, nil
	}
	if err := store.EnsureDir(e.cfg.DB); err != nil {
		return nil, fmt.Errorf("resolve DB path: %w", err)
	}
	st, err := store.Open(e.cfg.DB)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}
	e.store = st
	return st, nil
}

func (e *environment) loadContent() (*content.MemoryStore, error) {
	cs, err := content.Load(e.cfg.Content.Dir)
	if err != nil {
		return nil, fmt.Errorf("load content: %w", err)
	}
	return cs, nil
}

// exampleService builds the example sentence service. It always returns a
// service; without a usable provider it serves pack and cached examples
// only.
func (e *environment) exampleService(ctx context.Context, st *store.Store) *examplegen.Service {
	var provider llm.Provider
	if pcfg, ok := llm.Resolve(e.cfg.LLMProvider()); ok {
		p, err := llm.NewProvider(ctx, pcfg, st.EventRepo(), e.log)
		if err != nil {
			e.log.WithError(err).WithField("provider", pcfg.Provider).Warn("LLM provider not configured")
		} else {
			provider = p
			e.log.WithFields(logrus.Fields{
				"provider": pcfg.Provider,
				"model":    p.ModelID(),
			}).Info("LLM provider ready")
		}
	}
	return examplegen.New(provider, st.ExampleRepo(), examplegen.DefaultConfig(), e.log)
}

// deps assembles everything the screens need.
func (e *environment) deps(ctx context.Context) (screen.Deps, error) {
	st, err := e.openStore()
	if err != nil {
		return screen.Deps{}, err
	}
	cs, err := e.loadContent()
	if err != nil {
		return screen.Deps{}, err
	}

	qcfg := quiz.DefaultConfig()
	qcfg.Length = e.cfg.Quiz.Length
	qcfg.OptionCount = e.cfg.Quiz.Options

	mcfg := matching.DefaultConfig()
	mcfg.PairCount = e.cfg.Matching.Pairs
	mcfg.RevealDelay = e.cfg.Matching.RevealDelay

	return screen.Deps{
		Content:   cs,
		Results:   st.ResultRepo(),
		Examples:  e.exampleService(ctx, st),
		Quiz:      qcfg,
		Matching:  mcfg,
		Log:       e.log,
		NewSource: game.DefaultSource,
	}, nil
}
