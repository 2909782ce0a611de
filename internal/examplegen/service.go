// Package examplegen produces example sentences for vocabulary items,
// preferring the content pack, then the store cache, then an LLM.
package examplegen

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/abhisek/hanzidrill/internal/content"
	"github.com/abhisek/hanzidrill/internal/llm"
	"github.com/abhisek/hanzidrill/internal/store"
)

// Purpose labels LLM request events made by this package.
const Purpose = "example"

var (
	// ErrUnavailable is returned when no example is cached and no
	// provider is configured.
	ErrUnavailable = errors.New("example sentences unavailable: no LLM provider configured")

	// ErrInvalidExample is returned when the provider's sentence does not
	// use the requested word.
	ErrInvalidExample = errors.New("generated example does not use the word")
)

// Source records where an Example came from.
type Source string

const (
	SourcePack  Source = "pack"
	SourceCache Source = "cache"
	SourceLLM   Source = "llm"
)

// Example is one sentence illustrating a vocabulary item.
type Example struct {
	Hanzi       string
	Sentence    string
	Pinyin      string
	Translation string
	Source      Source
}

// Config tunes generation requests.
type Config struct {
	MaxTokens   int
	Temperature float64
	Timeout     time.Duration
}

// DefaultConfig returns the request settings used by the CLI and TUI.
func DefaultConfig() Config {
	return Config{
		MaxTokens:   256,
		Temperature: 0.7,
		Timeout:     30 * time.Second,
	}
}

// Service resolves example sentences.
type Service struct {
	provider llm.Provider
	repo     store.ExampleRepo
	cfg      Config
	log      logrus.FieldLogger
}

// New creates a Service. provider may be nil, in which case only pack and
// cached examples are served. repo may be nil to disable caching.
func New(provider llm.Provider, repo store.ExampleRepo, cfg Config, log logrus.FieldLogger) *Service {
	if log == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		log = l
	}
	return &Service{provider: provider, repo: repo, cfg: cfg, log: log}
}

// Available reports whether the service can generate new sentences.
func (s *Service) Available() bool {
	return s.provider != nil
}

type sentenceOutput struct {
	Sentence    string `json:"sentence"`
	Pinyin      string `json:"pinyin"`
	Translation string `json:"translation"`
}

// Example returns a sentence for item. level only shapes the prompt and
// may be zero.
func (s *Service) Example(ctx context.Context, item content.VocabularyItem, level int) (*Example, error) {
	if item.Example != "" {
		return &Example{
			Hanzi:       item.Hanzi,
			Sentence:    item.Example,
			Translation: item.ExampleTranslation,
			Source:      SourcePack,
		}, nil
	}

	if s.repo != nil {
		cached, err := s.repo.GetExample(ctx, item.Hanzi)
		if err != nil {
			return nil, fmt.Errorf("read cached example: %w", err)
		}
		if cached != nil {
			return &Example{
				Hanzi:       cached.Hanzi,
				Sentence:    cached.Sentence,
				Pinyin:      cached.Pinyin,
				Translation: cached.Translation,
				Source:      SourceCache,
			}, nil
		}
	}

	if s.provider == nil {
		return nil, ErrUnavailable
	}

	ex, model, err := s.generate(ctx, item, level)
	if err != nil {
		return nil, err
	}

	if s.repo != nil {
		err := s.repo.PutExample(ctx, store.ExampleData{
			Hanzi:       ex.Hanzi,
			Sentence:    ex.Sentence,
			Pinyin:      ex.Pinyin,
			Translation: ex.Translation,
			Model:       model,
		})
		if err != nil {
			s.log.WithError(err).WithField("hanzi", item.Hanzi).Warn("failed to cache example")
		}
	}
	return ex, nil
}

func (s *Service) generate(ctx context.Context, item content.VocabularyItem, level int) (*Example, string, error) {
	ctx = llm.WithCall(ctx, llm.Call{Purpose: Purpose, Subject: item.Hanzi})
	if s.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.cfg.Timeout)
		defer cancel()
	}

	resp, err := s.provider.Generate(ctx, llm.Request{
		System:      systemPrompt,
		Messages:    []llm.Message{{Role: llm.RoleUser, Content: buildUserMessage(item, level)}},
		Schema:      SentenceSchema,
		MaxTokens:   s.cfg.MaxTokens,
		Temperature: s.cfg.Temperature,
	})
	if err != nil {
		return nil, "", fmt.Errorf("LLM generation failed: %w", err)
	}

	var raw sentenceOutput
	if err := resp.Decode(&raw); err != nil {
		return nil, "", fmt.Errorf("failed to parse LLM response: %w", err)
	}

	sentence := strings.TrimSpace(raw.Sentence)
	if !strings.Contains(sentence, item.Hanzi) {
		return nil, "", fmt.Errorf("%w: %q not in %q", ErrInvalidExample, item.Hanzi, sentence)
	}

	return &Example{
		Hanzi:       item.Hanzi,
		Sentence:    sentence,
		Pinyin:      strings.TrimSpace(raw.Pinyin),
		Translation: strings.TrimSpace(raw.Translation),
		Source:      SourceLLM,
	}, resp.Model, nil
}
