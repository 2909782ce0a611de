// Package config loads hanzidrill settings from flags, HANZIDRILL_*
// environment variables, an optional YAML file and built-in defaults.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"

	"github.com/abhisek/hanzidrill/internal/llm"
	"github.com/abhisek/hanzidrill/internal/matching"
	"github.com/abhisek/hanzidrill/internal/quiz"
	"github.com/abhisek/hanzidrill/internal/store"
)

// EnvPrefix is prepended to every environment override.
const EnvPrefix = "HANZIDRILL"

// Config holds all configuration for the application.
type Config struct {
	DB       string         `mapstructure:"db"`
	Log      LogConfig      `mapstructure:"log"`
	Content  ContentConfig  `mapstructure:"content"`
	Quiz     QuizConfig     `mapstructure:"quiz"`
	Matching MatchingConfig `mapstructure:"matching"`
	LLM      LLMConfig      `mapstructure:"llm"`
}

// LogConfig selects the log sink.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	File   string `mapstructure:"file"`
}

// ContentConfig points at extra content packs.
type ContentConfig struct {
	Dir string `mapstructure:"dir"`
}

// QuizConfig holds quiz session defaults.
type QuizConfig struct {
	Length  int `mapstructure:"length"`
	Options int `mapstructure:"options"`
}

// MatchingConfig holds matching game defaults.
type MatchingConfig struct {
	Pairs       int           `mapstructure:"pairs"`
	RevealDelay time.Duration `mapstructure:"reveal_delay"`
}

// LLMConfig selects the example sentence provider.
type LLMConfig struct {
	Provider string `mapstructure:"provider"`
	Model    string `mapstructure:"model"`
	APIKey   string `mapstructure:"api_key"`
	BaseURL  string `mapstructure:"base_url"`
}

// New returns a viper instance with defaults and env binding applied.
// Callers bind flags to it before calling Load.
func New() *viper.Viper {
	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("db", "")

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
	v.SetDefault("log.file", "")

	v.SetDefault("content.dir", "")

	v.SetDefault("quiz.length", quiz.DefaultLength)
	v.SetDefault("quiz.options", quiz.DefaultOptionCount)

	v.SetDefault("matching.pairs", matching.DefaultPairCount)
	v.SetDefault("matching.reveal_delay", matching.DefaultRevealDelay)

	v.SetDefault("llm.provider", "")
	v.SetDefault("llm.model", "")
	v.SetDefault("llm.api_key", "")
	v.SetDefault("llm.base_url", "")
}

// Load reads file (or the default config location when file is empty)
// into v and decodes the result. A missing default file is not an error;
// a missing explicit file is.
func Load(v *viper.Viper, file string) (*Config, error) {
	if file != "" {
		v.SetConfigFile(file)
	} else if dir, err := Dir(); err == nil {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(dir)
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if file != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	if cfg.DB == "" {
		p, err := store.DefaultDBPath()
		if err != nil {
			return nil, err
		}
		cfg.DB = p
	}
	if cfg.Log.File == "" {
		cfg.Log.File = filepath.Join(filepath.Dir(cfg.DB), "hanzidrill.log")
	}

	return &cfg, nil
}

// Dir returns $XDG_CONFIG_HOME/hanzidrill, falling back to
// ~/.config/hanzidrill.
func Dir() (string, error) {
	if d := os.Getenv("XDG_CONFIG_HOME"); d != "" {
		return filepath.Join(d, "hanzidrill"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("get home dir: %w", err)
	}
	return filepath.Join(home, ".config", "hanzidrill"), nil
}

// Validate rejects settings the engines cannot run with.
func (c *Config) Validate() error {
	if c.Quiz.Length < 1 {
		return fmt.Errorf("quiz.length must be at least 1, got %d", c.Quiz.Length)
	}
	if c.Quiz.Options < 2 {
		return fmt.Errorf("quiz.options must be at least 2, got %d", c.Quiz.Options)
	}
	if c.Matching.Pairs < 2 {
		return fmt.Errorf("matching.pairs must be at least 2, got %d", c.Matching.Pairs)
	}
	if c.Matching.RevealDelay < 0 {
		return fmt.Errorf("matching.reveal_delay must not be negative")
	}
	if _, err := logrus.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("log.level: %w", err)
	}
	switch c.Log.Format {
	case "text", "json":
	default:
		return fmt.Errorf("log.format must be text or json, got %q", c.Log.Format)
	}
	return nil
}

// LLMProvider converts the llm section for llm.Resolve.
func (c *Config) LLMProvider() llm.Config {
	cfg := llm.DefaultConfig()
	cfg.Provider = c.LLM.Provider
	cfg.Model = c.LLM.Model
	cfg.APIKey = c.LLM.APIKey
	cfg.BaseURL = c.LLM.BaseURL
	return cfg
}
