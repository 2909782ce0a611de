package cmd

import (
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/abhisek/hanzidrill/internal/config"
)

var v = config.New()

var rootCmd = &cobra.Command{
	Use:   "hanzidrill",
	Short: "HSK vocabulary trainer for the terminal",
	Long: `Hanzidrill is a terminal trainer for HSK 1-6 vocabulary: quizzes, matching
games, flashcards, and reading, listening, writing and mixed exercises.

Example sentences can be generated by an LLM when GEMINI_API_KEY,
OPENAI_API_KEY, ANTHROPIC_API_KEY or OPENROUTER_API_KEY is set.`,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runApp(cmd, 0, nil, "")
	},
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.String("config", "", "Path to config file (default $XDG_CONFIG_HOME/hanzidrill/config.yaml)")
	flags.String("db", "", "Path to SQLite database file (overrides HANZIDRILL_DB env var)")
	flags.String("log-level", "", "Log level: trace, debug, info, warn, error")
	flags.String("content-dir", "", "Directory with extra content packs (*.json)")

	bindFlagToViper(v, "db", flags.Lookup("db"))
	bindFlagToViper(v, "log.level", flags.Lookup("log-level"))
	bindFlagToViper(v, "content.dir", flags.Lookup("content-dir"))

	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(vocabCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(resetCmd)
	rootCmd.AddCommand(explainCmd)
	rootCmd.AddCommand(llmCmd)
	rootCmd.AddCommand(versionCmd)
}

// bindFlagToViper lets a set flag override env and file values for key.
func bindFlagToViper(v *viper.Viper, key string, flag *pflag.Flag) {
	cobra.CheckErr(v.BindPFlag(key, flag))
}
