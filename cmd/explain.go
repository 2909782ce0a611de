package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abhisek/hanzidrill/internal/content"
	"github.com/abhisek/hanzidrill/internal/examplegen"
)

var explainCmd = &cobra.Command{
	Use:   "explain <hanzi>",
	Short: "Show a word with an example sentence",
	Long: `Looks the word up in the loaded vocabulary and prints an example sentence:
from the content pack when it has one, else from the local cache, else
generated by the configured LLM provider.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := setup(cmd)
		if err != nil {
			return err
		}
		defer env.Close()

		cs, err := env.loadContent()
		if err != nil {
			return err
		}
		item, level, ok := findWord(cs, args[0])
		if !ok {
			return fmt.Errorf("%q is not in the HSK vocabulary", args[0])
		}

		fmt.Printf("%s  %s  (%s)\n", item.Hanzi, item.Pinyin, content.LevelName(level))
		fmt.Printf("%s\n\n", item.Translation)

		st, err := env.openStore()
		if err != nil {
			return err
		}
		svc := env.exampleService(cmd.Context(), st)
		ex, err := svc.Example(cmd.Context(), item, level)
		switch {
		case errors.Is(err, examplegen.ErrUnavailable):
			fmt.Println("No example available. Set an LLM API key to generate one.")
			return nil
		case err != nil:
			return fmt.Errorf("example: %w", err)
		}

		fmt.Println(ex.Sentence)
		if ex.Pinyin != "" {
			fmt.Println(ex.Pinyin)
		}
		if ex.Translation != "" {
			fmt.Println(ex.Translation)
		}
		fmt.Printf("\n(source: %s)\n", ex.Source)
		return nil
	},
}

// findWord returns the first exact hanzi match, searching levels in order.
func findWord(cs content.Store, hanzi string) (content.VocabularyItem, int, bool) {
	for _, l := range cs.Levels() {
		for _, w := range cs.VocabularyByLevel(l) {
			if w.Hanzi == hanzi {
				return w, l, true
			}
		}
	}
	return content.VocabularyItem{}, 0, false
}
