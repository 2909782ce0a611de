package cmd

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/hanzidrill/internal/content"
)

var vocabCmd = &cobra.Command{
	Use:   "vocab",
	Short: "Search, count, export and import vocabulary",
}

// levelsOf returns the single requested level, or every loaded level
// when level is 0.
func levelsOf(cs content.Store, level int) ([]int, error) {
	if level == 0 {
		return cs.Levels(), nil
	}
	if !content.ValidLevel(level) {
		return nil, fmt.Errorf("level %d out of range %d-%d", level, content.MinLevel, content.MaxLevel)
	}
	return []int{level}, nil
}

var vocabSearchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Find words by hanzi, pinyin or translation",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		level, _ := cmd.Flags().GetInt("level")

		env, err := setup(cmd)
		if err != nil {
			return err
		}
		defer env.Close()

		cs, err := env.loadContent()
		if err != nil {
			return err
		}
		levels, err := levelsOf(cs, level)
		if err != nil {
			return err
		}

		query := strings.Join(args, " ")
		found := 0
		for _, l := range levels {
			for _, w := range content.Search(query, cs.VocabularyByLevel(l)) {
				fmt.Printf("%-6s  %-8s  %-18s  %s\n", content.LevelName(l), w.Hanzi, w.Pinyin, w.Translation)
				found++
			}
		}
		if found == 0 {
			fmt.Printf("No words match %q.\n", query)
		}
		return nil
	},
}

var vocabStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Count words and distinct characters per level",
	RunE: func(cmd *cobra.Command, args []string) error {
		level, _ := cmd.Flags().GetInt("level")

		env, err := setup(cmd)
		if err != nil {
			return err
		}
		defer env.Close()

		cs, err := env.loadContent()
		if err != nil {
			return err
		}
		levels, err := levelsOf(cs, level)
		if err != nil {
			return err
		}

		fmt.Printf("%-6s  %6s  %6s  %9s\n", "Level", "Words", "Chars", "Exercises")
		fmt.Println(strings.Repeat("─", 34))
		var all []content.VocabularyItem
		for _, l := range levels {
			words := cs.VocabularyByLevel(l)
			all = append(all, words...)
			st := content.Stats(words)
			fmt.Printf("%-6s  %6d  %6d  %9d\n",
				content.LevelName(l), st.TotalWords, st.UniqueCharacters, len(cs.ExercisesByLevel(l)))
		}
		if len(levels) > 1 {
			st := content.Stats(all)
			fmt.Println(strings.Repeat("─", 34))
			fmt.Printf("%-6s  %6d  %6d\n", "TOTAL", st.TotalWords, st.UniqueCharacters)
		}
		return nil
	},
}

var vocabExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write a level's vocabulary as CSV (hanzi,pinyin,translation)",
	RunE: func(cmd *cobra.Command, args []string) error {
		level, _ := cmd.Flags().GetInt("level")
		out, _ := cmd.Flags().GetString("output")
		if !content.ValidLevel(level) {
			return fmt.Errorf("--level is required (%d-%d)", content.MinLevel, content.MaxLevel)
		}

		env, err := setup(cmd)
		if err != nil {
			return err
		}
		defer env.Close()

		cs, err := env.loadContent()
		if err != nil {
			return err
		}

		var w io.Writer = cmd.OutOrStdout()
		if out != "" {
			f, err := os.Create(out)
			if err != nil {
				return fmt.Errorf("create %s: %w", out, err)
			}
			defer f.Close()
			w = f
		}
		words := cs.VocabularyByLevel(level)
		if err := content.ExportCSV(w, words); err != nil {
			return fmt.Errorf("export: %w", err)
		}
		if out != "" {
			fmt.Printf("Exported %d words to %s\n", len(words), out)
		}
		return nil
	},
}

var vocabImportCmd = &cobra.Command{
	Use:   "import <file.csv>",
	Short: "Turn a CSV word list into a content pack",
	Long: `Reads hanzi,pinyin,translation rows and writes a vocabulary-only content
pack. By default the pack goes to the configured content directory, where it is
merged with the built-in packs on the next start.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		level, _ := cmd.Flags().GetInt("level")
		out, _ := cmd.Flags().GetString("output")
		if !content.ValidLevel(level) {
			return fmt.Errorf("--level is required (%d-%d)", content.MinLevel, content.MaxLevel)
		}

		env, err := setup(cmd)
		if err != nil {
			return err
		}
		defer env.Close()

		if out == "" {
			if env.cfg.Content.Dir == "" {
				return fmt.Errorf("no content directory configured; pass --output or --content-dir")
			}
			base := strings.TrimSuffix(filepath.Base(args[0]), filepath.Ext(args[0]))
			out = filepath.Join(env.cfg.Content.Dir, fmt.Sprintf("hsk%d-%s.json", level, base))
		}

		in, err := os.Open(args[0])
		if err != nil {
			return fmt.Errorf("open %s: %w", args[0], err)
		}
		defer in.Close()

		items, err := content.ImportCSV(in)
		if err != nil {
			return err
		}
		if len(items) == 0 {
			return fmt.Errorf("%s has no usable rows", args[0])
		}

		if err := os.MkdirAll(filepath.Dir(out), 0o755); err != nil {
			return fmt.Errorf("create content dir: %w", err)
		}
		f, err := os.Create(out)
		if err != nil {
			return fmt.Errorf("create %s: %w", out, err)
		}
		defer f.Close()
		if err := content.WriteVocabularyPack(f, level, items); err != nil {
			return fmt.Errorf("write pack: %w", err)
		}

		env.log.WithField("file", out).WithField("words", len(items)).Info("imported vocabulary")
		fmt.Printf("Imported %d words into %s\n", len(items), out)
		return nil
	},
}

func init() {
	vocabSearchCmd.Flags().IntP("level", "l", 0, "Restrict to one HSK level")
	vocabStatsCmd.Flags().IntP("level", "l", 0, "Restrict to one HSK level")
	vocabExportCmd.Flags().IntP("level", "l", 0, "HSK level to export (required)")
	vocabExportCmd.Flags().StringP("output", "o", "", "Output file (default stdout)")
	vocabImportCmd.Flags().IntP("level", "l", 0, "HSK level of the words (required)")
	vocabImportCmd.Flags().StringP("output", "o", "", "Pack file to write (default <content-dir>/hsk<level>-<name>.json)")

	vocabCmd.AddCommand(vocabSearchCmd)
	vocabCmd.AddCommand(vocabStatsCmd)
	vocabCmd.AddCommand(vocabExportCmd)
	vocabCmd.AddCommand(vocabImportCmd)
}
