package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/hanzidrill/internal/content"
	"github.com/abhisek/hanzidrill/internal/store"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List recent play-throughs",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")
		mode, _ := cmd.Flags().GetString("mode")
		level, _ := cmd.Flags().GetInt("level")

		env, err := setup(cmd)
		if err != nil {
			return err
		}
		defer env.Close()

		st, err := env.openStore()
		if err != nil {
			return err
		}
		results, err := st.ResultRepo().QueryResults(cmd.Context(), store.QueryOpts{
			Limit: limit,
			Mode:  mode,
			Level: level,
		})
		if err != nil {
			return fmt.Errorf("query results: %w", err)
		}
		if len(results) == 0 {
			fmt.Println("No results found.")
			return nil
		}

		fmt.Printf("%-19s  %-26s  %-6s  %7s  %4s  %5s  %s\n",
			"Timestamp", "Mode", "Level", "Score", "Pct", "Moves", "Time")
		fmt.Println(strings.Repeat("─", 90))
		for _, r := range results {
			moves := "-"
			if r.Moves > 0 {
				moves = fmt.Sprintf("%d", r.Moves)
			}
			fmt.Printf("%-19s  %-26s  %-6s  %3d/%-3d  %3d%%  %5s  %d:%02d\n",
				r.Timestamp.Local().Format("2006-01-02 15:04:05"),
				r.Mode, content.LevelName(r.Level),
				r.Score, r.Total, r.Percent(), moves,
				r.DurationSecs/60, r.DurationSecs%60)
		}
		return nil
	},
}

func init() {
	historyCmd.Flags().IntP("limit", "n", 20, "Number of results to show")
	historyCmd.Flags().StringP("mode", "m", "", "Filter by mode (e.g. quiz, matching/pinyin-hanzi, reading)")
	historyCmd.Flags().IntP("level", "l", 0, "Filter by HSK level")
}
