package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/hanzidrill/internal/content"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show plays, best and average scores per mode and level",
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := setup(cmd)
		if err != nil {
			return err
		}
		defer env.Close()

		st, err := env.openStore()
		if err != nil {
			return err
		}
		stats, err := st.ResultRepo().ModeStats(cmd.Context())
		if err != nil {
			return fmt.Errorf("query stats: %w", err)
		}
		if len(stats) == 0 {
			fmt.Println("Nothing played yet.")
			return nil
		}

		fmt.Printf("%-26s  %-6s  %5s  %5s  %5s  %s\n", "Mode", "Level", "Plays", "Best", "Avg", "Last played")
		fmt.Println(strings.Repeat("─", 72))
		plays := 0
		for _, s := range stats {
			fmt.Printf("%-26s  %-6s  %5d  %4d%%  %4d%%  %s\n",
				s.Mode, content.LevelName(s.Level), s.Plays, s.BestPercent, s.AvgPercent,
				s.LastPlayed.Local().Format("2006-01-02 15:04"))
			plays += s.Plays
		}
		fmt.Println(strings.Repeat("─", 72))
		fmt.Printf("%-26s  %-6s  %5d\n", "TOTAL", "", plays)
		return nil
	},
}
