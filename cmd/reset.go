package cmd

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Delete all stored results",
	RunE: func(cmd *cobra.Command, args []string) error {
		yes, _ := cmd.Flags().GetBool("yes")

		env, err := setup(cmd)
		if err != nil {
			return err
		}
		defer env.Close()

		if !yes {
			fmt.Fprintf(cmd.OutOrStdout(), "Delete all results in %s? [y/N] ", env.cfg.DB)
			line, _ := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
			if a := strings.ToLower(strings.TrimSpace(line)); a != "y" && a != "yes" {
				fmt.Fprintln(cmd.OutOrStdout(), "Aborted.")
				return nil
			}
		}

		st, err := env.openStore()
		if err != nil {
			return err
		}
		if err := st.ResultRepo().Reset(cmd.Context()); err != nil {
			return fmt.Errorf("reset results: %w", err)
		}
		env.log.Info("results reset")
		fmt.Fprintln(cmd.OutOrStdout(), "All results deleted.")
		return nil
	},
}

func init() {
	resetCmd.Flags().BoolP("yes", "y", false, "Skip the confirmation prompt")
}
