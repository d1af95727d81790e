package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abhisek/quizrun/internal/screens/history"
	"github.com/abhisek/quizrun/internal/store"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List recent test results",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")

		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		st, err := openStore(cfg)
		if err != nil {
			return err
		}
		defer st.Close()

		attempts, err := st.ResultRepo().ListAttempts(context.Background(), store.QueryOpts{Limit: limit})
		if err != nil {
			return fmt.Errorf("list attempts: %w", err)
		}

		out := cmd.OutOrStdout()
		if len(attempts) == 0 {
			fmt.Fprintln(out, "No tests taken yet.")
			return nil
		}
		for _, a := range attempts {
			fmt.Fprintln(out, history.FormatAttempt(a))
		}
		return nil
	},
}

func init() {
	historyCmd.Flags().Int("limit", 20, "Number of attempts to show (0 for all)")
}
