package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/abhisek/quizrun/internal/bank"
	"github.com/abhisek/quizrun/internal/config"
	"github.com/abhisek/quizrun/internal/store"
)

var rootCmd = &cobra.Command{
	Use:   "quizrun",
	Short: "Timed quizzes from CSV question banks",
	Long:  "Quizrun draws a random sample of questions from a CSV question bank and runs it as a timed test in the terminal.",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runApp(cmd)
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "Path to config file (overrides QUIZRUN_CONFIG env var)")
	rootCmd.PersistentFlags().String("bank", "", "Question bank directory or CSV file (overrides QUIZRUN_BANK_DIR env var)")
	rootCmd.PersistentFlags().String("db", "", "SQLite file or Postgres DSN (overrides QUIZRUN_DB env var)")
	rootCmd.PersistentFlags().String("db-driver", "", "Results store driver: sqlite or postgres")

	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(resetCmd)
	rootCmd.AddCommand(versionCmd)
}

// loadConfig builds the configuration with CLI flags applied last.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(path)
	if err != nil {
		return config.Config{}, fmt.Errorf("load config: %w", err)
	}

	if v, _ := cmd.Flags().GetString("bank"); v != "" {
		cfg.BankDir = v
	}
	if v, _ := cmd.Flags().GetString("db"); v != "" {
		cfg.DBPath = v
	}
	if v, _ := cmd.Flags().GetString("db-driver"); v != "" {
		cfg.DBDriver = v
	}
	if err := cfg.Validate(); err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}

// loadBank reads the configured bank. A missing bank path yields an empty
// bank with a warning so the setup screen can report it.
func loadBank(cfg config.Config) (*bank.Bank, error) {
	b, err := bank.Load(cfg.BankDir)
	if errors.Is(err, os.ErrNotExist) {
		return &bank.Bank{Warnings: []string{fmt.Sprintf("%s does not exist", cfg.BankDir)}}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load bank: %w", err)
	}
	return b, nil
}

// openStore opens the results store named by cfg. For SQLite an empty
// DBPath resolves to the default XDG location.
func openStore(cfg config.Config) (*store.Store, error) {
	dsn := cfg.DBPath
	if cfg.DBDriver != store.DriverPostgres {
		if dsn == "" {
			p, err := store.DefaultDBPath()
			if err != nil {
				return nil, fmt.Errorf("resolve DB path: %w", err)
			}
			dsn = p
		} else if err := store.EnsureDir(dsn); err != nil {
			return nil, fmt.Errorf("resolve DB path: %w", err)
		}
	}

	st, err := store.Open(cfg.DBDriver, dsn)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}
	return st, nil
}
