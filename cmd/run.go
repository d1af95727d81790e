package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/abhisek/quizrun/internal/app"
	"github.com/abhisek/quizrun/internal/session"
)

// runApp loads the bank, opens the store, and launches the TUI.
func runApp(cmd *cobra.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	b, err := loadBank(cfg)
	if err != nil {
		return err
	}

	opts := app.Options{
		Bank:       b,
		BankName:   filepath.Base(filepath.Clean(cfg.BankDir)),
		Controller: session.NewController(),
		Config:     cfg,
	}

	// History is optional; the test runs without it.
	st, err := openStore(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "warning: %v\n", err)
		fmt.Fprintln(os.Stderr, "Results will not be recorded.")
	} else {
		defer st.Close()
		opts.Results = st.ResultRepo()
	}

	return app.Run(opts)
}
