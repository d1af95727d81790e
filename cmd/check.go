package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/abhisek/quizrun/internal/bank"
	"github.com/abhisek/quizrun/internal/question"
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Validate the question bank",
	Long: `Load and parse every question in the bank and report problems.

Exits with an error when the bank holds no questions.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		b, err := bank.Load(cfg.BankDir)
		if err != nil {
			return fmt.Errorf("load bank: %w", err)
		}
		return checkBank(cmd.OutOrStdout(), b)
	},
}

// checkReport tallies a bank check.
type checkReport struct {
	kinds    map[question.Kind]int
	warnings int
	errors   int
}

// checkBank prints load warnings and per-question problems to w. It returns
// bank.ErrEmptyBank when there is nothing to ask.
func checkBank(w io.Writer, b *bank.Bank) error {
	for _, msg := range b.Warnings {
		fmt.Fprintf(w, "warning: %s\n", msg)
	}

	r := inspect(w, b.Records)

	fmt.Fprintf(w, "%d questions in %d files: %d free text, %d single choice, %d multi choice\n",
		b.Size(), len(b.Files),
		r.kinds[question.KindFreeText], r.kinds[question.KindSingleChoice], r.kinds[question.KindMultiChoice])
	fmt.Fprintf(w, "%d warnings, %d unanswerable\n", r.warnings, r.errors)

	if b.Empty() {
		return bank.ErrEmptyBank
	}
	return nil
}

func inspect(w io.Writer, records []bank.Record) checkReport {
	r := checkReport{kinds: make(map[question.Kind]int)}
	for _, rec := range records {
		q, err := question.Parse(rec)
		r.kinds[q.Kind]++

		where := fmt.Sprintf("%s row %d", rec.Source, rec.Row)
		for _, msg := range q.Warnings {
			r.warnings++
			fmt.Fprintf(w, "warning: %s: %s\n", where, msg)
		}
		if err != nil {
			r.errors++
			fmt.Fprintf(w, "error: %v\n", err)
		}
	}
	return r
}
