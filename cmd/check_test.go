package cmd

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/quizrun/internal/bank"
)

func TestCheckBank(t *testing.T) {
	b := &bank.Bank{
		Files:    []string{"a.csv"},
		Warnings: []string{"could not read b.csv: boom"},
		Records: []bank.Record{
			{Question: "2+2?", CorrectAnswers: "4", Source: "a.csv", Row: 1},
			{Question: "Pick", Options: "A: x | B: y", CorrectAnswers: "['A']", Source: "a.csv", Row: 2},
			{Question: "Pick all", Options: "A: x | B: y", CorrectAnswers: "['A', 'B']", Source: "a.csv", Row: 3},
			{Question: "Broken", Options: "nothing here", CorrectAnswers: "['A']", Source: "a.csv", Row: 4},
			{Question: "Odd key", CorrectAnswers: "['A'", Source: "a.csv", Row: 5},
		},
	}

	var out bytes.Buffer
	require.NoError(t, checkBank(&out, b))

	text := out.String()
	assert.Contains(t, text, "warning: could not read b.csv: boom")
	assert.Contains(t, text, "warning: a.csv row 5:")
	assert.Contains(t, text, "error: a.csv row 4:")
	assert.Contains(t, text, "5 questions in 1 files: 2 free text")
	assert.Contains(t, text, "1 warnings, 1 unanswerable")
}

func TestCheckBank_Empty(t *testing.T) {
	var out bytes.Buffer
	err := checkBank(&out, &bank.Bank{})
	assert.True(t, errors.Is(err, bank.ErrEmptyBank))
	assert.Contains(t, out.String(), "0 questions")
}

// isolateEnv keeps the user's config and environment out of a test.
func isolateEnv(t *testing.T) {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	for _, k := range []string{
		"QUIZRUN_CONFIG", "QUIZRUN_BANK_DIR", "QUIZRUN_DB",
		"QUIZRUN_DB_DRIVER", "QUIZRUN_DEBUG", "QUIZRUN_LOG_FILE",
	} {
		t.Setenv(k, "")
	}
}

func TestLoadConfig_FlagsWin(t *testing.T) {
	isolateEnv(t)
	t.Setenv("QUIZRUN_BANK_DIR", "from-env")

	require.NoError(t, rootCmd.ParseFlags([]string{"--bank", "from-flag"}))
	t.Cleanup(func() { _ = rootCmd.Flags().Set("bank", "") })

	cfg, err := loadConfig(rootCmd)
	require.NoError(t, err)
	assert.Equal(t, "from-flag", cfg.BankDir)
}

func TestLoadBank_Missing(t *testing.T) {
	isolateEnv(t)
	cfg, err := loadConfig(rootCmd)
	require.NoError(t, err)
	cfg.BankDir = t.TempDir() + "/nope"

	b, err := loadBank(cfg)
	require.NoError(t, err)
	assert.True(t, b.Empty())
	assert.Len(t, b.Warnings, 1)
}
