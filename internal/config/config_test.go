package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// isolate points every config lookup at a temp dir and clears overrides.
func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	for _, k := range []string{
		"QUIZRUN_CONFIG", "QUIZRUN_BANK_DIR", "QUIZRUN_DB",
		"QUIZRUN_DB_DRIVER", "QUIZRUN_DEBUG", "QUIZRUN_LOG_FILE",
	} {
		t.Setenv(k, "")
	}
	return dir
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestLoad_Defaults(t *testing.T) {
	isolate(t)

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Defaults(), cfg)
	assert.Equal(t, "datas", cfg.BankDir)
	assert.Equal(t, 5, cfg.DefaultCount)
	assert.Equal(t, 10, cfg.DefaultMinutes)
	assert.Equal(t, 180, cfg.MaxMinutes)
}

func TestLoad_XDGFile(t *testing.T) {
	dir := isolate(t)
	writeFile(t, filepath.Join(dir, "quizrun", "config.yaml"), "bank_dir: banks\ndefault_count: 3\n")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "banks", cfg.BankDir)
	assert.Equal(t, 3, cfg.DefaultCount)
	assert.Equal(t, 10, cfg.DefaultMinutes, "unset keys keep defaults")
}

func TestLoad_Precedence(t *testing.T) {
	dir := isolate(t)
	path := filepath.Join(dir, "custom.yaml")
	writeFile(t, path, "bank_dir: from-file\ndb_path: file.db\ndebug: false\n")

	t.Setenv("QUIZRUN_BANK_DIR", "from-env")
	t.Setenv("QUIZRUN_DEBUG", "true")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "from-env", cfg.BankDir, "env beats file")
	assert.Equal(t, "file.db", cfg.DBPath, "file beats defaults")
	assert.True(t, cfg.Debug)
}

func TestLoad_ConfigEnvPath(t *testing.T) {
	dir := isolate(t)
	path := filepath.Join(dir, "env.yaml")
	writeFile(t, path, "max_minutes: 60\n")
	t.Setenv("QUIZRUN_CONFIG", path)

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, 60, cfg.MaxMinutes)
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	dir := isolate(t)
	_, err := Load(filepath.Join(dir, "nope.yaml"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

func TestLoad_InvalidFiles(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"unknown key", "bank_dirr: x\n"},
		{"wrong type", "default_count: five\n"},
		{"below minimum", "default_minutes: 0\n"},
		{"bad driver", "db_driver: mysql\n"},
		{"not a mapping", "- a\n- b\n"},
		{"minutes above max", "default_minutes: 30\nmax_minutes: 20\n"},
		{"postgres without dsn", "db_driver: postgres\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := isolate(t)
			path := filepath.Join(dir, "c.yaml")
			writeFile(t, path, tt.content)

			_, err := Load(path)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrInvalid), "err = %v", err)
		})
	}
}

func TestLoad_MalformedYAML(t *testing.T) {
	dir := isolate(t)
	path := filepath.Join(dir, "c.yaml")
	writeFile(t, path, "bank_dir: [unclosed\n")

	_, err := Load(path)
	assert.Error(t, err)
}

func TestDecode_EmptyDocument(t *testing.T) {
	cfg := Defaults()
	require.NoError(t, Decode([]byte(""), &cfg))
	assert.Equal(t, Defaults(), cfg)
}

func TestApplyEnv_BadBool(t *testing.T) {
	isolate(t)
	t.Setenv("QUIZRUN_DEBUG", "maybe")

	cfg := Defaults()
	err := ApplyEnv(&cfg)
	assert.True(t, errors.Is(err, ErrInvalid))
}

func TestApplyEnv_DB(t *testing.T) {
	isolate(t)
	t.Setenv("QUIZRUN_DB_DRIVER", "postgres")
	t.Setenv("QUIZRUN_DB", "postgres://localhost/quizrun")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "postgres", cfg.DBDriver)
	assert.Equal(t, "postgres://localhost/quizrun", cfg.DBPath)
}
