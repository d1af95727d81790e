package config

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
	"gopkg.in/yaml.v3"
)

//go:embed schema.json
var schemaJSON []byte

const schemaURL = "schema://quizrun-config.json"

// ErrInvalid is wrapped by every validation failure.
var ErrInvalid = errors.New("invalid configuration")

// Config holds the application settings.
type Config struct {
	// BankDir is the question bank directory or a single CSV file.
	BankDir string `yaml:"bank_dir"`

	// DefaultCount pre-fills the question count input.
	DefaultCount int `yaml:"default_count"`

	// DefaultMinutes pre-fills the time limit input.
	DefaultMinutes int `yaml:"default_minutes"`

	// MaxMinutes bounds the time limit input.
	MaxMinutes int `yaml:"max_minutes"`

	// DBDriver selects the results store backend.
	// Values: "sqlite", "postgres"
	DBDriver string `yaml:"db_driver"`

	// DBPath is the SQLite file or Postgres DSN. Empty means the default
	// SQLite location.
	DBPath string `yaml:"db_path"`

	Debug   bool   `yaml:"debug"`
	LogFile string `yaml:"log_file"`
}

// Defaults returns a Config with the built-in defaults.
func Defaults() Config {
	return Config{
		BankDir:        "datas",
		DefaultCount:   5,
		DefaultMinutes: 10,
		MaxMinutes:     180,
		DBDriver:       "sqlite",
	}
}

// Load builds a Config from defaults, the YAML file at path and the
// environment, in increasing priority. When path is empty, QUIZRUN_CONFIG
// and then the XDG location are tried; a missing XDG file is not an error.
func Load(path string) (Config, error) {
	cfg := Defaults()

	explicit := path != ""
	if !explicit {
		if p := os.Getenv("QUIZRUN_CONFIG"); p != "" {
			path, explicit = p, true
		} else if p, err := DefaultPath(); err == nil {
			path = p
		}
	}

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := Decode(data, &cfg); err != nil {
				return Config{}, fmt.Errorf("%s: %w", path, err)
			}
		case errors.Is(err, os.ErrNotExist) && !explicit:
			// No config file; defaults apply.
		default:
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	if err := ApplyEnv(&cfg); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// DefaultPath returns $XDG_CONFIG_HOME/quizrun/config.yaml, falling back to
// ~/.config/quizrun/config.yaml.
func DefaultPath() (string, error) {
	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		configHome = filepath.Join(home, ".config")
	}
	return filepath.Join(configHome, "quizrun", "config.yaml"), nil
}

// Decode validates YAML data against the config schema and merges it into
// cfg. Keys absent from data keep their current values.
func Decode(data []byte, cfg *Config) error {
	var doc any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("parse yaml: %w", err)
	}
	if doc == nil {
		return nil
	}

	if err := validateDocument(doc); err != nil {
		return err
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("decode yaml: %w", err)
	}
	return nil
}

// ApplyEnv overrides cfg with QUIZRUN_* environment variables.
func ApplyEnv(cfg *Config) error {
	if v := os.Getenv("QUIZRUN_BANK_DIR"); v != "" {
		cfg.BankDir = v
	}
	if v := os.Getenv("QUIZRUN_DB"); v != "" {
		cfg.DBPath = v
	}
	if v := os.Getenv("QUIZRUN_DB_DRIVER"); v != "" {
		cfg.DBDriver = v
	}
	if v := os.Getenv("QUIZRUN_LOG_FILE"); v != "" {
		cfg.LogFile = v
	}
	if v := os.Getenv("QUIZRUN_DEBUG"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("%w: QUIZRUN_DEBUG=%q is not a boolean", ErrInvalid, v)
		}
		cfg.Debug = b
	}
	return nil
}

// Validate checks cross-field constraints the schema cannot express.
func (c Config) Validate() error {
	switch {
	case c.BankDir == "":
		return fmt.Errorf("%w: bank_dir is empty", ErrInvalid)
	case c.DefaultCount < 1:
		return fmt.Errorf("%w: default_count must be at least 1", ErrInvalid)
	case c.MaxMinutes < 1:
		return fmt.Errorf("%w: max_minutes must be at least 1", ErrInvalid)
	case c.DefaultMinutes < 1 || c.DefaultMinutes > c.MaxMinutes:
		return fmt.Errorf("%w: default_minutes must be between 1 and %d", ErrInvalid, c.MaxMinutes)
	}
	switch c.DBDriver {
	case "sqlite", "postgres":
	default:
		return fmt.Errorf("%w: unknown db_driver %q", ErrInvalid, c.DBDriver)
	}
	if c.DBDriver == "postgres" && c.DBPath == "" {
		return fmt.Errorf("%w: db_path must hold a DSN for the postgres driver", ErrInvalid)
	}
	return nil
}

var (
	compileOnce sync.Once
	compiled    *jsonschema.Schema
	compileErr  error
)

func configSchema() (*jsonschema.Schema, error) {
	compileOnce.Do(func() {
		def, err := jsonschema.UnmarshalJSON(bytes.NewReader(schemaJSON))
		if err != nil {
			compileErr = fmt.Errorf("parse schema: %w", err)
			return
		}
		c := jsonschema.NewCompiler()
		if err := c.AddResource(schemaURL, def); err != nil {
			compileErr = fmt.Errorf("add resource: %w", err)
			return
		}
		compiled, compileErr = c.Compile(schemaURL)
	})
	return compiled, compileErr
}

// validateDocument checks a decoded YAML document against the schema. The
// document goes through JSON so its values have the types the validator
// expects.
func validateDocument(doc any) error {
	schema, err := configSchema()
	if err != nil {
		return fmt.Errorf("compile config schema: %w", err)
	}

	raw, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	inst, err := jsonschema.UnmarshalJSON(bytes.NewReader(raw))
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	if err := schema.Validate(inst); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	return nil
}
