// Package config loads the TOML service configuration.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/BurntSushi/toml"

	"weightduel/internal/analytics"
	"weightduel/internal/domain"
)

// Store backends.
const (
	StoreMemory   = "memory"
	StoreSQLite   = "sqlite"
	StorePostgres = "postgres"
	StoreSheets   = "sheets"
)

// Environment variables that override file settings.
const (
	EnvDatabaseURL       = "DATABASE_URL"
	EnvSheetsCredentials = "WEIGHTDUEL_SHEETS_CREDENTIALS"
)

type Config struct {
	Addr   string `toml:"addr"`
	WebDir string `toml:"web_dir"`

	// SecureCookies marks the session cookie Secure; enable behind TLS.
	SecureCookies bool `toml:"secure_cookies"`

	LogLevel      string `toml:"log_level"`
	LogsPath      string `toml:"logs_path"`
	LogToStdout   bool   `toml:"log_to_stdout"`
	LogFormatJSON bool   `toml:"log_format_json"`

	Users []string `toml:"users"`

	// Passcodes maps user to bcrypt passcode hash.
	Passcodes map[string]string `toml:"passcodes"`

	RatePolicy string `toml:"rate_policy"`

	Store                 string `toml:"store"`
	SQLitePath            string `toml:"sqlite_path"`
	DatabaseURL           string `toml:"database_url"`
	SheetsSpreadsheetID   string `toml:"sheets_spreadsheet_id"`
	SheetsName            string `toml:"sheets_name"`
	SheetsCredentialsFile string `toml:"sheets_credentials_file"`
}

type Toml struct {
	Development *Config
	Production  *Config
}

func (t *Toml) Get(env string) (*Config, error) {
	switch strings.ToLower(env) {
	case "dev", "development":
		return t.Development, nil
	case "prod", "production":
		return t.Production, nil
	default:
		return nil, fmt.Errorf("unknown env: %s", env)
	}
}

// Load decodes the file at path, picks the section for env, applies
// environment overrides and defaults, and validates the result.
func Load(env, path string) (*Config, error) {
	var t Toml
	if _, err := toml.DecodeFile(path, &t); err != nil {
		return nil, fmt.Errorf("decode config %s: %w", path, err)
	}
	return t.resolve(env)
}

// Parse is Load for an in-memory document.
func Parse(env, doc string) (*Config, error) {
	var t Toml
	if _, err := toml.Decode(doc, &t); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	return t.resolve(env)
}

func (t *Toml) resolve(env string) (*Config, error) {
	cfg, err := t.Get(env)
	if err != nil {
		return nil, err
	}
	if cfg == nil {
		return nil, fmt.Errorf("no [%s] section in config", strings.ToLower(env))
	}

	if v := os.Getenv(EnvDatabaseURL); v != "" {
		cfg.DatabaseURL = v
	}
	if v := os.Getenv(EnvSheetsCredentials); v != "" {
		cfg.SheetsCredentialsFile = v
	}
	cfg.setDefaults()

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) setDefaults() {
	if c.Addr == "" {
		c.Addr = ":8080"
	}
	if len(c.Users) == 0 {
		c.Users = []string{"Matthew", "Jasmine"}
	}
	if c.Store == "" {
		c.Store = StoreMemory
	}
	if c.Store == StoreSQLite && c.SQLitePath == "" {
		c.SQLitePath = "weightduel.db"
	}
}

func (c *Config) validate() error {
	var errs []error
	if len(c.Users) != 2 {
		errs = append(errs, fmt.Errorf("exactly two users are required, got %d", len(c.Users)))
	}
	seen := make(map[string]bool, len(c.Users))
	for _, u := range c.Users {
		if u == "" {
			errs = append(errs, errors.New("user names must not be empty"))
		}
		if seen[u] {
			errs = append(errs, fmt.Errorf("duplicate user %q", u))
		}
		seen[u] = true
	}
	for u := range c.Passcodes {
		if !seen[u] {
			errs = append(errs, fmt.Errorf("passcode for unknown user %q", u))
		}
	}
	if _, err := analytics.ParseRatePolicy(c.RatePolicy); err != nil {
		errs = append(errs, err)
	}

	switch c.Store {
	case StoreMemory, StoreSQLite:
	case StorePostgres:
		if c.DatabaseURL == "" {
			errs = append(errs, fmt.Errorf("%s (or database_url) is required for the postgres store", EnvDatabaseURL))
		}
	case StoreSheets:
		if c.SheetsSpreadsheetID == "" {
			errs = append(errs, errors.New("sheets_spreadsheet_id is required for the sheets store"))
		}
		if c.SheetsCredentialsFile == "" {
			errs = append(errs, fmt.Errorf("%s (or sheets_credentials_file) is required for the sheets store", EnvSheetsCredentials))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown store %q", c.Store))
	}
	return errors.Join(errs...)
}

// UserSet returns the configured users as a domain set.
func (c *Config) UserSet() domain.Users {
	return domain.Users(c.Users)
}

// Policy returns the parsed rate policy. Load has already validated it.
func (c *Config) Policy() analytics.RatePolicy {
	p, _ := analytics.ParseRatePolicy(c.RatePolicy)
	return p
}
