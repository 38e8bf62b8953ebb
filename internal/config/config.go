// Package config loads rtmsync settings from .env files and the environment.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"rtmsync/internal/application"
	"rtmsync/internal/application/extract"
)

const (
	DefaultEnvName              = "default"
	DefaultDataDir              = "."
	DefaultQaseBaseURL          = "https://api.qase.io"
	DefaultMaxRequestsPerMinute = 600

	BackendFile   = "file"
	BackendSQLite = "sqlite"
)

type Config struct {
	EnvName      string
	DataDir      string
	StoreBackend string
	LogMode      string

	Confluence ConfluenceConfig
	Qase       QaseConfig
	Rules      extract.Rules

	EnableStatistics   bool
	ShowAutomationGaps bool
}

type ConfluenceConfig struct {
	Domain   string
	BaseURL  string
	RootID   string
	RTMPage  string // Target page for `rtmsync publish` when --page is omitted
	Username string
	Token    string
}

type QaseConfig struct {
	Enabled              bool
	Token                string
	Code                 string
	BaseURL              string
	MaxRequestsPerMinute int
}

// Load reads .env from the working directory, then envFile when set, then
// the process environment. Variables already set in the environment win.
func Load(envFile string) (*Config, error) {
	_ = godotenv.Load()
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil {
			return nil, &application.ConfigError{Field: "env-file", Message: "cannot read " + envFile, Err: err}
		}
	}

	cfg := &Config{
		EnvName:      firstNonEmpty(env("ENV_NAME"), DefaultEnvName),
		DataDir:      firstNonEmpty(env("DATA_DIR"), DefaultDataDir),
		StoreBackend: strings.ToLower(firstNonEmpty(env("STORE_BACKEND"), BackendFile)),
		LogMode:      firstNonEmpty(env("LOG_MODE"), "dev"),
		Confluence: ConfluenceConfig{
			Domain:   env("CONFLUENCE_DOMAIN"),
			RootID:   env("CONFLUENCE_CATALOG_PAGE_ID"),
			RTMPage:  env("CONFLUENCE_RTM_PAGE_ID"),
			Username: env("CONFLUENCE_USERNAME"),
			Token:    env("CONFLUENCE_TOKEN"),
		},
		Qase: QaseConfig{
			Enabled: toBool(env("ENABLE_QASE")),
			Token:   env("QASE_TOKEN"),
			Code:    env("QASE_CODE"),
			BaseURL: firstNonEmpty(env("QASE_BASE_URL"), DefaultQaseBaseURL),
		},
		Rules: extract.Rules{
			Trigger:                extract.ParsePattern(env("REG_EXP_TRIGGER")),
			Criterion:              extract.ParsePattern(env("REG_EXP_AC")),
			TestCases:              extract.ParsePattern(env("REG_EXP_CASES")),
			Automatable:            extract.ParsePattern(env("REG_EXP_AUTOMATION_STATUS")),
			AutomatableWhenMatched: toBool(env("SELECT_AUTOMATION_STATUS")),
		},
		EnableStatistics:   toBoolDefault(env("ENABLE_STATISTICS"), true),
		ShowAutomationGaps: toBool(env("SHOW_NEED_AUTOMATE_AC")),
	}

	cfg.Confluence.BaseURL = env("CONFLUENCE_BASE_URL")
	if cfg.Confluence.BaseURL == "" && cfg.Confluence.Domain != "" {
		cfg.Confluence.BaseURL = "https://" + cfg.Confluence.Domain + "/wiki/rest/api/content"
	}

	rpm := env("QASE_MAX_REQUESTS_PER_MINUTE")
	cfg.Qase.MaxRequestsPerMinute = DefaultMaxRequestsPerMinute
	if rpm != "" {
		n, err := strconv.Atoi(rpm)
		if err != nil || n <= 0 {
			return nil, &application.ConfigError{
				Field:   "QASE_MAX_REQUESTS_PER_MINUTE",
				Message: fmt.Sprintf("expected a positive integer, got %q", rpm),
			}
		}
		cfg.Qase.MaxRequestsPerMinute = n
	}

	if path := env("RULES_FILE"); path != "" {
		rules, err := LoadRules(path, cfg.Rules)
		if err != nil {
			return nil, err
		}
		cfg.Rules = rules
	}

	return cfg, nil
}

// SiteURL is the wiki root used to build page links. It is derived from
// BaseURL when that ends in the REST content path, else from Domain.
func (c ConfluenceConfig) SiteURL() string {
	if base, ok := strings.CutSuffix(strings.TrimRight(c.BaseURL, "/"), "/rest/api/content"); ok {
		return base
	}
	if c.Domain != "" {
		return "https://" + c.Domain + "/wiki"
	}
	return ""
}

// LoadRules overlays the YAML rules file at path on base. Keys absent from
// the file keep their base value.
func LoadRules(path string, base extract.Rules) (extract.Rules, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return base, &application.ConfigError{Field: "RULES_FILE", Message: "cannot read " + path, Err: err}
	}
	rules := base
	if err := yaml.Unmarshal(data, &rules); err != nil {
		return base, &application.ConfigError{Field: "RULES_FILE", Message: "invalid YAML", Err: err}
	}
	return rules, nil
}

// Validate checks settings every command needs
func (c *Config) Validate() error {
	switch c.StoreBackend {
	case BackendFile, BackendSQLite:
	default:
		return &application.ConfigError{
			Field:   "STORE_BACKEND",
			Message: fmt.Sprintf("expected %q or %q, got %q", BackendFile, BackendSQLite, c.StoreBackend),
		}
	}
	return nil
}

// ValidateConfluence checks the settings needed to call the page API
func (c *Config) ValidateConfluence() error {
	if err := c.Validate(); err != nil {
		return err
	}
	return requireAll(
		"CONFLUENCE_BASE_URL", c.Confluence.BaseURL,
		"CONFLUENCE_USERNAME", c.Confluence.Username,
		"CONFLUENCE_TOKEN", c.Confluence.Token,
	)
}

// ValidateSync checks the settings needed to reach the page tree and extract records
func (c *Config) ValidateSync() error {
	if err := c.ValidateConfluence(); err != nil {
		return err
	}
	err := requireAll(
		"CONFLUENCE_CATALOG_PAGE_ID", c.Confluence.RootID,
		"REG_EXP_AC", c.Rules.Criterion.Expr,
		"REG_EXP_CASES", c.Rules.TestCases.Expr,
	)
	if err != nil {
		return err
	}
	if err := application.ValidatePageID("rootID", c.Confluence.RootID); err != nil {
		return &application.ConfigError{Field: "CONFLUENCE_CATALOG_PAGE_ID", Message: "invalid page ID", Err: err}
	}
	if c.Qase.Enabled && (c.Qase.Token == "" || c.Qase.Code == "") {
		return &application.ConfigError{Field: "QASE_TOKEN", Message: "QASE_TOKEN and QASE_CODE are required when ENABLE_QASE is set"}
	}
	return nil
}

// SnapshotPath is the JSON snapshot file for this environment
func (c *Config) SnapshotPath() string {
	return filepath.Join(c.DataDir, "cache."+c.EnvName+".json")
}

// StatisticsPath is the JSON statistics file for this environment
func (c *Config) StatisticsPath() string {
	return filepath.Join(c.DataDir, "statistics."+c.EnvName+".json")
}

// DatabasePath is the SQLite database for this environment
func (c *Config) DatabasePath() string {
	return filepath.Join(c.DataDir, "rtmsync."+c.EnvName+".db")
}

// requireAll takes field/value pairs and reports the first empty value
func requireAll(pairs ...string) error {
	for i := 0; i+1 < len(pairs); i += 2 {
		if pairs[i+1] == "" {
			return &application.ConfigError{Field: pairs[i], Message: "is required"}
		}
	}
	return nil
}

func env(key string) string {
	return strings.TrimSpace(os.Getenv(key))
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

func toBool(s string) bool {
	return toBoolDefault(s, false)
}

func toBoolDefault(s string, def bool) bool {
	switch strings.ToLower(s) {
	case "1", "true", "yes", "on":
		return true
	case "0", "false", "no", "off":
		return false
	default:
		return def
	}
}
