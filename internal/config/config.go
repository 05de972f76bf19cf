package config

import (
	"fmt"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Supported store backends.
const (
	BackendAirtable = "airtable"
	BackendNotion   = "notion"
	BackendSQLite   = "sqlite"
	BackendPostgres = "postgres"
)

// Config holds the full application configuration.
type Config struct {
	Store    StoreConfig    `yaml:"store" mapstructure:"store"`
	Airtable AirtableConfig `yaml:"airtable" mapstructure:"airtable"`
	Notion   NotionConfig   `yaml:"notion" mapstructure:"notion"`
	SQL      SQLConfig      `yaml:"sql" mapstructure:"sql"`
	Intake   IntakeConfig   `yaml:"intake" mapstructure:"intake"`
	Log      LogConfig      `yaml:"log" mapstructure:"log"`
}

// StoreConfig selects the record store backend.
type StoreConfig struct {
	Backend string `yaml:"backend" mapstructure:"backend"`
}

// AirtableConfig holds Airtable API credentials and client tuning.
type AirtableConfig struct {
	APIKey      string  `yaml:"api_key" mapstructure:"api_key"`
	BaseID      string  `yaml:"base_id" mapstructure:"base_id"`
	BaseURL     string  `yaml:"base_url" mapstructure:"base_url"`
	RateLimit   float64 `yaml:"rate_limit" mapstructure:"rate_limit"`
	TimeoutSecs int     `yaml:"timeout_secs" mapstructure:"timeout_secs"`
}

// NotionConfig holds the Notion integration token and the database id for
// each collection, keyed by title-cased collection name.
type NotionConfig struct {
	Token     string            `yaml:"token" mapstructure:"token"`
	Databases map[string]string `yaml:"databases" mapstructure:"databases"`
	RateLimit float64           `yaml:"rate_limit" mapstructure:"rate_limit"`
}

// SQLConfig configures the self-hosted sqlite/postgres backends.
type SQLConfig struct {
	DatabaseURL string `yaml:"database_url" mapstructure:"database_url"`
	MaxConns    int32  `yaml:"max_conns" mapstructure:"max_conns"`
	MinConns    int32  `yaml:"min_conns" mapstructure:"min_conns"`
}

// IntakeConfig configures line ingestion.
type IntakeConfig struct {
	Table       string `yaml:"table" mapstructure:"table"`
	Concurrency int    `yaml:"concurrency" mapstructure:"concurrency"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// ConfigurationError reports a required setting that is absent or invalid.
// It is fatal at startup rather than a per-call failure.
type ConfigurationError struct {
	Setting string
	EnvVar  string
	Reason  string
}

func (e *ConfigurationError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("config: %s %s", e.Setting, e.Reason)
	}
	return fmt.Sprintf("config: %s is required (%s)", e.Setting, e.EnvVar)
}

// Load reads configuration from file and environment.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("LEADS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Secrets have no defaults, so bind them explicitly. The bare AIRTABLE_*
	// names are still honored for older shell setups.
	for key, envs := range map[string][]string{
		"airtable.api_key": {"LEADS_AIRTABLE_API_KEY", "AIRTABLE_API_KEY"},
		"airtable.base_id": {"LEADS_AIRTABLE_BASE_ID", "AIRTABLE_BASE"},
		"notion.token":     {"LEADS_NOTION_TOKEN"},
		"sql.database_url": {"LEADS_SQL_DATABASE_URL", "DATABASE_URL"},
	} {
		if err := v.BindEnv(append([]string{key}, envs...)...); err != nil {
			return nil, eris.Wrapf(err, "config: bind env %s", key)
		}
	}

	// Defaults
	v.SetDefault("store.backend", BackendAirtable)
	v.SetDefault("airtable.base_url", "https://api.airtable.com")
	v.SetDefault("airtable.rate_limit", 5)
	v.SetDefault("airtable.timeout_secs", 30)
	v.SetDefault("notion.rate_limit", 3)
	v.SetDefault("sql.max_conns", 10)
	v.SetDefault("sql.min_conns", 2)
	v.SetDefault("intake.table", "Raw")
	v.SetDefault("intake.concurrency", 1)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	return &cfg, nil
}

// ValidateBackend checks that the credentials the selected store backend
// needs are present.
func (c *Config) ValidateBackend() error {
	switch c.Store.Backend {
	case BackendAirtable:
		if c.Airtable.APIKey == "" {
			return &ConfigurationError{Setting: "airtable.api_key", EnvVar: "LEADS_AIRTABLE_API_KEY"}
		}
		if c.Airtable.BaseID == "" {
			return &ConfigurationError{Setting: "airtable.base_id", EnvVar: "LEADS_AIRTABLE_BASE_ID"}
		}
	case BackendNotion:
		if c.Notion.Token == "" {
			return &ConfigurationError{Setting: "notion.token", EnvVar: "LEADS_NOTION_TOKEN"}
		}
		if len(c.Notion.Databases) == 0 {
			return &ConfigurationError{Setting: "notion.databases", Reason: "must map at least one collection to a database id"}
		}
	case BackendSQLite:
		// Falls back to a local file.
	case BackendPostgres:
		if c.SQL.DatabaseURL == "" {
			return &ConfigurationError{Setting: "sql.database_url", EnvVar: "LEADS_SQL_DATABASE_URL"}
		}
	default:
		return &ConfigurationError{
			Setting: "store.backend",
			Reason:  fmt.Sprintf("has unsupported value %q", c.Store.Backend),
		}
	}
	return nil
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}
