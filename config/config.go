package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

/* Config reads the gateway settings from the environment and an optional .env (TOML) file */

// Hook sources
const (
	SourceFile     = "file"
	SourceRedis    = "redis"
	SourcePostgres = "postgres"
	SourceSQLite   = "sqlite"
)

// Workflow engines
const (
	EngineHTTP  = "http"
	EngineRedis = "redis"
	EngineEcho  = "echo"
)

type Config struct {
	Port     string `mapstructure:"PORT"`
	LogLevel string `mapstructure:"LOG_LEVEL"`
	LogJSON  bool   `mapstructure:"LOG_JSON"`

	HookSource string `mapstructure:"HOOK_SOURCE"`
	HooksFile  string `mapstructure:"HOOKS_FILE"`

	RedisAddr     string `mapstructure:"REDIS_ADDR"`
	RedisPassword string `mapstructure:"REDIS_PASSWORD"`
	RedisDB       int    `mapstructure:"REDIS_DB"`

	PostgresDSN                string `mapstructure:"POSTGRES_DSN"`
	PostgresMaxOpenConns       int    `mapstructure:"POSTGRES_MAX_OPEN_CONNS"`
	PostgresMaxIdleConns       int    `mapstructure:"POSTGRES_MAX_IDLE_CONNS"`
	PostgresConnMaxLifeMinutes int    `mapstructure:"POSTGRES_CONN_MAX_LIFE_MINUTES"`
	SQLitePath                 string `mapstructure:"SQLITE_PATH"`

	WorkflowEngine  string        `mapstructure:"WORKFLOW_ENGINE"`
	WorkflowURL     string        `mapstructure:"WORKFLOW_URL"`
	WorkflowTimeout time.Duration `mapstructure:"WORKFLOW_TIMEOUT"`

	GenericMount  string `mapstructure:"GENERIC_MOUNT"`
	GenericTypeID string `mapstructure:"GENERIC_TYPE_ID"`
	SlackMount    string `mapstructure:"SLACK_MOUNT"`
	SlackTypeID   string `mapstructure:"SLACK_TYPE_ID"`

	SlackSigningSecret string `mapstructure:"SLACK_SIGNING_SECRET"`

	DiagLogFile       string        `mapstructure:"DIAG_LOG_FILE"`
	DiagLogRetryDelay time.Duration `mapstructure:"DIAG_LOG_RETRY_DELAY"`

	RequestTimeout time.Duration `mapstructure:"REQUEST_TIMEOUT"`
	MaxBodyBytes   int64         `mapstructure:"MAX_BODY_BYTES"`

	ArchiveBucket string `mapstructure:"ARCHIVE_BUCKET"`
	ArchivePrefix string `mapstructure:"ARCHIVE_PREFIX"`

	MetricsEnabled bool `mapstructure:"METRICS_ENABLED"`
}

var defaults = map[string]any{
	"PORT":                           "8080",
	"LOG_LEVEL":                      "info",
	"LOG_JSON":                       true,
	"HOOK_SOURCE":                    SourceFile,
	"HOOKS_FILE":                     "hooks.yaml",
	"REDIS_ADDR":                     "localhost:6379",
	"REDIS_PASSWORD":                 "",
	"REDIS_DB":                       0,
	"POSTGRES_DSN":                   "",
	"POSTGRES_MAX_OPEN_CONNS":        25,
	"POSTGRES_MAX_IDLE_CONNS":        5,
	"POSTGRES_CONN_MAX_LIFE_MINUTES": 5,
	"SQLITE_PATH":                    "hooks.db",
	"WORKFLOW_ENGINE":                EngineEcho,
	"WORKFLOW_URL":                   "",
	"WORKFLOW_TIMEOUT":               "10s",
	"GENERIC_MOUNT":                  "webhook",
	"GENERIC_TYPE_ID":                "generic",
	"SLACK_MOUNT":                    "slack",
	"SLACK_TYPE_ID":                  "slack",
	"SLACK_SIGNING_SECRET":           "",
	"DIAG_LOG_FILE":                  "",
	"DIAG_LOG_RETRY_DELAY":           "2s",
	"REQUEST_TIMEOUT":                "30s",
	"MAX_BODY_BYTES":                 1 << 20,
	"ARCHIVE_BUCKET":                 "",
	"ARCHIVE_PREFIX":                 "",
	"METRICS_ENABLED":                true,
}

// GetConfig loads .env from the working directory, falling back to defaults and the environment
func GetConfig() (*Config, error) {
	return Load(".")
}

// Load reads the optional .env file under dir. A missing file is not an error.
func Load(dir string) (*Config, error) {
	v := viper.New()
	v.SetConfigName(".env")
	v.SetConfigType("toml")
	v.AddConfigPath(dir)
	for key, value := range defaults {
		v.SetDefault(key, value)
	}
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("parsing config data: %w", err)
	}
	config.GenericMount = strings.Trim(config.GenericMount, "/")
	config.SlackMount = strings.Trim(config.SlackMount, "/")

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}
	return &config, nil
}

// Validate checks that the selected sources have what they need
func (c *Config) Validate() error {
	var errs []error

	switch c.HookSource {
	case SourceFile:
		if c.HooksFile == "" {
			errs = append(errs, errors.New("HOOKS_FILE is required for the file hook source"))
		}
	case SourceRedis:
		if c.RedisAddr == "" {
			errs = append(errs, errors.New("REDIS_ADDR is required for the redis hook source"))
		}
	case SourcePostgres:
		if c.PostgresDSN == "" {
			errs = append(errs, errors.New("POSTGRES_DSN is required for the postgres hook source"))
		}
	case SourceSQLite:
		if c.SQLitePath == "" {
			errs = append(errs, errors.New("SQLITE_PATH is required for the sqlite hook source"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown HOOK_SOURCE %q", c.HookSource))
	}

	switch c.WorkflowEngine {
	case EngineHTTP:
		if c.WorkflowURL == "" {
			errs = append(errs, errors.New("WORKFLOW_URL is required for the http workflow engine"))
		}
	case EngineRedis:
		if c.RedisAddr == "" {
			errs = append(errs, errors.New("REDIS_ADDR is required for the redis workflow engine"))
		}
	case EngineEcho:
	default:
		errs = append(errs, fmt.Errorf("unknown WORKFLOW_ENGINE %q", c.WorkflowEngine))
	}

	if c.GenericMount == "" || c.SlackMount == "" {
		errs = append(errs, errors.New("GENERIC_MOUNT and SLACK_MOUNT cannot be empty"))
	} else if c.GenericMount == c.SlackMount {
		errs = append(errs, errors.New("GENERIC_MOUNT and SLACK_MOUNT must differ"))
	}
	if c.GenericTypeID == "" || c.SlackTypeID == "" {
		errs = append(errs, errors.New("GENERIC_TYPE_ID and SLACK_TYPE_ID cannot be empty"))
	}
	if c.MaxBodyBytes <= 0 {
		errs = append(errs, errors.New("MAX_BODY_BYTES must be positive"))
	}

	return errors.Join(errs...)
}
