package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	t.Run("success - defaults without a config file", func(t *testing.T) {
		cfg, err := Load(t.TempDir())

		require.NoError(t, err)
		assert.Equal(t, "8080", cfg.Port)
		assert.Equal(t, SourceFile, cfg.HookSource)
		assert.Equal(t, EngineEcho, cfg.WorkflowEngine)
		assert.Equal(t, "webhook", cfg.GenericMount)
		assert.Equal(t, "slack", cfg.SlackTypeID)
		assert.Equal(t, 2*time.Second, cfg.DiagLogRetryDelay)
		assert.Equal(t, 30*time.Second, cfg.RequestTimeout)
		assert.Equal(t, int64(1<<20), cfg.MaxBodyBytes)
		assert.True(t, cfg.MetricsEnabled)
	})

	t.Run("success - .env file overrides defaults", func(t *testing.T) {
		dir := t.TempDir()
		content := `
PORT = "9090"
HOOK_SOURCE = "sqlite"
SQLITE_PATH = "/tmp/hooks.db"
WORKFLOW_ENGINE = "http"
WORKFLOW_URL = "http://workflows:8000"
WORKFLOW_TIMEOUT = "3s"
GENERIC_MOUNT = "/hooks/"
`
		require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte(content), 0o644))

		cfg, err := Load(dir)

		require.NoError(t, err)
		assert.Equal(t, "9090", cfg.Port)
		assert.Equal(t, SourceSQLite, cfg.HookSource)
		assert.Equal(t, "/tmp/hooks.db", cfg.SQLitePath)
		assert.Equal(t, "http://workflows:8000", cfg.WorkflowURL)
		assert.Equal(t, 3*time.Second, cfg.WorkflowTimeout)
		assert.Equal(t, "hooks", cfg.GenericMount)
	})

	t.Run("success - environment overrides defaults", func(t *testing.T) {
		t.Setenv("PORT", "7070")
		t.Setenv("SLACK_SIGNING_SECRET", "s3cr3t")

		cfg, err := Load(t.TempDir())

		require.NoError(t, err)
		assert.Equal(t, "7070", cfg.Port)
		assert.Equal(t, "s3cr3t", cfg.SlackSigningSecret)
	})

	t.Run("error - invalid config file", func(t *testing.T) {
		dir := t.TempDir()
		require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("PORT = = 1"), 0o644))

		_, err := Load(dir)

		assert.ErrorContains(t, err, "reading config file")
	})

	t.Run("error - http engine without url", func(t *testing.T) {
		t.Setenv("WORKFLOW_ENGINE", "http")

		_, err := Load(t.TempDir())

		assert.ErrorContains(t, err, "WORKFLOW_URL is required")
	})
}

func TestConfig_Validate(t *testing.T) {
	valid := func() Config {
		return Config{
			HookSource:     SourceFile,
			HooksFile:      "hooks.yaml",
			WorkflowEngine: EngineEcho,
			GenericMount:   "webhook",
			GenericTypeID:  "generic",
			SlackMount:     "slack",
			SlackTypeID:    "slack",
			MaxBodyBytes:   1024,
		}
	}

	t.Run("success - valid config", func(t *testing.T) {
		cfg := valid()
		assert.NoError(t, cfg.Validate())
	})

	t.Run("error - unknown hook source", func(t *testing.T) {
		cfg := valid()
		cfg.HookSource = "mongo"
		assert.ErrorContains(t, cfg.Validate(), `unknown HOOK_SOURCE "mongo"`)
	})

	t.Run("error - postgres without dsn", func(t *testing.T) {
		cfg := valid()
		cfg.HookSource = SourcePostgres
		assert.ErrorContains(t, cfg.Validate(), "POSTGRES_DSN is required")
	})

	t.Run("error - same mount twice", func(t *testing.T) {
		cfg := valid()
		cfg.SlackMount = "webhook"
		assert.ErrorContains(t, cfg.Validate(), "must differ")
	})

	t.Run("error - every problem is reported", func(t *testing.T) {
		cfg := valid()
		cfg.WorkflowEngine = "grpc"
		cfg.MaxBodyBytes = 0
		err := cfg.Validate()
		assert.ErrorContains(t, err, "unknown WORKFLOW_ENGINE")
		assert.ErrorContains(t, err, "MAX_BODY_BYTES must be positive")
	})
}
