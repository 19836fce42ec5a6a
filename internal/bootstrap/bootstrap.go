package bootstrap

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/marcelsud/webhook-workflow/archive"
	s3archive "github.com/marcelsud/webhook-workflow/archive/s3"
	"github.com/marcelsud/webhook-workflow/config"
	"github.com/marcelsud/webhook-workflow/diaglog"
	"github.com/marcelsud/webhook-workflow/hook"
	"github.com/marcelsud/webhook-workflow/hook/postgres"
	hookredis "github.com/marcelsud/webhook-workflow/hook/redis"
	"github.com/marcelsud/webhook-workflow/hook/sqlite"
	chihandlers "github.com/marcelsud/webhook-workflow/internal/http/chi"
	"github.com/marcelsud/webhook-workflow/metrics"
	"github.com/marcelsud/webhook-workflow/webhook"
	"github.com/marcelsud/webhook-workflow/webhook/signature"
	"github.com/marcelsud/webhook-workflow/workflow"
	workflowredis "github.com/marcelsud/webhook-workflow/workflow/redis"
	"github.com/marcelsud/webhook-workflow/workflow/remote"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

/* Bootstrap turns a config.Config into wired components.
 * Every opener returns a close function; callers defer it.
 */

// CloseFunc releases a component
type CloseFunc func(ctx context.Context) error

func nopClose(context.Context) error { return nil }

// NewLogger builds the service logger from LOG_LEVEL and LOG_JSON
func NewLogger(cfg *config.Config) zerolog.Logger {
	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil || cfg.LogLevel == "" {
		level = zerolog.InfoLevel
	}

	var logger zerolog.Logger
	if cfg.LogJSON {
		logger = zerolog.New(os.Stdout)
	} else {
		logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339})
	}
	return logger.Level(level).With().Timestamp().Str("service", "webhook-workflow").Logger()
}

// OpenHooks opens the configured hook source for reading
func OpenHooks(ctx context.Context, cfg *config.Config) (hook.Reader, CloseFunc, error) {
	if cfg.HookSource == config.SourceFile {
		loader := hook.NewLoader()
		if err := loader.Load(cfg.HooksFile); err != nil {
			return nil, nil, fmt.Errorf("loading hooks: %w", err)
		}
		return loader, nopClose, nil
	}

	repo, err := OpenRepository(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}
	return repo, repo.Close, nil
}

// OpenRepository opens a writable hook store; the file source is read-only
func OpenRepository(ctx context.Context, cfg *config.Config) (hook.Repository, error) {
	switch cfg.HookSource {
	case config.SourceRedis:
		repo, err := hookredis.NewRepository(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err != nil {
			return nil, fmt.Errorf("opening redis hook store: %w", err)
		}
		return repo, nil
	case config.SourcePostgres:
		repo, err := postgres.NewRepositoryWithPoolConfig(cfg.PostgresDSN,
			cfg.PostgresMaxOpenConns, cfg.PostgresMaxIdleConns, cfg.PostgresConnMaxLifeMinutes)
		if err != nil {
			return nil, fmt.Errorf("opening postgres hook store: %w", err)
		}
		if err := repo.CreateTable(ctx); err != nil {
			repo.Close(ctx)
			return nil, err
		}
		return repo, nil
	case config.SourceSQLite:
		repo, err := sqlite.NewRepository(cfg.SQLitePath)
		if err != nil {
			return nil, fmt.Errorf("opening sqlite hook store: %w", err)
		}
		return repo, nil
	default:
		return nil, fmt.Errorf("hook source %q is not writable", cfg.HookSource)
	}
}

// NewEngine creates the configured workflow engine
func NewEngine(cfg *config.Config) (workflow.Engine, CloseFunc, error) {
	switch cfg.WorkflowEngine {
	case config.EngineHTTP:
		client, err := remote.NewClient(remote.Config{
			BaseURL: cfg.WorkflowURL,
			Timeout: cfg.WorkflowTimeout,
			Retries: 2,
		})
		if err != nil {
			return nil, nil, fmt.Errorf("creating workflow client: %w", err)
		}
		return client, nopClose, nil
	case config.EngineRedis:
		queue, err := NewQueue(cfg)
		if err != nil {
			return nil, nil, err
		}
		return queue, queue.Close, nil
	case config.EngineEcho:
		return workflow.NewEcho(), nopClose, nil
	default:
		return nil, nil, fmt.Errorf("unknown workflow engine %q", cfg.WorkflowEngine)
	}
}

// NewQueue connects the Redis Streams workflow queue
func NewQueue(cfg *config.Config) (*workflowredis.Queue, error) {
	queue, err := workflowredis.NewQueue(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	if err != nil {
		return nil, fmt.Errorf("creating workflow queue: %w", err)
	}
	return queue, nil
}

// NewDiagnosticLog returns the file log, or a no-op when DIAG_LOG_FILE is unset
func NewDiagnosticLog(cfg *config.Config) diaglog.Logger {
	if cfg.DiagLogFile == "" {
		return diaglog.Nop{}
	}
	return diaglog.NewFile(cfg.DiagLogFile, diaglog.WithRetryDelay(cfg.DiagLogRetryDelay))
}

// NewArchiver returns the S3 archiver, or nil when ARCHIVE_BUCKET is unset
func NewArchiver(ctx context.Context, cfg *config.Config) (archive.Archiver, error) {
	if cfg.ArchiveBucket == "" {
		return nil, nil
	}
	a, err := s3archive.NewArchiver(ctx, cfg.ArchiveBucket, s3archive.WithPrefix(cfg.ArchivePrefix))
	if err != nil {
		return nil, fmt.Errorf("creating archiver: %w", err)
	}
	return a, nil
}

// NewMetrics creates the exporter; queue lengths are sampled when workflows go through Redis
func NewMetrics(cfg *config.Config, hooks hook.Reader) (*metrics.OTelExporter, CloseFunc, error) {
	typeIDs := []string{cfg.GenericTypeID, cfg.SlackTypeID}

	var collector metrics.Collector = metrics.NewStoreCollector(hooks, typeIDs...)
	closeClient := nopClose
	if cfg.WorkflowEngine == config.EngineRedis {
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		collector = metrics.NewRedisCollector(client, hooks, typeIDs...)
		closeClient = func(context.Context) error { return client.Close() }
	}

	exporter, err := metrics.NewOTelExporter(collector)
	if err != nil {
		closeClient(context.Background())
		return nil, nil, fmt.Errorf("creating metrics exporter: %w", err)
	}
	return exporter, func(ctx context.Context) error {
		err := exporter.Shutdown(ctx)
		closeClient(ctx)
		return err
	}, nil
}

// App is the fully wired gateway
type App struct {
	Config  *config.Config
	Logger  zerolog.Logger
	Hooks   hook.Reader
	Engine  workflow.Engine
	Generic *webhook.Service
	Slack   *webhook.Service
	Metrics *metrics.OTelExporter
	closers []CloseFunc
}

// NewApp opens every component the configuration selects
func NewApp(ctx context.Context, cfg *config.Config) (*App, error) {
	app := &App{Config: cfg, Logger: NewLogger(cfg)}

	hooks, closeHooks, err := OpenHooks(ctx, cfg)
	if err != nil {
		return nil, err
	}
	app.Hooks = hooks
	app.closers = append(app.closers, closeHooks)

	engine, closeEngine, err := NewEngine(cfg)
	if err != nil {
		app.Close(ctx)
		return nil, err
	}
	app.Engine = engine
	app.closers = append(app.closers, closeEngine)

	opts := []webhook.Option{
		webhook.WithLogger(app.Logger),
		webhook.WithDiagnosticLog(NewDiagnosticLog(cfg)),
	}

	archiver, err := NewArchiver(ctx, cfg)
	if err != nil {
		app.Close(ctx)
		return nil, err
	}
	if archiver != nil {
		opts = append(opts, webhook.WithArchiver(archiver))
	}

	if cfg.MetricsEnabled {
		exporter, closeMetrics, err := NewMetrics(cfg, hooks)
		if err != nil {
			app.Close(ctx)
			return nil, err
		}
		app.Metrics = exporter
		app.closers = append(app.closers, closeMetrics)
		opts = append(opts, webhook.WithRecorder(exporter))
	}

	app.Generic = webhook.NewService(hooks, engine, webhook.NewGeneric(cfg.GenericTypeID), opts...)
	app.Slack = webhook.NewService(hooks, engine, webhook.NewSlack(cfg.SlackTypeID), opts...)
	return app, nil
}

// Handler builds the HTTP router for the app
func (a *App) Handler(ctx context.Context) http.Handler {
	var metricsHandler http.Handler
	if a.Metrics != nil {
		metricsHandler = a.Metrics.ServeHTTP()
	}

	return chihandlers.WebhookHandlers(ctx, chihandlers.Settings{
		LogLevel: a.Config.LogLevel,
		LogJSON:  a.Config.LogJSON,
		Mounts: []chihandlers.Mount{
			{Prefix: a.Config.GenericMount, Service: a.Generic},
			{Prefix: a.Config.SlackMount, Service: a.Slack, Middleware: []func(http.Handler) http.Handler{
				signature.NewVerifier(a.Config.SlackSigningSecret).Middleware,
			}},
		},
		Hooks:        a.Hooks,
		HookTypes:    []string{a.Config.GenericTypeID, a.Config.SlackTypeID},
		Metrics:      metricsHandler,
		Timeout:      a.Config.RequestTimeout,
		MaxBodyBytes: a.Config.MaxBodyBytes,
	})
}

// Close releases components in reverse opening order
func (a *App) Close(ctx context.Context) error {
	var firstErr error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](ctx); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	a.closers = nil
	return firstErr
}
