package chi

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/httplog"
	"github.com/marcelsud/webhook-workflow/hook"
	"github.com/marcelsud/webhook-workflow/webhook"
)

// Mount binds a gateway service to a URL prefix, e.g. "webhook" serves /webhook/*
type Mount struct {
	Prefix     string
	Service    webhook.UseCase
	Middleware []func(http.Handler) http.Handler
}

// Settings holds everything the router needs
type Settings struct {
	ServiceName  string
	LogLevel     string
	LogJSON      bool
	Mounts       []Mount
	Hooks        hook.Reader
	HookTypes    []string
	Metrics      http.Handler // nil disables /metrics
	Timeout      time.Duration
	MaxBodyBytes int64
}

// WebhookHandlers sets up the gateway routes
func WebhookHandlers(ctx context.Context, settings Settings) *chi.Mux {
	name := settings.ServiceName
	if name == "" {
		name = "webhook-workflow"
	}
	logger := httplog.NewLogger(name, httplog.Options{
		JSON:     settings.LogJSON,
		LogLevel: settings.LogLevel,
	})

	timeout := settings.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(httplog.RequestLogger(logger))
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(timeout))

	// Health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"healthy"}`))
	})

	if settings.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", settings.Metrics)
	}

	// Admin API
	if settings.Hooks != nil {
		r.Route("/v1", func(r chi.Router) {
			r.Method(http.MethodGet, "/hooks", getHooks(settings.Hooks, settings.HookTypes))
			r.Method(http.MethodGet, "/hooks/{id}", getHook(settings.Hooks))
		})
	}

	// Gateway variants, every method and every path below the prefix
	for _, m := range settings.Mounts {
		h := handleWebhook(m.Service, settings.MaxBodyBytes)
		r.Group(func(r chi.Router) {
			if settings.MaxBodyBytes > 0 {
				r.Use(middleware.RequestSize(settings.MaxBodyBytes))
			}
			r.Use(m.Middleware...)
			r.Handle("/"+m.Prefix, h)
			r.Handle("/"+m.Prefix+"/*", h)
		})
	}

	return r
}
