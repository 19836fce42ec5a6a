package metrics

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/marcelsud/webhook-workflow/webhook"
	promclient "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
)

// OTelExporter provides OpenTelemetry metrics export following OTel standards.
// It doubles as the webhook.Recorder of the gateway services.
type OTelExporter struct {
	meterProvider *sdkmetric.MeterProvider
	collector     Collector
	gatherer      promclient.Gatherer

	// OTel meters and instruments
	meter            metric.Meter
	requestCounter   metric.Int64Counter
	runDuration      metric.Float64Histogram
	hookCountGauge   metric.Int64ObservableGauge
	queueLengthGauge metric.Int64ObservableGauge
}

// ExporterOption customizes the exporter
type ExporterOption func(*exporterOptions)

type exporterOptions struct {
	registry *promclient.Registry
}

// WithRegistry exports into a dedicated registry instead of the default one
func WithRegistry(registry *promclient.Registry) ExporterOption {
	return func(o *exporterOptions) {
		o.registry = registry
	}
}

// NewOTelExporter creates a new OpenTelemetry metrics exporter with Prometheus format
func NewOTelExporter(collector Collector, opts ...ExporterOption) (*OTelExporter, error) {
	var o exporterOptions
	for _, opt := range opts {
		opt(&o)
	}

	var promOpts []prometheus.Option
	var gatherer promclient.Gatherer = promclient.DefaultGatherer
	if o.registry != nil {
		promOpts = append(promOpts, prometheus.WithRegisterer(o.registry))
		gatherer = o.registry
	}

	// Create Prometheus exporter
	exporter, err := prometheus.New(promOpts...)
	if err != nil {
		return nil, fmt.Errorf("creating prometheus exporter: %w", err)
	}

	// Create meter provider
	meterProvider := sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(exporter),
	)
	otel.SetMeterProvider(meterProvider)

	// Create meter with service info
	meter := meterProvider.Meter(
		"webhook-workflow",
		metric.WithInstrumentationVersion("1.0.0"),
	)

	oe := &OTelExporter{
		meterProvider: meterProvider,
		collector:     collector,
		gatherer:      gatherer,
		meter:         meter,
	}

	// Register metrics instruments
	if err := oe.registerInstruments(); err != nil {
		return nil, fmt.Errorf("registering instruments: %w", err)
	}

	return oe, nil
}

// registerInstruments creates and registers all OpenTelemetry metric instruments
func (oe *OTelExporter) registerInstruments() error {
	var err error

	// Requests per variant and lifecycle state
	oe.requestCounter, err = oe.meter.Int64Counter(
		"webhook.requests",
		metric.WithDescription("Number of webhook requests reaching each lifecycle state"),
		metric.WithUnit("{requests}"),
	)
	if err != nil {
		return fmt.Errorf("creating request counter: %w", err)
	}

	// Workflow run latency per workflow type and outcome
	oe.runDuration, err = oe.meter.Float64Histogram(
		"workflow.run.duration",
		metric.WithDescription("Duration of workflow runs triggered by webhooks"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return fmt.Errorf("creating run duration histogram: %w", err)
	}

	if oe.collector == nil {
		return nil
	}

	// Configured hooks gauge (per hook type)
	oe.hookCountGauge, err = oe.meter.Int64ObservableGauge(
		"webhook.hooks.configured",
		metric.WithDescription("Number of configured hooks per hook type"),
		metric.WithUnit("{hooks}"),
		metric.WithInt64Callback(oe.observeHookCounts),
	)
	if err != nil {
		return fmt.Errorf("creating hook count gauge: %w", err)
	}

	// Queue length gauge (per workflow type)
	oe.queueLengthGauge, err = oe.meter.Int64ObservableGauge(
		"workflow.queue.length",
		metric.WithDescription("Number of queued workflow runs per workflow type"),
		metric.WithUnit("{runs}"),
		metric.WithInt64Callback(oe.observeQueueLengths),
	)
	if err != nil {
		return fmt.Errorf("creating queue length gauge: %w", err)
	}

	return nil
}

// RecordState counts a request entering a lifecycle state
func (oe *OTelExporter) RecordState(ctx context.Context, variant string, state webhook.State) {
	oe.requestCounter.Add(ctx, 1, metric.WithAttributes(
		attribute.String("webhook.variant", variant),
		attribute.String("webhook.state", state.String()),
	))
}

// RecordRun records the latency and outcome of a workflow run
func (oe *OTelExporter) RecordRun(ctx context.Context, variant, workflowType string, elapsed time.Duration, err error) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	oe.runDuration.Record(ctx, elapsed.Seconds(), metric.WithAttributes(
		attribute.String("webhook.variant", variant),
		attribute.String("workflow.type", workflowType),
		attribute.String("workflow.outcome", outcome),
	))
}

// observeHookCounts is a callback that reports configured hooks
func (oe *OTelExporter) observeHookCounts(ctx context.Context, observer metric.Int64Observer) error {
	counts, err := oe.collector.GetHookCounts(ctx)
	if err != nil {
		return err
	}

	for typeID, count := range counts {
		observer.Observe(count, metric.WithAttributes(
			attribute.String("hook.type", typeID),
		))
	}

	return nil
}

// observeQueueLengths is a callback that reports queued workflow runs
func (oe *OTelExporter) observeQueueLengths(ctx context.Context, observer metric.Int64Observer) error {
	queueLengths, err := oe.collector.GetQueueLengths(ctx)
	if err != nil {
		return err
	}

	for typeID, length := range queueLengths {
		observer.Observe(length, metric.WithAttributes(
			attribute.String("workflow.type", typeID),
		))
	}

	return nil
}

// ServeHTTP serves Prometheus-formatted metrics on the given HTTP handler
func (oe *OTelExporter) ServeHTTP() http.Handler {
	return promhttp.HandlerFor(oe.gatherer, promhttp.HandlerOpts{})
}

// Shutdown gracefully shuts down the meter provider
func (oe *OTelExporter) Shutdown(ctx context.Context) error {
	if oe.meterProvider != nil {
		return oe.meterProvider.Shutdown(ctx)
	}
	return nil
}

var _ webhook.Recorder = (*OTelExporter)(nil)
