package metrics

import (
	"context"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	promexporter "go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	semconv "go.opentelemetry.io/otel/semconv/v1.24.0"
)

var (
	promReaderFactory = prometheusComponents
	otlpReaderFactory = buildOTLPReader
	instrumentFactory = newOtelInstruments
)

// TelemetryConfig controls how metrics are exported.
type TelemetryConfig struct {
	Enabled      bool
	Port         string
	ServiceName  string
	OtlpEndpoint string
	OtlpInsecure bool
}

// Setup configures OpenTelemetry metrics with a Prometheus exporter and optional OTLP exporter.
// It returns a Recorder, the Prometheus HTTP handler, and a shutdown function.
func Setup(ctx context.Context, cfg TelemetryConfig) (*Recorder, http.Handler, func(context.Context) error, error) {
	if !cfg.Enabled {
		return NewRecorder(), nil, func(context.Context) error { return nil }, nil
	}

	if cfg.ServiceName == "" {
		cfg.ServiceName = "hooptrack"
	}

	promReader, promHandler, err := promReaderFactory()
	if err != nil {
		return nil, nil, nil, err
	}

	opts := []sdkmetric.Option{sdkmetric.WithReader(promReader)}

	if cfg.OtlpEndpoint != "" {
		otlpReader, err := otlpReaderFactory(ctx, cfg.OtlpEndpoint, cfg.OtlpInsecure)
		if err != nil {
			return nil, nil, nil, err
		}
		opts = append(opts, sdkmetric.WithReader(otlpReader))
	}

	res, err := resource.New(ctx,
		resource.WithAttributes(semconv.ServiceName(cfg.ServiceName)),
	)
	if err != nil {
		return nil, nil, nil, err
	}

	opts = append(opts, sdkmetric.WithResource(res))

	provider := sdkmetric.NewMeterProvider(opts...)

	otelInst, err := instrumentFactory(provider)
	if err != nil {
		return nil, nil, nil, err
	}

	rec := newRecorder(otelInst)
	shutdown := func(c context.Context) error {
		return provider.Shutdown(c)
	}

	return rec, promHandler, shutdown, nil
}

func buildOTLPReader(ctx context.Context, endpoint string, insecure bool) (sdkmetric.Reader, error) {
	otlpOpts := []otlpmetrichttp.Option{otlpmetrichttp.WithEndpoint(endpoint)}
	if insecure {
		otlpOpts = append(otlpOpts, otlpmetrichttp.WithInsecure())
	}
	otlpExp, err := otlpmetrichttp.New(ctx, otlpOpts...)
	if err != nil {
		return nil, err
	}
	return sdkmetric.NewPeriodicReader(otlpExp, sdkmetric.WithInterval(15*time.Second)), nil
}

type otelInstruments struct {
	ctx              context.Context
	meter            metric.Meter
	requests         metric.Int64Counter
	requestLatencyMs metric.Float64Histogram
	eventsAccepted   metric.Int64Counter
	eventsRejected   metric.Int64Counter
	commitLatencyMs  metric.Float64Histogram
	commitFailures   metric.Int64Counter
	gamesHalted      metric.Int64Counter
	auditCycles      metric.Int64Counter
	auditErrors      metric.Int64Counter
	auditLatencyMs   metric.Float64Histogram
}

func prometheusComponents() (sdkmetric.Reader, http.Handler, error) {
	reg := prometheus.NewRegistry()
	promExp, err := promexporter.New(promexporter.WithRegisterer(reg))
	if err != nil {
		return nil, nil, err
	}
	return promExp, promhttp.HandlerFor(reg, promhttp.HandlerOpts{}), nil
}

func newOtelInstruments(provider metric.MeterProvider) (*otelInstruments, error) {
	meter := provider.Meter("hooptrack")
	ctx := context.Background()

	requests, err := meter.Int64Counter("http_requests_total")
	if err != nil {
		return nil, err
	}
	requestLatency, err := meter.Float64Histogram("http_request_duration_ms")
	if err != nil {
		return nil, err
	}

	eventsAccepted, err := meter.Int64Counter("engine_events_accepted_total")
	if err != nil {
		return nil, err
	}
	eventsRejected, err := meter.Int64Counter("engine_events_rejected_total")
	if err != nil {
		return nil, err
	}
	commitLatency, err := meter.Float64Histogram("engine_commit_duration_ms")
	if err != nil {
		return nil, err
	}
	commitFailures, err := meter.Int64Counter("engine_commit_failures_total")
	if err != nil {
		return nil, err
	}
	gamesHalted, err := meter.Int64Counter("engine_games_halted_total")
	if err != nil {
		return nil, err
	}
	auditCycles, err := meter.Int64Counter("audit_cycles_total")
	if err != nil {
		return nil, err
	}
	auditErrors, err := meter.Int64Counter("audit_errors_total")
	if err != nil {
		return nil, err
	}
	auditLatency, err := meter.Float64Histogram("audit_cycle_duration_ms")
	if err != nil {
		return nil, err
	}

	return &otelInstruments{
		ctx:              ctx,
		meter:            meter,
		requests:         requests,
		requestLatencyMs: requestLatency,
		eventsAccepted:   eventsAccepted,
		eventsRejected:   eventsRejected,
		commitLatencyMs:  commitLatency,
		commitFailures:   commitFailures,
		gamesHalted:      gamesHalted,
		auditCycles:      auditCycles,
		auditErrors:      auditErrors,
		auditLatencyMs:   auditLatency,
	}, nil
}

func (o *otelInstruments) recordHTTPRequest(method, path string, status int, duration time.Duration) {
	if o == nil {
		return
	}
	attrs := []attribute.KeyValue{
		attribute.String(AttrMethod, method),
		attribute.String(AttrPath, path),
		attribute.Int(AttrStatus, status),
	}
	o.recordCounter(o.requests, 1, attrs...)
	o.recordHistogram(o.requestLatencyMs, float64(duration.Milliseconds()), attrs...)
}

func (o *otelInstruments) recordEventAccepted(eventType string, commitLatency time.Duration) {
	if o == nil {
		return
	}
	attrs := []attribute.KeyValue{attribute.String(AttrEventType, eventType)}
	o.recordCounter(o.eventsAccepted, 1, attrs...)
	o.recordHistogram(o.commitLatencyMs, float64(commitLatency.Milliseconds()), attrs...)
}

func (o *otelInstruments) recordEventRejected(reason string) {
	if o == nil {
		return
	}
	o.recordCounter(o.eventsRejected, 1, attribute.String(AttrReason, reason))
}

func (o *otelInstruments) recordCommitFailure() {
	if o == nil {
		return
	}
	o.recordCounter(o.commitFailures, 1)
}

func (o *otelInstruments) recordGameHalted() {
	if o == nil {
		return
	}
	o.recordCounter(o.gamesHalted, 1)
}

func (o *otelInstruments) recordAuditCycle(duration time.Duration, err error) {
	if o == nil {
		return
	}
	o.recordCounter(o.auditCycles, 1)
	if err != nil {
		o.recordCounter(o.auditErrors, 1)
	}
	o.recordHistogram(o.auditLatencyMs, float64(duration.Milliseconds()))
}

func (o *otelInstruments) recordCounter(counter metric.Int64Counter, value int64, attrs ...attribute.KeyValue) {
	if counter == nil {
		return
	}
	counter.Add(o.ctx, value, metric.WithAttributes(attrs...))
}

func (o *otelInstruments) recordHistogram(hist metric.Float64Histogram, value float64, attrs ...attribute.KeyValue) {
	if hist == nil {
		return
	}
	hist.Record(o.ctx, value, metric.WithAttributes(attrs...))
}
