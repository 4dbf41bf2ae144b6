// Package telemetry provides OpenTelemetry tracing and metrics instrumentation
// for the ammd application. Traces are exported over OTLP/HTTP; metrics are
// bridged into a Prometheus registry.
package telemetry

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"sync"
	"time"

	promclient "github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/metric"
	metricsdk "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	tracesdk "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.17.0"
	"go.opentelemetry.io/otel/trace"
)

const (
	serviceName    = "cpamm"
	serviceVersion = "1.0.0"

	batchSize    = 512
	batchTimeout = 5 * time.Second
)

// Config holds the configuration for telemetry
type Config struct {
	Enabled     bool
	Endpoint    string
	SampleRate  float64
	Environment string

	// InstanceID identifies this node process in exported resources.
	InstanceID string
	// DBBackend is reported as a resource attribute.
	DBBackend string

	// Metrics are bridged into this registerer when set.
	Registerer promclient.Registerer
}

// Provider manages OpenTelemetry tracing and metrics
type Provider struct {
	config Config

	tracerProvider *tracesdk.TracerProvider
	meterProvider  *metricsdk.MeterProvider
	tracer         trace.Tracer
	meter          metric.Meter
}

// NewProvider initializes a new telemetry provider. A disabled config yields
// a provider backed by the global no-op implementations.
func NewProvider(cfg Config) (*Provider, error) {
	p := &Provider{config: cfg}
	if !cfg.Enabled {
		return p, nil
	}
	if err := validateConfig(cfg); err != nil {
		return nil, fmt.Errorf("invalid telemetry config: %w", err)
	}

	res, err := nodeResource(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create resource: %w", err)
	}

	exporter, err := otlptrace.New(context.Background(), otlptracehttp.NewClient(
		otlptracehttp.WithEndpoint(hostPort(cfg.Endpoint)),
		otlptracehttp.WithInsecure(),
		otlptracehttp.WithURLPath("/v1/traces"),
	))
	if err != nil {
		return nil, fmt.Errorf("failed to create OTLP exporter: %w", err)
	}
	p.tracerProvider = tracesdk.NewTracerProvider(
		tracesdk.WithBatcher(exporter,
			tracesdk.WithMaxExportBatchSize(batchSize),
			tracesdk.WithBatchTimeout(batchTimeout),
		),
		tracesdk.WithResource(res),
		tracesdk.WithSampler(tracesdk.ParentBased(tracesdk.TraceIDRatioBased(cfg.SampleRate))),
	)
	otel.SetTracerProvider(p.tracerProvider)
	p.tracer = p.tracerProvider.Tracer(serviceName)

	if cfg.Registerer == nil {
		return p, nil
	}
	bridge, err := prometheus.New(prometheus.WithRegisterer(cfg.Registerer))
	if err != nil {
		return nil, errors.Join(
			fmt.Errorf("failed to create Prometheus exporter: %w", err),
			p.tracerProvider.Shutdown(context.Background()),
		)
	}
	p.meterProvider = metricsdk.NewMeterProvider(
		metricsdk.WithResource(res),
		metricsdk.WithReader(bridge),
	)
	otel.SetMeterProvider(p.meterProvider)
	p.meter = p.meterProvider.Meter(serviceName)

	return p, nil
}

func validateConfig(cfg Config) error {
	if cfg.Endpoint == "" {
		return fmt.Errorf("otlp endpoint is required")
	}
	if _, err := url.Parse(cfg.Endpoint); err != nil {
		return fmt.Errorf("invalid otlp endpoint: %w", err)
	}
	if cfg.SampleRate < 0 || cfg.SampleRate > 1 {
		return fmt.Errorf("sample rate must be between 0 and 1")
	}
	return nil
}

// nodeResource describes the node process: the service plus which
// deployment, instance and storage backend it runs with.
func nodeResource(cfg Config) (*resource.Resource, error) {
	attrs := []attribute.KeyValue{
		semconv.ServiceName(serviceName),
		semconv.ServiceVersion(serviceVersion),
		semconv.DeploymentEnvironment(cfg.Environment),
	}
	if cfg.InstanceID != "" {
		attrs = append(attrs, semconv.ServiceInstanceID(cfg.InstanceID))
	}
	if cfg.DBBackend != "" {
		attrs = append(attrs, attribute.String("cpamm.db.backend", cfg.DBBackend))
	}
	return resource.New(context.Background(), resource.WithAttributes(attrs...))
}

func hostPort(endpoint string) string {
	endpoint = strings.TrimPrefix(endpoint, "http://")
	return strings.TrimPrefix(endpoint, "https://")
}

// ObservePools exports the pool count as the amm.pools gauge, read from count
// at every collection. It is a no-op when metrics are not bridged.
func (p *Provider) ObservePools(count func(context.Context) uint64) error {
	if p.meter == nil {
		return nil
	}
	_, err := p.meter.Int64ObservableGauge("amm.pools",
		metric.WithDescription("Initialized pools"),
		metric.WithInt64Callback(func(ctx context.Context, o metric.Int64Observer) error {
			o.Observe(int64(count(ctx)))
			return nil
		}),
	)
	return err
}

// Shutdown flushes and stops the providers.
func (p *Provider) Shutdown(ctx context.Context) error {
	var errs []error
	if p.tracerProvider != nil {
		if err := p.tracerProvider.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("failed to shutdown tracer provider: %w", err))
		}
	}
	if p.meterProvider != nil {
		if err := p.meterProvider.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("failed to shutdown meter provider: %w", err))
		}
	}
	return errors.Join(errs...)
}

// Tracer returns the OpenTelemetry tracer
func (p *Provider) Tracer() trace.Tracer {
	if p.tracer == nil {
		return otel.Tracer(serviceName)
	}
	return p.tracer
}

// Meter returns the OpenTelemetry meter
func (p *Provider) Meter() metric.Meter {
	if p.meter == nil {
		return otel.Meter(serviceName)
	}
	return p.meter
}

// HealthCheck verifies that telemetry is properly initialized
func (p *Provider) HealthCheck() error {
	if !p.config.Enabled {
		return nil
	}
	if p.tracerProvider == nil || p.tracer == nil {
		return fmt.Errorf("tracer provider not initialized")
	}
	if p.config.Registerer != nil && p.meter == nil {
		return fmt.Errorf("meter provider not initialized but a registerer was supplied")
	}
	return nil
}

// StartModuleSpan starts a new span for module execution
func StartModuleSpan(ctx context.Context, moduleName string, operation string) (context.Context, trace.Span) {
	return otel.Tracer(serviceName).Start(ctx, "module."+moduleName+"."+operation,
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(
			attribute.String("module.name", moduleName),
			attribute.String("module.operation", operation),
		),
	)
}

// moduleInstruments are built on first use from the global meter. The global
// meter forwards to the provider installed by NewProvider.
var moduleInstruments struct {
	once       sync.Once
	operations metric.Int64Counter
	duration   metric.Float64Histogram
}

func loadModuleInstruments() {
	meter := otel.Meter(serviceName)
	var err error
	if moduleInstruments.operations, err = meter.Int64Counter("module.operations",
		metric.WithDescription("Module operations executed")); err != nil {
		otel.Handle(err)
	}
	if moduleInstruments.duration, err = meter.Float64Histogram("module.operation.duration",
		metric.WithUnit("s"),
		metric.WithDescription("Module operation duration")); err != nil {
		otel.Handle(err)
	}
}

// RecordModuleOperation counts one finished module operation and its
// duration.
func RecordModuleOperation(ctx context.Context, moduleName, operation string, err error, elapsed time.Duration) {
	moduleInstruments.once.Do(loadModuleInstruments)

	attrs := metric.WithAttributes(
		attribute.String("module.name", moduleName),
		attribute.String("module.operation", operation),
		attribute.Bool("error", err != nil),
	)
	if c := moduleInstruments.operations; c != nil {
		c.Add(ctx, 1, attrs)
	}
	if h := moduleInstruments.duration; h != nil {
		h.Record(ctx, elapsed.Seconds(), attrs)
	}
}

// RecordError records an error on the current span
func RecordError(span trace.Span, err error) {
	if span != nil && err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
}

// SetSpanStatus sets the status of a span
func SetSpanStatus(span trace.Span, success bool, message string) {
	if span == nil {
		return
	}
	if success {
		span.SetStatus(codes.Ok, message)
	} else {
		span.SetStatus(codes.Error, message)
	}
}

// AddSpanAttributes adds attributes to a span
func AddSpanAttributes(span trace.Span, attrs ...attribute.KeyValue) {
	if span != nil {
		span.SetAttributes(attrs...)
	}
}
