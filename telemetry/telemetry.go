// Package telemetry wraps OpenTelemetry tracer/meter construction for the
// resolver core, modeled on terragrunt's own telemetry package (see
// telemetry/telemetry_test.go's exporter-type switch). The collector wraps
// collect()/transform() in spans; the transporter wraps peek/get/put in
// spans and records transferred bytes as a counter metric.
package telemetry

import (
	"context"
	"io"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/stdout/stdoutmetric"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
)

// ExporterType selects which OpenTelemetry exporter backs a Telemeter.
type ExporterType string

const (
	// ExporterNone disables span/metric export; Start/Record become no-ops.
	ExporterNone ExporterType = "none"
	// ExporterConsole writes spans and metrics to an io.Writer as JSON lines,
	// useful for local debugging without standing up a collector.
	ExporterConsole ExporterType = "console"
)

const instrumentationName = "github.com/gruntwork-io/artifact-resolver"

// Telemeter is the resolver-wide handle for tracing and metrics. It is held
// by the session and threaded into the collector and transporter.
type Telemeter struct {
	tracer           trace.Tracer
	meter            metric.Meter
	bytesTransferred metric.Int64Counter
	shutdown         func(context.Context) error
}

// New constructs a Telemeter for the given exporter type. w is only used by
// ExporterConsole.
func New(ctx context.Context, exporterType ExporterType, w io.Writer) (*Telemeter, error) {
	if exporterType == "" {
		exporterType = ExporterNone
	}

	if exporterType == ExporterNone {
		return &Telemeter{
			tracer:   otel.Tracer(instrumentationName),
			meter:    otel.Meter(instrumentationName),
			shutdown: func(context.Context) error { return nil },
		}, nil
	}

	traceExporter, err := stdouttrace.New(stdouttrace.WithWriter(w))
	if err != nil {
		return nil, err
	}
	metricExporter, err := stdoutmetric.New(stdoutmetric.WithWriter(w))
	if err != nil {
		return nil, err
	}

	tracerProvider := sdktrace.NewTracerProvider(sdktrace.WithBatcher(traceExporter))
	meterProvider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(sdkmetric.NewPeriodicReader(metricExporter)))

	tracer := tracerProvider.Tracer(instrumentationName)
	meter := meterProvider.Meter(instrumentationName)

	counter, err := meter.Int64Counter(
		"artifact_resolver.bytes_transferred",
		metric.WithDescription("bytes moved by peek/get/put tasks"),
	)
	if err != nil {
		return nil, err
	}

	return &Telemeter{
		tracer:           tracer,
		meter:            meter,
		bytesTransferred: counter,
		shutdown: func(ctx context.Context) error {
			if err := tracerProvider.Shutdown(ctx); err != nil {
				return err
			}
			return meterProvider.Shutdown(ctx)
		},
	}, nil
}

// Start begins a span named name, returning the derived context and a func
// to end it. Callers should `defer end()`.
func (t *Telemeter) Start(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, func()) {
	if t == nil || t.tracer == nil {
		return ctx, func() {}
	}
	ctx, span := t.tracer.Start(ctx, name, trace.WithAttributes(attrs...))
	return ctx, func() { span.End() }
}

// RecordError attaches err to the span active in ctx, if any.
func (t *Telemeter) RecordError(ctx context.Context, err error) {
	if t == nil || err == nil {
		return
	}
	span := trace.SpanFromContext(ctx)
	span.RecordError(err)
}

// RecordBytes adds n to the bytes-transferred counter, tagged with task.
func (t *Telemeter) RecordBytes(ctx context.Context, task string, n int64) {
	if t == nil || t.bytesTransferred == nil || n == 0 {
		return
	}
	t.bytesTransferred.Add(ctx, n, metric.WithAttributes(attribute.String("task", task)))
}

// Shutdown flushes and releases any exporter resources.
func (t *Telemeter) Shutdown(ctx context.Context) error {
	if t == nil || t.shutdown == nil {
		return nil
	}
	return t.shutdown(ctx)
}
