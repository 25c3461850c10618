// Package telemetry traces game sessions with OpenTelemetry.
//
// Until Setup runs, Tracer hands out tracers from the global no-op
// provider, so packages can create spans unconditionally.
package telemetry

import (
	"context"
	"fmt"
	"os"
	"runtime"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
)

const (
	serviceName    = "escaperoom"
	serviceVersion = "0.1.0"
)

// Option configures Setup.
type Option func(*options)

type options struct {
	exporter sdktrace.SpanExporter
	attrs    []attribute.KeyValue
}

// WithExporter sends spans to e instead of the OTLP/HTTP exporter.
func WithExporter(e sdktrace.SpanExporter) Option {
	return func(o *options) { o.exporter = e }
}

// WithLocale tags every span with the text locale being played.
func WithLocale(locale string) Option {
	return func(o *options) { o.attrs = append(o.attrs, attribute.String("escaperoom.locale", locale)) }
}

// WithStore tags every span with the persistence backend.
func WithStore(backend string) Option {
	return func(o *options) { o.attrs = append(o.attrs, attribute.String("escaperoom.store", backend)) }
}

// Setup installs the global tracer provider. By default spans go over
// OTLP/HTTP, configured by the OTEL_EXPORTER_OTLP_* environment variables.
// The returned function flushes pending spans and must be called on exit.
func Setup(ctx context.Context, opts ...Option) (shutdown func(context.Context) error, err error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	if o.exporter == nil {
		o.exporter, err = otlptracehttp.New(ctx)
		if err != nil {
			return nil, fmt.Errorf("otlp exporter: %w", err)
		}
	}

	// Not merged with resource.Default() to avoid schema URL conflicts.
	attrs := append([]attribute.KeyValue{
		attribute.String("service.name", serviceName),
		attribute.String("service.version", serviceVersion),
		attribute.String("host.name", hostname()),
		attribute.String("os.type", runtime.GOOS),
		attribute.String("process.runtime.version", runtime.Version()),
	}, o.attrs...)
	res, err := resource.New(ctx, resource.WithAttributes(attrs...))
	if err != nil {
		return nil, fmt.Errorf("trace resource: %w", err)
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(o.exporter),
		sdktrace.WithResource(res),
	)
	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.TraceContext{})

	return tp.Shutdown, nil
}

// Tracer returns the tracer for one component, such as "session" or "store".
func Tracer(component string) trace.Tracer {
	return otel.GetTracerProvider().Tracer(serviceName + "/" + component)
}

func hostname() string {
	name, err := os.Hostname()
	if err != nil {
		return "unknown"
	}
	return name
}
