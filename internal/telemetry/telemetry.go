// internal/telemetry/telemetry.go
//
// OpenTelemetry tracer provider.
//
// Context
// -------
// The server wraps its handler with otelhttp and the CMS client wraps its
// transport the same way, so every page request produces one server span
// with child client spans per content API call.  Spans are exported to
// stdout (one JSON object per span) when `tracing.enabled` is set; with
// tracing off the global no-op provider stays in place.

package telemetry

import (
	"context"
	"io"
	"os"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/propagation"
	sdkresource "go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.21.0"
)

// Shutdown flushes and stops the provider.
type Shutdown func(context.Context) error

// Init installs a tracer provider that exports to os.Stdout.
func Init(serviceName string) (Shutdown, error) {
	return InitWriter(serviceName, os.Stdout)
}

// InitWriter installs a tracer provider that exports to w.
func InitWriter(serviceName string, w io.Writer) (Shutdown, error) {
	exp, err := stdouttrace.New(stdouttrace.WithWriter(w))
	if err != nil {
		return nil, err
	}

	res := sdkresource.NewWithAttributes(
		semconv.SchemaURL,
		semconv.ServiceName(serviceName),
	)

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exp),
		sdktrace.WithResource(res),
	)
	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{}, propagation.Baggage{},
	))
	return tp.Shutdown, nil
}
