// Package tracing wires the marketplace into OpenTelemetry. Tracing is
// opt-in: without an OTLP endpoint configured, every call is a no-op and
// the server runs untraced.
package tracing

import (
	"context"
	"log/slog"
	"os"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/sdk/resource"
	"go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
)

// Init installs a global tracer provider backed by an OTLP HTTP
// exporter when OTEL_EXPORTER_OTLP_ENDPOINT is set. The returned
// function flushes and shuts the provider down.
func Init(ctx context.Context, logger *slog.Logger, serviceName, environment string) (func(context.Context) error, error) {
	if logger == nil {
		logger = slog.Default()
	}

	endpoint := os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT")
	if endpoint == "" {
		logger.Info("tracing disabled: OTEL_EXPORTER_OTLP_ENDPOINT not set")
		return func(context.Context) error { return nil }, nil
	}

	exporter, err := otlptracehttp.New(ctx,
		otlptracehttp.WithEndpoint(endpoint),
		otlptracehttp.WithInsecure(),
	)
	if err != nil {
		return nil, err
	}

	res, err := resource.New(ctx,
		resource.WithAttributes(
			semconv.ServiceName(serviceName),
			semconv.DeploymentEnvironment(environment),
		),
	)
	if err != nil {
		return nil, err
	}

	tp := trace.NewTracerProvider(
		trace.WithBatcher(exporter),
		trace.WithResource(res),
	)
	otel.SetTracerProvider(tp)

	logger.Info("tracing initialized",
		slog.String("endpoint", endpoint),
		slog.String("service", serviceName),
	)
	return tp.Shutdown, nil
}
