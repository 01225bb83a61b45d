// Package telemetry configures OpenTelemetry tracing for outbound Comic Vine
// calls.
package telemetry

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
)

type Config struct {
	Enabled  bool   `env:"COMIC_VINE_OTEL_ENABLED" yaml:"enabled"`
	Endpoint string `env:"OTEL_EXPORTER_OTLP_ENDPOINT" yaml:"endpoint"`
}

// Setup initialises tracing for the given service.
//
// Tracing is opt-in: unless cfg is enabled with an endpoint, Setup returns a
// no-op provider and a no-op shutdown function and registers nothing
// globally. The shutdown function flushes pending spans.
func Setup(ctx context.Context, serviceName, version string, cfg Config) (trace.TracerProvider, func(context.Context) error, error) {
	shutdownNoop := func(context.Context) error { return nil }
	if !cfg.Enabled || cfg.Endpoint == "" {
		return noop.NewTracerProvider(), shutdownNoop, nil
	}

	exporter, err := otlptracehttp.New(ctx, otlptracehttp.WithEndpointURL(cfg.Endpoint))
	if err != nil {
		return nil, shutdownNoop, err
	}

	res, err := resource.New(ctx,
		resource.WithAttributes(
			semconv.ServiceName(serviceName),
			semconv.ServiceVersion(version),
		),
	)
	if err != nil {
		return nil, shutdownNoop, err
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
		sdktrace.WithSampler(sdktrace.AlwaysSample()),
	)
	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.TraceContext{})

	return tp, tp.Shutdown, nil
}
