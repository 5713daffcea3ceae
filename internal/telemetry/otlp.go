// Package telemetry bootstraps OpenTelemetry tracing for paneldeck.
package telemetry

import (
	"context"
	"os"

	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.4.0"
)

const (
	// EndpointEnv enables tracing when set.
	EndpointEnv = "OTEL_EXPORTER_OTLP_ENDPOINT"
	// ServiceNameEnv overrides the reported service name.
	ServiceNameEnv = "OTEL_SERVICE_NAME"
	// DefaultServiceName is used when ServiceNameEnv is unset.
	DefaultServiceName = "paneldeck"
)

// NewProvider creates a tracer provider exporting to the OTLP/HTTP endpoint in
// OTEL_EXPORTER_OTLP_ENDPOINT.
// Returns nil, nil if the endpoint is not configured (tracing disabled).
func NewProvider(ctx context.Context) (*sdktrace.TracerProvider, error) {
	endpoint := os.Getenv(EndpointEnv)
	if endpoint == "" {
		return nil, nil
	}

	exporter, err := otlptracehttp.New(ctx,
		otlptracehttp.WithEndpoint(endpoint),
		otlptracehttp.WithInsecure(), // local collectors only
	)
	if err != nil {
		return nil, err
	}

	return sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(serviceResource()),
	), nil
}

func serviceResource() *resource.Resource {
	name := os.Getenv(ServiceNameEnv)
	if name == "" {
		name = DefaultServiceName
	}
	return resource.NewWithAttributes(
		semconv.SchemaURL,
		semconv.ServiceNameKey.String(name),
	)
}

// Shutdown flushes and stops tp. A nil provider is a no-op.
func Shutdown(ctx context.Context, tp *sdktrace.TracerProvider) error {
	if tp == nil {
		return nil
	}
	return tp.Shutdown(ctx)
}
