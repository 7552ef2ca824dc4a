package monitoring

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
)

// OpenTelemetry owns the tracer provider lifecycle for the process.
type OpenTelemetry struct {
	serviceName    string
	environment    string
	endpoint       string
	tracerProvider *sdktrace.TracerProvider
}

func NewOpenTelemetry(serviceName, environment, endpoint string) *OpenTelemetry {
	return &OpenTelemetry{
		serviceName: serviceName,
		environment: environment,
		endpoint:    endpoint,
	}
}

func (m *OpenTelemetry) Start(ctx context.Context) error {
	exporter, err := otlptracehttp.New(ctx,
		otlptracehttp.WithEndpoint(m.endpoint),
		otlptracehttp.WithInsecure(),
	)
	if err != nil {
		return err
	}

	res, err := resource.Merge(
		resource.Default(),
		resource.NewWithAttributes(
			semconv.SchemaURL,
			semconv.ServiceName(m.serviceName),
			semconv.DeploymentEnvironment(m.environment),
		),
	)
	if err != nil {
		return err
	}

	m.tracerProvider = sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
	)

	otel.SetTracerProvider(m.tracerProvider)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))

	return nil
}

func (m *OpenTelemetry) Stop(ctx context.Context) {
	if m.tracerProvider == nil {
		return
	}

	_ = m.tracerProvider.Shutdown(ctx)
}
