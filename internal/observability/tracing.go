package observability

import (
	"context"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

// ServiceName is reported on every span and used as the otelgin server name.
const ServiceName = "realwork-site"

// TracingSettings controls the OpenTelemetry tracer provider.
type TracingSettings struct {
	Enabled     bool
	Endpoint    string
	Environment string
}

// InitTracing installs a global tracer provider. When tracing is disabled the
// returned shutdown func is a no-op.
func InitTracing(ctx context.Context, logger *logrus.Logger, settings TracingSettings) (func(context.Context) error, error) {
	noop := func(context.Context) error { return nil }
	if !settings.Enabled {
		return noop, nil
	}

	res, err := resource.New(ctx, resource.WithAttributes(
		attribute.String("service.name", ServiceName),
		attribute.String("deployment.environment", strings.TrimSpace(settings.Environment)),
	))
	if err != nil {
		return noop, eris.Wrap(err, "building otel resource")
	}

	exporter, err := buildExporter(ctx, settings.Endpoint)
	if err != nil {
		return noop, eris.Wrap(err, "building otel exporter")
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter, sdktrace.WithBatchTimeout(5*time.Second)),
		sdktrace.WithResource(res),
	)
	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))

	if logger != nil {
		logger.WithField("endpoint", settings.Endpoint).Info("otel tracing initialized")
	}
	return tp.Shutdown, nil
}

func buildExporter(ctx context.Context, endpoint string) (sdktrace.SpanExporter, error) {
	endpoint = strings.TrimSpace(endpoint)
	if endpoint != "" {
		return otlptracehttp.New(ctx, otlptracehttp.WithEndpoint(endpoint))
	}
	return stdouttrace.New(stdouttrace.WithPrettyPrint())
}
