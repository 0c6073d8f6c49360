package observability

import (
	"context"
	"errors"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
)

const scopeName = "github.com/codeready-toolchain/tarsy/council"

// ShutdownFunc flushes and releases exporter resources. It is safe to call
// once, at process exit.
type ShutdownFunc func(context.Context) error

// Init sets up OTLP-HTTP trace and metric exporters configured from the
// standard OTEL_* environment variables (OTEL_EXPORTER_OTLP_ENDPOINT and
// friends), matching _examples/nevindra-oasis/observer.Init. When enabled
// is false it returns the no-op implementations instead, so a deployment
// with no collector configured pays no OTEL cost.
func Init(ctx context.Context, enabled bool, serviceName string) (Tracer, Meter, ShutdownFunc, error) {
	if !enabled {
		return NoopTracer{}, NoopMeter{}, func(context.Context) error { return nil }, nil
	}

	res, err := resource.New(ctx,
		resource.WithAttributes(semconv.ServiceName(serviceName)),
		resource.WithFromEnv(),
	)
	if err != nil {
		return nil, nil, nil, err
	}

	traceExp, err := otlptracehttp.New(ctx)
	if err != nil {
		return nil, nil, nil, err
	}
	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(traceExp),
		sdktrace.WithResource(res),
	)
	otel.SetTracerProvider(tp)

	metricExp, err := otlpmetrichttp.New(ctx)
	if err != nil {
		_ = tp.Shutdown(ctx)
		return nil, nil, nil, err
	}
	mp := sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(sdkmetric.NewPeriodicReader(metricExp)),
		sdkmetric.WithResource(res),
	)
	otel.SetMeterProvider(mp)

	meter, err := newOtelMeter(mp.Meter(scopeName))
	if err != nil {
		_ = tp.Shutdown(ctx)
		_ = mp.Shutdown(ctx)
		return nil, nil, nil, err
	}

	shutdown := func(ctx context.Context) error {
		return errors.Join(tp.Shutdown(ctx), mp.Shutdown(ctx))
	}

	return otelTracer{tracer: tp.Tracer(scopeName)}, meter, shutdown, nil
}

func newOtelMeter(meter metric.Meter) (*otelMeter, error) {
	stageDuration, err := meter.Float64Histogram("council.stage.duration",
		metric.WithDescription("Stage execution duration in milliseconds"),
		metric.WithUnit("ms"))
	if err != nil {
		return nil, err
	}

	modelQueries, err := meter.Int64Counter("council.model.queries",
		metric.WithDescription("Upstream model query count"),
		metric.WithUnit("{query}"))
	if err != nil {
		return nil, err
	}

	workflowsTotal, err := meter.Int64Counter("council.workflow.completed",
		metric.WithDescription("Completed workflow executions"),
		metric.WithUnit("{workflow}"))
	if err != nil {
		return nil, err
	}

	workflowLatency, err := meter.Float64Histogram("council.workflow.duration",
		metric.WithDescription("Workflow execution duration in milliseconds"),
		metric.WithUnit("ms"))
	if err != nil {
		return nil, err
	}

	return &otelMeter{
		stageDuration:   stageDuration,
		modelQueries:    modelQueries,
		workflowsTotal:  workflowsTotal,
		workflowLatency: workflowLatency,
	}, nil
}
