// Package observability wraps OpenTelemetry tracing and metrics behind
// first-class interfaces so that the rest of the service never imports the
// OTEL SDK directly. Wiring is grounded on
// _examples/nevindra-oasis/observer/observer.go's Init/shutdown pattern,
// generalized from that repo's LLM-pricing instruments to the council's
// own stage/model/workflow instruments.
package observability

import (
	"context"

	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

// Span is the subset of trace.Span this package exposes to callers: enough
// to annotate and close a span without depending on the OTEL API directly.
type Span interface {
	End()
	SetAttribute(key string, value any)
	RecordError(err error)
}

// Tracer starts spans for workflow and stage execution.
type Tracer interface {
	Start(ctx context.Context, name string) (context.Context, Span)
}

// Meter records counters and histograms for the council's domain events:
// stage durations, model query outcomes, workflow completions and durations.
type Meter interface {
	StageDuration(ctx context.Context, stageType string, ms int64, success bool)
	ModelQuery(ctx context.Context, model string, success bool)
	WorkflowCompleted(ctx context.Context, workflowID string, ms int64)
}

// otelSpan adapts trace.Span to Span.
type otelSpan struct{ span trace.Span }

func (s otelSpan) End() { s.span.End() }
func (s otelSpan) SetAttribute(key string, value any) {
	s.span.SetAttributes(toAttribute(key, value))
}
func (s otelSpan) RecordError(err error) { s.span.RecordError(err) }

// otelTracer adapts trace.Tracer to Tracer.
type otelTracer struct{ tracer trace.Tracer }

func (t otelTracer) Start(ctx context.Context, name string) (context.Context, Span) {
	next, span := t.tracer.Start(ctx, name)
	return next, otelSpan{span: span}
}

// otelMeter implements Meter over a set of pre-built OTEL instruments.
type otelMeter struct {
	stageDuration   metric.Float64Histogram
	modelQueries    metric.Int64Counter
	workflowsTotal  metric.Int64Counter
	workflowLatency metric.Float64Histogram
}

func (m *otelMeter) StageDuration(ctx context.Context, stageType string, ms int64, success bool) {
	m.stageDuration.Record(ctx, float64(ms), metric.WithAttributes(
		attrString("stage.type", stageType),
		attrBool("success", success),
	))
}

func (m *otelMeter) ModelQuery(ctx context.Context, model string, success bool) {
	m.modelQueries.Add(ctx, 1, metric.WithAttributes(
		attrString("model", model),
		attrBool("success", success),
	))
}

func (m *otelMeter) WorkflowCompleted(ctx context.Context, workflowID string, ms int64) {
	m.workflowsTotal.Add(ctx, 1, metric.WithAttributes(attrString("workflow.id", workflowID)))
	m.workflowLatency.Record(ctx, float64(ms), metric.WithAttributes(attrString("workflow.id", workflowID)))
}
