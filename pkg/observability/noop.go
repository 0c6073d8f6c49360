package observability

import "context"

// NoopTracer discards every span. Used when observability is unconfigured.
type NoopTracer struct{}

func (NoopTracer) Start(ctx context.Context, _ string) (context.Context, Span) {
	return ctx, NoopSpan{}
}

// NoopSpan discards every call.
type NoopSpan struct{}

func (NoopSpan) End()                         {}
func (NoopSpan) SetAttribute(_ string, _ any) {}
func (NoopSpan) RecordError(_ error)          {}

// NoopMeter discards every recorded measurement.
type NoopMeter struct{}

func (NoopMeter) StageDuration(_ context.Context, _ string, _ int64, _ bool) {}
func (NoopMeter) ModelQuery(_ context.Context, _ string, _ bool)             {}
func (NoopMeter) WorkflowCompleted(_ context.Context, _ string, _ int64)     {}
