package engine

import (
	"context"
	"log/slog"
	"time"

	"github.com/codeready-toolchain/tarsy/pkg/observability"
)

// WorkflowResult is the terminal outcome of a successful workflow execution
// (spec §3).
type WorkflowResult struct {
	WorkflowID      string                 `json:"workflowId"`
	WorkflowVersion string                 `json:"workflowVersion"`
	StageResults    map[string]StageResult `json:"stageResults"`
	Metadata        map[string]any         `json:"metadata"`
	ExecutionTimeMs int64                  `json:"executionTimeMs"`
	StartedAt       time.Time              `json:"startedAt"`
	CompletedAt     time.Time              `json:"completedAt"`
}

// Executor drives a WorkflowDefinition's stages to completion in
// topological order, threading an evolving WorkflowContext through them and
// emitting ProgressEvents as it goes (spec §4.6).
//
// Stages never run concurrently with each other in this release — the
// bottleneck is the model calls inside a stage, not stage-to-stage overlap
// (spec §4.6, §9 open question 2). A future revision may relax this without
// changing the observable event-ordering contract.
type Executor struct{}

// NewExecutor creates a workflow executor. Stateless: safe to share across
// concurrent requests, and safe to construct once per request.
func NewExecutor() *Executor {
	return &Executor{}
}

// Execute validates def, then runs its stages to completion. On a stage
// failure the workflow aborts immediately and the stage's error is returned
// unmodified; no compensating actions are taken. sink may be nil, in which
// case progress events are discarded.
func (e *Executor) Execute(ctx context.Context, def WorkflowDefinition, userQuery string, services Services, sink ProgressSink) (*WorkflowResult, error) {
	if sink == nil {
		sink = NoopProgressSink{}
	}

	ordered, err := planExecution(def)
	if err != nil {
		return nil, err
	}

	startedAt := time.Now()
	wfCtx := NewContext(userQuery, services)

	for _, stage := range ordered {
		if err := ctx.Err(); err != nil {
			return nil, WrapStageExecutionError(stage.ID(), "workflow cancelled before stage dispatch", err)
		}

		safeEmit(sink, ProgressEvent{Kind: EventStageStart, StageID: stage.ID(), Timestamp: time.Now()})

		deps, err := wfCtx.GetResults(stage.Dependencies())
		if err != nil {
			stageErr := WrapStageExecutionError(stage.ID(), "failed to assemble dependency results", err)
			safeEmit(sink, ProgressEvent{Kind: EventStageError, StageID: stage.ID(), Error: stageErr.Error(), Timestamp: time.Now()})
			return nil, stageErr
		}

		stageStartedAt := time.Now()
		result, err := stage.Execute(ctx, wfCtx, deps)
		recordStageDuration(ctx, services.Meter, stage.Type(), stageStartedAt, err == nil)
		if err != nil {
			safeEmit(sink, ProgressEvent{Kind: EventStageError, StageID: stage.ID(), Error: err.Error(), Timestamp: time.Now()})
			return nil, err
		}

		wfCtx = wfCtx.WithStageResult(stage.ID(), result)
		safeEmit(sink, ProgressEvent{
			Kind:      EventStageComplete,
			StageID:   stage.ID(),
			Data:      result.Data,
			Metadata:  result.Metadata,
			Timestamp: time.Now(),
		})
	}

	completedAt := time.Now()
	wfResult := &WorkflowResult{
		WorkflowID:      def.ID,
		WorkflowVersion: def.Version,
		StageResults:    wfCtx.StageResults(),
		Metadata:        wfCtx.Metadata(),
		ExecutionTimeMs: completedAt.Sub(startedAt).Milliseconds(),
		StartedAt:       startedAt,
		CompletedAt:     completedAt,
	}

	if services.Meter != nil {
		services.Meter.WorkflowCompleted(ctx, def.ID, wfResult.ExecutionTimeMs)
	}

	safeEmit(sink, ProgressEvent{Kind: EventWorkflowComplete, Summary: wfResult, Timestamp: completedAt})

	return wfResult, nil
}

func recordStageDuration(ctx context.Context, meter observability.Meter, stageType string, startedAt time.Time, success bool) {
	if meter == nil {
		return
	}
	meter.StageDuration(ctx, stageType, time.Since(startedAt).Milliseconds(), success)
}

// safeEmit isolates the executor from a misbehaving sink: a panicking Emit
// must not take the workflow down with it (spec §4.6 — sink failures are
// best-effort and swallowed).
func safeEmit(sink ProgressSink, event ProgressEvent) {
	defer func() {
		if r := recover(); r != nil {
			slog.Warn("progress sink panicked during Emit, dropping event", "kind", event.Kind, "recovered", r)
		}
	}()
	sink.Emit(event)
}
