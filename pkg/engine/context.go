package engine

import (
	"fmt"

	"github.com/codeready-toolchain/tarsy/pkg/config"
	"github.com/codeready-toolchain/tarsy/pkg/llm"
	"github.com/codeready-toolchain/tarsy/pkg/observability"
	"github.com/codeready-toolchain/tarsy/pkg/storage"
	"github.com/codeready-toolchain/tarsy/pkg/template"
)

// Services is the "services bag" threaded through a workflow execution.
// It is constructed once per request and shared (read-only) across every
// stage in that execution.
type Services struct {
	LLM       llm.Adapter
	Storage   storage.ConversationStore
	Config    *config.Config
	Templates *template.Renderer
	Tracer    observability.Tracer
	Meter     observability.Meter
}

// WorkflowContext is the immutable-per-step carrier of the user query,
// per-stage results, metadata, and service handles described in spec §3.
// A WorkflowContext is owned by exactly one executor invocation for its
// lifetime: stages observe one snapshot, and the executor produces the next
// snapshot by inserting a new StageResult — the old snapshot remains valid
// for any caller still holding it (logical immutability via copy-on-write).
type WorkflowContext struct {
	userQuery    string
	stageResults map[string]StageResult
	metadata     map[string]any
	services     Services
}

// NewContext creates a WorkflowContext with empty results and metadata.
func NewContext(userQuery string, services Services) *WorkflowContext {
	return &WorkflowContext{
		userQuery:    userQuery,
		stageResults: make(map[string]StageResult),
		metadata:     make(map[string]any),
		services:     services,
	}
}

// UserQuery returns the original user query for this execution.
func (c *WorkflowContext) UserQuery() string { return c.userQuery }

// Services returns the shared service handles for this execution.
func (c *WorkflowContext) Services() Services { return c.services }

// Metadata returns the context's metadata map. Callers must not mutate it;
// treat it as a read-only snapshot, same as stageResults.
func (c *WorkflowContext) Metadata() map[string]any { return c.metadata }

// StageResults returns a shallow copy of all stage results recorded so far.
func (c *WorkflowContext) StageResults() map[string]StageResult {
	out := make(map[string]StageResult, len(c.stageResults))
	for k, v := range c.stageResults {
		out[k] = v
	}
	return out
}

// WithStageResult returns a new context whose stageResults includes the
// given entry. The receiver is left untouched.
func (c *WorkflowContext) WithStageResult(stageID string, result StageResult) *WorkflowContext {
	next := make(map[string]StageResult, len(c.stageResults)+1)
	for k, v := range c.stageResults {
		next[k] = v
	}
	next[stageID] = result

	return &WorkflowContext{
		userQuery:    c.userQuery,
		stageResults: next,
		metadata:     c.metadata,
		services:     c.services,
	}
}

// GetResults returns the subset of stageResults matching deps, failing if
// any declared dependency is absent from the context.
func (c *WorkflowContext) GetResults(deps []string) (map[string]StageResult, error) {
	out := make(map[string]StageResult, len(deps))
	for _, dep := range deps {
		r, ok := c.stageResults[dep]
		if !ok {
			return nil, fmt.Errorf("missing dependency result: %q", dep)
		}
		out[dep] = r
	}
	return out, nil
}
