// Package llm is the council's upstream model client: a single-model Query
// plus a concurrent QueryParallel fan-out used by the parallel-query stage.
//
// The teacher talks to its LLM backend over gRPC (pkg/agent/llm_grpc.go,
// proto/llm.proto), but the generated proto package that client depends on
// is not present anywhere in the retrieved example pack and go-generating
// it is outside this exercise's reach. spec.md's own config keys
// (OPENROUTER_API_KEY, OPENROUTER_API_URL) point at a plain HTTP JSON API
// in any case, so Adapter is implemented as an HTTP client instead, keeping
// the teacher's per-call deadline and error-classification conventions
// from llm_grpc.go without its transport.
package llm

import (
	"context"
	"time"
)

// Message is one turn in a chat-style prompt sent to a model.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Response is a successful model reply. Reasoning is passed through
// verbatim when an upstream includes a reasoning/thinking field; the
// council does not interpret it.
type Response struct {
	Model        string
	Content      string
	Reasoning    any
	LatencyMs    int64
	PromptTokens int
	OutputTokens int
}

// Adapter queries upstream language models. Implementations must honor
// ctx cancellation and must never panic on malformed upstream output —
// errors are returned, not raised.
type Adapter interface {
	// Query sends messages to model and returns its reply. maxTokens of 0
	// means "use the adapter's default".
	Query(ctx context.Context, model string, messages []Message, maxTokens int) (*Response, error)

	// QueryParallel dispatches Query to every model concurrently (one
	// goroutine per model, spec §4.2/§5) and returns a result per model.
	// A model's entry is nil if that model's call failed; QueryParallel
	// itself only returns an error for a context already done on entry.
	QueryParallel(ctx context.Context, models []string, messages []Message, maxTokens int) (map[string]*Response, error)
}

// ModelResult pairs a model name with its outcome, used internally to
// shuttle results back from per-model goroutines over a channel — the
// same push-based delivery shape as
// pkg/agent/orchestrator/runner.go's SubAgentRunner result channel.
type ModelResult struct {
	Model    string
	Response *Response
	Err      error
}

// queryTimeout bounds a single model call so one slow upstream can't stall
// an entire parallel-query stage indefinitely.
const queryTimeout = 60 * time.Second
