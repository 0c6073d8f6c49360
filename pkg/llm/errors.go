package llm

import "fmt"

// UpstreamErrorKind classifies why a model call failed, so callers (and
// the ranking stage's "failed models excluded" rule, spec §4.2) can tell
// a timeout from a malformed response without string matching.
type UpstreamErrorKind string

const (
	ErrKindTimeout   UpstreamErrorKind = "timeout"
	ErrKindHTTP      UpstreamErrorKind = "http_status"
	ErrKindMalformed UpstreamErrorKind = "malformed_response"
	ErrKindTransport UpstreamErrorKind = "transport"
)

// UpstreamError wraps a failed call to a specific model.
type UpstreamError struct {
	Model      string
	Kind       UpstreamErrorKind
	StatusCode int
	Cause      error
}

func (e *UpstreamError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("llm: model %q: %s (status %d): %v", e.Model, e.Kind, e.StatusCode, e.Cause)
	}
	return fmt.Sprintf("llm: model %q: %s: %v", e.Model, e.Kind, e.Cause)
}

func (e *UpstreamError) Unwrap() error { return e.Cause }
