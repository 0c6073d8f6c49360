// Package sse adapts the workflow engine's ProgressSink to an HTTP
// Server-Sent Events stream. Frame encoding is delegated to
// github.com/gin-contrib/sse — a standalone io.Writer-based encoder with
// no dependency on the gin router itself — rather than hand-rolling
// "data: <json>\n\n" framing, since the teacher's go.mod already carries
// this package (promoted here from an indirect transitive dependency of
// gin to a direct one).
package sse

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"

	ginsse "github.com/gin-contrib/sse"

	"github.com/codeready-toolchain/tarsy/pkg/engine"
)

// Sink streams ProgressEvents to an HTTP response as SSE frames. It is a
// single-producer sink per request, matching spec §4.10, and is safe to
// call Emit from only the executor goroutine driving the workflow. Close
// may be called from any goroutine; it takes the same lock as Emit, so it
// waits for an in-progress write to finish rather than interrupting it.
type Sink struct {
	w       http.ResponseWriter
	flusher http.Flusher

	mu     sync.Mutex
	closed bool
}

// NewSink wraps w as a ProgressSink. w must support http.Flusher; if it
// does not, writes still succeed but frames may be buffered by an
// intermediate layer until the response completes.
func NewSink(w http.ResponseWriter) *Sink {
	flusher, _ := w.(http.Flusher)
	return &Sink{w: w, flusher: flusher}
}

// Emit writes event as a single SSE frame and flushes it immediately.
// Write errors (e.g. the client disconnected) are logged and swallowed —
// per spec §4.6/§4.10, a sink failure must never interrupt workflow
// execution.
func (s *Sink) Emit(event engine.ProgressEvent) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return
	}

	payload, err := json.Marshal(event)
	if err != nil {
		slog.Warn("sse sink: failed to marshal progress event", "kind", event.Kind, "error", err)
		return
	}

	if err := ginsse.Encode(s.w, ginsse.Event{Event: string(event.Kind), Data: json.RawMessage(payload)}); err != nil {
		slog.Warn("sse sink: write failed, dropping event", "kind", event.Kind, "error", err)
		return
	}

	if s.flusher != nil {
		s.flusher.Flush()
	}
}

// Close marks the sink closed; subsequent Emit calls become no-ops. It
// does not write a terminal frame itself — the executor's final
// workflow_complete event (or an HTTP-layer error event) is the last
// frame the client sees.
func (s *Sink) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
}
