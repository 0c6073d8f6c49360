package sse

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/codeready-toolchain/tarsy/pkg/engine"
)

func TestSink_Emit_WritesEventFrame(t *testing.T) {
	rec := httptest.NewRecorder()
	sink := NewSink(rec)

	sink.Emit(engine.ProgressEvent{Kind: engine.EventStageStart, StageID: "parallel-query", Timestamp: time.Now()})

	body := rec.Body.String()
	assert.Contains(t, body, "stage_start")
	assert.Contains(t, body, "data:")
	assert.Contains(t, body, "parallel-query")
}

func TestSink_Emit_MultipleEventsAppend(t *testing.T) {
	rec := httptest.NewRecorder()
	sink := NewSink(rec)

	sink.Emit(engine.ProgressEvent{Kind: engine.EventStageStart, StageID: "a", Timestamp: time.Now()})
	sink.Emit(engine.ProgressEvent{Kind: engine.EventStageComplete, StageID: "a", Timestamp: time.Now()})

	body := rec.Body.String()
	assert.Contains(t, body, "stage_start")
	assert.Contains(t, body, "stage_complete")
}

func TestSink_Close_SuppressesFurtherEmits(t *testing.T) {
	rec := httptest.NewRecorder()
	sink := NewSink(rec)
	sink.Close()

	sink.Emit(engine.ProgressEvent{Kind: engine.EventStageStart, StageID: "a", Timestamp: time.Now()})

	assert.Empty(t, rec.Body.String())
}

func TestSink_Close_IsIdempotent(t *testing.T) {
	rec := httptest.NewRecorder()
	sink := NewSink(rec)
	sink.Close()
	sink.Close()
}
