package observability

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNoopTracer_StartReturnsUsableSpan(t *testing.T) {
	tracer := NoopTracer{}
	ctx, span := tracer.Start(context.Background(), "stage")
	assert.NotNil(t, ctx)

	span.SetAttribute("stage.type", "parallel-query")
	span.RecordError(errors.New("boom"))
	span.End()
}

func TestNoopMeter_RecordsDiscardSilently(t *testing.T) {
	meter := NoopMeter{}
	meter.StageDuration(context.Background(), "parallel-query", 12, true)
	meter.ModelQuery(context.Background(), "gpt-5", false)
	meter.WorkflowCompleted(context.Background(), "wf-1", 42)
}

func TestInit_DisabledReturnsNoops(t *testing.T) {
	tracer, meter, shutdown, err := Init(context.Background(), false, "council")
	require.NoError(t, err)

	assert.Equal(t, NoopTracer{}, tracer)
	assert.Equal(t, NoopMeter{}, meter)
	require.NoError(t, shutdown(context.Background()))
}

func TestToAttribute_FallsBackToStringForUnknownTypes(t *testing.T) {
	attr := toAttribute("count", uint16(3))
	assert.Equal(t, "count", string(attr.Key))
	assert.Equal(t, "3", attr.Value.AsString())
}
