package registry

import (
	"context"
	"testing"

	"github.com/codeready-toolchain/tarsy/pkg/engine"
	"github.com/stretchr/testify/assert"
)

type stubStage struct {
	id   string
	deps []string
}

func (s stubStage) ID() string             { return s.id }
func (s stubStage) Name() string           { return s.id }
func (s stubStage) Type() string           { return "stub" }
func (s stubStage) Dependencies() []string { return s.deps }
func (s stubStage) Validate() error        { return nil }
func (s stubStage) Execute(context.Context, *engine.WorkflowContext, map[string]engine.StageResult) (engine.StageResult, error) {
	return engine.StageResult{}, nil
}

func TestRegistry_RegisterGetList(t *testing.T) {
	r := NewRegistry()

	_, ok := r.Get("llm-council")
	assert.False(t, ok)

	def := engine.WorkflowDefinition{
		ID: "llm-council", Name: "LLM Council", Version: "1.0.0",
		Stages: []engine.Stage{stubStage{id: "parallel-query"}, stubStage{id: "synthesis", deps: []string{"parallel-query"}}},
	}
	r.Register(def)

	got, ok := r.Get("llm-council")
	assert.True(t, ok)
	assert.Equal(t, "LLM Council", got.Name)

	list := r.List()
	assert.Len(t, list, 1)
	assert.Equal(t, Metadata{ID: "llm-council", Name: "LLM Council", Version: "1.0.0", StageCount: 2}, list[0])
}

func TestRegistry_ListSortedByID(t *testing.T) {
	r := NewRegistry()
	r.Register(engine.WorkflowDefinition{ID: "zeta", Name: "Zeta", Version: "1.0.0", Stages: []engine.Stage{stubStage{id: "s"}}})
	r.Register(engine.WorkflowDefinition{ID: "alpha", Name: "Alpha", Version: "1.0.0", Stages: []engine.Stage{stubStage{id: "s"}}})

	list := r.List()
	wantIDs := []string{"alpha", "zeta"}
	got := make([]string, len(list))
	for i, m := range list {
		got[i] = m.ID
	}
	assert.Equal(t, wantIDs, got)
}

func TestRegistry_RegisterReplacesExisting(t *testing.T) {
	r := NewRegistry()
	r.Register(engine.WorkflowDefinition{ID: "wf", Name: "v1", Version: "1.0.0", Stages: []engine.Stage{stubStage{id: "s"}}})
	r.Register(engine.WorkflowDefinition{ID: "wf", Name: "v2", Version: "2.0.0", Stages: []engine.Stage{stubStage{id: "s"}}})

	got, ok := r.Get("wf")
	assert.True(t, ok)
	assert.Equal(t, "v2", got.Name)
}
