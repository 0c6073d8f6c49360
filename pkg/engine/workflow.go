package engine

import (
	"fmt"
	"sync"
)

// WorkflowConfig carries the optional per-workflow tunables from spec §3.
// MaxRetries is reserved: the executor never retries a failed stage in this
// release (spec §7).
type WorkflowConfig struct {
	TimeoutMs        int
	MaxRetries       int
	StreamingEnabled bool
}

// WorkflowDefinition is the acyclic, validated collection of stages
// identified by ID, name, and version (spec §3).
type WorkflowDefinition struct {
	ID          string
	Name        string
	Version     string
	Description string
	Stages      []Stage
	Config      WorkflowConfig
}

// WorkflowDefinitionError reports a structural problem with a
// WorkflowDefinition discovered before any stage runs: missing required
// fields, duplicate stage IDs, or a dependency naming an unknown stage.
type WorkflowDefinitionError struct {
	WorkflowID        string
	MissingDependency string
	Message           string
}

func (e *WorkflowDefinitionError) Error() string {
	if e.MissingDependency != "" {
		return fmt.Sprintf("workflow %q: unknown stage referenced as dependency: %q", e.WorkflowID, e.MissingDependency)
	}
	return fmt.Sprintf("workflow %q: %s", e.WorkflowID, e.Message)
}

// planExecution validates def (spec §4.4, steps 1-5) and returns stages in
// a topological order: every stage appears after all of its dependencies.
// Stages with no dependencies come first, in their def.Stages order; every
// other stage is placed after the stage that completes its dependencies,
// in the order those completions happen. The plan is deterministic for a
// deterministic input.
//
// Cycle detection surfaces as a *StageExecutionError (not a
// WorkflowDefinitionError) per spec §4.4 step 5 — a cycle is a property of
// the stage graph's runtime shape, not a structural field-level defect.
func planExecution(def WorkflowDefinition) ([]Stage, error) {
	if def.ID == "" || def.Name == "" || def.Version == "" {
		return nil, &WorkflowDefinitionError{WorkflowID: def.ID, Message: "workflow requires id, name, and version"}
	}
	if len(def.Stages) == 0 {
		return nil, &WorkflowDefinitionError{WorkflowID: def.ID, Message: "workflow must declare at least one stage"}
	}

	byID := make(map[string]Stage, len(def.Stages))
	for _, s := range def.Stages {
		if _, dup := byID[s.ID()]; dup {
			return nil, &WorkflowDefinitionError{WorkflowID: def.ID, Message: fmt.Sprintf("duplicate stage id %q", s.ID())}
		}
		byID[s.ID()] = s
	}

	for _, s := range def.Stages {
		for _, dep := range s.Dependencies() {
			if _, ok := byID[dep]; !ok {
				return nil, &WorkflowDefinitionError{WorkflowID: def.ID, MissingDependency: dep}
			}
		}
	}

	ordered, err := topologicalSort(def.Stages, byID)
	if err != nil {
		return nil, err
	}

	if err := validateStages(def.Stages); err != nil {
		return nil, err
	}

	return ordered, nil
}

// topologicalSort runs Kahn's algorithm over the dependency graph (edge:
// dependency -> dependent). A node left unvisited after the queue drains
// means a cycle exists among the remaining nodes.
func topologicalSort(stages []Stage, byID map[string]Stage) ([]Stage, error) {
	indegree := make(map[string]int, len(stages))
	dependents := make(map[string][]string, len(stages))

	for _, s := range stages {
		if _, ok := indegree[s.ID()]; !ok {
			indegree[s.ID()] = 0
		}
		for _, dep := range s.Dependencies() {
			indegree[s.ID()]++
			dependents[dep] = append(dependents[dep], s.ID())
		}
	}

	var queue []string
	for _, s := range stages {
		if indegree[s.ID()] == 0 {
			queue = append(queue, s.ID())
		}
	}

	var orderedIDs []string
	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		orderedIDs = append(orderedIDs, id)

		for _, next := range dependents[id] {
			indegree[next]--
			if indegree[next] == 0 {
				queue = append(queue, next)
			}
		}
	}

	if len(orderedIDs) != len(stages) {
		return nil, NewStageExecutionError("workflow", "circular dependencies detected among stages")
	}

	ordered := make([]Stage, len(orderedIDs))
	for i, id := range orderedIDs {
		ordered[i] = byID[id]
	}
	return ordered, nil
}

// validateStages runs every stage's Validate() concurrently; the first
// error observed wins (spec §4.4 step 6).
func validateStages(stages []Stage) error {
	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		firstErr error
	)

	for _, s := range stages {
		wg.Add(1)
		go func(s Stage) {
			defer wg.Done()
			if err := s.Validate(); err != nil {
				mu.Lock()
				if firstErr == nil {
					firstErr = WrapStageExecutionError(s.ID(), "validation failed", err)
				}
				mu.Unlock()
			}
		}(s)
	}
	wg.Wait()

	return firstErr
}
