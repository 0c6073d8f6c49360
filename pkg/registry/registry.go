// Package registry is the in-process catalog of known workflows (spec
// §4.8, C8), grounded on pkg/config/chain.go's in-memory chain catalog —
// generalized here from YAML-declared agent chains to code-constructed
// WorkflowDefinitions, since the council's three stages are native Go
// types rather than declarative config.
package registry

import (
	"sort"
	"sync"

	"github.com/codeready-toolchain/tarsy/pkg/engine"
)

// Metadata is the catalog-level summary returned by List, omitting the
// stage graph itself.
type Metadata struct {
	ID          string
	Name        string
	Version     string
	Description string
	StageCount  int
}

// Registry is a read-mostly catalog of workflow definitions. Safe for
// concurrent use; workflows are normally registered once at startup.
type Registry struct {
	mu        sync.RWMutex
	workflows map[string]engine.WorkflowDefinition
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{workflows: make(map[string]engine.WorkflowDefinition)}
}

// Register adds or replaces a workflow definition under its ID.
func (r *Registry) Register(def engine.WorkflowDefinition) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.workflows[def.ID] = def
}

// Get returns the workflow registered under id, or false if none exists.
func (r *Registry) Get(id string) (engine.WorkflowDefinition, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	def, ok := r.workflows[id]
	return def, ok
}

// List returns every registered workflow's metadata, sorted by ID for a
// deterministic response.
func (r *Registry) List() []Metadata {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Metadata, 0, len(r.workflows))
	for _, def := range r.workflows {
		out = append(out, Metadata{
			ID:          def.ID,
			Name:        def.Name,
			Version:     def.Version,
			Description: def.Description,
			StageCount:  len(def.Stages),
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}
