package reactor

import (
	"fmt"
	"sort"
	"sync"
)

// Registry manages finalized definitions by component name. Registration
// rejects collisions up front so misconfiguration surfaces before any
// element is minted.
//
// A Registry is safe for concurrent use.
type Registry struct {
	mu   sync.RWMutex
	defs map[string]*Definition
}

// NewRegistry creates an empty definition registry.
func NewRegistry() *Registry {
	return &Registry{defs: make(map[string]*Definition)}
}

// Add registers definitions. Each must already be finalized; a name
// collision is a ConfigurationError.
func (r *Registry) Add(defs ...*Definition) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, def := range defs {
		if !def.finalized {
			return fmt.Errorf("%w: %q", ErrNotFinalized, def.name)
		}
		if _, exists := r.defs[def.name]; exists {
			return &ConfigurationError{Definition: def.name, Detail: "definition name already registered"}
		}
		r.defs[def.name] = def
	}
	return nil
}

// Lookup resolves a definition by component name.
func (r *Registry) Lookup(name string) (*Definition, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	def, ok := r.defs[name]
	return def, ok
}

// NewElement creates an element of the named definition.
func (r *Registry) NewElement(name string, opts ...ElementOption) (*Element, error) {
	def, ok := r.Lookup(name)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownDefinition, name)
	}
	return def.NewElement(opts...)
}

// Names returns the registered component names, sorted.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.defs))
	for name := range r.defs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
