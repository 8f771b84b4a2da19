package reactor

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/zoobzio/capitan"
	"gopkg.in/yaml.v3"
)

// StyleRegistry is the custom-property override surface, an external
// collaborator injected into elements with WithStyles. It is deliberately
// opaque to the effect engine: overrides never enter the effect graph.
//
// Overrides are retained across calls until explicitly cleared by applying a
// nil value for a key. A StyleRegistry may be shared across elements and is
// safe for concurrent use.
type StyleRegistry struct {
	mu        sync.RWMutex
	overrides map[string]string
}

// NewStyleRegistry creates an empty style override registry.
func NewStyleRegistry() *StyleRegistry {
	return &StyleRegistry{overrides: make(map[string]string)}
}

// ApplyOverrides merges the given overrides into the registry. A nil value
// clears the key; all other entries replace or add overrides.
func (s *StyleRegistry) ApplyOverrides(overrides map[string]*string) {
	s.mu.Lock()
	for name, value := range overrides {
		if value == nil {
			delete(s.overrides, name)
			continue
		}
		s.overrides[name] = *value
	}
	s.mu.Unlock()

	capitan.Emit(context.Background(), StylesApplied,
		KeyOverrides.Field(len(overrides)),
	)
}

// Value returns the override for a custom property name.
func (s *StyleRegistry) Value(name string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.overrides[name]
	return v, ok
}

// Snapshot returns a copy of all current overrides.
func (s *StyleRegistry) Snapshot() map[string]string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[string]string, len(s.overrides))
	for name, value := range s.overrides {
		out[name] = value
	}
	return out
}

// Names returns the names of all current overrides, sorted.
func (s *StyleRegistry) Names() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	names := make([]string, 0, len(s.overrides))
	for name := range s.overrides {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Follow applies override payloads from a source until the context is
// canceled. It blocks until the first payload is applied, then continues
// asynchronously. Payloads are YAML or JSON maps of custom property name to
// value; an explicit null clears the key.
func (s *StyleRegistry) Follow(ctx context.Context, src Source) error {
	changes, err := src.Watch(ctx)
	if err != nil {
		return fmt.Errorf("reactor: failed to start style source: %w", err)
	}

	select {
	case <-ctx.Done():
		return ctx.Err()
	case raw, ok := <-changes:
		if !ok {
			return fmt.Errorf("reactor: style source closed before first payload")
		}
		if err := s.applyPayload(raw); err != nil {
			return err
		}
	}

	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case raw, ok := <-changes:
				if !ok {
					return
				}
				// Malformed payloads are skipped; the previous overrides
				// remain in effect.
				_ = s.applyPayload(raw)
			}
		}
	}()
	return nil
}

// applyPayload decodes one override payload and applies it.
func (s *StyleRegistry) applyPayload(raw []byte) error {
	var overrides map[string]*string
	if err := yaml.Unmarshal(raw, &overrides); err != nil {
		return fmt.Errorf("reactor: malformed style overrides: %w", err)
	}
	s.ApplyOverrides(overrides)
	return nil
}
