package reactor

import (
	"fmt"
	"sort"
	"strings"
)

// EffectKind identifies the kind of derived action a property change triggers.
type EffectKind int

const (
	// EffectCompute recomputes a computed property from its dependencies.
	EffectCompute EffectKind = iota

	// EffectObserve invokes an observer method with new and old values.
	EffectObserve

	// EffectNotify emits a change event for a notifying property.
	EffectNotify

	// EffectReflect writes the serialized property value to its attribute.
	EffectReflect
)

// String returns the effect kind name.
func (k EffectKind) String() string {
	switch k {
	case EffectCompute:
		return "compute"
	case EffectObserve:
		return "observe"
	case EffectNotify:
		return "notify"
	case EffectReflect:
		return "reflect"
	default:
		return "unknown"
	}
}

// effect is one compiled node of the effect graph.
type effect struct {
	kind EffectKind

	// target is the computed property for compute effects and the source
	// property for notify and reflect effects. Empty for multi-property
	// observers.
	target string

	// method is the registered compute or observer method name.
	method string

	// args is the ordered dependency list that triggers this effect.
	args []string

	// partial permits an observer to fire before every dependency has held
	// a defined value at least once.
	partial bool
}

// effectGraph is the compiled, immutable dependency graph of a definition.
// It is built once at Finalize and shared read-only by all elements.
type effectGraph struct {
	// computed holds compute effects in dependency order: an effect whose
	// target feeds another computed property always precedes it, so a
	// computed-of-computed sees up-to-date inputs exactly once per flush.
	computed []*effect

	// observers holds single-property observers (in property name order)
	// followed by multi-property observers (in declaration order).
	observers []*effect

	// notifying and reflecting hold the property names with the notify and
	// reflect modifiers, in name order.
	notifying  []string
	reflecting []string
}

// observerDecl is an unresolved multi-property observer declaration.
type observerDecl struct {
	method  string
	args    []string
	partial bool
}

// buildEffectGraph compiles finalized descriptors and observer declarations
// into an effectGraph. Configuration problems are reported as details; the
// caller wraps them into a ConfigurationError.
func buildEffectGraph(descs map[string]*descriptor, observers []observerDecl) (*effectGraph, []string) {
	var problems []string
	g := &effectGraph{}

	names := make([]string, 0, len(descs))
	for name := range descs {
		names = append(names, name)
	}
	sort.Strings(names)

	// Compute effects, checked for unknown dependencies and cycles.
	computedByTarget := make(map[string]*effect)
	for _, name := range names {
		d := descs[name]
		if !d.computed() {
			continue
		}
		eff := &effect{
			kind:   EffectCompute,
			target: name,
			method: d.computeMethod,
			args:   d.computeArgs,
		}
		for _, arg := range d.computeArgs {
			if _, ok := descs[arg]; !ok {
				problems = append(problems, fmt.Sprintf("computed property %q depends on undeclared property %q", name, arg))
			}
			if arg == name {
				problems = append(problems, fmt.Sprintf("computed property %q depends on itself", name))
			}
		}
		computedByTarget[name] = eff
	}

	ordered, cycle := orderComputed(computedByTarget)
	if cycle != nil {
		problems = append(problems, fmt.Sprintf("dependency cycle among computed properties: %s", strings.Join(cycle, " -> ")))
	}
	g.computed = ordered

	// Single-property observers declared via the Observer modifier.
	for _, name := range names {
		d := descs[name]
		if d.prop.Observer == "" {
			continue
		}
		g.observers = append(g.observers, &effect{
			kind:   EffectObserve,
			target: name,
			method: d.prop.Observer,
			args:   []string{name},
		})
	}

	// Multi-property observers, in declaration order.
	for _, decl := range observers {
		for _, arg := range decl.args {
			if _, ok := descs[arg]; !ok {
				problems = append(problems, fmt.Sprintf("observer %q depends on undeclared property %q", decl.method, arg))
			}
		}
		if len(decl.args) == 0 {
			problems = append(problems, fmt.Sprintf("observer %q declares no dependencies", decl.method))
		}
		g.observers = append(g.observers, &effect{
			kind:    EffectObserve,
			method:  decl.method,
			args:    decl.args,
			partial: decl.partial,
		})
	}

	// Notify and reflect self-edges.
	for _, name := range names {
		d := descs[name]
		if d.prop.Notify {
			g.notifying = append(g.notifying, name)
		}
		if d.prop.Reflect {
			g.reflecting = append(g.reflecting, name)
		}
	}

	return g, problems
}

// orderComputed sorts compute effects so every effect precedes the computed
// properties that depend on its target. Returns the cycle path when the
// dependency relation is not acyclic.
func orderComputed(byTarget map[string]*effect) ([]*effect, []string) {
	const (
		unvisited = iota
		visiting
		done
	)

	targets := make([]string, 0, len(byTarget))
	for t := range byTarget {
		targets = append(targets, t)
	}
	sort.Strings(targets)

	state := make(map[string]int, len(byTarget))
	ordered := make([]*effect, 0, len(byTarget))
	var cycle []string

	var visit func(target string, path []string) bool
	visit = func(target string, path []string) bool {
		switch state[target] {
		case done:
			return true
		case visiting:
			// Trim the path to the cycle itself.
			for i, p := range path {
				if p == target {
					cycle = append(append([]string{}, path[i:]...), target)
					return false
				}
			}
			cycle = append(append([]string{}, path...), target)
			return false
		}
		state[target] = visiting
		path = append(path, target)
		eff := byTarget[target]
		for _, arg := range eff.args {
			if _, ok := byTarget[arg]; !ok {
				continue
			}
			if !visit(arg, path) {
				return false
			}
		}
		state[target] = done
		ordered = append(ordered, eff)
		return true
	}

	for _, target := range targets {
		if !visit(target, nil) {
			return nil, cycle
		}
	}
	return ordered, nil
}

// dependsOn reports whether the effect has a dependency in the changed set.
func (e *effect) dependsOn(changed map[string]any) bool {
	for _, arg := range e.args {
		if _, ok := changed[arg]; ok {
			return true
		}
	}
	return false
}
