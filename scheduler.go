package reactor

import (
	"context"

	"github.com/zoobzio/capitan"
)

// flush drains the pending set in synchronous passes until no staged changes
// remain. Writes made by observers during a pass are staged and handled by a
// follow-up pass after the current one completes, so no effect processed in
// one pass can re-run within that pass, while chained reactions still settle
// before flush returns.
func (e *Element) flush(ctx context.Context) {
	if e.flushing {
		return
	}
	e.flushing = true
	defer func() { e.flushing = false }()

	for len(e.pending) > 0 {
		e.flushPass(ctx)
	}
}

// flushPass resolves one consistent snapshot of pending changes:
// computed properties in dependency order, then observers, then notify
// events, then attribute reflection.
func (e *Element) flushPass(ctx context.Context) {
	start := e.clock.Now()
	changed := e.pending
	e.pending = make(map[string]any)

	// Writes that settled back to their pre-flush value are not changes.
	for name, old := range changed {
		desc, _ := e.def.descriptorFor(name)
		if valueEqual(desc.prop.Type, old, e.values[name]) {
			delete(changed, name)
		}
	}
	if len(changed) == 0 {
		return
	}

	g := e.def.graph

	// Computed properties recompute in dependency order, each newly computed
	// value marked changed in turn so downstream effects observe it.
	for _, eff := range g.computed {
		if !eff.dependsOn(changed) || !e.allDefined(eff.args) {
			continue
		}
		req := &EffectRequest{
			Element:  e,
			Kind:     EffectCompute,
			Property: eff.target,
			Method:   eff.method,
			Values:   e.valuesOf(eff.args),
		}
		req, err := e.def.pipeline.Process(ctx, req)
		if err != nil {
			e.recordEffectError(ctx, eff, err)
			continue
		}
		desc, _ := e.def.descriptorFor(eff.target)
		result := normalizeForType(desc.prop.Type, req.Result)
		old := e.values[eff.target]
		if valueEqual(desc.prop.Type, old, result) && (e.defined[eff.target] || result == nil) {
			continue
		}
		if _, already := changed[eff.target]; !already {
			changed[eff.target] = old
		}
		e.values[eff.target] = result
		e.defined[eff.target] = true
	}

	// Observers fire once per pass when any dependency changed, after every
	// dependency has held a defined value (unless declared partial).
	for _, eff := range g.observers {
		if !eff.dependsOn(changed) {
			continue
		}
		if !eff.partial && !e.allDefined(eff.args) {
			continue
		}
		old := make([]any, len(eff.args))
		for i, arg := range eff.args {
			if ov, ok := changed[arg]; ok {
				old[i] = ov
			} else {
				old[i] = e.values[arg]
			}
		}
		req := &EffectRequest{
			Element:  e,
			Kind:     EffectObserve,
			Property: eff.target,
			Method:   eff.method,
			Values:   e.valuesOf(eff.args),
			Old:      old,
		}
		if _, err := e.def.pipeline.Process(ctx, req); err != nil {
			e.recordEffectError(ctx, eff, err)
		}
	}

	// One change event per changed notifying property, carrying the final
	// value of the pass.
	for _, name := range g.notifying {
		old, ok := changed[name]
		if !ok {
			continue
		}
		ev := ChangeEvent{
			Definition: e.def.name,
			Property:   name,
			Value:      e.values[name],
			Old:        old,
			Timestamp:  e.clock.Now(),
		}
		e.def.metrics.OnNotify(name)
		capitan.Emit(ctx, NotifyEmitted,
			KeyDefinition.Field(e.def.name),
			KeyProperty.Field(name),
		)
		for _, fn := range e.listeners[name] {
			fn(ev)
		}
		for _, fn := range e.listeners[""] {
			fn(ev)
		}
	}

	// Attribute reflection.
	for _, name := range g.reflecting {
		if _, ok := changed[name]; !ok {
			continue
		}
		desc, _ := e.def.descriptorFor(name)
		s, remove, err := SerializeAttribute(e.values[name], desc.prop.Type)
		if err != nil {
			e.recordEffectError(ctx, &effect{kind: EffectReflect, target: name}, err)
			continue
		}
		if remove {
			delete(e.attrs, desc.attribute)
			if e.host != nil {
				e.host.RemoveAttribute(desc.attribute)
			}
		} else {
			e.attrs[desc.attribute] = s
			if e.host != nil {
				e.host.SetAttribute(desc.attribute, s)
			}
		}
	}

	e.def.metrics.OnFlush(e.clock.Now().Sub(start), len(changed))
	capitan.Emit(ctx, FlushCompleted,
		KeyDefinition.Field(e.def.name),
		KeyChanged.Field(len(changed)),
	)
}

// allDefined reports whether every named property has held a defined value.
func (e *Element) allDefined(names []string) bool {
	for _, name := range names {
		if !e.defined[name] {
			return false
		}
	}
	return true
}

// valuesOf snapshots current values in declaration order.
func (e *Element) valuesOf(names []string) []any {
	values := make([]any, len(names))
	for i, name := range names {
		values[i] = e.values[name]
	}
	return values
}

// recordEffectError applies the failure isolation policy: the failing effect
// is skipped and recorded, the rest of the flush continues. A computed
// property whose method failed keeps its previous value.
func (e *Element) recordEffectError(ctx context.Context, eff *effect, err error) {
	ee := &EffectExecutionError{
		Definition: e.def.name,
		Kind:       eff.kind,
		Method:     eff.method,
		Property:   eff.target,
		Err:        err,
	}
	wrapped := error(ee)
	e.lastError.Store(&wrapped)
	e.history.push(ee)
	e.def.metrics.OnEffectFailure(eff.kind, eff.method)
	capitan.Emit(ctx, EffectFailed,
		KeyDefinition.Field(e.def.name),
		KeyEffect.Field(eff.kind.String()),
		KeyMethod.Field(eff.method),
		KeyError.Field(err.Error()),
	)
}
