package reactor

import (
	"context"
	"fmt"
	"reflect"
	"sort"
	"sync/atomic"
	"time"

	"github.com/zoobzio/capitan"
	"github.com/zoobzio/clockz"
)

// Host receives attribute reflection writes from an element. Hosting DOM
// runtimes implement this to mirror property values onto real attributes;
// when no host is injected the element keeps an internal attribute map,
// readable through Attribute.
type Host interface {
	// SetAttribute writes the serialized attribute value.
	SetAttribute(name, value string)

	// RemoveAttribute removes the attribute.
	RemoveAttribute(name string)
}

// Element is one instance of a component definition: it owns the instance
// property state, the stamped template fragment, and the lifecycle position.
//
// All effect propagation for an element happens synchronously within the
// call stack of the triggering property write, so an Element is exclusively
// owned: its accessors and lifecycle entry points must be called from a
// single goroutine. The definition it references is immutable and safely
// shared across elements.
type Element struct {
	def    *Definition
	host   Host
	styles *StyleRegistry
	clock  clockz.Clock
	ctx    context.Context

	state atomic.Int32

	values  map[string]any
	defined map[string]bool

	// pending maps each property written since the last flush to the value
	// it held before the first of those writes.
	pending  map[string]any
	flushing bool

	stamped  bool
	fragment *Fragment

	attrs     map[string]string
	listeners map[string][]func(ChangeEvent)

	lastError atomic.Pointer[error]
	history   *effectRing
}

// ElementOption configures an element at construction time.
type ElementOption func(*Element)

// WithHost injects the attribute reflection sink.
func WithHost(h Host) ElementOption {
	return func(e *Element) { e.host = h }
}

// WithStyles injects the style override collaborator. The element treats it
// as opaque; it never participates in the effect graph.
func WithStyles(s *StyleRegistry) ElementOption {
	return func(e *Element) { e.styles = s }
}

// WithClock sets a custom clock for change event timestamps.
// Use clockz.NewFakeClock for deterministic tests.
func WithClock(clock clockz.Clock) ElementOption {
	return func(e *Element) { e.clock = clock }
}

// WithEffectHistory retains up to n recent effect failures, readable through
// EffectErrors. By default only the most recent failure is kept.
func WithEffectHistory(n int) ElementOption {
	return func(e *Element) { e.history = newEffectRing(n) }
}

// NewElement creates an element of the definition and applies declared
// defaults through the accessor layer. Defaults are staged, not flushed:
// they become visible in the consolidated first flush at first attach.
func (d *Definition) NewElement(opts ...ElementOption) (*Element, error) {
	if !d.finalized {
		return nil, ErrNotFinalized
	}
	e := &Element{
		def:       d,
		clock:     clockz.RealClock,
		ctx:       context.Background(),
		values:    make(map[string]any, len(d.descriptors)),
		defined:   make(map[string]bool, len(d.descriptors)),
		pending:   make(map[string]any),
		attrs:     make(map[string]string),
		listeners: make(map[string][]func(ChangeEvent)),
	}
	for _, opt := range opts {
		opt(e)
	}
	capitan.Emit(e.ctx, ElementCreated, KeyDefinition.Field(d.name))

	e.setState(StateInitializing)
	names := make([]string, 0, len(d.descriptors))
	for name := range d.descriptors {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		desc := d.descriptors[name]
		if desc.prop.Default != nil {
			e.stage(desc, desc.prop.Default)
		}
	}
	return e, nil
}

// Definition returns the element's component definition.
func (e *Element) Definition() *Definition {
	return e.def
}

// State returns the element's current lifecycle state.
func (e *Element) State() LifecycleState {
	return LifecycleState(e.state.Load())
}

// Styles returns the injected style override collaborator, or nil.
func (e *Element) Styles() *StyleRegistry {
	return e.styles
}

// Fragment returns the element's stamped template fragment, or nil before
// stamping and after destruction.
func (e *Element) Fragment() *Fragment {
	return e.fragment
}

// Set writes a property through the public setter path. Writes to read-only
// and computed properties are silently ignored. If the element is attached,
// all resulting effects run synchronously before Set returns; otherwise the
// write is staged for the next flush.
func (e *Element) Set(property string, value any) error {
	if e.State() == StateDestroyed {
		return ErrDestroyed
	}
	desc, ok := e.def.descriptorFor(property)
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownProperty, property)
	}
	if desc.readOnly() {
		return nil
	}
	e.stage(desc, value)
	return nil
}

// SetInternal writes a property through the private setter path, the only
// legitimate write for read-only properties. Component implementations own
// this entry point; external consumers use Set. Computed properties are
// never assigned directly, even here.
func (e *Element) SetInternal(property string, value any) error {
	if e.State() == StateDestroyed {
		return ErrDestroyed
	}
	desc, ok := e.def.descriptorFor(property)
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownProperty, property)
	}
	if desc.computed() {
		return nil
	}
	e.stage(desc, value)
	return nil
}

// Get returns a property's current value and whether it has ever held a
// defined value.
func (e *Element) Get(property string) (any, bool) {
	if !e.defined[property] {
		return nil, false
	}
	return e.values[property], true
}

// Attribute returns the element's internally mirrored attribute value.
// Meaningful only when no Host is injected.
func (e *Element) Attribute(name string) (string, bool) {
	v, ok := e.attrs[name]
	return v, ok
}

// AttributeChanged is the entry point invoked by the hosting runtime when an
// observed attribute changes. A nil new value means the attribute was
// removed. The value is deserialized per the declared type and forwarded
// through the public setter path; attributes never set read-only or computed
// properties.
//
// On a coercion failure the write is discarded, the prior property value is
// retained, and the DeserializationError is returned to the caller.
func (e *Element) AttributeChanged(name string, _, value *string) error {
	if e.State() == StateDestroyed {
		return ErrDestroyed
	}
	property := ToPropertyName(name)
	desc, ok := e.def.descriptorFor(property)
	if !ok {
		return fmt.Errorf("%w: attribute %q", ErrUnknownProperty, name)
	}
	if desc.readOnly() {
		return nil
	}
	v, err := DeserializeAttribute(property, value, desc.prop.Type)
	if err != nil {
		capitan.Emit(e.ctx, AttributeRejected,
			KeyDefinition.Field(e.def.name),
			KeyAttribute.Field(name),
			KeyError.Field(err.Error()),
		)
		e.def.metrics.OnAttributeRejected(name)
		return err
	}
	e.stage(desc, v)
	return nil
}

// Connect attaches the element to its host. The first call stamps the
// template exactly once, then runs the consolidated first flush covering
// defaults and any writes staged since construction. Reconnecting after
// Disconnect replays writes staged while detached.
func (e *Element) Connect(ctx context.Context) error {
	switch e.State() {
	case StateDestroyed:
		return ErrDestroyed
	case StateAttached:
		return ErrAttached
	}
	if ctx == nil {
		ctx = context.Background()
	}
	e.ctx = ctx

	if !e.stamped {
		if e.def.template != nil {
			frag, err := stamp(ctx, e.def.template)
			if err != nil {
				return fmt.Errorf("reactor: stamping template for %q: %w", e.def.name, err)
			}
			e.fragment = frag
		}
		e.stamped = true
		e.setState(StateStamped)
	}

	e.setState(StateAttached)
	capitan.Emit(ctx, ElementConnected, KeyDefinition.Field(e.def.name))
	e.flush(ctx)
	return nil
}

// Disconnect detaches the element. Flushing is suspended: property writes
// are still staged, never lost, and replay on the next Connect.
func (e *Element) Disconnect() error {
	switch e.State() {
	case StateDestroyed:
		return ErrDestroyed
	case StateAttached:
		e.setState(StateDisconnected)
		capitan.Emit(e.ctx, ElementDisconnected, KeyDefinition.Field(e.def.name))
		return nil
	case StateDisconnected:
		return nil
	default:
		return ErrNotAttached
	}
}

// Destroy releases the element's owned fragment and state. All subsequent
// operations return ErrDestroyed.
func (e *Element) Destroy() error {
	if e.State() == StateDestroyed {
		return ErrDestroyed
	}
	e.setState(StateDestroyed)
	e.fragment = nil
	e.values = nil
	e.defined = nil
	e.pending = nil
	e.attrs = nil
	e.listeners = nil
	capitan.Emit(e.ctx, ElementDestroyed, KeyDefinition.Field(e.def.name))
	return nil
}

// Update runs fn with flushing suspended, then resolves every property
// written by fn in a single flush. Writes to the same dependency set made
// inside fn trigger each dependent effect once, not once per write.
func (e *Element) Update(fn func()) error {
	if e.State() == StateDestroyed {
		return ErrDestroyed
	}
	if e.flushing {
		fn()
		return nil
	}
	e.flushing = true
	defer func() { e.flushing = false }()
	fn()
	e.flushing = false
	if e.State() == StateAttached {
		e.flush(e.ctx)
	}
	return nil
}

// OnChange subscribes to change events for a notifying property. Pass an
// empty property name to receive events for every notifying property.
func (e *Element) OnChange(property string, fn func(ChangeEvent)) error {
	if e.State() == StateDestroyed {
		return ErrDestroyed
	}
	if property != "" {
		desc, ok := e.def.descriptorFor(property)
		if !ok {
			return fmt.Errorf("%w: %q", ErrUnknownProperty, property)
		}
		if !desc.prop.Notify {
			return fmt.Errorf("reactor: property %q of %q does not notify", property, e.def.name)
		}
	}
	e.listeners[property] = append(e.listeners[property], fn)
	return nil
}

// LastEffectError returns the most recent effect failure, or nil.
func (e *Element) LastEffectError() error {
	ptr := e.lastError.Load()
	if ptr == nil {
		return nil
	}
	return *ptr
}

// EffectErrors returns the recent effect failure history, oldest first.
// Returns nil unless WithEffectHistory was set.
func (e *Element) EffectErrors() []error {
	return e.history.all()
}

// setState records a lifecycle transition.
func (e *Element) setState(to LifecycleState) {
	from := LifecycleState(e.state.Swap(int32(to)))
	if from == to {
		return
	}
	e.def.metrics.OnStateChange(from, to)
	capitan.Emit(e.ctx, ElementStateChanged,
		KeyDefinition.Field(e.def.name),
		KeyOldState.Field(from.String()),
		KeyNewState.Field(to.String()),
	)
}

// stage detects a value change and records the property into the pending
// set, flushing synchronously when the element is attached and no flush is
// already draining.
func (e *Element) stage(desc *descriptor, value any) {
	value = normalizeForType(desc.prop.Type, value)
	cur := e.values[desc.name]
	if valueEqual(desc.prop.Type, cur, value) && (e.defined[desc.name] || value == nil) {
		return
	}
	if _, staged := e.pending[desc.name]; !staged {
		e.pending[desc.name] = cur
	}
	e.values[desc.name] = value
	e.defined[desc.name] = true

	if e.State() == StateAttached && !e.flushing {
		e.flush(e.ctx)
	}
}

// normalizeForType folds equivalent representations into the canonical one,
// so change detection compares like with like.
func normalizeForType(t Type, v any) any {
	if v == nil {
		return nil
	}
	if t == TypeNumber {
		if f, ok := toFloat(v); ok {
			return f
		}
	}
	return v
}

// valueEqual compares values with equality appropriate to the declared type.
func valueEqual(t Type, a, b any) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	if t == TypeDate {
		at, aok := a.(time.Time)
		bt, bok := b.(time.Time)
		if aok && bok {
			return at.Equal(bt)
		}
	}
	return reflect.DeepEqual(a, b)
}
