package reactor

import (
	"context"
	"fmt"
	"sort"

	"github.com/zoobzio/capitan"
	"github.com/zoobzio/pipz"
)

// ComputeFunc derives a computed property value from its dependency values,
// passed in declaration order. Compute methods must be pure: they see a
// consistent snapshot of their inputs and must not write properties.
type ComputeFunc func(args []any) (any, error)

// ObserveFunc is an observer method body. values and old hold the new and
// previous values of the observer's dependencies, in declaration order.
// Observers may write properties; such writes are staged and trigger a
// follow-up flush after the current one completes.
type ObserveFunc func(el *Element, values, old []any) error

// EffectRequest carries one effect invocation through the definition's
// effect pipeline. Error handlers installed with WithEffectErrorHandler
// receive it inside a *pipz.Error when the effect fails.
type EffectRequest struct {
	// Element is the instance the effect runs against.
	Element *Element

	// Kind is EffectCompute or EffectObserve.
	Kind EffectKind

	// Property is the computed target for compute effects; empty for
	// multi-property observers.
	Property string

	// Method is the registered method name.
	Method string

	// Values holds the current dependency values, in declaration order.
	Values []any

	// Old holds the previous dependency values for observers.
	Old []any

	// Result is set by compute effects.
	Result any
}

// Definition describes one component class: its declared properties, observer
// declarations, method bodies, and template. A Definition is configured with
// chainable calls, then sealed with Finalize, which builds the immutable
// descriptor map and effect graph shared by every element of the class.
//
// Example:
//
//	def := reactor.NewDefinition("user-card").
//	    Properties(reactor.Properties{
//	        "first": {Type: reactor.TypeString},
//	        "last":  {Type: reactor.TypeString},
//	        "full":  {Type: reactor.TypeString, Computed: "combine(first, last)", Notify: true},
//	    }).
//	    Compute("combine", func(args []any) (any, error) {
//	        return args[0].(string) + " " + args[1].(string), nil
//	    })
//
//	if err := def.Finalize(); err != nil {
//	    return err
//	}
type Definition struct {
	name      string
	props     Properties
	computes  map[string]ComputeFunc
	handlers  map[string]ObserveFunc
	observers []observerDecl
	template  Template
	metrics   MetricsProvider
	handler   pipz.Chainable[*pipz.Error[*EffectRequest]]

	// Declaration problems collected while chaining, surfaced at Finalize.
	problems []string

	finalized   bool
	descriptors map[string]*descriptor
	graph       *effectGraph
	pipeline    pipz.Chainable[*EffectRequest]
}

// NewDefinition creates an empty definition with the given component name.
func NewDefinition(name string) *Definition {
	return &Definition{
		name:     name,
		props:    make(Properties),
		computes: make(map[string]ComputeFunc),
		handlers: make(map[string]ObserveFunc),
		metrics:  NoOpMetricsProvider{},
	}
}

// Name returns the component name.
func (d *Definition) Name() string {
	return d.name
}

// Properties merges property declarations into the definition. Declaring the
// same name twice is a configuration error surfaced at Finalize.
func (d *Definition) Properties(props Properties) *Definition {
	for name, prop := range props {
		if _, exists := d.props[name]; exists {
			d.problems = append(d.problems, fmt.Sprintf("property %q declared twice", name))
			continue
		}
		d.props[name] = prop
	}
	return d
}

// Compute registers a compute method body referenced by computed expressions.
func (d *Definition) Compute(method string, fn ComputeFunc) *Definition {
	if _, exists := d.computes[method]; exists {
		d.problems = append(d.problems, fmt.Sprintf("compute method %q registered twice", method))
		return d
	}
	d.computes[method] = fn
	return d
}

// Handle registers an observer method body referenced by the Observer
// property modifier or by Observe declarations.
func (d *Definition) Handle(method string, fn ObserveFunc) *Definition {
	if _, exists := d.handlers[method]; exists {
		d.problems = append(d.problems, fmt.Sprintf("observer method %q registered twice", method))
		return d
	}
	d.handlers[method] = fn
	return d
}

// Observe declares a multi-property observer and registers its body. The
// observer fires once per flush in which any dependency changed, after all
// dependencies have held defined values at least once.
func (d *Definition) Observe(method string, fn ObserveFunc, deps ...string) *Definition {
	d.observers = append(d.observers, observerDecl{method: method, args: deps})
	return d.Handle(method, fn)
}

// ObservePartial declares a multi-property observer that fires even while
// some of its dependencies are still undefined; undefined values are nil.
func (d *Definition) ObservePartial(method string, fn ObserveFunc, deps ...string) *Definition {
	d.observers = append(d.observers, observerDecl{method: method, args: deps, partial: true})
	return d.Handle(method, fn)
}

// Template sets the template stamped once per element before first attach.
func (d *Definition) Template(t Template) *Definition {
	d.template = t
	return d
}

// Metrics sets a metrics provider shared by all elements of the definition.
func (d *Definition) Metrics(m MetricsProvider) *Definition {
	d.metrics = m
	return d
}

// WithEffectErrorHandler installs an error processing pipeline for failed
// effects. When a compute or observer method returns an error, the handler
// runs with a *pipz.Error carrying the EffectRequest; the effect is then
// skipped and the rest of the flush continues.
//
// Example:
//
//	def.WithEffectErrorHandler(pipz.Effect("effect-log", func(_ context.Context, pe *pipz.Error[*reactor.EffectRequest]) error {
//	    log.Printf("effect %s failed: %v", pe.InputData.Method, pe.Err)
//	    return nil
//	}))
func (d *Definition) WithEffectErrorHandler(handler pipz.Chainable[*pipz.Error[*EffectRequest]]) *Definition {
	d.handler = handler
	return d
}

// Finalize validates the declared metadata, builds the effect graph, and
// seals the definition. It must be called exactly once, before any element
// is created. A ConfigurationError from Finalize is fatal to the definition.
func (d *Definition) Finalize() error {
	if d.finalized {
		return ErrFinalized
	}
	if d.name == "" {
		return &ConfigurationError{Definition: d.name, Detail: "definition name is empty"}
	}

	problems := append([]string(nil), d.problems...)
	descs := make(map[string]*descriptor, len(d.props))

	names := make([]string, 0, len(d.props))
	for name := range d.props {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		prop := d.props[name]
		if !isIdent(name) {
			problems = append(problems, fmt.Sprintf("invalid property name %q", name))
			continue
		}
		desc := &descriptor{
			name:      name,
			attribute: ToAttributeName(name),
			prop:      prop,
		}
		if prop.Computed != "" {
			method, args, err := parseComputedExpr(prop.Computed)
			if err != nil {
				problems = append(problems, err.Error())
			} else {
				desc.computeMethod = method
				desc.computeArgs = args
				if _, ok := d.computes[method]; !ok {
					problems = append(problems, fmt.Sprintf("computed property %q references unregistered method %q", name, method))
				}
			}
			if prop.Default != nil {
				problems = append(problems, fmt.Sprintf("computed property %q cannot declare a default", name))
			}
		}
		if prop.Observer != "" {
			if _, ok := d.handlers[prop.Observer]; !ok {
				problems = append(problems, fmt.Sprintf("property %q references unregistered observer %q", name, prop.Observer))
			}
		}
		descs[name] = desc
	}

	for _, decl := range d.observers {
		if _, ok := d.handlers[decl.method]; !ok {
			problems = append(problems, fmt.Sprintf("observer %q has no registered body", decl.method))
		}
	}

	graph, graphProblems := buildEffectGraph(descs, d.observers)
	problems = append(problems, graphProblems...)

	if len(problems) > 0 {
		return &ConfigurationError{Definition: d.name, Detail: problems[0]}
	}

	terminal := pipz.Apply(pipz.Name(d.name+".effect"), d.invokeEffect)
	if d.handler != nil {
		d.pipeline = pipz.NewHandle(pipz.Name(d.name+".effect-errors"), terminal, d.handler)
	} else {
		d.pipeline = terminal
	}

	d.descriptors = descs
	d.graph = graph
	d.finalized = true

	capitan.Emit(context.Background(), DefinitionFinalized,
		KeyDefinition.Field(d.name),
		KeyProperties.Field(len(descs)),
	)
	return nil
}

// invokeEffect is the terminal pipeline stage dispatching to the registered
// method bodies.
func (d *Definition) invokeEffect(_ context.Context, req *EffectRequest) (*EffectRequest, error) {
	switch req.Kind {
	case EffectCompute:
		result, err := d.computes[req.Method](req.Values)
		if err != nil {
			return req, err
		}
		req.Result = result
		return req, nil
	case EffectObserve:
		return req, d.handlers[req.Method](req.Element, req.Values, req.Old)
	default:
		return req, fmt.Errorf("reactor: effect kind %s is not invokable", req.Kind)
	}
}

// ObservedAttributes returns the dash-cased attribute names of all declared
// properties, sorted. Hosting runtimes use this to register attribute
// observation.
func (d *Definition) ObservedAttributes() []string {
	attrs := make([]string, 0, len(d.descriptors))
	for _, desc := range d.descriptors {
		attrs = append(attrs, desc.attribute)
	}
	sort.Strings(attrs)
	return attrs
}

// descriptorFor resolves a descriptor by property name.
func (d *Definition) descriptorFor(property string) (*descriptor, bool) {
	desc, ok := d.descriptors[property]
	return desc, ok
}
