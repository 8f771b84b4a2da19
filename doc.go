/*
Package reactor provides a metadata-driven property effects engine for
component elements: attribute changes propagate to typed properties,
properties to computed values, computed values to observers, and property
changes back out as change events and reflected attributes.

reactor is designed to be embedded within component runtimes, not run as a
standalone service. A Definition describes one component class declaratively;
Finalize compiles the declarations into an immutable effect graph shared by
every Element of the class.

# Basic Usage

Declare a definition with properties and method bodies, then finalize it:

	def := reactor.NewDefinition("user-card").
	    Properties(reactor.Properties{
	        "first": {Type: reactor.TypeString},
	        "last":  {Type: reactor.TypeString},
	        "full":  {Type: reactor.TypeString, Computed: "combine(first, last)", Notify: true},
	    }).
	    Compute("combine", func(args []any) (any, error) {
	        return args[0].(string) + " " + args[1].(string), nil
	    })

	if err := def.Finalize(); err != nil {
	    log.Fatal(err)
	}

Mint elements and drive them through the lifecycle entry points the hosting
runtime maps onto construct, connect, and disconnect:

	el, _ := def.NewElement()
	el.Set("first", "Ada")   // staged; element not attached yet
	el.Set("last", "Lovelace")

	el.Connect(ctx)          // stamps the template, runs the first flush
	full, _ := el.Get("full") // "Ada Lovelace", computed exactly once

# Effects

Every property change triggers its dependent effects in one synchronous
flush, in a fixed order: computed properties in dependency order, observers,
change events, attribute reflection. Writes made by observers during a flush
are staged and resolved by a follow-up flush after the current one completes.

Multiple writes can be resolved as one flush with Update:

	el.Update(func() {
	    el.Set("first", "Grace")
	    el.Set("last", "Hopper")
	}) // combine runs once

Dependency cycles among computed properties, name collisions, and references
to unregistered methods are configuration errors raised once, at Finalize,
never at runtime.

# Lifecycle

Elements move through constructed, initializing, stamped, attached,
disconnected, and destroyed states. Writes before the first attach are
staged and folded into a single consolidated first flush; disconnecting
suspends flushing without losing writes.

# Attributes

Attribute strings coerce to declared types and back: boolean attributes use
presence semantics, numbers reject NaN, objects and arrays round-trip as
JSON, dates as RFC 3339. Property names map bidirectionally to dash-cased
attribute names.

	el.AttributeChanged("first-name", nil, ptr("Ada"))

# Integration

reactor is typically integrated into a component runtime that owns a
registry of definitions:

	reg := reactor.NewRegistry()
	reg.Add(userCard, fileViewer)

	el, err := reg.NewElement("user-card",
	    reactor.WithHost(domHost),
	    reactor.WithStyles(styles),
	)

Style overrides are an external collaborator with a narrow contract; they
never enter the effect graph:

	styles := reactor.NewStyleRegistry()
	styles.ApplyOverrides(map[string]*string{"--accent": &blue})
	styles.Follow(ctx, reactor.NewFileSource("theme.yaml"))

# Observability

Lifecycle transitions, flushes, effect failures, and rejected attributes are
emitted as capitan signals and surfaced to an optional MetricsProvider.
Effect failures are isolated per effect: the failing effect is skipped and
recorded, the rest of the flush runs.
*/
package reactor
