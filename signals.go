package reactor

import "github.com/zoobzio/capitan"

// Definition lifecycle signals.
var (
	// DefinitionFinalized is emitted when a definition's metadata is sealed
	// and its effect graph built.
	DefinitionFinalized = capitan.NewSignal(
		"reactor.definition.finalized",
		"Definition finalized",
	)
)

// Element lifecycle signals.
var (
	// ElementCreated is emitted when an element is constructed.
	ElementCreated = capitan.NewSignal(
		"reactor.element.created",
		"Element constructed",
	)

	// ElementStateChanged is emitted when an element transitions between
	// lifecycle states.
	ElementStateChanged = capitan.NewSignal(
		"reactor.element.state.changed",
		"Element lifecycle transition",
	)

	// ElementConnected is emitted when an element attaches to its host.
	ElementConnected = capitan.NewSignal(
		"reactor.element.connected",
		"Element attached",
	)

	// ElementDisconnected is emitted when an element detaches from its host.
	ElementDisconnected = capitan.NewSignal(
		"reactor.element.disconnected",
		"Element detached",
	)

	// ElementDestroyed is emitted when an element releases its state.
	ElementDestroyed = capitan.NewSignal(
		"reactor.element.destroyed",
		"Element destroyed",
	)
)

// Effect processing signals.
var (
	// FlushCompleted is emitted after each flush pass that resolved changes.
	FlushCompleted = capitan.NewSignal(
		"reactor.flush.completed",
		"Flush pass completed",
	)

	// EffectFailed is emitted when an observer or compute method fails.
	EffectFailed = capitan.NewSignal(
		"reactor.effect.failed",
		"Effect execution failed",
	)

	// NotifyEmitted is emitted alongside each property change event.
	NotifyEmitted = capitan.NewSignal(
		"reactor.notify.emitted",
		"Property change event emitted",
	)

	// AttributeRejected is emitted when an attribute value cannot be
	// coerced to the declared property type.
	AttributeRejected = capitan.NewSignal(
		"reactor.attribute.rejected",
		"Attribute deserialization rejected",
	)
)

// Style collaborator signals.
var (
	// StylesApplied is emitted when style overrides are applied.
	StylesApplied = capitan.NewSignal(
		"reactor.styles.applied",
		"Style overrides applied",
	)
)
