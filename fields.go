package reactor

import "github.com/zoobzio/capitan"

// Field keys for reactor events.
var (
	// KeyDefinition is the component definition name.
	KeyDefinition = capitan.NewStringKey("definition")

	// KeyProperty is the property a signal refers to.
	KeyProperty = capitan.NewStringKey("property")

	// KeyAttribute is the attribute a signal refers to.
	KeyAttribute = capitan.NewStringKey("attribute")

	// KeyEffect is the kind of effect involved.
	KeyEffect = capitan.NewStringKey("effect")

	// KeyMethod is the registered method name of an effect.
	KeyMethod = capitan.NewStringKey("method")

	// KeyError is the error message when an operation fails.
	KeyError = capitan.NewStringKey("error")

	// KeyOldState is the lifecycle state before a transition.
	KeyOldState = capitan.NewStringKey("old_state")

	// KeyNewState is the lifecycle state after a transition.
	KeyNewState = capitan.NewStringKey("new_state")

	// KeyChanged is the number of properties resolved by a flush pass.
	KeyChanged = capitan.NewIntKey("changed")

	// KeyProperties is the number of declared properties in a definition.
	KeyProperties = capitan.NewIntKey("properties")

	// KeyOverrides is the number of style overrides applied.
	KeyOverrides = capitan.NewIntKey("overrides")
)
