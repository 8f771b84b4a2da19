package reactor

import "time"

// ChangeEvent is the notification emitted for a notifying property, enabling
// two-way binding consumers to observe updates. Each flush emits at most one
// event per changed notifying property, carrying the final value of that
// flush.
type ChangeEvent struct {
	// Definition is the component definition name.
	Definition string

	// Property is the notifying property that changed.
	Property string

	// Value is the property value after the flush.
	Value any

	// Old is the value the property held before the flush. Nil when the
	// property was previously undefined.
	Old any

	// Timestamp is taken from the element's clock when the event is emitted.
	Timestamp time.Time
}
