package reactor

// LifecycleState represents the current lifecycle state of an element.
//
// Transitions: Constructed -> Initializing -> Stamped -> Attached ->
// Disconnected (-> Attached on reconnect) -> Destroyed. The template is
// stamped exactly once per element lifetime; the first flush runs at first
// attach; disconnecting suspends flushing while writes remain staged.
type LifecycleState int32

const (
	// StateConstructed indicates the element exists but defaults have not
	// been applied yet.
	StateConstructed LifecycleState = iota

	// StateInitializing indicates defaults are being staged through the
	// accessor layer. No flush runs in this state.
	StateInitializing

	// StateStamped indicates the template has been rendered into the
	// element's owned fragment, before first attach.
	StateStamped

	// StateAttached indicates the element is connected to its host. Every
	// property write in this state flushes synchronously.
	StateAttached

	// StateDisconnected indicates the element is detached from its host.
	// Writes are staged, not lost, and replay on the next attach.
	StateDisconnected

	// StateDestroyed indicates the element has released its fragment and
	// accepts no further operations.
	StateDestroyed
)

// String returns the string representation of the state.
func (s LifecycleState) String() string {
	switch s {
	case StateConstructed:
		return "constructed"
	case StateInitializing:
		return "initializing"
	case StateStamped:
		return "stamped"
	case StateAttached:
		return "attached"
	case StateDisconnected:
		return "disconnected"
	case StateDestroyed:
		return "destroyed"
	default:
		return "unknown"
	}
}
