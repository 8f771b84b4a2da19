package reactor

import "time"

// MetricsProvider allows integration with metrics systems like Prometheus, StatsD, etc.
// Implement this interface to receive callbacks on key element events.
// A provider is shared by every element of its definition.
type MetricsProvider interface {
	// OnStateChange is called when an element transitions between lifecycle
	// states.
	OnStateChange(from, to LifecycleState)

	// OnFlush is called after each flush pass. Duration covers all effects
	// of the pass; changed is the number of properties that changed.
	OnFlush(duration time.Duration, changed int)

	// OnEffectFailure is called when an observer or compute method fails.
	OnEffectFailure(kind EffectKind, method string)

	// OnNotify is called for each emitted property change event.
	OnNotify(property string)

	// OnAttributeRejected is called when an attribute value fails coercion.
	OnAttributeRejected(attribute string)
}

// NoOpMetricsProvider is a no-op implementation of MetricsProvider.
// Use this as an embedded type to implement only the methods you need.
type NoOpMetricsProvider struct{}

func (NoOpMetricsProvider) OnStateChange(_, _ LifecycleState)      {}
func (NoOpMetricsProvider) OnFlush(_ time.Duration, _ int)         {}
func (NoOpMetricsProvider) OnEffectFailure(_ EffectKind, _ string) {}
func (NoOpMetricsProvider) OnNotify(_ string)                      {}
func (NoOpMetricsProvider) OnAttributeRejected(_ string)           {}
