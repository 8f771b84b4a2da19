package reactor

import (
	"errors"
	"fmt"
)

// Sentinel errors for element and registry operations.
var (
	// ErrUnknownProperty is returned when an operation references a property
	// that was never declared on the element's definition.
	ErrUnknownProperty = errors.New("reactor: unknown property")

	// ErrUnknownDefinition is returned when a registry lookup fails.
	ErrUnknownDefinition = errors.New("reactor: unknown definition")

	// ErrNotFinalized is returned when an element is requested from a
	// definition that has not been finalized.
	ErrNotFinalized = errors.New("reactor: definition not finalized")

	// ErrFinalized is returned when a definition is finalized twice.
	ErrFinalized = errors.New("reactor: definition already finalized")

	// ErrDestroyed is returned by any operation on a destroyed element.
	ErrDestroyed = errors.New("reactor: element destroyed")

	// ErrNotAttached is returned when a lifecycle transition is requested
	// from a state that does not permit it.
	ErrNotAttached = errors.New("reactor: element not attached")

	// ErrAttached is returned when Connect is called on an element that is
	// already attached.
	ErrAttached = errors.New("reactor: element already attached")
)

// ConfigurationError reports invalid component metadata: property name
// collisions, dependency cycles among computed properties, malformed computed
// expressions, or references to unregistered methods.
//
// Configuration errors are detected once, at Finalize time, and are fatal to
// the definition. No element can be created from a misconfigured definition.
type ConfigurationError struct {
	// Definition is the name of the component definition.
	Definition string

	// Detail describes what is wrong with the metadata.
	Detail string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("reactor: invalid definition %q: %s", e.Definition, e.Detail)
}

// IsConfigurationError reports whether err is (or wraps) a ConfigurationError.
func IsConfigurationError(err error) bool {
	var ce *ConfigurationError
	return errors.As(err, &ce)
}

// DeserializationError reports a value that could not be coerced to a
// property's declared type, either from a DOM attribute string or from a
// snapshot payload. The offending write is discarded and the prior property
// value is retained; the error is not fatal to the element.
type DeserializationError struct {
	// Name is the attribute or property name the value was destined for.
	Name string

	// Type is the declared type the value failed to coerce to.
	Type Type

	// Value is the raw input that failed to parse.
	Value string

	// Err is the underlying parse error, if any.
	Err error
}

func (e *DeserializationError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("reactor: cannot coerce %q to %s for %q: %v", e.Value, e.Type, e.Name, e.Err)
	}
	return fmt.Sprintf("reactor: cannot coerce %q to %s for %q", e.Value, e.Type, e.Name)
}

func (e *DeserializationError) Unwrap() error {
	return e.Err
}

// IsDeserializationError reports whether err is (or wraps) a
// DeserializationError.
func IsDeserializationError(err error) bool {
	var de *DeserializationError
	return errors.As(err, &de)
}

// EffectExecutionError reports an observer or compute method that returned an
// error during a flush. The failing effect is skipped and the remaining
// effects in the flush still run; a computed property whose method failed
// retains its previous (possibly stale) value.
type EffectExecutionError struct {
	// Definition is the name of the component definition.
	Definition string

	// Kind is the kind of effect that failed.
	Kind EffectKind

	// Method is the registered method name of the failing effect. For
	// reflection failures it is empty and Property identifies the effect.
	Method string

	// Property is the property the effect was deriving or reflecting,
	// if any.
	Property string

	// Err is the error returned by the method.
	Err error
}

func (e *EffectExecutionError) Error() string {
	target := e.Method
	if target == "" {
		target = e.Property
	}
	return fmt.Sprintf("reactor: %s effect %q failed in %q: %v", e.Kind, target, e.Definition, e.Err)
}

func (e *EffectExecutionError) Unwrap() error {
	return e.Err
}

// IsEffectExecutionError reports whether err is (or wraps) an
// EffectExecutionError.
func IsEffectExecutionError(err error) bool {
	var ee *EffectExecutionError
	return errors.As(err, &ee)
}
