package reactor

import (
	"fmt"
	"strings"
)

// Type is the declared type of a property. It governs attribute
// serialization, change detection, and snapshot coercion.
type Type int

const (
	// TypeString properties hold string values.
	TypeString Type = iota

	// TypeNumber properties hold float64 values. Integer writes are
	// normalized to float64 at the accessor boundary.
	TypeNumber

	// TypeBoolean properties hold bool values. The attribute form uses
	// presence semantics: present means true, absent means false.
	TypeBoolean

	// TypeObject properties hold map[string]any values, serialized as JSON.
	TypeObject

	// TypeArray properties hold []any values, serialized as JSON.
	TypeArray

	// TypeDate properties hold time.Time values, serialized as RFC 3339.
	TypeDate
)

// String returns the manifest name of the type.
func (t Type) String() string {
	switch t {
	case TypeString:
		return "string"
	case TypeNumber:
		return "number"
	case TypeBoolean:
		return "boolean"
	case TypeObject:
		return "object"
	case TypeArray:
		return "array"
	case TypeDate:
		return "date"
	default:
		return "unknown"
	}
}

// ParseType converts a manifest type name into a Type.
func ParseType(s string) (Type, error) {
	switch s {
	case "string":
		return TypeString, nil
	case "number":
		return TypeNumber, nil
	case "boolean":
		return TypeBoolean, nil
	case "object":
		return TypeObject, nil
	case "array":
		return TypeArray, nil
	case "date":
		return TypeDate, nil
	default:
		return 0, fmt.Errorf("reactor: unknown property type %q", s)
	}
}

// Property declares a single component property and its modifiers.
//
// A property with Computed set is implicitly read-only: its value is derived
// by the named compute method and is never assigned directly, not even
// through the internal setter.
type Property struct {
	// Type is the declared value type.
	Type Type

	// Notify enables change events for this property. Each flush emits at
	// most one event per notifying property, carrying the final value.
	Notify bool

	// ReadOnly restricts writes to the internal setter path. Writes through
	// the public setter are silently ignored.
	ReadOnly bool

	// Reflect mirrors the property value onto the corresponding dash-cased
	// DOM attribute after every flush in which the value changed.
	Reflect bool

	// Observer names a registered method invoked when this property changes.
	Observer string

	// Computed is an expression of the form "method(dep, ...)" deriving this
	// property from the named dependencies.
	Computed string

	// Default is the initial value, applied through the accessor during
	// element construction and folded into the first flush.
	Default any
}

// Properties maps property names to their declarations.
type Properties map[string]Property

// descriptor is the finalized, immutable record for one declared property.
// Descriptors are built once at Finalize and shared by all elements of the
// definition.
type descriptor struct {
	name      string
	attribute string
	prop      Property

	// Parsed form of prop.Computed, empty when the property is not computed.
	computeMethod string
	computeArgs   []string
}

// readOnly reports whether writes through the public setter are rejected.
func (d *descriptor) readOnly() bool {
	return d.prop.ReadOnly || d.computed()
}

func (d *descriptor) computed() bool {
	return d.prop.Computed != ""
}

// parseComputedExpr splits a computed expression "method(a, b)" into its
// method name and ordered dependency list.
func parseComputedExpr(expr string) (method string, args []string, err error) {
	open := strings.IndexByte(expr, '(')
	if open <= 0 || !strings.HasSuffix(expr, ")") {
		return "", nil, fmt.Errorf("malformed computed expression %q", expr)
	}
	method = expr[:open]
	if !isIdent(method) {
		return "", nil, fmt.Errorf("malformed computed expression %q: bad method name %q", expr, method)
	}
	inner := expr[open+1 : len(expr)-1]
	if strings.TrimSpace(inner) == "" {
		return "", nil, fmt.Errorf("computed expression %q must name at least one dependency", expr)
	}
	for _, raw := range strings.Split(inner, ",") {
		arg := strings.TrimSpace(raw)
		if !isIdent(arg) {
			return "", nil, fmt.Errorf("malformed computed expression %q: bad dependency %q", expr, arg)
		}
		args = append(args, arg)
	}
	return method, args, nil
}

// isIdent reports whether s is a valid property or method identifier:
// a letter or underscore followed by letters, digits, or underscores.
func isIdent(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		switch {
		case r == '_' || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z'):
		case r >= '0' && r <= '9':
			if i == 0 {
				return false
			}
		default:
			return false
		}
	}
	return true
}
