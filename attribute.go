package reactor

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
	"unicode"
)

// ToAttributeName converts a camelCase property name to its dash-cased
// attribute form: "firstName" becomes "first-name".
func ToAttributeName(property string) string {
	var b strings.Builder
	b.Grow(len(property) + 4)
	for _, r := range property {
		if unicode.IsUpper(r) {
			b.WriteByte('-')
			b.WriteRune(unicode.ToLower(r))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// ToPropertyName converts a dash-cased attribute name to its camelCase
// property form: "first-name" becomes "firstName".
//
// For every valid dash-cased name n, ToAttributeName(ToPropertyName(n)) == n.
// A valid dash-cased name is one or more lowercase alphanumeric segments,
// each starting with a letter, joined by single dashes.
func ToPropertyName(attribute string) string {
	var b strings.Builder
	b.Grow(len(attribute))
	upper := false
	for _, r := range attribute {
		if r == '-' {
			upper = true
			continue
		}
		if upper {
			b.WriteRune(unicode.ToUpper(r))
			upper = false
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// DeserializeAttribute coerces an attribute string to a typed property value.
// A nil value means the attribute is absent: booleans become false, all other
// types become nil (unset).
//
// Coercion failures return a DeserializationError; the caller is expected to
// discard the write and retain the prior property value.
func DeserializeAttribute(name string, value *string, t Type) (any, error) {
	if value == nil {
		if t == TypeBoolean {
			return false, nil
		}
		return nil, nil
	}
	s := *value

	switch t {
	case TypeString:
		return s, nil

	case TypeBoolean:
		// Presence semantics: any present value, including "", is true.
		return true, nil

	case TypeNumber:
		f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
		if err != nil {
			return nil, &DeserializationError{Name: name, Type: t, Value: s, Err: err}
		}
		if math.IsNaN(f) {
			return nil, &DeserializationError{Name: name, Type: t, Value: s, Err: fmt.Errorf("NaN is not a valid number")}
		}
		return f, nil

	case TypeObject:
		var m map[string]any
		if err := json.Unmarshal([]byte(s), &m); err != nil {
			return nil, &DeserializationError{Name: name, Type: t, Value: s, Err: err}
		}
		return m, nil

	case TypeArray:
		var a []any
		if err := json.Unmarshal([]byte(s), &a); err != nil {
			return nil, &DeserializationError{Name: name, Type: t, Value: s, Err: err}
		}
		return a, nil

	case TypeDate:
		ts, err := time.Parse(time.RFC3339, s)
		if err != nil {
			return nil, &DeserializationError{Name: name, Type: t, Value: s, Err: err}
		}
		return ts, nil

	default:
		return nil, &DeserializationError{Name: name, Type: t, Value: s, Err: fmt.Errorf("unsupported type")}
	}
}

// SerializeAttribute converts a typed property value to its attribute string.
// remove reports that the attribute should be removed rather than written:
// nil values and false booleans have no attribute form.
func SerializeAttribute(value any, t Type) (s string, remove bool, err error) {
	if value == nil {
		return "", true, nil
	}

	switch t {
	case TypeString:
		str, ok := value.(string)
		if !ok {
			return "", false, fmt.Errorf("reactor: cannot serialize %T as %s", value, t)
		}
		return str, false, nil

	case TypeBoolean:
		b, ok := value.(bool)
		if !ok {
			return "", false, fmt.Errorf("reactor: cannot serialize %T as %s", value, t)
		}
		if !b {
			return "", true, nil
		}
		return "", false, nil

	case TypeNumber:
		f, ok := toFloat(value)
		if !ok {
			return "", false, fmt.Errorf("reactor: cannot serialize %T as %s", value, t)
		}
		return strconv.FormatFloat(f, 'f', -1, 64), false, nil

	case TypeObject, TypeArray:
		data, err := json.Marshal(value)
		if err != nil {
			return "", false, fmt.Errorf("reactor: cannot serialize %s: %w", t, err)
		}
		return string(data), false, nil

	case TypeDate:
		ts, ok := value.(time.Time)
		if !ok {
			return "", false, fmt.Errorf("reactor: cannot serialize %T as %s", value, t)
		}
		return ts.Format(time.RFC3339), false, nil

	default:
		return "", false, fmt.Errorf("reactor: unsupported type %s", t)
	}
}

// toFloat normalizes numeric values to float64.
func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int8:
		return float64(n), true
	case int16:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint8:
		return float64(n), true
	case uint16:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint64:
		return float64(n), true
	default:
		return 0, false
	}
}
