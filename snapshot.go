package reactor

import (
	"fmt"
	"sort"
	"time"

	"github.com/vmihailenco/msgpack/v5"
)

// Snapshot encodes the element's defined property values for hydration
// across process boundaries. Computed values are included for inspection but
// are rederived, not restored.
func (e *Element) Snapshot() ([]byte, error) {
	if e.State() == StateDestroyed {
		return nil, ErrDestroyed
	}
	values := make(map[string]any, len(e.values))
	for name := range e.def.descriptors {
		if e.defined[name] {
			values[name] = e.values[name]
		}
	}
	data, err := msgpack.Marshal(values)
	if err != nil {
		return nil, fmt.Errorf("reactor: encoding snapshot for %q: %w", e.def.name, err)
	}
	return data, nil
}

// Restore stages property values from a snapshot through the accessor layer,
// so every effect fires on the next flush exactly as if the properties had
// been written individually. Read-only properties are restored through the
// internal setter semantics; computed entries are ignored and rederived.
//
// A snapshot key that does not match a declared property fails with
// ErrUnknownProperty before any value is staged.
func (e *Element) Restore(data []byte) error {
	if e.State() == StateDestroyed {
		return ErrDestroyed
	}
	var values map[string]any
	if err := msgpack.Unmarshal(data, &values); err != nil {
		return fmt.Errorf("reactor: malformed snapshot for %q: %w", e.def.name, err)
	}

	names := make([]string, 0, len(values))
	for name := range values {
		if _, ok := e.def.descriptorFor(name); !ok {
			return fmt.Errorf("%w: snapshot key %q", ErrUnknownProperty, name)
		}
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		desc, _ := e.def.descriptorFor(name)
		if desc.computed() {
			continue
		}
		value, err := coerceSnapshotValue(name, desc.prop.Type, values[name])
		if err != nil {
			return err
		}
		e.stage(desc, value)
	}
	return nil
}

// coerceSnapshotValue normalizes a decoded msgpack value to the declared
// property type.
func coerceSnapshotValue(name string, t Type, v any) (any, error) {
	if v == nil {
		return nil, nil
	}
	switch t {
	case TypeString:
		if s, ok := v.(string); ok {
			return s, nil
		}
	case TypeNumber:
		if f, ok := toFloat(v); ok {
			return f, nil
		}
	case TypeBoolean:
		if b, ok := v.(bool); ok {
			return b, nil
		}
	case TypeObject:
		if m, ok := v.(map[string]any); ok {
			return m, nil
		}
	case TypeArray:
		if a, ok := v.([]any); ok {
			return a, nil
		}
	case TypeDate:
		if ts, ok := v.(time.Time); ok {
			return ts, nil
		}
	}
	return nil, &DeserializationError{Name: name, Type: t, Value: fmt.Sprintf("%v", v)}
}
