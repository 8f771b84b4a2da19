package reactor

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

func strPtr(s string) *string {
	return &s
}

func TestToAttributeName(t *testing.T) {
	cases := []struct {
		property string
		want     string
	}{
		{"first", "first"},
		{"firstName", "first-name"},
		{"veryLongPropertyName", "very-long-property-name"},
		{"item2", "item2"},
	}
	for _, c := range cases {
		if got := ToAttributeName(c.property); got != c.want {
			t.Errorf("ToAttributeName(%q): expected %q, got %q", c.property, c.want, got)
		}
	}
}

func TestToPropertyName(t *testing.T) {
	cases := []struct {
		attribute string
		want      string
	}{
		{"first", "first"},
		{"first-name", "firstName"},
		{"very-long-property-name", "veryLongPropertyName"},
	}
	for _, c := range cases {
		if got := ToPropertyName(c.attribute); got != c.want {
			t.Errorf("ToPropertyName(%q): expected %q, got %q", c.attribute, c.want, got)
		}
	}
}

func TestAttributeNameRoundTrip(t *testing.T) {
	names := []string{
		"a",
		"first-name",
		"aria-label-text",
		"item2",
		"max-rows2",
	}
	for _, n := range names {
		if got := ToAttributeName(ToPropertyName(n)); got != n {
			t.Errorf("round trip of %q: got %q", n, got)
		}
	}
}

func TestDeserializeAttribute_String(t *testing.T) {
	v, err := DeserializeAttribute("label", strPtr("hello"), TypeString)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v != "hello" {
		t.Errorf("expected %q, got %v", "hello", v)
	}
}

func TestDeserializeAttribute_BooleanPresence(t *testing.T) {
	v, err := DeserializeAttribute("checked", strPtr(""), TypeBoolean)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v != true {
		t.Errorf("expected true for present attribute, got %v", v)
	}

	v, err = DeserializeAttribute("checked", nil, TypeBoolean)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v != false {
		t.Errorf("expected false for absent attribute, got %v", v)
	}
}

func TestDeserializeAttribute_Number(t *testing.T) {
	v, err := DeserializeAttribute("count", strPtr("42"), TypeNumber)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v != 42.0 {
		t.Errorf("expected 42, got %v", v)
	}

	if _, err := DeserializeAttribute("count", strPtr("twelve"), TypeNumber); !IsDeserializationError(err) {
		t.Errorf("expected DeserializationError, got %v", err)
	}
	if _, err := DeserializeAttribute("count", strPtr("NaN"), TypeNumber); !IsDeserializationError(err) {
		t.Errorf("expected DeserializationError for NaN, got %v", err)
	}
}

func TestDeserializeAttribute_Object(t *testing.T) {
	v, err := DeserializeAttribute("config", strPtr(`{"a": 1}`), TypeObject)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := map[string]any{"a": 1.0}
	if diff := cmp.Diff(want, v); diff != "" {
		t.Errorf("object mismatch (-want +got):\n%s", diff)
	}

	if _, err := DeserializeAttribute("config", strPtr("{broken"), TypeObject); !IsDeserializationError(err) {
		t.Errorf("expected DeserializationError, got %v", err)
	}
}

func TestDeserializeAttribute_Array(t *testing.T) {
	v, err := DeserializeAttribute("items", strPtr(`[1, "two"]`), TypeArray)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []any{1.0, "two"}
	if diff := cmp.Diff(want, v); diff != "" {
		t.Errorf("array mismatch (-want +got):\n%s", diff)
	}
}

func TestDeserializeAttribute_Date(t *testing.T) {
	v, err := DeserializeAttribute("due", strPtr("2024-06-01T12:00:00Z"), TypeDate)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	if !v.(time.Time).Equal(want) {
		t.Errorf("expected %v, got %v", want, v)
	}

	if _, err := DeserializeAttribute("due", strPtr("yesterday"), TypeDate); !IsDeserializationError(err) {
		t.Errorf("expected DeserializationError, got %v", err)
	}
}

func TestDeserializeAttribute_RemovedIsUnset(t *testing.T) {
	v, err := DeserializeAttribute("label", nil, TypeString)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v != nil {
		t.Errorf("expected nil for removed attribute, got %v", v)
	}
}

func TestSerializeAttribute_Number(t *testing.T) {
	s, remove, err := SerializeAttribute(4.5, TypeNumber)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if remove {
		t.Error("expected attribute to be written")
	}
	if s != "4.5" {
		t.Errorf("expected %q, got %q", "4.5", s)
	}

	s, _, err = SerializeAttribute(42, TypeNumber)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s != "42" {
		t.Errorf("expected %q, got %q", "42", s)
	}
}

func TestSerializeAttribute_Boolean(t *testing.T) {
	s, remove, err := SerializeAttribute(true, TypeBoolean)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if remove || s != "" {
		t.Errorf("expected present empty attribute, got remove=%v value=%q", remove, s)
	}

	_, remove, err = SerializeAttribute(false, TypeBoolean)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !remove {
		t.Error("expected false to remove the attribute")
	}
}

func TestSerializeAttribute_NilRemoves(t *testing.T) {
	_, remove, err := SerializeAttribute(nil, TypeString)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !remove {
		t.Error("expected nil to remove the attribute")
	}
}

func TestSerializeAttribute_ObjectRoundTrip(t *testing.T) {
	in := map[string]any{"a": 1.0, "b": "two"}
	s, _, err := SerializeAttribute(in, TypeObject)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	back, err := DeserializeAttribute("config", &s, TypeObject)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if diff := cmp.Diff(in, back); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestSerializeAttribute_TypeMismatch(t *testing.T) {
	if _, _, err := SerializeAttribute("not-a-bool", TypeBoolean); err == nil {
		t.Error("expected error for mismatched value type")
	}
}
