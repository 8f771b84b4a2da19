package reactor

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func finalizedDefinition(t *testing.T, name string) *Definition {
	t.Helper()
	def := NewDefinition(name).
		Properties(Properties{"label": {Type: TypeString}})
	if err := def.Finalize(); err != nil {
		t.Fatalf("Finalize failed: %v", err)
	}
	return def
}

func TestRegistry_AddAndLookup(t *testing.T) {
	reg := NewRegistry()
	card := finalizedDefinition(t, "card")
	list := finalizedDefinition(t, "list")

	if err := reg.Add(card, list); err != nil {
		t.Fatalf("Add failed: %v", err)
	}

	got, ok := reg.Lookup("card")
	if !ok || got != card {
		t.Errorf("expected card definition, got %v", got)
	}
	if _, ok := reg.Lookup("ghost"); ok {
		t.Error("expected lookup miss for unregistered name")
	}
	if diff := cmp.Diff([]string{"card", "list"}, reg.Names()); diff != "" {
		t.Errorf("names mismatch (-want +got):\n%s", diff)
	}
}

func TestRegistry_Collision(t *testing.T) {
	reg := NewRegistry()
	if err := reg.Add(finalizedDefinition(t, "card")); err != nil {
		t.Fatalf("Add failed: %v", err)
	}
	if err := reg.Add(finalizedDefinition(t, "card")); !IsConfigurationError(err) {
		t.Errorf("expected ConfigurationError, got %v", err)
	}
}

func TestRegistry_RejectsUnfinalized(t *testing.T) {
	reg := NewRegistry()
	def := NewDefinition("raw").Properties(Properties{"a": {Type: TypeString}})
	if err := reg.Add(def); !errors.Is(err, ErrNotFinalized) {
		t.Errorf("expected ErrNotFinalized, got %v", err)
	}
}

func TestRegistry_NewElement(t *testing.T) {
	reg := NewRegistry()
	reg.Add(finalizedDefinition(t, "card"))

	el, err := reg.NewElement("card")
	if err != nil {
		t.Fatalf("NewElement failed: %v", err)
	}
	if el.Definition().Name() != "card" {
		t.Errorf("expected card element, got %q", el.Definition().Name())
	}

	if _, err := reg.NewElement("ghost"); !errors.Is(err, ErrUnknownDefinition) {
		t.Errorf("expected ErrUnknownDefinition, got %v", err)
	}
}
