package reactor

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func combineNames(args []any) (any, error) {
	first, _ := args[0].(string)
	last, _ := args[1].(string)
	return first + " " + last, nil
}

func TestDefinition_Finalize(t *testing.T) {
	def := NewDefinition("user-card").
		Properties(Properties{
			"first": {Type: TypeString},
			"last":  {Type: TypeString},
			"full":  {Type: TypeString, Computed: "combine(first, last)"},
		}).
		Compute("combine", combineNames)

	if err := def.Finalize(); err != nil {
		t.Fatalf("Finalize failed: %v", err)
	}
	if err := def.Finalize(); err != ErrFinalized {
		t.Errorf("expected ErrFinalized on second call, got %v", err)
	}
}

func TestDefinition_CycleRejectedBeforeInstances(t *testing.T) {
	def := NewDefinition("cyclic").
		Properties(Properties{
			"a": {Type: TypeString, Computed: "identA(b)"},
			"b": {Type: TypeString, Computed: "identB(a)"},
		}).
		Compute("identA", func(args []any) (any, error) { return args[0], nil }).
		Compute("identB", func(args []any) (any, error) { return args[0], nil })

	err := def.Finalize()
	if !IsConfigurationError(err) {
		t.Fatalf("expected ConfigurationError, got %v", err)
	}
	if _, err := def.NewElement(); err != ErrNotFinalized {
		t.Errorf("expected ErrNotFinalized, got %v", err)
	}
}

func TestDefinition_DuplicateProperty(t *testing.T) {
	def := NewDefinition("dup").
		Properties(Properties{"label": {Type: TypeString}}).
		Properties(Properties{"label": {Type: TypeNumber}})

	if err := def.Finalize(); !IsConfigurationError(err) {
		t.Errorf("expected ConfigurationError, got %v", err)
	}
}

func TestDefinition_ComputedWithDefault(t *testing.T) {
	def := NewDefinition("bad-default").
		Properties(Properties{
			"a":    {Type: TypeString},
			"full": {Type: TypeString, Computed: "ident(a)", Default: "x"},
		}).
		Compute("ident", func(args []any) (any, error) { return args[0], nil })

	if err := def.Finalize(); !IsConfigurationError(err) {
		t.Errorf("expected ConfigurationError, got %v", err)
	}
}

func TestDefinition_UnregisteredComputeMethod(t *testing.T) {
	def := NewDefinition("missing-method").
		Properties(Properties{
			"a":    {Type: TypeString},
			"full": {Type: TypeString, Computed: "nowhere(a)"},
		})

	if err := def.Finalize(); !IsConfigurationError(err) {
		t.Errorf("expected ConfigurationError, got %v", err)
	}
}

func TestDefinition_UnregisteredObserver(t *testing.T) {
	def := NewDefinition("missing-observer").
		Properties(Properties{
			"a": {Type: TypeString, Observer: "onA"},
		})

	if err := def.Finalize(); !IsConfigurationError(err) {
		t.Errorf("expected ConfigurationError, got %v", err)
	}
}

func TestDefinition_ObserverUndeclaredDependency(t *testing.T) {
	def := NewDefinition("bad-observer").
		Properties(Properties{"a": {Type: TypeString}}).
		Observe("watch", func(_ *Element, _, _ []any) error { return nil }, "a", "ghost")

	if err := def.Finalize(); !IsConfigurationError(err) {
		t.Errorf("expected ConfigurationError, got %v", err)
	}
}

func TestDefinition_InvalidName(t *testing.T) {
	def := NewDefinition("").Properties(Properties{"a": {Type: TypeString}})
	if err := def.Finalize(); !IsConfigurationError(err) {
		t.Errorf("expected ConfigurationError for empty name, got %v", err)
	}
}

func TestDefinition_ObservedAttributes(t *testing.T) {
	def := NewDefinition("attrs").
		Properties(Properties{
			"firstName": {Type: TypeString},
			"maxRows":   {Type: TypeNumber},
		})
	if err := def.Finalize(); err != nil {
		t.Fatalf("Finalize failed: %v", err)
	}

	want := []string{"first-name", "max-rows"}
	if diff := cmp.Diff(want, def.ObservedAttributes()); diff != "" {
		t.Errorf("attributes mismatch (-want +got):\n%s", diff)
	}
}
