package reactor

import (
	"sort"

	"gopkg.in/yaml.v3"
)

// manifestDoc is the YAML form of a component definition.
type manifestDoc struct {
	Name       string                      `yaml:"name"`
	Properties map[string]manifestProperty `yaml:"properties"`
	Observers  []manifestObserver          `yaml:"observers"`
}

type manifestProperty struct {
	Type     string `yaml:"type"`
	Notify   bool   `yaml:"notify"`
	ReadOnly bool   `yaml:"readOnly"`
	Reflect  bool   `yaml:"reflect"`
	Observer string `yaml:"observer"`
	Computed string `yaml:"computed"`
	Default  any    `yaml:"default"`
}

type manifestObserver struct {
	Method  string   `yaml:"method"`
	Args    []string `yaml:"args"`
	Partial bool     `yaml:"partial"`
}

// ParseManifest builds an unfinalized definition from a declarative YAML
// manifest. Method bodies referenced by computed expressions, observer
// modifiers, and observer declarations must then be attached with Compute
// and Handle before Finalize.
//
// Example manifest:
//
//	name: user-card
//	properties:
//	  first: {type: string}
//	  last: {type: string}
//	  full: {type: string, computed: "combine(first, last)", notify: true}
//	observers:
//	  - method: logName
//	    args: [first, last]
func ParseManifest(data []byte) (*Definition, error) {
	var doc manifestDoc
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, &ConfigurationError{Definition: doc.Name, Detail: "malformed manifest: " + err.Error()}
	}
	if doc.Name == "" {
		return nil, &ConfigurationError{Detail: "manifest has no name"}
	}

	props := make(Properties, len(doc.Properties))
	names := make([]string, 0, len(doc.Properties))
	for name := range doc.Properties {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		mp := doc.Properties[name]
		t, err := ParseType(mp.Type)
		if err != nil {
			return nil, &ConfigurationError{Definition: doc.Name, Detail: err.Error()}
		}
		props[name] = Property{
			Type:     t,
			Notify:   mp.Notify,
			ReadOnly: mp.ReadOnly,
			Reflect:  mp.Reflect,
			Observer: mp.Observer,
			Computed: mp.Computed,
			Default:  normalizeForType(t, mp.Default),
		}
	}

	def := NewDefinition(doc.Name).Properties(props)
	for _, mo := range doc.Observers {
		def.observers = append(def.observers, observerDecl{
			method:  mo.Method,
			args:    mo.Args,
			partial: mo.Partial,
		})
	}
	return def, nil
}
