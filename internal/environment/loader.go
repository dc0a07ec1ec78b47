// internal/environment/loader.go
package environment

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Document is the YAML shape of an environment definition file:
//
//	fields:
//	  corona_discharge: {value: 0.8, center: {x: 1, y: 0, z: 0}, radius: 5}
//	  ac_field_strength: {value: 120.0}
//	vector_fields:
//	  emf_vector: {value: {x: 0, y: 0, z: 120}}
//	sources:
//	  - {position: {x: 3, y: 0, z: 0}, frequency_hz: 180, strength: 4.0}
type Document struct {
	Fields       map[string]ScalarField `yaml:"fields"`
	VectorFields map[string]VectorField `yaml:"vector_fields"`
	Sources      []Source               `yaml:"sources"`
}

// FromDocument builds a StaticEnvironment from a parsed document.
func FromDocument(doc Document) *StaticEnvironment {
	env := NewStaticEnvironment()
	for name, f := range doc.Fields {
		env.SetField(name, f)
	}
	for name, f := range doc.VectorFields {
		env.SetVectorField(name, f)
	}
	for _, s := range doc.Sources {
		env.AddSource(s)
	}
	return env
}

// LoadFile reads an environment definition from a YAML file.
func LoadFile(path string) (*StaticEnvironment, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("environment: read %s: %w", path, err)
	}
	var doc Document
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("environment: parse %s: %w", path, err)
	}
	return FromDocument(doc), nil
}
