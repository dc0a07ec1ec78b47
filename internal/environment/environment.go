// internal/environment/environment.go
// Package environment defines the digital-twin environment query surface the
// simulator consumes, plus an in-memory implementation for scenarios and
// tests. The simulator only ever reads environment state.
package environment

import (
	"sync"

	"github.com/ShaiKKO/EnviroSense-sub003/internal/data"
	"github.com/ShaiKKO/EnviroSense-sub003/internal/vecmath"
)

// Source is an interference emitter near a sensor: position, operating
// frequency and emission strength.
type Source struct {
	Position    data.Position3D `yaml:"position" json:"position"`
	FrequencyHz float64         `yaml:"frequency_hz" json:"frequency_hz"`
	Strength    float64         `yaml:"strength" json:"strength"`
}

// Query is the read-only environment interface. A false second return means
// the field is unknown or does not cover the given position; callers must
// treat that as "condition absent", never as an error.
type Query interface {
	GetFieldValue(name string, pos data.Position3D) (float64, bool)
	GetVectorField(name string, pos data.Position3D) (vecmath.Vec3, bool)
	GetNearbySources(pos data.Position3D, radius float64) []Source
}

// ScalarField is a named scalar field. When Center is set the field only
// resolves within Radius of it; otherwise it is uniform everywhere.
type ScalarField struct {
	Value  float64          `yaml:"value"`
	Center *data.Position3D `yaml:"center,omitempty"`
	Radius float64          `yaml:"radius,omitempty"`
}

// VectorField is a named uniform vector field.
type VectorField struct {
	Value  vecmath.Vec3     `yaml:"value"`
	Center *data.Position3D `yaml:"center,omitempty"`
	Radius float64          `yaml:"radius,omitempty"`
}

// StaticEnvironment is a mutex-guarded in-memory environment. The scenario
// driver may mutate it between timesteps; reads during a timestep are
// concurrent and side-effect free.
type StaticEnvironment struct {
	mu      sync.RWMutex
	scalars map[string]ScalarField
	vectors map[string]VectorField
	sources []Source
}

// NewStaticEnvironment returns an empty environment.
func NewStaticEnvironment() *StaticEnvironment {
	return &StaticEnvironment{
		scalars: make(map[string]ScalarField),
		vectors: make(map[string]VectorField),
	}
}

func (f ScalarField) covers(pos data.Position3D) bool {
	return f.Center == nil || f.Center.DistanceTo(pos) <= f.Radius
}

func (f VectorField) covers(pos data.Position3D) bool {
	return f.Center == nil || f.Center.DistanceTo(pos) <= f.Radius
}

// GetFieldValue resolves a scalar field at pos.
func (e *StaticEnvironment) GetFieldValue(name string, pos data.Position3D) (float64, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	f, ok := e.scalars[name]
	if !ok || !f.covers(pos) {
		return 0, false
	}
	return f.Value, true
}

// GetVectorField resolves a vector field at pos.
func (e *StaticEnvironment) GetVectorField(name string, pos data.Position3D) (vecmath.Vec3, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	f, ok := e.vectors[name]
	if !ok || !f.covers(pos) {
		return vecmath.Vec3{}, false
	}
	return f.Value, true
}

// GetNearbySources returns a copy of all sources within radius of pos.
func (e *StaticEnvironment) GetNearbySources(pos data.Position3D, radius float64) []Source {
	e.mu.RLock()
	defer e.mu.RUnlock()

	var out []Source
	for _, s := range e.sources {
		if s.Position.DistanceTo(pos) <= radius {
			out = append(out, s)
		}
	}
	return out
}

// SetField sets or replaces a scalar field.
func (e *StaticEnvironment) SetField(name string, f ScalarField) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.scalars[name] = f
}

// SetFieldValue sets a uniform scalar field covering all positions.
func (e *StaticEnvironment) SetFieldValue(name string, value float64) {
	e.SetField(name, ScalarField{Value: value})
}

// RemoveField deletes a scalar field.
func (e *StaticEnvironment) RemoveField(name string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	delete(e.scalars, name)
}

// SetVectorField sets or replaces a vector field.
func (e *StaticEnvironment) SetVectorField(name string, f VectorField) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.vectors[name] = f
}

// AddSource registers an interference source.
func (e *StaticEnvironment) AddSource(s Source) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.sources = append(e.sources, s)
}

// ClearSources removes all interference sources.
func (e *StaticEnvironment) ClearSources() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.sources = nil
}
