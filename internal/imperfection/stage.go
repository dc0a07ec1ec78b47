// internal/imperfection/stage.go
// Package imperfection implements the staged transformation from an ideal
// field value to a realistic instrument reading. Stages are pure functions
// of (state, config, context); they never touch global state and each can be
// tested in isolation.
package imperfection

import (
	"math/rand/v2"

	"go.uber.org/zap"

	"github.com/ShaiKKO/EnviroSense-sub003/internal/data"
	"github.com/ShaiKKO/EnviroSense-sub003/internal/environment"
	"github.com/ShaiKKO/EnviroSense-sub003/internal/vecmath"
)

// State is the reading as it threads through the pipeline. Spectrum is nil
// until FrequencyAnalysis creates it and stays nil for modalities that do
// not emit spectra.
type State struct {
	Value       float64
	FrequencyHz float64
	Direction   *vecmath.Vec3
	Spectrum    data.Spectrum
}

// Context carries the per-sample collaborators a stage may use: the
// environment, the sensor position, a sample-scoped random generator, the
// operating clock and the ambient temperature.
type Context struct {
	Env          environment.Query
	Position     data.Position3D
	Rand         *rand.Rand
	ElapsedHours float64
	TempC        float64
	Log          *zap.Logger
}

// Stage is one unit of the imperfection pipeline.
type Stage interface {
	Name() string
	Apply(st State, ctx *Context) State

	// rank fixes the stage's slot in the canonical ordering. A modality
	// may omit stages but never reorder the remaining ones.
	rank() int
}

// Canonical stage ranks.
const (
	rankFrequencyAnalysis = iota
	rankFrequencyResponse
	rankAxisMisalignment
	rankDirectional
	rankInterference
	rankCalibrationDrift
	rankGeneralDrift
	rankNoise
)

// Pipeline is a fixed, ordered stage sequence.
type Pipeline struct {
	stages []Stage
}

// NewPipeline builds a pipeline, rejecting any sequence that deviates from
// the canonical stage order.
func NewPipeline(stages ...Stage) (Pipeline, error) {
	last := -1
	for _, s := range stages {
		if s.rank() <= last {
			return Pipeline{}, errOutOfOrder(s.Name())
		}
		last = s.rank()
	}
	return Pipeline{stages: stages}, nil
}

// Apply threads the state through every stage in order.
func (p Pipeline) Apply(st State, ctx *Context) State {
	for _, s := range p.stages {
		st = s.Apply(st, ctx)
	}
	return st
}

// StageNames returns the ordered stage names, for logging.
func (p Pipeline) StageNames() []string {
	names := make([]string, len(p.stages))
	for i, s := range p.stages {
		names[i] = s.Name()
	}
	return names
}

// OrderError reports a stage sequence that violates the ordering contract.
type OrderError struct {
	Stage string
}

func (e *OrderError) Error() string {
	return "imperfection: stage " + e.Stage + " out of canonical order"
}

func errOutOfOrder(name string) error {
	return &OrderError{Stage: name}
}
