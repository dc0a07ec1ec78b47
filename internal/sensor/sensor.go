// internal/sensor/sensor.go
// Package sensor composes the imperfection stage library and a ground-truth
// evaluator into concrete modality sensors. Each variant is a fixed stage
// subset plus a rule set, both resolved once from a single parameter map at
// construction.
package sensor

import (
	"math"
	"math/rand/v2"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/ShaiKKO/EnviroSense-sub003/internal/data"
	"github.com/ShaiKKO/EnviroSense-sub003/internal/environment"
	"github.com/ShaiKKO/EnviroSense-sub003/internal/groundtruth"
	"github.com/ShaiKKO/EnviroSense-sub003/internal/imperfection"
)

// SampleContext carries the per-sample collaborators supplied by the
// scenario driver: the environment, a sample-scoped random generator, the
// wall clock, the operating-hours clock and the ambient temperature. Drift
// is derived from ElapsedHours on every call; sensors hold no hidden time
// state.
type SampleContext struct {
	Env          environment.Query
	Rand         *rand.Rand
	Time         time.Time
	ElapsedHours float64
	AmbientTempC float64
}

// Sensor is one simulated instrument. ApplyImperfections must complete
// before GroundTruth within a sample, since threshold labels read the
// observed value; across sensors there is no ordering dependency.
type Sensor interface {
	ID() string
	Modality() string
	Position() data.Position3D
	SetPosition(data.Position3D)

	// ReadIdeal queries the environment for the uncorrupted field value at
	// the sensor's position. An environment miss reads as zero.
	ReadIdeal(env environment.Query) data.IdealReading

	// ApplyImperfections threads the ideal reading through the modality's
	// fixed stage sequence and returns the instrument reading.
	ApplyImperfections(ideal data.IdealReading, sctx *SampleContext) data.ObservedReading

	// GroundTruth derives the anomaly labels for the sample. State-based
	// conditions are recomputed from the environment on every call.
	GroundTruth(observed data.ObservedReading, sctx *SampleContext) []data.AnomalyLabel
}

// readIdealFunc is the modality-specific environment read.
type readIdealFunc func(env environment.Query, pos data.Position3D) data.IdealReading

// base carries everything the modality variants share. Position is the only
// mutable field; the driver may move a sensor between timesteps.
type base struct {
	id       string
	modality string
	field    string
	unit     string

	mu  sync.RWMutex
	pos data.Position3D

	pipeline  imperfection.Pipeline
	evaluator *groundtruth.Evaluator
	readIdeal readIdealFunc

	clampMin, clampMax float64 // output domain, NaN = unbounded
	extras             func(value float64) map[string]float64

	log *zap.Logger
}

func (b *base) ID() string       { return b.id }
func (b *base) Modality() string { return b.modality }

func (b *base) Position() data.Position3D {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.pos
}

func (b *base) SetPosition(pos data.Position3D) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.pos = pos
}

func (b *base) ReadIdeal(env environment.Query) data.IdealReading {
	return b.readIdeal(env, b.Position())
}

func (b *base) ApplyImperfections(ideal data.IdealReading, sctx *SampleContext) data.ObservedReading {
	pos := b.Position()
	ctx := &imperfection.Context{
		Env:          sctx.Env,
		Position:     pos,
		Rand:         sctx.Rand,
		ElapsedHours: sctx.ElapsedHours,
		TempC:        sctx.AmbientTempC,
		Log:          b.log,
	}

	st := imperfection.State{
		Value:       ideal.Value,
		FrequencyHz: ideal.FrequencyHz,
		Direction:   ideal.Direction,
	}
	st = b.pipeline.Apply(st, ctx)

	value := st.Value
	if !math.IsNaN(b.clampMin) && value < b.clampMin {
		value = b.clampMin
	}
	if !math.IsNaN(b.clampMax) && value > b.clampMax {
		value = b.clampMax
	}

	obs := data.ObservedReading{
		SensorID:      b.id,
		Modality:      b.modality,
		Field:         b.field,
		Unit:          b.unit,
		TimestampUsec: sctx.Time.UnixMicro(),
		Position:      pos,
		Value:         value,
		Spectrum:      st.Spectrum,
	}
	if b.extras != nil {
		obs.Extra = b.extras(value)
	}
	return obs
}

func (b *base) GroundTruth(observed data.ObservedReading, sctx *SampleContext) []data.AnomalyLabel {
	return b.evaluator.Evaluate(sctx.Env, b.Position(), observed.Value)
}

var unbounded = math.NaN()
