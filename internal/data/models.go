// internal/data/models.go
package data

import (
	"math"

	"github.com/ShaiKKO/EnviroSense-sub003/internal/vecmath"
)

// Position3D is a point in the twin's world frame, in metres. It is owned by
// a sensor and immutable within a sample; the scenario driver may move the
// sensor between timesteps.
type Position3D struct {
	X float64 `yaml:"x" json:"x"`
	Y float64 `yaml:"y" json:"y"`
	Z float64 `yaml:"z" json:"z"`
}

// DistanceTo returns the Euclidean distance between two positions.
func (p Position3D) DistanceTo(o Position3D) float64 {
	dx := p.X - o.X
	dy := p.Y - o.Y
	dz := p.Z - o.Z
	return math.Sqrt(dx*dx + dy*dy + dz*dz)
}

// Spectrum component names. Harmonic decomposition uses the odd harmonics
// typical of power-system waveforms plus two broadband noise slots.
const (
	ComponentFundamental = "fundamental"
	Component3rd         = "3rd"
	Component5th         = "5th"
	Component7th         = "7th"
	Component9th         = "9th"
	ComponentHFNoise     = "high_frequency_noise"
	ComponentEMIFloor    = "emi_noise_floor"
)

// HarmonicComponents lists the harmonic slots in ascending order. Order
// matters for reproducibility: stages that draw randomness per component
// must iterate deterministically.
var HarmonicComponents = []string{Component3rd, Component5th, Component7th, Component9th}

// HarmonicOrder maps a harmonic component name to its order (3rd -> 3).
var HarmonicOrder = map[string]int{
	Component3rd: 3,
	Component5th: 5,
	Component7th: 7,
	Component9th: 9,
}

// Spectrum maps frequency-component names to non-negative magnitudes.
type Spectrum map[string]float64

// Clone returns a deep copy. A nil spectrum clones to nil.
func (s Spectrum) Clone() Spectrum {
	if s == nil {
		return nil
	}
	out := make(Spectrum, len(s))
	for k, v := range s {
		out[k] = v
	}
	return out
}

// IdealReading is the uncorrupted field value at the sensor's position for
// its modality. Direction is nil for modalities whose field carries no
// orientation (scalar quantities).
type IdealReading struct {
	Value       float64
	FrequencyHz float64
	Direction   *vecmath.Vec3
}

// ObservedReading is the corrupted reading as a real instrument would report
// it: the primary quantity after the imperfection pipeline, the optional
// harmonic spectrum, auxiliary derived quantities, and sample metadata.
type ObservedReading struct {
	SensorID      string             `json:"sensor_id"`
	Modality      string             `json:"modality"`
	Field         string             `json:"field"`
	Unit          string             `json:"unit,omitempty"`
	TimestampUsec int64              `json:"timestamp_usec"`
	Position      Position3D         `json:"position"`
	Value         float64            `json:"value"`
	Spectrum      Spectrum           `json:"spectrum,omitempty"`
	Extra         map[string]float64 `json:"extra,omitempty"`
}

// DriftState is the calibration error derived from elapsed operating time.
// It is recomputed from elapsed hours on every sample, never accumulated.
type DriftState struct {
	Gain   float64 `json:"gain"`
	Offset float64 `json:"offset"`
}

// AnomalyLabel is one ground-truth annotation. A sample carries zero or more
// labels; simultaneous conditions are reported independently.
type AnomalyLabel struct {
	Type       string  `json:"anomaly_type"`
	Severity   float64 `json:"severity"`
	Confidence float64 `json:"confidence"`
}

// Sample is the unit of output: one labeled reading per sensor per timestep.
type Sample struct {
	ObservedReading
	GroundTruth []AnomalyLabel `json:"ground_truth"`
}

// ClampUnit clamps v to [0,1]. Used for confidences and alignment factors.
func ClampUnit(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// ClampNonNegative clamps v to [0,+inf).
func ClampNonNegative(v float64) float64 {
	if v < 0 {
		return 0
	}
	return v
}
