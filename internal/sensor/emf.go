// internal/sensor/emf.go
package sensor

import (
	"go.uber.org/zap"

	"github.com/ShaiKKO/EnviroSense-sub003/internal/config"
	"github.com/ShaiKKO/EnviroSense-sub003/internal/data"
	"github.com/ShaiKKO/EnviroSense-sub003/internal/environment"
	"github.com/ShaiKKO/EnviroSense-sub003/internal/groundtruth"
	"github.com/ShaiKKO/EnviroSense-sub003/internal/imperfection"
	"github.com/ShaiKKO/EnviroSense-sub003/internal/vecmath"
)

// Environment fields consumed by the EMF modality.
const (
	fieldEMFVector       = "emf_vector"
	fieldACFieldStrength = "ac_field_strength"
	fieldCoronaDischarge = "corona_discharge"
	fieldArcingIntensity = "arcing_intensity"
)

// defaultEMFResponseCurve is the per-component response of a typical AC
// field probe: flat at the fundamental, rolling off toward the higher
// harmonics and broadband slots.
var defaultEMFResponseCurve = map[string]float64{
	data.ComponentFundamental: 1.0,
	data.Component3rd:         0.95,
	data.Component5th:         0.90,
	data.Component7th:         0.80,
	data.Component9th:         0.70,
	data.ComponentHFNoise:     0.50,
	data.ComponentEMIFloor:    1.0,
}

var defaultEMFHarmonics = map[string]float64{
	data.Component3rd: 0.15,
	data.Component5th: 0.08,
	data.Component7th: 0.04,
	data.Component9th: 0.02,
}

// NewEMF builds an electromagnetic-field sensor: the full pipeline with
// harmonic spectrum output, directional sensitivity and interference
// coupling.
//
// frequency_range_hz ([min,max]) is required: probe bandwidth is hardware
// specific and has no safe default. base_frequency (default 60) must lie
// inside it. All other keys fall back to documented defaults.
func NewEMF(id string, pos data.Position3D, params config.Params, log *zap.Logger) (Sensor, error) {
	if log == nil {
		log = zap.NewNop()
	}
	r := config.NewResolver(params)

	minHz, maxHz := r.Range("frequency_range_hz")
	baseFreq := r.PositiveFloat("base_frequency", 60)
	if r.Err() == nil && (baseFreq < minHz || baseFreq > maxHz) {
		r.Failf("base_frequency", "%v outside frequency_range_hz [%v, %v]", baseFreq, minHz, maxHz)
	}

	spectrumOn := r.Bool("enable_spectrum_output", true)

	var stages []imperfection.Stage
	if spectrumOn {
		stages = append(stages, imperfection.FrequencyAnalysis{
			BaseFrequencyHz: baseFreq,
			HarmonicRatios:  harmonicRatios(r, defaultEMFHarmonics),
			FrequencyNoise:  r.Bool("frequency_noise", false),
			NoiseStddev:     r.NonNegativeFloat("frequency_noise_stddev", 0.05),
			HFNoiseFactor:   r.NonNegativeFloat("corona_hf_noise_factor", 0.3),
			DischargeField:  fieldCoronaDischarge,
		})
	}

	stages = append(stages, imperfection.FrequencyResponse{
		Curve:            r.FloatMap("frequency_response_curve", defaultEMFResponseCurve),
		TempCoeffPer10C:  r.Float("temp_coeff_per_10c", -0.002),
		RefTempC:         r.Float("ref_temp_c", 25),
		Table:            freqGainTable(r, "frequency_gain_table"),
		MatchToleranceHz: r.NonNegativeFloat("response_match_tolerance_hz", 5),
		DefaultGain:      r.NonNegativeFloat("response_default_gain", 1.0),
	})

	if angle := r.NonNegativeFloat("axis_misalignment_rad", 0); angle > 0 {
		stages = append(stages, imperfection.AxisMisalignment{AngleRad: angle})
	}

	directional := imperfection.DirectionalSensitivity{
		Orientation:       r.Vec3("orientation", vecmath.Vec3{Z: 1}),
		UncertaintyStddev: r.NonNegativeFloat("orientation_uncertainty_stddev", 0.02),
	}
	if r.Has("assumed_field_direction") {
		dir := r.Vec3("assumed_field_direction", vecmath.Vec3{})
		directional.AssumedDirection = &dir
	}
	stages = append(stages, directional)

	stages = append(stages, imperfection.InterferenceCoupling{
		SearchRadiusM:    r.PositiveFloat("emi_search_radius_m", 100),
		CouplingFactor:   r.NonNegativeFloat("emi_coupling_factor", 1.0),
		FieldImpact:      r.NonNegativeFloat("emi_field_impact", 0.1),
		NoiseFloorImpact: r.NonNegativeFloat("emi_noise_floor_impact", 0.05),
	})

	stages = append(stages,
		calibrationDrift(r, 1e-6),
		generalDrift(r),
		noiseInjection(r, 0.5),
	)

	conditions := []groundtruth.ConditionRule{
		conditionRule(r, fieldCoronaDischarge, 100.0, 0.9),
		conditionRule(r, fieldArcingIntensity, 50.0, 0.85),
	}
	thresholds := []groundtruth.ThresholdRule{
		thresholdRule(r, "overload", 500.0, 50.0, 0.95),
	}

	if err := r.Err(); err != nil {
		return nil, err
	}

	pipeline, err := imperfection.NewPipeline(stages...)
	if err != nil {
		return nil, err
	}

	return &base{
		id:        id,
		modality:  ModalityEMF,
		field:     fieldACFieldStrength,
		unit:      "uT",
		pos:       pos,
		pipeline:  pipeline,
		evaluator: groundtruth.NewEvaluator(conditions, thresholds, log),
		readIdeal: emfIdeal(baseFreq),
		clampMin:  0,
		clampMax:  unbounded,
		log:       log,
	}, nil
}

// emfIdeal reads the EMF vector field, falling back to the scalar magnitude
// field when no vector is defined at the position. A full miss reads zero.
func emfIdeal(baseFreq float64) readIdealFunc {
	return func(env environment.Query, pos data.Position3D) data.IdealReading {
		if vec, ok := env.GetVectorField(fieldEMFVector, pos); ok {
			ideal := data.IdealReading{Value: vec.Norm(), FrequencyHz: baseFreq}
			if unit, ok := vec.Normalize(); ok {
				ideal.Direction = &unit
			}
			return ideal
		}
		v, _ := env.GetFieldValue(fieldACFieldStrength, pos)
		return data.IdealReading{Value: v, FrequencyHz: baseFreq}
	}
}
