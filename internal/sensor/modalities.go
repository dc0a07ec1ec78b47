// internal/sensor/modalities.go
package sensor

import (
	"go.uber.org/zap"

	"github.com/ShaiKKO/EnviroSense-sub003/internal/config"
	"github.com/ShaiKKO/EnviroSense-sub003/internal/data"
	"github.com/ShaiKKO/EnviroSense-sub003/internal/groundtruth"
	"github.com/ShaiKKO/EnviroSense-sub003/internal/imperfection"
	"github.com/ShaiKKO/EnviroSense-sub003/internal/vecmath"
)

// maxSPLdBA is the physical ceiling of sound pressure level in air at
// sea-level atmospheric pressure.
const maxSPLdBA = 194.0

var defaultAcousticHarmonics = map[string]float64{
	data.Component3rd: 0.10,
	data.Component5th: 0.05,
	data.Component7th: 0.02,
	data.Component9th: 0.01,
}

// NewAcoustic builds a sound-pressure sensor. Spectrum output is off by
// default; when enabled the harmonic stack models rotating-machinery tones
// around base_frequency (default 1000 Hz). Output is clamped to [0, 194]
// dB(A) so downstream range validation can hold.
func NewAcoustic(id string, pos data.Position3D, params config.Params, log *zap.Logger) (Sensor, error) {
	if log == nil {
		log = zap.NewNop()
	}
	r := config.NewResolver(params)

	baseFreq := r.PositiveFloat("base_frequency", 1000)

	var stages []imperfection.Stage
	if r.Bool("enable_spectrum_output", false) {
		stages = append(stages, imperfection.FrequencyAnalysis{
			BaseFrequencyHz: baseFreq,
			HarmonicRatios:  harmonicRatios(r, defaultAcousticHarmonics),
			FrequencyNoise:  r.Bool("frequency_noise", false),
			NoiseStddev:     r.NonNegativeFloat("frequency_noise_stddev", 0.05),
		})
	}

	stages = append(stages, imperfection.FrequencyResponse{
		Curve:            r.FloatMap("frequency_response_curve", nil),
		TempCoeffPer10C:  r.Float("temp_coeff_per_10c", -0.001),
		RefTempC:         r.Float("ref_temp_c", 25),
		Table:            freqGainTable(r, "frequency_gain_table"),
		MatchToleranceHz: r.NonNegativeFloat("response_match_tolerance_hz", 50),
		DefaultGain:      r.NonNegativeFloat("response_default_gain", 1.0),
	})

	// Sound pressure is scalar: the directional stage only engages when an
	// assumed incidence direction is configured for the microphone.
	directional := imperfection.DirectionalSensitivity{
		Orientation:       r.Vec3("orientation", vecmath.Vec3{Z: 1}),
		UncertaintyStddev: r.NonNegativeFloat("orientation_uncertainty_stddev", 0.05),
	}
	if r.Has("assumed_field_direction") {
		dir := r.Vec3("assumed_field_direction", vecmath.Vec3{})
		directional.AssumedDirection = &dir
	}
	stages = append(stages, directional)

	stages = append(stages,
		calibrationDrift(r, 0),
		generalDrift(r),
		noiseInjection(r, 0.8),
	)

	conditions := []groundtruth.ConditionRule{
		conditionRule(r, "mechanical_fault", 10.0, 0.8),
	}
	thresholds := []groundtruth.ThresholdRule{
		thresholdRule(r, "overload", 120.0, 25.0, 0.9),
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
		modality:  ModalityAcoustic,
		field:     "spl_dba",
		unit:      "dBA",
		pos:       pos,
		pipeline:  pipeline,
		evaluator: groundtruth.NewEvaluator(conditions, thresholds, log),
		readIdeal: scalarIdeal("spl_dba", baseFreq),
		clampMin:  0,
		clampMax:  maxSPLdBA,
		log:       log,
	}, nil
}

// NewParticulate builds a particulate-matter sensor reporting PM2.5 as the
// primary value with PM1.0 / PM10.0 derived as ordered fractions, so
// pm1_0 <= pm2_5 <= pm10_0 always holds for the validation layer.
func NewParticulate(id string, pos data.Position3D, params config.Params, log *zap.Logger) (Sensor, error) {
	if log == nil {
		log = zap.NewNop()
	}
	r := config.NewResolver(params)

	pm1Ratio := r.UnitFloat("pm1_0_ratio", 0.6)
	pm10Factor := r.Float("pm10_0_factor", 1.4)
	if r.Err() == nil && pm10Factor < 1 {
		r.Failf("pm10_0_factor", "must be >= 1, got %v", pm10Factor)
	}

	stages := []imperfection.Stage{
		calibrationDrift(r, 0),
		generalDrift(r),
		noiseInjection(r, 1.5),
	}

	conditions := []groundtruth.ConditionRule{
		conditionRule(r, "dust_event", 20.0, 0.85),
	}
	thresholds := []groundtruth.ThresholdRule{
		thresholdRule(r, "overload", 500.0, 40.0, 0.9),
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
		modality:  ModalityParticulate,
		field:     "pm2_5",
		unit:      "ug/m3",
		pos:       pos,
		pipeline:  pipeline,
		evaluator: groundtruth.NewEvaluator(conditions, thresholds, log),
		readIdeal: scalarIdeal("pm2_5", 0),
		clampMin:  0,
		clampMax:  unbounded,
		extras: func(v float64) map[string]float64 {
			return map[string]float64{
				"pm1_0":  v * pm1Ratio,
				"pm10_0": v * pm10Factor,
			}
		},
		log: log,
	}, nil
}

// NewThermal builds a temperature sensor. Readings may legitimately be
// negative, so the output is unclamped.
func NewThermal(id string, pos data.Position3D, params config.Params, log *zap.Logger) (Sensor, error) {
	if log == nil {
		log = zap.NewNop()
	}
	r := config.NewResolver(params)

	stages := []imperfection.Stage{
		calibrationDrift(r, 0),
		generalDrift(r),
		noiseInjection(r, 0.2),
	}

	conditions := []groundtruth.ConditionRule{
		conditionRule(r, "hotspot_intensity", 10.0, 0.9),
	}
	thresholds := []groundtruth.ThresholdRule{
		thresholdRule(r, "overheat", 85.0, 30.0, 0.9),
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
		modality:  ModalityThermal,
		field:     "temperature_c",
		unit:      "C",
		pos:       pos,
		pipeline:  pipeline,
		evaluator: groundtruth.NewEvaluator(conditions, thresholds, log),
		readIdeal: scalarIdeal("temperature_c", 0),
		clampMin:  unbounded,
		clampMax:  unbounded,
		log:       log,
	}, nil
}

// NewChemical builds a gas-concentration sensor. Electrochemical cells have
// a pronounced quadratic response error, so the nonlinearity default is
// orders of magnitude above the EMF probe's.
func NewChemical(id string, pos data.Position3D, params config.Params, log *zap.Logger) (Sensor, error) {
	if log == nil {
		log = zap.NewNop()
	}
	r := config.NewResolver(params)

	stages := []imperfection.Stage{
		calibrationDrift(r, 1e-4),
		generalDrift(r),
		noiseInjection(r, 2.0),
	}

	conditions := []groundtruth.ConditionRule{
		conditionRule(r, "gas_leak", 100.0, 0.9),
	}
	thresholds := []groundtruth.ThresholdRule{
		thresholdRule(r, "overload", 1000.0, 60.0, 0.95),
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
		modality:  ModalityChemical,
		field:     "gas_ppm",
		unit:      "ppm",
		pos:       pos,
		pipeline:  pipeline,
		evaluator: groundtruth.NewEvaluator(conditions, thresholds, log),
		readIdeal: scalarIdeal("gas_ppm", 0),
		clampMin:  0,
		clampMax:  unbounded,
		log:       log,
	}, nil
}
