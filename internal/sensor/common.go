// internal/sensor/common.go
package sensor

import (
	"sort"
	"strconv"

	"github.com/ShaiKKO/EnviroSense-sub003/internal/config"
	"github.com/ShaiKKO/EnviroSense-sub003/internal/data"
	"github.com/ShaiKKO/EnviroSense-sub003/internal/environment"
	"github.com/ShaiKKO/EnviroSense-sub003/internal/groundtruth"
	"github.com/ShaiKKO/EnviroSense-sub003/internal/imperfection"
)

// Shared configuration-resolution helpers. Every modality resolves the
// common parameter families through these so the key names and defaults are
// documented in exactly one place.
//
// Common keys:
//
//	base_gain_error      (>0, default 1.0)    calibration gain at t=0
//	drift_rate_gain      (default 1e-4 /h)    gain drift per operating hour
//	base_offset          (default 0)          calibration offset at t=0
//	drift_rate_offset    (default 5e-4 /h)    offset drift per operating hour
//	nonlinearity_factor  (modality default)   quadratic response term
//	drift_per_hour       (default 0)          additive general drift
//	noise_mean           (default 0)          Gaussian noise mean
//	noise_stddev         (>=0, modality def.) Gaussian noise std deviation
//	<type>_severity_scale / <type>_confidence / <type>_threshold

func calibrationDrift(r *config.Resolver, defNonlinearity float64) imperfection.CalibrationDrift {
	return imperfection.CalibrationDrift{
		BaseGainError:      r.PositiveFloat("base_gain_error", 1.0),
		DriftRateGain:      r.Float("drift_rate_gain", 1e-4),
		BaseOffset:         r.Float("base_offset", 0),
		DriftRateOffset:    r.Float("drift_rate_offset", 5e-4),
		NonlinearityFactor: r.Float("nonlinearity_factor", defNonlinearity),
	}
}

func generalDrift(r *config.Resolver) imperfection.GeneralDrift {
	return imperfection.GeneralDrift{PerHourRate: r.Float("drift_per_hour", 0)}
}

func noiseInjection(r *config.Resolver, defStddev float64) imperfection.NoiseInjection {
	return imperfection.NoiseInjection{
		Mean:   r.Float("noise_mean", 0),
		Stddev: r.NonNegativeFloat("noise_stddev", defStddev),
	}
}

// conditionRule resolves a presence-based ground-truth rule. The label type
// doubles as the environment field name.
func conditionRule(r *config.Resolver, typ string, defScale, defConfidence float64) groundtruth.ConditionRule {
	return groundtruth.ConditionRule{
		Type:          typ,
		Field:         typ,
		SeverityScale: r.NonNegativeFloat(typ+"_severity_scale", defScale),
		Confidence:    r.UnitFloat(typ+"_confidence", defConfidence),
	}
}

// thresholdRule resolves a threshold-based ground-truth rule against the
// observed value.
func thresholdRule(r *config.Resolver, typ string, defThreshold, defScale, defConfidence float64) groundtruth.ThresholdRule {
	return groundtruth.ThresholdRule{
		Type:          typ,
		Threshold:     r.Float(typ+"_threshold", defThreshold),
		SeverityScale: r.NonNegativeFloat(typ+"_severity_scale", defScale),
		Confidence:    r.UnitFloat(typ+"_confidence", defConfidence),
	}
}

// harmonicRatios resolves the harmonic_N_ratio family.
func harmonicRatios(r *config.Resolver, defs map[string]float64) map[string]float64 {
	out := make(map[string]float64, len(data.HarmonicComponents))
	for _, name := range data.HarmonicComponents {
		key := "harmonic_" + strconv.Itoa(data.HarmonicOrder[name]) + "_ratio"
		out[name] = r.NonNegativeFloat(key, defs[name])
	}
	return out
}

// freqGainTable parses a scalar frequency->gain table keyed by frequency
// string (e.g. {"60": 1.0, "120": 0.9}), sorted ascending so equal-distance
// ties deterministically keep the lower frequency.
func freqGainTable(r *config.Resolver, key string) []imperfection.FreqGain {
	raw := r.FloatMap(key, nil)
	if len(raw) == 0 {
		return nil
	}
	table := make([]imperfection.FreqGain, 0, len(raw))
	for k, gain := range raw {
		f, err := strconv.ParseFloat(k, 64)
		if err != nil || f <= 0 {
			r.Failf(key, "entry %q: frequency must be a positive number", k)
			return nil
		}
		table = append(table, imperfection.FreqGain{FrequencyHz: f, Gain: gain})
	}
	sort.Slice(table, func(i, j int) bool { return table[i].FrequencyHz < table[j].FrequencyHz })
	return table
}

// scalarIdeal builds a readIdealFunc for modalities whose field is a plain
// scalar at the sensor position.
func scalarIdeal(field string, frequencyHz float64) readIdealFunc {
	return func(env environment.Query, pos data.Position3D) data.IdealReading {
		v, _ := env.GetFieldValue(field, pos)
		return data.IdealReading{Value: v, FrequencyHz: frequencyHz}
	}
}
