// internal/imperfection/frequency.go
package imperfection

import (
	"math"

	"github.com/ShaiKKO/EnviroSense-sub003/internal/data"
)

// FrequencyAnalysis decomposes the reading into a harmonic spectrum. The
// fundamental carries the input magnitude; each configured harmonic is a
// fixed ratio of it, optionally jittered. high_frequency_noise is populated
// only while the configured discharge field is active at the sensor
// position; emi_noise_floor is reserved here and filled by the interference
// stage.
type FrequencyAnalysis struct {
	BaseFrequencyHz float64
	HarmonicRatios  map[string]float64 // component name -> ratio of fundamental
	FrequencyNoise  bool
	NoiseStddev     float64 // relative jitter on harmonic magnitudes
	HFNoiseFactor   float64
	DischargeField  string // scalar env field gating high_frequency_noise
}

func (f FrequencyAnalysis) Name() string { return "frequency_analysis" }
func (f FrequencyAnalysis) rank() int    { return rankFrequencyAnalysis }

func (f FrequencyAnalysis) Apply(st State, ctx *Context) State {
	st.FrequencyHz = f.BaseFrequencyHz

	sp := data.Spectrum{data.ComponentFundamental: data.ClampNonNegative(st.Value)}
	fundamental := sp[data.ComponentFundamental]

	// Deterministic component order: jitter draws consume the sample RNG.
	for _, name := range data.HarmonicComponents {
		ratio, ok := f.HarmonicRatios[name]
		if !ok {
			continue
		}
		mag := fundamental * ratio
		if f.FrequencyNoise && f.NoiseStddev > 0 {
			mag *= 1 + ctx.Rand.NormFloat64()*f.NoiseStddev
		}
		sp[name] = data.ClampNonNegative(mag)
	}

	hf := 0.0
	if f.DischargeField != "" {
		if v, ok := ctx.Env.GetFieldValue(f.DischargeField, ctx.Position); ok && v != 0 {
			hf = fundamental * f.HFNoiseFactor
		}
	}
	sp[data.ComponentHFNoise] = data.ClampNonNegative(hf)
	sp[data.ComponentEMIFloor] = 0

	st.Spectrum = sp
	return st
}

// FreqGain is one entry of a scalar frequency-response table.
type FreqGain struct {
	FrequencyHz float64
	Gain        float64
}

// FrequencyResponse applies the instrument's attenuation/gain curve. For
// spectrum readings every present component is scaled by its
// temperature-corrected multiplier; for scalar readings the dominant
// frequency is matched against Table within MatchToleranceHz, nearest entry
// winning ties, with DefaultGain as the fallback.
type FrequencyResponse struct {
	Curve            map[string]float64 // component name -> base multiplier
	TempCoeffPer10C  float64
	RefTempC         float64
	Table            []FreqGain
	MatchToleranceHz float64
	DefaultGain      float64
}

func (f FrequencyResponse) Name() string { return "frequency_response" }
func (f FrequencyResponse) rank() int    { return rankFrequencyResponse }

func (f FrequencyResponse) effective(base float64, tempC float64) float64 {
	m := base * (1 + f.TempCoeffPer10C*(tempC-f.RefTempC)/10)
	return data.ClampNonNegative(m)
}

func (f FrequencyResponse) Apply(st State, ctx *Context) State {
	if st.Spectrum != nil {
		st.Spectrum = st.Spectrum.Clone()
		for name := range st.Spectrum {
			base, ok := f.Curve[name]
			if !ok {
				continue
			}
			st.Spectrum[name] *= f.effective(base, ctx.TempC)
		}
		// The primary quantity tracks the fundamental's response.
		if base, ok := f.Curve[data.ComponentFundamental]; ok {
			st.Value *= f.effective(base, ctx.TempC)
		}
		return st
	}

	st.Value *= f.effective(f.tableGain(st.FrequencyHz), ctx.TempC)
	return st
}

// tableGain matches the dominant frequency to the gain table. Nearest match
// within tolerance wins; equal distances keep the earlier entry.
func (f FrequencyResponse) tableGain(freqHz float64) float64 {
	gain := f.DefaultGain
	best := math.Inf(1)
	for _, e := range f.Table {
		d := math.Abs(e.FrequencyHz - freqHz)
		if d <= f.MatchToleranceHz && d < best {
			best = d
			gain = e.Gain
		}
	}
	return gain
}

// AxisMisalignment attenuates every present spectrum component by the cosine
// of a fixed mounting misalignment angle. Runs after FrequencyResponse; a
// no-op for scalar readings.
type AxisMisalignment struct {
	AngleRad float64
}

func (a AxisMisalignment) Name() string { return "axis_misalignment" }
func (a AxisMisalignment) rank() int    { return rankAxisMisalignment }

func (a AxisMisalignment) Apply(st State, _ *Context) State {
	if st.Spectrum == nil {
		return st
	}
	k := data.ClampNonNegative(math.Cos(a.AngleRad))
	st.Spectrum = st.Spectrum.Clone()
	for name := range st.Spectrum {
		st.Spectrum[name] *= k
	}
	return st
}
