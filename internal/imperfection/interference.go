// internal/imperfection/interference.go
package imperfection

import (
	"math"

	"github.com/ShaiKKO/EnviroSense-sub003/internal/data"
)

// minFrequencyDeltaHz floors the frequency difference used for coupling so a
// source at exactly the sensor's fundamental cannot divide by zero; it
// simply couples at full strength.
const minFrequencyDeltaHz = 1.0

// InterferenceCoupling aggregates the contribution of nearby emitters. Each
// source couples inversely with its frequency offset from the sensor's
// fundamental; the sum perturbs the primary value (with a per-sample random
// sign/magnitude draw, since interference may be constructive or
// destructive) and raises the spectrum's emi_noise_floor. With no sources in
// range both contributions are exactly zero, and the noise-floor slot is
// still written, never left absent.
type InterferenceCoupling struct {
	SearchRadiusM    float64
	CouplingFactor   float64
	FieldImpact      float64
	NoiseFloorImpact float64
}

func (i InterferenceCoupling) Name() string { return "interference_coupling" }
func (i InterferenceCoupling) rank() int    { return rankInterference }

func (i InterferenceCoupling) Apply(st State, ctx *Context) State {
	sources := ctx.Env.GetNearbySources(ctx.Position, i.SearchRadiusM)

	total := 0.0
	for _, s := range sources {
		delta := math.Abs(s.FrequencyHz - st.FrequencyHz)
		if delta < minFrequencyDeltaHz {
			delta = minFrequencyDeltaHz
		}
		total += s.Strength * i.CouplingFactor / delta
	}

	if total != 0 {
		// Uniform in [-1,1): constructive or destructive per sample.
		variability := ctx.Rand.Float64()*2 - 1
		st.Value += total * i.FieldImpact * variability
	}

	if st.Spectrum != nil {
		st.Spectrum = st.Spectrum.Clone()
		st.Spectrum[data.ComponentEMIFloor] = data.ClampNonNegative(total * i.NoiseFloorImpact)
	}
	return st
}
