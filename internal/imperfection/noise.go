// internal/imperfection/noise.go
package imperfection

// NoiseInjection adds Gaussian measurement noise to the primary value. It is
// the final stage; nothing downstream re-reads the clean value.
type NoiseInjection struct {
	Mean   float64
	Stddev float64
}

func (n NoiseInjection) Name() string { return "noise_injection" }
func (n NoiseInjection) rank() int    { return rankNoise }

func (n NoiseInjection) Apply(st State, ctx *Context) State {
	st.Value += n.Mean + ctx.Rand.NormFloat64()*n.Stddev
	return st
}
