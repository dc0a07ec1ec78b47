// internal/imperfection/drift.go
package imperfection

import "github.com/ShaiKKO/EnviroSense-sub003/internal/data"

// CalibrationDrift models long-term calibration degradation: a gain error
// and an offset that both walk linearly with operating hours, plus a fixed
// quadratic non-linearity. Drift is a pure function of elapsed time; there
// is no hidden accumulator to reset.
type CalibrationDrift struct {
	BaseGainError      float64 // multiplicative error at t=0, 1.0 = perfect
	DriftRateGain      float64 // per operating hour
	BaseOffset         float64
	DriftRateOffset    float64 // per operating hour
	NonlinearityFactor float64
}

func (c CalibrationDrift) Name() string { return "calibration_drift" }
func (c CalibrationDrift) rank() int    { return rankCalibrationDrift }

// StateAt returns the drift state after hours of operation.
func (c CalibrationDrift) StateAt(hours float64) data.DriftState {
	return data.DriftState{
		Gain:   c.BaseGainError * (1 + c.DriftRateGain*hours),
		Offset: c.BaseOffset + c.DriftRateOffset*hours,
	}
}

func (c CalibrationDrift) Apply(st State, ctx *Context) State {
	d := c.StateAt(ctx.ElapsedHours)
	st.Value = st.Value*d.Gain + d.Offset + c.NonlinearityFactor*st.Value*st.Value
	return st
}

// GeneralDrift is the simple additive drift shared by all modalities:
// reading + rate × hours. It composes with CalibrationDrift; the two are
// not mutually exclusive.
type GeneralDrift struct {
	PerHourRate float64
}

func (g GeneralDrift) Name() string { return "general_drift" }
func (g GeneralDrift) rank() int    { return rankGeneralDrift }

func (g GeneralDrift) Apply(st State, ctx *Context) State {
	st.Value += g.PerHourRate * ctx.ElapsedHours
	return st
}
