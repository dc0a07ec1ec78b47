// internal/imperfection/directional.go
package imperfection

import (
	"github.com/ShaiKKO/EnviroSense-sub003/internal/data"
	"github.com/ShaiKKO/EnviroSense-sub003/internal/vecmath"
)

// DirectionalSensitivity scales the primary value by how well the sensor
// axis aligns with the field direction. Alignment is the dot product of the
// unit orientation and unit field direction, perturbed by Gaussian mounting
// uncertainty and clamped to [0,1]: a field reversed relative to the sensor
// axis contributes nothing, never a negative reading.
type DirectionalSensitivity struct {
	Orientation       vecmath.Vec3
	UncertaintyStddev float64

	// AssumedDirection substitutes for the field direction when the ideal
	// reading carries none. When nil the stage is skipped for such readings.
	AssumedDirection *vecmath.Vec3
}

func (d DirectionalSensitivity) Name() string { return "directional_sensitivity" }
func (d DirectionalSensitivity) rank() int    { return rankDirectional }

func (d DirectionalSensitivity) Apply(st State, ctx *Context) State {
	dir := st.Direction
	if dir == nil {
		if d.AssumedDirection == nil {
			return st
		}
		dir = d.AssumedDirection
	}

	axis, ok := d.Orientation.Normalize()
	if !ok {
		ctx.Log.Debug("directional stage skipped: zero-length orientation")
		return st
	}
	fdir, ok := dir.Normalize()
	if !ok {
		ctx.Log.Debug("directional stage skipped: zero-length field direction")
		return st
	}

	alignment := axis.Dot(fdir)
	if d.UncertaintyStddev > 0 {
		alignment += ctx.Rand.NormFloat64() * d.UncertaintyStddev
	}
	alignment = data.ClampUnit(alignment)

	st.Value *= alignment
	return st
}
