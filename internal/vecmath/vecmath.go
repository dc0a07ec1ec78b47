// internal/vecmath/vecmath.go
// Package vecmath provides the small amount of 3-vector arithmetic the
// simulator needs for sensor orientations and field directions.
package vecmath

import "math"

// Vec3 is a 3-component vector.
type Vec3 struct {
	X float64 `yaml:"x" json:"x"`
	Y float64 `yaml:"y" json:"y"`
	Z float64 `yaml:"z" json:"z"`
}

// Dot returns the dot product of v and o.
func (v Vec3) Dot(o Vec3) float64 {
	return v.X*o.X + v.Y*o.Y + v.Z*o.Z
}

// Norm returns the Euclidean length of v.
func (v Vec3) Norm() float64 {
	return math.Sqrt(v.Dot(v))
}

// Scale returns v multiplied by k.
func (v Vec3) Scale(k float64) Vec3 {
	return Vec3{X: v.X * k, Y: v.Y * k, Z: v.Z * k}
}

// epsilon below which a vector is treated as zero-length.
const epsilon = 1e-12

// Normalize returns the unit vector of v. The boolean is false when v is
// (numerically) zero-length, in which case the zero vector is returned and
// the caller must treat the result as degenerate.
func (v Vec3) Normalize() (Vec3, bool) {
	n := v.Norm()
	if n < epsilon {
		return Vec3{}, false
	}
	return v.Scale(1 / n), true
}
