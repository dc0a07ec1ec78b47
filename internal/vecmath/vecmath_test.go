package vecmath

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDot(t *testing.T) {
	a := Vec3{X: 1, Y: 2, Z: 3}
	b := Vec3{X: 4, Y: -5, Z: 6}
	assert.Equal(t, 12.0, a.Dot(b))
}

func TestNormalize(t *testing.T) {
	t.Run("unit length result", func(t *testing.T) {
		v := Vec3{X: 3, Y: 4, Z: 0}
		u, ok := v.Normalize()
		require.True(t, ok)
		assert.InDelta(t, 1.0, u.Norm(), 1e-12)
		assert.InDelta(t, 0.6, u.X, 1e-12)
		assert.InDelta(t, 0.8, u.Y, 1e-12)
	})

	t.Run("zero vector is degenerate", func(t *testing.T) {
		_, ok := Vec3{}.Normalize()
		assert.False(t, ok)
	})

	t.Run("near-zero vector is degenerate", func(t *testing.T) {
		_, ok := Vec3{X: 1e-15}.Normalize()
		assert.False(t, ok)
	})
}

func TestScale(t *testing.T) {
	v := Vec3{X: 1, Y: -2, Z: 0.5}.Scale(2)
	assert.Equal(t, Vec3{X: 2, Y: -4, Z: 1}, v)
}
