package imperfection

import (
	"math"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/ShaiKKO/EnviroSense-sub003/internal/data"
	"github.com/ShaiKKO/EnviroSense-sub003/internal/environment"
)

func testContext(env environment.Query, seed uint64) *Context {
	if env == nil {
		env = environment.NewStaticEnvironment()
	}
	return &Context{
		Env:   env,
		Rand:  rand.New(rand.NewPCG(seed, seed+1)),
		TempC: 25,
		Log:   zap.NewNop(),
	}
}

func TestFrequencyAnalysis(t *testing.T) {
	stage := FrequencyAnalysis{
		BaseFrequencyHz: 60,
		HarmonicRatios: map[string]float64{
			data.Component3rd: 0.15,
			data.Component5th: 0.08,
		},
		HFNoiseFactor:  0.3,
		DischargeField: "corona_discharge",
	}

	t.Run("harmonics are exact ratios without jitter", func(t *testing.T) {
		st := stage.Apply(State{Value: 10}, testContext(nil, 1))

		require.NotNil(t, st.Spectrum)
		assert.Equal(t, 10.0, st.Spectrum[data.ComponentFundamental])
		assert.Equal(t, 1.5, st.Spectrum[data.Component3rd])
		assert.Equal(t, 0.8, st.Spectrum[data.Component5th])
		assert.Equal(t, 60.0, st.FrequencyHz)
	})

	t.Run("noise floor slot reserved and hf noise idle without discharge", func(t *testing.T) {
		st := stage.Apply(State{Value: 10}, testContext(nil, 1))

		floor, ok := st.Spectrum[data.ComponentEMIFloor]
		require.True(t, ok)
		assert.Zero(t, floor)
		assert.Zero(t, st.Spectrum[data.ComponentHFNoise])
	})

	t.Run("hf noise activates with discharge condition", func(t *testing.T) {
		env := environment.NewStaticEnvironment()
		env.SetFieldValue("corona_discharge", 0.8)

		st := stage.Apply(State{Value: 10}, testContext(env, 1))
		assert.Equal(t, 3.0, st.Spectrum[data.ComponentHFNoise])
	})

	t.Run("discharge field present but zero stays idle", func(t *testing.T) {
		env := environment.NewStaticEnvironment()
		env.SetFieldValue("corona_discharge", 0)

		st := stage.Apply(State{Value: 10}, testContext(env, 1))
		assert.Zero(t, st.Spectrum[data.ComponentHFNoise])
	})

	t.Run("jitter keeps magnitudes non-negative", func(t *testing.T) {
		noisy := stage
		noisy.FrequencyNoise = true
		noisy.NoiseStddev = 5 // extreme on purpose

		for seed := uint64(0); seed < 50; seed++ {
			st := noisy.Apply(State{Value: 10}, testContext(nil, seed))
			for name, mag := range st.Spectrum {
				assert.GreaterOrEqual(t, mag, 0.0, "component %s, seed %d", name, seed)
			}
		}
	})

	t.Run("jitter reproduces under the same seed", func(t *testing.T) {
		noisy := stage
		noisy.FrequencyNoise = true
		noisy.NoiseStddev = 0.1

		a := noisy.Apply(State{Value: 10}, testContext(nil, 7))
		b := noisy.Apply(State{Value: 10}, testContext(nil, 7))
		assert.Equal(t, a.Spectrum, b.Spectrum)
	})
}

func TestFrequencyResponseSpectrum(t *testing.T) {
	stage := FrequencyResponse{
		Curve: map[string]float64{
			data.ComponentFundamental: 1.0,
			data.Component3rd:         0.5,
		},
		TempCoeffPer10C: 0.01,
		RefTempC:        25,
	}

	t.Run("scales present components at reference temperature", func(t *testing.T) {
		in := State{
			Value:    10,
			Spectrum: data.Spectrum{data.ComponentFundamental: 10, data.Component3rd: 2, data.Component9th: 1},
		}
		st := stage.Apply(in, testContext(nil, 1))

		assert.Equal(t, 10.0, st.Spectrum[data.ComponentFundamental])
		assert.Equal(t, 1.0, st.Spectrum[data.Component3rd])
		// No curve entry: untouched.
		assert.Equal(t, 1.0, st.Spectrum[data.Component9th])
		assert.Equal(t, 10.0, st.Value)
	})

	t.Run("temperature shifts the multiplier", func(t *testing.T) {
		ctx := testContext(nil, 1)
		ctx.TempC = 35 // +10C over reference: multiplier 1.01

		st := stage.Apply(State{Value: 10, Spectrum: data.Spectrum{data.ComponentFundamental: 10}}, ctx)
		assert.InDelta(t, 10.1, st.Spectrum[data.ComponentFundamental], 1e-9)
		assert.InDelta(t, 10.1, st.Value, 1e-9)
	})

	t.Run("extreme cold cannot flip the sign", func(t *testing.T) {
		ctx := testContext(nil, 1)
		ctx.TempC = -10000

		st := stage.Apply(State{Value: 10, Spectrum: data.Spectrum{data.ComponentFundamental: 10}}, ctx)
		assert.GreaterOrEqual(t, st.Spectrum[data.ComponentFundamental], 0.0)
	})

	t.Run("input spectrum is not mutated", func(t *testing.T) {
		in := data.Spectrum{data.ComponentFundamental: 10}
		stage.Apply(State{Value: 10, Spectrum: in}, testContext(nil, 1))
		assert.Equal(t, 10.0, in[data.ComponentFundamental])
	})
}

func TestFrequencyResponseScalar(t *testing.T) {
	stage := FrequencyResponse{
		Table: []FreqGain{
			{FrequencyHz: 50, Gain: 2},
			{FrequencyHz: 70, Gain: 3},
		},
		MatchToleranceHz: 10,
		DefaultGain:      1,
		RefTempC:         25,
	}

	tests := []struct {
		name   string
		freq   float64
		expect float64
	}{
		{"match within tolerance", 52, 20},
		{"nearest entry wins", 64, 30},
		{"equal distance keeps lower frequency", 60, 20},
		{"no match falls back to default gain", 200, 10},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			st := stage.Apply(State{Value: 10, FrequencyHz: tt.freq}, testContext(nil, 1))
			assert.InDelta(t, tt.expect, st.Value, 1e-9)
		})
	}
}

func TestAxisMisalignment(t *testing.T) {
	t.Run("attenuates all components by cos", func(t *testing.T) {
		stage := AxisMisalignment{AngleRad: math.Pi / 3} // cos = 0.5
		in := State{Spectrum: data.Spectrum{data.ComponentFundamental: 10, data.Component3rd: 2}}

		st := stage.Apply(in, testContext(nil, 1))
		assert.InDelta(t, 5.0, st.Spectrum[data.ComponentFundamental], 1e-9)
		assert.InDelta(t, 1.0, st.Spectrum[data.Component3rd], 1e-9)
	})

	t.Run("reversed axis cannot go negative", func(t *testing.T) {
		stage := AxisMisalignment{AngleRad: math.Pi} // cos = -1, clamped to 0
		st := stage.Apply(State{Spectrum: data.Spectrum{data.ComponentFundamental: 10}}, testContext(nil, 1))
		assert.Zero(t, st.Spectrum[data.ComponentFundamental])
	})

	t.Run("scalar reading is untouched", func(t *testing.T) {
		stage := AxisMisalignment{AngleRad: 1}
		st := stage.Apply(State{Value: 10}, testContext(nil, 1))
		assert.Equal(t, 10.0, st.Value)
		assert.Nil(t, st.Spectrum)
	})
}
