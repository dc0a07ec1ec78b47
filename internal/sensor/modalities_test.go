package sensor

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ShaiKKO/EnviroSense-sub003/internal/config"
	"github.com/ShaiKKO/EnviroSense-sub003/internal/data"
	"github.com/ShaiKKO/EnviroSense-sub003/internal/environment"
)

// quietParams zeroes the stochastic and drifting terms shared by all
// scalar modalities.
func quietParams() config.Params {
	return config.Params{
		"drift_rate_gain":     0.0,
		"drift_rate_offset":   0.0,
		"nonlinearity_factor": 0.0,
		"noise_stddev":        0.0,
	}
}

func TestAcousticCeiling(t *testing.T) {
	env := environment.NewStaticEnvironment()
	env.SetFieldValue("spl_dba", 1000.0)

	s, err := NewAcoustic("mic-1", data.Position3D{}, quietParams(), nil)
	require.NoError(t, err)

	sctx := testSampleContext(env, 1)
	obs := s.ApplyImperfections(s.ReadIdeal(env), sctx)
	assert.Equal(t, 194.0, obs.Value, "sound pressure cannot exceed the physical ceiling")

	labels := s.GroundTruth(obs, sctx)
	assert.Contains(t, labels, data.AnomalyLabel{Type: "overload", Severity: 25.0, Confidence: 0.9})
}

func TestAcousticMechanicalFault(t *testing.T) {
	env := environment.NewStaticEnvironment()
	env.SetFieldValue("spl_dba", 70.0)
	env.SetFieldValue("mechanical_fault", 1.5)

	s, err := NewAcoustic("mic-1", data.Position3D{}, quietParams(), nil)
	require.NoError(t, err)

	sctx := testSampleContext(env, 1)
	obs := s.ApplyImperfections(s.ReadIdeal(env), sctx)
	labels := s.GroundTruth(obs, sctx)

	require.Len(t, labels, 1)
	assert.Equal(t, data.AnomalyLabel{Type: "mechanical_fault", Severity: 15.0, Confidence: 0.8}, labels[0])
}

func TestParticulateFractions(t *testing.T) {
	env := environment.NewStaticEnvironment()
	env.SetFieldValue("pm2_5", 100.0)

	t.Run("derived fractions track the primary value", func(t *testing.T) {
		s, err := NewParticulate("pm-1", data.Position3D{}, quietParams(), nil)
		require.NoError(t, err)

		obs := s.ApplyImperfections(s.ReadIdeal(env), testSampleContext(env, 1))
		assert.Equal(t, 100.0, obs.Value)
		require.NotNil(t, obs.Extra)
		assert.Equal(t, 60.0, obs.Extra["pm1_0"])
		assert.Equal(t, 140.0, obs.Extra["pm10_0"])
	})

	t.Run("size ordering survives noisy defaults", func(t *testing.T) {
		s, err := NewParticulate("pm-1", data.Position3D{}, config.Params{}, nil)
		require.NoError(t, err)

		for seed := uint64(0); seed < 50; seed++ {
			obs := s.ApplyImperfections(s.ReadIdeal(env), testSampleContext(env, seed))
			assert.GreaterOrEqual(t, obs.Value, 0.0)
			assert.LessOrEqual(t, obs.Extra["pm1_0"], obs.Value)
			assert.GreaterOrEqual(t, obs.Extra["pm10_0"], obs.Value)
		}
	})

	t.Run("fraction factor below one is rejected", func(t *testing.T) {
		_, err := NewParticulate("pm-1", data.Position3D{}, config.Params{"pm10_0_factor": 0.8}, nil)
		require.Error(t, err)
		var cfgErr *config.ConfigError
		assert.ErrorAs(t, err, &cfgErr)
		assert.Equal(t, "pm10_0_factor", cfgErr.Param)
	})
}

func TestThermalAllowsNegative(t *testing.T) {
	env := environment.NewStaticEnvironment()
	env.SetFieldValue("temperature_c", -20.0)

	s, err := NewThermal("temp-1", data.Position3D{}, quietParams(), nil)
	require.NoError(t, err)

	obs := s.ApplyImperfections(s.ReadIdeal(env), testSampleContext(env, 1))
	assert.Equal(t, -20.0, obs.Value, "sub-zero readings must pass through unclamped")
}

func TestThermalOverheat(t *testing.T) {
	env := environment.NewStaticEnvironment()
	env.SetFieldValue("temperature_c", 90.0)
	env.SetFieldValue("hotspot_intensity", 2.0)

	s, err := NewThermal("temp-1", data.Position3D{}, quietParams(), nil)
	require.NoError(t, err)

	sctx := testSampleContext(env, 1)
	obs := s.ApplyImperfections(s.ReadIdeal(env), sctx)
	labels := s.GroundTruth(obs, sctx)

	require.Len(t, labels, 2)
	assert.Contains(t, labels, data.AnomalyLabel{Type: "hotspot_intensity", Severity: 20.0, Confidence: 0.9})
	assert.Contains(t, labels, data.AnomalyLabel{Type: "overheat", Severity: 30.0, Confidence: 0.9})
}

func TestChemicalNonlinearity(t *testing.T) {
	env := environment.NewStaticEnvironment()
	env.SetFieldValue("gas_ppm", 100.0)

	params := quietParams()
	delete(params, "nonlinearity_factor") // keep the electrochemical default

	s, err := NewChemical("gas-1", data.Position3D{}, params, nil)
	require.NoError(t, err)

	obs := s.ApplyImperfections(s.ReadIdeal(env), testSampleContext(env, 1))
	assert.InDelta(t, 101.0, obs.Value, 1e-9) // 100 + 1e-4 * 100^2
}

func TestChemicalFloorsAtZero(t *testing.T) {
	env := environment.NewStaticEnvironment()
	env.SetFieldValue("gas_ppm", 10.0)

	params := quietParams()
	params["base_offset"] = -50.0

	s, err := NewChemical("gas-1", data.Position3D{}, params, nil)
	require.NoError(t, err)

	obs := s.ApplyImperfections(s.ReadIdeal(env), testSampleContext(env, 1))
	assert.Equal(t, 0.0, obs.Value, "concentration cannot go negative")
}

func TestRegistry(t *testing.T) {
	t.Run("builds every listed modality", func(t *testing.T) {
		for _, m := range Modalities() {
			params := config.Params{}
			if m == ModalityEMF {
				params["frequency_range_hz"] = []any{10.0, 10000.0}
			}
			s, err := New(m, "s-1", data.Position3D{}, params, nil)
			require.NoError(t, err, "modality %s", m)
			assert.Equal(t, m, s.Modality())
			assert.Equal(t, "s-1", s.ID())
		}
	})

	t.Run("empty id gets a generated uuid", func(t *testing.T) {
		s, err := New(ModalityThermal, "", data.Position3D{}, config.Params{}, nil)
		require.NoError(t, err)
		_, err = uuid.Parse(s.ID())
		assert.NoError(t, err)
	})

	t.Run("unknown modality fails fast", func(t *testing.T) {
		_, err := New("seismic", "s-1", data.Position3D{}, config.Params{}, nil)
		require.Error(t, err)
		var cfgErr *config.ConfigError
		assert.ErrorAs(t, err, &cfgErr)
	})
}
