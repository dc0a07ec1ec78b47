// internal/config/config.go
package config

import (
	"fmt"
	"os"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/ShaiKKO/EnviroSense-sub003/internal/data"
)

// Simulation is the top-level scenario configuration loaded with viper.
type Simulation struct {
	Seed                int64   `mapstructure:"seed"`
	Steps               int     `mapstructure:"steps"`
	StepSeconds         float64 `mapstructure:"step_seconds"`
	StartOperatingHours float64 `mapstructure:"start_operating_hours"`
	AmbientTempC        float64 `mapstructure:"ambient_temp_c"`
	Output              string  `mapstructure:"output"`
	LogLevel            string  `mapstructure:"log_level"`
	EnvironmentFile     string  `mapstructure:"environment_file"`
	FleetFile           string  `mapstructure:"fleet_file"`
}

// FleetEntry describes one sensor instance in the fleet file. Params is the
// raw override map handed to the modality constructor; an empty ID is filled
// with a generated one by the driver.
type FleetEntry struct {
	ID       string          `yaml:"id"`
	Modality string          `yaml:"modality"`
	Position data.Position3D `yaml:"position"`
	Params   Params          `yaml:"params"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("seed", 1)
	v.SetDefault("steps", 60)
	v.SetDefault("step_seconds", 1.0)
	v.SetDefault("start_operating_hours", 0.0)
	v.SetDefault("ambient_temp_c", 25.0)
	v.SetDefault("output", "-")
	v.SetDefault("log_level", "info")
	v.SetDefault("environment_file", "environment.yaml")
	v.SetDefault("fleet_file", "fleet.yaml")
}

// Load reads the simulation config from the given directory, with env-var
// overrides and documented defaults for anything missing. Each call uses its
// own viper instance so loads never leak search paths into each other.
func Load(path string) (*Simulation, error) {
	v := viper.New()
	v.SetConfigName("twinsim")
	v.SetConfigType("yaml")
	v.AddConfigPath(path)
	v.SetEnvPrefix("TWINSIM")
	v.AutomaticEnv()
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		// Missing file is fine, defaults apply; a malformed file is not.
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("config: read: %w", err)
		}
	}

	var sim Simulation
	if err := v.Unmarshal(&sim); err != nil {
		return nil, fmt.Errorf("config: decode: %w", err)
	}
	if err := sim.validate(); err != nil {
		return nil, err
	}
	return &sim, nil
}

func (s *Simulation) validate() error {
	if s.Steps <= 0 {
		return errf("steps", "must be > 0, got %d", s.Steps)
	}
	if s.StepSeconds <= 0 {
		return errf("step_seconds", "must be > 0, got %v", s.StepSeconds)
	}
	return nil
}

// LoadFleet reads the sensor fleet definition from a YAML file.
func LoadFleet(path string) ([]FleetEntry, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read fleet %s: %w", path, err)
	}
	var doc struct {
		Sensors []FleetEntry `yaml:"sensors"`
	}
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("config: parse fleet %s: %w", path, err)
	}
	if len(doc.Sensors) == 0 {
		return nil, errf("sensors", "fleet file %s defines no sensors", path)
	}
	return doc.Sensors, nil
}
