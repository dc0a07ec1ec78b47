// cmd/twinsim/main.go
package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/ShaiKKO/EnviroSense-sub003/internal/config"
	"github.com/ShaiKKO/EnviroSense-sub003/internal/environment"
	"github.com/ShaiKKO/EnviroSense-sub003/internal/scenario"
	"github.com/ShaiKKO/EnviroSense-sub003/internal/sensor"
)

var configDir string

func main() {
	root := &cobra.Command{
		Use:           "twinsim",
		Short:         "Digital-twin sensor simulator producing labeled measurement streams",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVarP(&configDir, "config", "c", ".", "directory containing twinsim.yaml")

	root.AddCommand(newRunCmd(), newModalitiesCmd())

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "twinsim:", err)
		os.Exit(1)
	}
}

func newRunCmd() *cobra.Command {
	var steps int
	var output string

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the configured scenario and emit labeled samples",
		RunE: func(cmd *cobra.Command, _ []string) error {
			sim, err := config.Load(configDir)
			if err != nil {
				return err
			}
			if steps > 0 {
				sim.Steps = steps
			}
			if output != "" {
				sim.Output = output
			}
			return runScenario(cmd, sim)
		},
	}
	cmd.Flags().IntVar(&steps, "steps", 0, "override configured step count")
	cmd.Flags().StringVarP(&output, "output", "o", "", "samples file, '-' for stdout")
	return cmd
}

func newModalitiesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "modalities",
		Short: "List supported sensor modalities",
		Run: func(cmd *cobra.Command, _ []string) {
			for _, m := range sensor.Modalities() {
				fmt.Fprintln(cmd.OutOrStdout(), m)
			}
		},
	}
}

func runScenario(cmd *cobra.Command, sim *config.Simulation) error {
	log, err := newLogger(sim.LogLevel)
	if err != nil {
		return err
	}
	defer log.Sync() //nolint:errcheck

	env, err := environment.LoadFile(sim.EnvironmentFile)
	if err != nil {
		return err
	}

	entries, err := config.LoadFleet(sim.FleetFile)
	if err != nil {
		return err
	}
	fleet := make([]sensor.Sensor, 0, len(entries))
	for _, e := range entries {
		s, err := sensor.New(e.Modality, e.ID, e.Position, e.Params, log)
		if err != nil {
			return fmt.Errorf("sensor %q: %w", e.ID, err)
		}
		log.Info("sensor ready",
			zap.String("id", s.ID()),
			zap.String("modality", s.Modality()))
		fleet = append(fleet, s)
	}

	sink, err := openSink(sim.Output)
	if err != nil {
		return err
	}
	defer sink.Close() //nolint:errcheck

	runner := scenario.NewRunner(env, fleet, scenario.Config{
		Seed:                sim.Seed,
		Steps:               sim.Steps,
		StepInterval:        time.Duration(sim.StepSeconds * float64(time.Second)),
		StartTime:           time.Now().UTC(),
		StartOperatingHours: sim.StartOperatingHours,
		AmbientTempC:        sim.AmbientTempC,
	}, sink, log)

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	written, err := runner.Run(ctx)
	if err != nil {
		log.Warn("scenario stopped early", zap.Int("samples", written), zap.Error(err))
		return err
	}
	return nil
}

func openSink(output string) (scenario.Sink, error) {
	if output == "" || output == "-" {
		return scenario.NewWriterSink(os.Stdout), nil
	}
	f, err := os.Create(output)
	if err != nil {
		return nil, fmt.Errorf("open output %s: %w", output, err)
	}
	return scenario.NewWriterSink(f), nil
}

func newLogger(level string) (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("log_level: %w", err)
	}
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(lvl)
	cfg.OutputPaths = []string{"stderr"}
	return cfg.Build()
}
