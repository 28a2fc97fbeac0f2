package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/san-kum/springsim/internal/config"
)

// runFlags are shared by every command that replays a target script.
type runFlags struct {
	preset     string
	tension    float64
	friction   float64
	integrator string
	fps        int
	duration   float64
	initial    float64
	targets    []string
}

func (f *runFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.preset, "preset", "", "spring preset name")
	cmd.Flags().Float64Var(&f.tension, "tension", 0, "spring tension")
	cmd.Flags().Float64Var(&f.friction, "friction", 0, "spring friction")
	cmd.Flags().StringVar(&f.integrator, "integrator", "", "integrator")
	cmd.Flags().IntVar(&f.fps, "fps", 0, "frames per second")
	cmd.Flags().Float64Var(&f.duration, "time", 0, "duration in seconds")
	cmd.Flags().Float64Var(&f.initial, "initial", 0, "initial value")
	cmd.Flags().StringSliceVar(&f.targets, "to", nil, "target as value[@seconds], repeatable")
}

// resolve layers defaults, the config file, the preset and explicit flags,
// in that order, and validates the result.
func (f *runFlags) resolve(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.DefaultConfig()
	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	if f.preset != "" {
		sc, err := config.GetPreset(f.preset)
		if err != nil {
			return nil, fmt.Errorf("%w (available: %s)", err, strings.Join(config.ListPresets(), ", "))
		}
		cfg.Spring = sc
	}

	flags := cmd.Flags()
	if flags.Changed("tension") {
		cfg.Spring.Tension = f.tension
	}
	if flags.Changed("friction") {
		cfg.Spring.Friction = f.friction
	}
	if flags.Changed("integrator") {
		cfg.Integrator = f.integrator
	}
	if flags.Changed("fps") {
		cfg.FPS = f.fps
	}
	if flags.Changed("time") {
		cfg.Duration = f.duration
	}
	if flags.Changed("initial") {
		cfg.Initial = f.initial
	}
	if len(f.targets) > 0 {
		targets, err := parseTargets(f.targets)
		if err != nil {
			return nil, err
		}
		cfg.Targets = targets
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// parseTargets reads "1", "-1@0.25" style target changes.
func parseTargets(args []string) ([]config.Target, error) {
	out := make([]config.Target, 0, len(args))
	for _, arg := range args {
		value, at, found := strings.Cut(arg, "@")
		t := config.Target{}

		v, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
		if err != nil {
			return nil, fmt.Errorf("invalid target %q: %w", arg, err)
		}
		t.Value = v

		if found {
			a, err := strconv.ParseFloat(strings.TrimSpace(at), 64)
			if err != nil {
				return nil, fmt.Errorf("invalid target time %q: %w", arg, err)
			}
			t.At = a
		}
		out = append(out, t)
	}
	return out, nil
}
