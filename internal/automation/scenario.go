package automation

import (
	"context"
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"

	"github.com/san-kum/springsim/internal/config"
	"github.com/san-kum/springsim/internal/dynamo"
	"github.com/san-kum/springsim/internal/experiment"
	"github.com/san-kum/springsim/internal/metrics"
	"github.com/san-kum/springsim/internal/spring"
)

// stabilityBound is the magnitude past which a sample counts as unstable.
const stabilityBound = 1e6

// Scenario is a named batch of headless runs.
type Scenario struct {
	Name        string         `yaml:"name"`
	Description string         `yaml:"description"`
	Steps       []ScenarioStep `yaml:"steps"`
}

// ScenarioStep is one run of a scenario. In YAML a step is a run config
// (spring, integrator, fps, duration, initial, targets) plus an optional
// name and preset; fields it leaves out keep their defaults and the preset
// only supplies the spring when none is given.
type ScenarioStep struct {
	Name   string
	Preset string
	Config *config.Config
}

func (s *ScenarioStep) UnmarshalYAML(node *yaml.Node) error {
	var head struct {
		Name   string `yaml:"name"`
		Preset string `yaml:"preset"`
	}
	if err := node.Decode(&head); err != nil {
		return err
	}

	cfg := config.DefaultConfig()
	if head.Preset != "" {
		sc, err := config.GetPreset(head.Preset)
		if err != nil {
			return err
		}
		cfg.Spring = sc
	}
	if err := node.Decode(cfg); err != nil {
		return err
	}

	s.Name, s.Preset, s.Config = head.Name, head.Preset, cfg
	return nil
}

// LoadScenario reads and validates a scenario file.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseScenario(data)
}

func ParseScenario(data []byte) (*Scenario, error) {
	var scenario Scenario
	if err := yaml.Unmarshal(data, &scenario); err != nil {
		return nil, err
	}
	if len(scenario.Steps) == 0 {
		return nil, fmt.Errorf("scenario %q has no steps", scenario.Name)
	}

	for i := range scenario.Steps {
		step := &scenario.Steps[i]
		if step.Name == "" {
			step.Name = fmt.Sprintf("step-%d", i+1)
		}
		if step.Config == nil {
			step.Config = config.DefaultConfig()
		}
		if err := step.Config.Validate(); err != nil {
			return nil, fmt.Errorf("step %s: %w", step.Name, err)
		}
	}
	return &scenario, nil
}

// StepResult pairs a scenario step with its run.
type StepResult struct {
	Step   ScenarioStep
	Result *dynamo.Result
}

// RunScenario executes every step in order and stops at the first failure,
// returning the steps completed so far.
func RunScenario(ctx context.Context, scenario *Scenario, log zerolog.Logger) ([]StepResult, error) {
	results := make([]StepResult, 0, len(scenario.Steps))

	for i, step := range scenario.Steps {
		log.Info().
			Str("scenario", scenario.Name).
			Str("step", step.Name).
			Int("index", i+1).
			Int("total", len(scenario.Steps)).
			Msg("running step")

		e := experiment.New(step.Config.Experiment(), log)
		if err := e.Setup(); err != nil {
			return results, fmt.Errorf("step %s setup: %w", step.Name, err)
		}
		e.AddMetric(metrics.Defaults(e.System(), spring.RestThreshold, stabilityBound)...)

		result, err := e.Run(ctx)
		if err != nil {
			return results, fmt.Errorf("step %s run: %w", step.Name, err)
		}
		results = append(results, StepResult{Step: step, Result: result})
	}

	return results, nil
}
