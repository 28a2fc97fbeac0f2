package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/san-kum/springsim/internal/experiment"
	"github.com/san-kum/springsim/internal/integrators"
	"github.com/san-kum/springsim/internal/spring"
)

const (
	DefaultFPS      = 60
	DefaultDuration = 2.0
	DefaultTarget   = 1.0
)

// Config describes a headless or live spring run.
type Config struct {
	Spring     spring.Config `yaml:"spring" json:"spring"`
	Integrator string        `yaml:"integrator" json:"integrator" validate:"integrator"`
	Initial    float64       `yaml:"initial" json:"initial"`
	FPS        int           `yaml:"fps" json:"fps" validate:"gt=0,lte=1000"`
	Duration   float64       `yaml:"duration" json:"duration" validate:"gt=0"`
	Targets    []Target      `yaml:"targets" json:"targets" validate:"dive"`
	Log        LogConfig     `yaml:"log" json:"log"`
}

// Target moves the spring's target to Value at At seconds into the run.
type Target struct {
	At    float64 `yaml:"at" json:"at" validate:"gte=0"`
	Value float64 `yaml:"value" json:"value"`
}

type LogConfig struct {
	Level string `yaml:"level" json:"level" validate:"omitempty,oneof=trace debug info warn error disabled"`
	Human bool   `yaml:"human" json:"human"`
}

func DefaultConfig() *Config {
	return &Config{
		Spring:     spring.DefaultConfig(),
		Integrator: integrators.Default,
		FPS:        DefaultFPS,
		Duration:   DefaultDuration,
		Targets:    []Target{{At: 0, Value: DefaultTarget}},
		Log:        LogConfig{Level: "info"},
	}
}

// Load reads a YAML file over the defaults and validates the result.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	return os.WriteFile(path, data, 0644)
}

// Experiment converts c into the headless replay configuration.
func (c *Config) Experiment() experiment.Config {
	targets := make([]experiment.TargetChange, len(c.Targets))
	for i, t := range c.Targets {
		targets[i] = experiment.TargetChange{At: t.At, Value: t.Value}
	}
	return experiment.Config{
		Spring:     c.Spring,
		Integrator: c.Integrator,
		Initial:    c.Initial,
		FPS:        c.FPS,
		Duration:   c.Duration,
		Targets:    targets,
	}
}

func (c *Config) Validate() error {
	return convertValidationError(validatorInstance().Struct(c))
}

// ValidationError reports the first field of a Config that failed validation.
type ValidationError struct {
	Field   string
	Message string
	Err     error
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("validation error: %s: %s", e.Field, e.Message)
	}
	return fmt.Sprintf("validation error: %s", e.Message)
}

func (e *ValidationError) Unwrap() error { return e.Err }

var (
	validatorOnce sync.Once
	validateInst  *validator.Validate
)

func validatorInstance() *validator.Validate {
	validatorOnce.Do(func() {
		v := validator.New()
		_ = v.RegisterValidation("integrator", func(fl validator.FieldLevel) bool {
			name := fl.Field().String()
			if name == "" {
				return true
			}
			_, err := integrators.ByName(name)
			return err == nil
		})
		validateInst = v
	})
	return validateInst
}

func convertValidationError(err error) error {
	if err == nil {
		return nil
	}

	var ves validator.ValidationErrors
	if errors.As(err, &ves) && len(ves) > 0 {
		fe := ves[0]
		field := fieldName(fe)
		return &ValidationError{
			Field:   field,
			Message: fmt.Sprintf("%s failed validation for tag '%s'", field, fe.Tag()),
			Err:     err,
		}
	}
	return &ValidationError{Field: "config", Message: err.Error(), Err: err}
}

// fieldName turns "Config.Spring.Tension" into "spring.tension".
func fieldName(fe validator.FieldError) string {
	parts := strings.Split(fe.StructNamespace(), ".")
	if len(parts) > 1 {
		parts = parts[1:]
	}
	for i, p := range parts {
		parts[i] = strings.ToLower(p)
	}
	return strings.Join(parts, ".")
}
