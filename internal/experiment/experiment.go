package experiment

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/rs/zerolog"

	"github.com/san-kum/springsim/internal/dynamo"
	"github.com/san-kum/springsim/internal/frame"
	"github.com/san-kum/springsim/internal/integrators"
	"github.com/san-kum/springsim/internal/physics"
	"github.com/san-kum/springsim/internal/spring"
)

var ErrNotSetup = errors.New("experiment not setup")

var epoch = time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC)

// TargetChange moves the target to Value At seconds into the run.
type TargetChange struct {
	At    float64 `json:"at"`
	Value float64 `json:"value"`
}

type Config struct {
	Spring     spring.Config
	Integrator string
	Initial    float64
	FPS        int
	Duration   float64
	Targets    []TargetChange
}

// Experiment replays a scripted target sequence against one spring, frame by
// frame, on a manual clock.
type Experiment struct {
	cfg        Config
	integrator dynamo.Integrator
	system     *physics.DampedSpring
	metrics    []dynamo.Metric
	observers  []dynamo.Observer
	log        zerolog.Logger
}

func New(cfg Config, log zerolog.Logger) *Experiment {
	if cfg.FPS <= 0 {
		cfg.FPS = 60
	}
	if cfg.Spring == (spring.Config{}) {
		cfg.Spring = spring.DefaultConfig()
	}
	targets := append([]TargetChange(nil), cfg.Targets...)
	sort.SliceStable(targets, func(i, j int) bool { return targets[i].At < targets[j].At })
	cfg.Targets = targets

	return &Experiment{cfg: cfg, log: log}
}

// Setup resolves the integrator and builds the physics metrics observe.
func (e *Experiment) Setup() error {
	integrator, err := integrators.ByName(e.cfg.Integrator)
	if err != nil {
		return err
	}
	sanitized, _ := e.cfg.Spring.Sanitize()
	e.integrator = integrator
	e.system = physics.NewDampedSpring(sanitized.Tension, sanitized.Friction)
	return nil
}

func (e *Experiment) AddMetric(ms ...dynamo.Metric) {
	e.metrics = append(e.metrics, ms...)
}

// System exposes the physics the spring runs on, for metrics that need it.
// It is nil before Setup.
func (e *Experiment) System() *physics.DampedSpring { return e.system }

func (e *Experiment) AddObserver(o dynamo.Observer) {
	e.observers = append(e.observers, o)
}

func (e *Experiment) Config() Config { return e.cfg }

func (e *Experiment) Run(ctx context.Context) (*dynamo.Result, error) {
	if e.integrator == nil {
		return nil, ErrNotSetup
	}
	for _, m := range e.metrics {
		m.Reset()
	}

	queue := frame.NewQueue()
	clock := frame.NewManualClock(epoch)
	driver := frame.NewDriver(queue, clock, e.cfg.FPS)

	s := spring.New(e.cfg.Initial, queue,
		spring.WithConfig(e.cfg.Spring),
		spring.WithIntegrator(e.integrator),
		spring.WithLogger(e.log),
	)
	defer s.Close()

	interval := driver.Interval().Seconds()
	frames := int(e.cfg.Duration/interval + 0.5)
	n := frames + 1

	result := &dynamo.Result{
		States:    make([]dynamo.State, 0, n),
		Controls:  make([]dynamo.Control, 0, n),
		Times:     make([]float64, 0, n),
		Metrics:   make(map[string]float64),
		SettledAt: 0,
	}

	next := 0
	wasAnimating := false
	for i := 0; i <= frames; i++ {
		if i%64 == 0 {
			select {
			case <-ctx.Done():
				return result, fmt.Errorf("%w: %w", dynamo.ErrContextCanceled, ctx.Err())
			default:
			}
		}

		t := float64(i) * interval
		if i > 0 {
			driver.Step()
		}
		for next < len(e.cfg.Targets) && e.cfg.Targets[next].At <= t+1e-9 {
			s.Observe(e.cfg.Targets[next].Value, e.cfg.Spring)
			next++
		}

		x := dynamo.State{s.Value(), s.Velocity()}
		u := dynamo.Control{s.Target()}
		if !x.IsValid() {
			return result, &dynamo.SimulationError{
				Step:    i,
				Time:    t,
				State:   x,
				Wrapped: dynamo.ErrInvalidState,
			}
		}

		animating := s.Animating()
		switch {
		case animating:
			result.SettledAt = -1
		case wasAnimating:
			result.SettledAt = t
		}
		wasAnimating = animating

		result.States = append(result.States, x)
		result.Controls = append(result.Controls, u)
		result.Times = append(result.Times, t)
		for _, m := range e.metrics {
			m.Observe(x, u, t)
		}
		for _, o := range e.observers {
			o.OnStep(x, u, t)
		}
	}

	result.StepsTaken = int(s.Steps())
	for _, m := range e.metrics {
		result.Metrics[m.Name()] = m.Value()
	}

	e.log.Debug().
		Int("frames", frames).
		Int("steps", result.StepsTaken).
		Float64("settled_at", result.SettledAt).
		Msg("experiment finished")
	return result, nil
}
