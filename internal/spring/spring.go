package spring

import (
	"math"
	"time"

	"github.com/rs/zerolog"
	"github.com/san-kum/springsim/internal/dynamo"
	"github.com/san-kum/springsim/internal/frame"
	"github.com/san-kum/springsim/internal/integrators"
	"github.com/san-kum/springsim/internal/physics"
)

const (
	// Step is the fixed integration step.
	Step = time.Millisecond

	// MaxElapsed caps the time integrated per frame callback, so a host that
	// was suspended does not trigger a burst of catch-up steps.
	MaxElapsed = 64 * time.Millisecond

	// RestThreshold bounds both |position-target| and |velocity| at rest.
	RestThreshold = 0.001

	// TargetEpsilon is the smallest target change that counts as a re-target.
	TargetEpsilon = 1e-6
)

// Listener receives the value after every frame that integrated, and once
// more with animating=false when the spring comes to rest.
type Listener func(value float64, animating bool)

type Option func(*Spring)

func WithConfig(c Config) Option {
	return func(s *Spring) { s.raw = c }
}

func WithListener(fn Listener) Option {
	return func(s *Spring) { s.listener = fn }
}

func WithLogger(l zerolog.Logger) Option {
	return func(s *Spring) { s.log = l }
}

// WithIntegrator replaces the semi-implicit Euler stepper.
func WithIntegrator(i dynamo.Integrator) Option {
	return func(s *Spring) {
		if i != nil {
			s.integrator = i
		}
	}
}

// Spring animates one scalar toward a target. It is driven by frame callbacks
// from its Scheduler and is not safe for concurrent use: Observe, Close and
// the scheduler's flush must all happen on the same goroutine.
type Spring struct {
	sched      frame.Scheduler
	integrator dynamo.Integrator
	system     *physics.DampedSpring
	raw        Config
	cfg        Config

	x dynamo.State   // position, velocity
	u dynamo.Control // target
	t float64        // simulated seconds

	animating bool
	started   bool
	last      time.Time
	leftover  time.Duration
	handle    frame.Handle
	closed    bool
	steps     uint64

	listener Listener
	log      zerolog.Logger
}

// New creates a spring at rest on initial. sched must not be nil.
func New(initial float64, sched frame.Scheduler, opts ...Option) *Spring {
	if math.IsNaN(initial) || math.IsInf(initial, 0) {
		initial = 0
	}

	s := &Spring{
		sched:      sched,
		integrator: integrators.NewSemiImplicitEuler(),
		raw:        DefaultConfig(),
		x:          dynamo.State{initial, 0},
		u:          dynamo.Control{initial},
		log:        zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}

	if s.raw == (Config{}) {
		s.raw = DefaultConfig()
	}
	s.system = physics.NewDampedSpring(0, 0)
	s.apply(s.raw)
	return s
}

// Observe sets the target and returns the current value and whether the
// spring is still moving. The zero Config selects DefaultConfig.
//
// A target within TargetEpsilon of the current one changes nothing. A new
// target at rest starts a run from the old target with zero velocity; a new
// target mid-flight only redirects, keeping velocity and frame timing.
func (s *Spring) Observe(target float64, cfg Config) (float64, bool) {
	if cfg == (Config{}) {
		cfg = DefaultConfig()
	}
	if cfg != s.raw {
		s.apply(cfg)
	}

	if math.IsNaN(target) || math.IsInf(target, 0) {
		s.log.Debug().Float64("target", target).Msg("ignoring non-finite spring target")
		return s.x[0], s.animating
	}
	if math.Abs(target-s.u[0]) <= TargetEpsilon {
		return s.x[0], s.animating
	}

	if s.closed {
		s.x[0], s.x[1], s.u[0] = target, 0, target
		return target, false
	}

	if s.animating {
		s.log.Debug().
			Float64("from", s.u[0]).
			Float64("to", target).
			Float64("velocity", s.x[1]).
			Msg("spring redirected")
		s.u[0] = target
		return s.x[0], true
	}

	s.x[0], s.x[1] = s.u[0], 0
	s.u[0] = target
	s.animating = true
	s.started = false
	s.leftover = 0
	s.schedule()

	s.log.Debug().
		Float64("from", s.x[0]).
		Float64("to", target).
		Stringer("config", s.cfg).
		Msg("spring started")
	return s.x[0], true
}

// Close cancels any pending frame callback and leaves the spring at its
// target. Later Observe calls jump straight to the new target.
func (s *Spring) Close() {
	if s.handle != 0 {
		s.sched.Cancel(s.handle)
		s.handle = 0
	}
	if s.animating {
		s.x[0], s.x[1] = s.u[0], 0
		s.animating = false
	}
	s.closed = true
}

func (s *Spring) Value() float64    { return s.x[0] }
func (s *Spring) Velocity() float64 { return s.x[1] }
func (s *Spring) Target() float64   { return s.u[0] }
func (s *Spring) Animating() bool   { return s.animating }
func (s *Spring) Config() Config    { return s.cfg }

// Steps reports how many fixed integration steps have run.
func (s *Spring) Steps() uint64 { return s.steps }

func (s *Spring) apply(cfg Config) {
	s.raw = cfg
	sanitized, clamped := cfg.Sanitize()
	if clamped {
		s.log.Debug().
			Stringer("requested", cfg).
			Stringer("applied", sanitized).
			Msg("spring config clamped")
	}
	s.cfg = sanitized
	s.system.Tension = sanitized.Tension
	s.system.Friction = sanitized.Friction
}

func (s *Spring) schedule() {
	if s.handle != 0 {
		s.sched.Cancel(s.handle)
	}
	s.handle = s.sched.Schedule(s.onFrame)
}

func (s *Spring) onFrame(now time.Time) {
	s.handle = 0
	if !s.animating {
		return
	}

	if !s.started {
		s.started = true
		s.last = now
		s.schedule()
		return
	}

	elapsed := now.Sub(s.last)
	s.last = now
	if elapsed < 0 {
		elapsed = 0
	}
	if elapsed > MaxElapsed {
		s.log.Debug().Dur("elapsed", elapsed).Msg("clamping frame delta")
		elapsed = MaxElapsed
	}

	s.leftover += elapsed
	dt := Step.Seconds()
	for s.leftover >= Step {
		s.x = s.integrator.Step(s.system, s.x, s.u, s.t, dt)
		s.t += dt
		s.leftover -= Step
		s.steps++
	}

	if !s.x.IsValid() {
		s.log.Warn().Stringer("config", s.cfg).Msg("spring state diverged, snapping to target")
		s.settle()
		return
	}

	if math.Abs(s.x[0]-s.u[0]) < RestThreshold && math.Abs(s.x[1]) < RestThreshold {
		s.settle()
		return
	}

	s.schedule()
	s.notify(s.x[0], true)
}

func (s *Spring) settle() {
	s.x[0], s.x[1] = s.u[0], 0
	s.animating = false
	s.started = false
	s.leftover = 0
	s.log.Debug().Float64("value", s.u[0]).Uint64("steps", s.steps).Msg("spring at rest")
	s.notify(s.u[0], false)
}

func (s *Spring) notify(value float64, animating bool) {
	if s.listener != nil {
		s.listener(value, animating)
	}
}
