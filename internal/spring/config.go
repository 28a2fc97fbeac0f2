package spring

import (
	"fmt"
	"math"
)

const (
	DefaultTension  = 180.0
	DefaultFriction = 12.0

	// MaxTension and MaxFriction keep a 1 ms semi-implicit Euler step stable
	// (h*sqrt(k) <= 1, h*c <= 1).
	MaxTension  = 1e6
	MaxFriction = 1000.0
)

// StiffConfig is what an invalid tension degrades to: the stiffest stable
// spring, which settles within a frame or two.
var StiffConfig = Config{Tension: MaxTension, Friction: MaxFriction}

// Config holds the physical constants of a spring: Tension is the Hooke
// stiffness, Friction the damping coefficient. Mass is fixed at 1.
type Config struct {
	Tension  float64 `yaml:"tension" json:"tension" validate:"gt=0"`
	Friction float64 `yaml:"friction" json:"friction" validate:"gte=0"`
}

func DefaultConfig() Config {
	return Config{Tension: DefaultTension, Friction: DefaultFriction}
}

func (c Config) String() string {
	return fmt.Sprintf("tension=%g friction=%g", c.Tension, c.Friction)
}

// Sanitize clamps c into the range the integrator can handle and reports
// whether anything changed. A non-positive or NaN tension yields StiffConfig.
func (c Config) Sanitize() (Config, bool) {
	if math.IsNaN(c.Tension) || c.Tension <= 0 {
		return StiffConfig, true
	}

	out := c
	if out.Tension > MaxTension {
		out.Tension = MaxTension
	}
	switch {
	case math.IsNaN(out.Friction) || out.Friction < 0:
		out.Friction = 0
	case out.Friction > MaxFriction:
		out.Friction = MaxFriction
	}
	return out, out != c
}

type Regime int

const (
	Underdamped Regime = iota
	CriticallyDamped
	Overdamped
)

func (r Regime) String() string {
	switch r {
	case Underdamped:
		return "underdamped"
	case CriticallyDamped:
		return "critically damped"
	case Overdamped:
		return "overdamped"
	default:
		return fmt.Sprintf("Regime(%d)", int(r))
	}
}

// RegimeOf compares friction² with 4·tension.
func RegimeOf(c Config) Regime {
	f2, k4 := c.Friction*c.Friction, 4*c.Tension
	switch {
	case f2 < k4:
		return Underdamped
	case f2 == k4:
		return CriticallyDamped
	default:
		return Overdamped
	}
}

// DampingRatio is friction / (2·sqrt(tension)); 1 means critical damping.
func (c Config) DampingRatio() float64 {
	if c.Tension <= 0 {
		return math.Inf(1)
	}
	return c.Friction / (2 * math.Sqrt(c.Tension))
}
