package physics

import "github.com/san-kum/springsim/internal/dynamo"

// DampedSpring is a unit-mass damped harmonic oscillator pulled toward a
// target supplied as the first control channel.
//
// State layout: [position, velocity].
type DampedSpring struct {
	Tension  float64
	Friction float64
}

func NewDampedSpring(tension, friction float64) *DampedSpring {
	return &DampedSpring{Tension: tension, Friction: friction}
}

func (s *DampedSpring) StateDim() int   { return 2 }
func (s *DampedSpring) ControlDim() int { return 1 }

func (s *DampedSpring) Stiffness() float64 { return s.Tension }
func (s *DampedSpring) Damping() float64   { return s.Friction }

func (s *DampedSpring) Derive(x dynamo.State, u dynamo.Control, t float64) dynamo.State {
	pos, vel := x[0], x[1]
	displacement := pos - u.Target()

	springForce := -s.Tension * displacement
	dampingForce := -s.Friction * vel

	return dynamo.State{vel, springForce + dampingForce}
}

// Energy returns the mechanical energy relative to the target rest point.
func (s *DampedSpring) Energy(x dynamo.State, target float64) float64 {
	displacement := x[0] - target
	return 0.5*s.Tension*displacement*displacement + 0.5*x[1]*x[1]
}
