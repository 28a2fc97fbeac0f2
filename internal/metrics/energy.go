package metrics

import (
	"github.com/san-kum/springsim/internal/dynamo"
	"github.com/san-kum/springsim/internal/physics"
)

// Energy reports the spring's mechanical energy at the last sample, relative
// to its target. It reaches zero once the spring is at rest.
type Energy struct {
	name    string
	spring  *physics.DampedSpring
	current float64
	peak    float64
}

func NewEnergy(s *physics.DampedSpring) *Energy {
	return &Energy{
		name:   "energy",
		spring: s,
	}
}

func (e *Energy) Name() string { return e.name }

func (e *Energy) Observe(x dynamo.State, u dynamo.Control, t float64) {
	if len(x) < 2 {
		return
	}
	e.current = e.spring.Energy(x, u.Target())
	if e.current > e.peak {
		e.peak = e.current
	}
}

func (e *Energy) Value() float64 { return e.current }

// Peak is the largest energy seen since the last Reset.
func (e *Energy) Peak() float64 { return e.peak }

func (e *Energy) Reset() {
	e.current = 0
	e.peak = 0
}
