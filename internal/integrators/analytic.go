package integrators

import (
	"math"

	"github.com/charmbracelet/harmonica"
	"github.com/san-kum/springsim/internal/dynamo"
)

// Analytic advances a damped oscillator with harmonica's closed-form spring
// solution. Systems that are not a [dynamo.Oscillator] fall back to
// semi-implicit Euler.
type Analytic struct {
	spring   harmonica.Spring
	dt, k, c float64
	ready    bool
	fallback *SemiImplicitEuler
}

func NewAnalytic() *Analytic {
	return &Analytic{fallback: NewSemiImplicitEuler()}
}

func (a *Analytic) Name() string { return "analytic" }

func (a *Analytic) Step(dyn dynamo.System, x dynamo.State, u dynamo.Control, t, dt float64) dynamo.State {
	osc, ok := dyn.(dynamo.Oscillator)
	if !ok || len(x) != 2 || osc.Stiffness() <= 0 {
		return a.fallback.Step(dyn, x, u, t, dt)
	}

	k, c := osc.Stiffness(), osc.Damping()
	if !a.ready || a.dt != dt || a.k != k || a.c != c {
		omega := math.Sqrt(k)
		a.spring = harmonica.NewSpring(dt, omega, c/(2*omega))
		a.dt, a.k, a.c, a.ready = dt, k, c, true
	}

	pos, vel := a.spring.Update(x[0], x[1], u.Target())
	return dynamo.State{pos, vel}
}
