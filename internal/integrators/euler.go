package integrators

import "github.com/san-kum/springsim/internal/dynamo"

// Euler is the explicit forward Euler method. It gains energy on oscillators
// and is kept only as a comparison baseline.
type Euler struct{}

func NewEuler() *Euler {
	return &Euler{}
}

func (e *Euler) Name() string { return "euler" }

func (e *Euler) Step(dyn dynamo.System, x dynamo.State, u dynamo.Control, t float64, dt float64) dynamo.State {
	dx := dyn.Derive(x, u, t)
	result := make(dynamo.State, len(x))
	for i := range x {
		result[i] = x[i] + dt*dx[i]
	}
	return result
}
