package integrators

import "github.com/san-kum/springsim/internal/dynamo"

// SemiImplicitEuler updates velocities from the derivative first, then moves
// positions with the new velocities. State is split as [positions..., velocities...].
type SemiImplicitEuler struct{}

func NewSemiImplicitEuler() *SemiImplicitEuler {
	return &SemiImplicitEuler{}
}

func (s *SemiImplicitEuler) Name() string { return "semi_implicit_euler" }

func (s *SemiImplicitEuler) Step(dyn dynamo.System, x dynamo.State, u dynamo.Control, t, dt float64) dynamo.State {
	n := len(x)
	half := n / 2

	dx := dyn.Derive(x, u, t)
	result := make(dynamo.State, n)

	for i := 0; i < half; i++ {
		result[half+i] = x[half+i] + dx[half+i]*dt
		result[i] = x[i] + result[half+i]*dt
	}

	return result
}
