package integrators

import "github.com/san-kum/springsim/internal/dynamo"

// Leapfrog is kick-drift-kick velocity Verlet. With velocity-dependent
// damping the final kick uses the half-step velocity, which keeps it explicit.
type Leapfrog struct {
	scratch dynamo.State
}

func NewLeapfrog() *Leapfrog {
	return &Leapfrog{}
}

func (l *Leapfrog) Name() string { return "leapfrog" }

func (l *Leapfrog) Step(dyn dynamo.System, x dynamo.State, u dynamo.Control, t, dt float64) dynamo.State {
	n := len(x)
	half := n / 2

	if len(l.scratch) != n {
		l.scratch = make(dynamo.State, n)
	}

	result := make(dynamo.State, n)
	dx := dyn.Derive(x, u, t)
	halfDt := dt * 0.5

	// kick
	for i := 0; i < half; i++ {
		l.scratch[half+i] = x[half+i] + dx[half+i]*halfDt
	}

	// drift
	for i := 0; i < half; i++ {
		result[i] = x[i] + l.scratch[half+i]*dt
		l.scratch[i] = result[i]
	}

	// kick
	dxNew := dyn.Derive(l.scratch, u, t+dt)
	for i := 0; i < half; i++ {
		result[half+i] = l.scratch[half+i] + dxNew[half+i]*halfDt
	}

	return result
}
