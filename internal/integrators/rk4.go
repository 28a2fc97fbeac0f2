package integrators

import "github.com/san-kum/springsim/internal/dynamo"

// RK4 is the classic fourth-order Runge-Kutta method. Scratch buffers are
// reused between steps, so one instance must not be shared across goroutines.
type RK4 struct {
	k       [4]dynamo.State
	scratch dynamo.State
}

func NewRK4() *RK4 {
	return &RK4{}
}

func (r *RK4) Name() string { return "rk4" }

func (r *RK4) ensureScratch(n int) {
	if len(r.scratch) == n {
		return
	}
	for i := range r.k {
		r.k[i] = make(dynamo.State, n)
	}
	r.scratch = make(dynamo.State, n)
}

// stage writes x + h*k into the scratch buffer and evaluates the derivative there.
func (r *RK4) stage(dyn dynamo.System, x, k dynamo.State, u dynamo.Control, t, h float64, out dynamo.State) {
	for i := range x {
		r.scratch[i] = x[i] + h*k[i]
	}
	copy(out, dyn.Derive(r.scratch, u, t))
}

func (r *RK4) Step(dyn dynamo.System, x dynamo.State, u dynamo.Control, t, dt float64) dynamo.State {
	n := len(x)
	r.ensureScratch(n)

	copy(r.k[0], dyn.Derive(x, u, t))
	r.stage(dyn, x, r.k[0], u, t+dt*0.5, dt*0.5, r.k[1])
	r.stage(dyn, x, r.k[1], u, t+dt*0.5, dt*0.5, r.k[2])
	r.stage(dyn, x, r.k[2], u, t+dt, dt, r.k[3])

	result := make(dynamo.State, n)
	dt6 := dt / 6.0
	for i := 0; i < n; i++ {
		result[i] = x[i] + dt6*(r.k[0][i]+2*r.k[1][i]+2*r.k[2][i]+r.k[3][i])
	}

	return result
}
