package dynamo

import "math"

type State []float64

func (s State) Clone() State {
	c := make(State, len(s))
	copy(c, s)
	return c
}

func (s State) IsValid() bool {
	for _, v := range s {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

func (s State) Norm() float64 {
	sum := 0.0
	for _, v := range s {
		sum += v * v
	}
	return math.Sqrt(sum)
}

func (s State) Sub(other State) State {
	result := make(State, len(s))
	for i := range s {
		if i < len(other) {
			result[i] = s[i] - other[i]
		} else {
			result[i] = s[i]
		}
	}
	return result
}

type Control []float64

// Target returns the first control channel, which springs read as their target.
func (u Control) Target() float64 {
	if len(u) == 0 {
		return 0
	}
	return u[0]
}

type System interface {
	Derive(x State, u Control, t float64) State
	StateDim() int
	ControlDim() int
}

// Oscillator is implemented by systems that expose linear spring constants.
type Oscillator interface {
	Stiffness() float64
	Damping() float64
}

type Integrator interface {
	Step(dyn System, x State, u Control, t float64, dt float64) State
}

type Metric interface {
	Name() string
	Observe(x State, u Control, t float64)
	Value() float64
	Reset()
}

type Observer interface {
	OnStep(x State, u Control, t float64)
}

type Result struct {
	States     []State
	Controls   []Control
	Times      []float64
	Metrics    map[string]float64
	StepsTaken int
	SettledAt  float64
	Errors     []error
}

// Final returns the last sampled state, or nil for an empty result.
func (r *Result) Final() State {
	if r == nil || len(r.States) == 0 {
		return nil
	}
	return r.States[len(r.States)-1]
}

// Column extracts one state component across all samples.
func (r *Result) Column(i int) []float64 {
	out := make([]float64, 0, len(r.States))
	for _, s := range r.States {
		if i < len(s) {
			out = append(out, s[i])
		}
	}
	return out
}
