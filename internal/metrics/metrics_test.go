package metrics

import (
	"math"
	"testing"

	"github.com/san-kum/springsim/internal/dynamo"
	"github.com/san-kum/springsim/internal/physics"
)

func TestOvershoot(t *testing.T) {
	m := NewOvershoot()
	u := dynamo.Control{10}

	for _, x := range []float64{0, 5, 11, 12, 9, 10} {
		m.Observe(dynamo.State{x, 0}, u, 0)
	}
	if math.Abs(m.Value()-0.2) > 1e-12 {
		t.Errorf("expected overshoot 0.2, got %f", m.Value())
	}

	m.Reset()
	if m.Value() != 0 {
		t.Error("expected zero overshoot after reset")
	}
}

func TestOvershoot_Downward(t *testing.T) {
	m := NewOvershoot()
	u := dynamo.Control{-4}

	for _, x := range []float64{0, -2, -5, -4} {
		m.Observe(dynamo.State{x, 0}, u, 0)
	}
	if math.Abs(m.Value()-0.25) > 1e-12 {
		t.Errorf("expected overshoot 0.25, got %f", m.Value())
	}
}

func TestOvershoot_NewSegment(t *testing.T) {
	m := NewOvershoot()

	m.Observe(dynamo.State{0, 0}, dynamo.Control{1}, 0)
	m.Observe(dynamo.State{1, 0}, dynamo.Control{1}, 0.1)
	m.Observe(dynamo.State{1, 0}, dynamo.Control{3}, 0.2)
	m.Observe(dynamo.State{3.5, 0}, dynamo.Control{3}, 0.3)

	if math.Abs(m.Value()-0.25) > 1e-12 {
		t.Errorf("expected overshoot 0.25, got %f", m.Value())
	}
}

func TestSettleTime(t *testing.T) {
	m := NewSettleTime(0.01)
	u := dynamo.Control{1}

	samples := []struct {
		x, v, t float64
	}{
		{0, 0, 0},
		{0.5, 2, 0.1},
		{1.005, 0.001, 0.2},
		{1.02, 0, 0.3},
		{1.001, 0.001, 0.4},
		{1, 0, 0.5},
	}
	for _, s := range samples {
		m.Observe(dynamo.State{s.x, s.v}, u, s.t)
	}
	if math.Abs(m.Value()-0.4) > 1e-12 {
		t.Errorf("expected settle time 0.4, got %f", m.Value())
	}
}

func TestSettleTime_Unsettled(t *testing.T) {
	m := NewSettleTime(0.01)
	m.Observe(dynamo.State{0, 0}, dynamo.Control{1}, 0)
	m.Observe(dynamo.State{0.5, 1}, dynamo.Control{1}, 0.1)

	if m.Value() != -1 {
		t.Errorf("expected -1, got %f", m.Value())
	}
}

func TestSettleTime_MeasuredFromLastTargetChange(t *testing.T) {
	m := NewSettleTime(0.01)
	m.Observe(dynamo.State{1, 0}, dynamo.Control{1}, 0)
	m.Observe(dynamo.State{1, 0}, dynamo.Control{2}, 1)
	m.Observe(dynamo.State{2, 0}, dynamo.Control{2}, 1.5)

	if math.Abs(m.Value()-0.5) > 1e-12 {
		t.Errorf("expected settle time 0.5, got %f", m.Value())
	}
}

func TestEnergy(t *testing.T) {
	s := physics.NewDampedSpring(100, 10)
	m := NewEnergy(s)

	m.Observe(dynamo.State{0, 0}, dynamo.Control{1}, 0)
	if math.Abs(m.Value()-50) > 1e-9 {
		t.Errorf("expected energy 50, got %f", m.Value())
	}

	m.Observe(dynamo.State{1, 0}, dynamo.Control{1}, 0.1)
	if m.Value() != 0 {
		t.Errorf("expected zero energy at rest, got %f", m.Value())
	}
	if math.Abs(m.Peak()-50) > 1e-9 {
		t.Errorf("expected peak 50, got %f", m.Peak())
	}

	m.Reset()
	if m.Value() != 0 || m.Peak() != 0 {
		t.Error("expected zero energy after reset")
	}
}

func TestStability(t *testing.T) {
	m := NewStability(10)
	if m.Value() != 1 {
		t.Errorf("expected 1 with no samples, got %f", m.Value())
	}

	m.Observe(dynamo.State{1, 1}, nil, 0)
	m.Observe(dynamo.State{11, 0}, nil, 0)
	m.Observe(dynamo.State{math.NaN(), 0}, nil, 0)
	m.Observe(dynamo.State{0, 0}, nil, 0)

	if m.Value() != 0.5 {
		t.Errorf("expected 0.5, got %f", m.Value())
	}
}

func TestControlEffort(t *testing.T) {
	m := NewControlEffort()
	m.Observe(dynamo.State{0, 0}, dynamo.Control{2}, 0)
	m.Observe(dynamo.State{3, 0}, dynamo.Control{2}, 0)

	if m.Value() != 1.5 {
		t.Errorf("expected 1.5, got %f", m.Value())
	}

	m.Reset()
	if m.Value() != 0 {
		t.Error("expected zero after reset")
	}
}

func TestDefaults(t *testing.T) {
	ms := Defaults(physics.NewDampedSpring(180, 12), 0.001, 1e6)
	seen := make(map[string]bool)
	for _, m := range ms {
		if seen[m.Name()] {
			t.Errorf("duplicate metric %s", m.Name())
		}
		seen[m.Name()] = true
	}
	for _, name := range []string{"overshoot", "settle_time", "energy", "stability", "control_effort"} {
		if !seen[name] {
			t.Errorf("missing metric %s", name)
		}
	}
}
