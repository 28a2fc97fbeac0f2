package metrics

import (
	"math"

	"github.com/san-kum/springsim/internal/dynamo"
)

// Overshoot is the largest excursion past the target, as a fraction of the
// distance travelled towards it. Every target change starts a new segment
// measured from the value at that moment.
type Overshoot struct {
	name   string
	start  float64
	target float64
	seen   bool
	max    float64
}

func NewOvershoot() *Overshoot {
	return &Overshoot{name: "overshoot"}
}

func (o *Overshoot) Name() string { return o.name }

func (o *Overshoot) Observe(x dynamo.State, u dynamo.Control, t float64) {
	if len(x) == 0 {
		return
	}
	target := u.Target()
	if !o.seen || target != o.target {
		o.start, o.target, o.seen = x[0], target, true
	}

	span := o.target - o.start
	if span == 0 {
		return
	}
	excess := (x[0] - o.target) / span
	if excess > o.max {
		o.max = excess
	}
}

func (o *Overshoot) Value() float64 { return o.max }

func (o *Overshoot) Reset() {
	o.seen = false
	o.max = 0
}

// SettleTime is the time from the last target change until the value entered
// and stayed inside a band of tolerance around the target, with speed below
// the same tolerance. It is -1 while the final sample is outside the band.
type SettleTime struct {
	name      string
	tolerance float64
	target    float64
	changedAt float64
	settledAt float64
	seen      bool
}

func NewSettleTime(tolerance float64) *SettleTime {
	return &SettleTime{name: "settle_time", tolerance: tolerance, settledAt: -1}
}

func (s *SettleTime) Name() string { return s.name }

func (s *SettleTime) Observe(x dynamo.State, u dynamo.Control, t float64) {
	if len(x) < 2 {
		return
	}
	target := u.Target()
	if !s.seen || target != s.target {
		s.target, s.changedAt, s.seen = target, t, true
		s.settledAt = -1
	}

	inside := math.Abs(x[0]-target) <= s.tolerance && math.Abs(x[1]) <= s.tolerance
	switch {
	case !inside:
		s.settledAt = -1
	case s.settledAt < 0:
		s.settledAt = t
	}
}

func (s *SettleTime) Value() float64 {
	if s.settledAt < 0 {
		return -1
	}
	return s.settledAt - s.changedAt
}

func (s *SettleTime) Reset() {
	s.seen = false
	s.settledAt = -1
	s.changedAt = 0
}
