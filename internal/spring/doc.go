// Package spring drives a scalar toward a moving target with a damped
// harmonic oscillator.
//
// A [Spring] owns position, velocity and target. [Spring.Observe] supplies the
// target on every render; when the target moves, the spring registers a
// callback with its [frame.Scheduler] and keeps re-registering one per frame
// until it is at rest. Each callback integrates the elapsed frame time
// (capped at [MaxElapsed]) in fixed [Step] increments with semi-implicit
// Euler, so the same target change always takes the same number of steps to
// settle regardless of frame rate. Leftover time below one step carries into
// the next frame.
//
// Rest is reached when both |position-target| and |velocity| fall below
// [RestThreshold]; the spring then snaps exactly onto the target and stops
// scheduling. Redirecting a moving spring keeps its velocity.
//
//	q := frame.NewQueue()
//	s := spring.New(0, q)
//	s.Observe(1, spring.DefaultConfig())
//	// each frame:
//	q.Flush(time.Now())
//	value, moving := s.Value(), s.Animating()
//
// Two-dimensional motion uses one Spring per axis.
package spring
