// Package physics provides the dynamical system models behind the animator.
//
// [DampedSpring] implements [dynamo.System] and [dynamo.Oscillator]:
//
//	acceleration = -tension*(position-target) - friction*velocity
//
// The target is read from the control vector, so redirecting a spring is a
// control change rather than a state reset.
package physics
