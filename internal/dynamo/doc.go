// Package dynamo provides core simulation primitives for spring systems.
//
// The package defines the fundamental interfaces and types shared by the
// spring animator, the integrators, and the experiment tooling:
//
//   - [State]: vector representing system state, laid out as [positions..., velocities...]
//   - [System]: interface for ODE systems (dX/dt = f(X, u, t))
//   - [Integrator]: numerical stepper interface
//   - [Metric]: scalar summary observed over a run
//   - [Result]: sampled trajectory of a run
//
// For a spring, the control vector carries the target value, so the same
// system can be redirected mid-flight without touching its state.
//
// # Example
//
//	dyn := physics.NewDampedSpring(180, 12)
//	integ := integrators.NewSemiImplicitEuler()
//	x := dynamo.State{0, 0}
//	x = integ.Step(dyn, x, dynamo.Control{1}, 0, 0.001)
//
// # Thread Safety
//
// Integrators with scratch buffers are NOT thread-safe. Use one integrator per
// goroutine; [ParallelFor] hands each worker its own range.
package dynamo
