// Package dynamo provides core primitives for integrating ordinary
// differential equations.
//
//   - [State]: vector representing system state
//   - [System]: interface for ODE systems (dX/dt = f(X, t))
//   - [Integrator], [AdaptiveIntegrator]: single-step numerical schemes
//
// Failures surface as sentinel errors ([ErrUnstable], [ErrStepTooSmall],
// ...) wrapped in a [SimulationError] carrying the step, time and state
// at which the run stopped.
//
// # Example
//
//	dyn := physics.NewLorenz(physics.Classic())
//	x, dtNext, ratio := integrators.NewRK45().StepAdaptive(dyn, x0, 0, 0.01, 1e-9)
package dynamo
