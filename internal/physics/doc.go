// Package physics provides the vector fields integrated by the renderer.
//
// [Lorenz] implements [dynamo.System] for
//
//	dx/dt = σ(y − x)
//	dy/dt = x(ρ − z) − y
//	dz/dt = xy − βz
//
// with coefficients fixed at construction ([Params]).
package physics
