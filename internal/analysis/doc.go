// Package analysis characterizes Lorenz trajectories.
//
//   - [LyapunovExponent]: largest Lyapunov exponent, positive for chaos
//   - [PowerSpectrum]: one-sided spectrum of a uniformly sampled component
//   - [BifurcationDiagram]: z maxima across a parameter sweep
//
// # Chaos Detection
//
//	lambda := analysis.LyapunovExponent(dyn, integ, x0, 0.01, 5, 100, 0)
//	if lambda > 0 {
//	    // sensitive dependence on initial conditions
//	}
package analysis
