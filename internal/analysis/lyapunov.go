package analysis

import (
	"math"

	"github.com/san-kum/lorenzgif/internal/dynamo"
)

const defaultPerturbation = 1e-8

// LyapunovExponent estimates the largest Lyapunov exponent by following a
// reference trajectory and a neighbour d0 away, renormalizing the
// separation back to d0 after every step (Benettin's method):
//
//	lambda = sum(ln(d_i/d0)) / (steps * dt)
//
// The first transient time units are integrated but not counted. A
// perturbation <= 0 selects 1e-8.
func LyapunovExponent(
	dyn dynamo.System,
	integ dynamo.Integrator,
	x0 dynamo.State,
	dt, transient, duration float64,
	perturbation float64,
) float64 {
	if len(x0) == 0 || dt <= 0 || duration <= 0 {
		return 0
	}
	d0 := perturbation
	if d0 <= 0 {
		d0 = defaultPerturbation
	}

	x := x0.Clone()
	t := 0.0
	for ; t < transient; t += dt {
		x = integ.Step(dyn, x, t, dt)
	}

	xp := x.Clone()
	xp[0] += d0

	sumLog := 0.0
	steps := int(math.Round(duration / dt))
	for i := 0; i < steps; i++ {
		x = integ.Step(dyn, x, t, dt)
		xp = integ.Step(dyn, xp, t, dt)
		t += dt

		if !x.IsValid() || !xp.IsValid() {
			return math.NaN()
		}

		sep := xp.Sub(x).Norm()
		if sep == 0 {
			xp = x.Clone()
			xp[0] += d0
			continue
		}
		sumLog += math.Log(sep / d0)

		scale := d0 / sep
		for j := range xp {
			xp[j] = x[j] + (xp[j]-x[j])*scale
		}
	}

	return sumLog / (float64(steps) * dt)
}
