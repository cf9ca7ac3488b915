package analysis

import (
	"github.com/san-kum/lorenzgif/internal/dynamo"
)

// BifurcationPoint holds the local maxima of one state component seen at
// a given parameter value. For the Lorenz system with the z component
// this is Lorenz's own return map.
type BifurcationPoint struct {
	Param  float64
	Maxima []float64
}

// Factory builds the system for one parameter value.
type Factory func(param float64) dynamo.System

// BifurcationDiagram sweeps params, settles for transient time units and
// then records the local maxima of x[index] for record time units.
func BifurcationDiagram(
	build Factory,
	integ dynamo.Integrator,
	params []float64,
	index int,
	x0 dynamo.State,
	dt, transient, record float64,
) []BifurcationPoint {
	if dt <= 0 || index < 0 || index >= len(x0) {
		return nil
	}

	results := make([]BifurcationPoint, 0, len(params))
	for _, p := range params {
		dyn := build(p)
		x := x0.Clone()
		t := 0.0

		for ; t < transient; t += dt {
			x = integ.Step(dyn, x, t, dt)
		}

		series := make([]float64, 0, int(record/dt)+1)
		for end := t + record; t < end; t += dt {
			x = integ.Step(dyn, x, t, dt)
			if !x.IsValid() {
				break
			}
			series = append(series, x[index])
		}

		results = append(results, BifurcationPoint{Param: p, Maxima: LocalMaxima(series)})
	}

	return results
}

// LocalMaxima returns the strict interior peaks of series in order.
func LocalMaxima(series []float64) []float64 {
	peaks := make([]float64, 0)
	for i := 1; i+1 < len(series); i++ {
		if series[i] > series[i-1] && series[i] >= series[i+1] {
			peaks = append(peaks, series[i])
		}
	}
	return peaks
}
