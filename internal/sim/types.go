package sim

import "github.com/san-kum/lorenzgif/internal/dynamo"

// Config controls step-size selection between sample times.
type Config struct {
	Tolerance float64 `yaml:"tolerance"`
	InitialDt float64 `yaml:"initial_dt"`
	MinDt     float64 `yaml:"min_dt"`
	MaxDt     float64 `yaml:"max_dt"`
	MaxSteps  int     `yaml:"max_steps"`
	// MaxNorm bounds |x|; a state beyond it counts as divergence.
	MaxNorm float64 `yaml:"max_norm"`
}

func DefaultConfig() Config {
	return Config{
		Tolerance: 1e-9,
		InitialDt: 1e-3,
		MinDt:     1e-12,
		MaxDt:     0.05,
		MaxSteps:  10_000_000,
		MaxNorm:   1e6,
	}
}

type Result struct {
	Times      []float64
	States     []dynamo.State
	StepsTaken int
	Rejected   int
}

// Component returns the i-th coordinate of every sampled state.
func (r *Result) Component(i int) []float64 {
	out := make([]float64, len(r.States))
	for k, s := range r.States {
		out[k] = s[i]
	}
	return out
}
