package sim

import (
	"context"
	"fmt"
	"math"

	"github.com/san-kum/lorenzgif/internal/dynamo"
)

// Simulator samples the solution of an initial value problem at a given
// list of times. Steps are adaptive and always land exactly on each
// sample time.
type Simulator struct {
	dyn        dynamo.System
	integrator dynamo.Integrator
}

func New(dyn dynamo.System, integrator dynamo.Integrator) *Simulator {
	return &Simulator{dyn: dyn, integrator: integrator}
}

// Run integrates from x0 at times[0] and returns the state at every entry
// of times. A single sample time returns x0 unchanged; an empty list
// returns an empty result.
func (s *Simulator) Run(ctx context.Context, x0 dynamo.State, times []float64, cfg Config) (*Result, error) {
	if err := s.validateConfig(cfg); err != nil {
		return nil, err
	}

	result := &Result{
		Times:  make([]float64, 0, len(times)),
		States: make([]dynamo.State, 0, len(times)),
	}
	if len(times) == 0 {
		return result, nil
	}
	if len(x0) != s.dyn.StateDim() {
		return nil, fmt.Errorf("%w: state has %d components, system wants %d", dynamo.ErrDimensionMismatch, len(x0), s.dyn.StateDim())
	}
	if !x0.IsValid() {
		return nil, &dynamo.SimulationError{Time: times[0], State: x0.Clone(), Wrapped: dynamo.ErrInvalidState}
	}
	for i := 1; i < len(times); i++ {
		if !(times[i] > times[i-1]) {
			return nil, fmt.Errorf("%w: t[%d]=%g after t[%d]=%g", dynamo.ErrNonMonotonic, i, times[i], i-1, times[i-1])
		}
	}

	x := x0.Clone()
	t := times[0]
	dt := cfg.InitialDt
	if dt <= 0 {
		dt = math.Min(cfg.MaxDt, 1e-3)
	}

	result.States = append(result.States, x.Clone())
	result.Times = append(result.Times, t)

	for k := 1; k < len(times); k++ {
		select {
		case <-ctx.Done():
			return result, ctx.Err()
		default:
		}

		target := times[k]
		for t < target {
			remaining := target - t
			h := math.Min(dt, remaining)
			if cfg.MaxDt > 0 {
				h = math.Min(h, cfg.MaxDt)
			}
			clipped := h < dt

			newX, next, ratio := s.adaptiveStep(x, t, h, cfg)

			if ratio > 1 {
				result.Rejected++
				if h <= cfg.MinDt {
					return result, &dynamo.SimulationError{Step: result.StepsTaken, Time: t, State: x.Clone(), Wrapped: dynamo.ErrStepTooSmall}
				}
				dt = math.Max(next, cfg.MinDt)
				continue
			}

			if !newX.IsValid() || newX.Norm() > cfg.MaxNorm {
				return result, &dynamo.SimulationError{Step: result.StepsTaken, Time: t + h, State: newX, Wrapped: dynamo.ErrUnstable}
			}

			x = newX
			if h == remaining {
				t = target
			} else {
				t += h
			}
			if clipped {
				dt = math.Max(dt, next)
			} else {
				dt = next
			}

			result.StepsTaken++
			if cfg.MaxSteps > 0 && result.StepsTaken > cfg.MaxSteps {
				return result, &dynamo.SimulationError{Step: result.StepsTaken, Time: t, State: x.Clone(), Wrapped: dynamo.ErrMaxSteps}
			}
		}

		result.States = append(result.States, x.Clone())
		result.Times = append(result.Times, target)
	}

	return result, nil
}

func (s *Simulator) validateConfig(cfg Config) error {
	if cfg.Tolerance <= 0 {
		return fmt.Errorf("tolerance must be positive, got %g", cfg.Tolerance)
	}
	if cfg.MinDt <= 0 {
		return fmt.Errorf("min_dt must be positive, got %g", cfg.MinDt)
	}
	if cfg.MaxDt < cfg.MinDt {
		return fmt.Errorf("max_dt %g below min_dt %g", cfg.MaxDt, cfg.MinDt)
	}
	if cfg.MaxNorm <= 0 {
		return fmt.Errorf("max_norm must be positive, got %g", cfg.MaxNorm)
	}
	return nil
}

// adaptiveStep returns the new state, the proposed next step and the
// error ratio (<= 1 means accept). Integrators without an embedded error
// estimate fall back to step doubling.
func (s *Simulator) adaptiveStep(x dynamo.State, t, dt float64, cfg Config) (dynamo.State, float64, float64) {
	if adaptive, ok := s.integrator.(dynamo.AdaptiveIntegrator); ok {
		return adaptive.StepAdaptive(s.dyn, x, t, dt, cfg.Tolerance)
	}

	x1 := s.integrator.Step(s.dyn, x, t, dt)
	xHalf := s.integrator.Step(s.dyn, x, t, dt/2)
	x2 := s.integrator.Step(s.dyn, xHalf, t+dt/2, dt/2)

	ratio := x1.Sub(x2).Norm() / (cfg.Tolerance * (1 + x.Norm()))
	if math.IsNaN(ratio) {
		ratio = math.Inf(1)
	}

	switch {
	case ratio > 1:
		return x2, dt / 2, ratio
	case ratio < 0.1:
		return x2, dt * 2, ratio
	default:
		return x2, dt, ratio
	}
}
