package integrators

import (
	"math"
	"testing"

	"github.com/san-kum/lorenzgif/internal/dynamo"
)

type harmonicOscillator struct{}

func (h *harmonicOscillator) StateDim() int { return 2 }

func (h *harmonicOscillator) Derive(x dynamo.State, t float64) dynamo.State {
	return dynamo.State{x[1], -x[0]}
}

func (h *harmonicOscillator) Energy(x dynamo.State) float64 {
	return 0.5 * (x[0]*x[0] + x[1]*x[1])
}

func TestRK45_Step(t *testing.T) {
	integrator := NewRK45()
	dyn := &harmonicOscillator{}
	x := dynamo.State{1.0, 0.0}
	dt := 0.01

	for i := 0; i < 1000; i++ {
		x = integrator.Step(dyn, x, float64(i)*dt, dt)
	}

	if !x.IsValid() {
		t.Error("RK45 produced invalid state")
	}
	if math.Abs(x[0]-math.Cos(10)) > 1e-6 {
		t.Errorf("x(10) = %f, want %f", x[0], math.Cos(10))
	}
}

func TestRK45_EnergyConservation(t *testing.T) {
	integrator := NewRK45()
	dyn := &harmonicOscillator{}
	x0 := dynamo.State{1.0, 0.0}

	initialEnergy := dyn.Energy(x0)
	x := x0.Clone()
	dt := 0.01

	for i := 0; i < 10000; i++ {
		x = integrator.Step(dyn, x, float64(i)*dt, dt)
	}

	drift := math.Abs(dyn.Energy(x)-initialEnergy) / initialEnergy
	if drift > 1e-6 {
		t.Errorf("RK45 energy drift too high: %e", drift)
	}
}

func TestRK45_AdaptiveStep(t *testing.T) {
	integrator := NewRK45()
	dyn := &harmonicOscillator{}
	x0 := dynamo.State{1.0, 0.0}

	tests := []struct {
		name   string
		dt     float64
		accept bool
	}{
		{"small step accepted", 0.001, true},
		{"huge step rejected", 5.0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			x, newDt, ratio := integrator.StepAdaptive(dyn, x0, 0, tt.dt, 1e-8)

			if !x.IsValid() {
				t.Error("StepAdaptive produced invalid state")
			}
			if newDt <= 0 {
				t.Errorf("StepAdaptive returned invalid dt: %f", newDt)
			}
			if got := ratio <= 1; got != tt.accept {
				t.Errorf("error ratio %e: accepted=%v, want %v", ratio, got, tt.accept)
			}
			if tt.accept && newDt <= tt.dt {
				t.Errorf("accepted step should grow: %f -> %f", tt.dt, newDt)
			}
			if !tt.accept && newDt >= tt.dt {
				t.Errorf("rejected step should shrink: %f -> %f", tt.dt, newDt)
			}
		})
	}
}

func TestRK45_VsRK4_Accuracy(t *testing.T) {
	rk4 := NewRK4()
	rk45 := NewRK45()
	dyn := &harmonicOscillator{}

	x4 := dynamo.State{1.0, 0.0}
	x45 := dynamo.State{1.0, 0.0}
	dt := 0.1

	for i := 0; i < 100; i++ {
		x4 = rk4.Step(dyn, x4, float64(i)*dt, dt)
		x45 = rk45.Step(dyn, x45, float64(i)*dt, dt)
	}

	t.Logf("RK4 final: [%.6f, %.6f]", x4[0], x4[1])
	t.Logf("RK45 final: [%.6f, %.6f]", x45[0], x45[1])

	e4 := dyn.Energy(x4)
	e45 := dyn.Energy(x45)

	if math.Abs(e45-0.5) > math.Abs(e4-0.5) {
		t.Errorf("RK45 energy error %e exceeds RK4 %e", math.Abs(e45-0.5), math.Abs(e4-0.5))
	}
}
