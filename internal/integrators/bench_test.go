package integrators

import (
	"testing"

	"github.com/san-kum/lorenzgif/internal/dynamo"
	"github.com/san-kum/lorenzgif/internal/physics"
)

func BenchmarkEuler(b *testing.B) {
	integrator := NewEuler()
	dyn := physics.NewLorenz(physics.Classic())
	x := dynamo.State{0.1, 0, 0}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		x = integrator.Step(dyn, x, 0, 0.001)
	}
}

func BenchmarkRK4(b *testing.B) {
	integrator := NewRK4()
	dyn := physics.NewLorenz(physics.Classic())
	x := dynamo.State{0.1, 0, 0}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		x = integrator.Step(dyn, x, 0, 0.001)
	}
}

func BenchmarkRK45(b *testing.B) {
	integrator := NewRK45()
	dyn := physics.NewLorenz(physics.Classic())
	x := dynamo.State{0.1, 0, 0}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		x, _, _ = integrator.StepAdaptive(dyn, x, 0, 0.001, 1e-9)
	}
}
