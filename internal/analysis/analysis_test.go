package analysis

import (
	"errors"
	"math"
	"testing"

	"github.com/san-kum/lorenzgif/internal/dynamo"
	"github.com/san-kum/lorenzgif/internal/integrators"
	"github.com/san-kum/lorenzgif/internal/physics"
)

func lorenzWithRho(rho float64) dynamo.System {
	p := physics.Classic()
	p.Rho = rho
	return physics.NewLorenz(p)
}

func TestLyapunovExponent_Chaotic(t *testing.T) {
	lambda := LyapunovExponent(lorenzWithRho(28), integrators.NewRK4(), dynamo.State{1, 1, 1}, 0.01, 5, 100, 0)

	if lambda < 0.5 || lambda > 1.3 {
		t.Errorf("expected lambda near 0.9 for rho=28, got %f", lambda)
	}
}

func TestLyapunovExponent_Steady(t *testing.T) {
	lambda := LyapunovExponent(lorenzWithRho(14), integrators.NewRK4(), dynamo.State{0.1, 0, 0}, 0.01, 5, 60, 0)

	if lambda >= -0.1 {
		t.Errorf("expected negative lambda for rho=14, got %f", lambda)
	}
}

func TestLyapunovExponent_Degenerate(t *testing.T) {
	if got := LyapunovExponent(lorenzWithRho(28), integrators.NewRK4(), dynamo.State{}, 0.01, 0, 1, 0); got != 0 {
		t.Errorf("empty state: got %f", got)
	}
	if got := LyapunovExponent(lorenzWithRho(28), integrators.NewRK4(), dynamo.State{1, 1, 1}, 0, 0, 1, 0); got != 0 {
		t.Errorf("zero dt: got %f", got)
	}
}

func TestPowerSpectrum(t *testing.T) {
	const dt = 0.01
	series := make([]float64, 1000)
	for i := range series {
		series[i] = 3 + math.Sin(2*math.Pi*2*float64(i)*dt)
	}

	sp, err := PowerSpectrum(series, dt)
	if err != nil {
		t.Fatal(err)
	}

	if len(sp.Freqs) != 501 || len(sp.Power) != 501 {
		t.Fatalf("expected 501 bins, got %d", len(sp.Freqs))
	}
	if got := sp.Dominant(); math.Abs(got-2) > 1e-9 {
		t.Errorf("expected dominant frequency 2, got %f", got)
	}
	if sp.Power[0] > 1e-9 {
		t.Errorf("mean not removed: DC power %g", sp.Power[0])
	}
	if f := sp.SpectralFlatness(); f > 0.05 {
		t.Errorf("pure tone should be spectrally sharp, flatness %f", f)
	}
}

func TestPowerSpectrum_Short(t *testing.T) {
	if _, err := PowerSpectrum([]float64{1}, 0.1); !errors.Is(err, ErrShortSeries) {
		t.Errorf("expected ErrShortSeries, got %v", err)
	}
	if _, err := PowerSpectrum([]float64{1, 2, 3}, 0); !errors.Is(err, ErrShortSeries) {
		t.Errorf("expected ErrShortSeries for dt=0, got %v", err)
	}
}

func TestLocalMaxima(t *testing.T) {
	tests := []struct {
		name   string
		series []float64
		want   []float64
	}{
		{"empty", nil, []float64{}},
		{"monotone", []float64{1, 2, 3}, []float64{}},
		{"two peaks", []float64{0, 2, 1, 5, 4}, []float64{2, 5}},
		{"plateau counted once", []float64{0, 3, 3, 1}, []float64{3}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := LocalMaxima(tt.series)
			if len(got) != len(tt.want) {
				t.Fatalf("got %v, want %v", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("got %v, want %v", got, tt.want)
				}
			}
		})
	}
}

func TestBifurcationDiagram(t *testing.T) {
	points := BifurcationDiagram(lorenzWithRho, integrators.NewRK4(), []float64{14, 28}, 2,
		dynamo.State{1, 1, 1}, 0.01, 30, 20)

	if len(points) != 2 {
		t.Fatalf("expected 2 points, got %d", len(points))
	}

	for _, z := range points[0].Maxima {
		if math.Abs(z-13) > 0.1 {
			t.Errorf("rho=14 should settle at z=13, saw peak %f", z)
		}
	}

	chaotic := points[1].Maxima
	if len(chaotic) < 10 {
		t.Fatalf("expected many peaks for rho=28, got %d", len(chaotic))
	}
	lo, hi := chaotic[0], chaotic[0]
	for _, z := range chaotic {
		lo, hi = math.Min(lo, z), math.Max(hi, z)
	}
	if hi-lo < 5 {
		t.Errorf("chaotic peaks should spread, got [%f, %f]", lo, hi)
	}
}

func TestBifurcationDiagram_BadIndex(t *testing.T) {
	if got := BifurcationDiagram(lorenzWithRho, integrators.NewRK4(), []float64{28}, 3,
		dynamo.State{1, 1, 1}, 0.01, 1, 1); got != nil {
		t.Errorf("expected nil for out-of-range index, got %v", got)
	}
}
