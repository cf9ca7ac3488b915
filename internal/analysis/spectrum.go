package analysis

import (
	"errors"
	"math/cmplx"

	"github.com/mjibson/go-dsp/fft"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

var ErrShortSeries = errors.New("series too short")

// Spectrum is a one-sided power spectrum. Freqs[k] is in cycles per time
// unit.
type Spectrum struct {
	Freqs []float64
	Power []float64
}

// PowerSpectrum removes the mean from a uniformly sampled series and
// returns |X_k|^2/n for k = 0..n/2. Any length is accepted.
func PowerSpectrum(series []float64, dt float64) (*Spectrum, error) {
	n := len(series)
	if n < 2 || dt <= 0 {
		return nil, ErrShortSeries
	}

	centered := make([]float64, n)
	copy(centered, series)
	floats.AddConst(-stat.Mean(series, nil), centered)

	coeffs := fft.FFTReal(centered)

	bins := n/2 + 1
	sp := &Spectrum{
		Freqs: make([]float64, bins),
		Power: make([]float64, bins),
	}
	for k := 0; k < bins; k++ {
		a := cmplx.Abs(coeffs[k])
		sp.Freqs[k] = float64(k) / (float64(n) * dt)
		sp.Power[k] = a * a / float64(n)
	}
	return sp, nil
}

// Dominant returns the frequency of the strongest non-zero bin.
func (s *Spectrum) Dominant() float64 {
	if len(s.Power) < 2 {
		return 0
	}
	return s.Freqs[1+floats.MaxIdx(s.Power[1:])]
}

// SpectralFlatness is the ratio of the geometric to the arithmetic mean
// of the non-zero bins. Values near 0 mean a few sharp lines, values
// toward 1 a broadband (noisy or chaotic) signal.
func (s *Spectrum) SpectralFlatness() float64 {
	if len(s.Power) < 2 {
		return 0
	}
	p := make([]float64, 0, len(s.Power)-1)
	for _, v := range s.Power[1:] {
		if v > 0 {
			p = append(p, v)
		}
	}
	if len(p) == 0 {
		return 0
	}
	return stat.GeometricMean(p, nil) / stat.Mean(p, nil)
}
