package physics

import (
	"math"

	"github.com/san-kum/lorenzgif/internal/dynamo"
)

// Params are the three Lorenz coefficients. A Lorenz system copies them on
// construction and never changes them afterwards.
type Params struct {
	Sigma float64 `yaml:"sigma" json:"sigma"`
	Rho   float64 `yaml:"rho" json:"rho"`
	Beta  float64 `yaml:"beta" json:"beta"`
}

// Classic returns Lorenz's original chaotic coefficients.
func Classic() Params { return Params{Sigma: 10.0, Rho: 28.0, Beta: 8.0 / 3.0} }

type Lorenz struct{ p Params }

func NewLorenz(p Params) *Lorenz { return &Lorenz{p: p} }
func (l *Lorenz) StateDim() int  { return 3 }
func (l *Lorenz) Params() Params { return l.p }

// Derive calculates the Lorenz attractor derivatives.
func (l *Lorenz) Derive(s dynamo.State, _ float64) dynamo.State {
	return dynamo.State{
		l.p.Sigma * (s[1] - s[0]),
		s[0]*(l.p.Rho-s[2]) - s[1],
		s[0]*s[1] - l.p.Beta*s[2],
	}
}

// FixedPoints returns the origin and, for rho > 1, the two symmetric
// equilibria C+ and C-.
func (l *Lorenz) FixedPoints() []dynamo.State {
	pts := []dynamo.State{{0, 0, 0}}
	if l.p.Rho <= 1 {
		return pts
	}
	r := math.Sqrt(l.p.Beta * (l.p.Rho - 1))
	z := l.p.Rho - 1
	return append(pts, dynamo.State{r, r, z}, dynamo.State{-r, -r, z})
}
