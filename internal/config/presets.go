package config

import (
	"sort"

	"github.com/san-kum/lorenzgif/internal/physics"
)

func regime(name string, rho float64) Regime {
	p := physics.Classic()
	p.Rho = rho
	return Regime{
		Name:      name,
		Params:    p,
		Initial:   [3]float64{0.1, 0, 0},
		Start:     DefaultStart,
		End:       DefaultEnd,
		Points:    DefaultPoints,
		ChunkStep: DefaultChunkStep,
	}
}

// Presets holds the three regimes rendered side by side: the butterfly
// (rho=28), a long chaotic transient near the onset of chaos (rho=24.5)
// and a spiral into one of the fixed points (rho=14).
var Presets = map[string]Regime{
	"chaotic": regime("chaotic", 28.0),
	"onset":   regime("onset", 24.5),
	"steady":  regime("steady", 14.0),
}

// Preset returns a copy of the named regime, or nil.
func Preset(name string) *Regime {
	r, ok := Presets[name]
	if !ok {
		return nil
	}
	return &r
}

func PresetNames() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
