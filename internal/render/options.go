package render

// Options fixes the look of every frame. Width and Height are in pixels.
type Options struct {
	Width     int     `yaml:"width"`
	Height    int     `yaml:"height"`
	DPI       float64 `yaml:"dpi"`
	Title     string  `yaml:"title"`
	Color     string  `yaml:"color"`
	Alpha     float64 `yaml:"alpha"`
	LineWidth float64 `yaml:"line_width"`
	Elevation float64 `yaml:"elevation"`
	Azimuth   float64 `yaml:"azimuth"`
	Bounds    Box     `yaml:"bounds"`
}

// DefaultOptions draws a thin, 70% opaque green curve in a 720x540 frame
// with x, y in [-30, 30] and z in [0, 50].
func DefaultOptions() Options {
	return Options{
		Width:     720,
		Height:    540,
		DPI:       60,
		Title:     "Lorenz system attractor",
		Color:     "#008000",
		Alpha:     0.7,
		LineWidth: 0.7,
		Elevation: 30,
		Azimuth:   -60,
		Bounds: Box{
			X: [2]float64{-30, 30},
			Y: [2]float64{-30, 30},
			Z: [2]float64{0, 50},
		},
	}
}
