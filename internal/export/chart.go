package export

import (
	"fmt"
	"io"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/san-kum/lorenzgif/internal/dynamo"
)

var componentStyles = []struct {
	name  string
	color drawing.Color
}{
	{"x", chart.ColorBlue},
	{"y", chart.ColorRed},
	{"z", drawing.Color{R: 0, G: 128, B: 0, A: 255}},
}

// SeriesPNG charts every state component against time.
func SeriesPNG(w io.Writer, times []float64, states []dynamo.State, width, height int) error {
	if len(times) < 2 {
		return fmt.Errorf("series chart needs at least 2 samples, got %d", len(times))
	}
	if len(times) != len(states) {
		return fmt.Errorf("series chart: %d times for %d states", len(times), len(states))
	}

	series := make([]chart.Series, 0, len(componentStyles))
	for i, cs := range componentStyles {
		if i >= len(states[0]) {
			break
		}
		ys := make([]float64, len(states))
		for j, s := range states {
			ys[j] = s[i]
		}
		series = append(series, chart.ContinuousSeries{
			Name:    cs.name,
			XValues: times,
			YValues: ys,
			Style:   chart.Style{StrokeColor: cs.color, StrokeWidth: 1.0},
		})
	}

	graph := chart.Chart{
		Width:  width,
		Height: height,
		XAxis: chart.XAxis{
			Name:  "t",
			Style: chart.Style{FontSize: 10.0},
			ValueFormatter: func(v interface{}) string {
				return fmt.Sprintf("%.0f", v.(float64))
			},
		},
		YAxis: chart.YAxis{
			Style: chart.Style{FontSize: 10.0},
		},
		Series: series,
	}
	graph.Elements = []chart.Renderable{chart.Legend(&graph)}

	return graph.Render(chart.PNG, w)
}
