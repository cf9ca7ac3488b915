package export

import (
	"bufio"
	"fmt"
	"io"

	"github.com/san-kum/lorenzgif/internal/dynamo"
	"github.com/san-kum/lorenzgif/internal/render"
)

// ProjectionSVG draws the trajectory and the axis box through view, the
// same camera the animation frames use, as a single SVG path.
func ProjectionSVG(w io.Writer, traj []dynamo.State, view *render.View, width, height int, strokeColor string) error {
	if len(traj) < 2 {
		return fmt.Errorf("projection needs at least 2 states, got %d", len(traj))
	}

	minU, maxU, minV, maxV := view.Extent()
	rangeU, rangeV := maxU-minU, maxV-minV
	pad := 0.05
	scale := min(float64(width)/(rangeU*(1+2*pad)), float64(height)/(rangeV*(1+2*pad)))
	offU := (float64(width) - rangeU*scale) / 2
	offV := (float64(height) - rangeV*scale) / 2

	toScreen := func(p render.Vec3) (float64, float64) {
		u, v, _ := view.Project(p)
		return offU + (u-minU)*scale, float64(height) - offV - (v-minV)*scale
	}

	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="#ffffff"/>
<g stroke="#b0b0b0" stroke-width="0.5">
`, width, height, width, height)

	corners := view.Box.Corners()
	for _, e := range view.Box.Edges() {
		x1, y1 := toScreen(corners[e[0]])
		x2, y2 := toScreen(corners[e[1]])
		fmt.Fprintf(bw, "<line x1=\"%.1f\" y1=\"%.1f\" x2=\"%.1f\" y2=\"%.1f\"/>\n", x1, y1, x2, y2)
	}

	fmt.Fprintf(bw, "</g>\n<path fill=\"none\" stroke=\"%s\" stroke-width=\"0.7\" d=\"M", strokeColor)
	for i, s := range traj {
		if len(s) < 3 || !s.IsValid() {
			return fmt.Errorf("projection: invalid state at index %d", i)
		}
		x, y := toScreen(render.Vec3{X: s[0], Y: s[1], Z: s[2]})
		if i == 0 {
			fmt.Fprintf(bw, "%.1f,%.1f", x, y)
		} else {
			fmt.Fprintf(bw, " L%.1f,%.1f", x, y)
		}
	}
	bw.WriteString("\"/>\n</svg>\n")

	return bw.Flush()
}
