// Package render draws a trajectory as a 3D line plot inside a fixed axis
// box and writes it as a PNG frame.
package render

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"

	"github.com/lucasb-eyer/go-colorful"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"

	"github.com/san-kum/lorenzgif/internal/dynamo"
)

const frameExt = ".png"

var (
	boxColor   = color.Gray{Y: 0xb0}
	labelColor = color.Gray{Y: 0x40}
)

type Renderer struct {
	opts  Options
	view  *View
	color color.NRGBA
}

func NewRenderer(opts Options) (*Renderer, error) {
	if opts.Width <= 0 || opts.Height <= 0 {
		return nil, fmt.Errorf("render: invalid frame size %dx%d", opts.Width, opts.Height)
	}
	if opts.DPI <= 0 {
		opts.DPI = DefaultOptions().DPI
	}

	c, err := colorful.Hex(opts.Color)
	if err != nil {
		return nil, fmt.Errorf("render: line color: %w", err)
	}
	r, g, b := c.RGB255()
	alpha := opts.Alpha
	if alpha <= 0 || alpha > 1 {
		alpha = 1
	}

	return &Renderer{
		opts:  opts,
		view:  NewView(opts.Bounds, opts.Elevation, opts.Azimuth),
		color: color.NRGBA{R: r, G: g, B: b, A: uint8(alpha*255 + 0.5)},
	}, nil
}

func (r *Renderer) View() *View { return r.view }

// Plot builds the frame for one trajectory: the projected curve, the axis
// box and the title, with the plot range pinned to the projected box so
// every frame shares the same geometry.
func (r *Renderer) Plot(traj []dynamo.State) (*plot.Plot, error) {
	p := plot.New()
	p.Title.Text = r.opts.Title
	p.BackgroundColor = color.White
	p.HideAxes()

	if err := r.addBox(p); err != nil {
		return nil, err
	}

	pts := make(plotter.XYs, len(traj))
	for i, s := range traj {
		if len(s) < 3 {
			return nil, fmt.Errorf("render: state %d has %d components: %w", i, len(s), dynamo.ErrDimensionMismatch)
		}
		pts[i].X, pts[i].Y, _ = r.view.Project(Vec3{s[0], s[1], s[2]})
	}
	line, err := plotter.NewLine(pts)
	if err != nil {
		return nil, fmt.Errorf("render: trajectory: %w", err)
	}
	line.LineStyle.Color = r.color
	line.LineStyle.Width = vg.Points(r.opts.LineWidth)
	p.Add(line)

	r.pinRange(p)
	return p, nil
}

func (r *Renderer) addBox(p *plot.Plot) error {
	corners := r.view.Box.Corners()
	for _, e := range r.view.Box.Edges() {
		u0, v0, _ := r.view.Project(corners[e[0]])
		u1, v1, _ := r.view.Project(corners[e[1]])
		edge, err := plotter.NewLine(plotter.XYs{{X: u0, Y: v0}, {X: u1, Y: v1}})
		if err != nil {
			return fmt.Errorf("render: box: %w", err)
		}
		edge.LineStyle.Color = boxColor
		edge.LineStyle.Width = vg.Points(0.5)
		p.Add(edge)
	}

	b := r.view.Box
	mid := func(a [2]float64) float64 { return (a[0] + a[1]) / 2 }
	axes := []struct {
		at   Vec3
		name string
	}{
		{Vec3{mid(b.X), b.Y[0], b.Z[0]}, fmt.Sprintf("x [%g, %g]", b.X[0], b.X[1])},
		{Vec3{b.X[1], mid(b.Y), b.Z[0]}, fmt.Sprintf("y [%g, %g]", b.Y[0], b.Y[1])},
		{Vec3{b.X[0], b.Y[0], mid(b.Z)}, fmt.Sprintf("z [%g, %g]", b.Z[0], b.Z[1])},
	}
	lbl := plotter.XYLabels{XYs: make(plotter.XYs, len(axes)), Labels: make([]string, len(axes))}
	for i, a := range axes {
		lbl.XYs[i].X, lbl.XYs[i].Y, _ = r.view.Project(a.at)
		lbl.Labels[i] = a.name
	}
	labels, err := plotter.NewLabels(lbl)
	if err != nil {
		return fmt.Errorf("render: axis labels: %w", err)
	}
	for i := range labels.TextStyle {
		labels.TextStyle[i].Color = labelColor
	}
	p.Add(labels)
	return nil
}

// pinRange fixes the data range to the projected box, widened on one axis
// so the box keeps its aspect ratio in the frame.
func (r *Renderer) pinRange(p *plot.Plot) {
	minU, maxU, minV, maxV := r.view.Extent()
	pad := 0.04 * (maxU - minU)
	minU, maxU, minV, maxV = minU-pad, maxU+pad, minV-pad, maxV+pad

	want := float64(r.opts.Width) / float64(r.opts.Height)
	if got := (maxU - minU) / (maxV - minV); got < want {
		grow := ((maxV-minV)*want - (maxU - minU)) / 2
		minU, maxU = minU-grow, maxU+grow
	} else {
		grow := ((maxU-minU)/want - (maxV - minV)) / 2
		minV, maxV = minV-grow, maxV+grow
	}

	p.X.Min, p.X.Max = minU, maxU
	p.Y.Min, p.Y.Max = minV, maxV
}

// Render rasterizes the frame for one trajectory.
func (r *Renderer) Render(traj []dynamo.State) (image.Image, error) {
	p, err := r.Plot(traj)
	if err != nil {
		return nil, err
	}

	w := vg.Length(float64(r.opts.Width)/r.opts.DPI) * vg.Inch
	h := vg.Length(float64(r.opts.Height)/r.opts.DPI) * vg.Inch
	c := vgimg.NewWith(
		vgimg.UseWH(w, h),
		vgimg.UseDPI(int(r.opts.DPI)),
		vgimg.UseBackgroundColor(color.White),
	)
	p.Draw(draw.New(c))
	return c.Image(), nil
}

// WriteFrame renders traj into dir under FrameName(index, total) and
// returns the file path.
func (r *Renderer) WriteFrame(dir string, index, total int, traj []dynamo.State) (string, error) {
	img, err := r.Render(traj)
	if err != nil {
		return "", fmt.Errorf("frame %d: %w", index, err)
	}

	path := filepath.Join(dir, FrameName(index, total))
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("frame %d: %w", index, err)
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return "", fmt.Errorf("frame %d: %w", index, err)
	}
	return path, f.Close()
}
