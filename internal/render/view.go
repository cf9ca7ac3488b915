package render

import "math"

type Vec3 struct {
	X, Y, Z float64
}

func (v Vec3) Dot(o Vec3) float64 { return v.X*o.X + v.Y*o.Y + v.Z*o.Z }

// Box is the fixed axis range of a plot.
type Box struct {
	X [2]float64 `yaml:"x,flow"`
	Y [2]float64 `yaml:"y,flow"`
	Z [2]float64 `yaml:"z,flow"`
}

// Corners returns the eight box vertices, bit i of the index selecting the
// upper bound of axis i.
func (b Box) Corners() [8]Vec3 {
	var c [8]Vec3
	for i := range c {
		c[i] = Vec3{b.X[i&1], b.Y[(i>>1)&1], b.Z[(i>>2)&1]}
	}
	return c
}

// Edges returns the twelve box edges as corner index pairs.
func (b Box) Edges() [12][2]int {
	return [12][2]int{
		{0, 1}, {2, 3}, {4, 5}, {6, 7},
		{0, 2}, {1, 3}, {4, 6}, {5, 7},
		{0, 4}, {1, 5}, {2, 6}, {3, 7},
	}
}

// View is an orthographic camera on the unit-normalized axis box, with
// elevation and azimuth in degrees measured as in matplotlib's 3D axes.
type View struct {
	Box         Box
	right, up   Vec3
	eye         Vec3
	center, inv Vec3
}

func NewView(box Box, elevation, azimuth float64) *View {
	el := elevation * math.Pi / 180
	az := azimuth * math.Pi / 180

	return &View{
		Box:   box,
		right: Vec3{-math.Sin(az), math.Cos(az), 0},
		up:    Vec3{-math.Sin(el) * math.Cos(az), -math.Sin(el) * math.Sin(az), math.Cos(el)},
		eye:   Vec3{math.Cos(el) * math.Cos(az), math.Cos(el) * math.Sin(az), math.Sin(el)},
		center: Vec3{
			(box.X[0] + box.X[1]) / 2,
			(box.Y[0] + box.Y[1]) / 2,
			(box.Z[0] + box.Z[1]) / 2,
		},
		inv: Vec3{
			1 / span(box.X),
			1 / span(box.Y),
			1 / span(box.Z),
		},
	}
}

func span(r [2]float64) float64 {
	if d := r[1] - r[0]; d != 0 {
		return d
	}
	return 1
}

// Project maps a world point to screen coordinates (u right, v up) and a
// depth that grows towards the viewer.
func (v *View) Project(p Vec3) (u, w, depth float64) {
	n := Vec3{
		(p.X - v.center.X) * v.inv.X,
		(p.Y - v.center.Y) * v.inv.Y,
		(p.Z - v.center.Z) * v.inv.Z,
	}
	return n.Dot(v.right), n.Dot(v.up), n.Dot(v.eye)
}

// Extent returns the screen-space bounds of the projected box.
func (v *View) Extent() (minU, maxU, minV, maxV float64) {
	minU, minV = math.Inf(1), math.Inf(1)
	maxU, maxV = math.Inf(-1), math.Inf(-1)
	for _, c := range v.Box.Corners() {
		u, w, _ := v.Project(c)
		minU, maxU = math.Min(minU, u), math.Max(maxU, u)
		minV, maxV = math.Min(minV, w), math.Max(maxV, w)
	}
	return minU, maxU, minV, maxV
}
