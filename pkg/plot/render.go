package plot

import (
	"math"

	"github.com/felixge/tracegraph/pkg/draw"
	"github.com/felixge/tracegraph/pkg/hover"
	"github.com/felixge/tracegraph/pkg/timeaxis"
)

// Rendered describes what Render drew.
type Rendered struct {
	// N is the number of points drawn.
	N int
	// Min and Max are the extreme values of the points drawn.
	Min, Max float64
}

// Render draws the visible part of s as a polyline with point markers into
// the row at y with height h. The value range is padded by 15% on both ends.
// Points are fed to hv if it is not nil.
func Render(s *Series, a timeaxis.Axis, y, h float64, c draw.Color, out *draw.List, hv *hover.Tracker) Rendered {
	r := Rendered{Min: math.Inf(1), Max: math.Inf(-1)}
	i := s.FindIndex(a.Ts0)
	if i == NoIndex {
		i = 0
	}

	var pts []draw.Point
	for ; i < len(s.Samples); i++ {
		sample := s.Samples[i]
		x := a.ToScreenX(sample.Ts)
		// The point left of the window only anchors the line.
		if x <= a.X {
			r.Min, r.Max = sample.Val, sample.Val
		}
		pts = append(pts, draw.Point{X: x, Y: sample.Val})
		r.Min = min(r.Min, sample.Val)
		r.Max = max(r.Max, sample.Val)
		if hv != nil {
			hv.Add(x, sample.ID)
		}
		if x >= a.X+a.W {
			break
		}
	}
	r.N = len(pts)
	if r.N == 0 {
		return r
	}

	pad := 0.15 * (r.Max - r.Min)
	if pad == 0 {
		pad = 1
	}
	lo, hi := r.Min-pad, r.Max+pad
	scale := h / (hi - lo)
	for j := range pts {
		pts[j].Y = y + (hi-pts[j].Y)*scale
	}
	out.Polyline(pts, c)
	marker := c.Complement()
	for _, p := range pts {
		out.Fill(p.X-1.5, p.Y-1.5, 3, 3, marker)
	}
	return r
}
