package graph

import (
	"fmt"

	"github.com/felixge/tracegraph/pkg/draw"
	"github.com/felixge/tracegraph/pkg/events"
	"github.com/felixge/tracegraph/pkg/nav"
)

func (f *frame) renderTicks() {
	for _, t := range f.axis.Ticks() {
		h := f.height
		if !t.Major {
			h = f.v.Metrics.TextH / 2
		}
		f.out.Prims.Rect(t.X, 1, f.top, h, f.v.Theme.Tick)
	}
}

// vline draws a full height line at the absolute timestamp ts if it is
// visible.
func (f *frame) vline(ts int64, c draw.Color) {
	if f.axis.Contains(ts) {
		f.out.Prims.Rect(f.axis.ToScreenX(ts), 1, f.top, f.height, c)
	}
}

func (f *frame) band(s nav.Selection, c draw.Color) {
	x0 := max(f.axis.ToScreenX(s.Ts0), f.axis.X)
	x1 := min(f.axis.ToScreenX(s.Ts1), f.axis.X+f.axis.W)
	if x1 > x0 {
		f.out.Prims.Fill(x0, f.top, x1-x0, f.height, c)
	}
}

func (f *frame) renderOverlays() {
	t := f.v.Theme
	for i, c := range t.Markers {
		if ts, ok := f.v.Nav.Marker(i); ok {
			f.vline(ts, c)
		}
	}
	for _, l := range []struct {
		id events.ID
		c  draw.Color
	}{{f.in.ListHovered, t.ListHovered}, {f.in.ListSelected, t.ListSelected}} {
		if e, ok := f.v.Store.Lookup(l.id); ok {
			f.vline(e.Ts, l.c)
		}
	}
	if area, ok := f.v.Nav.Area(); ok {
		f.band(area, t.Area)
	}
	if sel, ok := f.v.Nav.Dragging(); ok {
		f.band(sel, t.Selection)
	}
	if f.inGraph {
		f.out.Prims.Rect(f.in.Input.Cursor.X, 1, f.top, f.height, t.Cursor)
	}

	for _, r := range f.out.Rows {
		label := fmt.Sprintf("%d) %s", r.Index, r.Name)
		if r.HasRange {
			label += fmt.Sprintf(" (min:%.2f max:%.2f)", r.Min, r.Max)
		} else {
			label += fmt.Sprintf(" (%d events)", r.Count)
		}
		if r.Y >= f.top && r.Y < f.top+f.height {
			f.out.Prims.Text(f.axis.X, r.Y, label, t.RowLabel, t.RowLabelBg)
		}
	}
}
