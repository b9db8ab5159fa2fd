package graph

import (
	"github.com/felixge/tracegraph/pkg/aggregate"
	"github.com/felixge/tracegraph/pkg/events"
	"github.com/felixge/tracegraph/pkg/hover"
	"github.com/felixge/tracegraph/pkg/plot"
)

const (
	// pointInset is the vertical inset of point groups within their row.
	pointInset = 4
	// circleRadius is the size of the marks for event list events.
	circleRadius = 5
	printTickW   = 2
)

// renderPoints draws the events of a point row as aggregated groups.
func (f *frame) renderPoints(locs []events.ID, y, h float64, hv *hover.Tracker) int {
	agg := aggregate.New(y+pointInset, h-2*pointInset, f.v.Theme.Point, &f.out.Prims)
	var n int
	for _, id := range f.visible(locs) {
		e := f.v.Store.Get(id)
		if e.Ts >= f.axis.Ts1 {
			break
		}
		if f.filteredOut(id) {
			continue
		}
		x := f.axis.ToScreenX(e.Ts)
		agg.Add(x)
		if hv != nil {
			hv.Add(x, id)
		}
		switch id {
		case f.in.ListHovered:
			f.out.Prims.Circle(x, y+h/2, circleRadius, f.v.Theme.ListHovered)
		case f.in.ListSelected:
			f.out.Prims.Circle(x, y+h/2, circleRadius, f.v.Theme.ListSelected)
		}
		n++
	}
	agg.Done()
	return n
}

// filteredOut reports whether id is hidden by the OnlyFiltered option.
func (f *frame) filteredOut(id events.ID) bool {
	return f.v.Options.OnlyFiltered && f.in.Filtered != nil && !events.ContainsID(f.in.Filtered, id)
}

type printLabel struct {
	x, y float64
	text string
	ok   bool
}

// renderPrints draws the events of a print row as ticks spread over lanes.
// A label is drawn when it fits before the next event in its lane, the last
// label of every lane is always drawn.
func (f *frame) renderPrints(locs []events.ID, y, h float64, hv *hover.Tracker) int {
	textH := f.v.Metrics.TextH
	rowCount := 1
	if textH > 0 {
		rowCount = max(1, int(h/textH)-1)
	}
	labels := make([]printLabel, rowCount+1)
	flush := func(l printLabel) {
		if l.ok {
			f.out.Prims.Text(l.x+printTickW+1, l.y, l.text, f.v.Theme.PrintText, 0)
		}
	}

	var n int
	for _, id := range f.visible(locs) {
		e := f.v.Store.Get(id)
		if e.Ts >= f.axis.Ts1 {
			break
		}
		if f.filteredOut(id) {
			continue
		}
		lane := 0
		if e.RowSeq != 0 {
			lane = int(e.RowSeq)%rowCount + 1
		}
		ly := y + float64(lane)*textH
		x := f.axis.ToScreenX(e.Ts)
		f.out.Prims.Fill(x, ly, printTickW, textH, e.Color)
		if cy := f.in.Input.Cursor.Y; hv != nil && cy >= ly && cy <= ly+textH {
			hv.Add(x, id)
		}

		if f.v.Options.PrintLabels {
			if l := labels[lane]; l.ok && l.x+printTickW+1+f.v.Metrics.width(l.text) < x {
				flush(l)
			}
			labels[lane] = printLabel{x: x, y: ly, text: e.Field(plot.PayloadField), ok: true}
		}
		n++
	}
	for _, l := range labels {
		flush(l)
	}
	return n
}
