// Package aggregate collapses dense point events of a row into groups so that
// the cost of drawing a row doesn't depend on how many events share a pixel
// column.
package aggregate

import "github.com/felixge/tracegraph/pkg/draw"

// Group is a run of events whose x coordinates are at most one pixel apart.
type Group struct {
	X0, X1 float64
	// Count is the number of events in the group.
	Count int
}

// Width returns the drawn width of g: its extent, but at least one pixel per
// event up to four pixels.
func (g Group) Width() float64 {
	return max(g.X1-g.X0, min(float64(g.Count), 4))
}

// Aggregator groups the events of a single row. Events must be added in
// increasing x order.
type Aggregator struct {
	y, h   float64
	tiers  []draw.Color
	out    *draw.List
	cur    Group
	open   bool
	groups []Group
}

// New returns an aggregator that draws groups into out at row position y with
// height h. tiers holds the group colors by size, tiers[0] is used for single
// events and the last tier for everything at or beyond its size.
func New(y, h float64, tiers []draw.Color, out *draw.List) *Aggregator {
	return &Aggregator{y: y, h: h, tiers: tiers, out: out}
}

// Add adds an event at x.
func (a *Aggregator) Add(x float64) {
	switch {
	case !a.open:
		a.start(x)
	case x-a.cur.X1 <= 1:
		// Close enough to the current group.
		a.cur.X1 = x
		a.cur.Count++
	default:
		a.flush()
		a.start(x)
	}
}

// SetY moves the aggregator to a new row position, drawing any open group at
// the old one first.
func (a *Aggregator) SetY(y, h float64) {
	if a.y != y || a.h != h {
		a.Done()
		a.y, a.h = y, h
	}
}

// Done draws the open group, if any.
func (a *Aggregator) Done() {
	if a.open {
		a.flush()
		a.open = false
	}
}

// Groups returns the groups drawn so far, left to right.
func (a *Aggregator) Groups() []Group {
	return a.groups
}

func (a *Aggregator) start(x float64) {
	a.cur = Group{X0: x, X1: x + 0.0001, Count: 1}
	a.open = true
}

func (a *Aggregator) flush() {
	g := a.cur
	a.groups = append(a.groups, g)
	if a.out == nil || len(a.tiers) == 0 {
		return
	}
	tier := min(g.Count-1, len(a.tiers)-1)
	a.out.Rect(g.X0, g.Width(), a.y, a.h, a.tiers[tier])
}
