// Package hover finds the events closest to the cursor during a frame.
package hover

import (
	"sort"

	"github.com/felixge/tracegraph/pkg/events"
	"github.com/felixge/tracegraph/pkg/timeaxis"
)

const (
	// MaxCandidates is the number of events a tracker keeps.
	MaxCandidates = 6
	// Threshold is the maximum pixel distance of a candidate to the cursor.
	Threshold = 8.0
)

// Candidate is an event close to the cursor.
type Candidate struct {
	// Before is true if the event is left of the cursor.
	Before bool
	// Dist is the absolute time distance to the cursor.
	Dist int64
	ID   events.ID
}

// Tracker keeps the MaxCandidates events closest to the cursor, sorted by
// ascending time distance. A Tracker lives for a single frame.
type Tracker struct {
	axis      timeaxis.Axis
	cursorX   float64
	threshold float64
	items     []Candidate
}

// New returns a tracker for the cursor at screen x cursorX.
func New(axis timeaxis.Axis, cursorX float64) *Tracker {
	return &Tracker{
		axis:      axis,
		cursorX:   cursorX,
		threshold: Threshold,
		items:     make([]Candidate, 0, MaxCandidates+1),
	}
}

// WithThreshold sets the pixel threshold, e.g. for scaled displays.
func (t *Tracker) WithThreshold(px float64) *Tracker {
	t.threshold = px
	return t
}

// Add offers the event id drawn at screen x. It returns true if the event
// made it into the candidate list.
func (t *Tracker) Add(x float64, id events.ID) bool {
	dx := x - t.cursorX
	before := dx < 0
	if before {
		dx = -dx
	}
	if dx >= t.threshold {
		return false
	}

	c := Candidate{Before: before, Dist: t.axis.DxToTs(dx), ID: id}
	// Insert after any candidates with the same distance so the first
	// event seen wins ties.
	i := sort.Search(len(t.items), func(i int) bool { return t.items[i].Dist > c.Dist })
	if i >= MaxCandidates {
		return false
	}
	t.items = append(t.items, Candidate{})
	copy(t.items[i+1:], t.items[i:])
	t.items[i] = c
	if len(t.items) > MaxCandidates {
		t.items = t.items[:MaxCandidates]
	}
	return true
}

// Len returns the number of candidates.
func (t *Tracker) Len() int {
	return len(t.items)
}

// Candidates returns the candidates sorted by ascending distance.
func (t *Tracker) Candidates() []Candidate {
	return t.items
}

// Primary returns the closest candidate.
func (t *Tracker) Primary() (Candidate, bool) {
	if len(t.items) == 0 {
		return Candidate{ID: events.InvalidID}, false
	}
	return t.items[0], true
}

// ByID returns a copy of the candidates sorted by event id, which is the order
// they are listed in tooltips.
func (t *Tracker) ByID() []Candidate {
	c := append([]Candidate(nil), t.items...)
	sort.Slice(c, func(i, j int) bool { return c[i].ID < c[j].ID })
	return c
}

// IDs returns the candidate ids in event id order.
func (t *Tracker) IDs() []events.ID {
	var ids []events.ID
	for _, c := range t.ByID() {
		ids = append(ids, c.ID)
	}
	return ids
}
