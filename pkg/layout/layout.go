// Package layout computes the vertical placement of the rows of a graph and
// binds every row to the strategy that renders it.
package layout

import (
	"strings"

	"github.com/felixge/tracegraph/pkg/events"
)

const (
	// DefaultLines is the line count of resizable rows without a preference.
	DefaultLines = 4
	MinLines     = 2
	MaxLines     = 50

	// defaultVisibleRows is the visible height on first use, in row heights.
	defaultVisibleRows = 15
	// maxZoomedRows bounds the visible height of a zoomed graph.
	maxZoomedRows = 60

	// HWSuffix names the hardware row paired with a timeline row.
	HWSuffix = " hw"
)

// Strategy is the way a row is rendered.
type Strategy uint8

const (
	StrategyNone Strategy = iota
	StrategyPoint
	StrategyPrint
	StrategyPlot
	StrategyTimeline
	StrategyTimelineHW
)

// StrategyFor returns the render strategy of a row kind.
func StrategyFor(k events.RowKind) Strategy {
	switch k {
	case events.RowPrint:
		return StrategyPrint
	case events.RowPlot:
		return StrategyPlot
	case events.RowTimeline:
		return StrategyTimeline
	case events.RowTimelineHW:
		return StrategyTimelineHW
	default:
		return StrategyPoint
	}
}

// Resizable returns true if rows of kind k honor a line count preference.
func Resizable(k events.RowKind) bool {
	switch k {
	case events.RowPrint, events.RowPlot, events.RowTimeline:
		return true
	}
	return false
}

// Descriptor is an entry of the row configuration list.
type Descriptor struct {
	Name   string
	Kind   events.RowKind
	Hidden bool
}

// RowSource resolves a row name to its events.
type RowSource interface {
	RowLocs(name string) ([]events.ID, events.RowKind, bool)
}

// Metrics are the font dependent sizes a layout is built for.
type Metrics struct {
	// TextH is the height of a line of text including spacing.
	TextH float64
	// Padding is the vertical gap between rows.
	Padding float64
}

// Row is a placed row.
type Row struct {
	// Index is the position of the row among the visible rows.
	Index    int
	Name     string
	Kind     events.RowKind
	Strategy Strategy
	Locs     []events.ID
	// Lines is the height in lines of text.
	Lines int
	// Y is the offset from the top of the graph, H the height.
	Y, H float64
}

// Layout is the row set of a frame.
type Layout struct {
	Rows    []Row
	Metrics Metrics
	// RowH is the height of a two line row including padding.
	RowH float64
	// TotalHeight is the height of all rows.
	TotalHeight float64
}

// Build lays out the visible rows of descs top to bottom. sizes holds the line
// count preferences by row name.
func Build(src RowSource, descs []Descriptor, sizes map[string]int, m Metrics) *Layout {
	l := &Layout{
		Metrics: m,
		RowH:    2*m.TextH + m.Padding,
	}
	y := m.Padding
	for _, d := range descs {
		if d.Hidden {
			continue
		}
		r := Row{
			Index: len(l.Rows),
			Name:  d.Name,
			Kind:  d.Kind,
			Lines: 2,
			Y:     y,
		}
		locs, kind, ok := src.RowLocs(d.Name)
		if ok {
			r.Kind = kind
			r.Locs = locs
			r.Strategy = StrategyFor(kind)
		}
		if ok && Resizable(r.Kind) {
			r.Lines = DefaultLines
			if n, ok := sizes[d.Name]; ok {
				r.Lines = clampLines(n)
			}
		}
		r.H = float64(r.Lines) * m.TextH
		l.Rows = append(l.Rows, r)
		y += r.H + m.Padding
	}
	l.TotalHeight = max(y+2, 4*l.RowH)
	return l
}

// Find returns the row called name.
func (l *Layout) Find(name string) (*Row, bool) {
	for i := range l.Rows {
		if l.Rows[i].Name == name {
			return &l.Rows[i], true
		}
	}
	return nil, false
}

// At returns the row under the graph relative y, taking the vertical pan
// offset into account.
func (l *Layout) At(y, panY float64) (*Row, bool) {
	y -= panY
	for i := range l.Rows {
		r := &l.Rows[i]
		if y >= r.Y && y < r.Y+r.H {
			return r, true
		}
	}
	return nil, false
}

// VisibleHeight returns the pixel height of the graph for the preference pref
// and a window of height windowH. A zero pref picks a height of 15 rows.
func (l *Layout) VisibleHeight(pref, windowH float64, zoomed bool) float64 {
	maxH := l.TotalHeight
	if zoomed {
		maxH = maxZoomedRows * l.RowH
	}
	minH := 4 * l.RowH
	maxH = clamp(maxH, minH, max(windowH, minH))
	if pref == 0 {
		pref = defaultVisibleRows * l.RowH
	}
	return clamp(pref, minH, maxH)
}

func clampLines(n int) int {
	return min(max(n, MinLines), MaxLines)
}

func clamp(v, lo, hi float64) float64 {
	return min(max(v, lo), hi)
}

// Zoom is the row zoom state of a view: at most one row fills the graph.
type Zoom struct {
	Row string
}

// Zoomable returns true if rows of kind k can be zoomed.
func Zoomable(k events.RowKind) bool {
	switch k {
	case events.RowTimeline, events.RowTimelineHW, events.RowPlot, events.RowPrint:
		return true
	}
	return false
}

// Toggle zooms the row called name, or unzooms if it is already zoomed. A
// hardware row zooms the timeline row it belongs to.
func (z *Zoom) Toggle(name string) {
	name = strings.TrimSuffix(name, HWSuffix)
	if z.Row == name {
		z.Row = ""
		return
	}
	z.Row = name
}

// Active returns true if a row is zoomed.
func (z Zoom) Active() bool {
	return z.Row != ""
}

// Apply returns the rows to render while zoomed into a graph of height h: the
// zoomed row fills the height, its hardware row, if any, sits at the bottom.
// It returns false if nothing is zoomed or the zoomed row isn't in l.
func (z Zoom) Apply(l *Layout, h float64) ([]Row, bool) {
	if !z.Active() {
		return nil, false
	}
	main, ok := l.Find(z.Row)
	if !ok {
		return nil, false
	}
	r := *main
	r.Y, r.H = 0, h
	rows := []Row{r}
	if hw, ok := l.Find(z.Row + HWSuffix); ok {
		r := *hw
		r.Y = h - r.H
		rows[0].H -= r.H + l.Metrics.Padding
		rows = append(rows, r)
	}
	return rows, true
}
