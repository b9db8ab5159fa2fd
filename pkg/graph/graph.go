// Package graph renders a frame of a trace view: it lays out the rows, turns
// their events into draw primitives, tracks the events under the cursor and
// applies the frame's input to the navigation state.
package graph

import (
	"errors"
	"unicode/utf8"

	"github.com/felixge/tracegraph/pkg/draw"
	"github.com/felixge/tracegraph/pkg/events"
	"github.com/felixge/tracegraph/pkg/hover"
	"github.com/felixge/tracegraph/pkg/jobchain"
	"github.com/felixge/tracegraph/pkg/layout"
	"github.com/felixge/tracegraph/pkg/nav"
	"github.com/felixge/tracegraph/pkg/plot"
	"github.com/felixge/tracegraph/pkg/timeaxis"
)

// ErrUnknownPlot is returned for plot rows that were never defined.
var ErrUnknownPlot = errors.New("unknown plot")

// Options are the rendering toggles of a view.
type Options struct {
	// OnlyFiltered hides the events of point and print rows that are not in
	// the frame's filtered id list.
	OnlyFiltered    bool
	RenderUserStage bool
	StageLabels     bool
	StageTicks      bool
	PrintLabels     bool
	// SyncEventList makes hovering request the event list to scroll.
	SyncEventList bool
}

// DefaultOptions returns the options of a new view.
func DefaultOptions() Options {
	return Options{StageLabels: true, PrintLabels: true}
}

// Theme holds the colors of a graph.
type Theme struct {
	Background draw.Color
	RowLabel   draw.Color
	RowLabelBg draw.Color
	Tick       draw.Color
	Cursor     draw.Color
	Markers    [2]draw.Color
	// ListHovered and ListSelected mark the events hovered and selected in
	// the event list.
	ListHovered  draw.Color
	ListSelected draw.Color
	Selection    draw.Color
	Area         draw.Color
	PrintText    draw.Color
	Plot         draw.Color
	// Point holds the point row group colors by group size.
	Point []draw.Color
	Chain jobchain.Theme
}

// DefaultTheme returns the default colors.
func DefaultTheme() Theme {
	return Theme{
		Background:   draw.RGBA(0x1e, 0x1e, 0x1e, 0xff),
		RowLabel:     draw.RGBA(0xff, 0xff, 0xff, 0xff),
		RowLabelBg:   draw.RGBA(0x00, 0x00, 0x00, 0x99),
		Tick:         draw.RGBA(0x66, 0x66, 0x66, 0xff),
		Cursor:       draw.RGBA(0xff, 0xff, 0xff, 0xb0),
		Markers:      [2]draw.Color{draw.RGBA(0xff, 0xa0, 0x00, 0xff), draw.RGBA(0x00, 0xa0, 0xff, 0xff)},
		ListHovered:  draw.RGBA(0xff, 0xff, 0x00, 0xff),
		ListSelected: draw.RGBA(0x00, 0xff, 0xff, 0xff),
		Selection:    draw.RGBA(0xff, 0xff, 0xff, 0x40),
		Area:         draw.RGBA(0x00, 0x80, 0xff, 0x30),
		PrintText:    draw.RGBA(0xdd, 0xdd, 0xdd, 0xff),
		Plot:         draw.RGBA(0x4c, 0xaf, 0x50, 0xff),
		Point: []draw.Color{
			draw.RGBA(0xff, 0xe0, 0x82, 0xff),
			draw.RGBA(0xff, 0xd5, 0x4f, 0xff),
			draw.RGBA(0xff, 0xca, 0x28, 0xff),
			draw.RGBA(0xff, 0xb3, 0x00, 0xff),
			draw.RGBA(0xff, 0x8f, 0x00, 0xff),
			draw.RGBA(0xff, 0x6f, 0x00, 0xff),
		},
		Chain: jobchain.DefaultTheme(),
	}
}

// Metrics are the font dependent sizes of a view.
type Metrics struct {
	layout.Metrics
	// TextWidth measures a label. If nil, 7 pixels per rune are assumed.
	TextWidth func(string) float64
}

// DefaultMetrics returns metrics for a 13px font.
func DefaultMetrics() Metrics {
	return Metrics{Metrics: layout.Metrics{TextH: 16, Padding: 4}}
}

func (m Metrics) width(s string) float64 {
	if m.TextWidth != nil {
		return m.TextWidth(s)
	}
	return 7 * float64(utf8.RuneCountInString(s))
}

// View is the state of a graph that carries over from one frame to the next.
type View struct {
	Store   *events.Store
	Filter  events.Filter
	Nav     *nav.State
	Zoom    layout.Zoom
	Plots   *PlotCache
	Rows    []layout.Descriptor
	Sizes   map[string]int
	Options Options
	Theme   Theme
	Metrics Metrics
	// HeightPref is the preferred graph height in pixels, 0 picks a default.
	HeightPref float64

	layout *layout.Layout
	dirty  bool
	// Results of the last frame, used by commands and the next frame.
	hovered    events.ID
	mouseTs    int64
	mouseValid bool
	mouseRow   string
	mouseKind  events.RowKind
}

// NewView returns a view showing the first 10ms of the trace in s with every
// row of the store's index.
func NewView(s *events.Store, f events.Filter) *View {
	v := &View{
		Nav:     nav.New(0, 10*timeaxis.NsPerMs),
		Sizes:   map[string]int{},
		Options: DefaultOptions(),
		Theme:   DefaultTheme(),
		Metrics: DefaultMetrics(),
		Plots:   NewPlotCache(s, f),
	}
	v.Reload(s, f)
	for _, name := range s.RowNames() {
		v.Rows = append(v.Rows, layout.Descriptor{Name: name})
	}
	v.Nav.Start = s.FirstTs()
	return v
}

// Reload replaces the trace of the view. Rows, plots and navigation state
// are kept, derived data is rebuilt.
func (v *View) Reload(s *events.Store, f events.Filter) {
	v.Store, v.Filter = s, f
	v.Plots.Reset(s, f)
	v.hovered = events.InvalidID
	v.Invalidate()
}

// Invalidate marks the layout as stale, e.g. after the row list or sizes
// changed.
func (v *View) Invalidate() {
	v.dirty = true
}

// Layout returns the row layout, rebuilding it if needed.
func (v *View) Layout() *layout.Layout {
	if v.layout == nil || v.dirty {
		v.layout = layout.Build(Source{Store: v.Store, Plots: v.Plots}, v.Rows, v.Sizes, v.Metrics.Metrics)
		v.dirty = false
	}
	return v.layout
}

// AddPlot defines a plot and appends its row to the view.
func (v *View) AddPlot(d PlotDef) error {
	if _, err := v.Plots.Define(d); err != nil {
		return err
	}
	name := d.RowName()
	for _, r := range v.Rows {
		if r.Name == name {
			v.Invalidate()
			return nil
		}
	}
	v.Rows = append(v.Rows, layout.Descriptor{Name: name, Kind: events.RowPlot})
	v.Invalidate()
	return nil
}

// FrameInput is what the host provides every frame.
type FrameInput struct {
	// Rect is the screen area available to the graph. The graph is as wide
	// as Rect, its height is picked from the height preference and Rect's
	// height.
	Rect  draw.Rect
	Input nav.Input
	// ListHovered and ListSelected are the ids hovered and selected in the
	// event list, or InvalidID.
	ListHovered  events.ID
	ListSelected events.ID
	// Filtered is the sorted id list of the event list filter.
	Filtered []events.ID
}

// RowStat describes a rendered row.
type RowStat struct {
	// Index is the position of the row in the layout.
	Index    int
	Name     string
	Count    int
	HasRange bool
	Min, Max float64
	// Y and H are the screen position of the row.
	Y, H float64
}

// Output is the result of a frame.
type Output struct {
	Prims draw.List
	// Height is the pixel height of the graph.
	Height float64
	// Hovered is the event closest to the cursor, or InvalidID.
	Hovered events.ID
	// Highlight lists the events the event list should highlight.
	Highlight []events.ID
	// Goto is the event the event list should scroll to, or InvalidID.
	Goto events.ID
	// Flagged is the completion id of the hovered or selected chain, or
	// InvalidID.
	Flagged    events.ID
	Tooltip    string
	Candidates []hover.Candidate
	// MouseOverRow is the name of the row under the cursor.
	MouseOverRow string
	Rows         []RowStat
}

// frame is the per frame state of a Render call.
type frame struct {
	v       *View
	in      FrameInput
	axis    timeaxis.Axis
	out     *Output
	hv      *hover.Tracker
	chains  *jobchain.Renderer
	inGraph bool
	top     float64
	height  float64
}

// Render renders a frame and applies its input to the view's navigation
// state. An empty graph rect renders nothing.
func (v *View) Render(in FrameInput) *Output {
	out := &Output{
		Hovered: events.InvalidID,
		Goto:    events.InvalidID,
		Flagged: events.InvalidID,
	}
	l := v.Layout()
	out.Height = l.VisibleHeight(v.HeightPref, in.Rect.Max.Y-in.Rect.Min.Y, v.Zoom.Active())

	v.Nav.Clamp(v.Store.FirstTs(), v.Store.LastTs())
	if !v.Zoom.Active() {
		v.Nav.ClampPanY(out.Height, l.TotalHeight)
	}
	a, err := v.Nav.Axis(in.Rect.Min.X, in.Rect.Max.X-in.Rect.Min.X)
	if err != nil {
		v.mouseValid = false
		return out
	}

	f := &frame{
		v:      v,
		in:     in,
		axis:   a,
		out:    out,
		top:    in.Rect.Min.Y,
		height: out.Height,
	}
	graph := draw.Rect{Min: in.Rect.Min, Max: draw.Point{X: in.Rect.Max.X, Y: f.top + f.height}}
	f.inGraph = in.Input.CursorValid && graph.Contains(in.Input.Cursor)
	if f.inGraph {
		f.hv = hover.New(a, in.Input.Cursor.X)
	}
	f.chains = &jobchain.Renderer{
		Store:      v.Store,
		Axis:       a,
		Out:        &out.Prims,
		Theme:      v.Theme.Chain,
		Cursor:     in.Input.Cursor,
		TextWidth:  v.Metrics.TextWidth,
		RenderUser: v.Options.RenderUserStage || v.Zoom.Active(),
		StageTicks: v.Options.StageTicks,
		Labels:     v.Options.StageLabels,
		Flagged:    f.initialFlagged(),
	}

	out.Prims.Fill(graph.Min.X, graph.Min.Y, a.W, f.height, v.Theme.Background)
	f.renderTicks()
	f.renderRows(l)
	f.renderOverlays()
	f.finish()

	input := in.Input
	input.InGraph = f.inGraph
	v.Nav.Handle(a, input)
	return out
}

// initialFlagged returns the completion of the chain hovered or selected in
// the event list, or of the event hovered in the previous frame.
func (f *frame) initialFlagged() events.ID {
	for _, id := range []events.ID{f.in.ListHovered, f.in.ListSelected, f.v.hovered} {
		if c, ok := jobchain.Completion(f.v.Store, id); ok {
			return c
		}
	}
	return events.InvalidID
}

// rowRect returns the screen y and height of r.
func (f *frame) rowRect(r *layout.Row, zoomed bool) (float64, float64) {
	if zoomed {
		return f.top + r.Y, r.H
	}
	return f.top + r.Y + f.v.Nav.PanY, r.H
}

func (f *frame) renderRows(l *layout.Layout) {
	rows, zoomed := f.v.Zoom.Apply(l, f.height)
	if !zoomed {
		rows = l.Rows
	}
	f.v.mouseRow = ""

	// Timeline rows are drawn last so their bars and outlines end up on top.
	for pass := 0; pass < 2; pass++ {
		for i := range rows {
			r := &rows[i]
			timeline := r.Strategy == layout.StrategyTimeline || r.Strategy == layout.StrategyTimelineHW
			if timeline != (pass == 1) {
				continue
			}
			y, h := f.rowRect(r, zoomed)
			if y+h < f.top || y > f.top+f.height {
				continue
			}
			mouseOver := f.inGraph && f.in.Input.Cursor.Y >= y && f.in.Input.Cursor.Y < y+h
			if mouseOver {
				f.out.MouseOverRow = r.Name
				f.v.mouseRow, f.v.mouseKind = r.Name, r.Kind
			}
			st := RowStat{Index: r.Index, Name: r.Name, Y: y, H: h}
			f.renderRow(r, y, h, mouseOver, &st)
			f.out.Rows = append(f.out.Rows, st)
		}
	}
}

func (f *frame) renderRow(r *layout.Row, y, h float64, mouseOver bool, st *RowStat) {
	hv := f.hv
	if !mouseOver {
		hv = nil
	}
	switch r.Strategy {
	case layout.StrategyPoint:
		st.Count = f.renderPoints(r.Locs, y, h, hv)
	case layout.StrategyPrint:
		st.Count = f.renderPrints(r.Locs, y, h, hv)
	case layout.StrategyPlot:
		series, err := f.v.Plots.Series(r.Name)
		if err != nil {
			return
		}
		rendered := plot.Render(series, f.axis, y, h, f.v.Theme.Plot, &f.out.Prims, hv)
		st.Count = rendered.N
		if rendered.N > 0 {
			st.HasRange, st.Min, st.Max = true, rendered.Min, rendered.Max
		}
	case layout.StrategyTimeline, layout.StrategyTimelineHW:
		f.chains.MouseOver = mouseOver
		f.chains.Hover = hv
		rect := jobchain.RowRect{Y: y, H: h, TextH: f.v.Metrics.TextH, Locs: r.Locs}
		if r.Strategy == layout.StrategyTimeline {
			st.Count = f.chains.RenderTimeline(rect)
		} else {
			st.Count = f.chains.RenderHW(rect)
		}
	}
}

// visible returns the part of locs starting at the first event of the
// window.
func (f *frame) visible(locs []events.ID) []events.ID {
	first := f.v.Store.TsToID(f.axis.Ts0)
	if !events.ValidID(first) {
		return nil
	}
	return locs[events.FindID(locs, first):]
}
