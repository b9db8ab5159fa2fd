package jobchain

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/felixge/tracegraph/pkg/draw"
	"github.com/felixge/tracegraph/pkg/events"
	"github.com/felixge/tracegraph/pkg/hover"
	"github.com/felixge/tracegraph/pkg/timeaxis"
)

// Theme holds the colors of chain bars.
type Theme struct {
	User, Queue, Exec draw.Color
	// Tick is used for stage ticks and hw row separators.
	Tick    draw.Color
	Label   draw.Color
	Outline draw.Color
}

// DefaultTheme returns the default bar colors.
func DefaultTheme() Theme {
	return Theme{
		User:    draw.RGBA(0x7b, 0x87, 0x99, 0xff),
		Queue:   draw.RGBA(0xe6, 0x9f, 0x00, 0xff),
		Exec:    draw.RGBA(0x1f, 0x9e, 0x89, 0xff),
		Tick:    draw.RGBA(0xff, 0xff, 0xff, 0xb0),
		Label:   draw.RGBA(0xff, 0xff, 0xff, 0xff),
		Outline: draw.RGBA(0xff, 0xff, 0x00, 0xff),
	}
}

func (t Theme) stage(s Stage) draw.Color {
	switch s {
	case StageUser:
		return t.User
	case StageQueue:
		return t.Queue
	default:
		return t.Exec
	}
}

// RowRect is the placement of a row that is being rendered.
type RowRect struct {
	Y, H float64
	// TextH is the height of a lane.
	TextH float64
	Locs  []events.ID
}

// Renderer draws the timeline rows of a frame. A single renderer is used for
// all rows of a frame so that at most one chain gets flagged.
type Renderer struct {
	Store *events.Store
	Axis  timeaxis.Axis
	Out   *draw.List
	// Hover is fed with stage events when StageTicks is set. May be nil.
	Hover *hover.Tracker
	Theme Theme
	// Cursor is the mouse position, MouseOver is true if it is inside the
	// row being rendered.
	Cursor    draw.Point
	MouseOver bool
	// TextWidth measures labels. If nil, a fixed width per rune is assumed.
	TextWidth func(string) float64

	RenderUser bool
	StageTicks bool
	Labels     bool

	// Flagged is the completion id of the flagged chain or InvalidID. It
	// can be set to an externally selected chain before rendering.
	Flagged events.ID
}

// RenderTimeline draws the chains completing in the row as 3-segment bars
// packed into lanes. It returns the number of chains drawn.
func (x *Renderer) RenderTimeline(r RowRect) int {
	lanes := 1
	if r.TextH > 0 {
		lanes = max(int(r.H/r.TextH), 1)
	}
	var (
		outline    draw.Rect
		hasOutline bool
		n          int
	)
	first := x.first(r.Locs)
	for i, id := range r.Locs[first:] {
		c, ok := Resolve(x.Store, id)
		if !ok || c.SubmitTs >= x.Axis.Ts1 {
			continue
		}
		// A completion is listed in several rows, so its lane comes from
		// the position in this row and not from RowSeq.
		y := r.Y + float64((first+i)%lanes)*r.TextH
		g := c.Geometry(x.Axis)
		left := g.XQueueStart
		if x.RenderUser {
			left = g.XUserStart
		}

		hit := x.hit(id, draw.NewRect(left, y, g.XEnd-left, r.TextH))
		if hit && x.Flagged == id {
			outline = draw.Rect{Min: draw.Point{X: g.XUserStart, Y: y}, Max: draw.Point{X: g.XEnd, Y: y + r.TextH}}
			hasOutline = true
		}
		for _, s := range g.Segments() {
			if s.Stage == StageUser && !hit && !x.RenderUser {
				continue
			}
			x.Out.Rect(s.X0, s.X1-s.X0, y, r.TextH, x.Theme.stage(s.Stage))
		}

		if x.Labels {
			comm := x.Store.Get(c.Submit).Comm
			xt := max(g.XQueueStart, x.Axis.X) + 2
			if comm != "" && g.XEnd-xt >= x.width(comm) {
				x.Out.Text(xt, y+1, comm, x.Theme.Label, 0)
			}
		}

		if x.StageTicks {
			if !c.Degenerate {
				x.Out.Rect(g.XUserStart, 1, y, r.TextH, x.Theme.Tick)
				if x.Hover != nil && x.MouseOver && x.Cursor.Y >= y && x.Cursor.Y <= y+r.TextH &&
					x.Hover.Add(g.XUserStart, c.Submit) && !hasOutline {
					outline = draw.Rect{Min: draw.Point{X: g.XUserStart, Y: y}, Max: draw.Point{X: g.XEnd, Y: y + r.TextH}}
					hasOutline = true
					if !hit && !x.RenderUser {
						x.Out.Rect(g.XUserStart, g.XQueueStart-g.XUserStart, y, r.TextH, x.Theme.User)
					}
				}
			}
			x.Out.Rect(g.XQueueStart, 1, y, r.TextH, x.Theme.Tick)
			x.Out.Rect(g.XEnd, 1, y, r.TextH, x.Theme.Tick)
		}
		n++
	}
	x.outline(outline, hasOutline)
	return n
}

// RenderHW draws the execution stage of every chain in the row as a single
// bar in the completion's color.
func (x *Renderer) RenderHW(r RowRect) int {
	var (
		outline    draw.Rect
		hasOutline bool
		lastColor  draw.Color
		hasLast    bool
		n          int
	)
	for _, id := range x.visible(r.Locs) {
		e := x.Store.Get(id)
		if !e.IsCompletion() || !events.ValidID(e.IDStart) || e.ExecStart() >= x.Axis.Ts1 {
			continue
		}
		x0 := x.Axis.ToScreenX(e.ExecStart())
		x1 := x.Axis.ToScreenX(e.Ts)
		x.Out.Rect(x0, x1-x0, r.Y, r.H, e.Color)

		if x.Labels {
			if label, ok := x.fitLabel(e.Comm, x1-x0); ok {
				x.Out.Text(x0+2, r.Y+2, label, x.Theme.Label, 0)
			}
		}

		// Neighbours of the same color get a separator.
		if hasLast && lastColor == e.Color {
			x.Out.Rect(x0, 1, r.Y, r.H, x.Theme.Tick)
		} else {
			lastColor, hasLast = e.Color, true
		}

		rect := draw.NewRect(x0, r.Y, x1-x0, r.H)
		if x.hit(id, rect) && x.Flagged == id {
			outline, hasOutline = rect, true
		}
		n++
	}
	x.outline(outline, hasOutline)
	return n
}

// fitLabel returns comm, or only its pid suffix, if it fits into w.
func (x *Renderer) fitLabel(comm string, w float64) (string, bool) {
	if comm == "" {
		return "", false
	}
	if x.width(comm)+4 >= w {
		if i := strings.LastIndexByte(comm, '-'); i >= 0 {
			comm = comm[i+1:]
		}
	}
	return comm, x.width(comm)+4 < w
}

// hit reports whether the chain completing with id is hovered or selected
// and flags it if no chain is flagged yet.
func (x *Renderer) hit(id events.ID, rect draw.Rect) bool {
	hit := x.Flagged == id || (x.MouseOver && rect.Contains(x.Cursor))
	if hit && !events.ValidID(x.Flagged) {
		x.Flagged = id
	}
	return hit
}

func (x *Renderer) outline(r draw.Rect, ok bool) {
	if ok && r.Min.X < x.Axis.X+x.Axis.W {
		x.Out.Outline(r.Min, r.Max, x.Theme.Outline)
	}
}

// visible returns the locs starting at the first event of the window.
func (x *Renderer) visible(locs []events.ID) []events.ID {
	return locs[x.first(locs):]
}

// first returns the index of the first loc inside the window.
func (x *Renderer) first(locs []events.ID) int {
	id := x.Store.TsToID(x.Axis.Ts0)
	if !events.ValidID(id) {
		return len(locs)
	}
	return events.FindID(locs, id)
}

func (x *Renderer) width(s string) float64 {
	if x.TextWidth != nil {
		return x.TextWidth(s)
	}
	return 7 * float64(utf8.RuneCountInString(s))
}

// Tooltip returns the tooltip block of the chain completing with id: the comm
// of the chain followed by every event of its graphics context. It also
// returns the ids it lists.
func Tooltip(s *events.Store, id events.ID) (string, []events.ID) {
	e, ok := s.Lookup(id)
	if !ok {
		return "", nil
	}
	ids := s.ContextLocs(e.Context)
	if len(ids) == 0 {
		if c, ok := Resolve(s, id); ok {
			ids = c.Stages()
		} else {
			ids = []events.ID{id}
		}
	}
	var b strings.Builder
	b.WriteString(e.Comm)
	for _, cid := range ids {
		ce := s.Get(cid)
		fmt.Fprintf(&b, "\n  %d %s duration: %sms", ce.ID, ce.Name, timeaxis.FormatMs(ce.Duration, 4))
	}
	return b.String(), ids
}
