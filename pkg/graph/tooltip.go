package graph

import (
	"fmt"
	"strings"

	"github.com/felixge/tracegraph/pkg/events"
	"github.com/felixge/tracegraph/pkg/jobchain"
	"github.com/felixge/tracegraph/pkg/nav"
	"github.com/felixge/tracegraph/pkg/plot"
	"github.com/felixge/tracegraph/pkg/timeaxis"
)

var markerNames = [...]string{nav.MarkerA: "A", nav.MarkerB: "B"}

// finish turns the hover candidates and the flagged chain into the tooltip
// and the event list outputs, and remembers them for the next frame.
func (f *frame) finish() {
	v, out := f.v, f.out
	out.Flagged = f.chains.Flagged
	v.hovered = events.InvalidID
	v.mouseValid = f.inGraph
	if !f.inGraph {
		return
	}
	mouseTs := f.axis.ScreenXToTs(f.in.Input.Cursor.X)
	v.mouseTs = mouseTs

	var b strings.Builder
	b.WriteString("Time: " + timeaxis.FormatMs(mouseTs-v.Nav.TsOffset, 6) + "ms")
	for i, name := range markerNames {
		if ts, ok := v.Nav.Marker(i); ok {
			fmt.Fprintf(&b, "\nMarker %s: %sms", name, timeaxis.FormatMs(ts-mouseTs, 2))
		}
	}

	if f.hv.Len() > 0 {
		b.WriteString("\n")
		for _, c := range f.hv.ByID() {
			e := v.Store.Get(c.ID)
			sign := ' '
			if c.Before {
				sign = '-'
			}
			fmt.Fprintf(&b, "\n%d %c%sms", c.ID, sign, timeaxis.FormatMs(c.Dist, 4))
			if e.IsPrint() {
				b.WriteString(" " + e.Field(plot.PayloadField))
			} else {
				b.WriteString(" " + e.Name)
			}
		}
		p, _ := f.hv.Primary()
		out.Hovered = p.ID
		out.Highlight = f.hv.IDs()
		out.Candidates = append(out.Candidates, f.hv.Candidates()...)
		if v.Options.SyncEventList {
			out.Goto = out.Highlight[0]
		}
		v.hovered = out.Hovered
	}

	if events.ValidID(out.Flagged) {
		text, ids := jobchain.Tooltip(v.Store, out.Flagged)
		b.WriteString("\n\n" + text)
		if len(out.Highlight) == 0 {
			out.Highlight = ids
		}
		if v.Options.SyncEventList && !events.ValidID(out.Goto) && len(ids) > 0 {
			out.Goto = ids[0]
		}
	}

	if v.Nav.Mode() == nav.Idle {
		out.Tooltip = b.String()
	}
}
