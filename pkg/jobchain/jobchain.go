// Package jobchain recovers the submission, dispatch and execution stages of
// a job from its completion event and renders them as bars.
package jobchain

import (
	"github.com/felixge/tracegraph/pkg/events"
	"github.com/felixge/tracegraph/pkg/timeaxis"
)

// Source looks up events by id.
type Source interface {
	Lookup(id events.ID) (*events.Event, bool)
}

// Chain is a resolved job: Submit -> Dispatch -> execution -> Complete.
type Chain struct {
	Submit, Dispatch, Complete events.ID
	// Degenerate is true if the dispatch has no known submitter, in which
	// case Submit == Dispatch.
	Degenerate bool

	SubmitTs, DispatchTs, ExecTs, EndTs int64
}

// Resolve walks back from the completion event id. It returns false if id is
// not a completion or its dispatch can't be found.
func Resolve(src Source, id events.ID) (Chain, bool) {
	c, ok := src.Lookup(id)
	if !ok || !c.IsCompletion() || !events.ValidID(c.IDStart) {
		return Chain{}, false
	}
	d, ok := src.Lookup(c.IDStart)
	if !ok {
		return Chain{}, false
	}
	chain := Chain{
		Dispatch:   d.ID,
		Complete:   c.ID,
		DispatchTs: d.Ts,
		ExecTs:     c.ExecStart(),
		EndTs:      c.Ts,
	}
	if s, ok := src.Lookup(d.IDStart); ok {
		chain.Submit, chain.SubmitTs = s.ID, s.Ts
	} else {
		chain.Submit, chain.SubmitTs = d.ID, d.Ts
		chain.Degenerate = true
	}
	return chain, true
}

// Stages returns the distinct event ids of the chain in stage order.
func (c Chain) Stages() []events.ID {
	if c.Degenerate {
		return []events.ID{c.Dispatch, c.Complete}
	}
	return []events.ID{c.Submit, c.Dispatch, c.Complete}
}

// UserWait returns the time between submission and dispatch.
func (c Chain) UserWait() int64 { return c.DispatchTs - c.SubmitTs }

// QueueWait returns the time between dispatch and execution start.
func (c Chain) QueueWait() int64 { return c.ExecTs - c.DispatchTs }

// Exec returns the execution time.
func (c Chain) Exec() int64 { return c.EndTs - c.ExecTs }

// Geometry returns the screen x coordinates of the chain's stage boundaries.
func (c Chain) Geometry(a timeaxis.Axis) Geometry {
	return Geometry{
		XUserStart:  a.ToScreenX(c.SubmitTs),
		XQueueStart: a.ToScreenX(c.DispatchTs),
		XExecStart:  a.ToScreenX(c.ExecTs),
		XEnd:        a.ToScreenX(c.EndTs),
	}
}

// Stage is a segment type of a chain bar.
type Stage uint8

const (
	StageUser Stage = iota
	StageQueue
	StageExec
)

func (s Stage) String() string {
	switch s {
	case StageUser:
		return "user"
	case StageQueue:
		return "queue"
	case StageExec:
		return "exec"
	}
	return "unknown"
}

// Geometry holds the x coordinates of a chain bar.
type Geometry struct {
	XUserStart, XQueueStart, XExecStart, XEnd float64
}

// Segment is a drawable part of a chain bar.
type Segment struct {
	Stage  Stage
	X0, X1 float64
}

// Segments returns the user, queue and exec segments, skipping the ones with
// zero width.
func (g Geometry) Segments() []Segment {
	all := [...]Segment{
		{StageUser, g.XUserStart, g.XQueueStart},
		{StageQueue, g.XQueueStart, g.XExecStart},
		{StageExec, g.XExecStart, g.XEnd},
	}
	segs := make([]Segment, 0, len(all))
	for _, s := range all {
		if s.X1 != s.X0 {
			segs = append(segs, s)
		}
	}
	return segs
}

// Completion returns the completion event of the chain the timeline event id
// belongs to, using the graphics context index.
func Completion(s *events.Store, id events.ID) (events.ID, bool) {
	e, ok := s.Lookup(id)
	if !ok || !e.IsTimeline() {
		return events.InvalidID, false
	}
	if e.IsCompletion() {
		return e.ID, true
	}
	locs := s.ContextLocs(e.Context)
	if len(locs) == 0 {
		return events.InvalidID, false
	}
	last := locs[len(locs)-1]
	if c, ok := s.Lookup(last); !ok || !c.IsCompletion() {
		return events.InvalidID, false
	}
	return last, true
}
