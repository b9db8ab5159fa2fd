package print

import (
	"fmt"
	"io"
	"slices"

	"github.com/felixge/tracegraph/pkg/events"
	"github.com/felixge/tracegraph/pkg/jobchain"
)

// DefaultEventFilter returns a filter that matches all events.
func DefaultEventFilter() EventFilter {
	return EventFilter{MaxTs: -1}
}

// EventFilter is used to filter events.
type EventFilter struct {
	// MinTs prints events with a timestamp >= MinTs. The unit is nanoseconds.
	MinTs int64
	// MaxTS prints events with a timestamp <= MaxTs. The unit is nanoseconds.
	// If MaxTs is -1, there is no upper limit.
	MaxTs int64
	// Only prints events from this row. If Row is empty events from all rows
	// are printed.
	Row string
	// Only prints events of this comm. If Comm is empty events of all comms
	// are printed.
	Comm string
	// Verbose prints the payload fields of all events.
	Verbose bool
}

// Events prints all events of s that match the given filter to w.
func Events(s *events.Store, w io.Writer, filter EventFilter) error {
	var row []events.ID
	if filter.Row != "" {
		locs, _, ok := s.RowLocs(filter.Row)
		if !ok {
			return fmt.Errorf("unknown row: %q", filter.Row)
		}
		row = locs
	}
	for i := range s.Events {
		e := &s.Events[i]
		if !matchMinTs(e, filter.MinTs) ||
			!matchMaxTs(e, filter.MaxTs) ||
			!matchComm(e, filter.Comm) ||
			(filter.Row != "" && !events.ContainsID(row, e.ID)) {
			continue
		}
		printEvent(w, e)
		io.WriteString(w, "\n")
		if filter.Verbose {
			printFields(w, e)
		}
	}
	return nil
}

// matchMinTs returns true if e is >= minTs.
func matchMinTs(e *events.Event, minTs int64) bool {
	return e.Ts >= minTs
}

// matchMaxTs returns true if e is <= maxTs or maxTs is -1.
func matchMaxTs(e *events.Event, maxTs int64) bool {
	return maxTs == -1 || e.Ts <= maxTs
}

// matchComm returns true if e belongs to comm or comm is empty.
func matchComm(e *events.Event, comm string) bool {
	return comm == "" || e.Comm == comm
}

// printEvent prints a single event to w.
func printEvent(w io.Writer, e *events.Event) {
	fmt.Fprintf(w, "%d %d %s category=%s", e.ID, e.Ts, e.Name, e.Category)
	if e.IsCompletion() {
		fmt.Fprintf(w, " duration=%d", e.Duration)
	}
	if events.ValidID(e.IDStart) {
		fmt.Fprintf(w, " start=%d", e.IDStart)
	}
	if e.Comm != "" {
		io.WriteString(w, " comm=")
		io.WriteString(w, e.Comm)
	}
	if e.Context != "" {
		io.WriteString(w, " context=")
		io.WriteString(w, e.Context)
	}
}

// printFields prints the payload of e to w.
func printFields(w io.Writer, e *events.Event) {
	for _, f := range e.Fields {
		fmt.Fprintf(w, "\t%s=%q\n", f.Key, f.Value)
	}
}

// DefaultChainFilter returns a filter that matches all chains.
func DefaultChainFilter() ChainFilter {
	return ChainFilter{}
}

// ChainFilter is used to filter job chains.
type ChainFilter struct {
	// IDs are the completion event ids to print. If IDs is empty, all chains
	// are printed.
	IDs []events.ID
}

// Chains prints the stages of all job chains of s that match the given
// filter to w.
func Chains(s *events.Store, w io.Writer, filter ChainFilter) error {
	n := 0
	for i := range s.Events {
		id := s.Events[i].ID
		if !matchIDs(id, filter.IDs) {
			continue
		}
		c, ok := jobchain.Resolve(s, id)
		if !ok {
			continue
		}
		if n > 0 {
			io.WriteString(w, "\n")
		}
		n++
		printChain(w, s, c)
	}
	return nil
}

// matchIDs returns true if id is contained in ids or ids is empty.
func matchIDs(id events.ID, ids []events.ID) bool {
	return len(ids) == 0 || slices.Contains(ids, id)
}

// printChain prints a single chain to w.
func printChain(w io.Writer, s *events.Store, c jobchain.Chain) {
	fmt.Fprintf(w, "chain %d:\n", c.Complete)
	for _, id := range c.Stages() {
		e := s.Get(id)
		fmt.Fprintf(w, "\t%d %d %s\n", e.ID, e.Ts, e.Name)
	}
	fmt.Fprintf(w, "\tuser=%d queue=%d exec=%d\n", c.UserWait(), c.QueueWait(), c.Exec())
}
