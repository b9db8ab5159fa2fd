// Package events holds the immutable event array of a trace view and the
// indexes that group its events into rows and graphics contexts.
package events

import (
	"errors"
	"fmt"
	"sort"
)

var (
	// ErrNotSorted is returned when event timestamps decrease.
	ErrNotSorted = errors.New("events not sorted by timestamp")
	// ErrBadID is returned when an event id doesn't match its index.
	ErrBadID = errors.New("event id does not match its index")
	// ErrBadLink is returned when an IDStart does not refer to an earlier event.
	ErrBadLink = errors.New("event start id does not refer to an earlier event")
)

//go:generate stringer -type=RowKind

// RowKind is the type of a row, it decides how the row is rendered.
type RowKind uint8

const (
	RowPoint      RowKind = iota // generic filtered events
	RowComm                      // all events of a process
	RowPrint                     // free text print events
	RowPlot                      // scalar series extracted from events
	RowTimeline                  // multi-stage job chains
	RowTimelineHW                // hardware execution bars
)

// Row is the index entry of a named row.
type Row struct {
	Kind RowKind
	// Locs are the ids of the events in the row, sorted ascending.
	Locs []ID
}

// Store is the read-only, index-stable event array of a trace along with its
// row and context indexes. A Store is replaced wholesale when a new trace is
// loaded.
type Store struct {
	Events []Event

	rows     map[string]*Row
	order    []string
	contexts map[string][]ID
}

// NewStore returns a store for events. Every event must have ID equal to its
// index, timestamps must not decrease and IDStart must refer to an event with
// a strictly earlier timestamp.
func NewStore(events []Event) (*Store, error) {
	for i := range events {
		e := &events[i]
		if e.ID != ID(i) {
			return nil, fmt.Errorf("event %d: %w (id=%d)", i, ErrBadID, e.ID)
		} else if i > 0 && e.Ts < events[i-1].Ts {
			return nil, fmt.Errorf("event %d: %w", i, ErrNotSorted)
		}
		if ValidID(e.IDStart) {
			if int(e.IDStart) >= i || events[e.IDStart].Ts >= e.Ts {
				return nil, fmt.Errorf("event %d: %w (id_start=%d)", i, ErrBadLink, e.IDStart)
			}
		}
	}
	return &Store{
		Events:   events,
		rows:     map[string]*Row{},
		contexts: map[string][]ID{},
	}, nil
}

// Len returns the number of events.
func (s *Store) Len() int {
	return len(s.Events)
}

// Get returns the event with the given id. It panics if id is out of range.
func (s *Store) Get(id ID) *Event {
	return &s.Events[id]
}

// Lookup returns the event with the given id or false if it doesn't exist.
func (s *Store) Lookup(id ID) (*Event, bool) {
	if !ValidID(id) || int(id) >= len(s.Events) {
		return nil, false
	}
	return &s.Events[id], true
}

// FirstTs returns the timestamp of the first event or 0.
func (s *Store) FirstTs() int64 {
	if len(s.Events) == 0 {
		return 0
	}
	return s.Events[0].Ts
}

// LastTs returns the timestamp of the last event or 0.
func (s *Store) LastTs() int64 {
	if len(s.Events) == 0 {
		return 0
	}
	return s.Events[len(s.Events)-1].Ts
}

// AddRow adds or replaces the row called name. locs gets sorted.
func (s *Store) AddRow(name string, kind RowKind, locs []ID) {
	sort.Slice(locs, func(i, j int) bool { return locs[i] < locs[j] })
	if _, ok := s.rows[name]; !ok {
		s.order = append(s.order, name)
	}
	s.rows[name] = &Row{Kind: kind, Locs: locs}
}

// Row returns the row called name.
func (s *Store) Row(name string) (*Row, bool) {
	r, ok := s.rows[name]
	return r, ok
}

// RowLocs returns the event ids and kind of the row called name.
func (s *Store) RowLocs(name string) ([]ID, RowKind, bool) {
	r, ok := s.rows[name]
	if !ok {
		return nil, RowPoint, false
	}
	return r.Locs, r.Kind, true
}

// RowNames returns the names of all rows in the order they were added.
func (s *Store) RowNames() []string {
	return append([]string(nil), s.order...)
}

// AddContext adds ids to the graphics context key.
func (s *Store) AddContext(key string, ids ...ID) {
	locs := append(s.contexts[key], ids...)
	sort.Slice(locs, func(i, j int) bool { return locs[i] < locs[j] })
	s.contexts[key] = locs
}

// ContextLocs returns the sorted event ids of the graphics context key.
func (s *Store) ContextLocs(key string) []ID {
	return s.contexts[key]
}

// TsToID returns the id of the first event with a timestamp >= ts. If all
// events are before ts, the id of the last event is returned.
func (s *Store) TsToID(ts int64) ID {
	if len(s.Events) == 0 {
		return InvalidID
	}
	i := sort.Search(len(s.Events), func(i int) bool { return s.Events[i].Ts >= ts })
	if i == len(s.Events) {
		i--
	}
	return ID(i)
}

// FindID returns the index of the first element in locs that is >= id.
func FindID(locs []ID, id ID) int {
	return sort.Search(len(locs), func(i int) bool { return locs[i] >= id })
}

// ContainsID returns true if the sorted locs contains id.
func ContainsID(locs []ID, id ID) bool {
	i := FindID(locs, id)
	return i < len(locs) && locs[i] == id
}
