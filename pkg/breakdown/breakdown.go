package breakdown

import (
	"github.com/felixge/tracegraph/pkg/events"
)

// ByRow returns a breakdown of the rows of s.
func ByRow(s *events.Store) RowBreakdown {
	breakdown := make(RowBreakdown)
	for _, name := range s.RowNames() {
		locs, kind, _ := s.RowLocs(name)
		summary := RowSummary{Row: name, Kind: kind, Count: int64(len(locs))}
		for _, id := range locs {
			e := s.Get(id)
			if e.IsCompletion() {
				summary.Busy += e.Duration
			}
		}
		if len(locs) > 0 {
			summary.FirstTs = s.Get(locs[0]).ExecStart()
			summary.LastTs = s.Get(locs[len(locs)-1]).Ts
		}
		breakdown[name] = summary
	}
	return breakdown
}

// RowBreakdown breaks down the events of a store by row.
type RowBreakdown map[string]RowSummary

// RowSummary summarizes the events of a row.
type RowSummary struct {
	// Row is the name of the row.
	Row  string
	Kind events.RowKind
	// Count is the number of events in the row.
	Count int64
	// Busy is the sum of the durations of the completion events in the row.
	Busy int64
	// FirstTs and LastTs bound the events of the row. For a completion the
	// start of its execution counts.
	FirstTs, LastTs int64
}

// ByCategory returns a breakdown of all events of s by category.
func ByCategory(s *events.Store) CategoryBreakdown {
	breakdown := make(CategoryBreakdown)
	for i := range s.Events {
		e := &s.Events[i]
		breakdown[e.Category] = CategorySummary{
			Category: e.Category,
			Count:    breakdown[e.Category].Count + 1,
			Duration: breakdown[e.Category].Duration + e.Duration,
		}
	}
	return breakdown
}

// CategoryBreakdown breaks down the events of a store by category.
type CategoryBreakdown map[events.Category]CategorySummary

// CategorySummary summarizes the occurence of a category inside of a trace.
type CategorySummary struct {
	Category events.Category
	// Count is the number of events of this category.
	Count int64
	// Duration is the sum of the event durations, only completions have one.
	Duration int64
}
