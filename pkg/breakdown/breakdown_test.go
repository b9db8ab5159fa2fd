package breakdown

import (
	"testing"

	"github.com/felixge/tracegraph/pkg/events"
	"github.com/stretchr/testify/require"
)

func testStore(t *testing.T) *events.Store {
	s, err := events.NewStore([]events.Event{
		{ID: 0, Ts: 100, Name: "ready", Category: events.CategoryStage, IDStart: events.InvalidID},
		{ID: 1, Ts: 300, Duration: 150, Name: "stop", Category: events.CategoryCompletion, IDStart: 0},
		{ID: 2, Ts: 350, Name: "log", Category: events.CategoryPrint, IDStart: events.InvalidID},
		{ID: 3, Ts: 400, Name: "ready", Category: events.CategoryStage, IDStart: 1},
		{ID: 4, Ts: 600, Duration: 50, Name: "stop", Category: events.CategoryCompletion, IDStart: 3},
	})
	require.NoError(t, err)
	s.AddRow("goroutines", events.RowTimeline, []events.ID{1, 4})
	s.AddRow("print", events.RowPrint, []events.ID{2})
	s.AddRow("gc", events.RowPoint, nil)
	return s
}

func TestByRow(t *testing.T) {
	breakdown := ByRow(testStore(t))

	require.Equal(t, 3, len(breakdown))
	require.Equal(t, RowSummary{
		Row:     "goroutines",
		Kind:    events.RowTimeline,
		Count:   2,
		Busy:    200,
		FirstTs: 150,
		LastTs:  600,
	}, breakdown["goroutines"])
	require.Equal(t, RowSummary{Row: "print", Kind: events.RowPrint, Count: 1, FirstTs: 350, LastTs: 350}, breakdown["print"])
	require.Equal(t, RowSummary{Row: "gc", Kind: events.RowPoint}, breakdown["gc"])
}

func TestByCategory(t *testing.T) {
	breakdown := ByCategory(testStore(t))

	require.Equal(t, 3, len(breakdown))
	// Assert the category counts add up to the number of events.
	var count int64
	for _, summary := range breakdown {
		count += summary.Count
	}
	require.Equal(t, int64(5), count)
	require.Equal(t, CategorySummary{Category: events.CategoryCompletion, Count: 2, Duration: 200}, breakdown[events.CategoryCompletion])
	require.Equal(t, CategorySummary{Category: events.CategoryStage, Count: 2}, breakdown[events.CategoryStage])
}
