package print

import (
	"bytes"
	"fmt"
	"regexp"
	"strings"
	"testing"

	"github.com/felixge/tracegraph/pkg/events"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testStore(t *testing.T) *events.Store {
	s, err := events.NewStore([]events.Event{
		{ID: 0, Ts: 100, Name: "go_create", Category: events.CategoryStage, IDStart: events.InvalidID, Comm: "main.worker-1", Context: "g1#0"},
		{ID: 1, Ts: 300, Duration: 100, Name: "go_stop", Category: events.CategoryCompletion, IDStart: 0, Comm: "main.worker-1", Context: "g1#0"},
		{ID: 2, Ts: 350, Name: "log", Category: events.CategoryPrint, IDStart: events.InvalidID, Comm: "main.worker-1", Fields: []events.Field{{Key: "buf", Value: "frame val=1.5"}}},
		{ID: 3, Ts: 400, Name: "go_ready", Category: events.CategoryStage, IDStart: 1, Comm: "main.worker-1", Context: "g1#1"},
		{ID: 4, Ts: 600, Duration: 50, Name: "go_stop", Category: events.CategoryCompletion, IDStart: 3, Comm: "main.worker-1", Context: "g1#1"},
		{ID: 5, Ts: 700, Name: "gc", Category: events.CategoryPoint, IDStart: events.InvalidID},
	})
	require.NoError(t, err)
	s.AddRow("goroutines", events.RowTimeline, []events.ID{1, 4})
	s.AddRow("gc", events.RowPoint, []events.ID{5})
	return s
}

func TestEvents(t *testing.T) {
	s := testStore(t)

	t.Run("Default Filter", func(t *testing.T) {
		out := printEvents(t, s, DefaultEventFilter())
		assert.True(t, containsTextEvent(out, 100, "go_create"))
		assert.True(t, containsTextEvent(out, 350, "log"))
		assert.True(t, containsTextEvent(out, 700, "gc"))
		assert.Contains(t, out, "1 300 go_stop category=CategoryCompletion duration=100 start=0 comm=main.worker-1 context=g1#0\n")

		require.False(t, strings.Contains(out, "buf="))
	})

	t.Run("Time Filter", func(t *testing.T) {
		f := DefaultEventFilter()
		f.MinTs = 300
		f.MaxTs = 400
		out := printEvents(t, s, f)
		assert.False(t, containsTextEvent(out, 100, "go_create"))
		assert.True(t, containsTextEvent(out, 300, "go_stop"))
		assert.True(t, containsTextEvent(out, 400, "go_ready"))
		assert.False(t, containsTextEvent(out, 600, "go_stop"))
	})

	t.Run("Row Filter", func(t *testing.T) {
		f := DefaultEventFilter()
		f.Row = "goroutines"
		out := printEvents(t, s, f)
		assert.Equal(t, 2, strings.Count(out, "\n"))
		assert.True(t, containsTextEvent(out, 300, "go_stop"))
		assert.True(t, containsTextEvent(out, 600, "go_stop"))
	})

	t.Run("Unknown Row", func(t *testing.T) {
		f := DefaultEventFilter()
		f.Row = "nope"
		require.Error(t, Events(s, &bytes.Buffer{}, f))
	})

	t.Run("Comm Filter", func(t *testing.T) {
		f := DefaultEventFilter()
		f.Comm = "main.worker-1"
		out := printEvents(t, s, f)
		assert.False(t, containsTextEvent(out, 700, "gc"))
		assert.Equal(t, 5, strings.Count(out, "\n"))
	})

	t.Run("Verbose", func(t *testing.T) {
		f := DefaultEventFilter()
		f.Verbose = true
		out := printEvents(t, s, f)
		require.True(t, strings.Contains(out, "\tbuf=\"frame val=1.5\"\n"))
	})
}

func TestChains(t *testing.T) {
	s := testStore(t)

	t.Run("Default Filter", func(t *testing.T) {
		out := printChains(t, s, DefaultChainFilter())
		require.Equal(t, `chain 1:
	0 100 go_create
	1 300 go_stop
	user=0 queue=100 exec=100

chain 4:
	1 300 go_stop
	3 400 go_ready
	4 600 go_stop
	user=100 queue=150 exec=50
`, out)
	})

	t.Run("IDs Filter", func(t *testing.T) {
		out := printChains(t, s, ChainFilter{IDs: []events.ID{4, 5}})
		require.False(t, strings.Contains(out, "chain 1:"))
		require.True(t, strings.Contains(out, "chain 4:"))
	})
}

func printEvents(t *testing.T, s *events.Store, filter EventFilter) string {
	t.Helper()
	var out bytes.Buffer
	err := Events(s, &out, filter)
	require.NoError(t, err)
	return out.String()
}

func printChains(t *testing.T, s *events.Store, filter ChainFilter) string {
	t.Helper()
	var out bytes.Buffer
	err := Chains(s, &out, filter)
	require.NoError(t, err)
	return out.String()
}

func containsTextEvent(s string, ts int64, name string) bool {
	pattern := fmt.Sprintf(`(?m)^\d+ %d %s .+`, ts, regexp.QuoteMeta(name))
	ok, err := regexp.MatchString(pattern, s)
	return ok && err == nil
}
