package config

import (
	"bytes"
	"io"
	"strings"
	"testing"

	"github.com/felixge/tracegraph/pkg/events"
	"github.com/felixge/tracegraph/pkg/graph"
	"github.com/felixge/tracegraph/pkg/layout"
	"github.com/felixge/tracegraph/pkg/nav"
	"github.com/gkampitakis/go-snaps/snaps"
	"github.com/hashicorp/go-multierror"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testYAML = `
rows:
  - name: print
    lines: 6
  - name: sched
    hidden: true
  - name: plot:frame
graph_height: 300
only_filtered: true
sync_event_list: true
plots:
  - name: frame
    filter: $name = print
    scan: val=%f
bookmarks:
  - slot: 2
    start: 1000
    length: 5000
`

func testLogger() logrus.FieldLogger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func testView(t *testing.T) *graph.View {
	s, err := events.NewStore([]events.Event{
		{ID: 0, Ts: 100, Name: "tick", Category: events.CategoryPoint, IDStart: events.InvalidID},
		{ID: 1, Ts: 200, Name: "print", Category: events.CategoryPrint, IDStart: events.InvalidID, Fields: []events.Field{{Key: "buf", Value: "frame val=1.5"}}},
		{ID: 2, Ts: 300, Name: "print", Category: events.CategoryPrint, IDStart: events.InvalidID, Fields: []events.Field{{Key: "buf", Value: "frame val=3"}}},
	})
	require.NoError(t, err)
	s.AddRow("sched", events.RowPoint, []events.ID{0})
	s.AddRow("print", events.RowPrint, []events.ID{1, 2})
	s.AddRow("gc", events.RowPoint, nil)
	return graph.NewView(s, events.NewFieldFilter(s))
}

func TestDecode(t *testing.T) {
	v, err := Decode(strings.NewReader(testYAML))
	require.NoError(t, err)
	assert.Equal(t, []Row{
		{Name: "print", Lines: 6},
		{Name: "sched", Hidden: true},
		{Name: "plot:frame"},
	}, v.Rows)
	assert.Equal(t, 300.0, v.GraphHeight)
	assert.True(t, v.OnlyFiltered)
	assert.True(t, v.SyncEventList)
	// Missing keys keep their defaults.
	assert.True(t, v.StageLabels)
	assert.True(t, v.PrintLabels)
	assert.False(t, v.StageTicks)
	assert.Equal(t, []Plot{{Name: "frame", Filter: "$name = print", Scan: "val=%f"}}, v.Plots)
	assert.Equal(t, []Bookmark{{Slot: 2, Start: 1000, Length: 5000}}, v.Bookmarks)
}

func TestDecodeEmpty(t *testing.T) {
	v, err := Decode(strings.NewReader(""))
	require.NoError(t, err)
	assert.Equal(t, Default(), v)
}

func TestDecodeUnknownKey(t *testing.T) {
	_, err := Decode(strings.NewReader("graph_hieght: 10\n"))
	require.Error(t, err)
}

func TestValidate(t *testing.T) {
	v := &View{
		Rows: []Row{
			{Name: "a", Lines: 1},
			{Name: "a"},
			{Name: ""},
			{Name: "b", Lines: 50},
		},
		GraphHeight: -1,
		Plots: []Plot{
			{Name: "p", Scan: "x=%f"},
			{Name: "p", Scan: ""},
		},
		Bookmarks: []Bookmark{
			{Slot: 0, Length: 1},
			{Slot: 1, Length: 0},
			{Slot: 9, Length: 1},
		},
	}
	err := v.Validate()
	require.ErrorIs(t, err, ErrInvalid)
	var merr *multierror.Error
	require.ErrorAs(t, err, &merr)
	var msgs []string
	for _, e := range merr.Errors {
		msgs = append(msgs, strings.TrimPrefix(e.Error(), ErrInvalid.Error()+": "))
	}
	assert.Equal(t, []string{
		"row \"a\": lines must be between 2 and 50, got 1",
		"row \"a\" is listed twice",
		"row 2 has no name",
		"graph_height must not be negative",
		"plot \"p\" is defined twice",
		"plot \"p\": plot pattern has no prefix or placeholder",
		"bookmark slot 0: bookmark slot out of range",
		"bookmark slot 1: length must be positive",
	}, msgs)

	assert.NoError(t, Default().Validate())
}

func TestApply(t *testing.T) {
	v, err := Decode(strings.NewReader(testYAML))
	require.NoError(t, err)
	g := testView(t)
	require.NoError(t, v.Apply(g, testLogger()))

	assert.Equal(t, []layout.Descriptor{
		{Name: "print"},
		{Name: "sched", Hidden: true},
		{Name: "plot:frame"},
		{Name: "gc", Hidden: true},
	}, g.Rows)
	assert.Equal(t, map[string]int{"print": 6}, g.Sizes)
	assert.Equal(t, 300.0, g.HeightPref)
	assert.Equal(t, graph.Options{
		OnlyFiltered:  true,
		StageLabels:   true,
		PrintLabels:   true,
		SyncEventList: true,
	}, g.Options)

	l := g.Layout()
	require.Len(t, l.Rows, 2)
	assert.Equal(t, "print", l.Rows[0].Name)
	assert.Equal(t, 6, l.Rows[0].Lines)
	assert.Equal(t, layout.StrategyPlot, l.Rows[1].Strategy)
	assert.Equal(t, []events.ID{1, 2}, l.Rows[1].Locs)

	w, err := g.Nav.Bookmark(2)
	require.NoError(t, err)
	assert.Equal(t, nav.Window{Start: 1000, Length: 5000}, w)
}

func TestApplyPlotsOnly(t *testing.T) {
	v := Default()
	v.Plots = []Plot{{Name: "frame", Scan: "val=%f"}}
	g := testView(t)
	require.NoError(t, v.Apply(g, testLogger()))
	require.NoError(t, v.Apply(g, testLogger()))

	var names []string
	for _, r := range g.Rows {
		names = append(names, r.Name)
	}
	assert.Equal(t, []string{"sched", "print", "gc", "plot:frame"}, names)
}

func TestApplyInvalid(t *testing.T) {
	v := Default()
	v.Bookmarks = []Bookmark{{Slot: 10, Length: 1}}
	require.ErrorIs(t, v.Apply(testView(t), testLogger()), ErrInvalid)
}

func TestRoundTrip(t *testing.T) {
	v, err := Decode(strings.NewReader(testYAML))
	require.NoError(t, err)
	g := testView(t)
	require.NoError(t, v.Apply(g, testLogger()))

	saved := FromView(g)
	var buf bytes.Buffer
	require.NoError(t, saved.Encode(&buf))
	snaps.MatchSnapshot(t, buf.String())

	loaded, err := Decode(&buf)
	require.NoError(t, err)
	assert.Equal(t, saved, loaded)
	assert.Equal(t, v.Plots, loaded.Plots)
	assert.Equal(t, v.Bookmarks, loaded.Bookmarks)
}
