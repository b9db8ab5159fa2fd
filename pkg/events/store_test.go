package events

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testEvents() []Event {
	return []Event{
		{ID: 0, Ts: 100, Name: "submit", Category: CategoryStage, IDStart: InvalidID, Comm: "app-1"},
		{ID: 1, Ts: 200, Name: "dispatch", Category: CategoryStage, IDStart: 0, Comm: "app-1"},
		{ID: 2, Ts: 300, Name: "print", Category: CategoryPrint, IDStart: InvalidID, Fields: []Field{{Key: "buf", Value: "frame val=1.5"}}},
		{ID: 3, Ts: 400, Duration: 50, Name: "done", Category: CategoryCompletion, IDStart: 1, Comm: "app-1"},
	}
}

func TestNewStore(t *testing.T) {
	t.Run("ok", func(t *testing.T) {
		s, err := NewStore(testEvents())
		require.NoError(t, err)
		require.Equal(t, 4, s.Len())
		require.Equal(t, int64(100), s.FirstTs())
		require.Equal(t, int64(400), s.LastTs())
	})

	t.Run("bad id", func(t *testing.T) {
		evs := testEvents()
		evs[2].ID = 7
		_, err := NewStore(evs)
		require.ErrorIs(t, err, ErrBadID)
	})

	t.Run("not sorted", func(t *testing.T) {
		evs := testEvents()
		evs[2].Ts = 50
		_, err := NewStore(evs)
		require.ErrorIs(t, err, ErrNotSorted)
	})

	t.Run("forward link", func(t *testing.T) {
		evs := testEvents()
		evs[1].IDStart = 3
		_, err := NewStore(evs)
		require.ErrorIs(t, err, ErrBadLink)
	})

	t.Run("same timestamp link", func(t *testing.T) {
		evs := testEvents()
		evs[1].Ts = 100
		_, err := NewStore(evs)
		require.ErrorIs(t, err, ErrBadLink)
	})
}

func TestStoreIndexes(t *testing.T) {
	s, err := NewStore(testEvents())
	require.NoError(t, err)

	s.AddRow("gfx", RowTimeline, []ID{3})
	s.AddRow("print", RowPrint, []ID{2})
	s.AddContext("gfx_1", 3, 0, 1)

	locs, kind, ok := s.RowLocs("gfx")
	require.True(t, ok)
	assert.Equal(t, RowTimeline, kind)
	assert.Equal(t, []ID{3}, locs)
	assert.Equal(t, []string{"gfx", "print"}, s.RowNames())
	assert.Equal(t, []ID{0, 1, 3}, s.ContextLocs("gfx_1"))

	_, _, ok = s.RowLocs("nope")
	assert.False(t, ok)

	_, ok = s.Lookup(InvalidID)
	assert.False(t, ok)
	_, ok = s.Lookup(4)
	assert.False(t, ok)
	e, ok := s.Lookup(3)
	require.True(t, ok)
	assert.Equal(t, int64(350), e.ExecStart())
}

func TestTsToID(t *testing.T) {
	s, err := NewStore(testEvents())
	require.NoError(t, err)

	assert.Equal(t, ID(0), s.TsToID(0))
	assert.Equal(t, ID(1), s.TsToID(150))
	assert.Equal(t, ID(1), s.TsToID(200))
	assert.Equal(t, ID(3), s.TsToID(1000))

	assert.Equal(t, 1, FindID([]ID{1, 5, 9}, 3))
	assert.True(t, ContainsID([]ID{1, 5, 9}, 5))
	assert.False(t, ContainsID([]ID{1, 5, 9}, 6))
}

func TestFieldFilter(t *testing.T) {
	s, err := NewStore(testEvents())
	require.NoError(t, err)
	f := NewFieldFilter(s)

	locs, err := f.Locs("$comm=app-1")
	require.NoError(t, err)
	assert.Equal(t, []ID{0, 1, 3}, locs)

	locs, err = f.Locs(`$buf =~ "val="`)
	require.NoError(t, err)
	assert.Equal(t, []ID{2}, locs)

	locs, err = f.Locs("( $comm = app-1 ) && ( $name = done )")
	require.NoError(t, err)
	assert.Equal(t, []ID{3}, locs)

	locs, err = f.Locs("$name=nothing")
	require.NoError(t, err)
	assert.Nil(t, locs)

	locs, err = f.Locs(" ")
	require.NoError(t, err)
	assert.Len(t, locs, s.Len())

	_, err = f.Locs("name=done")
	require.ErrorIs(t, err, ErrBadExpr)
}
