package hover

import (
	"math/rand"
	"sort"
	"testing"

	"github.com/felixge/tracegraph/pkg/events"
	"github.com/felixge/tracegraph/pkg/timeaxis"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testAxis maps 100_000ns to 1000px, a pixel is 100ns.
func testAxis(t *testing.T) timeaxis.Axis {
	a, err := timeaxis.New(0, 1000, 0, 99_999)
	require.NoError(t, err)
	return a
}

func TestThreshold(t *testing.T) {
	tr := New(testAxis(t), 500)
	assert.False(t, tr.Add(510, 1))
	assert.False(t, tr.Add(492, 2))
	assert.True(t, tr.Add(507, 3))
	assert.True(t, tr.Add(493, 4))
	require.Equal(t, 2, tr.Len())

	// Equal distances keep insertion order.
	c := tr.Candidates()
	assert.Equal(t, Candidate{Before: false, Dist: 700, ID: 3}, c[0])
	assert.Equal(t, Candidate{Before: true, Dist: 700, ID: 4}, c[1])
}

func TestBoundedAndSorted(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	tr := New(testAxis(t), 500)
	for i := 0; i < 500; i++ {
		tr.Add(490+rng.Float64()*20, events.ID(i))
		require.LessOrEqual(t, tr.Len(), MaxCandidates)
		c := tr.Candidates()
		require.True(t, sort.SliceIsSorted(c, func(i, j int) bool { return c[i].Dist < c[j].Dist }))
	}
	require.Equal(t, MaxCandidates, tr.Len())
}

func TestEvictsWorst(t *testing.T) {
	tr := New(testAxis(t), 500)
	for i, x := range []float64{506, 505, 504, 503, 502, 501} {
		require.True(t, tr.Add(x, events.ID(i)))
	}
	// Worse than everything: rejected.
	assert.False(t, tr.Add(507, 10))
	// Better than everything: inserted, 506 is dropped.
	assert.True(t, tr.Add(500, 11))

	var ids []events.ID
	for _, c := range tr.Candidates() {
		ids = append(ids, c.ID)
	}
	assert.Equal(t, []events.ID{11, 5, 4, 3, 2, 1}, ids)
	assert.Equal(t, []events.ID{1, 2, 3, 4, 5, 11}, tr.IDs())

	p, ok := tr.Primary()
	require.True(t, ok)
	assert.Equal(t, events.ID(11), p.ID)
}

func TestDeterministicTop(t *testing.T) {
	xs := []float64{100, 230, 231, 232, 400, 401, 777}
	run := func(cursor float64) events.ID {
		tr := New(testAxis(t), cursor)
		for i, x := range xs {
			tr.Add(x, events.ID(i))
		}
		p, _ := tr.Primary()
		return p.ID
	}
	for _, cursor := range []float64{231.2, 400.4, 100} {
		first := run(cursor)
		for i := 0; i < 10; i++ {
			require.Equal(t, first, run(cursor))
		}
	}
	assert.Equal(t, events.ID(2), run(231.2))
	assert.Equal(t, events.ID(4), run(400.4))
	assert.Equal(t, events.ID(0), run(100))

	_, ok := New(testAxis(t), 600).Primary()
	assert.False(t, ok)
}

func TestResolutionIndependentRanking(t *testing.T) {
	// With a window 10x longer, pixel distances are the same but time
	// distances scale with it.
	a, err := timeaxis.New(0, 1000, 0, 999_999)
	require.NoError(t, err)
	tr := New(a, 500)
	tr.Add(503, 1)
	c := tr.Candidates()
	require.Len(t, c, 1)
	assert.Equal(t, int64(3000), c[0].Dist)
}
