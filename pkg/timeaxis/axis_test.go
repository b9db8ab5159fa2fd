package timeaxis

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAxisScenario(t *testing.T) {
	a, err := New(0, 1000, 1_000_000, 1_000_000)
	require.NoError(t, err)
	assert.InDelta(t, 500.0, a.ToX(1_500_000), 0.001)
	assert.InDelta(t, 0.0, a.ToX(1_000_000), 0.001)
	assert.Equal(t, int64(1_000_000), a.Length())
}

func TestAxisRoundTrip(t *testing.T) {
	for _, tc := range []struct {
		name          string
		x, w          float64
		start, length int64
	}{
		{"1ms", 0, 1000, 1_000_000, 1_000_000},
		{"offset", 250, 1920, 5 * NsPerSec, 3 * NsPerMs},
		{"long", 0, 800, 0, 90 * NsPerSec},
		{"min", 10, 333, 42, MinLength},
	} {
		t.Run(tc.name, func(t *testing.T) {
			a, err := New(tc.x, tc.w, tc.start, tc.length)
			require.NoError(t, err)
			step := tc.length / 997
			for ts := a.Ts0; ts < a.Ts1; ts += step {
				got := a.ScreenXToTs(a.ToScreenX(ts))
				assert.InDelta(t, ts, got, a.NsPerPixel(), "ts=%d", ts)
				assert.InDelta(t, ts, a.ToTs(a.ToX(ts)), a.NsPerPixel(), "ts=%d", ts)
			}
		})
	}
}

func TestAxisDegenerate(t *testing.T) {
	_, err := New(0, 0, 0, NsPerMs)
	require.ErrorIs(t, err, ErrZeroWidth)

	_, err = New(0, -5, 0, NsPerMs)
	require.ErrorIs(t, err, ErrZeroWidth)

	a, err := New(0, 100, 0, 0)
	require.NoError(t, err)
	assert.Equal(t, MinLength, a.Length())
}

func TestDxToTs(t *testing.T) {
	a, err := New(300, 1000, 77, 999_999)
	require.NoError(t, err)
	// tsdx is length+1, so a full width is 1ms.
	assert.Equal(t, int64(1_000_000), a.DxToTs(1000))
	assert.Equal(t, int64(500_000), a.DxToTs(500))
	assert.Equal(t, int64(-8_000), a.DxToTs(-8))

	// The extra ns survives rounding on a narrow axis.
	a, err = New(0, 3, 0, 60_000)
	require.NoError(t, err)
	assert.Equal(t, int64(60_001), a.DxToTs(3))
	assert.Equal(t, int64(20_000), a.DxToTs(1))
}

func TestTicks(t *testing.T) {
	t.Run("ms ticks", func(t *testing.T) {
		a, err := New(0, 1000, 0, 10*NsPerMs)
		require.NoError(t, err)
		var major int
		for _, tick := range a.Ticks() {
			if tick.Major {
				major++
			}
		}
		// 0ms..10ms, the last one sits right on the edge.
		assert.Equal(t, 11, major)
	})

	t.Run("sec ticks", func(t *testing.T) {
		a, err := New(0, 100, 0, 10*NsPerSec)
		require.NoError(t, err)
		ticks := a.Ticks()
		require.NotEmpty(t, ticks)
		for _, tick := range ticks {
			assert.True(t, tick.Major)
		}
	})

	t.Run("too dense", func(t *testing.T) {
		a, err := New(0, 100, 0, 1000*NsPerSec)
		require.NoError(t, err)
		assert.Nil(t, a.Ticks())
	})
}

func TestFormatMs(t *testing.T) {
	assert.Equal(t, "1.500", FormatMs(1_500_000, 3))
	assert.Equal(t, "-0.25", FormatMs(-250_000, 2))
	assert.Equal(t, "3", FormatMs(3*NsPerMs, 0))
}
