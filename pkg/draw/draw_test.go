package draw

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestListRect(t *testing.T) {
	var l List

	// Wide rectangles stay rectangles.
	l.Rect(10, 5, 0, 20, RGBA(255, 0, 0, 255))
	require.Equal(t, KindRect, l.Prims[0].Kind)

	// Narrow ones become lines.
	l.Rect(10, 1, 0, 20, RGBA(255, 0, 0, 255))
	require.Equal(t, KindLine, l.Prims[1].Kind)

	// Negative widths get flipped.
	l.Rect(10, -4, 0, 20, RGBA(255, 0, 0, 255))
	require.Equal(t, 6.0, l.Prims[2].X)
	require.Equal(t, 4.0, l.Prims[2].W)

	require.Equal(t, 2, l.Count(KindRect))
	require.Equal(t, 3, l.Len())
}

func TestColor(t *testing.T) {
	c := RGBA(0x12, 0x34, 0x56, 0xff)
	r, g, b, a := c.Channels()
	require.Equal(t, []uint8{0x12, 0x34, 0x56, 0xff}, []uint8{r, g, b, a})
	require.Equal(t, "#123456", c.Hex())
	require.Equal(t, "#edcba9", c.Complement().Hex())
	_, _, _, a = c.WithAlpha(0x80).Channels()
	require.Equal(t, uint8(0x80), a)
}

func TestRectContains(t *testing.T) {
	r := NewRect(0, 0, 10, 10)
	require.True(t, r.Contains(Point{10, 10}))
	require.False(t, r.Contains(Point{10.5, 0}))
	require.True(t, Rect{}.Empty())
	require.False(t, r.Empty())
}
