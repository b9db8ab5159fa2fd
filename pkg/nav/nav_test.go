package nav

import (
	"testing"

	"github.com/felixge/tracegraph/pkg/draw"
	"github.com/felixge/tracegraph/pkg/timeaxis"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const ms = timeaxis.NsPerMs

func axis(t *testing.T, s *State) timeaxis.Axis {
	a, err := s.Axis(0, 1000)
	require.NoError(t, err)
	return a
}

func TestZoomInverse(t *testing.T) {
	for _, center := range []int64{1_000_000, 3_000_123, 8_999_999, 42} {
		s := New(1_000_000, 8_000_000)
		s.Zoom(center, true)
		assert.Equal(t, int64(4_000_000), s.Length)
		s.Zoom(center, false)
		assert.Equal(t, int64(8_000_000), s.Length)
		assert.InDelta(t, 1_000_000, s.Start, 2, "center=%d", center)
	}
}

func TestZoomKeepsCursor(t *testing.T) {
	s := New(0, 10*ms)
	a := axis(t, s)
	s.Handle(a, Input{Cursor: draw.Point{X: 250}, InGraph: true, Wheel: 1})
	assert.Equal(t, 5*ms, s.Length)
	b := axis(t, s)
	center := a.ScreenXToTs(250)
	assert.InDelta(t, a.ToScreenX(center), b.ToScreenX(center), 0.01)

	s.Handle(b, Input{Cursor: draw.Point{X: 250}, InGraph: true, Wheel: -1})
	assert.Equal(t, 10*ms, s.Length)
	assert.InDelta(t, 0, s.Start, 2)
}

func TestZoomLimits(t *testing.T) {
	s := New(0, 10*ms)
	for i := 0; i < 50; i++ {
		s.ZoomKey(true)
	}
	assert.Equal(t, s.MinLength, s.Length)
	for i := 0; i < 50; i++ {
		s.ZoomKey(false)
	}
	assert.Equal(t, s.MaxLength, s.Length)
}

func TestBookmarks(t *testing.T) {
	s := New(123, 456_789)
	require.ErrorIs(t, s.RestoreBookmark(3), ErrEmptySlot)
	require.NoError(t, s.SaveBookmark(3))

	s.Window = Window{Start: 1, Length: 2 * ms}
	require.NoError(t, s.RestoreBookmark(3))
	assert.Equal(t, Window{Start: 123, Length: 456_789}, s.Window)

	require.ErrorIs(t, s.SaveBookmark(0), ErrSlotRange)
	require.ErrorIs(t, s.SaveBookmark(NumBookmarks+1), ErrSlotRange)
	require.ErrorIs(t, s.RestoreBookmark(10), ErrSlotRange)

	// A zero length slot is not restorable.
	require.NoError(t, s.SetBookmark(4, Window{Start: 99}))
	require.ErrorIs(t, s.RestoreBookmark(4), ErrEmptySlot)
}

func TestMarkers(t *testing.T) {
	s := New(0, 2*ms)
	_, ok := s.Marker(MarkerA)
	assert.False(t, ok)
	assert.False(t, s.JumpToMarker(MarkerA))

	require.NoError(t, s.SetMarker(MarkerA, 10*ms))
	require.ErrorIs(t, s.SetMarker(2, 0), ErrMarkerRange)
	assert.True(t, s.JumpToMarker(MarkerA))
	assert.Equal(t, 9*ms, s.Start)

	_, ok = s.Marker(MarkerB)
	assert.False(t, ok)
	s.ClearMarker(MarkerA)
	_, ok = s.Marker(MarkerA)
	assert.False(t, ok)
}

func TestPanning(t *testing.T) {
	s := New(0, 1_000_000)
	s.Handle(axis(t, s), Input{Cursor: draw.Point{X: 500, Y: 50}, CursorValid: true, InGraph: true, Down: true, Pressed: true})
	require.Equal(t, Panning, s.Mode())

	s.Handle(axis(t, s), Input{Cursor: draw.Point{X: 400, Y: 60}, CursorValid: true, InGraph: true, Down: true})
	assert.Equal(t, int64(100_000), s.Start)
	assert.Equal(t, 10.0, s.PanY)

	// Leaving the graph keeps panning while the button is held.
	s.Handle(axis(t, s), Input{Cursor: draw.Point{X: 300, Y: 60}, CursorValid: true, Down: true})
	assert.Equal(t, int64(200_000), s.Start)

	s.Handle(axis(t, s), Input{Cursor: draw.Point{X: 0, Y: 0}, CursorValid: true, InGraph: true})
	assert.Equal(t, Idle, s.Mode())
	assert.Equal(t, int64(200_000), s.Start)
}

func TestZoomSelecting(t *testing.T) {
	s := New(0, 1_000_000)
	s.Handle(axis(t, s), Input{Cursor: draw.Point{X: 200}, InGraph: true, Down: true, Pressed: true, ZoomMod: true})
	require.Equal(t, ZoomSelecting, s.Mode())

	s.Handle(axis(t, s), Input{Cursor: draw.Point{X: 100}, InGraph: true, Down: true})
	sel, ok := s.Dragging()
	require.True(t, ok)
	assert.Equal(t, Selection{Ts0: 100_000, Ts1: 200_000}, sel)
	// The window doesn't move while selecting.
	assert.Equal(t, Window{Start: 0, Length: 1_000_000}, s.Window)

	s.Handle(axis(t, s), Input{Cursor: draw.Point{X: 600}, InGraph: true})
	assert.Equal(t, Idle, s.Mode())
	assert.Equal(t, Window{Start: 200_000, Length: 400_001}, s.Window)
	_, ok = s.Dragging()
	assert.False(t, ok)

	require.True(t, s.UndoZoom())
	assert.Equal(t, Window{Start: 0, Length: 1_000_000}, s.Window)
	assert.False(t, s.UndoZoom())
}

func TestAreaSelecting(t *testing.T) {
	s := New(0, 1_000_000)
	// The select modifier wins over the zoom modifier.
	s.Handle(axis(t, s), Input{Cursor: draw.Point{X: 700}, InGraph: true, Down: true, Pressed: true, ZoomMod: true, SelectMod: true})
	require.Equal(t, AreaSelecting, s.Mode())
	s.Handle(axis(t, s), Input{Cursor: draw.Point{X: 300}, InGraph: true})
	assert.Equal(t, Idle, s.Mode())
	assert.Equal(t, Window{Start: 0, Length: 1_000_000}, s.Window)

	area, ok := s.Area()
	require.True(t, ok)
	assert.Equal(t, Selection{Ts0: 300_000, Ts1: 700_001}, area)
}

func TestEscapeCancels(t *testing.T) {
	s := New(0, 1_000_000)
	s.Handle(axis(t, s), Input{Cursor: draw.Point{X: 200}, InGraph: true, Down: true, Pressed: true, ZoomMod: true})
	s.Handle(axis(t, s), Input{Cursor: draw.Point{X: 800}, InGraph: true, Down: true, Escape: true})
	assert.Equal(t, Idle, s.Mode())
	s.Handle(axis(t, s), Input{Cursor: draw.Point{X: 900}, InGraph: true})
	assert.Equal(t, Window{Start: 0, Length: 1_000_000}, s.Window)
	assert.False(t, s.UndoZoom())
}

func TestIgnoredInput(t *testing.T) {
	s := New(0, 1_000_000)
	s.Handle(axis(t, s), Input{Cursor: draw.Point{X: 200}, Down: true, Pressed: true})
	assert.Equal(t, Idle, s.Mode())
	s.Handle(axis(t, s), Input{Cursor: draw.Point{X: 200}, Wheel: 1})
	assert.Equal(t, int64(1_000_000), s.Length)

	// Pressed and released within one frame.
	s.Handle(axis(t, s), Input{Cursor: draw.Point{X: 200}, InGraph: true, Pressed: true, ZoomMod: true})
	assert.Equal(t, Idle, s.Mode())
	assert.Equal(t, int64(1_000_000), s.Length)
}

func TestQuickZoom(t *testing.T) {
	s := New(0, 100*ms)
	s.QuickZoom(50 * ms)
	assert.Equal(t, Window{Start: 48*ms + 500_000, Length: QuickZoomLength}, s.Window)
	s.QuickZoom(10 * ms)
	assert.Equal(t, Window{Start: 0, Length: 100 * ms}, s.Window)
}

func TestScroll(t *testing.T) {
	const first, last = 10 * ms, 1000 * ms
	s := New(100*ms, 10*ms)
	s.Scroll(ScrollLeft, first, last, 10)
	assert.Equal(t, 91*ms, s.Start)
	s.Scroll(ScrollRight, first, last, 10)
	assert.Equal(t, 100*ms, s.Start)
	s.Scroll(ScrollHome, first, last, 10)
	assert.Equal(t, 9*ms, s.Start)
	s.Scroll(ScrollEnd, first, last, 10)
	assert.Equal(t, 991*ms, s.Start)
	s.Scroll(ScrollRight, first, last, 10)
	assert.Equal(t, 991*ms, s.Start)

	s.Scroll(ScrollUp, first, last, 10)
	assert.Equal(t, 40.0, s.PanY)
	s.Scroll(ScrollDown, first, last, 10)
	s.Scroll(ScrollDown, first, last, 10)
	assert.Equal(t, -40.0, s.PanY)

	s = New(0, 10*ms)
	s.Scroll(ScrollLeft, first, last, 10)
	assert.Equal(t, -ms, s.Start)
}

func TestClamp(t *testing.T) {
	const first, last = 10 * ms, 20 * ms
	for _, tc := range []struct {
		name   string
		in     Window
		offset int64
		want   Window
	}{
		{"in range", Window{12 * ms, ms}, 0, Window{12 * ms, ms}},
		{"slack", Window{9*ms + 1, ms}, 0, Window{9*ms + 1, ms}},
		{"too early", Window{0, ms}, 0, Window{9 * ms, ms}},
		{"too late", Window{30 * ms, ms}, 0, Window{20 * ms, ms}},
		{"offset", Window{0, ms}, 5 * ms, Window{4 * ms, ms}},
		{"short", Window{12 * ms, 1}, 0, Window{12 * ms, DefaultMinLength}},
		{"long", Window{12 * ms, 1 << 62}, 0, Window{12 * ms, DefaultMaxLength}},
	} {
		t.Run(tc.name, func(t *testing.T) {
			s := New(tc.in.Start, tc.in.Length)
			s.TsOffset = tc.offset
			s.Clamp(first, last)
			assert.Equal(t, tc.want, s.Window)
		})
	}
}

func TestClampPanY(t *testing.T) {
	s := New(0, ms)
	s.PanY = 10
	s.ClampPanY(200, 500)
	assert.Equal(t, 0.0, s.PanY)
	s.PanY = -400
	s.ClampPanY(200, 500)
	assert.Equal(t, -300.0, s.PanY)
	s.PanY = -50
	s.ClampPanY(800, 500)
	assert.Equal(t, 0.0, s.PanY)
}

func TestModeString(t *testing.T) {
	assert.Equal(t, "ZoomSelecting", ZoomSelecting.String())
	assert.Equal(t, "Mode(9)", Mode(9).String())
}
