// Package nav implements the pan, zoom, marker and bookmark state of a trace
// view and the mouse state machine that drives it.
package nav

import (
	"errors"
	"fmt"
	"math"

	"github.com/felixge/tracegraph/pkg/draw"
	"github.com/felixge/tracegraph/pkg/timeaxis"
)

const (
	DefaultMinLength = timeaxis.MinLength
	DefaultMaxLength = 5 * 60 * timeaxis.NsPerSec

	// NumBookmarks is the number of bookmark slots, numbered 1 to 9.
	NumBookmarks = 9
	// QuickZoomLength is the window length QuickZoom zooms to.
	QuickZoomLength = 3 * timeaxis.NsPerMs

	// slack is how far the window may start before the first event.
	slack = timeaxis.NsPerMs
)

// Markers.
const (
	MarkerA = iota
	MarkerB
	numMarkers
)

var (
	// ErrSlotRange is returned for bookmark slots outside [1, NumBookmarks].
	ErrSlotRange = errors.New("bookmark slot out of range")
	// ErrEmptySlot is returned when restoring a bookmark that was never saved.
	ErrEmptySlot = errors.New("bookmark slot is empty")
	// ErrMarkerRange is returned for unknown markers.
	ErrMarkerRange = errors.New("unknown marker")
)

//go:generate stringer -type=Mode

// Mode is the mouse interaction mode.
type Mode uint8

const (
	Idle Mode = iota
	Panning
	ZoomSelecting
	AreaSelecting
)

// Input is the mouse and keyboard state of a frame.
type Input struct {
	Cursor draw.Point
	// CursorValid is false if the cursor position is unknown.
	CursorValid bool
	// InGraph is true if the cursor is over the graph.
	InGraph bool
	// Down is true while the primary button is held, Pressed only in the
	// frame it went down.
	Down    bool
	Pressed bool
	// ZoomMod and SelectMod are the modifiers held. SelectMod takes
	// precedence.
	ZoomMod   bool
	SelectMod bool
	// Wheel is the wheel movement, positive values zoom in.
	Wheel  float64
	Escape bool
}

// Window is a (start, length) pair. Start is relative to the view's time
// offset.
type Window struct {
	Start, Length int64
}

// Valid reports whether w was ever set.
func (w Window) Valid() bool {
	return w.Length != 0
}

// Selection is a time interval picked with the mouse.
type Selection struct {
	Ts0, Ts1 int64
}

// State is the navigation state of a view.
type State struct {
	Window
	// TsOffset is added to Start to get absolute timestamps.
	TsOffset int64
	// PanY is the vertical pan offset in pixels, zero or negative.
	PanY float64

	MinLength, MaxLength int64

	markers   [numMarkers]int64
	hasMarker [numMarkers]bool
	bookmarks [NumBookmarks]Window
	undo      Window
	mode      Mode
	capture   draw.Point
	selection Selection
	selecting bool
	area      Selection
	hasArea   bool
}

// New returns the state for the window [start, start+length).
func New(start, length int64) *State {
	return &State{
		Window:    Window{Start: start, Length: length},
		MinLength: DefaultMinLength,
		MaxLength: DefaultMaxLength,
	}
}

// Ts0 returns the absolute start of the window.
func (s *State) Ts0() int64 {
	return s.Start + s.TsOffset
}

// Axis returns the time axis of the window drawn at x with width w.
func (s *State) Axis(x, w float64) (timeaxis.Axis, error) {
	return timeaxis.New(x, w, s.Ts0(), s.Length)
}

// Mode returns the current interaction mode.
func (s *State) Mode() Mode {
	return s.mode
}

// Handle applies the input of a frame.
func (s *State) Handle(a timeaxis.Axis, in Input) {
	if s.mode != Idle {
		s.captured(a, in)
		return
	}
	if !in.InGraph {
		return
	}
	switch {
	case in.Pressed:
		switch {
		case in.SelectMod:
			s.mode = AreaSelecting
		case in.ZoomMod:
			s.mode = ZoomSelecting
		default:
			s.mode = Panning
		}
		s.capture = in.Cursor
		if !in.Down {
			// Released in the same frame, nothing to drag.
			s.mode = Idle
		}
	case in.Wheel != 0:
		s.Zoom(a.ScreenXToTs(in.Cursor.X), in.Wheel > 0)
	}
}

func (s *State) captured(a timeaxis.Axis, in Input) {
	if in.Escape {
		s.mode = Idle
		s.selecting = false
		return
	}
	switch s.mode {
	case ZoomSelecting, AreaSelecting:
		ts0 := a.ScreenXToTs(s.capture.X)
		ts1 := a.ScreenXToTs(in.Cursor.X)
		if ts0 > ts1 {
			ts0, ts1 = ts1, ts0
		}
		s.selection = Selection{Ts0: ts0, Ts1: ts1}
		s.selecting = in.Down
		if in.Down {
			break
		}
		if s.mode == ZoomSelecting {
			s.undo = s.Window
			s.Start = ts0 - s.TsOffset
			s.Length = ts1 - ts0
		} else {
			s.area, s.hasArea = s.selection, true
		}
	case Panning:
		if in.Down && in.CursorValid {
			s.Start -= a.DxToTs(in.Cursor.X - s.capture.X)
			s.PanY += in.Cursor.Y - s.capture.Y
			s.capture = in.Cursor
		}
	}
	if !in.Down {
		s.mode = Idle
	}
}

// Dragging returns the absolute time interval being selected while in
// ZoomSelecting or AreaSelecting mode.
func (s *State) Dragging() (Selection, bool) {
	if s.mode != ZoomSelecting && s.mode != AreaSelecting || !s.selecting {
		return Selection{}, false
	}
	return s.selection, true
}

// CaptureX returns the screen x at which the current drag started.
func (s *State) CaptureX() float64 {
	return s.capture.X
}

// Area returns the last completed area selection.
func (s *State) Area() (Selection, bool) {
	return s.area, s.hasArea
}

// Zoom halves (in) or doubles the window length around the absolute
// timestamp center, keeping center at the same screen position.
func (s *State) Zoom(center int64, in bool) {
	n := s.Length * 2
	if in {
		n = s.Length / 2
	}
	s.ZoomTo(center, min(max(n, s.MinLength), s.MaxLength))
}

// ZoomKey zooms around the window center.
func (s *State) ZoomKey(in bool) {
	s.Zoom(s.Ts0()+s.Length/2, in)
}

// ZoomTo changes the window length to n around the absolute timestamp
// center.
func (s *State) ZoomTo(center, n int64) {
	if n == s.Length || s.Length <= 0 {
		return
	}
	scale := float64(n) / float64(s.Length)
	ts0 := center - int64(math.Round(float64(center-s.Ts0())*scale))
	s.Start = ts0 - s.TsOffset
	s.Length = n
}

// QuickZoom zooms to a 3ms window around the absolute timestamp cursor, or
// undoes the last zoom if there is one.
func (s *State) QuickZoom(cursor int64) {
	if s.UndoZoom() {
		return
	}
	s.undo = s.Window
	s.ZoomTo(cursor, QuickZoomLength)
}

// UndoZoom restores the window from before the last zoom selection or quick
// zoom. It returns false if there's nothing to undo.
func (s *State) UndoZoom() bool {
	if !s.undo.Valid() {
		return false
	}
	s.Window = s.undo
	s.undo = Window{}
	return true
}

// SetMarker places marker i at the absolute timestamp ts.
func (s *State) SetMarker(i int, ts int64) error {
	if i < 0 || i >= numMarkers {
		return fmt.Errorf("%w: %d", ErrMarkerRange, i)
	}
	s.markers[i], s.hasMarker[i] = ts, true
	return nil
}

// ClearMarker removes marker i.
func (s *State) ClearMarker(i int) {
	if i >= 0 && i < numMarkers {
		s.hasMarker[i] = false
	}
}

// Marker returns the absolute timestamp of marker i.
func (s *State) Marker(i int) (int64, bool) {
	if i < 0 || i >= numMarkers || !s.hasMarker[i] {
		return 0, false
	}
	return s.markers[i], true
}

// JumpToMarker centers the window on marker i.
func (s *State) JumpToMarker(i int) bool {
	ts, ok := s.Marker(i)
	if !ok {
		return false
	}
	s.Start = ts - s.TsOffset - s.Length/2
	return true
}

// SaveBookmark saves the window into slot.
func (s *State) SaveBookmark(slot int) error {
	if slot < 1 || slot > NumBookmarks {
		return fmt.Errorf("%w: %d", ErrSlotRange, slot)
	}
	s.bookmarks[slot-1] = s.Window
	return nil
}

// RestoreBookmark restores the window saved in slot.
func (s *State) RestoreBookmark(slot int) error {
	w, err := s.Bookmark(slot)
	if err != nil {
		return err
	}
	s.Window = w
	return nil
}

// Bookmark returns the window saved in slot.
func (s *State) Bookmark(slot int) (Window, error) {
	if slot < 1 || slot > NumBookmarks {
		return Window{}, fmt.Errorf("%w: %d", ErrSlotRange, slot)
	}
	w := s.bookmarks[slot-1]
	if !w.Valid() {
		return Window{}, fmt.Errorf("%w: %d", ErrEmptySlot, slot)
	}
	return w, nil
}

// SetBookmark stores w in slot, e.g. when loading saved bookmarks.
func (s *State) SetBookmark(slot int, w Window) error {
	if slot < 1 || slot > NumBookmarks {
		return fmt.Errorf("%w: %d", ErrSlotRange, slot)
	}
	s.bookmarks[slot-1] = w
	return nil
}

// ScrollKey is a keyboard scroll action.
type ScrollKey uint8

const (
	ScrollUp ScrollKey = iota
	ScrollDown
	ScrollLeft
	ScrollRight
	ScrollHome
	ScrollEnd
)

// Scroll applies a keyboard scroll action for a trace whose events span the
// absolute timestamps [first, last]. Horizontal scrolls move by 9/10 of the
// window, vertical ones by four lines of height lineH.
func (s *State) Scroll(k ScrollKey, first, last int64, lineH float64) {
	ts0 := s.Ts0()
	switch k {
	case ScrollUp:
		s.PanY += 4 * lineH
		return
	case ScrollDown:
		s.PanY -= 4 * lineH
		return
	case ScrollLeft:
		ts0 = max(ts0-9*s.Length/10, -slack)
	case ScrollRight:
		ts0 = min(ts0+9*s.Length/10, last-s.Length+slack)
	case ScrollHome:
		ts0 = first - slack
	case ScrollEnd:
		ts0 = last - s.Length + slack
	}
	s.Start = ts0 - s.TsOffset
}

// Clamp keeps the window length within [MinLength, MaxLength] and the window
// start within about a millisecond of the events [first, last]. It is meant
// to run every frame.
func (s *State) Clamp(first, last int64) {
	s.Length = min(max(s.Length, s.MinLength), s.MaxLength)
	switch ts0 := s.Ts0(); {
	case ts0 < first-slack:
		s.Start = first - s.TsOffset - slack
	case ts0 > last:
		s.Start = last - s.TsOffset
	}
}

// ClampPanY keeps the vertical pan offset such that rows of height totalH
// cover a graph of height visibleH.
func (s *State) ClampPanY(visibleH, totalH float64) {
	s.PanY = min(max(s.PanY, min(visibleH-totalH, 0)), 0)
}
