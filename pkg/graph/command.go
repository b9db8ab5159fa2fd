package graph

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/felixge/tracegraph/pkg/layout"
	"github.com/felixge/tracegraph/pkg/nav"
)

var (
	// ErrNoCursor is returned for commands that need the cursor position
	// when the cursor wasn't over the graph in the last frame.
	ErrNoCursor = errors.New("cursor is not over the graph")
	// ErrBadKey is returned by ParseKey for unknown key bindings.
	ErrBadKey = errors.New("unknown key binding")
)

// Action is a keyboard action of a view.
type Action uint8

const (
	ActionNone Action = iota
	// ActionToggleRowZoom zooms the row under the cursor, or unzooms.
	ActionToggleRowZoom
	// ActionSetMarker places marker Arg at the cursor.
	ActionSetMarker
	ActionJumpToMarker
	// ActionSaveBookmark saves the window into bookmark slot Arg.
	ActionSaveBookmark
	ActionRestoreBookmark
	// ActionQuickZoom zooms to a 3ms window at the cursor or undoes the last
	// zoom.
	ActionQuickZoom
	ActionZoomIn
	ActionZoomOut
	// ActionScroll scrolls by Arg, a nav.ScrollKey.
	ActionScroll
)

// Command is an action with its argument.
type Command struct {
	Action Action
	Arg    int
}

// Do applies c to the view. Commands that depend on the cursor use its
// position from the last rendered frame.
func (v *View) Do(c Command) error {
	switch c.Action {
	case ActionToggleRowZoom:
		if v.Zoom.Active() {
			v.Zoom.Toggle(v.Zoom.Row)
		} else if v.mouseRow != "" && layout.Zoomable(v.mouseKind) {
			v.Zoom.Toggle(v.mouseRow)
		}
	case ActionSetMarker:
		if !v.mouseValid {
			return ErrNoCursor
		}
		return v.Nav.SetMarker(c.Arg, v.mouseTs)
	case ActionJumpToMarker:
		v.Nav.JumpToMarker(c.Arg)
	case ActionSaveBookmark:
		return v.Nav.SaveBookmark(c.Arg)
	case ActionRestoreBookmark:
		return v.Nav.RestoreBookmark(c.Arg)
	case ActionQuickZoom:
		if !v.mouseValid {
			if !v.Nav.UndoZoom() {
				return ErrNoCursor
			}
			return nil
		}
		v.Nav.QuickZoom(v.mouseTs)
	case ActionZoomIn, ActionZoomOut:
		v.Nav.ZoomKey(c.Action == ActionZoomIn)
	case ActionScroll:
		v.Nav.Scroll(nav.ScrollKey(c.Arg), v.Store.FirstTs(), v.Store.LastTs(), v.Metrics.TextH)
	}
	return nil
}

var keyBindings = map[string]Command{
	"ctrl+shift+z": {Action: ActionToggleRowZoom},
	"ctrl+shift+a": {Action: ActionSetMarker, Arg: nav.MarkerA},
	"ctrl+shift+b": {Action: ActionSetMarker, Arg: nav.MarkerB},
	"ctrl+a":       {Action: ActionJumpToMarker, Arg: nav.MarkerA},
	"ctrl+b":       {Action: ActionJumpToMarker, Arg: nav.MarkerB},
	"z":            {Action: ActionQuickZoom},
	"+":            {Action: ActionZoomIn},
	"-":            {Action: ActionZoomOut},
	"up":           {Action: ActionScroll, Arg: int(nav.ScrollUp)},
	"down":         {Action: ActionScroll, Arg: int(nav.ScrollDown)},
	"left":         {Action: ActionScroll, Arg: int(nav.ScrollLeft)},
	"right":        {Action: ActionScroll, Arg: int(nav.ScrollRight)},
	"home":         {Action: ActionScroll, Arg: int(nav.ScrollHome)},
	"end":          {Action: ActionScroll, Arg: int(nav.ScrollEnd)},
}

// ParseKey returns the command bound to a key like "ctrl+shift+a" or
// "ctrl+3".
func ParseKey(key string) (Command, error) {
	key = strings.ToLower(strings.TrimSpace(key))
	if c, ok := keyBindings[key]; ok {
		return c, nil
	}
	for prefix, action := range map[string]Action{
		"ctrl+shift+": ActionSaveBookmark,
		"ctrl+":       ActionRestoreBookmark,
	} {
		rest, ok := strings.CutPrefix(key, prefix)
		if !ok || len(rest) != 1 {
			continue
		}
		if n, err := strconv.Atoi(rest); err == nil && n >= 1 && n <= nav.NumBookmarks {
			return Command{Action: action, Arg: n}, nil
		}
	}
	return Command{}, fmt.Errorf("%w: %q", ErrBadKey, key)
}
