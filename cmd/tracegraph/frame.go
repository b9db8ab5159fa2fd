package main

import (
	"flag"
	"fmt"
	"math"
	"strings"

	"github.com/felixge/tracegraph/pkg/draw"
	"github.com/felixge/tracegraph/pkg/events"
	"github.com/felixge/tracegraph/pkg/graph"
	"github.com/felixge/tracegraph/pkg/timeaxis"
)

// frameConfig holds the flags that pick the visible part of a trace.
type frameConfig struct {
	startMs  float64
	lengthMs float64
	width    float64
	height   float64
	bookmark int
	keys     string
}

func (c *frameConfig) register(fs *flag.FlagSet) {
	fs.Float64Var(&c.startMs, "start", 0, "window start in ms after the first event")
	fs.Float64Var(&c.lengthMs, "length", 10, "window length in ms")
	fs.Float64Var(&c.width, "width", 1200, "graph width in pixels")
	fs.Float64Var(&c.height, "height", 800, "available height in pixels")
	fs.IntVar(&c.bookmark, "bookmark", 0, "restore the window of this bookmark slot of the view file")
	fs.StringVar(&c.keys, "keys", "", `comma separated key bindings to apply first, e.g. "z,+,right"`)
}

// apply positions the window of v. The last rendered frame is needed for
// key bindings that depend on the cursor.
func (c *frameConfig) apply(v *graph.View) error {
	v.Nav.TsOffset = v.Store.FirstTs()
	v.Nav.Start = msToNs(c.startMs)
	v.Nav.Length = msToNs(c.lengthMs)
	if c.bookmark != 0 {
		if err := v.Nav.RestoreBookmark(c.bookmark); err != nil {
			return fmt.Errorf("bookmark %d: %w", c.bookmark, err)
		}
	}
	if c.keys == "" {
		return nil
	}
	for _, key := range strings.Split(c.keys, ",") {
		cmd, err := graph.ParseKey(key)
		if err != nil {
			return err
		}
		if err := v.Do(cmd); err != nil {
			return fmt.Errorf("key %q: %w", key, err)
		}
	}
	return nil
}

func (c *frameConfig) rect() draw.Rect {
	return draw.NewRect(0, 0, c.width, c.height)
}

// input returns the frame input without event list state.
func (c *frameConfig) input() graph.FrameInput {
	return graph.FrameInput{
		Rect:         c.rect(),
		ListHovered:  events.InvalidID,
		ListSelected: events.InvalidID,
	}
}

func msToNs(ms float64) int64 {
	return int64(math.Round(ms * float64(timeaxis.NsPerMs)))
}
