// Package config reads and writes view files: the YAML description of the
// rows, plots, toggles and bookmarks of a trace view.
package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/felixge/tracegraph/pkg/events"
	"github.com/felixge/tracegraph/pkg/graph"
	"github.com/felixge/tracegraph/pkg/layout"
	"github.com/felixge/tracegraph/pkg/nav"
	"github.com/felixge/tracegraph/pkg/plot"
	"github.com/hashicorp/go-multierror"
	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

// ErrInvalid wraps every validation problem of a view file.
var ErrInvalid = errors.New("invalid view")

// Row is an entry of the row list.
type Row struct {
	Name string `yaml:"name"`
	// Lines is the height in lines of text, 0 keeps the default.
	Lines  int  `yaml:"lines,omitempty"`
	Hidden bool `yaml:"hidden,omitempty"`
}

// Plot defines a plot row.
type Plot struct {
	Name   string `yaml:"name"`
	Filter string `yaml:"filter,omitempty"`
	Scan   string `yaml:"scan"`
}

// Bookmark is a saved window in nanoseconds relative to the first event.
type Bookmark struct {
	Slot   int   `yaml:"slot"`
	Start  int64 `yaml:"start"`
	Length int64 `yaml:"length"`
}

// View is the content of a view file.
type View struct {
	Rows []Row `yaml:"rows,omitempty"`
	// GraphHeight is the preferred graph height in pixels, 0 picks a default.
	GraphHeight     float64    `yaml:"graph_height,omitempty"`
	OnlyFiltered    bool       `yaml:"only_filtered"`
	RenderUserStage bool       `yaml:"render_user_stage"`
	StageLabels     bool       `yaml:"stage_labels"`
	StageTicks      bool       `yaml:"stage_ticks"`
	PrintLabels     bool       `yaml:"print_labels"`
	SyncEventList   bool       `yaml:"sync_event_list"`
	Plots           []Plot     `yaml:"plots,omitempty"`
	Bookmarks       []Bookmark `yaml:"bookmarks,omitempty"`
}

// Default returns a view with the default toggles and no rows. An empty row
// list shows every row of the trace.
func Default() *View {
	o := graph.DefaultOptions()
	return &View{
		OnlyFiltered:    o.OnlyFiltered,
		RenderUserStage: o.RenderUserStage,
		StageLabels:     o.StageLabels,
		StageTicks:      o.StageTicks,
		PrintLabels:     o.PrintLabels,
		SyncEventList:   o.SyncEventList,
	}
}

// Load reads the view file at path.
func Load(path string) (*View, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	v, err := Decode(file)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return v, nil
}

// Decode reads a view file from r. Keys that are missing keep their default.
func Decode(r io.Reader) (*View, error) {
	v := Default()
	d := yaml.NewDecoder(r)
	d.KnownFields(true)
	if err := d.Decode(v); err != nil && err != io.EOF {
		return nil, err
	}
	if err := v.Validate(); err != nil {
		return nil, err
	}
	return v, nil
}

// Encode writes v to w.
func (v *View) Encode(w io.Writer) error {
	e := yaml.NewEncoder(w)
	e.SetIndent(2)
	if err := e.Encode(v); err != nil {
		return err
	}
	return e.Close()
}

// Validate returns every problem of v at once.
func (v *View) Validate() error {
	var errs *multierror.Error
	invalid := func(format string, args ...any) {
		errs = multierror.Append(errs, fmt.Errorf("%w: "+format, append([]any{ErrInvalid}, args...)...))
	}

	rows := map[string]bool{}
	for i, r := range v.Rows {
		switch {
		case r.Name == "":
			invalid("row %d has no name", i)
		case rows[r.Name]:
			invalid("row %q is listed twice", r.Name)
		}
		rows[r.Name] = true
		if r.Lines != 0 && (r.Lines < layout.MinLines || r.Lines > layout.MaxLines) {
			invalid("row %q: lines must be between %d and %d, got %d", r.Name, layout.MinLines, layout.MaxLines, r.Lines)
		}
	}
	if v.GraphHeight < 0 {
		invalid("graph_height must not be negative")
	}

	plots := map[string]bool{}
	for i, p := range v.Plots {
		switch {
		case p.Name == "":
			invalid("plot %d has no name", i)
		case plots[p.Name]:
			invalid("plot %q is defined twice", p.Name)
		}
		plots[p.Name] = true
		if _, err := plot.ParsePattern(p.Scan); err != nil {
			invalid("plot %q: %s", p.Name, err)
		}
	}

	slots := map[int]bool{}
	for _, b := range v.Bookmarks {
		switch {
		case b.Slot < 1 || b.Slot > nav.NumBookmarks:
			invalid("bookmark slot %d: %s", b.Slot, nav.ErrSlotRange)
		case slots[b.Slot]:
			invalid("bookmark slot %d is saved twice", b.Slot)
		}
		slots[b.Slot] = true
		if b.Length <= 0 {
			invalid("bookmark slot %d: length must be positive", b.Slot)
		}
	}
	return errs.ErrorOrNil()
}

// Apply configures g. Rows of the trace that are not listed are appended
// hidden, plot rows that are not listed are appended visible.
func (v *View) Apply(g *graph.View, log logrus.FieldLogger) error {
	if err := v.Validate(); err != nil {
		return err
	}
	g.Options = graph.Options{
		OnlyFiltered:    v.OnlyFiltered,
		RenderUserStage: v.RenderUserStage,
		StageLabels:     v.StageLabels,
		StageTicks:      v.StageTicks,
		PrintLabels:     v.PrintLabels,
		SyncEventList:   v.SyncEventList,
	}
	g.HeightPref = v.GraphHeight

	for _, p := range v.Plots {
		g.Plots.Load(graph.PlotDef{Name: p.Name, Filter: p.Filter, Scan: p.Scan})
	}

	if len(v.Rows) > 0 {
		listed := map[string]bool{}
		g.Rows = g.Rows[:0]
		g.Sizes = map[string]int{}
		src := graph.Source{Store: g.Store, Plots: g.Plots}
		for _, r := range v.Rows {
			listed[r.Name] = true
			if _, _, ok := src.RowLocs(r.Name); !ok {
				log.WithField("row", r.Name).Debug("row not in trace")
			}
			g.Rows = append(g.Rows, layout.Descriptor{Name: r.Name, Hidden: r.Hidden})
			if r.Lines != 0 {
				g.Sizes[r.Name] = r.Lines
			}
		}
		for _, name := range g.Store.RowNames() {
			if !listed[name] {
				g.Rows = append(g.Rows, layout.Descriptor{Name: name, Hidden: true})
			}
		}
	}
	for _, p := range v.Plots {
		if name := plot.RowPrefix + p.Name; !hasRow(g.Rows, name) {
			g.Rows = append(g.Rows, layout.Descriptor{Name: name, Kind: events.RowPlot})
		}
	}

	for _, b := range v.Bookmarks {
		if err := g.Nav.SetBookmark(b.Slot, nav.Window{Start: b.Start, Length: b.Length}); err != nil {
			return err
		}
	}
	g.Invalidate()
	log.WithFields(logrus.Fields{
		"rows":      len(g.Rows),
		"plots":     len(v.Plots),
		"bookmarks": len(v.Bookmarks),
	}).Debug("applied view")
	return nil
}

// FromView captures the configuration of g.
func FromView(g *graph.View) *View {
	v := &View{
		GraphHeight:     g.HeightPref,
		OnlyFiltered:    g.Options.OnlyFiltered,
		RenderUserStage: g.Options.RenderUserStage,
		StageLabels:     g.Options.StageLabels,
		StageTicks:      g.Options.StageTicks,
		PrintLabels:     g.Options.PrintLabels,
		SyncEventList:   g.Options.SyncEventList,
	}
	for _, d := range g.Rows {
		v.Rows = append(v.Rows, Row{Name: d.Name, Lines: g.Sizes[d.Name], Hidden: d.Hidden})
	}
	for _, d := range g.Plots.Defs() {
		v.Plots = append(v.Plots, Plot{Name: d.Name, Filter: d.Filter, Scan: d.Scan})
	}
	sort.Slice(v.Plots, func(i, j int) bool { return v.Plots[i].Name < v.Plots[j].Name })
	for slot := 1; slot <= nav.NumBookmarks; slot++ {
		if w, err := g.Nav.Bookmark(slot); err == nil {
			v.Bookmarks = append(v.Bookmarks, Bookmark{Slot: slot, Start: w.Start, Length: w.Length})
		}
	}
	return v
}

func hasRow(rows []layout.Descriptor, name string) bool {
	for _, r := range rows {
		if r.Name == name {
			return true
		}
	}
	return false
}
