package graph

import (
	"fmt"
	"strings"

	"github.com/felixge/tracegraph/pkg/events"
	"github.com/felixge/tracegraph/pkg/plot"
)

// PlotDef defines a plot row.
type PlotDef struct {
	Name   string
	Filter string
	Scan   string
}

// RowName returns the row name of the plot.
func (d PlotDef) RowName() string {
	return plot.RowPrefix + d.Name
}

type cachedSeries struct {
	series *plot.Series
	err    error
}

// PlotCache builds plot series lazily on first access. Series stay valid
// until their definition changes or Reset is called for a new trace.
type PlotCache struct {
	store  *events.Store
	filter events.Filter
	defs   map[string]PlotDef
	series map[string]cachedSeries
}

// NewPlotCache returns an empty cache for the events of s.
func NewPlotCache(s *events.Store, f events.Filter) *PlotCache {
	return &PlotCache{
		store:  s,
		filter: f,
		defs:   map[string]PlotDef{},
		series: map[string]cachedSeries{},
	}
}

// Define adds or replaces the plot d. The series is built right away, if it
// has no data the definition is dropped and the error returned.
func (c *PlotCache) Define(d PlotDef) (*plot.Series, error) {
	name := d.RowName()
	delete(c.series, name)
	s, err := plot.Build(c.store, c.filter, d.Name, d.Filter, d.Scan)
	if err != nil {
		return nil, err
	}
	c.defs[name] = d
	c.series[name] = cachedSeries{series: s}
	return s, nil
}

// Load adds the definitions without building their series.
func (c *PlotCache) Load(defs ...PlotDef) {
	for _, d := range defs {
		c.defs[d.RowName()] = d
		delete(c.series, d.RowName())
	}
}

// Remove drops the plot row called name.
func (c *PlotCache) Remove(name string) {
	delete(c.defs, name)
	delete(c.series, name)
}

// Defs returns the plot definitions.
func (c *PlotCache) Defs() []PlotDef {
	defs := make([]PlotDef, 0, len(c.defs))
	for _, d := range c.defs {
		defs = append(defs, d)
	}
	return defs
}

// Series returns the series of the plot row called name, building it if
// needed. Build errors are cached as well.
func (c *PlotCache) Series(name string) (*plot.Series, error) {
	if cs, ok := c.series[name]; ok {
		return cs.series, cs.err
	}
	d, ok := c.defs[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownPlot, name)
	}
	s, err := plot.Build(c.store, c.filter, d.Name, d.Filter, d.Scan)
	c.series[name] = cachedSeries{series: s, err: err}
	return s, err
}

// Reset drops all series, keeping the definitions, for the events of a newly
// loaded trace.
func (c *PlotCache) Reset(s *events.Store, f events.Filter) {
	c.store, c.filter = s, f
	c.series = map[string]cachedSeries{}
}

// Source resolves row names against the store's row index and the plot
// cache.
type Source struct {
	Store *events.Store
	Plots *PlotCache
}

// RowLocs implements layout.RowSource. Plots without data have no locs.
func (s Source) RowLocs(name string) ([]events.ID, events.RowKind, bool) {
	if strings.HasPrefix(name, plot.RowPrefix) && s.Plots != nil {
		series, err := s.Plots.Series(name)
		if err != nil {
			return nil, events.RowPlot, false
		}
		return series.Locs(), events.RowPlot, true
	}
	return s.Store.RowLocs(name)
}
