package goload

import (
	"fmt"
	"sort"
	"strings"

	"github.com/felixge/tracegraph/pkg/anon"
	"github.com/felixge/tracegraph/pkg/draw"
	"github.com/felixge/tracegraph/pkg/events"
	"github.com/felixge/tracegraph/pkg/layout"
	"github.com/sirupsen/logrus"
)

// Row names of a loaded trace. Every proc n gets a "P<n>" timeline row and a
// "P<n> hw" row.
const (
	RowGoroutines = "goroutines"
	RowPrint      = "print"
	RowGC         = "gc"
	// CommRowPrefix prefixes the per goroutine rows.
	CommRowPrefix = "comm:"
)

// Options control how records become events.
type Options struct {
	// SkipStd drops the goroutines started by standard library functions.
	SkipStd bool
	// Anonymize obfuscates goroutine functions outside the standard library.
	Anonymize bool
	// StdPackages lists the standard library packages for SkipStd and
	// Anonymize. If nil, they are loaded with StdPackages.
	StdPackages []string
	// CommRows adds a row with all events of every goroutine.
	CommRows bool
}

var palette = []draw.Color{
	draw.RGBA(0x42, 0x85, 0xf4, 0xff),
	draw.RGBA(0xdb, 0x44, 0x37, 0xff),
	draw.RGBA(0xf4, 0xb4, 0x00, 0xff),
	draw.RGBA(0x0f, 0x9d, 0x58, 0xff),
	draw.RGBA(0xab, 0x47, 0xbc, 0xff),
	draw.RGBA(0x00, 0xac, 0xc1, 0xff),
	draw.RGBA(0xff, 0x70, 0x43, 0xff),
	draw.RGBA(0x9e, 0x9d, 0x24, 0xff),
}

type gState struct {
	comm    string
	skip    bool
	ready   events.ID
	last    events.ID
	running bool
	startTs int64
	startP  int64
	slices  int
}

type builder struct {
	opt    Options
	log    logrus.FieldLogger
	evs    []events.Event
	gs     map[uint64]*gState
	rows   map[string][]events.ID
	kinds  map[string]events.RowKind
	order  []string
	ctxs   map[string][]events.ID
	seq    map[string]uint32
	broken int
}

// Build turns recs into an event store. It returns the row descriptors of the
// store in display order.
func Build(recs []Record, opt Options, log logrus.FieldLogger) (*events.Store, []layout.Descriptor, error) {
	if (opt.SkipStd || opt.Anonymize) && opt.StdPackages == nil {
		pkgs, err := StdPackages()
		if err != nil {
			return nil, nil, err
		}
		opt.StdPackages = pkgs
	}
	b := &builder{
		opt:   opt,
		log:   log,
		gs:    map[uint64]*gState{},
		rows:  map[string][]events.ID{},
		kinds: map[string]events.RowKind{},
		ctxs:  map[string][]events.ID{},
		seq:   map[string]uint32{},
	}
	b.row(RowGoroutines, events.RowTimeline)
	b.row(RowPrint, events.RowPrint)
	b.row(RowGC, events.RowPoint)

	recs = append([]Record(nil), recs...)
	sort.SliceStable(recs, func(i, j int) bool { return recs[i].Ts < recs[j].Ts })
	for _, r := range recs {
		b.add(r)
	}

	s, err := events.NewStore(b.evs)
	if err != nil {
		return nil, nil, fmt.Errorf("build store: %w", err)
	}
	var descs []layout.Descriptor
	for _, name := range b.order {
		s.AddRow(name, b.kinds[name], b.rows[name])
		descs = append(descs, layout.Descriptor{Name: name, Kind: b.kinds[name]})
	}
	for key, ids := range b.ctxs {
		s.AddContext(key, ids...)
	}
	log.WithFields(logrus.Fields{
		"records":    len(recs),
		"events":     s.Len(),
		"goroutines": len(b.gs),
		"unlinked":   b.broken,
	}).Debug("built event store")
	return s, descs, nil
}

func (b *builder) row(name string, kind events.RowKind) {
	if _, ok := b.kinds[name]; !ok {
		b.kinds[name] = kind
		b.order = append(b.order, name)
	}
}

// addTo appends id to the row name and returns its sequence number there.
func (b *builder) addTo(name string, kind events.RowKind, id events.ID) uint32 {
	b.row(name, kind)
	b.rows[name] = append(b.rows[name], id)
	n := b.seq[name]
	b.seq[name]++
	return n
}

func (b *builder) g(id uint64) *gState {
	g, ok := b.gs[id]
	if !ok {
		g = &gState{comm: fmt.Sprintf("g-%d", id), ready: events.InvalidID, last: events.InvalidID}
		b.gs[id] = g
	}
	return g
}

func (b *builder) emit(e events.Event) *events.Event {
	e.ID = events.ID(len(b.evs))
	b.evs = append(b.evs, e)
	return &b.evs[len(b.evs)-1]
}

// link returns id if its event is strictly before ts.
func (b *builder) link(id events.ID, ts int64) events.ID {
	if events.ValidID(id) && b.evs[id].Ts < ts {
		return id
	}
	return events.InvalidID
}

func (b *builder) add(r Record) {
	switch r.Kind {
	case KindCreate, KindReady:
		g := b.g(r.G)
		if r.Kind == KindCreate && r.Fn != "" {
			g.comm = b.comm(r.Fn, r.G)
			g.skip = b.opt.SkipStd && anon.Allowed(r.Fn, b.opt.StdPackages)
		}
		if g.skip {
			return
		}
		name := "go_" + r.Kind.String()
		if r.Reason != "" {
			name += " " + r.Reason
		}
		e := b.emit(events.Event{
			Ts:       r.Ts,
			Name:     name,
			Category: events.CategoryStage,
			IDStart:  b.link(g.last, r.Ts),
			Comm:     g.comm,
			Context:  fmt.Sprintf("g%d#%d", r.G, g.slices),
		})
		g.ready = e.ID
		b.ctxs[e.Context] = append(b.ctxs[e.Context], e.ID)
		b.commRow(g, e.ID)

	case KindStart:
		g := b.g(r.G)
		g.running, g.startTs, g.startP = true, r.Ts, r.P

	case KindStop:
		g := b.g(r.G)
		if !g.running || g.skip {
			return
		}
		g.running = false
		ready := b.link(g.ready, r.Ts)
		if !events.ValidID(ready) || b.evs[ready].Ts > g.startTs {
			// Running since before the trace started.
			b.broken++
			b.log.WithField("g", r.G).Debug("slice without ready event")
			return
		}
		name := "go_stop"
		if r.Reason != "" {
			name += " " + r.Reason
		}
		e := b.emit(events.Event{
			Ts:       r.Ts,
			Duration: r.Ts - g.startTs,
			Name:     name,
			Category: events.CategoryCompletion,
			IDStart:  ready,
			Color:    palette[r.G%uint64(len(palette))],
			Comm:     g.comm,
			Context:  b.evs[ready].Context,
		})
		id := e.ID
		b.addTo(RowGoroutines, events.RowTimeline, id)
		if g.startP >= 0 {
			p := fmt.Sprintf("P%d", g.startP)
			b.evs[id].RowSeq = b.addTo(p, events.RowTimeline, id)
			b.addTo(p+layout.HWSuffix, events.RowTimelineHW, id)
		}
		b.ctxs[b.evs[id].Context] = append(b.ctxs[b.evs[id].Context], id)
		b.commRow(g, id)
		g.last, g.ready = id, events.InvalidID
		g.slices++

	case KindLog:
		g := b.g(r.G)
		e := b.emit(events.Event{
			Ts:       r.Ts,
			Name:     "log",
			Category: events.CategoryPrint,
			IDStart:  events.InvalidID,
			Comm:     g.comm,
			Fields: []events.Field{
				{Key: "buf", Value: r.Message},
				{Key: "category", Value: r.Category},
			},
		})
		id := e.ID
		b.evs[id].RowSeq = b.addTo(RowPrint, events.RowPrint, id)
		b.commRow(g, id)

	case KindGC:
		e := b.emit(events.Event{Ts: r.Ts, Name: "gc", Category: events.CategoryPoint, IDStart: events.InvalidID})
		b.addTo(RowGC, events.RowPoint, e.ID)
	}
}

func (b *builder) commRow(g *gState, id events.ID) {
	if b.opt.CommRows {
		b.addTo(CommRowPrefix+g.comm, events.RowComm, id)
	}
}

// comm returns the process label of goroutine g started by fn, e.g.
// "main.worker-7".
func (b *builder) comm(fn string, g uint64) string {
	if b.opt.Anonymize {
		fn = anon.Name(fn, b.opt.StdPackages)
	}
	if i := strings.LastIndexByte(fn, '/'); i >= 0 {
		fn = fn[i+1:]
	}
	return fmt.Sprintf("%s-%d", fn, g)
}
