package pprof

import (
	"io"
	"strings"

	"github.com/felixge/tracegraph/pkg/events"
	"github.com/felixge/tracegraph/pkg/jobchain"
	"github.com/google/pprof/profile"
)

type Options struct {
	// ByFunc merges the comms that only differ in their "-<id>" suffix, e.g.
	// all goroutines started by the same function.
	ByFunc bool
}

// Convert writes the stage times of the job chains completing with one of
// locs as a pprof profile to w. Every sample has the stack [stage, comm] and
// a "stage" label.
func Convert(s *events.Store, locs []events.ID, w io.Writer, opt Options) error {
	p, err := Profile(s, locs, opt)
	if err != nil {
		return err
	}
	return p.Write(w)
}

// Profile returns the profile Convert writes.
func Profile(s *events.Store, locs []events.ID, opt Options) (*profile.Profile, error) {
	p := &profile.Profile{
		SampleType: []*profile.ValueType{
			{Type: "chains", Unit: "count"},
			{Type: "wall-time", Unit: "nanoseconds"},
		},
		DefaultSampleType: "wall-time",
		Mapping:           []*profile.Mapping{},
		TimeNanos:         s.FirstTs(),
		DurationNanos:     s.LastTs() - s.FirstTs(),
	}

	sampleIdx := map[sampleKey]*profile.Sample{}
	locationIdx := map[string]*profile.Location{}
	location := func(name string) *profile.Location {
		loc, ok := locationIdx[name]
		if !ok {
			fn := &profile.Function{
				ID:   uint64(len(p.Function) + 1),
				Name: name,
			}
			p.Function = append(p.Function, fn)
			loc = &profile.Location{
				ID:   uint64(len(p.Location)) + 1,
				Line: []profile.Line{{Function: fn}},
			}
			p.Location = append(p.Location, loc)
			locationIdx[name] = loc
		}
		return loc
	}

	pprofSample := func(comm string, stage jobchain.Stage, count int, dt int64) {
		if dt <= 0 {
			return
		}
		key := sampleKey{Comm: comm, Stage: stage}
		sample, ok := sampleIdx[key]
		if !ok {
			sample = &profile.Sample{
				Location: []*profile.Location{location(stage.String()), location(comm)},
				Value:    []int64{0, 0},
				Label:    map[string][]string{"stage": {stage.String()}},
			}
			p.Sample = append(p.Sample, sample)
			sampleIdx[key] = sample
		}
		sample.Value[0] += int64(count)
		sample.Value[1] += dt
	}

	for _, sum := range jobchain.Summarize(s, locs) {
		comm := sum.Comm
		if opt.ByFunc {
			comm = trimID(comm)
		}
		pprofSample(comm, jobchain.StageUser, sum.Count, sum.User)
		pprofSample(comm, jobchain.StageQueue, sum.Count, sum.Queue)
		pprofSample(comm, jobchain.StageExec, sum.Count, sum.Exec)
	}
	return p, p.CheckValid()
}

// trimID removes a trailing "-<digits>" from comm.
func trimID(comm string) string {
	i := strings.LastIndexByte(comm, '-')
	if i <= 0 || i == len(comm)-1 {
		return comm
	}
	for _, c := range comm[i+1:] {
		if c < '0' || c > '9' {
			return comm
		}
	}
	return comm[:i]
}

type sampleKey struct {
	Comm  string
	Stage jobchain.Stage
}
