package jobchain

import (
	"sort"

	"github.com/felixge/tracegraph/pkg/events"
)

// Summary holds the accumulated stage times of the chains of a comm.
type Summary struct {
	Comm  string
	Count int
	// User, Queue and Exec are the total stage times in nanoseconds.
	User, Queue, Exec int64
}

// Summarize resolves every completion in locs and sums up its stage times by
// the comm of the submitting event. The result is sorted by total time,
// longest first.
func Summarize(s *events.Store, locs []events.ID) []Summary {
	byComm := map[string]*Summary{}
	for _, id := range locs {
		c, ok := Resolve(s, id)
		if !ok {
			continue
		}
		comm := s.Get(c.Submit).Comm
		sum, ok := byComm[comm]
		if !ok {
			sum = &Summary{Comm: comm}
			byComm[comm] = sum
		}
		sum.Count++
		sum.User += c.UserWait()
		sum.Queue += c.QueueWait()
		sum.Exec += c.Exec()
	}

	out := make([]Summary, 0, len(byComm))
	for _, sum := range byComm {
		out = append(out, *sum)
	}
	sort.Slice(out, func(i, j int) bool {
		ti, tj := out[i].Total(), out[j].Total()
		if ti != tj {
			return ti > tj
		}
		return out[i].Comm < out[j].Comm
	})
	return out
}

// Total returns the sum of all stage times.
func (s Summary) Total() int64 {
	return s.User + s.Queue + s.Exec
}
