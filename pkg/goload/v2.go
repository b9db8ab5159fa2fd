package goload

import (
	"io"
	"strings"

	"golang.org/x/exp/trace"
)

// readV2 decodes traces written by Go 1.22 and newer.
func readV2(r io.Reader) ([]Record, error) {
	tr, err := trace.NewReader(r)
	if err != nil {
		return nil, err
	}
	var recs []Record
	for {
		ev, err := tr.ReadEvent()
		if err == io.EOF {
			break
		} else if err != nil {
			return nil, err
		}

		p := int64(-1)
		if ev.Proc() != trace.NoProc {
			p = int64(ev.Proc())
		}
		rec := Record{Ts: int64(ev.Time()), P: p}
		switch ev.Kind() {
		case trace.EventStateTransition:
			st := ev.StateTransition()
			if st.Resource.Kind != trace.ResourceGoroutine {
				continue
			}
			rec.G = uint64(st.Resource.Goroutine())
			rec.Reason = st.Reason
			from, to := st.Goroutine()
			switch {
			case from == trace.GoNotExist && to == trace.GoRunnable:
				rec.Kind = KindCreate
				rec.Fn = entryFn(st.Stack)
			case to == trace.GoRunnable:
				if from == trace.GoRunning {
					stop := rec
					stop.Kind = KindStop
					recs = append(recs, stop)
				}
				rec.Kind = KindReady
			case to == trace.GoRunning:
				rec.Kind = KindStart
			case from == trace.GoRunning:
				rec.Kind = KindStop
			default:
				continue
			}
		case trace.EventLog:
			l := ev.Log()
			rec.Kind = KindLog
			rec.G = uint64(ev.Goroutine())
			rec.Category, rec.Message = l.Category, l.Message
		case trace.EventRangeBegin:
			if !strings.HasPrefix(ev.Range().Name, "GC ") {
				continue
			}
			rec.Kind = KindGC
		default:
			continue
		}
		recs = append(recs, rec)
	}
	return recs, nil
}

// entryFn returns the outermost function of stk.
func entryFn(stk trace.Stack) string {
	var fn string
	for f := range stk.Frames() {
		fn = f.Func
	}
	return fn
}
