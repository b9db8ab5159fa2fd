package goload

import (
	"io"

	"honnef.co/go/gotraceui/trace"
)

// readV1 decodes traces written by Go 1.21 and older.
func readV1(r io.Reader) ([]Record, error) {
	t, err := trace.Parse(r, nil)
	if err != nil {
		return nil, err
	}
	recs := make([]Record, 0, len(t.Events))
	for _, e := range t.Events {
		rec := Record{Ts: int64(e.Ts), G: e.G, P: int64(e.P)}
		switch e.Type {
		case trace.EvGoCreate:
			rec.Kind = KindCreate
			rec.G = e.Args[0]
			rec.Fn = stackFn(t, uint32(e.Args[1]))
		case trace.EvGoUnblock,
			trace.EvGoUnblockLocal,
			trace.EvGoSysExit,
			trace.EvGoSysExitLocal:
			rec.Kind = KindReady
			rec.G = e.Args[0]
			rec.Reason = trace.EventDescriptions[e.Type].Name
		case trace.EvGoSched, trace.EvGoPreempt:
			// Running goroutines that yield are ready right away.
			rec.Kind = KindStop
			rec.Reason = trace.EventDescriptions[e.Type].Name
			recs = append(recs, rec)
			rec = Record{Kind: KindReady, Ts: int64(e.Ts), G: e.G, P: int64(e.P), Reason: rec.Reason}
		case trace.EvGoStart,
			trace.EvGoStartLocal,
			trace.EvGoStartLabel:
			rec.Kind = KindStart
		case trace.EvGoBlockCond,
			trace.EvGoBlockNet,
			trace.EvGoBlockGC,
			trace.EvGoSysBlock,
			trace.EvGoSleep,
			trace.EvGoBlock,
			trace.EvGoBlockRecv,
			trace.EvGoBlockSend,
			trace.EvGoBlockSelect,
			trace.EvGoBlockSync,
			trace.EvGoStop,
			trace.EvGoEnd:
			rec.Kind = KindStop
			rec.Reason = trace.EventDescriptions[e.Type].Name
		case trace.EvUserLog:
			rec.Kind = KindLog
			rec.Category = t.Strings[e.Args[1]]
			rec.Message = t.Strings[e.Args[3]]
		case trace.EvGCStart:
			rec.Kind = KindGC
		default:
			continue
		}
		recs = append(recs, rec)
	}
	return recs, nil
}

// stackFn returns the function of the first frame of the stack id.
func stackFn(t trace.Trace, id uint32) string {
	pcs := t.Stacks[id]
	if len(pcs) == 0 {
		return ""
	}
	return t.PCs[pcs[0]].Fn
}
