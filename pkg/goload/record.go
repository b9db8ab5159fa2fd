// Package goload turns Go runtime execution traces into an event store. Every
// scheduling slice of a goroutine becomes a job chain: the goroutine becoming
// runnable is the dispatch, the time it waited since its previous slice is the
// user stage and the slice itself ends with a completion event.
package goload

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"
)

// Kind is the type of a Record.
type Kind uint8

const (
	// KindCreate and KindReady make a goroutine runnable.
	KindCreate Kind = iota
	KindReady
	// KindStart puts a goroutine on a proc.
	KindStart
	// KindStop takes a goroutine off its proc.
	KindStop
	// KindLog is a runtime/trace.Log call.
	KindLog
	// KindGC marks the start of a garbage collection.
	KindGC
)

func (k Kind) String() string {
	switch k {
	case KindCreate:
		return "create"
	case KindReady:
		return "ready"
	case KindStart:
		return "start"
	case KindStop:
		return "stop"
	case KindLog:
		return "log"
	case KindGC:
		return "gc"
	}
	return fmt.Sprintf("Kind(%d)", uint8(k))
}

// Record is a scheduling event decoded from a trace, independent of the
// trace format version.
type Record struct {
	Kind Kind
	// Ts is the timestamp in nanoseconds.
	Ts int64
	// G is the goroutine the record is about, P the proc it happened on or
	// -1.
	G uint64
	P int64
	// Reason describes why a goroutine stopped or became ready.
	Reason string
	// Fn is the entry function of the goroutine, only set for KindCreate.
	Fn string
	// Category and Message are set for KindLog.
	Category, Message string
}

// ErrBadHeader is returned for inputs that don't start with a trace header.
var ErrBadHeader = errors.New("not a Go execution trace")

// Version returns the Go version, e.g. 21 for Go 1.21, that wrote the trace
// with the given header.
func Version(header []byte) (int, error) {
	rest, ok := bytes.CutPrefix(header, []byte("go 1."))
	if !ok {
		return 0, ErrBadHeader
	}
	minor, _, ok := strings.Cut(string(rest), " trace")
	if !ok {
		return 0, ErrBadHeader
	}
	v, err := strconv.Atoi(minor)
	if err != nil {
		return 0, fmt.Errorf("%w: version %q", ErrBadHeader, minor)
	}
	return v, nil
}

// headerSize is the size of a trace header, e.g. "go 1.22 trace\x00\x00\x00".
const headerSize = 16

// Read decodes the trace in r, picking the parser by the trace's version.
func Read(r io.Reader, log logrus.FieldLogger) ([]Record, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	v, err := Version(data[:min(len(data), headerSize)])
	if err != nil {
		return nil, err
	}
	log.WithField("version", fmt.Sprintf("go1.%d", v)).Debug("reading trace")
	if v >= 22 {
		return readV2(bytes.NewReader(data))
	}
	return readV1(bytes.NewReader(data))
}
