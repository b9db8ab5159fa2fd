package events

import (
	"math"

	"github.com/felixge/tracegraph/pkg/draw"
)

// ID is the index of an event in the store's event array.
type ID = uint32

// InvalidID marks an absent id.
const InvalidID ID = math.MaxUint32

// ValidID returns true if id is not InvalidID.
func ValidID(id ID) bool {
	return id != InvalidID
}

//go:generate stringer -type=Category

// Category tags what an event means for rendering.
type Category uint8

const (
	CategoryOther      Category = iota // anything else
	CategoryPoint                      // point in time event
	CategoryStage                      // stage of a job chain (submission, dispatch)
	CategoryCompletion                 // end of a job chain, carries Duration
	CategoryPrint                      // free text payload in the "buf" field
)

// Field is a key/value pair of an event payload.
type Field struct {
	Key   string
	Value string
}

// Event is a single trace event. Events are immutable once added to a Store.
type Event struct {
	// ID is the index of the event in the store.
	ID ID
	// Ts is the timestamp in nanoseconds.
	Ts int64
	// Duration is the length of the execution stage that ends at Ts. Only
	// meaningful for completion events.
	Duration int64
	// Name is the event name, e.g. "go_start".
	Name     string
	Category Category
	// IDStart refers to the preceding stage event or is InvalidID.
	IDStart ID
	Color   draw.Color
	// Comm is the owning process label, usually "name-pid".
	Comm string
	// Context is the key of the graphics context the event belongs to.
	Context string
	// RowSeq is the sequence number of the event within its print row.
	RowSeq uint32
	Fields []Field
}

// Field returns the value of the field with the given key or "".
func (e *Event) Field(key string) string {
	for _, f := range e.Fields {
		if f.Key == key {
			return f.Value
		}
	}
	return ""
}

// IsCompletion returns true if e ends a job chain.
func (e *Event) IsCompletion() bool {
	return e.Category == CategoryCompletion
}

// IsStage returns true if e is a submission or dispatch stage of a chain.
func (e *Event) IsStage() bool {
	return e.Category == CategoryStage
}

// IsTimeline returns true if e takes part in a job chain.
func (e *Event) IsTimeline() bool {
	return e.IsStage() || e.IsCompletion()
}

// IsPrint returns true if e carries a free text payload.
func (e *Event) IsPrint() bool {
	return e.Category == CategoryPrint
}

// ExecStart returns the timestamp at which the execution stage ending at Ts
// started.
func (e *Event) ExecStart() int64 {
	return e.Ts - e.Duration
}
