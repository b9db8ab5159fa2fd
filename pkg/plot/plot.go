// Package plot extracts numeric series from event payloads for plot rows.
package plot

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/felixge/tracegraph/pkg/events"
	"github.com/felixge/tracegraph/pkg/timeaxis"
)

const (
	// DurationPattern sources the series from the event durations, in
	// milliseconds, instead of scanning payloads.
	DurationPattern = "$duration"
	// Placeholder marks the position of the number in a pattern.
	Placeholder = "%f"
	// PayloadField is the event field patterns are matched against.
	PayloadField = "buf"
	// RowPrefix is prepended to plot names to form their row name.
	RowPrefix = "plot:"

	// NoIndex is returned by FindIndex when there is no sample at or before
	// the given time.
	NoIndex = -1
)

var (
	// ErrNoPlaceholder is returned for an empty pattern.
	ErrNoPlaceholder = errors.New("plot pattern has no prefix or placeholder")
	// ErrNoData is returned when no event yields a value.
	ErrNoData = errors.New("no plot data values found")
)

// Pattern is a parsed scan pattern.
type Pattern struct {
	// Prefix is the literal text before the number.
	Prefix string
}

// ParsePattern parses a scan pattern like "frametime=%f". A pattern without
// a placeholder is taken as a prefix that is followed by the number.
func ParsePattern(s string) (Pattern, error) {
	if prefix, _, ok := strings.Cut(s, Placeholder); ok {
		return Pattern{Prefix: prefix}, nil
	}
	if s == "" {
		return Pattern{}, ErrNoPlaceholder
	}
	return Pattern{Prefix: s}, nil
}

// Match is the result of a successful Pattern.Match.
type Match struct {
	Val float64
	// Start and End are the byte offsets of the number within the payload.
	Start, End int
}

// Match finds the first case insensitive occurrence of the prefix in buf and
// parses the number following it.
func (p Pattern) Match(buf string) (Match, bool) {
	i := indexFold(buf, p.Prefix)
	if i < 0 {
		return Match{}, false
	}
	start := i + len(p.Prefix)
	val, n := parseFloatPrefix(buf[start:])
	if n == 0 {
		return Match{}, false
	}
	return Match{Val: val, Start: start, End: start + n}, true
}

// indexFold is strings.Index with ASCII case folding.
func indexFold(s, substr string) int {
	n := len(substr)
	for i := 0; i+n <= len(s); i++ {
		if equalFoldASCII(s[i:i+n], substr) {
			return i
		}
	}
	return -1
}

func equalFoldASCII(a, b string) bool {
	for i := 0; i < len(a); i++ {
		if lower(a[i]) != lower(b[i]) {
			return false
		}
	}
	return true
}

func lower(c byte) byte {
	if 'A' <= c && c <= 'Z' {
		return c + 'a' - 'A'
	}
	return c
}

// parseFloatPrefix parses the longest decimal float at the start of s after
// optional leading white space. It returns the number of bytes consumed, 0 if
// there is no number.
func parseFloatPrefix(s string) (float64, int) {
	i := 0
	for i < len(s) && isSpace(s[i]) {
		i++
	}
	start := i
	if i < len(s) && (s[i] == '+' || s[i] == '-') {
		i++
	}
	digits := 0
	for i < len(s) && isDigit(s[i]) {
		i++
		digits++
	}
	if i < len(s) && s[i] == '.' {
		i++
		for i < len(s) && isDigit(s[i]) {
			i++
			digits++
		}
	}
	if digits == 0 {
		return 0, 0
	}
	// An exponent only counts if it has digits.
	if i < len(s) && (s[i] == 'e' || s[i] == 'E') {
		j := i + 1
		if j < len(s) && (s[j] == '+' || s[j] == '-') {
			j++
		}
		if j < len(s) && isDigit(s[j]) {
			for j < len(s) && isDigit(s[j]) {
				j++
			}
			i = j
		}
	}
	v, err := strconv.ParseFloat(s[start:i], 64)
	if err != nil {
		// Out of range values saturate like strtof.
		var numErr *strconv.NumError
		if !errors.As(err, &numErr) || numErr.Err != strconv.ErrRange {
			return 0, 0
		}
	}
	return v, i
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\v' || c == '\f' || c == '\r'
}

func isDigit(c byte) bool {
	return '0' <= c && c <= '9'
}

// Sample is a single value of a series.
type Sample struct {
	Ts  int64
	ID  events.ID
	Val float64
}

// Series is a plot: the values extracted from the events matching a filter,
// sorted by timestamp.
type Series struct {
	Name    string
	Filter  string
	Scan    string
	Samples []Sample
	// Min and Max are the extreme values of all samples.
	Min, Max float64
}

// Build evaluates filterExpr and extracts a value from each matching event
// using the scan pattern. Events that don't match the pattern are skipped.
func Build(s *events.Store, f events.Filter, name, filterExpr, scan string) (*Series, error) {
	locs, err := f.Locs(filterExpr)
	if err != nil {
		return nil, fmt.Errorf("plot %q: %w", name, err)
	}
	series := &Series{Name: name, Filter: filterExpr, Scan: scan, Min: math.Inf(1), Max: math.Inf(-1)}
	if scan == DurationPattern {
		for _, id := range locs {
			e := s.Get(id)
			series.add(e.Ts, e.ID, float64(e.Duration)/float64(timeaxis.NsPerMs))
		}
	} else {
		p, err := ParsePattern(scan)
		if err != nil {
			return nil, fmt.Errorf("plot %q: %w", name, err)
		}
		for _, id := range locs {
			e := s.Get(id)
			if m, ok := p.Match(e.Field(PayloadField)); ok {
				series.add(e.Ts, e.ID, m.Val)
			}
		}
	}
	if len(series.Samples) == 0 {
		return nil, fmt.Errorf("plot %q: %w", name, ErrNoData)
	}
	return series, nil
}

func (s *Series) add(ts int64, id events.ID, v float64) {
	s.Samples = append(s.Samples, Sample{Ts: ts, ID: id, Val: v})
	s.Min = min(s.Min, v)
	s.Max = max(s.Max, v)
}

// Len returns the number of samples.
func (s *Series) Len() int {
	return len(s.Samples)
}

// FindIndex returns the index of the last sample at or before ts, or NoIndex
// if ts is before the first sample.
func (s *Series) FindIndex(ts int64) int {
	return sort.Search(len(s.Samples), func(i int) bool { return s.Samples[i].Ts > ts }) - 1
}

// Locs returns the ids of the sampled events.
func (s *Series) Locs() []events.ID {
	locs := make([]events.ID, len(s.Samples))
	for i, sample := range s.Samples {
		locs[i] = sample.ID
	}
	return locs
}

// RowName returns the row name of the series.
func (s *Series) RowName() string {
	return RowPrefix + s.Name
}
