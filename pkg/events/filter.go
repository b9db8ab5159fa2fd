package events

import (
	"errors"
	"fmt"
	"strings"
)

// Filter evaluates a filter expression to the sorted ids of the matching
// events. A nil result with a nil error means nothing matched.
type Filter interface {
	Locs(expr string) ([]ID, error)
}

// ErrBadExpr is returned for filter expressions that can't be parsed.
var ErrBadExpr = errors.New("bad filter expression")

// FieldFilter is a small Filter that understands clauses of the form
//
//	$name = value
//	$key =~ "substring"
//
// joined by "&&". $name, $comm, $context and $category refer to event
// attributes, any other key refers to a payload field. An empty expression
// matches every event. Results are cached per expression.
type FieldFilter struct {
	store *Store
	cache map[string][]ID
}

// NewFieldFilter returns a filter over s.
func NewFieldFilter(s *Store) *FieldFilter {
	return &FieldFilter{store: s, cache: map[string][]ID{}}
}

type clause struct {
	key      string
	value    string
	contains bool
}

// Locs implements Filter.
func (f *FieldFilter) Locs(expr string) ([]ID, error) {
	if locs, ok := f.cache[expr]; ok {
		return locs, nil
	}
	clauses, err := parseClauses(expr)
	if err != nil {
		return nil, err
	}
	var locs []ID
	for i := range f.store.Events {
		e := &f.store.Events[i]
		if matchClauses(e, clauses) {
			locs = append(locs, e.ID)
		}
	}
	f.cache[expr] = locs
	return locs, nil
}

func parseClauses(expr string) ([]clause, error) {
	var clauses []clause
	if strings.TrimSpace(expr) == "" {
		return nil, nil
	}
	for _, part := range strings.Split(expr, "&&") {
		part = strings.TrimSpace(part)
		part = strings.TrimSuffix(strings.TrimPrefix(part, "("), ")")
		part = strings.TrimSpace(part)
		if !strings.HasPrefix(part, "$") {
			return nil, fmt.Errorf("%w: %q: missing $ before key", ErrBadExpr, part)
		}
		var c clause
		key, value, found := strings.Cut(part[1:], "=~")
		if found {
			c.contains = true
		} else if key, value, found = strings.Cut(part[1:], "="); !found {
			return nil, fmt.Errorf("%w: %q: missing operator", ErrBadExpr, part)
		}
		c.key = strings.TrimSpace(key)
		c.value = strings.Trim(strings.TrimSpace(value), `"`)
		if c.key == "" {
			return nil, fmt.Errorf("%w: %q: empty key", ErrBadExpr, part)
		}
		clauses = append(clauses, c)
	}
	return clauses, nil
}

func matchClauses(e *Event, clauses []clause) bool {
	for _, c := range clauses {
		var v string
		switch c.key {
		case "name":
			v = e.Name
		case "comm":
			v = e.Comm
		case "context":
			v = e.Context
		case "category":
			v = e.Category.String()
		default:
			v = e.Field(c.key)
		}
		if c.contains {
			if !strings.Contains(v, c.value) {
				return false
			}
		} else if v != c.value {
			return false
		}
	}
	return true
}
