package plot

import (
	"fmt"
	"strings"
	"unicode"
)

// Suggestion is a plot definition derived from an event payload.
type Suggestion struct {
	Name   string
	Filter string
	Scan   string
}

// Suggest derives a plot from a payload like "[Compositor] NewFrame idx=2776":
// everything up to the first digit becomes the scan prefix and the filter, a
// leading "[...]" tag and punctuation are dropped from the name. It returns
// false if the payload has no digit after some text.
func Suggest(payload string) (Suggestion, bool) {
	loc := strings.IndexFunc(payload, func(r rune) bool { return r >= '0' && r <= '9' })
	if loc <= 0 {
		return Suggestion{}, false
	}
	full := strings.TrimLeftFunc(payload[:loc], unicode.IsSpace)
	if full == "" {
		return Suggestion{}, false
	}

	var short string
	if full[0] == '[' {
		if _, after, ok := strings.Cut(full, "]"); ok {
			short = after
		}
	}
	if short == "" {
		short = full
	}
	name := strings.TrimSpace(strings.Map(func(r rune) rune {
		if unicode.IsPunct(r) || unicode.IsSymbol(r) {
			return -1
		}
		return r
	}, short))

	return Suggestion{
		Name:   name,
		Filter: fmt.Sprintf("$%s =~ \"%s\"", PayloadField, full),
		Scan:   full + Placeholder,
	}, true
}
