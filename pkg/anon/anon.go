// Package anon classifies Go function names by package and obfuscates the
// ones that don't belong to an allowed set of packages, usually the standard
// library.
package anon

import (
	"strings"
	"unicode"
)

// Package returns the import path of the package the function fn belongs to,
// e.g. "net/http" for "net/http.(*conn).serve".
func Package(fn string) string {
	slash := strings.LastIndexByte(fn, '/')
	dot := strings.IndexByte(fn[slash+1:], '.')
	if dot < 0 {
		return fn
	}
	return fn[:slash+1+dot]
}

// Allowed returns true if fn belongs to one of packages.
func Allowed(fn string, packages []string) bool {
	pkg := Package(fn)
	for _, p := range packages {
		if p == pkg {
			return true
		}
	}
	return false
}

// Name obfuscates the function name or file path s unless it belongs to one
// of packages. The obfuscation replaces upper and lower case letters with "X"
// and "x" respectively and keeps any ".go" suffix. For file paths ending in
// an allowed package only the part before it is obfuscated, for example
// "/home/Bob/src/runtime/proc.go" becomes "/xxxx/Xxx/src/runtime/proc.go".
func Name(s string, packages []string) string {
	if s == "" {
		return s
	}
	if s[0] != '/' {
		if Allowed(s, packages) {
			return s
		}
		return obfuscate(s)
	}

	longest := -1
	var prefix, suffix string
	for _, pkg := range packages {
		p, rest, found := strings.Cut(s, "src/"+pkg)
		if found && len(pkg) > longest && len(rest) > 1 && !strings.Contains(rest[1:], "/") {
			longest = len(pkg)
			prefix, suffix = p, "src/"+pkg+rest
		}
	}
	if longest < 0 {
		return obfuscate(s)
	}
	return obfuscate(prefix) + suffix
}

func obfuscate(s string) string {
	ext := ""
	if strings.HasSuffix(s, ".go") {
		s, ext = s[:len(s)-3], ".go"
	}
	return strings.Map(func(r rune) rune {
		switch {
		case unicode.IsUpper(r):
			return 'X'
		case unicode.IsLower(r):
			return 'x'
		}
		return r
	}, s) + ext
}
