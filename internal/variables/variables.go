// Package variables extracts {placeholder} names from translated strings.
package variables

import (
	"regexp"
	"sort"
	"strings"
)

var placeholder = regexp.MustCompile(`\{([^{}]+)\}`)

// Set is an unordered set of placeholder names.
type Set map[string]struct{}

// Extract returns the distinct placeholder names in text. Names are the trimmed
// text between a matching pair of braces; unbalanced braces are ignored.
func Extract(text string) Set {
	set := make(Set)
	for _, m := range placeholder.FindAllStringSubmatch(text, -1) {
		name := strings.TrimSpace(m[1])
		if name == "" {
			continue
		}
		set[name] = struct{}{}
	}
	return set
}

// Equal reports whether s and other hold the same names.
func (s Set) Equal(other Set) bool {
	if len(s) != len(other) {
		return false
	}
	for name := range s {
		if _, ok := other[name]; !ok {
			return false
		}
	}
	return true
}

// Sorted returns the names in ascending order.
func (s Set) Sorted() []string {
	names := make([]string, 0, len(s))
	for name := range s {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
