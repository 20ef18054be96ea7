// Package fields lists the dotted field paths present in a JSON document.
package fields

import (
	"slices"

	"github.com/Aman-CERP/jsonai/internal/record"
)

// Paths returns every object key path in v, dot-joined, sorted and
// de-duplicated. Arrays contribute the paths of their first element only.
func Paths(v any) []string {
	out := []string{}
	collect(v, "", &out)
	slices.Sort(out)
	return slices.Compact(out)
}

func collect(v any, prefix string, out *[]string) {
	switch x := v.(type) {
	case map[string]any:
		for _, k := range record.SortedKeys(x) {
			path := Join(prefix, k)
			*out = append(*out, path)
			collect(x[k], path, out)
		}
	case []any:
		if len(x) > 0 {
			collect(x[0], prefix, out)
		}
	}
}

// Join appends key to a dotted prefix.
func Join(prefix, key string) string {
	if prefix == "" {
		return key
	}
	return prefix + "." + key
}
