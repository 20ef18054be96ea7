package output

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/Aman-CERP/jsonai/internal/index"
	"github.com/Aman-CERP/jsonai/internal/record"
	"github.com/Aman-CERP/jsonai/internal/search"
)

// ReservedBytes is held back from a byte budget for the envelope.
const ReservedBytes = 200

// Mode selects the shape of each result item.
type Mode int

const (
	// Match emits the (projected) record value.
	Match Mode = iota
	// Hit emits {file, pointer, record, score}.
	Hit
	// Value emits the scalar values directly under each record.
	Value
)

var modeNames = [...]string{Match: "match", Hit: "hit", Value: "value"}

func (m Mode) String() string {
	if m < 0 || int(m) >= len(modeNames) {
		return fmt.Sprintf("Mode(%d)", int(m))
	}
	return modeNames[m]
}

// ParseMode parses an output mode name, case-insensitively.
func ParseMode(s string) (Mode, error) {
	for i, name := range modeNames {
		if strings.EqualFold(s, name) {
			return Mode(i), nil
		}
	}
	return Match, fmt.Errorf("unknown output mode %q (want match, hit or value)", s)
}

// Options controls materialization.
type Options struct {
	Mode   Mode
	Limit  int
	Offset int
	// Select keeps only these top-level keys of object values.
	Select []string
	Bare   bool
	// CountOnly reports the total without a payload.
	CountOnly bool
	// MaxBytes bounds the serialized items. Zero means unlimited.
	MaxBytes  int
	Threshold int
	// Pretty must match the writer so item sizes are measured as printed.
	Pretty bool
}

// Meta describes one response.
type Meta struct {
	Total         int  `json:"total"`
	Returned      int  `json:"returned"`
	Limit         int  `json:"limit"`
	Truncated     bool `json:"truncated"`
	Overflow      bool `json:"overflow,omitempty"`
	Threshold     *int `json:"threshold,omitempty"`
	FilesSearched *int `json:"files_searched,omitempty"`
}

// Envelope is the non-bare response. Results carries match and value
// items, Hits carries hit items, Plan is set on overflow.
type Envelope struct {
	Meta    Meta               `json:"meta"`
	Results *[]json.RawMessage `json:"results,omitempty"`
	Hits    *[]json.RawMessage `json:"hits,omitempty"`
	Plan    *search.Plan       `json:"plan,omitempty"`
}

// HitItem is one item in hit mode.
type HitItem struct {
	File    string  `json:"file"`
	Pointer string  `json:"pointer"`
	Record  any     `json:"record"`
	Score   float64 `json:"score"`
}

// Render turns a search result into the value to print: an *Envelope, a
// bare []json.RawMessage, or the bare total as an int.
func Render(res *search.Result, opts Options) (any, error) {
	files := res.FilesSearched

	if opts.CountOnly && opts.Bare {
		return res.Total, nil
	}

	if res.Overflow {
		threshold := opts.Threshold
		empty := []json.RawMessage{}
		return &Envelope{
			Meta: Meta{
				Total:         res.Total,
				Returned:      0,
				Limit:         opts.Limit,
				Truncated:     res.Total > 0,
				Overflow:      true,
				Threshold:     &threshold,
				FilesSearched: &files,
			},
			Results: &empty,
			Plan:    res.Plan,
		}, nil
	}

	if opts.CountOnly {
		return &Envelope{Meta: Meta{
			Total:         res.Total,
			Returned:      0,
			Limit:         opts.Limit,
			FilesSearched: &files,
		}}, nil
	}

	hits := Window(res.Hits, opts.Offset, opts.Limit)
	items, err := Items(hits, opts)
	if err != nil {
		return nil, err
	}
	// Items print one level deep in a bare array and two in the envelope.
	depth := 2
	if opts.Bare {
		depth = 1
	}
	kept, cut := Budget(items, opts.MaxBytes, depth)

	if opts.Bare {
		return kept, nil
	}

	env := &Envelope{Meta: Meta{
		Total:         res.Total,
		Returned:      len(kept),
		Limit:         opts.Limit,
		Truncated:     opts.Limit < res.Total || res.Capped || cut,
		FilesSearched: &files,
	}}
	if opts.Mode == Hit {
		env.Hits = &kept
	} else {
		env.Results = &kept
	}
	return env, nil
}

// Window skips offset hits when 0 < offset < len(hits), then keeps at
// most limit.
func Window(hits []index.Hit, offset, limit int) []index.Hit {
	if offset > 0 && offset < len(hits) {
		hits = hits[offset:]
	}
	if limit >= 0 && len(hits) > limit {
		hits = hits[:limit]
	}
	return hits
}

// Items serializes each hit in its final form.
func Items(hits []index.Hit, opts Options) ([]json.RawMessage, error) {
	var values []any
	for _, h := range hits {
		switch opts.Mode {
		case Hit:
			values = append(values, HitItem{
				File:    h.Record.File,
				Pointer: h.Record.Pointer,
				Record:  Project(h.Record.Value, opts.Select),
				Score:   h.Score,
			})
		case Value:
			values = append(values, ScalarValues(h.Record.Value)...)
		default:
			values = append(values, Project(h.Record.Value, opts.Select))
		}
	}

	items := make([]json.RawMessage, 0, len(values))
	for _, v := range values {
		data, err := Encode(v, opts.Pretty)
		if err != nil {
			return nil, fmt.Errorf("failed to serialize result: %w", err)
		}
		items = append(items, data)
	}
	return items, nil
}

// Budget keeps the longest prefix of items whose total size fits in
// maxBytes minus ReservedBytes. Sizes are taken as printed at depth
// levels of two-space indentation; compact items have no newlines and
// measure the same at any depth. The first item is always kept. cut is set
// when an item was dropped.
func Budget(items []json.RawMessage, maxBytes, depth int) (kept []json.RawMessage, cut bool) {
	if maxBytes <= 0 {
		return items, false
	}
	available := maxBytes - ReservedBytes
	used := 0
	for i, it := range items {
		size := PrintedSize(it, depth)
		if i > 0 && used+size > available {
			return items[:i], true
		}
		used += size
	}
	return items, false
}

// PrintedSize is the length of item once every line after the first is
// indented by depth more levels.
func PrintedSize(item json.RawMessage, depth int) int {
	return len(item) + bytes.Count(item, []byte{'\n'})*2*depth
}

// Project keeps only the selected top-level keys of an object. Other
// values and an empty selection pass through.
func Project(v any, keys []string) any {
	obj, ok := v.(map[string]any)
	if !ok || len(keys) == 0 {
		return v
	}
	out := make(map[string]any, len(keys))
	for _, k := range keys {
		if val, ok := obj[k]; ok {
			out[k] = val
		}
	}
	return out
}

// ScalarValues lists the string, number and boolean values directly under
// an object in key order. Any other value is returned alone.
func ScalarValues(v any) []any {
	obj, ok := v.(map[string]any)
	if !ok {
		return []any{v}
	}
	var out []any
	for _, k := range record.SortedKeys(obj) {
		if _, ok := record.ScalarText(obj[k]); ok {
			out = append(out, obj[k])
		}
	}
	return out
}

// ParseSelect splits a comma-separated key list, dropping blanks.
func ParseSelect(s string) []string {
	var keys []string
	for _, k := range strings.Split(s, ",") {
		if k = strings.TrimSpace(k); k != "" {
			keys = append(keys, k)
		}
	}
	return keys
}
