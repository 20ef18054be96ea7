package record

import (
	"bytes"
	"encoding/json"
	"strconv"
)

// Marshal serializes v compactly with sorted keys and without HTML escaping.
func Marshal(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

// MarshalIndent is Marshal with two-space indentation.
func MarshalIndent(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

// NumberText returns the canonical text of a JSON number: integers in
// decimal, everything else as encoding/json formats a float64.
func NumberText(n json.Number) string {
	if i, err := n.Int64(); err == nil {
		return strconv.FormatInt(i, 10)
	}
	f, err := n.Float64()
	if err != nil {
		return n.String()
	}
	b, err := json.Marshal(f)
	if err != nil {
		return n.String()
	}
	return string(b)
}

// Canonical renders v as a string: strings verbatim, numbers via
// NumberText, booleans and null as their literals, containers as compact
// JSON.
func Canonical(v any) string {
	switch x := v.(type) {
	case nil:
		return "null"
	case string:
		return x
	case json.Number:
		return NumberText(x)
	case float64:
		return NumberText(json.Number(strconv.FormatFloat(x, 'g', -1, 64)))
	case bool:
		if x {
			return "true"
		}
		return "false"
	default:
		b, err := Marshal(v)
		if err != nil {
			return ""
		}
		return string(b)
	}
}

// ScalarText returns the text of a string, number or boolean leaf.
// Null and containers report false.
func ScalarText(v any) (string, bool) {
	switch v.(type) {
	case string, json.Number, float64, bool:
		return Canonical(v), true
	}
	return "", false
}

// Leaves appends the text of every scalar leaf reachable from v in
// pre-order, visiting object keys in sorted order.
func Leaves(v any, out []string) []string {
	switch x := v.(type) {
	case map[string]any:
		for _, k := range SortedKeys(x) {
			out = Leaves(x[k], out)
		}
	case []any:
		for _, e := range x {
			out = Leaves(e, out)
		}
	default:
		if s, ok := ScalarText(v); ok {
			out = append(out, s)
		}
	}
	return out
}
