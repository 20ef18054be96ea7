package record

import (
	"sort"
	"strconv"
	"strings"
)

// RootPointer addresses the document root.
const RootPointer = "/"

// Record is one object node of a document.
type Record struct {
	Pointer string `json:"pointer"`
	File    string `json:"file"`
	Value   any    `json:"value"`
}

// Extract walks value in pre-order and returns a record for every object
// node. Object keys are visited in sorted order. A document without any
// object yields no records.
func Extract(value any, file string) []Record {
	var out []Record
	walk(value, "", file, &out)
	return out
}

func walk(v any, ptr, file string, out *[]Record) {
	switch node := v.(type) {
	case map[string]any:
		addr := ptr
		if addr == "" {
			addr = RootPointer
		}
		*out = append(*out, Record{Pointer: addr, File: file, Value: DeepCopy(node)})
		for _, k := range SortedKeys(node) {
			walk(node[k], ptr+"/"+EscapeToken(k), file, out)
		}
	case []any:
		for i, elem := range node {
			walk(elem, ptr+"/"+strconv.Itoa(i), file, out)
		}
	}
}

// SortedKeys returns the keys of m in ascending order.
func SortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

var (
	escaper   = strings.NewReplacer("~", "~0", "/", "~1")
	unescaper = strings.NewReplacer("~1", "/", "~0", "~")
)

// EscapeToken escapes a key for use as a pointer reference token.
func EscapeToken(key string) string {
	return escaper.Replace(key)
}

// UnescapeToken reverses EscapeToken.
func UnescapeToken(token string) string {
	return unescaper.Replace(token)
}

// Resolve returns the value at pointer within doc. Both "" and "/" address
// the root.
func Resolve(doc any, pointer string) (any, bool) {
	if pointer == "" || pointer == RootPointer {
		return doc, true
	}
	if !strings.HasPrefix(pointer, "/") {
		return nil, false
	}

	cur := doc
	for _, tok := range strings.Split(pointer[1:], "/") {
		tok = UnescapeToken(tok)
		switch node := cur.(type) {
		case map[string]any:
			next, ok := node[tok]
			if !ok {
				return nil, false
			}
			cur = next
		case []any:
			i, ok := arrayIndex(tok, len(node))
			if !ok {
				return nil, false
			}
			cur = node[i]
		default:
			return nil, false
		}
	}
	return cur, true
}

// arrayIndex parses an RFC 6901 array index: decimal, no leading zeros.
func arrayIndex(tok string, n int) (int, bool) {
	if tok == "" || (len(tok) > 1 && tok[0] == '0') {
		return 0, false
	}
	i, err := strconv.Atoi(tok)
	if err != nil || i < 0 || i >= n {
		return 0, false
	}
	return i, true
}

// IsAncestor reports whether a is a strict ancestor pointer of b within
// the same document.
func IsAncestor(a, b string) bool {
	if a == b {
		return false
	}
	if a == RootPointer {
		return true
	}
	return strings.HasPrefix(b, a+"/")
}

// DeepCopy returns a copy of v sharing no maps or slices with it.
func DeepCopy(v any) any {
	switch node := v.(type) {
	case map[string]any:
		m := make(map[string]any, len(node))
		for k, e := range node {
			m[k] = DeepCopy(e)
		}
		return m
	case []any:
		s := make([]any, len(node))
		for i, e := range node {
			s[i] = DeepCopy(e)
		}
		return s
	default:
		return v
	}
}
