package record

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decode(t *testing.T, s string) any {
	t.Helper()
	dec := json.NewDecoder(strings.NewReader(s))
	dec.UseNumber()
	var v any
	require.NoError(t, dec.Decode(&v))
	return v
}

func pointers(recs []Record) []string {
	out := make([]string, len(recs))
	for i, r := range recs {
		out[i] = r.Pointer
	}
	return out
}

func TestExtract_PreOrderSortedKeys(t *testing.T) {
	// Given: nested objects and arrays
	doc := decode(t, `{"b":{"y":1},"a":[{"x":1},2,[{"z":true}]],"c":"s"}`)

	// When: extracting
	recs := Extract(doc, "f.json")

	// Then: one record per object, root first, keys in sorted order
	assert.Equal(t, []string{"/", "/a/0", "/a/2/0", "/b"}, pointers(recs))
	for _, r := range recs {
		assert.Equal(t, "f.json", r.File)
	}
}

func TestExtract_NoObjects(t *testing.T) {
	for _, in := range []string{`42`, `"s"`, `null`, `[1,2,[3]]`, `[]`} {
		t.Run(in, func(t *testing.T) {
			assert.Empty(t, Extract(decode(t, in), "f"))
		})
	}
}

func TestExtract_RootArrayOfObjects(t *testing.T) {
	recs := Extract(decode(t, `[{"a":1},{"a":2}]`), "f")
	assert.Equal(t, []string{"/0", "/1"}, pointers(recs))
}

func TestExtract_EscapesKeys(t *testing.T) {
	recs := Extract(decode(t, `{"a/b":{"c~d":{"k":1}}}`), "f")
	assert.Equal(t, []string{"/", "/a~1b", "/a~1b/c~0d"}, pointers(recs))
}

func TestExtract_ValuesAreCopies(t *testing.T) {
	doc := decode(t, `{"a":{"x":1}}`)
	recs := Extract(doc, "f")

	recs[1].Value.(map[string]any)["x"] = "changed"

	inner := doc.(map[string]any)["a"].(map[string]any)
	assert.Equal(t, json.Number("1"), inner["x"])
}

func TestPointerRoundTrip(t *testing.T) {
	// Every extracted pointer resolves to exactly the stored value.
	docs := []string{
		`{"a":{"x":1},"b":{"x":2}}`,
		`{"users":[{"name":"ann","tags":[{"t":"x"}]},{"name":"bob"}],"meta":{"v":1.5}}`,
		`{"a/b":{"~":{"":{"deep":null}}},"arr":[[{"k":[]}]]}`,
		`[{"a":{}},{"b":[{"c":{}}]}]`,
	}
	for _, in := range docs {
		t.Run(in, func(t *testing.T) {
			doc := decode(t, in)
			recs := Extract(doc, "f")
			require.NotEmpty(t, recs)
			for _, r := range recs {
				got, ok := Resolve(doc, r.Pointer)
				require.True(t, ok, r.Pointer)
				assert.Equal(t, r.Value, got, r.Pointer)
			}
		})
	}
}

func TestResolve(t *testing.T) {
	doc := decode(t, `{"a":[10,{"b":"c"}],"x/y":1,"":"empty"}`)

	tests := []struct {
		ptr  string
		want any
		ok   bool
	}{
		{"", doc, true},
		{"/", doc, true},
		{"/a/0", json.Number("10"), true},
		{"/a/1/b", "c", true},
		{"/x~1y", json.Number("1"), true},
		{"/a/01", nil, false},
		{"/a/2", nil, false},
		{"/a/-", nil, false},
		{"/missing", nil, false},
		{"/a/1/b/c", nil, false},
		{"a", nil, false},
	}
	for _, tt := range tests {
		t.Run(tt.ptr, func(t *testing.T) {
			got, ok := Resolve(doc, tt.ptr)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

func TestEscapeToken(t *testing.T) {
	tests := []struct{ raw, escaped string }{
		{"plain", "plain"},
		{"a/b", "a~1b"},
		{"a~b", "a~0b"},
		{"~1", "~01"},
		{"/~", "~1~0"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.escaped, EscapeToken(tt.raw))
		assert.Equal(t, tt.raw, UnescapeToken(tt.escaped))
	}
}

func TestIsAncestor(t *testing.T) {
	assert.True(t, IsAncestor("/", "/a"))
	assert.True(t, IsAncestor("/a", "/a/b"))
	assert.False(t, IsAncestor("/a", "/a"))
	assert.False(t, IsAncestor("/a", "/ab"))
	assert.False(t, IsAncestor("/a/b", "/a"))
	assert.False(t, IsAncestor("/", "/"))
}
