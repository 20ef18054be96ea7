package search

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Aman-CERP/jsonai/internal/index"
	"github.com/Aman-CERP/jsonai/internal/record"
)

func hit(file, ptr string) index.Hit {
	return index.Hit{Record: record.Record{File: file, Pointer: ptr}, Score: 1}
}

func ptrs(hits []index.Hit) []string {
	out := make([]string, len(hits))
	for i, h := range hits {
		out[i] = h.Record.File + ":" + h.Record.Pointer
	}
	return out
}

func TestDedup(t *testing.T) {
	tests := []struct {
		name string
		in   []index.Hit
		want []string
	}{
		{
			name: "root subsumed by child",
			in:   []index.Hit{hit("f", "/"), hit("f", "/a")},
			want: []string{"f:/a"},
		},
		{
			name: "chain keeps innermost",
			in:   []index.Hit{hit("f", "/a/b/c"), hit("f", "/a"), hit("f", "/a/b")},
			want: []string{"f:/a/b/c"},
		},
		{
			name: "siblings kept",
			in:   []index.Hit{hit("f", "/a"), hit("f", "/b")},
			want: []string{"f:/a", "f:/b"},
		},
		{
			name: "shared string prefix is not ancestry",
			in:   []index.Hit{hit("f", "/a"), hit("f", "/ab")},
			want: []string{"f:/a", "f:/ab"},
		},
		{
			name: "other file does not subsume",
			in:   []index.Hit{hit("f", "/"), hit("g", "/a")},
			want: []string{"f:/", "g:/a"},
		},
		{
			name: "duplicates are not ancestors",
			in:   []index.Hit{hit("f", "/a"), hit("f", "/a")},
			want: []string{"f:/a", "f:/a"},
		},
		{
			name: "empty",
			in:   nil,
			want: []string{},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ptrs(Dedup(tt.in)))
		})
	}
}

func TestDedup_Idempotent(t *testing.T) {
	in := []index.Hit{
		hit("f", "/"), hit("f", "/users/0"), hit("f", "/users/0/addr"),
		hit("f", "/users/1"), hit("g", "/"), hit("g", "/x~1y"), hit("g", "/x"),
	}

	once := Dedup(in)
	twice := Dedup(once)

	assert.Equal(t, ptrs(once), ptrs(twice))
	assert.Equal(t, []string{"f:/users/0/addr", "f:/users/1", "g:/x~1y", "g:/x"}, ptrs(once))
}

func TestDedup_OnlyRemovesAncestors(t *testing.T) {
	in := []index.Hit{hit("f", "/"), hit("f", "/a"), hit("f", "/a/0"), hit("f", "/b"), hit("g", "/c")}
	out := Dedup(in)

	kept := make(map[string]bool)
	for _, h := range out {
		kept[h.Record.File+":"+h.Record.Pointer] = true
	}
	for _, h := range in {
		if kept[h.Record.File+":"+h.Record.Pointer] {
			continue
		}
		// Every dropped hit has a same-file descendant in the input.
		found := false
		for _, o := range in {
			if o.Record.File == h.Record.File && record.IsAncestor(h.Record.Pointer, o.Record.Pointer) {
				found = true
			}
		}
		assert.True(t, found, h.Record.Pointer)
	}
}
