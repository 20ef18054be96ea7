package gitignore

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMatcher_Match(t *testing.T) {
	tests := []struct {
		name     string
		patterns []string
		path     string
		isDir    bool
		expected bool
	}{
		{name: "exact filename", patterns: []string{"foo.json"}, path: "foo.json", expected: true},
		{name: "filename in subdir", patterns: []string{"foo.json"}, path: "a/b/foo.json", expected: true},
		{name: "other filename", patterns: []string{"foo.json"}, path: "bar.json", expected: false},
		{name: "extension wildcard", patterns: []string{"*.log"}, path: "logs/error.log", expected: true},
		{name: "question mark", patterns: []string{"v?.json"}, path: "v1.json", expected: true},
		{name: "question mark is one char", patterns: []string{"v?.json"}, path: "v12.json", expected: false},
		{name: "star stops at slash", patterns: []string{"data/*.json"}, path: "data/x/y.json", expected: false},
		{name: "double star crosses dirs", patterns: []string{"data/**/*.json"}, path: "data/x/y.json", expected: true},
		{name: "anchored at root", patterns: []string{"/build"}, path: "build/out.json", expected: true},
		{name: "anchored not nested", patterns: []string{"/build"}, path: "src/build", isDir: true, expected: false},
		{name: "middle slash anchors", patterns: []string{"doc/frotz"}, path: "a/doc/frotz", expected: false},
		{name: "dir only matches dir", patterns: []string{"tmp/"}, path: "tmp", isDir: true, expected: true},
		{name: "dir only skips file", patterns: []string{"tmp/"}, path: "tmp", isDir: false, expected: false},
		{name: "dir only covers contents", patterns: []string{"tmp/"}, path: "x/tmp/a.json", expected: true},
		{name: "negation re-includes", patterns: []string{"*.json", "!keep.json"}, path: "keep.json", expected: false},
		{name: "last rule wins", patterns: []string{"!keep.json", "*.json"}, path: "keep.json", expected: true},
		{name: "escaped hash", patterns: []string{`\#notes.json`}, path: "#notes.json", expected: true},
		{name: "escaped bang", patterns: []string{`\!x.json`}, path: "!x.json", expected: true},
		{name: "comment ignored", patterns: []string{"# *.json"}, path: "a.json", expected: false},
		{name: "char class", patterns: []string{"[ab].json"}, path: "b.json", expected: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := New()
			for _, p := range tt.patterns {
				m.AddPattern(p)
			}
			assert.Equal(t, tt.expected, m.Match(tt.path, tt.isDir))
		})
	}
}

func TestMatcher_SkipsBlankAndInvalid(t *testing.T) {
	m := New()
	m.AddPattern("")
	m.AddPattern("   ")
	m.AddPattern("# comment")
	m.AddPattern("/")
	m.AddPattern("[unclosed")

	assert.Equal(t, 0, m.Len())
}

func TestMatcher_Base(t *testing.T) {
	// Given: a rule loaded from a nested .gitignore
	m := New()
	m.AddPatternWithBase("*.json", "fixtures")

	// Then: it only applies beneath its directory
	assert.True(t, m.Match("fixtures/a.json", false))
	assert.True(t, m.Match("fixtures/deep/a.json", false))
	assert.False(t, m.Match("a.json", false))
	assert.False(t, m.Match("fixturesx/a.json", false))
}

func TestMatcher_AddFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".gitignore")
	require.NoError(t, os.WriteFile(path, []byte("# generated\n*.tmp.json\n\nout/\n!out/keep.json\n"), 0o644))

	m := New()
	require.NoError(t, m.AddFromFile(path, ""))

	assert.Equal(t, 3, m.Len())
	assert.True(t, m.Match("x.tmp.json", false))
	assert.True(t, m.Match("out/data.json", false))
	assert.False(t, m.Match("out/keep.json", false))
	assert.False(t, m.Match("data.json", false))
}

func TestMatcher_AddFromFile_Missing(t *testing.T) {
	err := New().AddFromFile(filepath.Join(t.TempDir(), "nope"), "")
	assert.Error(t, err)
}

func TestParsePatterns(t *testing.T) {
	got := ParsePatterns("# c\r\n*.log\r\n\n   \nbuild/  \nkeep\\ \n")
	assert.Equal(t, []string{"*.log", "build/  ", `keep\ `}, got)
}
