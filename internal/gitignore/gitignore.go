package gitignore

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// Matcher holds compiled gitignore rules. It is not safe for concurrent
// mutation; directory walks add rules and match from one goroutine.
type Matcher struct {
	rules []rule
}

type rule struct {
	glob    string // doublestar pattern relative to base
	negate  bool
	dirOnly bool
	base    string // slash-separated directory the rule is scoped to
}

// New creates an empty Matcher.
func New() *Matcher {
	return &Matcher{}
}

// Len returns the number of compiled rules.
func (m *Matcher) Len() int {
	return len(m.rules)
}

// AddPattern adds a rule that applies from the walk root.
func (m *Matcher) AddPattern(pattern string) {
	m.AddPatternWithBase(pattern, "")
}

// AddPatternWithBase adds a rule scoped to paths under base.
// Blank lines, comments and patterns doublestar rejects are ignored.
func (m *Matcher) AddPatternWithBase(line, base string) {
	r, ok := compile(line)
	if !ok {
		return
	}
	r.base = strings.Trim(filepath.ToSlash(base), "/")
	m.rules = append(m.rules, r)
}

func compile(line string) (rule, bool) {
	var r rule

	p := strings.TrimRight(line, " \t\r")
	// "foo\ " keeps its trailing space; doublestar reads "\ " as a literal.
	if strings.HasSuffix(p, `\`) && len(line) > len(p) && line[len(p)] == ' ' {
		p += " "
	}
	if p == "" || strings.HasPrefix(p, "#") {
		return r, false
	}

	switch {
	case strings.HasPrefix(p, `\#`), strings.HasPrefix(p, `\!`):
		p = p[1:]
	case strings.HasPrefix(p, "!"):
		r.negate = true
		p = p[1:]
	}

	if strings.HasSuffix(p, "/") {
		r.dirOnly = true
		p = strings.TrimRight(p, "/")
	}
	if p == "" {
		return r, false
	}

	// A slash anywhere but the end anchors the pattern to its base.
	if strings.Contains(p, "/") {
		r.glob = strings.TrimPrefix(p, "/")
	} else {
		r.glob = "**/" + p
	}

	if !doublestar.ValidatePattern(r.glob) {
		return r, false
	}
	return r, true
}

// AddFromFile reads rules from a gitignore file scoped to base.
func (m *Matcher) AddFromFile(path, base string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read gitignore file: %w", err)
	}
	for _, line := range ParsePatterns(string(data)) {
		m.AddPatternWithBase(line, base)
	}
	return nil
}

// Match reports whether path, relative to the walk root, is ignored.
// A path inside an ignored directory is ignored too.
func (m *Matcher) Match(path string, isDir bool) bool {
	path = strings.Trim(filepath.ToSlash(path), "/")

	ignored := false
	for _, r := range m.rules {
		if r.matches(path, isDir) {
			ignored = !r.negate
		}
	}
	return ignored
}

func (r rule) matches(path string, isDir bool) bool {
	rel := path
	if r.base != "" {
		if !strings.HasPrefix(path, r.base+"/") {
			return false
		}
		rel = path[len(r.base)+1:]
	}

	parts := strings.Split(rel, "/")
	for i := range parts {
		dir := i < len(parts)-1 || isDir
		if r.dirOnly && !dir {
			continue
		}
		if ok, _ := doublestar.Match(r.glob, strings.Join(parts[:i+1], "/")); ok {
			return true
		}
	}
	return false
}

// ParsePatterns returns the non-blank, non-comment lines of gitignore
// content. Lines keep their spaces; compile strips unescaped trailing ones.
func ParsePatterns(content string) []string {
	var patterns []string
	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimSuffix(line, "\r")
		if strings.TrimSpace(line) == "" || strings.HasPrefix(line, "#") {
			continue
		}
		patterns = append(patterns, line)
	}
	return patterns
}
