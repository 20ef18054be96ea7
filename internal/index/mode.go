package index

import (
	"fmt"
	"strings"
)

// MatchMode selects how a query string is matched against records.
type MatchMode int

const (
	// Text is a conjunctive tokenized match.
	Text MatchMode = iota
	// Exact behaves like Text. It does not enforce whole-value equality.
	Exact
	// Fuzzy matches the lowercased term within edit distance 2, or as a prefix.
	Fuzzy
	// Regex matches indexed terms against a regular expression.
	Regex
)

var modeNames = [...]string{Text: "text", Exact: "exact", Fuzzy: "fuzzy", Regex: "regex"}

// String returns the flag spelling of the mode.
func (m MatchMode) String() string {
	if m < 0 || int(m) >= len(modeNames) {
		return fmt.Sprintf("MatchMode(%d)", int(m))
	}
	return modeNames[m]
}

// ParseMatchMode parses a mode name, case-insensitively.
func ParseMatchMode(s string) (MatchMode, error) {
	for i, name := range modeNames {
		if strings.EqualFold(s, name) {
			return MatchMode(i), nil
		}
	}
	return Text, fmt.Errorf("unknown match mode %q (want text, exact, fuzzy or regex)", s)
}

// MatchModeNames lists the accepted mode names.
func MatchModeNames() []string {
	return append([]string(nil), modeNames[:]...)
}
