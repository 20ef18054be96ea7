// Package gitignore matches paths against gitignore rules.
//
// Patterns are translated into doublestar globs when added, so matching
// is a walk over the path's prefixes with doublestar.Match. Rules apply in
// order and the last matching rule wins, which is how negation works.
//
//	m := gitignore.New()
//	m.AddPattern("*.log")
//	m.AddPattern("!keep.log")
//	m.AddFromFile("fixtures/.gitignore", "fixtures")
//
//	if m.Match("fixtures/tmp/a.json", false) {
//	    // skip it
//	}
package gitignore
