// Package scanner discovers JSON files under a directory, honoring
// exclusion patterns and .gitignore rules.
package scanner

// FileInfo describes one discovered file.
type FileInfo struct {
	Path    string // Relative to the scan root, slash-separated
	AbsPath string // Absolute path
	Size    int64
}

// ScanOptions configures a scan.
type ScanOptions struct {
	// RootDir is the directory to scan.
	RootDir string

	// ExcludePatterns are doublestar globs matched against root-relative paths.
	ExcludePatterns []string

	// RespectGitignore enables .gitignore parsing.
	RespectGitignore bool

	// MaxFileSize skips larger files (0 = DefaultMaxFileSize).
	MaxFileSize int64

	// FollowSymlinks includes symlinked files (default: false).
	FollowSymlinks bool
}

// DefaultMaxFileSize is the default maximum file size (256MB).
const DefaultMaxFileSize = 256 * 1024 * 1024

// defaultExcludeDirs are directory names never descended into.
var defaultExcludeDirs = map[string]bool{
	".git":         true,
	".hg":          true,
	".svn":         true,
	".jsonai":      true,
	"node_modules": true,
	"vendor":       true,
	"__pycache__":  true,
	"dist":         true,
	"build":        true,
	"target":       true,
}
