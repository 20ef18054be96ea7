package scanner

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/Aman-CERP/jsonai/internal/gitignore"
)

// gitignoreCacheSize bounds the number of parsed .gitignore files kept.
const gitignoreCacheSize = 1000

// Scanner discovers JSON files in a directory tree.
// Scans are sequential; a Scanner must not be shared between goroutines.
type Scanner struct {
	// gitignoreCache maps a directory to its parsed .gitignore, or nil
	// when the directory has none.
	gitignoreCache *lru.Cache[string, *gitignore.Matcher]
}

// New creates a new Scanner instance.
func New() (*Scanner, error) {
	cache, err := lru.New[string, *gitignore.Matcher](gitignoreCacheSize)
	if err != nil {
		return nil, fmt.Errorf("failed to create gitignore cache: %w", err)
	}
	return &Scanner{gitignoreCache: cache}, nil
}

// Scan walks opts.RootDir and returns every *.json file in lexical order.
// Unreadable entries are skipped.
func (s *Scanner) Scan(ctx context.Context, opts *ScanOptions) ([]FileInfo, error) {
	if opts == nil {
		opts = &ScanOptions{}
	}
	rootDir := opts.RootDir
	if rootDir == "" {
		rootDir = "."
	}

	absRoot, err := filepath.Abs(rootDir)
	if err != nil {
		return nil, fmt.Errorf("failed to get absolute path: %w", err)
	}
	info, err := os.Stat(absRoot)
	if err != nil {
		return nil, fmt.Errorf("failed to stat root directory: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("root path is not a directory: %s", absRoot)
	}

	maxFileSize := opts.MaxFileSize
	if maxFileSize <= 0 {
		maxFileSize = DefaultMaxFileSize
	}

	var files []FileInfo
	err = filepath.WalkDir(absRoot, func(path string, d fs.DirEntry, walkErr error) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		if walkErr != nil {
			slog.Debug("scan_entry_unreadable", slog.String("path", path), slog.String("error", walkErr.Error()))
			return nil
		}

		rel, err := filepath.Rel(absRoot, path)
		if err != nil || rel == "." {
			return nil
		}
		rel = filepath.ToSlash(rel)

		if d.IsDir() {
			if s.excludeDir(rel, d.Name(), absRoot, opts) {
				return filepath.SkipDir
			}
			return nil
		}

		if d.Type()&fs.ModeSymlink != 0 && !opts.FollowSymlinks {
			return nil
		}
		if !strings.EqualFold(filepath.Ext(rel), ".json") {
			return nil
		}
		if matchesAny(rel, opts.ExcludePatterns) {
			return nil
		}
		if opts.RespectGitignore && s.isGitignored(rel, absRoot, false) {
			return nil
		}

		fi, err := os.Stat(path)
		if err != nil || fi.IsDir() {
			return nil
		}
		if fi.Size() > maxFileSize {
			slog.Warn("file_too_large", slog.String("file", rel), slog.Int64("size", fi.Size()))
			return nil
		}

		files = append(files, FileInfo{Path: rel, AbsPath: path, Size: fi.Size()})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return files, nil
}

func (s *Scanner) excludeDir(rel, name, absRoot string, opts *ScanOptions) bool {
	if defaultExcludeDirs[name] {
		return true
	}
	if matchesAny(rel, opts.ExcludePatterns) {
		return true
	}
	return opts.RespectGitignore && s.isGitignored(rel, absRoot, true)
}

// matchesAny reports whether rel, or "rel/" for patterns like "dir/**",
// matches one of the globs.
func matchesAny(rel string, patterns []string) bool {
	for _, p := range patterns {
		if ok, _ := doublestar.Match(p, rel); ok {
			return true
		}
		if ok, _ := doublestar.Match(p, rel+"/"); ok {
			return true
		}
	}
	return false
}

// isGitignored consults the .gitignore of the root and of every directory
// between the root and rel.
func (s *Scanner) isGitignored(rel, absRoot string, isDir bool) bool {
	if m := s.matcherFor(absRoot, ""); m != nil && m.Match(rel, isDir) {
		return true
	}

	parts := strings.Split(rel, "/")
	dir := absRoot
	base := ""
	for _, part := range parts[:len(parts)-1] {
		dir = filepath.Join(dir, part)
		if base == "" {
			base = part
		} else {
			base = base + "/" + part
		}
		if m := s.matcherFor(dir, base); m != nil && m.Match(rel, isDir) {
			return true
		}
	}
	return false
}

// matcherFor returns the cached matcher for dir, parsing its .gitignore
// on first use.
func (s *Scanner) matcherFor(dir, base string) *gitignore.Matcher {
	if m, ok := s.gitignoreCache.Get(dir); ok {
		return m
	}

	var m *gitignore.Matcher
	path := filepath.Join(dir, ".gitignore")
	if _, err := os.Stat(path); err == nil {
		m = gitignore.New()
		if err := m.AddFromFile(path, base); err != nil {
			slog.Warn("gitignore_unreadable", slog.String("file", path), slog.String("error", err.Error()))
			m = nil
		}
	}
	s.gitignoreCache.Add(dir, m)
	return m
}
