// Package loader reads JSON documents from files, directories, globs and
// standard input.
package loader

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	jerrors "github.com/Aman-CERP/jsonai/internal/errors"
	"github.com/Aman-CERP/jsonai/internal/scanner"
)

// StdinToken is the input argument that selects standard input.
const StdinToken = "-"

// StdinLabel is the file label given to a document read from stdin.
const StdinLabel = "stdin"

// Document is one decoded JSON value and the label of its source.
type Document struct {
	File  string
	Value any
}

// Options configures directory traversal.
type Options struct {
	ExcludePatterns  []string
	RespectGitignore bool
}

// Loader resolves an input argument into documents.
type Loader struct {
	stdin   io.Reader
	scanner *scanner.Scanner
	opts    Options
	logger  *slog.Logger
}

// New creates a Loader reading "-" from stdin.
func New(stdin io.Reader, opts Options, logger *slog.Logger) (*Loader, error) {
	sc, err := scanner.New()
	if err != nil {
		return nil, jerrors.InternalError("failed to create scanner", err)
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Loader{stdin: stdin, scanner: sc, opts: opts, logger: logger}, nil
}

// Load resolves input and returns its documents. A single file or stdin
// must parse; in directory and glob mode unreadable files are skipped
// with a warning as long as one file loads.
func (l *Loader) Load(ctx context.Context, input string) ([]Document, error) {
	if input == StdinToken {
		v, err := Decode(l.stdin)
		if err != nil {
			return nil, jerrors.InvalidJSONError("invalid JSON from stdin", err)
		}
		return []Document{{File: StdinLabel, Value: v}}, nil
	}

	info, err := os.Stat(input)
	switch {
	case err == nil && !info.IsDir():
		doc, err := ReadFile(input)
		if err != nil {
			return nil, err
		}
		return []Document{doc}, nil
	case err == nil:
		return l.loadDir(ctx, input)
	default:
		if !hasMeta(input) {
			return nil, jerrors.InputError(fmt.Sprintf("input %s not found", input), err)
		}
		return l.loadGlob(input)
	}
}

func (l *Loader) loadDir(ctx context.Context, dir string) ([]Document, error) {
	files, err := l.scanner.Scan(ctx, &scanner.ScanOptions{
		RootDir:          dir,
		ExcludePatterns:  l.opts.ExcludePatterns,
		RespectGitignore: l.opts.RespectGitignore,
	})
	if err != nil {
		return nil, jerrors.InputError(fmt.Sprintf("failed to scan %s", dir), err)
	}

	paths := make([]string, len(files))
	for i, f := range files {
		paths[i] = filepath.Join(dir, filepath.FromSlash(f.Path))
	}
	return l.loadAll(paths, dir)
}

func (l *Loader) loadGlob(pattern string) ([]Document, error) {
	matches, err := doublestar.FilepathGlob(pattern, doublestar.WithFilesOnly())
	if err != nil {
		return nil, jerrors.InputError(fmt.Sprintf("invalid glob pattern %s", pattern), err)
	}
	return l.loadAll(matches, pattern)
}

func (l *Loader) loadAll(paths []string, source string) ([]Document, error) {
	var docs []Document
	for _, p := range paths {
		doc, err := ReadFile(p)
		if err != nil {
			l.logger.Warn("file_skipped", append([]any{slog.String("file", p)}, jerrors.LogAttrs(err)...)...)
			continue
		}
		docs = append(docs, doc)
	}

	if len(docs) == 0 {
		return nil, jerrors.New(jerrors.ErrCodeNoInputFiles,
			fmt.Sprintf("no JSON files found matching %s", source), nil)
	}
	l.logger.Debug("files_loaded", slog.Int("loaded", len(docs)), slog.Int("candidates", len(paths)))
	return docs, nil
}

// ReadFile reads and decodes one JSON file. The path is the file label.
func ReadFile(path string) (Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Document{}, jerrors.InputError(fmt.Sprintf("failed to read %s", path), err)
	}
	v, err := Decode(bytes.NewReader(data))
	if err != nil {
		return Document{}, jerrors.InvalidJSONError(fmt.Sprintf("invalid JSON in %s", path), err).
			WithDetail("file", path)
	}
	return Document{File: path, Value: v}, nil
}

// ReadInput reads one document from a file path or, for "-", from stdin.
func ReadInput(input string, stdin io.Reader) (Document, error) {
	if input != StdinToken {
		return ReadFile(input)
	}
	v, err := Decode(stdin)
	if err != nil {
		return Document{}, jerrors.InvalidJSONError("invalid JSON from stdin", err)
	}
	return Document{File: StdinLabel, Value: v}, nil
}

// Decode reads exactly one JSON value from r, keeping numbers as
// json.Number.
func Decode(r io.Reader) (any, error) {
	dec := json.NewDecoder(r)
	dec.UseNumber()

	var v any
	if err := dec.Decode(&v); err != nil {
		if err == io.EOF {
			return nil, fmt.Errorf("empty input")
		}
		return nil, err
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, fmt.Errorf("unexpected data after the JSON value")
	}
	return v, nil
}

func hasMeta(path string) bool {
	return strings.ContainsAny(path, "*?[{")
}
