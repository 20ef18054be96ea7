package loader

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	jerrors "github.com/Aman-CERP/jsonai/internal/errors"
)

func writeFiles(t *testing.T, root string, files map[string]string) {
	t.Helper()
	for rel, content := range files {
		path := filepath.Join(root, filepath.FromSlash(rel))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
}

func newLoader(t *testing.T, stdin string, logs *bytes.Buffer) *Loader {
	t.Helper()
	logger := slog.New(slog.NewJSONHandler(logs, &slog.HandlerOptions{Level: slog.LevelWarn}))
	l, err := New(strings.NewReader(stdin), Options{RespectGitignore: true}, logger)
	require.NoError(t, err)
	return l
}

func files(docs []Document) []string {
	out := make([]string, len(docs))
	for i, d := range docs {
		out[i] = d.File
	}
	return out
}

func TestLoad_Stdin(t *testing.T) {
	var logs bytes.Buffer
	l := newLoader(t, `{"a": 1.50}`, &logs)

	docs, err := l.Load(context.Background(), "-")
	require.NoError(t, err)
	require.Len(t, docs, 1)

	assert.Equal(t, StdinLabel, docs[0].File)
	assert.Equal(t, map[string]any{"a": json.Number("1.50")}, docs[0].Value)
}

func TestLoad_StdinInvalid(t *testing.T) {
	var logs bytes.Buffer
	l := newLoader(t, `{"a":`, &logs)

	_, err := l.Load(context.Background(), "-")
	require.Error(t, err)
	assert.True(t, jerrors.Is(err, jerrors.ErrInvalidJSON))
}

func TestLoad_SingleFile(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, map[string]string{"a.json": `{"k":"v"}`, "bad.json": `{`})
	var logs bytes.Buffer
	l := newLoader(t, "", &logs)

	docs, err := l.Load(context.Background(), filepath.Join(dir, "a.json"))
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(dir, "a.json")}, files(docs))

	// A single invalid file is fatal, not skipped.
	_, err = l.Load(context.Background(), filepath.Join(dir, "bad.json"))
	require.Error(t, err)
	assert.Equal(t, jerrors.ErrCodeInvalidJSON, jerrors.GetCode(err))
}

func TestLoad_Missing(t *testing.T) {
	var logs bytes.Buffer
	l := newLoader(t, "", &logs)

	_, err := l.Load(context.Background(), filepath.Join(t.TempDir(), "nope.json"))
	require.Error(t, err)
	assert.True(t, jerrors.Is(err, jerrors.ErrFileNotFound))
}

func TestLoad_DirectorySkipsBadFiles(t *testing.T) {
	// Given: a directory with one valid, one invalid and one ignored file
	dir := t.TempDir()
	writeFiles(t, dir, map[string]string{
		"a.json":       `{"k":1}`,
		"sub/b.json":   `not json`,
		"sub/c.json":   `[{"k":2}]`,
		"ignored.json": `{}`,
		".gitignore":   "ignored.json\n",
		"readme.md":    "# hi",
	})
	var logs bytes.Buffer
	l := newLoader(t, "", &logs)

	// When: loading the directory
	docs, err := l.Load(context.Background(), dir)

	// Then: the bad file is skipped with a warning
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(dir, "a.json"),
		filepath.Join(dir, "sub", "c.json"),
	}, files(docs))
	assert.Contains(t, logs.String(), "file_skipped")
	assert.Contains(t, logs.String(), "b.json")
}

func TestLoad_DirectoryAllBad(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, map[string]string{"a.json": `{`})
	var logs bytes.Buffer
	l := newLoader(t, "", &logs)

	_, err := l.Load(context.Background(), dir)
	require.Error(t, err)
	assert.Equal(t, jerrors.ErrCodeNoInputFiles, jerrors.GetCode(err))
}

func TestLoad_Glob(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, map[string]string{
		"x/a.json":   `{"n":1}`,
		"x/y/b.json": `{"n":2}`,
		"x/c.txt":    `{"n":3}`,
	})
	var logs bytes.Buffer
	l := newLoader(t, "", &logs)

	docs, err := l.Load(context.Background(), filepath.Join(dir, "x", "**", "*.json"))
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{
		filepath.Join(dir, "x", "a.json"),
		filepath.Join(dir, "x", "y", "b.json"),
	}, files(docs))

	_, err = l.Load(context.Background(), filepath.Join(dir, "none", "*.json"))
	require.Error(t, err)
	assert.Equal(t, jerrors.ErrCodeNoInputFiles, jerrors.GetCode(err))
}

func TestDecode(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		wantErr bool
	}{
		{name: "object", in: `{"a":[1,true,null]}`},
		{name: "scalar", in: `  7  `},
		{name: "empty", in: ``, wantErr: true},
		{name: "trailing value", in: `{} {}`, wantErr: true},
		{name: "truncated", in: `[1,`, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode(strings.NewReader(tt.in))
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
