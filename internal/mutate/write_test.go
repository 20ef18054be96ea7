package mutate

import (
	"bytes"
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	jerrors "github.com/Aman-CERP/jsonai/internal/errors"
)

func writeJSON(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func setA(v any) Edit {
	return func(doc any) (any, error) { return Set(doc, "/a", v) }
}

func TestEditor_Apply_Pretty(t *testing.T) {
	// Given a compact file
	path := writeJSON(t, t.TempDir(), "doc.json", `{"a":1,"b":[true]}`)
	e := NewEditor(&bytes.Buffer{}, nil)

	// When a value is set
	require.NoError(t, e.Apply(path, setA(2), Options{}))

	// Then the file is rewritten indented with a trailing newline
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "{\n  \"a\": 2,\n  \"b\": [\n    true\n  ]\n}\n", string(data))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())
}

func TestEditor_Apply_Compact(t *testing.T) {
	path := writeJSON(t, t.TempDir(), "doc.json", `{"a":1}`)

	require.NoError(t, NewEditor(&bytes.Buffer{}, nil).Apply(path, setA("x"), Options{Compact: true}))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "{\"a\":\"x\"}\n", string(data))
}

func TestEditor_Apply_DryRun(t *testing.T) {
	// Given a file and a dry run
	path := writeJSON(t, t.TempDir(), "doc.json", `{"a":1}`)
	var out bytes.Buffer

	// When applied
	require.NoError(t, NewEditor(&out, nil).Apply(path, setA(2), Options{DryRun: true, Compact: true}))

	// Then the result is printed and the file is unchanged
	assert.Equal(t, "{\"a\":2}\n", out.String())
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, `{"a":1}`, string(data))
}

func TestEditor_Apply_Output(t *testing.T) {
	dir := t.TempDir()
	path := writeJSON(t, dir, "doc.json", `{"a":1}`)
	dest := filepath.Join(dir, "out.json")

	require.NoError(t, NewEditor(&bytes.Buffer{}, nil).Apply(path, setA(2), Options{Output: dest, Compact: true}))

	data, err := os.ReadFile(dest)
	require.NoError(t, err)
	assert.Equal(t, "{\"a\":2}\n", string(data))

	src, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, `{"a":1}`, string(src))
}

func TestEditor_Apply_FailedEditWritesNothing(t *testing.T) {
	dir := t.TempDir()
	path := writeJSON(t, dir, "doc.json", `{"a":1}`)

	err := NewEditor(&bytes.Buffer{}, nil).Apply(path, func(doc any) (any, error) {
		return Set(doc, "/missing", 1)
	}, Options{})

	assert.True(t, jerrors.Is(err, jerrors.ErrInvalidPointer))
	data, readErr := os.ReadFile(path)
	require.NoError(t, readErr)
	assert.Equal(t, `{"a":1}`, string(data))

	// No temp files are left behind; only the lock sidecar remains.
	entries, readErr := os.ReadDir(dir)
	require.NoError(t, readErr)
	var names []string
	for _, e := range entries {
		names = append(names, e.Name())
	}
	assert.ElementsMatch(t, []string{"doc.json", ".doc.json.lock"}, names)
}

func TestEditor_Apply_MissingFile(t *testing.T) {
	err := NewEditor(&bytes.Buffer{}, nil).Apply(filepath.Join(t.TempDir(), "none.json"), setA(1), Options{})

	assert.True(t, jerrors.Is(err, jerrors.ErrFileNotFound))
}

func TestFileLock(t *testing.T) {
	path := filepath.Join(t.TempDir(), "doc.json")
	first := NewFileLock(path)
	second := NewFileLock(path)

	require.NoError(t, first.Lock())
	assert.FileExists(t, first.Path())

	ok, err := second.TryLock()
	require.NoError(t, err)
	assert.False(t, ok, "lock is exclusive")

	require.NoError(t, first.Unlock())
	require.NoError(t, first.Unlock(), "unlock is idempotent")

	ok, err = second.TryLock()
	require.NoError(t, err)
	assert.True(t, ok)
	require.NoError(t, second.Unlock())
}

func TestFileLock_WaiterKeepsExclusion(t *testing.T) {
	// Given: a holds the lock and b is waiting for it
	path := filepath.Join(t.TempDir(), "doc.json")
	a, b, c := NewFileLock(path), NewFileLock(path), NewFileLock(path)
	require.NoError(t, a.Lock())

	acquired := make(chan error, 1)
	go func() { acquired <- b.Lock() }()
	// Give b time to open the lock file and block on it.
	time.Sleep(100 * time.Millisecond)

	// When: a releases and b takes over
	require.NoError(t, a.Unlock())
	select {
	case err := <-acquired:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("waiter never acquired the lock")
	}

	// Then: a third locker is still shut out
	ok, err := c.TryLock()
	require.NoError(t, err)
	assert.False(t, ok, "b holds the lock")
	assert.FileExists(t, a.Path())

	require.NoError(t, b.Unlock())
	ok, err = c.TryLock()
	require.NoError(t, err)
	assert.True(t, ok)
	require.NoError(t, c.Unlock())
}

func TestWriteFile_FailedRenameKeepsDestination(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("rename falls back to remove-and-retry on Windows")
	}
	// Given: a destination the temp file cannot be renamed over
	dest := filepath.Join(t.TempDir(), "doc.json")
	require.NoError(t, os.Mkdir(dest, 0o755))

	// When: writing to it
	err := WriteFile(dest, []byte("{}"), 0)

	// Then: the write fails and the destination is untouched
	require.Error(t, err)
	info, statErr := os.Stat(dest)
	require.NoError(t, statErr)
	assert.True(t, info.IsDir())
	entries, readErr := os.ReadDir(filepath.Dir(dest))
	require.NoError(t, readErr)
	assert.Len(t, entries, 1, "temp file is cleaned up")
}

func TestWriteFile_Replaces(t *testing.T) {
	path := writeJSON(t, t.TempDir(), "doc.json", "old")

	require.NoError(t, WriteFile(path, []byte("new"), 0))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "new", string(data))
}
