package mutate

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"

	"github.com/gofrs/flock"

	jerrors "github.com/Aman-CERP/jsonai/internal/errors"
	"github.com/Aman-CERP/jsonai/internal/loader"
	"github.com/Aman-CERP/jsonai/internal/record"
)

// Edit transforms a decoded document.
type Edit func(doc any) (any, error)

// Options controls where an edited document goes.
type Options struct {
	// Output writes to this path instead of overwriting the source.
	Output string
	// DryRun prints the result instead of writing it.
	DryRun bool
	// Compact writes single-line JSON. Files are indented by default.
	Compact bool
}

// Editor runs read-modify-write cycles on JSON files.
type Editor struct {
	stdout io.Writer
	logger *slog.Logger
}

// NewEditor creates an Editor. Dry-run output goes to stdout.
func NewEditor(stdout io.Writer, logger *slog.Logger) *Editor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Editor{stdout: stdout, logger: logger}
}

// Apply reads file, runs edit and writes the result to the destination.
// The destination is locked for the whole cycle so concurrent edits of the
// same file serialize.
func (e *Editor) Apply(file string, edit Edit, opts Options) error {
	dest := file
	if opts.Output != "" {
		dest = opts.Output
	}

	if !opts.DryRun {
		lock := NewFileLock(dest)
		if err := lock.Lock(); err != nil {
			return jerrors.New(jerrors.ErrCodeWriteFailed, fmt.Sprintf("cannot lock %s", dest), err)
		}
		defer func() { _ = lock.Unlock() }()
	}

	doc, err := loader.ReadFile(file)
	if err != nil {
		return err
	}

	result, err := edit(doc.Value)
	if err != nil {
		return err
	}

	var data []byte
	if opts.Compact {
		data, err = record.Marshal(result)
	} else {
		data, err = record.MarshalIndent(result)
	}
	if err != nil {
		return jerrors.InternalError("failed to serialize document", err)
	}

	if opts.DryRun {
		_, err := fmt.Fprintf(e.stdout, "%s\n", data)
		return err
	}

	if err := WriteFile(dest, append(data, '\n'), 0); err != nil {
		return jerrors.New(jerrors.ErrCodeWriteFailed, fmt.Sprintf("failed to write %s", dest), err)
	}
	e.logger.Debug("document_written", slog.String("file", file), slog.String("dest", dest), slog.Int("bytes", len(data)+1))
	return nil
}

// WriteFile writes data to path through a temporary file in the same
// directory and a rename, so readers never see a partial document.
// A zero perm keeps the mode of an existing file, or uses 0644.
func WriteFile(path string, data []byte, perm os.FileMode) error {
	if perm == 0 {
		if st, err := os.Stat(path); err == nil {
			perm = st.Mode().Perm()
		} else {
			perm = 0o644
		}
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	committed := false
	defer func() {
		_ = tmp.Close()
		if !committed {
			_ = os.Remove(tmpPath)
		}
	}()

	_ = tmp.Chmod(perm)

	if _, err := tmp.Write(data); err != nil {
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		return fmt.Errorf("sync temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}

	if err := os.Rename(tmpPath, path); err != nil {
		// Renaming over an existing file fails on Windows. Elsewhere a
		// failed rename leaves the original in place.
		if runtime.GOOS != "windows" {
			return fmt.Errorf("rename temp file: %w", err)
		}
		_ = os.Remove(path)
		if err2 := os.Rename(tmpPath, path); err2 != nil {
			return fmt.Errorf("rename temp file: %w", err)
		}
	}

	committed = true
	return nil
}

// FileLock is an exclusive cross-process lock on a sidecar file next to
// the document being edited.
type FileLock struct {
	path   string
	flock  *flock.Flock
	locked bool
}

// NewFileLock creates a lock for path. The lock file is
// <dir>/.<base>.lock.
func NewFileLock(path string) *FileLock {
	lockPath := filepath.Join(filepath.Dir(path), "."+filepath.Base(path)+".lock")
	return &FileLock{path: lockPath, flock: flock.New(lockPath)}
}

// Lock blocks until the lock is held.
func (l *FileLock) Lock() error {
	if err := l.flock.Lock(); err != nil {
		return fmt.Errorf("failed to acquire lock: %w", err)
	}
	l.locked = true
	return nil
}

// TryLock takes the lock if it is free and reports whether it did.
func (l *FileLock) TryLock() (bool, error) {
	acquired, err := l.flock.TryLock()
	if err != nil {
		return false, fmt.Errorf("failed to acquire lock: %w", err)
	}
	l.locked = acquired
	return acquired, nil
}

// Unlock releases the lock. Safe to call when not locked. The lock file
// stays: a waiter may already hold it open, and removing it would let a
// later locker create a second, independent lock file.
func (l *FileLock) Unlock() error {
	if !l.locked {
		return nil
	}
	l.locked = false
	if err := l.flock.Unlock(); err != nil {
		return fmt.Errorf("failed to release lock: %w", err)
	}
	return nil
}

// Path returns the lock file path.
func (l *FileLock) Path() string {
	return l.path
}
