package tagstudio

import (
	"fmt"
	"path/filepath"

	"github.com/gofrs/flock"
)

// writerLock is an advisory lock enforcing the single-writer model
// spec.md §5 assumes. It is taken for the duration of a writable
// OpenLibrary call (covering the backup-then-migrate sequence) and
// released on Close. In-memory libraries skip locking entirely, since
// they're inherently single-process and the original treats
// ":memory:" specially for the same reason.
type writerLock struct {
	fl *flock.Flock
}

func newWriterLock(tsFolder string) *writerLock {
	return &writerLock{fl: flock.New(filepath.Join(tsFolder, LockFileName))}
}

func (w *writerLock) acquire() error {
	ok, err := w.fl.TryLock()
	if err != nil {
		return fmt.Errorf("acquiring library write lock: %w", err)
	}
	if !ok {
		return fmt.Errorf("library is already open for writing by another process")
	}
	return nil
}

func (w *writerLock) release() error {
	if w.fl == nil {
		return nil
	}
	return w.fl.Unlock()
}
