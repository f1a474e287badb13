package storage

import (
	"context"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"

	"github.com/conradkoh/raggrep/internal/rgerr"
)

// Lock enforces single-writer-per-root: only one indexing run may hold
// the write lock on a given indexDir at a time. Readers (search) never
// take this lock — only the coordinator and freshness controller do,
// around the span of a full index/incremental-update run.
type Lock struct {
	fl *flock.Flock
}

func lockPath(indexDir string) string {
	return filepath.Join(indexDir, ".lock")
}

// NewLock returns an unlocked advisory lock handle for indexDir.
func NewLock(indexDir string) *Lock {
	return &Lock{fl: flock.New(lockPath(indexDir))}
}

// TryLock acquires the lock without blocking, returning false if another
// process already holds it.
func (l *Lock) TryLock() (bool, error) {
	ok, err := l.fl.TryLock()
	if err != nil {
		return false, rgerr.Wrap(rgerr.IO, "storage.Lock.TryLock", err)
	}
	return ok, nil
}

// Lock blocks, polling at interval, until it acquires the lock or ctx is
// canceled.
func (l *Lock) Lock(ctx context.Context, interval time.Duration) error {
	ok, err := l.fl.TryLockContext(ctx, interval)
	if err != nil {
		return rgerr.Wrap(rgerr.IO, "storage.Lock.Lock", err)
	}
	if !ok {
		return rgerr.Wrap(rgerr.IO, "storage.Lock.Lock", context.DeadlineExceeded)
	}
	return nil
}

// Unlock releases the lock.
func (l *Lock) Unlock() error {
	return l.fl.Unlock()
}
