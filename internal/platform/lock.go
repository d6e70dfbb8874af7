package platform

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/gofrs/flock"
)

// LockFileName is created inside the destination directory
const LockFileName = ".ytdl-shell.lock"

// ErrDestinationBusy is returned when another process holds the destination lock
var ErrDestinationBusy = errors.New("destination is locked by another process")

// DestinationLock serializes writers of one destination directory across processes
type DestinationLock struct {
	path string
	lock *flock.Flock
}

// NewDestinationLock prepares (but does not take) the lock for dir
func NewDestinationLock(dir string) *DestinationLock {
	path := filepath.Join(dir, LockFileName)
	return &DestinationLock{path: path, lock: flock.New(path)}
}

// Path returns the lock file path
func (l *DestinationLock) Path() string {
	return l.path
}

// Acquire takes the lock without waiting
func (l *DestinationLock) Acquire() error {
	ok, err := l.lock.TryLock()
	if err != nil {
		return fmt.Errorf("acquire lock %s: %w", l.path, err)
	}
	if !ok {
		return ErrDestinationBusy
	}
	return nil
}

// Release drops the lock
func (l *DestinationLock) Release() error {
	return l.lock.Unlock()
}
