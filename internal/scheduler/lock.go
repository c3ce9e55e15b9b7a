package scheduler

import (
	"errors"
	"fmt"

	"github.com/gofrs/flock"
)

// ErrRunInProgress is returned when another invocation holds the run lock.
var ErrRunInProgress = errors.New("another ingestion run is in progress")

// RunLock is a process-level file lock around one invocation.
// A nil *RunLock never blocks.
type RunLock struct {
	fl *flock.Flock
}

// NewRunLock returns a lock backed by path, or nil when path is empty.
func NewRunLock(path string) *RunLock {
	if path == "" {
		return nil
	}
	return &RunLock{fl: flock.New(path)}
}

// acquire takes the lock without waiting. The returned func releases it.
func (l *RunLock) acquire() (func(), error) {
	if l == nil {
		return func() {}, nil
	}
	ok, err := l.fl.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquiring run lock %s: %w", l.fl.Path(), err)
	}
	if !ok {
		return nil, ErrRunInProgress
	}
	return func() { l.fl.Unlock() }, nil
}
