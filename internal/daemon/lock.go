package daemon

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"

	"github.com/1broseidon/deskshell/internal/runtimepath"
)

// Lock keeps a second desktop from starting in the same runtime directory
// and stealing the IPC socket.
type Lock struct {
	fl *flock.Flock
}

// AcquireLock takes the single-instance lock at path, or at the runtime lock
// path when path is empty. It fails without blocking if another process
// holds it.
func AcquireLock(path string) (*Lock, error) {
	if path == "" {
		p, err := runtimepath.LockPath()
		if err != nil {
			return nil, fmt.Errorf("failed to resolve lock path: %w", err)
		}
		path = p
	}
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return nil, fmt.Errorf("failed to create lock directory: %w", err)
	}

	fl := flock.New(path)
	locked, err := fl.TryLock()
	if err != nil {
		return nil, fmt.Errorf("failed to lock %s: %w", path, err)
	}
	if !locked {
		return nil, fmt.Errorf("another deskshell is already running (lock %s is held)", path)
	}
	return &Lock{fl: fl}, nil
}

// Path returns the lock file path.
func (l *Lock) Path() string {
	return l.fl.Path()
}

// Release drops the lock.
func (l *Lock) Release() error {
	if l == nil {
		return nil
	}
	return l.fl.Unlock()
}
