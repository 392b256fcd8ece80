package workspace

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"
	"github.com/google/uuid"
)

// ErrBusy reports that another trackmix run holds the workspace root.
var ErrBusy = errors.New("another trackmix run is in progress")

// Workspace is a uniquely named scratch directory owning every intermediate
// and final artifact of one run. Acquire before any processing; Cleanup on
// every exit path.
type Workspace struct {
	Dir  string
	lock *flock.Flock
}

// Acquire creates a fresh workspace under root and takes the root run lock.
// Runs sharing a workspace root are serialized; a held lock fails fast
// rather than queueing behind an encode of unknown length.
func Acquire(root string) (*Workspace, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("create workspace root: %w", err)
	}

	lock := flock.New(filepath.Join(root, ".trackmix.lock"))
	locked, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquire run lock: %w", err)
	}
	if !locked {
		return nil, ErrBusy
	}

	dir := filepath.Join(root, "trackmix-"+uuid.NewString())
	if err := os.Mkdir(dir, 0o755); err != nil {
		_ = lock.Unlock()
		return nil, fmt.Errorf("create workspace: %w", err)
	}

	return &Workspace{Dir: dir, lock: lock}, nil
}

// Path returns the absolute path for a file inside the workspace.
func (w *Workspace) Path(name string) string {
	return filepath.Join(w.Dir, name)
}

// Cleanup removes the workspace recursively and releases the run lock.
// Safe to call more than once.
func (w *Workspace) Cleanup() error {
	if w == nil {
		return nil
	}
	var errs []error
	if w.Dir != "" {
		if err := os.RemoveAll(w.Dir); err != nil {
			errs = append(errs, fmt.Errorf("remove workspace: %w", err))
		}
		w.Dir = ""
	}
	if w.lock != nil {
		if err := w.lock.Unlock(); err != nil {
			errs = append(errs, fmt.Errorf("release run lock: %w", err))
		}
		w.lock = nil
	}
	return errors.Join(errs...)
}
