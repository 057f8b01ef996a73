// Package runner executes the compiled program and owns the lifetime of the
// compiled binary.
package runner

import (
	"fmt"
	"os"
	"sync"

	"github.com/0Bleak/crun/logging"
)

// Artifact guards the compiled binary.  It is created before any step that
// could produce the binary and released on every exit path: normal
// completion, fatal errors and signals.  Release is idempotent.
type Artifact struct {
	m sync.Mutex

	path     string
	keep     bool
	released bool
}

// NewArtifact creates an artifact guard that does not track a binary yet.
func NewArtifact() *Artifact {
	return &Artifact{}
}

// Track records the binary the artifact guards.  If keep is set the binary
// survives Release.
func (a *Artifact) Track(path string, keep bool) {
	a.m.Lock()
	defer a.m.Unlock()

	a.path = path
	a.keep = keep
	a.released = false
}

// Path returns the tracked binary path, if any.
func (a *Artifact) Path() string {
	a.m.Lock()
	defer a.m.Unlock()

	return a.path
}

// Release removes the tracked binary unless it is kept.  A binary that is
// already gone is not an error.
func (a *Artifact) Release() error {
	a.m.Lock()
	defer a.m.Unlock()

	if a.released || a.path == "" || a.keep {
		return nil
	}

	a.released = true
	if err := os.Remove(a.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove %s: %w", a.path, err)
	}

	return nil
}

// ReleaseAndLog releases the artifact, logging a failure as a warning.
func (a *Artifact) ReleaseAndLog() {
	if err := a.Release(); err != nil {
		logging.LogWarning("cleanup", err.Error())
	}
}
