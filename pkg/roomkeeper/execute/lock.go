package execute

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"

	"github.com/arthur-debert/roomkeeper/pkg/roomkeeper/core"
)

const lockFileName = "apply.lock"

// rootLock guards apply runs: at most one executor may mutate a given
// root at a time. Concurrent applies are rejected, not queued.
type rootLock struct {
	flock *flock.Flock
}

// acquireRootLock takes the exclusive apply lock for root without
// blocking. A held lock surfaces as core.LockedError.
func acquireRootLock(root string) (*rootLock, error) {
	stateDir := core.StateRoot(root)
	if err := os.MkdirAll(stateDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create state dir %s: %w", stateDir, err)
	}
	fl := flock.New(filepath.Join(stateDir, lockFileName))
	ok, err := fl.TryLock()
	if err != nil {
		return nil, fmt.Errorf("failed to try apply lock for %s: %w", root, err)
	}
	if !ok {
		return nil, &core.LockedError{Root: root}
	}
	return &rootLock{flock: fl}, nil
}

func (l *rootLock) release() error {
	return l.flock.Unlock()
}
