// Package runner drives one snapshot run end to end: validate the volume,
// resolve the snapshot directory, gate, create, rotate. Components return
// errors; only the command layer terminates the process.
package runner

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/mpetrariu/btrsnap/internal/backend"
	"github.com/mpetrariu/btrsnap/internal/gate"
	"github.com/mpetrariu/btrsnap/internal/logging"
	"github.com/mpetrariu/btrsnap/internal/naming"
	"github.com/mpetrariu/btrsnap/internal/policy"
	"github.com/mpetrariu/btrsnap/internal/rotate"
	"github.com/mpetrariu/btrsnap/internal/snapshot"
)

// Runner executes snapshot runs against one backend.
type Runner struct {
	Backend backend.Backend
	Log     logging.Logger

	// Now is the clock; overridable in tests. Defaults to time.Now.
	Now func() time.Time
}

func New(be backend.Backend, log logging.Logger) *Runner {
	return &Runner{
		Backend: be,
		Log:     log,
		Now:     time.Now,
	}
}

// Run performs one full run under pol. A *SkipError return means the
// staleness gate declined; every other non-nil error is fatal for the run.
//
// Two invocations for the same volume+label must not run concurrently;
// that is the caller's (scheduler's) responsibility. If the process dies
// between creation and rotation, the next successful run's rotator removes
// the leftover excess.
func (r *Runner) Run(ctx context.Context, pol policy.Policy) error {
	be := r.Backend

	if !be.IsVolume(pol.Volume) {
		return fmt.Errorf("%w: %s", ErrInvalidVolume, pol.Volume)
	}

	dir := snapshot.Dir(pol)
	if err := be.MkdirAll(dir); err != nil {
		return fmt.Errorf("creating snapshot directory %s: %w", dir, err)
	}

	now := r.Now()
	name, pattern := naming.Format(pol, now)
	dst := filepath.Join(dir, name)

	// Collision check happens before the backend is ever invoked. Two
	// runs completing within the same second land on the same name; that
	// is an error, never a merge.
	if _, err := os.Lstat(dst); err == nil {
		return fmt.Errorf("%w: %s", ErrNameCollision, dst)
	}

	set, err := snapshot.List(dir, pattern)
	if err != nil {
		return err
	}

	dec, err := gate.Decide(pol, set, now, be)
	if err != nil {
		return err
	}
	if !dec.Proceed {
		r.Log.Info("skipping snapshot of %s: %s", pol.Volume, dec.Reason)
		return &SkipError{Reason: dec.Reason}
	}

	// Advance the volume mtime before creating, so the next run's
	// comparison is not confused by a snapshot that does not itself
	// modify the volume.
	if err := be.Touch(pol.Volume); err != nil {
		r.Log.Warn("touching %s: %v", pol.Volume, err)
	}

	if err := be.Create(ctx, pol.Volume, dst, pol.ReadOnly); err != nil {
		return fmt.Errorf("creating snapshot %s: %w", dst, err)
	}
	r.Log.Info("created snapshot %s", dst)

	set, err = snapshot.List(dir, pattern)
	if err != nil {
		return err
	}

	return rotate.Rotate(ctx, set, pol.Keep, be, r.Log)
}
