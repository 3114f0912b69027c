// Package gate implements the staleness gate: the decision whether a new
// snapshot is warranted at all.
package gate

import (
	"fmt"
	"time"

	"github.com/mpetrariu/btrsnap/internal/backend"
	"github.com/mpetrariu/btrsnap/internal/policy"
	"github.com/mpetrariu/btrsnap/internal/snapshot"
)

// Skip reasons reported back to the caller's log.
const (
	ReasonNoChanges = "no changes"
	ReasonTooRecent = "too recent"
)

// Decision is the gate's verdict for one run.
type Decision struct {
	Proceed bool
	Reason  string // set when Proceed is false
}

var proceed = Decision{Proceed: true}

func skip(reason string) Decision {
	return Decision{Reason: reason}
}

// Decide compares the newest matching snapshot against the volume.
//
// With no history, or with throttling disabled (threshold 0), the answer
// is always Proceed. The change check depends on the policy's method: the
// generation counter of the newest snapshot versus the volume's, or exact
// equality of their modification times. Independent of the method, a
// newest snapshot younger than the threshold blocks a new one.
func Decide(pol policy.Policy, set snapshot.Set, now time.Time, be backend.Backend) (Decision, error) {
	newest, ok := set.Newest()
	if !ok || pol.Threshold == 0 {
		return proceed, nil
	}

	switch pol.Method {
	case policy.Generation:
		newestGen, err := be.Generation(newest.Path)
		if err != nil {
			return Decision{}, fmt.Errorf("reading snapshot generation: %w", err)
		}
		volGen, err := be.Generation(pol.Volume)
		if err != nil {
			return Decision{}, fmt.Errorf("reading volume generation: %w", err)
		}
		if volGen <= newestGen {
			return skip(ReasonNoChanges), nil
		}
	default:
		volTime, err := be.ModTime(pol.Volume)
		if err != nil {
			return Decision{}, fmt.Errorf("reading volume mtime: %w", err)
		}
		if newest.ModTime.Equal(volTime) {
			return skip(ReasonNoChanges), nil
		}
	}

	if newest.ModTime.Add(pol.Threshold).After(now) {
		return skip(ReasonTooRecent), nil
	}

	return proceed, nil
}
