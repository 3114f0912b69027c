// Package rotate implements keep-N retention over one rotation set.
package rotate

import (
	"context"
	"fmt"

	"github.com/mpetrariu/btrsnap/internal/backend"
	"github.com/mpetrariu/btrsnap/internal/logging"
	"github.com/mpetrariu/btrsnap/internal/snapshot"
)

// Rotate keeps the first keep entries of set (which is sorted by name
// descending, so the lexicographically-greatest, newest names survive) and
// deletes everything beyond that position, one snapshot at a time in
// newest-to-oldest order.
//
// The first failed deletion aborts the whole rotation: no retry, no
// skip-and-continue. Whatever is left over gets picked up by the rotator
// of the next successful run. keep == 0 deletes every matching snapshot.
func Rotate(ctx context.Context, set snapshot.Set, keep int, be backend.Backend, log logging.Logger) error {
	if len(set) <= keep {
		return nil
	}

	for _, rec := range set[keep:] {
		if err := be.Delete(ctx, rec.Path); err != nil {
			return fmt.Errorf("deleting snapshot %s: %w", rec.Name, err)
		}
		log.Info("deleted snapshot %s", rec.Path)
	}

	return nil
}
