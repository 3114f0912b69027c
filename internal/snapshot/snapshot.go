// Package snapshot models the snapshots of one rotation set and knows how
// to discover them from the snapshot directory listing. The listing is the
// only durable state in the whole system.
package snapshot

import (
	"path/filepath"
	"strings"
	"time"

	"github.com/mpetrariu/btrsnap/internal/policy"
)

// Record is one discovered snapshot.
type Record struct {
	Name    string
	Path    string
	ModTime time.Time
}

// Set is a list of Records sorted by name descending. Because names embed
// fixed-width date/time fields, the first element is always the most
// recently created snapshot.
type Set []Record

// Newest returns the most recent record, if any.
func (s Set) Newest() (Record, bool) {
	if len(s) == 0 {
		return Record{}, false
	}
	return s[0], true
}

// Dir resolves the snapshot directory for the policy's placement mode.
func Dir(pol policy.Policy) string {
	switch pol.DirMode {
	case policy.Mirrored:
		vol := strings.TrimPrefix(filepath.Clean(pol.Volume), string(filepath.Separator))
		return filepath.Join(pol.BaseDir, vol)
	case policy.Flat:
		return pol.BaseDir
	default:
		return filepath.Join(pol.Volume, pol.SnapDirName)
	}
}
