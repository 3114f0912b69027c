// Package naming maps (label, placement, timestamp) to a snapshot name and
// the glob pattern that matches all names of the same rotation set.
//
// Every numeric field in a name is fixed-width and zero-padded, so the
// lexicographic order of names equals their chronological order of
// creation. The whole system leans on that: no side index is kept anywhere.
package naming

import (
	"strings"
	"time"

	"github.com/mpetrariu/btrsnap/internal/policy"
)

const (
	vfsLayout  = "@GMT-2006.01.02-15.04.05"
	vfsPattern = "@GMT-????.??.??-??.??.??"

	dateLayout = "2006-01-02"
	datePat    = "????-??-??"
	timePat    = "??_??_??" // placeholder delimiter, replaced below
)

// Format returns the snapshot name for t and the pattern matching every
// name produced for the same policy.
func Format(pol policy.Policy, t time.Time) (name, pattern string) {
	if pol.Placement == policy.VFS {
		return t.UTC().Format(vfsLayout), vfsPattern
	}

	d := pol.Delimiter
	stamp := t.Format(dateLayout) + "_" + t.Format("15"+d+"04"+d+"05")
	stampPat := datePat + "_" + strings.ReplaceAll(timePat, "_", d)

	if pol.Placement == policy.Postfix {
		return stamp + "_" + pol.Label, stampPat + "_" + pol.Label
	}
	return pol.Label + "_" + stamp, pol.Label + "_" + stampPat
}
