// Package policy defines the immutable per-run policy and the resolver
// that builds it from raw flag or config input.
package policy

import (
	"fmt"
	"strings"
	"time"
)

// Placement controls where the label sits in the snapshot name.
type Placement int

const (
	Prefix Placement = iota
	Postfix
	VFS
)

// DirMode selects where the snapshot directory lives.
type DirMode int

const (
	// Nested places snapshots in a directory under the volume itself.
	Nested DirMode = iota
	// Mirrored places snapshots under a base directory, mirroring the
	// volume's path below it.
	Mirrored
	// Flat places all snapshots directly into a base directory.
	Flat
)

// Method selects how "no changes since the newest snapshot" is detected.
type Method int

const (
	ModTime Method = iota
	Generation
)

// DefaultSnapDir is the directory name used under the volume in Nested
// mode when none is configured.
const DefaultSnapDir = ".snapshot"

// Policy is built once per invocation and never mutated. Every component
// receives it explicitly; nothing reads ambient state.
type Policy struct {
	Volume      string
	Label       string
	Keep        int
	ReadOnly    bool
	Quiet       bool
	Placement   Placement
	DirMode     DirMode
	SnapDirName string // Nested mode: directory name under the volume
	BaseDir     string // Mirrored/Flat mode: base directory
	Delimiter   string // ":" or "-", between the time fields
	Threshold   time.Duration
	Method      Method
	SkipIsError bool
}

// Options carries the raw, unvalidated inputs of one invocation.
// Zero values mean "flag not given".
type Options struct {
	Volume    string
	Label     string
	Keep      int
	ReadOnly  bool
	Quiet     bool
	Postfix   bool
	SkipError bool
	SnapDir   string // -d NAME
	Mirror    string // -b DIR
	FlatBase  string // -B DIR
	DashDelim bool   // -c
	MinAge    int    // -t SECONDS (modification-time staleness)
	MinAgeGen int    // -T SECONDS (generation staleness)
}

// ConfigError marks invalid or conflicting options. It is raised before
// any filesystem access happens.
type ConfigError struct {
	Reason string
}

func (e *ConfigError) Error() string {
	return "config error: " + e.Reason
}

func configErrorf(format string, args ...any) error {
	return &ConfigError{Reason: fmt.Sprintf(format, args...)}
}

// Resolve validates opts and builds the Policy.
//
// The -t/-T staleness methods are mutually exclusive and giving both is
// rejected outright rather than letting one silently win.
func Resolve(opts Options) (Policy, error) {
	if opts.Volume == "" {
		return Policy{}, configErrorf("volume path must not be empty")
	}
	if opts.Label == "" {
		return Policy{}, configErrorf("label must not be empty")
	}
	if strings.ContainsAny(opts.Label, "/*?[") {
		return Policy{}, configErrorf("label %q contains reserved characters", opts.Label)
	}
	if opts.Keep < 0 {
		return Policy{}, configErrorf("retention count must be >= 0, got %d", opts.Keep)
	}

	placements := 0
	for _, dir := range []string{opts.SnapDir, opts.Mirror, opts.FlatBase} {
		if dir != "" {
			placements++
		}
	}
	if placements > 1 {
		return Policy{}, configErrorf("-d, -b and -B are mutually exclusive")
	}
	if opts.MinAge > 0 && opts.MinAgeGen > 0 {
		return Policy{}, configErrorf("-t and -T are mutually exclusive")
	}
	if opts.MinAge < 0 || opts.MinAgeGen < 0 {
		return Policy{}, configErrorf("staleness threshold must be >= 0")
	}

	pol := Policy{
		Volume:      opts.Volume,
		Label:       opts.Label,
		Keep:        opts.Keep,
		ReadOnly:    opts.ReadOnly,
		Quiet:       opts.Quiet,
		SnapDirName: DefaultSnapDir,
		Delimiter:   ":",
		SkipIsError: opts.SkipError,
	}

	switch {
	case opts.Label == "VFS":
		// The VFS shadow-copy convention fixes the whole name; prefix
		// and postfix placement do not apply.
		pol.Placement = VFS
	case opts.Postfix:
		pol.Placement = Postfix
	default:
		pol.Placement = Prefix
	}

	switch {
	case opts.Mirror != "":
		pol.DirMode = Mirrored
		pol.BaseDir = opts.Mirror
	case opts.FlatBase != "":
		pol.DirMode = Flat
		pol.BaseDir = opts.FlatBase
	default:
		pol.DirMode = Nested
		if opts.SnapDir != "" {
			pol.SnapDirName = opts.SnapDir
		}
	}

	if opts.DashDelim {
		pol.Delimiter = "-"
	}

	switch {
	case opts.MinAgeGen > 0:
		pol.Method = Generation
		pol.Threshold = time.Duration(opts.MinAgeGen) * time.Second
	default:
		pol.Method = ModTime
		pol.Threshold = time.Duration(opts.MinAge) * time.Second
	}

	return pol, nil
}
