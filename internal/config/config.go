// Package config holds the daemon-mode configuration. One-shot runs take
// everything from flags and never touch this package.
package config

import (
	"fmt"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/mpetrariu/btrsnap/internal/policy"
)

// Duration decodes human-friendly YAML values like "500ms" or "1h".
type Duration time.Duration

func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	dur, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("bad duration %q: %w", s, err)
	}
	*d = Duration(dur)
	return nil
}

type Config struct {
	Jobs    []JobConfig   `yaml:"jobs"`
	Logging LoggingConfig `yaml:"logging"`
	Reload  ReloadConfig  `yaml:"reload"`
}

// JobConfig is one scheduled rotation set. Its fields mirror the one-shot
// CLI flags; Policy() funnels them through the same resolver, so flag and
// config validation cannot drift apart.
type JobConfig struct {
	Name     string `yaml:"name"`
	Schedule string `yaml:"schedule"` // standard 5-field cron spec

	Volume   string `yaml:"volume"`
	Label    string `yaml:"label"`
	Keep     int    `yaml:"keep"`
	ReadOnly bool   `yaml:"readOnly"`
	Postfix  bool   `yaml:"postfix"`

	SnapDir  string `yaml:"snapDir"`  // nested placement, like -d
	Mirror   string `yaml:"mirror"`   // mirrored placement, like -b
	FlatBase string `yaml:"flatBase"` // flat placement, like -B

	DashDelimiter bool   `yaml:"dashDelimiter"`
	MinAge        int    `yaml:"minAgeSeconds"`
	Method        string `yaml:"stalenessMethod"` // "mtime" (default) or "generation"
}

type LoggingConfig struct {
	Quiet   bool `yaml:"quiet"`
	Verbose bool `yaml:"verbose"`
}

type ReloadConfig struct {
	// Watch enables fsnotify-based reloading when the config file
	// changes. SIGHUP reloads always work.
	Watch    bool     `yaml:"watch"`
	Debounce Duration `yaml:"debounce"` // e.g. 500ms
}

// Policy resolves the job into the immutable per-run policy.
func (j JobConfig) Policy(quiet bool) (policy.Policy, error) {
	opts := policy.Options{
		Volume:    j.Volume,
		Label:     j.Label,
		Keep:      j.Keep,
		ReadOnly:  j.ReadOnly,
		Quiet:     quiet,
		Postfix:   j.Postfix,
		SnapDir:   j.SnapDir,
		Mirror:    j.Mirror,
		FlatBase:  j.FlatBase,
		DashDelim: j.DashDelimiter,
	}
	switch j.Method {
	case "generation":
		opts.MinAgeGen = j.MinAge
	default:
		opts.MinAge = j.MinAge
	}
	return policy.Resolve(opts)
}
