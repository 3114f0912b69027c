// Package backendtest provides a fake Backend for tests. Snapshots are
// plain directories under a test temp dir, so listing code sees the same
// filesystem state the real backend would produce.
package backendtest

import (
	"context"
	"fmt"
	"os"
	"time"
)

type Fake struct {
	// MTimes overrides ModTime per path; paths not present fall back to
	// os.Stat.
	MTimes map[string]time.Time
	// Gens holds per-path generation counters. Asking for a path without
	// one is an error, mirroring the real backend's behavior on
	// non-subvolumes.
	Gens map[string]uint64
	// Invalid marks paths IsVolume rejects. Everything else validates.
	Invalid map[string]bool

	CreateErr error
	// DeleteErr, when set, is consulted per path before deleting.
	DeleteErr func(path string) error

	Created []string
	Deleted []string
	// DeleteAttempts records every Delete call, including failed ones.
	DeleteAttempts []string
	Touched        []string
}

func New() *Fake {
	return &Fake{
		MTimes: map[string]time.Time{},
		Gens:   map[string]uint64{},
	}
}

func (f *Fake) Create(ctx context.Context, src, dst string, readOnly bool) error {
	if f.CreateErr != nil {
		return f.CreateErr
	}
	if err := os.Mkdir(dst, 0o755); err != nil {
		return err
	}
	f.Created = append(f.Created, dst)
	return nil
}

func (f *Fake) Delete(ctx context.Context, path string) error {
	f.DeleteAttempts = append(f.DeleteAttempts, path)
	if f.DeleteErr != nil {
		if err := f.DeleteErr(path); err != nil {
			return err
		}
	}
	if err := os.RemoveAll(path); err != nil {
		return err
	}
	f.Deleted = append(f.Deleted, path)
	return nil
}

func (f *Fake) ModTime(path string) (time.Time, error) {
	if t, ok := f.MTimes[path]; ok {
		return t, nil
	}
	st, err := os.Stat(path)
	if err != nil {
		return time.Time{}, err
	}
	return st.ModTime(), nil
}

func (f *Fake) Generation(path string) (uint64, error) {
	gen, ok := f.Gens[path]
	if !ok {
		return 0, fmt.Errorf("no generation for %s", path)
	}
	return gen, nil
}

func (f *Fake) IsVolume(path string) bool {
	return !f.Invalid[path]
}

func (f *Fake) Touch(path string) error {
	f.Touched = append(f.Touched, path)
	f.MTimes[path] = time.Now()
	return nil
}

func (f *Fake) MkdirAll(path string) error {
	return os.MkdirAll(path, 0o755)
}
