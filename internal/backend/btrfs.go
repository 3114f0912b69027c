package backend

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"os/exec"
	"strconv"
	"strings"
	"time"
)

// Btrfs is the production Backend. It drives the btrfs(8) command line
// tool; the raw diagnostic output of a failed command is carried in the
// returned error alongside the generated message.
// Platform-specific details (subvolume detection) are handled in
// build-tagged files.
type Btrfs struct {
	// Tool overrides the btrfs executable, for tests.
	Tool string
}

func NewBtrfs() *Btrfs {
	return &Btrfs{Tool: "btrfs"}
}

func (b *Btrfs) run(ctx context.Context, args ...string) (string, error) {
	out, err := exec.CommandContext(ctx, b.Tool, args...).CombinedOutput()
	if err != nil {
		return "", fmt.Errorf("%s %s: %w: %s",
			b.Tool, strings.Join(args, " "), err, strings.TrimSpace(string(out)))
	}
	return string(out), nil
}

func (b *Btrfs) Create(ctx context.Context, src, dst string, readOnly bool) error {
	args := []string{"subvolume", "snapshot"}
	if readOnly {
		args = append(args, "-r")
	}
	args = append(args, src, dst)

	_, err := b.run(ctx, args...)
	return err
}

func (b *Btrfs) Delete(ctx context.Context, path string) error {
	_, err := b.run(ctx, "subvolume", "delete", path)
	return err
}

func (b *Btrfs) ModTime(path string) (time.Time, error) {
	st, err := os.Stat(path)
	if err != nil {
		return time.Time{}, err
	}
	return st.ModTime(), nil
}

// Generation parses the Generation counter out of `btrfs subvolume show`.
func (b *Btrfs) Generation(path string) (uint64, error) {
	out, err := b.run(context.Background(), "subvolume", "show", path)
	if err != nil {
		return 0, err
	}
	gen, err := parseGeneration(out)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", path, err)
	}
	return gen, nil
}

func parseGeneration(out string) (uint64, error) {
	sc := bufio.NewScanner(strings.NewReader(out))
	for sc.Scan() {
		key, val, ok := strings.Cut(sc.Text(), ":")
		if !ok {
			continue
		}
		if strings.TrimSpace(key) == "Generation" {
			return strconv.ParseUint(strings.TrimSpace(val), 10, 64)
		}
	}
	return 0, fmt.Errorf("no generation in subvolume show output")
}

func (b *Btrfs) Touch(path string) error {
	now := time.Now()
	return os.Chtimes(path, now, now)
}

func (b *Btrfs) MkdirAll(path string) error {
	return os.MkdirAll(path, 0o755)
}
