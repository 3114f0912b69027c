package snapshot

import (
	"fmt"
	"os"
	"path"
	"path/filepath"
	"sort"
)

// List scans dir for entries matching pattern and returns them sorted by
// name descending. Directory iteration order is platform-dependent, so the
// sort is always done explicitly here.
func List(dir, pattern string) (Set, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("listing snapshot directory: %w", err)
	}

	var set Set
	for _, ent := range entries {
		name := ent.Name()

		ok, err := path.Match(pattern, name)
		if err != nil {
			return nil, fmt.Errorf("bad snapshot pattern %q: %w", pattern, err)
		}
		if !ok {
			continue
		}

		info, err := ent.Info()
		if err != nil {
			// Raced with a concurrent deletion; the entry is gone.
			continue
		}

		set = append(set, Record{
			Name:    name,
			Path:    filepath.Join(dir, name),
			ModTime: info.ModTime(),
		})
	}

	sort.Slice(set, func(i, j int) bool {
		return set[i].Name > set[j].Name
	})

	return set, nil
}
