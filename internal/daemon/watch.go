package daemon

import (
	"context"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

const defaultDebounce = 500 * time.Millisecond

// watchConfig requests a reload when the config file changes. Editors and
// config-management tools tend to emit bursts of events, so requests are
// debounced.
func (d *Daemon) watchConfig(ctx context.Context, debounce time.Duration, reload chan<- struct{}) {
	if debounce <= 0 {
		debounce = defaultDebounce
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		d.Log.Warn("config watch disabled: %v", err)
		return
	}
	defer w.Close()

	// Watch the directory, not the file: rename-into-place replaces the
	// inode and would silently detach a file watch.
	if err := w.Add(filepath.Dir(d.ConfigPath)); err != nil {
		d.Log.Warn("config watch disabled: %v", err)
		return
	}
	base := filepath.Base(d.ConfigPath)

	var timer *time.Timer
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return

		case ev, ok := <-w.Events:
			if !ok {
				return
			}
			if filepath.Base(ev.Name) != base {
				continue
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			if timer != nil {
				timer.Stop()
			}
			timer = time.AfterFunc(debounce, func() {
				select {
				case reload <- struct{}{}:
				default:
				}
			})

		case err, ok := <-w.Errors:
			if !ok {
				return
			}
			d.Log.Error("config watch: %v", err)
		}
	}
}
