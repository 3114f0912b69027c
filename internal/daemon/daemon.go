// Package daemon runs snapshot jobs on cron schedules from a config file.
package daemon

import (
	"context"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/mpetrariu/btrsnap/internal/backend"
	"github.com/mpetrariu/btrsnap/internal/config"
	"github.com/mpetrariu/btrsnap/internal/logging"
	"github.com/mpetrariu/btrsnap/internal/mailbox"
	"github.com/mpetrariu/btrsnap/internal/policy"
	"github.com/mpetrariu/btrsnap/internal/runner"
)

type Daemon struct {
	ConfigPath string
	Backend    backend.Backend
	Log        logging.Logger
}

func New(configPath string, be backend.Backend, log logging.Logger) *Daemon {
	return &Daemon{
		ConfigPath: configPath,
		Backend:    be,
		Log:        log,
	}
}

// Run blocks until ctx is done. The job set is rebuilt from the config
// file on SIGHUP and, when reload.watch is enabled, whenever the file
// changes on disk. A failed reload keeps the previous generation running.
func (d *Daemon) Run(ctx context.Context) error {
	cfg, err := config.Load(d.ConfigPath)
	if err != nil {
		return err
	}

	reload := make(chan struct{}, 1)

	hup := make(chan os.Signal, 1)
	signal.Notify(hup, syscall.SIGHUP)
	defer signal.Stop(hup)
	go func() {
		for range hup {
			select {
			case reload <- struct{}{}:
			default:
			}
		}
	}()

	if cfg.Reload.Watch {
		go d.watchConfig(ctx, time.Duration(cfg.Reload.Debounce), reload)
	}

	for {
		genCtx, cancel := context.WithCancel(ctx)
		stopped := d.start(genCtx, cfg)

		var next *config.Config
		for next == nil {
			select {
			case <-ctx.Done():
				cancel()
				<-stopped
				return nil
			case <-reload:
				c, err := config.Load(d.ConfigPath)
				if err != nil {
					d.Log.Error("config reload failed: %v", err)
					continue
				}
				next = c
			}
		}

		cancel()
		<-stopped
		cfg = next
		d.Log.Info("config reloaded")
	}
}

// start launches one generation: a cron scheduler feeding per-job
// mailboxes, and one goroutine per job draining its mailbox. The returned
// channel closes once everything has wound down after ctx is canceled.
func (d *Daemon) start(ctx context.Context, cfg *config.Config) <-chan struct{} {
	run := runner.New(d.Backend, d.Log)

	var wg sync.WaitGroup
	sched := cron.New()

	for _, job := range cfg.Jobs {
		pol, err := job.Policy(cfg.Logging.Quiet)
		if err != nil {
			// Load already validated this; a failure here means the
			// config changed under us between load and start.
			d.Log.Error("job %s: %v", job.Name, err)
			continue
		}

		name := job.Name
		box := mailbox.New[time.Time]()

		if _, err := sched.AddFunc(job.Schedule, func() { box.Put(time.Now()) }); err != nil {
			d.Log.Error("job %s: bad schedule: %v", name, err)
			continue
		}

		wg.Add(1)
		go func() {
			defer wg.Done()
			d.jobLoop(ctx, name, pol, box, run)
		}()
	}

	sched.Start()
	d.Log.Info("scheduler started with %d job(s)", len(cfg.Jobs))

	stopped := make(chan struct{})
	go func() {
		<-ctx.Done()
		<-sched.Stop().Done()
		wg.Wait()
		close(stopped)
	}()
	return stopped
}

// jobLoop runs one job's triggers sequentially. Runs never overlap for the
// same job; triggers arriving mid-run coalesce in the mailbox.
func (d *Daemon) jobLoop(ctx context.Context, name string, pol policy.Policy, box *mailbox.Mailbox[time.Time], run *runner.Runner) {
	for {
		if _, ok := box.Take(ctx); !ok {
			return
		}

		d.Log.Debug("job %s: triggered", name)

		err := run.Run(ctx, pol)
		if _, skipped := runner.IsSkip(err); skipped {
			// The runner already logged the reason; a skip is a
			// successful no-op.
			continue
		}
		if err != nil {
			d.Log.Error("job %s: %v", name, err)
		}
	}
}
