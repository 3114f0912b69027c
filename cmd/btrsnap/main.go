package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/mpetrariu/btrsnap/internal/backend"
	"github.com/mpetrariu/btrsnap/internal/config"
	"github.com/mpetrariu/btrsnap/internal/daemon"
	"github.com/mpetrariu/btrsnap/internal/logging"
	"github.com/mpetrariu/btrsnap/internal/policy"
	"github.com/mpetrariu/btrsnap/internal/runner"
)

// settable via -ldflags "-X main.version=..."
var version = "dev"

// errFatal marks errors that were already written through the logger
// (stderr + syslog), so main does not print them a second time.
var errFatal = errors.New("run failed")

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	root := newRootCmd()
	root.AddCommand(newDaemonCmd())

	if err := root.ExecuteContext(ctx); err != nil {
		if _, skipped := runner.IsSkip(err); !skipped && !errors.Is(err, errFatal) {
			fmt.Fprintln(os.Stderr, "error:", err)
		}
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var (
		opts        policy.Options
		showVersion bool
	)

	cmd := &cobra.Command{
		Use:   "btrsnap [flags] <volume> <label> <retention_count>",
		Short: "snapshot a btrfs subvolume and rotate old snapshots",
		Long: `btrsnap creates a point-in-time snapshot of a btrfs subvolume and keeps
at most <retention_count> snapshots sharing the same label, deleting the
oldest excess ones. A retention count of 0 keeps none and deletes every
matching snapshot.

Snapshot names embed the creation time in fixed-width fields, so sorting
names sorts snapshots by age; no state is kept anywhere else. The label
"VFS" switches to the @GMT-... shadow-copy naming convention.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		Args: func(cmd *cobra.Command, args []string) error {
			if showVersion {
				return nil
			}
			return cobra.ExactArgs(3)(cmd, args)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if showVersion {
				fmt.Println("btrsnap", version)
				return nil
			}

			keep, err := strconv.Atoi(args[2])
			if err != nil {
				return fmt.Errorf("retention count %q is not a number", args[2])
			}
			opts.Volume, opts.Label, opts.Keep = args[0], args[1], keep

			pol, err := policy.Resolve(opts)
			if err != nil {
				return err
			}

			log := logging.New("btrsnap", pol.Quiet, false)
			run := runner.New(backend.NewBtrfs(), log)

			err = run.Run(cmd.Context(), pol)
			if _, skipped := runner.IsSkip(err); skipped {
				if pol.SkipIsError {
					return err
				}
				return nil
			}
			if err != nil {
				log.Error("%v", err)
				return errFatal
			}
			return nil
		},
	}

	f := cmd.Flags()
	f.BoolVarP(&opts.ReadOnly, "readonly", "r", false, "create read-only snapshots")
	f.BoolVarP(&opts.Quiet, "quiet", "q", false, "suppress informational output")
	f.BoolVarP(&opts.Postfix, "postfix", "p", false, "place the label after the timestamp")
	f.BoolVarP(&opts.SkipError, "error-on-skip", "E", false, "exit non-zero when the snapshot is skipped")
	f.StringVarP(&opts.SnapDir, "dir", "d", "", `snapshot directory name under the volume (default ".snapshot")`)
	f.StringVarP(&opts.Mirror, "base", "b", "", "base directory mirroring the volume path")
	f.StringVarP(&opts.FlatBase, "flat", "B", "", "flat base directory holding all snapshots")
	f.BoolVarP(&opts.DashDelim, "compat", "c", false, "use '-' instead of ':' between time fields")
	f.IntVarP(&opts.MinAge, "min-age", "t", 0, "skip when the newest snapshot is younger than SECONDS (mtime comparison)")
	f.IntVarP(&opts.MinAgeGen, "min-age-gen", "T", 0, "like -t, but detect changes via the btrfs generation counter")
	f.BoolVarP(&showVersion, "version", "V", false, "print version and exit")

	return cmd
}

func newDaemonCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "daemon",
		Short: "run scheduled snapshot jobs from a config file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			// Fail fast on a broken config before daemonizing.
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}

			log := logging.New("btrsnap", cfg.Logging.Quiet, cfg.Logging.Verbose)
			d := daemon.New(configPath, backend.NewBtrfs(), log)

			log.Info("btrsnap %s starting", version)
			return d.Run(cmd.Context())
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "f", "config.yaml", "path to the jobs config file")

	return cmd
}
