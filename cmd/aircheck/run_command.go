package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/gofrs/flock"
	"github.com/spf13/cobra"

	"aircheck/internal/archive"
	"aircheck/internal/cache"
	"aircheck/internal/config"
	"aircheck/internal/fetch"
	"aircheck/internal/ffmpeg"
	"aircheck/internal/journal"
	"aircheck/internal/logging"
	"aircheck/internal/preflight"
	"aircheck/internal/tags"
)

func newRunCommand(flags *rootFlags) *cobra.Command {
	var dryRun bool
	var noCache bool
	var reconvert bool
	var retag bool
	var cacheFile string
	var length int
	var ffmpegPath string

	cmd := &cobra.Command{
		Use:   "run <download-root> <config.toml>",
		Short: "Fetch the schedule and archive every matching broadcast",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(args[1])
			if err != nil {
				return err
			}
			basedir, err := config.ExpandPath(args[0])
			if err != nil {
				return err
			}
			if ffmpegPath != "" {
				cfg.Station.FFmpegBinary = ffmpegPath
			}

			logger, err := flags.buildLogger(cfg)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			opts := runOptions{
				dryRun:    dryRun,
				noCache:   noCache,
				reconvert: reconvert,
				retag:     retag,
				cacheFile: cacheFile,
				length:    length,
			}
			summary, err := executeRun(ctx, cfg, basedir, logger, opts)
			if summary != nil {
				fmt.Fprintln(cmd.OutOrStdout(), renderSummary(summary))
			}
			return err
		},
	}

	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Report what the run would archive without touching anything")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "Re-fetch every detail record instead of trusting the cache")
	cmd.Flags().BoolVar(&reconvert, "reconvert", false, "Convert again even when the target file exists")
	cmd.Flags().BoolVar(&retag, "retag", false, "Rewrite tags on already existing target files")
	cmd.Flags().StringVar(&cacheFile, "cache-file", "", "Alternate cache file location")
	cmd.Flags().IntVar(&length, "length", 0, "Convert only the first N seconds of each stream (debugging)")
	cmd.Flags().StringVar(&ffmpegPath, "ffmpeg", "", "Alternate ffmpeg executable")

	return cmd
}

type runOptions struct {
	dryRun    bool
	noCache   bool
	reconvert bool
	retag     bool
	cacheFile string
	length    int
}

func executeRun(ctx context.Context, cfg *config.Config, basedir string, logger *slog.Logger, opts runOptions) (*archive.Summary, error) {
	if !opts.dryRun {
		if err := os.MkdirAll(basedir, 0o755); err != nil {
			return nil, fmt.Errorf("create archive directory: %w", err)
		}

		lock := flock.New(filepath.Join(basedir, config.DefaultLockFileName))
		locked, err := lock.TryLock()
		if err != nil {
			return nil, fmt.Errorf("acquire run lock: %w", err)
		}
		if !locked {
			return nil, fmt.Errorf("another aircheck run holds the lock in %s", basedir)
		}
		defer func() {
			if err := lock.Unlock(); err != nil {
				logger.Warn("failed to release run lock", logging.Error(err))
			}
		}()
	}

	if err := runPreflight(ctx, cfg, basedir, opts.dryRun, logger); err != nil {
		return nil, err
	}

	converter, err := ffmpeg.New(cfg.Station.FFmpegBinary)
	if err != nil {
		return nil, err
	}

	cachePath := opts.cacheFile
	if cachePath == "" {
		cachePath = cfg.CacheFile(basedir)
	}
	var cacheOpts []cache.Option
	if opts.noCache {
		cacheOpts = append(cacheOpts, cache.WithBypass())
	}
	store := cache.NewStore(cachePath, logger, cacheOpts...)
	if !opts.dryRun {
		defer func() {
			if err := store.Save(); err != nil {
				logger.Warn("failed to save payload cache", logging.Error(err))
			}
		}()
	}

	var journalStore *journal.Store
	if !opts.dryRun {
		if path := cfg.JournalFile(basedir); path != "" {
			journalStore, err = journal.Open(path)
			if err != nil {
				logger.Warn("run journal unavailable",
					logging.String("path", path),
					logging.Error(err))
			} else {
				defer journalStore.Close()
			}
		}
	}

	client := fetch.New(
		fetch.WithListingURL(cfg.Station.ListingURL),
	)

	deps := archive.Dependencies{
		Client:    client,
		Cache:     store,
		Converter: converter,
		Tagger:    tags.NewWriter(converter),
		Journal:   journalStore,
	}
	runnerOpts := make([]archive.Option, 0, 4)
	if opts.dryRun {
		runnerOpts = append(runnerOpts, archive.WithDryRun())
	}
	if opts.reconvert {
		runnerOpts = append(runnerOpts, archive.WithReconvert())
	}
	if opts.retag {
		runnerOpts = append(runnerOpts, archive.WithRetag())
	}
	if opts.length > 0 {
		runnerOpts = append(runnerOpts, archive.WithLengthLimit(opts.length))
	}

	runner, err := archive.NewRunner(cfg, basedir, deps, logger, runnerOpts...)
	if err != nil {
		return nil, err
	}
	return runner.Run(ctx)
}

// runPreflight gates the run on the checks that must hold before any
// archiving starts. Cache and journal checks only warn; both stores
// degrade gracefully when their files are unusable.
func runPreflight(ctx context.Context, cfg *config.Config, basedir string, dryRun bool, logger *slog.Logger) error {
	var results []preflight.Result
	if dryRun {
		results = []preflight.Result{
			preflight.CheckBinary("FFmpeg", cfg.Station.FFmpegBinary),
		}
	} else {
		results = preflight.RunAll(ctx, cfg, basedir)
	}

	required := map[string]bool{
		"FFmpeg":            true,
		"Archive directory": true,
		"Station API":       true,
	}

	var failed []string
	for _, result := range results {
		if result.Passed {
			logger.Debug("preflight check passed",
				logging.String("check", result.Name),
				logging.String("detail", result.Detail))
			continue
		}
		if required[result.Name] {
			logger.Error("preflight check failed",
				logging.String("check", result.Name),
				logging.String("detail", result.Detail))
			failed = append(failed, result.Name)
		} else {
			logger.Warn("preflight check failed",
				logging.String("check", result.Name),
				logging.String("detail", result.Detail))
		}
	}
	if len(failed) > 0 {
		return fmt.Errorf("preflight failed: %s", strings.Join(failed, ", "))
	}
	return nil
}

func renderSummary(summary *archive.Summary) string {
	rows := [][]string{
		{"Matched", strconv.Itoa(summary.Matched)},
		{"Archived", strconv.Itoa(summary.Archived)},
		{"Failed", strconv.Itoa(summary.Failed)},
		{"Skipped", strconv.Itoa(summary.Skipped)},
		{"Duration", summary.Duration.Round(time.Millisecond).String()},
	}
	if summary.DryRun {
		rows = append(rows, []string{"Mode", "dry run"})
	}
	return renderTable(
		[]string{"Run " + summary.RunID, ""},
		rows,
		[]columnAlignment{alignLeft, alignRight},
	)
}
