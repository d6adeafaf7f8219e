package archive

import (
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"time"

	"aircheck/internal/cache"
	"aircheck/internal/config"
	"aircheck/internal/fetch"
	"aircheck/internal/ffmpeg"
	"aircheck/internal/journal"
	"aircheck/internal/logging"
	"aircheck/internal/notifications"
	"aircheck/internal/rules"
	"aircheck/internal/services"
	"aircheck/internal/tags"
)

// Client covers the station API operations the runner performs.
// *fetch.Client satisfies it.
type Client interface {
	Listing(ctx context.Context) ([]fetch.ListingDay, error)
	Detail(ctx context.Context, href string) (json.RawMessage, error)
	Download(ctx context.Context, url, dest string) (int64, error)
}

// Dependencies bundles the collaborating services a Runner drives.
// Client, Converter, and Tagger are required. A nil Cache disables
// payload caching, a nil Journal disables run history, and a nil
// Notifier falls back to the configured notification service.
type Dependencies struct {
	Client    Client
	Cache     *cache.Store
	Converter ffmpeg.Converter
	Tagger    tags.Tagger
	Journal   *journal.Store
	Notifier  notifications.Service
}

// Runner executes one archiving pass over the published schedule.
type Runner struct {
	cfg       *config.Config
	basedir   string
	client    Client
	cache     *cache.Store
	converter ffmpeg.Converter
	tagger    tags.Tagger
	journal   *journal.Store
	notifier  notifications.Service
	logger    *slog.Logger

	matcher  *rules.Matcher
	sections map[string]config.Section

	dryRun    bool
	reconvert bool
	retag     bool
	length    int
	now       func() time.Time
}

// Option configures optional Runner behavior.
type Option func(*Runner)

// WithDryRun reports what the run would do without touching the
// filesystem, the journal, or the transcoder.
func WithDryRun() Option {
	return func(r *Runner) {
		r.dryRun = true
	}
}

// WithReconvert transcodes again even when the target file exists.
func WithReconvert() Option {
	return func(r *Runner) {
		r.reconvert = true
	}
}

// WithRetag rewrites tags on already existing target files.
func WithRetag() Option {
	return func(r *Runner) {
		r.retag = true
	}
}

// WithLengthLimit converts only the first seconds of each stream.
func WithLengthLimit(seconds int) Option {
	return func(r *Runner) {
		if seconds > 0 {
			r.length = seconds
		}
	}
}

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(r *Runner) {
		if now != nil {
			r.now = now
		}
	}
}

// NewRunner builds a runner for the given configuration and archive root.
func NewRunner(cfg *config.Config, basedir string, deps Dependencies, logger *slog.Logger, opts ...Option) (*Runner, error) {
	if cfg == nil {
		return nil, services.Wrap(services.ErrConfiguration, "archive", "setup", "configuration is required", nil)
	}
	basedir = strings.TrimSpace(basedir)
	if basedir == "" {
		return nil, services.Wrap(services.ErrConfiguration, "archive", "setup", "archive directory is required", nil)
	}
	if deps.Client == nil {
		return nil, services.Wrap(services.ErrConfiguration, "archive", "setup", "station client is required", nil)
	}
	if deps.Converter == nil {
		return nil, services.Wrap(services.ErrConfiguration, "archive", "setup", "converter is required", nil)
	}
	if deps.Tagger == nil {
		return nil, services.Wrap(services.ErrConfiguration, "archive", "setup", "tagger is required", nil)
	}
	if logger == nil {
		logger = logging.NewNop()
	}
	if deps.Cache == nil {
		deps.Cache = cache.NewStore("", logger)
	}
	if deps.Notifier == nil {
		deps.Notifier = notifications.NewService(cfg)
	}

	ruleSet := make([]rules.Rule, 0, len(cfg.Sections))
	sections := make(map[string]config.Section, len(cfg.Sections))
	for _, section := range cfg.Sections {
		ruleSet = append(ruleSet, section.Rule)
		sections[section.Name] = section
	}

	runner := &Runner{
		cfg:       cfg,
		basedir:   basedir,
		client:    deps.Client,
		cache:     deps.Cache,
		converter: deps.Converter,
		tagger:    deps.Tagger,
		journal:   deps.Journal,
		notifier:  deps.Notifier,
		logger:    logging.NewComponentLogger(logger, "archive"),
		matcher:   rules.NewMatcher(ruleSet...),
		sections:  sections,
		now:       time.Now,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(runner)
		}
	}
	return runner, nil
}

// Summary reports the outcome of one run.
type Summary struct {
	RunID    string
	Matched  int
	Archived int
	Failed   int
	Skipped  int
	Duration time.Duration
	DryRun   bool
}
