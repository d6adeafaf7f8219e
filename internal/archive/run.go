package archive

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"aircheck/internal/config"
	"aircheck/internal/fetch"
	"aircheck/internal/journal"
	"aircheck/internal/logging"
	"aircheck/internal/services"
)

type matchedBroadcast struct {
	section config.Section
	summary fetch.Summary
	start   time.Time
}

// Run fetches the schedule, matches it against the configured sections,
// and archives every match. Per-broadcast failures are absorbed; the
// returned error is non-nil only when the listing cannot be fetched or
// the context is cancelled mid-run.
func (r *Runner) Run(ctx context.Context) (*Summary, error) {
	runID := uuid.NewString()
	ctx = services.WithRunID(ctx, runID)
	log := logging.WithContext(ctx, r.logger)

	startedAt := r.now()
	summary := &Summary{RunID: runID, DryRun: r.dryRun}

	listing, err := r.client.Listing(ctx)
	if err != nil {
		r.notify(ctx, log, "error", func(ctx context.Context) error {
			return r.notifier.NotifyError(ctx, err, "schedule listing")
		})
		return nil, err
	}

	total := 0
	for _, day := range listing {
		total += len(day.Broadcasts)
	}
	matches := r.matchListing(listing)
	summary.Matched = len(matches)
	log.Info("schedule checked",
		logging.Int("broadcasts", total),
		logging.Int("matched", len(matches)),
		logging.Int("sections", len(r.cfg.Sections)))

	r.startJournalRun(ctx, log, runID, startedAt)
	r.notify(ctx, log, "run started", func(ctx context.Context) error {
		return r.notifier.NotifyRunStarted(ctx, len(r.cfg.Sections))
	})

	for _, m := range matches {
		if ctx.Err() != nil {
			summary.Duration = r.now().Sub(startedAt)
			return summary, ctx.Err()
		}
		itemCtx := services.WithSection(ctx, m.section.Name)
		itemCtx = services.WithBroadcastID(itemCtx, int64(m.summary.ID))

		res := r.processOne(itemCtx, m)
		switch res.status {
		case journal.StatusDone:
			summary.Archived++
		case journal.StatusFailed:
			summary.Failed++
		case journal.StatusSkipped:
			summary.Skipped++
		}
		r.recordBroadcast(itemCtx, log, runID, m, res)
		if res.status == journal.StatusDone && res.converted && !r.dryRun {
			r.notify(itemCtx, log, "broadcast archived", func(ctx context.Context) error {
				return r.notifier.NotifyBroadcastArchived(ctx, m.section.Name, res.display(m.summary))
			})
		}
	}

	summary.Duration = r.now().Sub(startedAt)
	r.finishJournalRun(ctx, log, runID, startedAt, summary)
	r.notify(ctx, log, "run completed", func(ctx context.Context) error {
		return r.notifier.NotifyRunCompleted(ctx, summary.Archived, summary.Failed, summary.Duration)
	})
	log.Info("run complete",
		logging.Int("archived", summary.Archived),
		logging.Int("failed", summary.Failed),
		logging.Int("skipped", summary.Skipped),
		logging.Duration("duration", summary.Duration))
	return summary, nil
}

// matchListing flattens the day buckets and assigns each summary to the
// first section whose rule accepts it.
func (r *Runner) matchListing(days []fetch.ListingDay) []matchedBroadcast {
	loc := r.cfg.Location()
	var matches []matchedBroadcast
	for _, day := range days {
		for _, summary := range day.Broadcasts {
			start := summary.ScheduledStart.Time(loc)
			rule, ok := r.matcher.Match(summary.Title, start)
			if !ok {
				continue
			}
			matches = append(matches, matchedBroadcast{
				section: r.sections[rule.Section],
				summary: summary,
				start:   start,
			})
		}
	}
	return matches
}

// processOne runs the pipeline for one match and classifies the outcome.
func (r *Runner) processOne(ctx context.Context, m matchedBroadcast) itemResult {
	log := logging.WithContext(ctx, r.logger)
	res, err := r.process(ctx, m)
	if err == nil {
		return res
	}
	res.errText = err.Error()
	res.status = services.FailureStatus(err)
	if res.status == journal.StatusSkipped {
		log.Warn("broadcast skipped",
			logging.String("broadcast", res.display(m.summary)),
			logging.Error(err))
	} else {
		log.Error("broadcast failed",
			logging.String("broadcast", res.display(m.summary)),
			logging.Error(err))
	}
	return res
}

func (r *Runner) startJournalRun(ctx context.Context, log *slog.Logger, runID string, startedAt time.Time) {
	if r.journal == nil || r.dryRun {
		return
	}
	if err := r.journal.StartRun(ctx, runID, startedAt); err != nil {
		log.Warn("journal write failed",
			logging.String(logging.FieldEventType, "journal_write_failed"),
			logging.Error(err))
	}
}

func (r *Runner) finishJournalRun(ctx context.Context, log *slog.Logger, runID string, startedAt time.Time, summary *Summary) {
	if r.journal == nil || r.dryRun {
		return
	}
	run := journal.Run{
		ID:         runID,
		StartedAt:  startedAt,
		FinishedAt: r.now(),
		Archived:   summary.Archived,
		Failed:     summary.Failed,
		Skipped:    summary.Skipped,
	}
	if err := r.journal.FinishRun(ctx, run); err != nil {
		log.Warn("journal write failed",
			logging.String(logging.FieldEventType, "journal_write_failed"),
			logging.Error(err))
	}
}

func (r *Runner) recordBroadcast(ctx context.Context, log *slog.Logger, runID string, m matchedBroadcast, res itemResult) {
	if r.journal == nil || r.dryRun {
		return
	}
	rec := journal.Record{
		RunID:          runID,
		BroadcastID:    int64(m.summary.ID),
		Section:        m.section.Name,
		Title:          res.title(m.summary),
		ScheduledStart: m.start,
		Status:         res.status,
		ErrorMessage:   res.errText,
		OutputPath:     res.output,
	}
	if err := r.journal.RecordBroadcast(ctx, rec); err != nil {
		log.Warn("journal write failed",
			logging.String(logging.FieldEventType, "journal_write_failed"),
			logging.Error(err))
	}
}

func (r *Runner) notify(ctx context.Context, log *slog.Logger, event string, fn func(context.Context) error) {
	if err := fn(ctx); err != nil {
		log.Warn("notification failed",
			logging.String(logging.FieldEventType, "notify_failed"),
			logging.String("event", event),
			logging.Error(err))
	}
}
