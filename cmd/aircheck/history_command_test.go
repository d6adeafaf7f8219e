package main

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"aircheck/internal/config"
	"aircheck/internal/journal"
)

func TestHistoryRendersJournalRows(t *testing.T) {
	root := t.TempDir()
	store, err := journal.Open(filepath.Join(root, config.DefaultJournalFileName))
	if err != nil {
		t.Fatalf("open journal: %v", err)
	}

	ctx := context.Background()
	started := time.Date(2017, 5, 18, 7, 0, 0, 0, time.UTC)
	if err := store.StartRun(ctx, "run-1", started); err != nil {
		t.Fatalf("start run: %v", err)
	}
	if err := store.RecordBroadcast(ctx, journal.Record{
		RunID:          "run-1",
		BroadcastID:    475617,
		Section:        "News",
		Title:          "Morgenjournal",
		ScheduledStart: started,
		Status:         journal.StatusDone,
		OutputPath:     "/archive/News/morgenjournal.opus",
	}); err != nil {
		t.Fatalf("record broadcast: %v", err)
	}
	if err := store.RecordBroadcast(ctx, journal.Record{
		RunID:          "run-1",
		BroadcastID:    475618,
		Section:        "News",
		Title:          "Mittagsjournal",
		ScheduledStart: started.Add(5 * time.Hour),
		Status:         journal.StatusFailed,
		ErrorMessage:   "transcode failed",
	}); err != nil {
		t.Fatalf("record broadcast: %v", err)
	}
	if err := store.Close(); err != nil {
		t.Fatalf("close journal: %v", err)
	}

	out, err := runCLI(t, "history", root)
	if err != nil {
		t.Fatalf("history: %v\n%s", err, out)
	}
	requireContains(t, out, "Morgenjournal")
	requireContains(t, out, "/archive/News/morgenjournal.opus")
	requireContains(t, out, "transcode failed")
}

func TestHistoryWithoutJournal(t *testing.T) {
	if _, err := runCLI(t, "history", t.TempDir()); err == nil {
		t.Fatal("expected history to fail without a journal")
	}
}
