package services_test

import (
	"errors"
	"strings"
	"testing"

	"aircheck/internal/journal"
	"aircheck/internal/services"
)

func TestWrapIncludesContext(t *testing.T) {
	base := errors.New("boom")
	err := services.Wrap(services.ErrTranscode, "transcode", "convert", "ffmpeg failed", base)
	if err == nil {
		t.Fatal("expected error")
	}
	if !errors.Is(err, services.ErrTranscode) {
		t.Fatalf("expected marker to be retained, got %v", err)
	}
	if !errors.Is(err, base) {
		t.Fatalf("expected wrapped error to contain base error, got %v", err)
	}
	msg := err.Error()
	for _, fragment := range []string{"transcode", "convert", "ffmpeg failed"} {
		if !strings.Contains(msg, fragment) {
			t.Fatalf("expected %q in error string %q", fragment, msg)
		}
	}
}

func TestWrapDefaultsMarker(t *testing.T) {
	err := services.Wrap(nil, "fetch", "listing", "", errors.New("timeout"))
	if !errors.Is(err, services.ErrNetwork) {
		t.Fatalf("expected network marker for nil marker, got %v", err)
	}
}

func TestFailureStatusMapping(t *testing.T) {
	noData := services.Wrap(services.ErrNoData, "fetch", "detail", "no stream published", nil)
	if status := services.FailureStatus(noData); status != journal.StatusSkipped {
		t.Fatalf("expected skipped for no-data error, got %s", status)
	}

	transcodeErr := services.Wrap(services.ErrTranscode, "transcode", "convert", "exit status 1", errors.New("io"))
	if status := services.FailureStatus(transcodeErr); status != journal.StatusFailed {
		t.Fatalf("expected failed for transcode error, got %s", status)
	}

	if status := services.FailureStatus(nil); status != journal.StatusFailed {
		t.Fatalf("expected failed for nil error, got %s", status)
	}
}
