package fetch_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"golang.org/x/time/rate"

	"aircheck/internal/fetch"
	"aircheck/internal/services"
)

func newTestClient(t *testing.T, handler http.Handler) (*fetch.Client, *httptest.Server) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	client := fetch.New(
		fetch.WithListingURL(server.URL+"/current/broadcasts"),
		fetch.WithLimiter(rate.NewLimiter(rate.Inf, 0)),
	)
	return client, server
}

func TestListingSuccess(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/current/broadcasts" {
			t.Fatalf("unexpected path %q", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[
			{"day": 20170516, "broadcasts": [
				{"id": 475617, "title": "Morgenjournal", "href": "https://example.com/broadcast/475617", "scheduledStart": 1494912600000},
				{"id": "475618", "title": "Pasticcio", "href": "https://example.com/broadcast/475618", "scheduledStart": "1494914400000"}
			]},
			{"day": 20170517, "broadcasts": []}
		]`))
	}))

	days, err := client.Listing(context.Background())
	if err != nil {
		t.Fatalf("Listing returned error: %v", err)
	}
	if len(days) != 2 {
		t.Fatalf("expected 2 listing days, got %d", len(days))
	}
	if len(days[0].Broadcasts) != 2 {
		t.Fatalf("expected 2 broadcasts on the first day, got %d", len(days[0].Broadcasts))
	}
	first := days[0].Broadcasts[0]
	if first.ID != 475617 || first.Title != "Morgenjournal" {
		t.Fatalf("unexpected first entry %+v", first)
	}
	second := days[0].Broadcasts[1]
	if second.ID != 475618 {
		t.Fatalf("expected quoted id to parse, got %+v", second)
	}
	start := first.ScheduledStart.Time(time.UTC)
	if start.IsZero() {
		t.Fatal("expected scheduled start to parse")
	}
}

func TestListingHTTPError(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))

	_, err := client.Listing(context.Background())
	if !errors.Is(err, services.ErrNetwork) {
		t.Fatalf("expected network error, got %v", err)
	}
}

func TestDetailReturnsRawPayload(t *testing.T) {
	payload := `{"id": 475617, "streams": [{"loopStreamId": "x.mp3"}]}`
	client, server := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(payload))
	}))

	raw, err := client.Detail(context.Background(), server.URL+"/broadcast/475617")
	if err != nil {
		t.Fatalf("Detail returned error: %v", err)
	}
	if string(raw) != payload {
		t.Fatalf("unexpected payload %s", raw)
	}
}

func TestDetailRejectsInvalidJSON(t *testing.T) {
	client, server := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("<html>not json</html>"))
	}))

	if _, err := client.Detail(context.Background(), server.URL+"/broadcast/1"); !errors.Is(err, services.ErrNetwork) {
		t.Fatalf("expected network error for invalid JSON, got %v", err)
	}
}

func TestDetailRejectsEmptyHref(t *testing.T) {
	client := fetch.New(fetch.WithLimiter(rate.NewLimiter(rate.Inf, 0)))
	if _, err := client.Detail(context.Background(), "  "); err == nil {
		t.Fatal("expected error for empty detail url")
	}
}

func TestDownloadWritesFile(t *testing.T) {
	body := []byte("audio bytes")
	client, server := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write(body)
	}))

	dest := filepath.Join(t.TempDir(), "2017-05-16_0700_tl.mp3")
	written, err := client.Download(context.Background(), server.URL+"/stream", dest)
	if err != nil {
		t.Fatalf("Download returned error: %v", err)
	}
	if written != int64(len(body)) {
		t.Fatalf("Download wrote %d bytes, want %d", written, len(body))
	}
	got, err := os.ReadFile(dest)
	if err != nil {
		t.Fatalf("read downloaded file: %v", err)
	}
	if string(got) != string(body) {
		t.Fatalf("unexpected file contents %q", got)
	}
}

func TestDownloadFailureLeavesNoFile(t *testing.T) {
	client, server := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))

	dest := filepath.Join(t.TempDir(), "missing.mp3")
	if _, err := client.Download(context.Background(), server.URL+"/stream", dest); !errors.Is(err, services.ErrNetwork) {
		t.Fatalf("expected network error, got %v", err)
	}
	if _, err := os.Stat(dest); !errors.Is(err, os.ErrNotExist) {
		t.Fatal("expected no file after failed download")
	}
}

func TestDownloadTruncatedBodyLeavesNoFile(t *testing.T) {
	client, server := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Length", "1024")
		_, _ = w.Write([]byte("short"))
		if f, ok := w.(http.Flusher); ok {
			f.Flush()
		}
		// Abort the connection so the body stays short of the declared length.
		if hj, ok := w.(http.Hijacker); ok {
			conn, _, err := hj.Hijack()
			if err == nil {
				_ = conn.Close()
			}
		}
	}))

	dest := filepath.Join(t.TempDir(), "truncated.mp3")
	if _, err := client.Download(context.Background(), server.URL+"/stream", dest); err == nil {
		t.Fatal("expected error for truncated body")
	}
	if _, err := os.Stat(dest); !errors.Is(err, os.ErrNotExist) {
		t.Fatal("expected no partial file after truncated download")
	}
}
