package cache_test

import (
	"compress/gzip"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"aircheck/internal/cache"
	"aircheck/internal/services"
)

type stubFetcher struct {
	calls   int
	payload json.RawMessage
	err     error
}

func (f *stubFetcher) Detail(_ context.Context, _ string) (json.RawMessage, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.payload, nil
}

func writeGzipJSON(t *testing.T, path string, payloads map[string]json.RawMessage) {
	t.Helper()
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create cache file: %v", err)
	}
	zw := gzip.NewWriter(f)
	if err := json.NewEncoder(zw).Encode(payloads); err != nil {
		t.Fatalf("encode cache file: %v", err)
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("close compressor: %v", err)
	}
	if err := f.Close(); err != nil {
		t.Fatalf("close cache file: %v", err)
	}
}

func TestGetOrFetchRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cache.json.gz")
	href := "https://audioapi.orf.at/oe1/api/json/4.0/broadcast/475617"
	fetcher := &stubFetcher{payload: json.RawMessage(`{"id": 475617, "title": "Morgenjournal"}`)}

	store := cache.NewStore(path, nil)
	payload, fromCache, err := store.GetOrFetch(context.Background(), href, fetcher)
	if err != nil {
		t.Fatalf("GetOrFetch returned error: %v", err)
	}
	if fromCache {
		t.Fatal("expected first access to miss the cache")
	}
	if string(payload) != string(fetcher.payload) {
		t.Fatalf("unexpected payload %s", payload)
	}

	if _, fromCache, err = store.GetOrFetch(context.Background(), href, fetcher); err != nil || !fromCache {
		t.Fatalf("expected second access to hit the cache, got fromCache=%v err=%v", fromCache, err)
	}
	if fetcher.calls != 1 {
		t.Fatalf("expected a single fetch, got %d", fetcher.calls)
	}

	if err := store.Save(); err != nil {
		t.Fatalf("Save returned error: %v", err)
	}

	reopened := cache.NewStore(path, nil)
	if got := reopened.Len(); got != 1 {
		t.Fatalf("reopened cache holds %d payloads, want 1", got)
	}
	fresh := &stubFetcher{payload: json.RawMessage(`{"id": 0}`)}
	payload, fromCache, err = reopened.GetOrFetch(context.Background(), href, fresh)
	if err != nil || !fromCache {
		t.Fatalf("expected reopened cache to serve the payload, got fromCache=%v err=%v", fromCache, err)
	}
	if fresh.calls != 0 {
		t.Fatalf("expected no fetch from reopened cache, got %d", fresh.calls)
	}
	if string(payload) != `{"id": 475617, "title": "Morgenjournal"}` {
		t.Fatalf("unexpected payload after reload: %s", payload)
	}
}

func TestGetOrFetchErrorPayload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cache.json.gz")
	fetcher := &stubFetcher{payload: json.RawMessage(`{"message": "Not Found"}`)}

	store := cache.NewStore(path, nil)
	_, _, err := store.GetOrFetch(context.Background(), "href", fetcher)
	if !errors.Is(err, services.ErrNoData) {
		t.Fatalf("expected missing-data error, got %v", err)
	}

	if _, _, err := store.GetOrFetch(context.Background(), "href", fetcher); !errors.Is(err, services.ErrNoData) {
		t.Fatalf("expected repeated missing-data error, got %v", err)
	}
	if fetcher.calls != 2 {
		t.Fatalf("expected error payloads to be re-fetched, got %d calls", fetcher.calls)
	}

	if err := store.Save(); err != nil {
		t.Fatalf("Save returned error: %v", err)
	}
	if _, err := os.Stat(path); !errors.Is(err, os.ErrNotExist) {
		t.Fatal("expected no cache file for an empty cache")
	}
}

func TestGetOrFetchDistrustsSeededErrorPayload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cache.json.gz")
	writeGzipJSON(t, path, map[string]json.RawMessage{
		"href": json.RawMessage(`{"message": "gone"}`),
	})

	fetcher := &stubFetcher{payload: json.RawMessage(`{"id": 1}`)}
	store := cache.NewStore(path, nil)
	payload, fromCache, err := store.GetOrFetch(context.Background(), "href", fetcher)
	if err != nil {
		t.Fatalf("GetOrFetch returned error: %v", err)
	}
	if fromCache || fetcher.calls != 1 {
		t.Fatalf("expected seeded error payload to be re-fetched, fromCache=%v calls=%d", fromCache, fetcher.calls)
	}
	if string(payload) != `{"id": 1}` {
		t.Fatalf("unexpected payload %s", payload)
	}
}

func TestBypassSkipsReadsKeepsWrites(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cache.json.gz")
	fetcher := &stubFetcher{payload: json.RawMessage(`{"id": 1}`)}

	store := cache.NewStore(path, nil, cache.WithBypass())
	for i := 0; i < 2; i++ {
		if _, fromCache, err := store.GetOrFetch(context.Background(), "href", fetcher); err != nil || fromCache {
			t.Fatalf("expected bypassed lookup to fetch, fromCache=%v err=%v", fromCache, err)
		}
	}
	if fetcher.calls != 2 {
		t.Fatalf("expected every bypassed access to fetch, got %d calls", fetcher.calls)
	}

	if err := store.Save(); err != nil {
		t.Fatalf("Save returned error: %v", err)
	}

	reopened := cache.NewStore(path, nil)
	fresh := &stubFetcher{}
	if _, fromCache, err := reopened.GetOrFetch(context.Background(), "href", fresh); err != nil || !fromCache {
		t.Fatalf("expected bypassed fetches to be written back, fromCache=%v err=%v", fromCache, err)
	}
}

func TestCorruptFileStartsEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cache.json.gz")
	if err := os.WriteFile(path, []byte("not a gzip stream"), 0o644); err != nil {
		t.Fatalf("write corrupt file: %v", err)
	}

	store := cache.NewStore(path, nil)
	if got := store.Len(); got != 0 {
		t.Fatalf("expected empty cache after corrupt load, got %d", got)
	}
	fetcher := &stubFetcher{payload: json.RawMessage(`{"id": 1}`)}
	if _, fromCache, err := store.GetOrFetch(context.Background(), "href", fetcher); err != nil || fromCache {
		t.Fatalf("expected fetch after corrupt load, fromCache=%v err=%v", fromCache, err)
	}
}

func TestDisabledWithoutPath(t *testing.T) {
	fetcher := &stubFetcher{payload: json.RawMessage(`{"id": 1}`)}
	store := cache.NewStore("", nil)
	for i := 0; i < 2; i++ {
		if _, fromCache, err := store.GetOrFetch(context.Background(), "href", fetcher); err != nil || fromCache {
			t.Fatalf("expected disabled cache to fetch, fromCache=%v err=%v", fromCache, err)
		}
	}
	if fetcher.calls != 2 {
		t.Fatalf("expected every access to fetch, got %d calls", fetcher.calls)
	}
	if err := store.Save(); err != nil {
		t.Fatalf("Save returned error: %v", err)
	}
}
