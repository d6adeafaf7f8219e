package main

import (
	"bytes"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCommand()
	var buf bytes.Buffer
	cmd.SetOut(&buf)
	cmd.SetErr(&buf)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return buf.String(), err
}

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "oe1.toml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func requireContains(t *testing.T, haystack, needle string) {
	t.Helper()
	if !strings.Contains(haystack, needle) {
		t.Fatalf("expected output to contain %q, got:\n%s", needle, haystack)
	}
}

// writeFakeFFmpeg creates an executable that writes a short payload to
// its final argument, mimicking a transcoder producing its output file.
func writeFakeFFmpeg(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "ffmpeg")
	script := "#!/bin/sh\nfor last; do :; done\nprintf 'audio' > \"$last\"\n"
	if err := os.WriteFile(path, []byte(script), 0o755); err != nil {
		t.Fatalf("write fake ffmpeg: %v", err)
	}
	return path
}

// newStationServer serves a one-broadcast schedule: a listing under
// /broadcasts, its detail record, and the stream bytes.
func newStationServer(t *testing.T) *httptest.Server {
	t.Helper()

	mux := http.NewServeMux()
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	mux.HandleFunc("/broadcasts", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintf(w, `[{"day":20170518,"broadcasts":[
			{"id":475617,"title":"Morgenjournal","href":%q,"scheduledStart":1495083600000}
		]}]`, server.URL+"/detail/475617")
	})
	mux.HandleFunc("/detail/475617", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintf(w, `{
			"id":475617,
			"title":"Morgenjournal",
			"subtitle":"<p>Das Morgenjournal</p>",
			"scheduledStart":1495083600000,
			"href":%q,
			"streams":[{"loopStreamId":"2017-05-18_0700.mp3"}]
		}`, server.URL+"/detail/475617")
	})
	mux.HandleFunc("/stream", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("stream-bytes"))
	})

	return server
}

func stationConfig(t *testing.T, server *httptest.Server, extra string) string {
	t.Helper()
	return writeConfig(t, fmt.Sprintf(`
[station]
listing_url = %q
stream_base_url = %q

[journal]
enabled = true

[[section]]
Name = "Journale"
%s
`, server.URL+"/broadcasts", server.URL+"/stream?id=", extra))
}
