package preflight

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"aircheck/internal/config"
)

func TestCheckDirectoryAccess_OK(t *testing.T) {
	dir := t.TempDir()
	result := CheckDirectoryAccess("test", dir)
	if !result.Passed {
		t.Fatalf("expected pass for temp dir, got: %s", result.Detail)
	}
}

func TestCheckDirectoryAccess_NotExist(t *testing.T) {
	result := CheckDirectoryAccess("test", filepath.Join(t.TempDir(), "nope"))
	if result.Passed {
		t.Fatal("expected failure for missing dir")
	}
	if result.Detail == "" {
		t.Fatal("expected non-empty detail")
	}
}

func TestCheckDirectoryAccess_NotDir(t *testing.T) {
	f := filepath.Join(t.TempDir(), "file.txt")
	if err := os.WriteFile(f, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	result := CheckDirectoryAccess("test", f)
	if result.Passed {
		t.Fatal("expected failure for file path")
	}
}

func TestCheckBinary_OK(t *testing.T) {
	result := CheckBinary("Shell", "sh")
	if !result.Passed {
		t.Fatalf("expected sh on PATH, got: %s", result.Detail)
	}
	if result.Detail == "" {
		t.Fatal("expected resolved path in detail")
	}
}

func TestCheckBinary_Missing(t *testing.T) {
	result := CheckBinary("FFmpeg", "aircheck-no-such-binary")
	if result.Passed {
		t.Fatal("expected failure for missing binary")
	}
}

func TestCheckBinary_NotConfigured(t *testing.T) {
	result := CheckBinary("FFmpeg", "  ")
	if result.Passed {
		t.Fatal("expected failure for empty command")
	}
	if result.Detail != "command not configured" {
		t.Fatalf("unexpected detail: %s", result.Detail)
	}
}

func TestCheckListing_OK(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	result := CheckListing(context.Background(), srv.URL)
	if !result.Passed {
		t.Fatalf("expected pass, got: %s", result.Detail)
	}
}

func TestCheckListing_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	result := CheckListing(context.Background(), srv.URL)
	if result.Passed {
		t.Fatal("expected failure for server error")
	}
}

func TestCheckListing_Unreachable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {}))
	url := srv.URL
	srv.Close()

	result := CheckListing(context.Background(), url)
	if result.Passed {
		t.Fatal("expected failure for closed server")
	}
}

func TestCheckFileWritable_Existing(t *testing.T) {
	f := filepath.Join(t.TempDir(), "cache.json.gz")
	if err := os.WriteFile(f, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	result := CheckFileWritable("Cache file", f)
	if !result.Passed {
		t.Fatalf("expected pass for writable file, got: %s", result.Detail)
	}
}

func TestCheckFileWritable_Creatable(t *testing.T) {
	f := filepath.Join(t.TempDir(), "deep", "nested", "journal.db")
	result := CheckFileWritable("Journal file", f)
	if !result.Passed {
		t.Fatalf("expected pass for creatable file, got: %s", result.Detail)
	}
}

func TestRunAll(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	configPath := filepath.Join(t.TempDir(), "config.toml")
	contents := "[station]\nlisting_url = \"" + srv.URL + "\"\nffmpeg_binary = \"sh\"\n"
	if err := os.WriteFile(configPath, []byte(contents), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err := config.Load(configPath)
	if err != nil {
		t.Fatalf("load config: %v", err)
	}

	basedir := t.TempDir()
	results := RunAll(context.Background(), cfg, basedir)
	if len(results) != 5 {
		t.Fatalf("expected 5 checks, got %d: %+v", len(results), results)
	}
	if !Passed(results) {
		t.Fatalf("expected all checks to pass: %+v", results)
	}
}

func TestRunAllSkipsDisabledFiles(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	configPath := filepath.Join(t.TempDir(), "config.toml")
	contents := "[station]\nlisting_url = \"" + srv.URL + "\"\nffmpeg_binary = \"sh\"\n\n" +
		"[cache]\nenabled = false\n\n[journal]\nenabled = false\n"
	if err := os.WriteFile(configPath, []byte(contents), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err := config.Load(configPath)
	if err != nil {
		t.Fatalf("load config: %v", err)
	}

	results := RunAll(context.Background(), cfg, t.TempDir())
	if len(results) != 3 {
		t.Fatalf("expected 3 checks, got %d: %+v", len(results), results)
	}
}
