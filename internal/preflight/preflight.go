package preflight

import (
	"context"

	"aircheck/internal/config"
)

// Result reports the outcome of a single preflight check.
type Result struct {
	Name   string
	Passed bool
	Detail string
}

// RunAll executes all applicable checks for the given config and archive
// root. Checks for disabled features are skipped.
func RunAll(ctx context.Context, cfg *config.Config, basedir string) []Result {
	if cfg == nil {
		return nil
	}

	results := []Result{
		CheckBinary("FFmpeg", cfg.Station.FFmpegBinary),
		CheckDirectoryAccess("Archive directory", basedir),
		CheckListing(ctx, cfg.Station.ListingURL),
	}

	// Cache and journal files default to the archive root but may be
	// configured anywhere.
	if file := cfg.CacheFile(basedir); file != "" {
		results = append(results, CheckFileWritable("Cache file", file))
	}
	if file := cfg.JournalFile(basedir); file != "" {
		results = append(results, CheckFileWritable("Journal file", file))
	}

	return results
}

// Passed reports whether every result passed.
func Passed(results []Result) bool {
	for _, result := range results {
		if !result.Passed {
			return false
		}
	}
	return true
}
