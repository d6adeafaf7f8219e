// Package services defines shared utilities consumed by the archiving
// pipeline and its external integrations.
//
// Key responsibilities:
//   - Context helpers that stamp broadcast IDs, section names, and run
//     correlation identifiers for logging.
//   - Structured error markers plus the Wrap helper that classify failures
//     into the pipeline's policy buckets (fatal vs per-broadcast skip) and
//     into journal statuses (failed vs skipped).
//
// Use these helpers when wiring new pipeline logic so operational behaviour
// (error handling, observability) stays uniform across components.
package services
