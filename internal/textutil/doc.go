// Package textutil provides text processing utilities for filename
// sanitization and tag/summary normalization.
//
// The primary use cases are:
//   - Sanitizing filenames, path segments, and stream identifiers for safe
//     filesystem use
//   - Collapsing whitespace to build one-line broadcast summaries
//   - Truncating summaries by character count
//   - Normalizing line endings in tag values
package textutil
