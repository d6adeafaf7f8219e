// Package preflight provides readiness checks for the external pieces an
// archiving run depends on: the ffmpeg binary, the archive directory, and
// the station's schedule endpoint.
//
// These checks run in two contexts:
//   - The CLI "aircheck doctor" command runs the full set via RunAll and
//     renders the results.
//   - The "aircheck run" command uses individual check functions
//     (CheckBinary, CheckDirectoryAccess) before fetching anything, so a
//     missing encoder fails the run before any stream is downloaded.
package preflight
