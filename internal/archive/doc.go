// Package archive drives the fetch, match, download, convert, and tag
// pipeline for one invocation.
//
// A Runner walks the published schedule, assigns broadcasts to the
// configured sections, and archives every match into the layout the
// section describes. Failures are contained per broadcast: the error is
// logged and journaled and the run carries on with the next match. Only
// an unreachable schedule listing aborts the whole run.
package archive
