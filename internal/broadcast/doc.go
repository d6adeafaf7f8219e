// Package broadcast models one scheduled program instance and derives the
// attribute set used for rule matching and template expansion.
//
// A Broadcast is built once from the raw detail JSON delivered by the
// station API. Every derived field (stripped title, HTML-converted long
// text, one-line summaries, download URL) is a pure function of the raw
// payload, computed at construction and immutable afterwards. Records
// without a playable stream are rejected at construction so later stages
// never see half-usable broadcasts.
package broadcast
