// Package config loads, normalizes, and validates aircheck configuration
// data.
//
// A configuration file carries a handful of global tables (station
// endpoints, cache, journal, logging, notifications) and an ordered list
// of [[section]] rules. Every section key the original INI dialect
// documented keeps its spelling here: TimeWindow, Days, TargetDir,
// TargetName, KeepOriginal, FFmpegArguments, Title, and the reserved
// Tag* prefix whose remainder becomes a lowercase tag name. Section
// order is preserved because rule matching is first-hit-wins.
//
// Always obtain settings through this package so downstream code
// receives expanded paths, compiled match rules, and clear validation
// errors.
package config
