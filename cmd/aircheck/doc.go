// Package main hosts the aircheck CLI entrypoint and command graph.
//
// The Cobra-based command tree translates terminal invocations into
// archiving runs, configuration scaffolding, section inspection, and run
// history queries. It centralizes configuration loading, the run lock,
// preflight gating, and structured logging setup so subcommands can focus
// on user experience instead of wiring.
//
// Keep this package lean: add new functionality by extending the internal
// packages first, then surface it through dedicated commands or flags
// here.
package main
