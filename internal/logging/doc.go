// Package logging configures structured slog output for the archiver.
//
// Two formats are supported: a human-oriented console format used on
// terminals and a JSON format for machine consumption. Components obtain
// loggers through NewComponentLogger so every record carries a component
// attribute, and WithContext augments a logger with broadcast, section, and
// run identifiers stamped on the context by the pipeline.
package logging
