// Package journal persists per-broadcast archiving outcomes in SQLite.
//
// The Store manages the database connection, schema initialization, and the
// insert/query helpers used by the pipeline and the history command. One row
// is written per processed broadcast per run; runs are tracked separately
// with their aggregate counts. The database is an append-only record of what
// happened, not workflow state: the pipeline never reads it to make
// decisions, so a missing or broken journal degrades to logging only.
//
// Schema changes bump the version in schema.go; users clear the database to
// adopt the new schema.
package journal
