// Package catalog exports every resolved asset and sample.
//
// Store keeps the export in SQLite. Each export replaces the previous one
// inside a single transaction while holding an exclusive file lock, so
// concurrent `baldr export` runs serialize. Snapshots write the same
// records as JSON, gzip-compressed when the target ends in `.gz`.
package catalog
