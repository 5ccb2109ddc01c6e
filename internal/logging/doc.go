// Package logging assembles the slog loggers used across baldr.
//
// It owns the console and JSON handlers, level parsing, and file output, and
// exposes typed attribute helpers plus context-aware helpers that tag log
// lines with the invocation's correlation ID. Caches and the playback engine
// log through component loggers built with NewComponentLogger; tests and
// wiring code that cannot fail use NewNop.
package logging
