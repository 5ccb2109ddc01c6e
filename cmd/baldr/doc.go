// Package main hosts the baldr CLI entrypoint and command graph.
//
// The Cobra-based command tree indexes the configured media directory,
// resolves `ref:` and `uuid:` addresses through the resolver, and surfaces
// assets, samples and part selections as tables or JSON. `play` drives a
// sample through its fades on the real-time loop scheduler, `export` writes
// the resolved set to the SQLite catalog, and `doctor` runs the preflight
// checks.
//
// Keep this package lean: behavior belongs in the internal packages, commands
// only wire configuration, logging and output.
package main
