// Package mediacache keeps the process-local caches that media resolution
// fills: the uuid to ref translator, resolved assets, playable samples,
// multi-part selections and the per-kind shortcut counters.
//
// A Registry bundles one instance of each so tests and commands can build
// isolated contexts. Nothing here locks; mutate a Registry from one goroutine
// only, the same one that runs playback callbacks.
package mediacache
