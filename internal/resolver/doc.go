// Package resolver turns media addresses into cached assets and samples.
//
// Declarations are fetched from a mediaindex.Source in parallel batches,
// one fetch per distinct address. Every fetched asset is built and
// registered on the calling goroutine, so the Registry keeps its single
// writer. Addresses linked from a declaration are resolved in the next
// batch until nothing new turns up.
package resolver
