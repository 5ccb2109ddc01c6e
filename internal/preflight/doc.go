// Package preflight checks the environment before media is resolved: the
// media directory must be readable, the catalog and log locations
// writable, the media server address well formed and ffprobe runnable.
//
// RunAll backs `baldr doctor`; Failed tells whether any required check
// did not pass.
package preflight
