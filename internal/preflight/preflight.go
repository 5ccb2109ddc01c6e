package preflight

import (
	"context"
	"path/filepath"

	"baldr/internal/config"
)

// Result reports the outcome of a single preflight check.
type Result struct {
	Name     string
	Passed   bool
	Optional bool
	Detail   string
}

// RunAll executes every preflight check for cfg.
func RunAll(ctx context.Context, cfg *config.Config) []Result {
	if cfg == nil {
		return nil
	}
	return []Result{
		CheckDirectoryAccess("Media directory", cfg.Paths.MediaDir, Readable),
		CheckCreatable("Catalog directory", filepath.Dir(cfg.Paths.CatalogPath)),
		CheckCreatable("Log directory", cfg.Paths.LogDir),
		CheckBaseURL(cfg.MediaServer.BaseURL),
		CheckFFprobe(ctx, cfg.FFprobe.Binary, cfg.FFprobeTimeout()),
	}
}

// Failed reports whether any required check did not pass.
func Failed(results []Result) bool {
	for _, r := range results {
		if !r.Passed && !r.Optional {
			return true
		}
	}
	return false
}
