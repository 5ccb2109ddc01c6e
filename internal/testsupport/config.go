package testsupport

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"baldr/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	t       testing.TB
	baseDir string
	cfg     *config.Config
}

// NewConfig produces a config seeded with unique temp directories per test.
// The media directory exists; catalog and log directories do not.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfgVal := config.Default()
	cfgVal.Paths.MediaDir = filepath.Join(base, "media")
	cfgVal.Paths.CatalogPath = filepath.Join(base, "catalog", "catalog.db")
	cfgVal.Paths.LogDir = filepath.Join(base, "logs")
	cfgVal.MediaServer.BaseURL = "http://media.test/media"
	cfgVal.Playback.PlayDelayMS = 1
	if err := os.MkdirAll(cfgVal.Paths.MediaDir, 0o755); err != nil {
		t.Fatalf("mkdir media dir: %v", err)
	}

	builder := &configBuilder{
		t:       t,
		baseDir: base,
		cfg:     &cfgVal,
	}

	for _, opt := range opts {
		opt(builder)
	}

	return builder.cfg
}

// WithBaseURL overrides the media server address.
func WithBaseURL(url string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.MediaServer.BaseURL = url
	}
}

// WithStubbedFFprobe installs an ffprobe stub reporting duration seconds for
// every file and points the config at it.
func WithStubbedFFprobe(duration float64) ConfigOption {
	return func(b *configBuilder) {
		script := fmt.Sprintf("#!/bin/sh\necho '{\"format\":{\"duration\":\"%g\"}}'\n", duration)
		b.cfg.FFprobe.Binary = writeStub(b.t, b.baseDir, "ffprobe", script)
	}
}

// WithStubbedBinaries writes stub executables for the provided names and
// prepends them to PATH. If names is empty, ffprobe is stubbed.
func WithStubbedBinaries(names ...string) ConfigOption {
	return func(b *configBuilder) {
		if len(names) == 0 {
			names = []string{"ffprobe"}
		}
		for _, name := range names {
			writeStub(b.t, b.baseDir, name, "#!/bin/sh\nexit 0\n")
		}
		binDir := filepath.Join(b.baseDir, "bin")
		b.t.Setenv("PATH", binDir+string(os.PathListSeparator)+os.Getenv("PATH"))
	}
}

func writeStub(t testing.TB, baseDir, name, script string) string {
	t.Helper()
	binDir := filepath.Join(baseDir, "bin")
	if err := os.MkdirAll(binDir, 0o755); err != nil {
		t.Fatalf("mkdir bin dir: %v", err)
	}
	target := filepath.Join(binDir, name)
	if err := os.WriteFile(target, []byte(script), 0o755); err != nil {
		t.Fatalf("write stub %s: %v", name, err)
	}
	return target
}

// BaseDir returns the root temp directory backing the generated config.
func BaseDir(cfg *config.Config) string {
	return filepath.Dir(cfg.Paths.MediaDir)
}
