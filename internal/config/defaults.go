package config

const (
	defaultConfigPath  = "~/.config/baldr/config.toml"
	projectConfigName  = "baldr.toml"
	defaultMediaDir    = "~/baldr/media"
	defaultCatalogPath = "~/.local/share/baldr/catalog.db"
	defaultLogDir      = "~/.local/share/baldr/logs"
	defaultBaseURL     = "http://localhost:8000/media"
	defaultFFprobe     = "ffprobe"

	envMediaDir     = "BALDR_MEDIA_DIR"
	envMediaBaseURL = "BALDR_MEDIA_BASE_URL"
)

// Default returns a Config populated with repository defaults. Paths are not
// expanded until Load normalizes them.
func Default() Config {
	return Config{
		Paths: Paths{
			MediaDir:    defaultMediaDir,
			CatalogPath: defaultCatalogPath,
			LogDir:      defaultLogDir,
		},
		MediaServer: MediaServer{BaseURL: defaultBaseURL},
		Playback: Playback{
			TargetVolume: 1,
			PlayDelayMS:  10,
			JumpSeconds:  10,
		},
		FFprobe: FFprobe{
			Binary:         defaultFFprobe,
			TimeoutSeconds: 10,
		},
		Logging: Logging{
			Format: "console",
			Level:  "info",
		},
	}
}
