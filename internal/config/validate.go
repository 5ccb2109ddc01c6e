package config

import (
	"errors"
	"fmt"
	"net/url"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if c.Paths.MediaDir == "" {
		return errors.New("paths.media_dir must be set")
	}
	if c.Paths.CatalogPath == "" {
		return errors.New("paths.catalog_path must be set")
	}
	if err := c.validateMediaServer(); err != nil {
		return err
	}
	if err := c.validatePlayback(); err != nil {
		return err
	}
	if c.FFprobe.TimeoutSeconds <= 0 {
		return errors.New("ffprobe.timeout_seconds must be positive")
	}
	return c.validateLogging()
}

func (c *Config) validateMediaServer() error {
	parsed, err := url.Parse(c.MediaServer.BaseURL)
	if err != nil {
		return fmt.Errorf("media_server.base_url: %w", err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return fmt.Errorf("media_server.base_url must use http or https, got %q", c.MediaServer.BaseURL)
	}
	return nil
}

func (c *Config) validatePlayback() error {
	if c.Playback.TargetVolume <= 0 || c.Playback.TargetVolume > 1 {
		return errors.New("playback.target_volume must be in (0, 1]")
	}
	if c.Playback.PlayDelayMS < 0 {
		return errors.New("playback.play_delay_ms must be >= 0")
	}
	if c.Playback.JumpSeconds <= 0 {
		return errors.New("playback.jump_seconds must be positive")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format: unsupported value %q", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level: unsupported value %q", c.Logging.Level)
	}
	return nil
}
