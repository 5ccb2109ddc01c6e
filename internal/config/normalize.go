package config

import (
	"fmt"
	"os"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeMediaServer()
	c.normalizeFFprobe()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	if value, ok := os.LookupEnv(envMediaDir); ok && strings.TrimSpace(value) != "" {
		c.Paths.MediaDir = strings.TrimSpace(value)
	}
	var err error
	if c.Paths.MediaDir, err = expandPath(strings.TrimSpace(c.Paths.MediaDir)); err != nil {
		return fmt.Errorf("paths.media_dir: %w", err)
	}
	if c.Paths.CatalogPath, err = expandPath(strings.TrimSpace(c.Paths.CatalogPath)); err != nil {
		return fmt.Errorf("paths.catalog_path: %w", err)
	}
	if c.Paths.LogDir, err = expandPath(strings.TrimSpace(c.Paths.LogDir)); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeMediaServer() {
	if value, ok := os.LookupEnv(envMediaBaseURL); ok && strings.TrimSpace(value) != "" {
		c.MediaServer.BaseURL = value
	}
	c.MediaServer.BaseURL = strings.TrimRight(strings.TrimSpace(c.MediaServer.BaseURL), "/")
	if c.MediaServer.BaseURL == "" {
		c.MediaServer.BaseURL = defaultBaseURL
	}
}

func (c *Config) normalizeFFprobe() {
	c.FFprobe.Binary = strings.TrimSpace(c.FFprobe.Binary)
	if c.FFprobe.Binary == "" {
		c.FFprobe.Binary = defaultFFprobe
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = "console"
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
}
