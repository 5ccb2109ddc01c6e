// Package config loads, normalizes, and validates baldr configuration data.
//
// It supplies defaults, expands user paths (including tilde shortcuts), reads
// TOML files, and honours the BALDR_MEDIA_DIR and BALDR_MEDIA_BASE_URL
// environment fallbacks. The Config type centralizes where declarations live,
// how HTTP addresses are built, and how simulated playback behaves.
package config
