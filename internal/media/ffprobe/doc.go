// Package ffprobe asks ffprobe for the length and stream layout of media
// files so playback handles know where the media ends.
//
// Prober runs the binary with a per-call timeout; Result exposes the parsed
// container and stream fields.
package ffprobe
