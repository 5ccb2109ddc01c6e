package ffprobe

import (
	"context"
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestParse(t *testing.T) {
	raw := []byte(`{"streams":[{"index":0,"codec_type":"video","width":1920},{"index":1,"codec_type":"audio","duration":"61.2"}],"format":{"duration":"61.250000","format_name":"mov,mp4"}}`)
	result, err := Parse(raw)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if !result.HasVideo() || !result.HasAudio() {
		t.Fatal("expected audio and video streams")
	}
	if result.DurationSeconds() != 61.25 {
		t.Fatalf("duration = %v", result.DurationSeconds())
	}
}

func TestDurationFallsBackToStreams(t *testing.T) {
	result := Result{Streams: []Stream{{Duration: "12.5"}, {Duration: "13"}}}
	if result.DurationSeconds() != 13 {
		t.Fatalf("duration = %v", result.DurationSeconds())
	}
	bad := Result{Format: Format{Duration: "bad"}}
	if !math.IsNaN(bad.DurationSeconds()) {
		t.Fatalf("expected NaN, got %v", bad.DurationSeconds())
	}
}

func TestProberDuration(t *testing.T) {
	dir := t.TempDir()
	stub := filepath.Join(dir, "ffprobe")
	script := "#!/bin/sh\necho '{\"format\":{\"duration\":\"42.5\"}}'\n"
	if err := os.WriteFile(stub, []byte(script), 0o755); err != nil {
		t.Fatal(err)
	}
	p := NewProber(stub, time.Second)
	got, err := p.Duration(context.Background(), "song.mp3")
	if err != nil {
		t.Fatalf("Duration: %v", err)
	}
	if got != 42.5 {
		t.Fatalf("Duration = %v", got)
	}
}

func TestProberReportsMissingDuration(t *testing.T) {
	dir := t.TempDir()
	stub := filepath.Join(dir, "ffprobe")
	if err := os.WriteFile(stub, []byte("#!/bin/sh\necho '{}'\n"), 0o755); err != nil {
		t.Fatal(err)
	}
	if _, err := NewProber(stub, 0).Duration(context.Background(), "x.mp3"); !errors.Is(err, ErrNoDuration) {
		t.Fatalf("err = %v, want ErrNoDuration", err)
	}
}

func TestProberFailure(t *testing.T) {
	dir := t.TempDir()
	stub := filepath.Join(dir, "ffprobe")
	if err := os.WriteFile(stub, []byte("#!/bin/sh\necho broken >&2\nexit 1\n"), 0o755); err != nil {
		t.Fatal(err)
	}
	if _, err := NewProber(stub, 0).Inspect(context.Background(), "x.mp3"); err == nil {
		t.Fatal("expected error from failing binary")
	}
	if _, err := NewProber(stub, 0).Inspect(context.Background(), " "); err == nil {
		t.Fatal("expected error for empty path")
	}
}
