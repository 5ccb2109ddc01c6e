package playback

import (
	"math"
	"slices"
	"testing"
	"time"

	"baldr/internal/asset"
	"baldr/internal/schedule"
)

type fixture struct {
	clock  *schedule.Manual
	handle *MemoryHandle
	sample *Sample
	start  time.Time
}

func newFixture(t *testing.T, ext string, mediaLength float64, spec asset.SampleSpec) *fixture {
	t.Helper()
	a, err := asset.New(asset.Declaration{Ref: "Song", UUID: "6b0bb9a6-0b1e-4c3c-9a4e-2f7d6f1d8c11", Extension: ext}, "http://h/Song."+ext)
	if err != nil {
		t.Fatalf("asset.New: %v", err)
	}
	start := time.Date(2024, 1, 1, 8, 0, 0, 0, time.UTC)
	clock := schedule.NewManual(start)
	handle := NewMemoryHandle(clock, mediaLength)
	return &fixture{clock: clock, handle: handle, sample: New(a, spec, handle, clock), start: start}
}

func tenSecondSpec() asset.SampleSpec {
	return asset.SampleSpec{Name: asset.CompleteSample, Duration: 10, FadeIn: 0.3, FadeOut: 1}
}

func approx(a, b float64) bool { return math.Abs(a-b) < 1e-9 }

func TestStartSchedulesFadeOutBeforeSegmentEnd(t *testing.T) {
	f := newFixture(t, "mp3", 60, tenSecondSpec())
	var fadeInAt, fadeOutAt time.Duration
	f.sample.Subscribe(func(evt Event) {
		switch evt {
		case EventFadeInBegin:
			fadeInAt = f.clock.Elapsed(f.start)
		case EventFadeOutBegin:
			fadeOutAt = f.clock.Elapsed(f.start)
		}
	})

	f.sample.Start(1)
	if f.sample.State() != StateStarted {
		t.Fatalf("state = %s, want started", f.sample.State())
	}
	f.clock.Advance(DefaultPlayDelay)
	if f.sample.State() != StateFadeIn {
		t.Fatalf("state = %s, want fadein", f.sample.State())
	}
	if got := f.sample.ScheduledFadeOutDelay(); got != 9000*time.Millisecond {
		t.Fatalf("ScheduledFadeOutDelay = %s, want 9s", got)
	}

	f.clock.Advance(20 * time.Second)
	if fadeOutAt-fadeInAt != 9000*time.Millisecond {
		t.Fatalf("fade-out began %s after fade-in, want 9s", fadeOutAt-fadeInAt)
	}
	if f.sample.State() != StateStopped {
		t.Fatalf("state = %s, want stopped", f.sample.State())
	}
	if f.handle.Volume() != 0 || !f.handle.Paused() {
		t.Fatalf("volume=%v paused=%v", f.handle.Volume(), f.handle.Paused())
	}
	if !approx(f.sample.CurrentTime(), 10) {
		t.Fatalf("fade-out should end at the segment end, position %v", f.sample.CurrentTime())
	}
}

func TestFadeInRampsInOneHundredTicks(t *testing.T) {
	f := newFixture(t, "mp3", 60, tenSecondSpec())
	f.sample.FadeIn(0.8, 1, nil)
	if f.handle.Volume() != 0 || f.handle.Paused() {
		t.Fatalf("fade-in should start playback at volume 0")
	}
	f.clock.Advance(500 * time.Millisecond)
	if !approx(f.handle.Volume(), 0.4) {
		t.Fatalf("volume after 50 ticks = %v", f.handle.Volume())
	}
	f.clock.Advance(490 * time.Millisecond)
	if f.sample.State() != StateFadeIn {
		t.Fatalf("state after 99 ticks = %s", f.sample.State())
	}
	f.clock.Advance(10 * time.Millisecond)
	if f.sample.State() != StatePlaying || !approx(f.handle.Volume(), 0.8) {
		t.Fatalf("state=%s volume=%v", f.sample.State(), f.handle.Volume())
	}
	if f.clock.Pending() != 0 {
		t.Fatalf("ramp timer should be released, %d pending", f.clock.Pending())
	}
}

func TestShortFadeKeepsTickPeriod(t *testing.T) {
	f := newFixture(t, "mp3", 60, tenSecondSpec())
	f.sample.FadeIn(1, 0.05, nil)
	f.clock.Advance(49500 * time.Microsecond)
	if f.sample.State() != StateFadeIn {
		t.Fatalf("state after 99 ticks = %s", f.sample.State())
	}
	f.clock.Advance(500 * time.Microsecond)
	if f.sample.State() != StatePlaying || !approx(f.handle.Volume(), 1) {
		t.Fatalf("state=%s volume=%v after 50ms", f.sample.State(), f.handle.Volume())
	}
}

func TestFadeOutEventsAndContinuation(t *testing.T) {
	f := newFixture(t, "mp3", 60, tenSecondSpec())
	var events []Event
	f.sample.Subscribe(func(evt Event) { events = append(events, evt) })

	f.sample.FadeIn(1, 0, nil)
	done := false
	f.sample.FadeOut(0.5, func() { done = true })
	f.clock.Advance(250 * time.Millisecond)
	if !approx(f.handle.Volume(), 0.5) || done {
		t.Fatalf("mid fade volume=%v done=%v", f.handle.Volume(), done)
	}
	f.clock.Advance(250 * time.Millisecond)
	if !done || f.sample.State() != StateStopped {
		t.Fatalf("done=%v state=%s", done, f.sample.State())
	}
	want := []Event{EventFadeInBegin, EventFadeInEnd, EventFadeOutBegin, EventFadeOutEnd}
	if !slices.Equal(events, want) {
		t.Fatalf("events = %v, want %v", events, want)
	}
}

func TestSupersededFadeNeverCompletes(t *testing.T) {
	f := newFixture(t, "mp3", 60, tenSecondSpec())
	f.sample.FadeIn(1, 0, nil)
	fadeOutDone := false
	f.sample.FadeOut(1, func() { fadeOutDone = true })
	f.clock.Advance(300 * time.Millisecond)
	f.sample.FadeIn(1, 0.5, nil)
	f.clock.Advance(5 * time.Second)
	if fadeOutDone {
		t.Fatal("superseded fade-out must not run its continuation")
	}
	if f.sample.State() != StatePlaying || f.handle.Volume() != 1 {
		t.Fatalf("state=%s volume=%v", f.sample.State(), f.handle.Volume())
	}
}

func TestFadeOutOnPausedHandleIsNoop(t *testing.T) {
	f := newFixture(t, "mp3", 60, tenSecondSpec())
	var events []Event
	f.sample.Subscribe(func(evt Event) { events = append(events, evt) })
	done := false
	f.sample.FadeOut(1, func() { done = true })
	if !done || len(events) != 0 || f.clock.Pending() != 0 {
		t.Fatalf("done=%v events=%v pending=%d", done, events, f.clock.Pending())
	}
	if f.sample.State() != StateStopped {
		t.Fatalf("state = %s", f.sample.State())
	}
}

func TestPauseAndResume(t *testing.T) {
	f := newFixture(t, "mp3", 60, tenSecondSpec())
	f.sample.Start(0.6)
	f.clock.Advance(2 * time.Second)

	paused := false
	f.sample.Pause(func() { paused = true })
	f.clock.Advance(time.Second)
	if !paused || f.sample.State() != StatePaused {
		t.Fatalf("paused=%v state=%s", paused, f.sample.State())
	}
	position := f.handle.Position()
	if position < 2.9 || position > 3.1 {
		t.Fatalf("unexpected pause position %v", position)
	}
	if f.clock.Pending() != 0 {
		t.Fatalf("pause should drop pending timers, %d left", f.clock.Pending())
	}

	f.clock.Advance(5 * time.Second)
	f.sample.Toggle(0)
	if !approx(f.handle.Position(), position) {
		t.Fatalf("resume position %v, want %v", f.handle.Position(), position)
	}
	f.clock.Advance(DefaultPlayDelay + 300*time.Millisecond)
	if f.sample.State() != StatePlaying || !approx(f.handle.Volume(), 0.6) {
		t.Fatalf("resume state=%s volume=%v", f.sample.State(), f.handle.Volume())
	}
}

func TestPauseDuringStartDebounce(t *testing.T) {
	f := newFixture(t, "mp3", 60, tenSecondSpec())
	f.sample.Play(0.7, At(4))
	if f.sample.State() != StateStopped || !f.handle.Paused() {
		t.Fatalf("before debounce state=%s paused=%v", f.sample.State(), f.handle.Paused())
	}
	f.sample.Pause(nil)
	f.clock.Advance(50 * time.Millisecond)
	if f.sample.State() != StatePaused || f.clock.Pending() != 0 {
		t.Fatalf("state=%s pending=%d", f.sample.State(), f.clock.Pending())
	}

	f.sample.Start(1)
	f.sample.Pause(nil)
	f.clock.Advance(DefaultPlayDelay + time.Second)
	if f.sample.State() != StatePaused || !f.handle.Paused() {
		t.Fatalf("started sample not paused: state=%s paused=%v", f.sample.State(), f.handle.Paused())
	}

	f.sample.Toggle(0)
	f.clock.Advance(DefaultPlayDelay + 300*time.Millisecond)
	if f.sample.State() != StatePlaying || !approx(f.handle.Volume(), 1) || f.sample.CurrentTime() > 1 {
		t.Fatalf("resume state=%s volume=%v time=%v", f.sample.State(), f.handle.Volume(), f.sample.CurrentTime())
	}
}

func TestStartIgnoresPausedPosition(t *testing.T) {
	spec := tenSecondSpec()
	spec.Start = 5
	f := newFixture(t, "mp3", 60, spec)
	f.sample.Start(1)
	f.clock.Advance(time.Second)
	f.sample.Pause(nil)
	f.clock.Advance(2 * time.Second)

	f.sample.Start(1)
	if !approx(f.handle.Position(), 5) || !approx(f.sample.CurrentTime(), 0) {
		t.Fatalf("Start should seek to the segment start, got %v", f.handle.Position())
	}
}

func TestStopRewindsAndResetsVideo(t *testing.T) {
	spec := tenSecondSpec()
	spec.Start = 2
	f := newFixture(t, "mp4", 60, spec)
	f.sample.Start(1)
	f.clock.Advance(time.Second)
	if !approx(f.handle.Opacity(), 1) {
		t.Fatalf("opacity should follow volume, got %v", f.handle.Opacity())
	}

	stopped := false
	f.sample.Stop(func() { stopped = true }, WithFadeOut(0.2))
	f.clock.Advance(100 * time.Millisecond)
	if !approx(f.handle.Opacity(), 0.5) {
		t.Fatalf("opacity mid fade = %v", f.handle.Opacity())
	}
	f.clock.Advance(100 * time.Millisecond)
	if !stopped || f.sample.State() != StateStopped {
		t.Fatalf("stopped=%v state=%s", stopped, f.sample.State())
	}
	if f.handle.Loads() != 1 || f.handle.Opacity() != 1 {
		t.Fatalf("loads=%d opacity=%v", f.handle.Loads(), f.handle.Opacity())
	}
	if f.clock.Pending() != 0 {
		t.Fatalf("stop should clear timers, %d pending", f.clock.Pending())
	}
}

func TestForwardClampsAndReschedules(t *testing.T) {
	f := newFixture(t, "mp3", 60, tenSecondSpec())
	f.sample.Start(1)
	f.clock.Advance(time.Second)

	f.sample.Forward(4)
	if got := f.sample.CurrentTime(); got < 4.9 || got > 5.1 {
		t.Fatalf("position after forward = %v", got)
	}
	if got := f.sample.ScheduledFadeOutDelay(); got < 3900*time.Millisecond || got > 4100*time.Millisecond {
		t.Fatalf("rescheduled delay = %s", got)
	}

	f.sample.Backward(30)
	if !approx(f.sample.CurrentTime(), 0) {
		t.Fatalf("backward should clamp to 0, got %v", f.sample.CurrentTime())
	}

	f.sample.Forward(30)
	if !approx(f.sample.CurrentTime(), 10) || f.sample.ScheduledFadeOutDelay() != 0 {
		t.Fatalf("forward should clamp to the end, got %v", f.sample.CurrentTime())
	}
	f.clock.Advance(0)
	if f.sample.State() != StateFadeOut {
		t.Fatalf("state = %s, want fadeout", f.sample.State())
	}
}

func TestDurationFallsBackToMediaLength(t *testing.T) {
	spec := asset.SampleSpec{Name: "coda", Start: 50, FadeIn: 0.3, FadeOut: 1}
	f := newFixture(t, "mp3", 80, spec)
	if f.sample.Duration() != 30 {
		t.Fatalf("Duration = %v", f.sample.Duration())
	}
	if f.sample.Ref() != "ref:Song#coda" {
		t.Fatalf("Ref = %q", f.sample.Ref())
	}
	if f.sample.TitleSafe() != "coda (ref:Song)" {
		t.Fatalf("TitleSafe = %q", f.sample.TitleSafe())
	}
	f.handle.Seek(65)
	if !approx(f.sample.Progress(), 0.5) {
		t.Fatalf("Progress = %v", f.sample.Progress())
	}
}

func TestShortcutPrecedence(t *testing.T) {
	spec := tenSecondSpec()
	spec.Shortcut = "q"
	f := newFixture(t, "mp3", 60, spec)
	if f.sample.Shortcut() != "q" || f.sample.AssignShortcut("a 1") {
		t.Fatalf("declared shortcut should win, got %q", f.sample.Shortcut())
	}

	a, _ := asset.New(asset.Declaration{Ref: "X", UUID: "u", Extension: "mp3"}, "")
	s := New(a, tenSecondSpec(), NewMemoryHandle(f.clock, 10), f.clock, WithShortcut("z"))
	if s.Shortcut() != "z" {
		t.Fatalf("option shortcut = %q", s.Shortcut())
	}
}
