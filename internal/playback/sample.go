package playback

import (
	"log/slog"
	"math"
	"time"

	"baldr/internal/asset"
	"baldr/internal/logging"
	"baldr/internal/schedule"
)

// State is the playback state of a Sample.
type State string

const (
	StateStopped State = "stopped"
	StateStarted State = "started"
	StateFadeIn  State = "fadein"
	StatePlaying State = "playing"
	StateFadeOut State = "fadeout"
	StatePaused  State = "paused"
)

// DefaultPlayDelay debounces rapid segment switching.
const DefaultPlayDelay = 10 * time.Millisecond

const rampSteps = 100

type resumePoint struct {
	position float64
	volume   float64
}

// Sample is the playback engine of one segment of an asset.
type Sample struct {
	asset     *asset.Asset
	spec      asset.SampleSpec
	handle    Handle
	sched     schedule.Scheduler
	logger    *slog.Logger
	playDelay time.Duration

	ramp     schedule.Slot
	deferred schedule.Slot

	state    State
	shortcut string
	resume   *resumePoint
	// queued is the volume of a Play still waiting out the debounce.
	queued *float64

	subscribers []subscriber
	nextSubID   int
}

// Option configures a Sample.
type Option func(*Sample)

// WithPlayDelay overrides the start debounce.
func WithPlayDelay(d time.Duration) Option {
	return func(s *Sample) {
		if d >= 0 {
			s.playDelay = d
		}
	}
}

// WithLogger sets the logger used for state transitions.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Sample) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithShortcut assigns a shortcut that takes precedence over the declared one.
func WithShortcut(shortcut string) Option {
	return func(s *Sample) {
		if shortcut != "" {
			s.shortcut = shortcut
		}
	}
}

// New builds the engine for spec of a, playing through handle on sched.
func New(a *asset.Asset, spec asset.SampleSpec, handle Handle, sched schedule.Scheduler, opts ...Option) *Sample {
	s := &Sample{
		asset:     a,
		spec:      spec,
		handle:    handle,
		sched:     sched,
		logger:    logging.NewNop(),
		playDelay: DefaultPlayDelay,
		state:     StateStopped,
		shortcut:  spec.Shortcut,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = logging.NewComponentLogger(s.logger, "playback").With(logging.String("sample", s.Ref()))
	return s
}

// Ref returns `<asset ref>#<sample name>`.
func (s *Sample) Ref() string { return s.asset.Ref() + "#" + s.spec.Name }

// UUIDRef returns the sample address in the uuid scheme.
func (s *Sample) UUIDRef() string { return s.asset.UUID() + "#" + s.spec.Name }

func (s *Sample) Asset() *asset.Asset     { return s.asset }
func (s *Sample) Spec() asset.SampleSpec { return s.spec }
func (s *Sample) Handle() Handle          { return s.handle }
func (s *Sample) State() State            { return s.state }

// Title returns the authored title, else the name, else `komplett`.
func (s *Sample) Title() string { return s.spec.DisplayTitle() }

// TitleSafe qualifies the title with the asset title. The complete sample
// uses the asset title alone.
func (s *Sample) TitleSafe() string {
	if s.spec.IsComplete() {
		return s.asset.TitleSafe()
	}
	return s.Title() + " (" + s.asset.TitleSafe() + ")"
}

func (s *Sample) ArtistSafe() string { return s.asset.ArtistSafe() }
func (s *Sample) YearSafe() string   { return s.asset.YearSafe() }

// Shortcut returns the keyboard shortcut, empty if none.
func (s *Sample) Shortcut() string { return s.shortcut }

// AssignShortcut sets the shortcut unless one is already present.
func (s *Sample) AssignShortcut(shortcut string) bool {
	if s.shortcut != "" || shortcut == "" {
		return false
	}
	s.shortcut = shortcut
	return true
}

// FadeInDuration returns the declared fade-in in seconds.
func (s *Sample) FadeInDuration() float64 { return s.spec.FadeIn }

// FadeOutDuration returns the declared fade-out in seconds.
func (s *Sample) FadeOutDuration() float64 { return s.spec.FadeOut }

// CurrentTime is the position relative to the segment start.
func (s *Sample) CurrentTime() float64 { return s.handle.Position() - s.spec.Start }

// Duration is the segment length. Segments without a declared length run to
// the end of the media.
func (s *Sample) Duration() float64 {
	if s.spec.HasDuration() {
		return s.spec.Duration
	}
	return max(s.handle.Duration()-s.spec.Start, 0)
}

// Remaining is the time left until the segment end.
func (s *Sample) Remaining() float64 { return s.Duration() - s.CurrentTime() }

// Progress is the played fraction of the segment in [0, 1].
func (s *Sample) Progress() float64 {
	d := s.Duration()
	if d <= 0 {
		return 0
	}
	return min(max(s.CurrentTime()/d, 0), 1)
}

func (s *Sample) Volume() float64 { return s.handle.Volume() }

// ScheduledFadeOutDelay is how long from now the fade-out must begin to
// finish at the segment end.
func (s *Sample) ScheduledFadeOutDelay() time.Duration {
	seconds := s.Remaining() - s.spec.FadeOut
	if seconds <= 0 {
		return 0
	}
	return time.Duration(math.Round(seconds * 1000)) * time.Millisecond
}

// PlayOption adjusts a single Play call.
type PlayOption func(*playOptions)

type playOptions struct {
	position *float64
	fadeIn   *float64
}

// At plays from seconds relative to the segment start.
func At(seconds float64) PlayOption {
	return func(o *playOptions) { o.position = &seconds }
}

// WithFadeIn overrides the declared fade-in duration.
func WithFadeIn(seconds float64) PlayOption {
	return func(o *playOptions) { o.fadeIn = &seconds }
}

// StopOption adjusts a single Stop call.
type StopOption func(*stopOptions)

type stopOptions struct {
	fadeOut *float64
}

// WithFadeOut overrides the declared fade-out duration.
func WithFadeOut(seconds float64) StopOption {
	return func(o *stopOptions) { o.fadeOut = &seconds }
}

// Start plays the segment from its beginning at targetVolume.
func (s *Sample) Start(targetVolume float64) {
	s.setState(StateStarted)
	s.resume = nil
	s.Play(targetVolume, At(0))
}

// Play seeks and, after the debounce delay, fades in and schedules the
// fade-out. Without At it resumes from the paused position, or from the
// segment start.
func (s *Sample) Play(targetVolume float64, opts ...PlayOption) {
	var o playOptions
	for _, opt := range opts {
		opt(&o)
	}
	position := s.spec.Start
	switch {
	case o.position != nil:
		position = s.spec.Start + min(max(*o.position, 0), s.Duration())
	case s.resume != nil:
		position = s.resume.position
	}
	s.resume = nil
	s.handle.Seek(position)
	s.queued = &targetVolume

	fadeIn := s.spec.FadeIn
	if o.fadeIn != nil {
		fadeIn = *o.fadeIn
	}
	s.deferred.Set(s.sched.AfterFunc(s.playDelay, func() {
		s.queued = nil
		s.FadeIn(targetVolume, fadeIn, nil)
		s.scheduleFadeOut()
	}))
}

// FadeIn starts the media at volume 0 and ramps to targetVolume over
// duration seconds. done runs on the final tick unless a newer ramp
// supersedes this one.
func (s *Sample) FadeIn(targetVolume, duration float64, done func()) {
	s.ramp.Clear()
	targetVolume = clampVolume(targetVolume)
	s.emit(EventFadeInBegin)
	s.setState(StateFadeIn)
	s.applyVolume(0)
	if err := s.handle.Play(); err != nil {
		logging.WarnWithContext(s.logger, "media playback failed to start", "playback_start_failed",
			logging.Error(err),
			logging.String(logging.FieldErrorHint, "check that the media file is reachable"),
			logging.String(logging.FieldImpact, "sample stays silent"),
		)
	}

	finish := func() {
		s.ramp.Clear()
		s.applyVolume(targetVolume)
		s.setState(StatePlaying)
		s.emit(EventFadeInEnd)
		if done != nil {
			done()
		}
	}
	if duration <= 0 {
		finish()
		return
	}

	step := 0
	s.ramp.Set(s.sched.Every(tickPeriod(duration), func() {
		step++
		if step < rampSteps {
			s.applyVolume(targetVolume * float64(step) / rampSteps)
			return
		}
		finish()
	}))
}

// FadeOut ramps the volume from its current value to 0 over duration
// seconds, then pauses the media. When the media is already paused, done runs
// immediately and nothing else happens.
func (s *Sample) FadeOut(duration float64, done func()) {
	if s.handle.Paused() {
		if done != nil {
			done()
		}
		return
	}
	s.ramp.Clear()
	s.emit(EventFadeOutBegin)
	s.setState(StateFadeOut)
	startVolume := s.handle.Volume()

	finish := func() {
		s.ramp.Clear()
		s.applyVolume(0)
		s.handle.Pause()
		s.setState(StateStopped)
		s.emit(EventFadeOutEnd)
		if done != nil {
			done()
		}
	}
	if duration <= 0 {
		finish()
		return
	}

	step := 0
	s.ramp.Set(s.sched.Every(tickPeriod(duration), func() {
		step++
		if step < rampSteps {
			s.applyVolume(startVolume * float64(rampSteps-step) / rampSteps)
			return
		}
		finish()
	}))
}

// Stop fades out, then rewinds to the segment start and drops pending
// timers. Video handles are reloaded and made opaque again.
func (s *Sample) Stop(done func(), opts ...StopOption) {
	var o stopOptions
	for _, opt := range opts {
		opt(&o)
	}
	fadeOut := s.spec.FadeOut
	if o.fadeOut != nil {
		fadeOut = *o.fadeOut
	}
	s.deferred.Clear()
	s.queued = nil
	s.FadeOut(fadeOut, func() {
		s.deferred.Clear()
		s.resume = nil
		if s.asset.Kind() == asset.KindVideo {
			s.handle.Load()
			s.setOpacity(1)
		}
		s.handle.Seek(s.spec.Start)
		s.setState(StateStopped)
		if done != nil {
			done()
		}
	})
}

// Pause fades out and remembers the position and the volume before the fade
// for a later Play. A Play still in its debounce is cancelled and its seek
// position becomes the resume point.
func (s *Sample) Pause(done func()) {
	s.deferred.Clear()
	if s.handle.Paused() {
		if s.queued != nil {
			s.resume = &resumePoint{position: s.handle.Position(), volume: *s.queued}
			s.queued = nil
			s.setState(StatePaused)
		}
		if done != nil {
			done()
		}
		return
	}
	volume := s.handle.Volume()
	s.FadeOut(s.spec.FadeOut, func() {
		s.deferred.Clear()
		if s.asset.Kind() == asset.KindVideo {
			s.setOpacity(0)
		}
		s.resume = &resumePoint{position: s.handle.Position(), volume: volume}
		s.setState(StatePaused)
		if done != nil {
			done()
		}
	})
}

// Toggle plays a paused sample and pauses a playing one. A targetVolume of
// zero or less resumes at the volume recorded by Pause, else at 1.
func (s *Sample) Toggle(targetVolume float64) {
	if !s.handle.Paused() {
		s.Pause(nil)
		return
	}
	if targetVolume <= 0 {
		targetVolume = 1
		if s.resume != nil && s.resume.volume > 0 {
			targetVolume = s.resume.volume
		}
	}
	s.Play(targetVolume)
}

// Forward jumps interval seconds ahead, clamped to the segment end.
func (s *Sample) Forward(interval float64) { s.jump(interval) }

// Backward jumps interval seconds back, clamped to the segment start.
func (s *Sample) Backward(interval float64) { s.jump(-interval) }

func (s *Sample) jump(delta float64) {
	position := min(max(s.CurrentTime()+delta, 0), s.Duration())
	s.deferred.Clear()
	s.queued = nil
	s.handle.Seek(s.spec.Start + position)
	s.logger.Debug("sample position changed", logging.Float64("position", position))
	s.scheduleFadeOut()
}

func (s *Sample) scheduleFadeOut() {
	delay := s.ScheduledFadeOutDelay()
	fadeOut := s.spec.FadeOut
	s.deferred.Set(s.sched.AfterFunc(delay, func() {
		s.FadeOut(fadeOut, nil)
	}))
	s.logger.Debug("fade-out scheduled", logging.Duration("delay", delay))
}

func (s *Sample) applyVolume(v float64) {
	v = math.Round(clampVolume(v)*100) / 100
	s.handle.SetVolume(v)
	if s.asset.Kind() == asset.KindVideo {
		s.setOpacity(v)
	}
}

func (s *Sample) setOpacity(v float64) {
	if visual, ok := s.handle.(Visual); ok {
		visual.SetOpacity(v)
	}
}

func (s *Sample) setState(state State) {
	if s.state == state {
		return
	}
	s.logger.Debug("playback state changed",
		logging.String("from", string(s.state)),
		logging.String("to", string(state)),
	)
	s.state = state
}

func tickPeriod(fadeSeconds float64) time.Duration {
	return time.Duration(math.Round(fadeSeconds * 10 * float64(time.Millisecond)))
}

func clampVolume(v float64) float64 {
	return min(max(v, 0), 1)
}
