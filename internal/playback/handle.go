package playback

import (
	"sync"
	"time"
)

// Handle is the media element a Sample controls. Times are in seconds of the
// media file; volume is in [0, 1].
type Handle interface {
	Play() error
	Pause()
	Paused() bool
	Position() float64
	Seek(seconds float64)
	Volume() float64
	SetVolume(v float64)
	// Duration is the length of the media file.
	Duration() float64
	// Load resets the element to its initial state.
	Load()
}

// Visual is implemented by handles that render on screen. Fades drive the
// opacity in lockstep with the volume.
type Visual interface {
	SetOpacity(v float64)
}

// Clock reports the current time.
type Clock interface {
	Now() time.Time
}

// MemoryHandle simulates a media element against a clock. While playing, the
// position advances with the clock until the media end, where it pauses.
type MemoryHandle struct {
	mu        sync.Mutex
	clock     Clock
	duration  float64
	base      float64
	startedAt time.Time
	playing   bool
	volume    float64
	opacity   float64
	loads     int
}

// NewMemoryHandle returns a paused handle of the given media length.
func NewMemoryHandle(clock Clock, duration float64) *MemoryHandle {
	if duration < 0 {
		duration = 0
	}
	return &MemoryHandle{clock: clock, duration: duration, volume: 1, opacity: 1}
}

func (h *MemoryHandle) Play() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	position := h.positionLocked()
	if h.playing && position < h.duration {
		return nil
	}
	h.base = position
	if h.base >= h.duration {
		h.base = 0
	}
	h.playing = true
	h.startedAt = h.clock.Now()
	return nil
}

func (h *MemoryHandle) Pause() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.base = h.positionLocked()
	h.playing = false
}

func (h *MemoryHandle) Paused() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return !h.playing || h.positionLocked() >= h.duration
}

func (h *MemoryHandle) Position() float64 {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.positionLocked()
}

func (h *MemoryHandle) Seek(seconds float64) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.base = min(max(seconds, 0), h.duration)
	h.startedAt = h.clock.Now()
}

func (h *MemoryHandle) Volume() float64 {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.volume
}

func (h *MemoryHandle) SetVolume(v float64) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.volume = v
}

func (h *MemoryHandle) Duration() float64 { return h.duration }

func (h *MemoryHandle) Load() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.base = 0
	h.playing = false
	h.loads++
}

func (h *MemoryHandle) SetOpacity(v float64) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.opacity = v
}

// Opacity returns the last opacity set.
func (h *MemoryHandle) Opacity() float64 {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.opacity
}

// Loads counts calls to Load.
func (h *MemoryHandle) Loads() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.loads
}

func (h *MemoryHandle) positionLocked() float64 {
	if !h.playing {
		return h.base
	}
	elapsed := h.clock.Now().Sub(h.startedAt).Seconds()
	return min(h.base+elapsed, h.duration)
}
