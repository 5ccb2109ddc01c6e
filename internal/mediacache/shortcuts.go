package mediacache

import (
	"strconv"

	"baldr/internal/asset"
)

const shortcutSlots = 10

// ShortcutCounter hands out `<trigger> 1` … `<trigger> 9`, then
// `<trigger> 0`, then nothing.
type ShortcutCounter struct {
	trigger string
	count   int
}

// NewShortcutCounter returns a fresh counter for trigger.
func NewShortcutCounter(trigger string) *ShortcutCounter {
	return &ShortcutCounter{trigger: trigger}
}

// Next allocates the next shortcut. It reports false once ten are used.
func (c *ShortcutCounter) Next() (string, bool) {
	if c.count >= shortcutSlots {
		return "", false
	}
	c.count++
	return c.trigger + " " + strconv.Itoa(c.count%shortcutSlots), true
}

// Reset restarts the counter.
func (c *ShortcutCounter) Reset() { c.count = 0 }

var shortcutTriggers = map[asset.Kind]string{
	asset.KindImage: "i",
	asset.KindAudio: "a",
	asset.KindVideo: "v",
}

// Shortcuts holds one counter per media kind that receives shortcuts.
type Shortcuts struct {
	counters map[asset.Kind]*ShortcutCounter
}

// NewShortcuts returns counters for images, audio and video.
func NewShortcuts() *Shortcuts {
	s := &Shortcuts{counters: make(map[asset.Kind]*ShortcutCounter, len(shortcutTriggers))}
	for kind, trigger := range shortcutTriggers {
		s.counters[kind] = NewShortcutCounter(trigger)
	}
	return s
}

// Next allocates a shortcut for kind. Kinds without a counter get none.
func (s *Shortcuts) Next(kind asset.Kind) (string, bool) {
	counter, ok := s.counters[kind]
	if !ok {
		return "", false
	}
	return counter.Next()
}

// Reset restarts every counter.
func (s *Shortcuts) Reset() {
	for _, counter := range s.counters {
		counter.Reset()
	}
}
