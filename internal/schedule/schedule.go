package schedule

import "time"

// Timer is a cancellable scheduled callback. Stop is idempotent and safe to
// call on a timer that already fired.
type Timer interface {
	Stop()
}

// Scheduler arranges callbacks on its single callback thread.
type Scheduler interface {
	Now() time.Time
	// AfterFunc runs fn once after d.
	AfterFunc(d time.Duration, fn func()) Timer
	// Every runs fn every d until the returned timer is stopped. Intervals
	// below one nanosecond are raised to one nanosecond.
	Every(d time.Duration, fn func()) Timer
}

// Slot holds at most one pending timer. Setting a new timer stops the old
// one first.
type Slot struct {
	timer Timer
}

// Set replaces the held timer, stopping the previous one.
func (s *Slot) Set(t Timer) {
	s.Clear()
	s.timer = t
}

// Clear stops and forgets the held timer. Clearing an empty slot is a no-op.
func (s *Slot) Clear() {
	if s.timer == nil {
		return
	}
	s.timer.Stop()
	s.timer = nil
}

// Held reports whether a timer was set and not cleared. The timer may have
// fired already.
func (s *Slot) Held() bool {
	return s.timer != nil
}

func clampDelay(d time.Duration) time.Duration {
	if d < 0 {
		return 0
	}
	return d
}

// clampInterval keeps repeating timers strictly positive so a virtual clock
// always advances between ticks.
func clampInterval(d time.Duration) time.Duration {
	if d < time.Nanosecond {
		return time.Nanosecond
	}
	return d
}
