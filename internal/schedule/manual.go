package schedule

import (
	"sync"
	"time"
)

// Manual is a virtual-time Scheduler for tests and dry runs. Time moves only
// through Advance, and due callbacks run on the caller's goroutine in due
// order, ties broken by scheduling order.
type Manual struct {
	mu     sync.Mutex
	now    time.Time
	seq    uint64
	timers []*manualTimer
}

// NewManual starts the virtual clock at start.
func NewManual(start time.Time) *Manual {
	return &Manual{now: start}
}

func (m *Manual) Now() time.Time {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.now
}

// Elapsed returns the virtual time passed since since.
func (m *Manual) Elapsed(since time.Time) time.Duration {
	return m.Now().Sub(since)
}

func (m *Manual) AfterFunc(d time.Duration, fn func()) Timer {
	return m.add(clampDelay(d), 0, fn)
}

func (m *Manual) Every(d time.Duration, fn func()) Timer {
	d = clampInterval(d)
	return m.add(d, d, fn)
}

// Pending returns the number of armed timers.
func (m *Manual) Pending() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.timers)
}

// NextDue returns the delay until the earliest armed timer.
func (m *Manual) NextDue() (time.Duration, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	next := m.earliest()
	if next == nil {
		return 0, false
	}
	return next.due.Sub(m.now), true
}

// Advance moves the clock forward by d, running every callback that falls
// due on the way. Callbacks may schedule or stop timers; new timers due
// within the window also run.
func (m *Manual) Advance(d time.Duration) {
	m.mu.Lock()
	target := m.now.Add(clampDelay(d))
	for {
		next := m.earliest()
		if next == nil || next.due.After(target) {
			break
		}
		m.now = next.due
		if next.interval > 0 {
			m.seq++
			next.seq = m.seq
			next.due = next.due.Add(next.interval)
		} else {
			m.remove(next)
		}
		fn := next.fn
		m.mu.Unlock()
		fn()
		m.mu.Lock()
	}
	m.now = target
	m.mu.Unlock()
}

// Run advances until no timers remain or limit passes, and returns the
// virtual time consumed.
func (m *Manual) Run(limit time.Duration) time.Duration {
	var spent time.Duration
	for spent <= limit {
		due, ok := m.NextDue()
		if !ok {
			break
		}
		if spent+due > limit {
			m.Advance(limit - spent)
			return limit
		}
		m.Advance(due)
		spent += due
	}
	return spent
}

func (m *Manual) add(d, interval time.Duration, fn func()) *manualTimer {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.seq++
	t := &manualTimer{owner: m, due: m.now.Add(d), interval: interval, seq: m.seq, fn: fn}
	m.timers = append(m.timers, t)
	return t
}

func (m *Manual) earliest() *manualTimer {
	var best *manualTimer
	for _, t := range m.timers {
		if best == nil || t.due.Before(best.due) || (t.due.Equal(best.due) && t.seq < best.seq) {
			best = t
		}
	}
	return best
}

func (m *Manual) remove(target *manualTimer) {
	for i, t := range m.timers {
		if t == target {
			m.timers = append(m.timers[:i], m.timers[i+1:]...)
			return
		}
	}
}

type manualTimer struct {
	owner    *Manual
	due      time.Time
	interval time.Duration
	seq      uint64
	fn       func()
}

func (t *manualTimer) Stop() {
	t.owner.mu.Lock()
	defer t.owner.mu.Unlock()
	t.owner.remove(t)
}
