package schedule

import (
	"context"
	"sync"
	"sync/atomic"
	"time"
)

// Loop is a real-time Scheduler. Timers fire on runtime timers and post
// their callbacks into a queue that Run drains on one goroutine.
type Loop struct {
	mu      sync.Mutex
	queue   []func()
	wake    chan struct{}
	stopped atomic.Bool
}

// NewLoop returns an idle loop. Call Run to start draining callbacks.
func NewLoop() *Loop {
	return &Loop{wake: make(chan struct{}, 1)}
}

func (l *Loop) Now() time.Time { return time.Now() }

// Post queues fn to run on the loop goroutine. It reports false once the
// loop has stopped.
func (l *Loop) Post(fn func()) bool {
	if fn == nil || l.stopped.Load() {
		return false
	}
	l.mu.Lock()
	l.queue = append(l.queue, fn)
	l.mu.Unlock()
	select {
	case l.wake <- struct{}{}:
	default:
	}
	return true
}

// Run drains callbacks until ctx is cancelled or Stop is called.
func (l *Loop) Run(ctx context.Context) error {
	for {
		for _, fn := range l.drain() {
			if l.stopped.Load() {
				return nil
			}
			fn()
		}
		if l.stopped.Load() {
			return nil
		}
		select {
		case <-ctx.Done():
			l.stopped.Store(true)
			return ctx.Err()
		case <-l.wake:
		}
	}
}

// Stop ends Run after the current callback. Pending callbacks are dropped.
func (l *Loop) Stop() {
	l.stopped.Store(true)
	select {
	case l.wake <- struct{}{}:
	default:
	}
}

func (l *Loop) drain() []func() {
	l.mu.Lock()
	defer l.mu.Unlock()
	batch := l.queue
	l.queue = nil
	return batch
}

func (l *Loop) AfterFunc(d time.Duration, fn func()) Timer {
	t := &loopTimer{}
	t.timer = time.AfterFunc(clampDelay(d), func() {
		l.Post(func() {
			if !t.stopped.Load() {
				fn()
			}
		})
	})
	return t
}

func (l *Loop) Every(d time.Duration, fn func()) Timer {
	d = clampInterval(d)
	t := &loopTimer{}
	var arm func()
	arm = func() {
		t.mu.Lock()
		defer t.mu.Unlock()
		if t.stopped.Load() {
			return
		}
		t.timer = time.AfterFunc(d, func() {
			l.Post(func() {
				if t.stopped.Load() {
					return
				}
				fn()
				arm()
			})
		})
	}
	arm()
	return t
}

type loopTimer struct {
	mu      sync.Mutex
	timer   *time.Timer
	stopped atomic.Bool
}

func (t *loopTimer) Stop() {
	t.stopped.Store(true)
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.timer != nil {
		t.timer.Stop()
	}
}
