package gesture

import (
	"container/heap"
	"context"
	"time"
)

// Handle cancels a scheduled callback. Cancel is idempotent and safe to call
// after the callback has already run.
type Handle interface {
	Cancel()
}

// Scheduler runs callbacks after a delay on the same logical thread that
// delivers pointer events.
type Scheduler interface {
	Now() time.Time
	Schedule(delay time.Duration, fn func()) Handle
}

type timer struct {
	when     time.Time
	seq      uint64
	fn       func()
	index    int
	canceled bool
}

func (t *timer) Cancel() {
	t.canceled = true
}

// timerQueue orders timers by deadline, then by scheduling order
type timerQueue []*timer

func (q timerQueue) Len() int { return len(q) }

func (q timerQueue) Less(i, j int) bool {
	if q[i].when.Equal(q[j].when) {
		return q[i].seq < q[j].seq
	}
	return q[i].when.Before(q[j].when)
}

func (q timerQueue) Swap(i, j int) {
	q[i], q[j] = q[j], q[i]
	q[i].index = i
	q[j].index = j
}

func (q *timerQueue) Push(x any) {
	t := x.(*timer)
	t.index = len(*q)
	*q = append(*q, t)
}

func (q *timerQueue) Pop() any {
	old := *q
	n := len(old)
	t := old[n-1]
	old[n-1] = nil
	t.index = -1
	*q = old[:n-1]
	return t
}

// popDue removes and returns the next live timer due at or before now
func (q *timerQueue) popDue(now time.Time) *timer {
	for q.Len() > 0 {
		next := (*q)[0]
		if next.when.After(now) {
			return nil
		}
		heap.Pop(q)
		if !next.canceled {
			return next
		}
	}
	return nil
}

// Loop is a single-threaded event loop. Pointer events and other work are
// handed in with Post from any goroutine; timers are scheduled with
// Schedule from inside the loop only.
type Loop struct {
	posted chan func()
	done   chan struct{}
	timers timerQueue
	seq    uint64
}

// NewLoop creates an event loop with the given posting buffer size
func NewLoop(buffer int) *Loop {
	if buffer <= 0 {
		buffer = 64
	}
	return &Loop{
		posted: make(chan func(), buffer),
		done:   make(chan struct{}),
	}
}

// Now returns the wall clock time
func (l *Loop) Now() time.Time {
	return time.Now()
}

// Schedule runs fn on the loop after delay. Must be called on the loop.
func (l *Loop) Schedule(delay time.Duration, fn func()) Handle {
	l.seq++
	t := &timer{when: time.Now().Add(delay), seq: l.seq, fn: fn}
	heap.Push(&l.timers, t)
	return t
}

// Post queues fn to run on the loop. It returns false once the loop has
// stopped.
func (l *Loop) Post(fn func()) bool {
	select {
	case <-l.done:
		return false
	default:
	}
	select {
	case l.posted <- fn:
		return true
	case <-l.done:
		return false
	}
}

// Run processes posted work and expired timers until ctx is canceled.
// Run must only be called once.
func (l *Loop) Run(ctx context.Context) error {
	defer close(l.done)

	wake := time.NewTimer(time.Hour)
	defer wake.Stop()

	for {
		for t := l.timers.popDue(time.Now()); t != nil; t = l.timers.popDue(time.Now()) {
			t.fn()
		}

		var wakeC <-chan time.Time
		if l.timers.Len() > 0 {
			wake.Reset(time.Until(l.timers[0].when))
			wakeC = wake.C
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case fn := <-l.posted:
			fn()
		case <-wakeC:
		}
	}
}

// ManualScheduler is a Scheduler driven by virtual time. It is used by
// tests and by trace replay.
type ManualScheduler struct {
	now    time.Time
	timers timerQueue
	seq    uint64
}

// NewManualScheduler creates a scheduler whose clock starts at start
func NewManualScheduler(start time.Time) *ManualScheduler {
	return &ManualScheduler{now: start}
}

func (s *ManualScheduler) Now() time.Time {
	return s.now
}

func (s *ManualScheduler) Schedule(delay time.Duration, fn func()) Handle {
	s.seq++
	t := &timer{when: s.now.Add(delay), seq: s.seq, fn: fn}
	heap.Push(&s.timers, t)
	return t
}

// Advance moves the clock forward by d, running every timer that comes due
// in deadline order. Timers scheduled by callbacks run too if they fall
// inside the window.
func (s *ManualScheduler) Advance(d time.Duration) {
	s.AdvanceTo(s.now.Add(d))
}

// AdvanceTo moves the clock to target. Moving backwards is a no-op.
func (s *ManualScheduler) AdvanceTo(target time.Time) {
	if target.Before(s.now) {
		return
	}
	for t := s.timers.popDue(target); t != nil; t = s.timers.popDue(target) {
		s.now = t.when
		t.fn()
	}
	s.now = target
}

// Pending returns the number of timers that have not fired or been canceled
func (s *ManualScheduler) Pending() int {
	n := 0
	for _, t := range s.timers {
		if !t.canceled {
			n++
		}
	}
	return n
}
