package ui

import (
	"sort"
	"sync"
	"time"
)

// fakeScheduler is a Scheduler that runs functions
// only when time is advanced manually.
type fakeScheduler struct {
	mu     sync.Mutex
	now    time.Duration
	timers []*fakeTimer
}

var _ Scheduler = (*fakeScheduler)(nil)

type fakeTimer struct {
	s       *fakeScheduler
	at      time.Duration
	f       func()
	stopped bool
	fired   bool
}

func (s *fakeScheduler) AfterFunc(d time.Duration, f func()) Timer {
	s.mu.Lock()
	defer s.mu.Unlock()

	t := &fakeTimer{s: s, at: s.now + d, f: f}
	s.timers = append(s.timers, t)
	return t
}

// Advance moves time forward, running every function due by then
// in the order they were due.
// Functions scheduled while advancing run too if they fall due.
func (s *fakeScheduler) Advance(d time.Duration) {
	s.mu.Lock()
	s.now += d
	s.mu.Unlock()

	for {
		t := s.nextDue()
		if t == nil {
			return
		}
		t.f()
	}
}

func (s *fakeScheduler) nextDue() *fakeTimer {
	s.mu.Lock()
	defer s.mu.Unlock()

	sort.SliceStable(s.timers, func(i, j int) bool {
		return s.timers[i].at < s.timers[j].at
	})
	for _, t := range s.timers {
		if !t.fired && !t.stopped && t.at <= s.now {
			t.fired = true
			return t
		}
	}
	return nil
}

// Pending reports the number of functions that haven't run yet.
func (s *fakeScheduler) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	var n int
	for _, t := range s.timers {
		if !t.fired && !t.stopped {
			n++
		}
	}
	return n
}

func (t *fakeTimer) Stop() bool {
	t.s.mu.Lock()
	defer t.s.mu.Unlock()

	if t.fired || t.stopped {
		return false
	}
	t.stopped = true
	return true
}
