package validate

import (
	"sync"
	"time"
)

// fakeClock advances only when slept on.
type fakeClock struct {
	mu      sync.Mutex
	start   time.Time
	now     time.Time
	sleeps  []time.Duration
	onSleep func(elapsed time.Duration)
}

func newFakeClock() *fakeClock {
	t0 := time.Unix(1700000000, 0)
	return &fakeClock{start: t0, now: t0}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Sleep(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.sleeps = append(c.sleeps, d)
	elapsed := c.now.Sub(c.start)
	hook := c.onSleep
	c.mu.Unlock()
	if hook != nil {
		hook(elapsed)
	}
}

// fakeSource hands values to the subscribed callback on demand.
type fakeSource struct {
	mu           sync.Mutex
	name         string
	callback     func(float64)
	subscribed   int
	unsubscribed int
	err          error
}

func (s *fakeSource) Name() string { return s.name }

func (s *fakeSource) Subscribe(callback func(float64)) (func(), error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return nil, s.err
	}
	s.subscribed++
	s.callback = callback
	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		s.unsubscribed++
		s.callback = nil
	}, nil
}

func (s *fakeSource) emit(values ...float64) {
	s.mu.Lock()
	cb := s.callback
	s.mu.Unlock()
	if cb == nil {
		return
	}
	for _, v := range values {
		cb(v)
	}
}

type probeFunc func() error

func (f probeFunc) Probe() error { return f() }
