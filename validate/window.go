package validate

import "time"

// Clock supplies time to the observation window. Now must carry a monotonic
// reading so that elapsed time never goes backwards.
type Clock interface {
	Now() time.Time
	Sleep(d time.Duration)
}

// SystemClock is the process clock.
type SystemClock struct{}

func (SystemClock) Now() time.Time        { return time.Now() }
func (SystemClock) Sleep(d time.Duration) { time.Sleep(d) }

// Window is a fixed-duration observation interval.
type Window struct {
	Duration time.Duration

	clock Clock
	start time.Time
}

// Open captures the start time. A window must be opened before Wait.
func (w *Window) Open(clock Clock) {
	if clock == nil {
		clock = SystemClock{}
	}
	w.clock = clock
	w.start = clock.Now()
}

func (w *Window) Start() time.Time {
	return w.start
}

// Elapsed is zero for a window that was never opened.
func (w *Window) Elapsed() time.Duration {
	if w.clock == nil {
		return 0
	}
	return w.clock.Now().Sub(w.start)
}

func (w *Window) Closed() bool {
	return w.clock != nil && w.Elapsed() >= w.Duration
}

// Wait sleeps in steps of at most interval until the window has closed.
func (w *Window) Wait(interval time.Duration) {
	if w.clock == nil {
		w.Open(nil)
	}
	for {
		remaining := w.Duration - w.Elapsed()
		if remaining <= 0 {
			return
		}
		step := interval
		if step <= 0 || step > remaining {
			step = remaining
		}
		w.clock.Sleep(step)
	}
}
