package ros

// Rate sleeps so that a loop runs at a fixed frequency.
type Rate struct {
	actualCycleTime   Duration
	expectedCycleTime Duration
	start             Time
}

func NewRate(frequency float64) Rate {
	var expectedCycleTime Duration
	expectedCycleTime.FromSec(1.0 / frequency)
	return Rate{expectedCycleTime: expectedCycleTime, start: Now()}
}

func CycleTime(d Duration) Rate {
	return Rate{expectedCycleTime: d, start: Now()}
}

// CycleTime returns the measured length of the last cycle.
func (r *Rate) CycleTime() Duration {
	return r.actualCycleTime
}

func (r *Rate) ExpectedCycleTime() Duration {
	return r.expectedCycleTime
}

func (r *Rate) Reset() {
	r.actualCycleTime = NewDuration(0, 0)
	r.start = Now()
}

// Sleep waits for the rest of the current cycle.
func (r *Rate) Sleep() {
	end := Now()
	diff := end.Diff(r.start)
	var remaining Duration
	if r.expectedCycleTime.Cmp(diff) >= 0 {
		remaining = r.expectedCycleTime.Sub(diff)
	}
	remaining.Sleep()
	now := Now()
	r.actualCycleTime = now.Diff(r.start)
	r.start = r.start.Add(r.expectedCycleTime)
	// A late loop would otherwise try to catch up with zero-length cycles.
	if now.Cmp(r.start) > 0 {
		r.start = now
	}
}
