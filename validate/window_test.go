package validate

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestWindowBeforeOpen(t *testing.T) {
	w := Window{Duration: time.Second}
	assert.Zero(t, w.Elapsed())
	assert.False(t, w.Closed())
	assert.True(t, w.Start().IsZero())
}

func TestWindowWaitSteps(t *testing.T) {
	tests := []struct {
		name     string
		duration time.Duration
		interval time.Duration
		want     []time.Duration
	}{
		{
			name:     "last step is capped at the remaining time",
			duration: 250 * time.Millisecond,
			interval: 100 * time.Millisecond,
			want:     []time.Duration{100 * time.Millisecond, 100 * time.Millisecond, 50 * time.Millisecond},
		},
		{
			name:     "interval longer than the window",
			duration: 30 * time.Millisecond,
			interval: time.Second,
			want:     []time.Duration{30 * time.Millisecond},
		},
		{
			name:     "non-positive interval sleeps the remainder at once",
			duration: time.Second,
			interval: 0,
			want:     []time.Duration{time.Second},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clock := newFakeClock()
			w := Window{Duration: tt.duration}
			w.Open(clock)
			assert.False(t, w.Closed())

			w.Wait(tt.interval)

			assert.Equal(t, tt.want, clock.sleeps)
			assert.True(t, w.Closed())
			assert.Equal(t, tt.duration, w.Elapsed())
			assert.Equal(t, clock.start, w.Start())
		})
	}
}

func TestWindowSystemClock(t *testing.T) {
	w := Window{Duration: 30 * time.Millisecond}
	w.Open(nil)
	w.Wait(10 * time.Millisecond)
	assert.True(t, w.Closed())
	assert.GreaterOrEqual(t, w.Elapsed(), 30*time.Millisecond)
}
