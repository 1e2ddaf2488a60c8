package validate

import (
	"sync"
	"time"
)

// Sample is one recorded observation.
type Sample struct {
	Seq   uint64
	Time  time.Time
	Value float64
}

// SampleBuffer is an append-only sequence of samples. Record may be called
// from any goroutine; Snapshot returns a consistent copy.
type SampleBuffer struct {
	clock   Clock
	mu      sync.Mutex
	samples []Sample
}

// NewSampleBuffer stamps samples with clock, or with the system clock when
// clock is nil.
func NewSampleBuffer(clock Clock) *SampleBuffer {
	if clock == nil {
		clock = SystemClock{}
	}
	return &SampleBuffer{clock: clock}
}

// Record appends value and returns the stored sample.
func (b *SampleBuffer) Record(value float64) Sample {
	now := b.clock.Now()
	b.mu.Lock()
	defer b.mu.Unlock()
	s := Sample{Seq: uint64(len(b.samples)), Time: now, Value: value}
	b.samples = append(b.samples, s)
	return s
}

func (b *SampleBuffer) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.samples)
}

func (b *SampleBuffer) Snapshot() []Sample {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]Sample, len(b.samples))
	copy(out, b.samples)
	return out
}
