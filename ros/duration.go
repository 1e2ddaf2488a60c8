package ros

import (
	"time"
)

// Duration is a non-negative ROS time span of {sec, nsec}.
type Duration struct {
	temporal
}

func NewDuration(sec uint32, nsec uint32) Duration {
	sec, nsec = normalizeTemporal(int64(sec), int64(nsec))
	return Duration{temporal{sec, nsec}}
}

// DurationOf converts a time.Duration, which must not be negative.
func DurationOf(d time.Duration) Duration {
	var result Duration
	result.FromNSec(uint64(d.Nanoseconds()))
	return result
}

func (d *Duration) Add(other Duration) Duration {
	sec, nsec := normalizeTemporal(int64(d.Sec)+int64(other.Sec),
		int64(d.NSec)+int64(other.NSec))
	return Duration{temporal{sec, nsec}}
}

func (d *Duration) Sub(other Duration) Duration {
	sec, nsec := normalizeTemporal(int64(d.Sec)-int64(other.Sec),
		int64(d.NSec)-int64(other.NSec))
	return Duration{temporal{sec, nsec}}
}

func (d *Duration) Cmp(other Duration) int {
	return cmpUint64(d.ToNSec(), other.ToNSec())
}

// GoDuration converts d to a time.Duration.
func (d *Duration) GoDuration() time.Duration {
	return time.Duration(d.ToNSec())
}

// Sleep pauses the calling goroutine for d.
func (d *Duration) Sleep() {
	if !d.IsZero() {
		time.Sleep(d.GoDuration())
	}
}
