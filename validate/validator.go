// Package validate checks that a numeric signal stays within a bound over a
// fixed observation window.
//
// A Validator subscribes to a Source, optionally waits for a readiness Probe,
// records every delivered value until the window closes and then evaluates
// the recorded trace once:
//
//	v := &validate.Validator{Probe: probe}
//	report, err := v.Run(10*time.Second, 1.0, source)
//
// Run fails with *NoSamplesError when nothing arrived and with
// *ThresholdExceededError when the largest magnitude is above the bound.
package validate

import (
	"math"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// DefaultPollInterval is the sleep step used while the window is open.
const DefaultPollInterval = 100 * time.Millisecond

// Source is a producer of samples. The callback passed to Subscribe may be
// invoked from any goroutine until the returned unsubscribe function is
// called.
type Source interface {
	Name() string
	Subscribe(callback func(value float64)) (unsubscribe func(), err error)
}

// Probe is a readiness precondition checked before the window opens.
type Probe interface {
	Probe() error
}

// Report summarizes one run.
type Report struct {
	Source   string
	Samples  int
	MaxAbs   float64
	Bound    float64
	Duration time.Duration
	Elapsed  time.Duration
}

type Validator struct {
	// Probe is optional.
	Probe        Probe
	Clock        Clock
	PollInterval time.Duration
	Metrics      *Metrics
	Logger       *logrus.Entry
}

// Run observes source for duration and checks every sample against bound.
func (v *Validator) Run(duration time.Duration, bound float64, source Source) (Report, error) {
	name := source.Name()
	report := Report{Source: name, Bound: bound, Duration: duration}
	if duration <= 0 {
		return report, errors.Wrapf(ErrInvalidConfig, "duration %v is not positive", duration)
	}
	if bound < 0 || math.IsNaN(bound) {
		return report, errors.Wrapf(ErrInvalidConfig, "bound %v is negative or NaN", bound)
	}

	logger := v.logger().WithField("source", name)
	clock := v.clock()
	buffer := NewSampleBuffer(clock)

	unsubscribe, err := source.Subscribe(func(value float64) {
		s := buffer.Record(value)
		v.Metrics.observeSample(name)
		if math.IsNaN(value) || math.IsInf(value, 0) {
			logger.Warnf("Sample %d is not finite: %v", s.Seq, value)
		}
	})
	if err != nil {
		err = errors.Wrapf(err, "subscribe %s", name)
		v.Metrics.observeRun(report, ResultError)
		return report, err
	}

	if v.Probe != nil {
		if err := v.Probe.Probe(); err != nil {
			unsubscribe()
			var unavailable *ServiceUnavailableError
			if !errors.As(err, &unavailable) {
				err = &ServiceUnavailableError{Err: err}
			}
			logger.Errorf("Readiness probe failed: %v", err)
			v.Metrics.observeRun(report, ResultUnavailable)
			return report, err
		}
	}

	window := Window{Duration: duration}
	window.Open(clock)
	logger.Debugf("Sampling for %v", duration)
	window.Wait(v.pollInterval())
	unsubscribe()

	samples := buffer.Snapshot()
	report.Samples = len(samples)
	report.Elapsed = window.Elapsed()

	report.MaxAbs, err = Evaluate(samples, bound)
	var noSamples *NoSamplesError
	if errors.As(err, &noSamples) {
		noSamples.Source = name
	}
	v.Metrics.observeRun(report, resultOf(err))

	if err != nil {
		logger.Errorf("Validation failed after %v with %d samples: %v", report.Elapsed, report.Samples, err)
		return report, err
	}
	logger.Infof("Validation passed: %d samples, max |v| = %v <= %v", report.Samples, report.MaxAbs, bound)
	return report, nil
}

// Evaluate returns the maximum magnitude of samples and checks it against
// bound. A NaN sample makes the maximum NaN, which never passes.
func Evaluate(samples []Sample, bound float64) (float64, error) {
	if len(samples) == 0 {
		return 0, &NoSamplesError{}
	}
	maxAbs := 0.0
	for _, s := range samples {
		a := math.Abs(s.Value)
		if math.IsNaN(a) {
			maxAbs = a
			break
		}
		if a > maxAbs {
			maxAbs = a
		}
	}
	if math.IsNaN(maxAbs) || maxAbs > bound {
		return maxAbs, &ThresholdExceededError{MaxAbs: maxAbs, Bound: bound}
	}
	return maxAbs, nil
}

func (v *Validator) clock() Clock {
	if v.Clock == nil {
		return SystemClock{}
	}
	return v.Clock
}

func (v *Validator) pollInterval() time.Duration {
	if v.PollInterval <= 0 {
		return DefaultPollInterval
	}
	return v.PollInterval
}

func (v *Validator) logger() *logrus.Entry {
	if v.Logger == nil {
		return logrus.NewEntry(logrus.StandardLogger())
	}
	return v.Logger
}
