package validate

import (
	"math"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func samplesOf(values ...float64) []Sample {
	out := make([]Sample, len(values))
	for i, v := range values {
		out[i] = Sample{Seq: uint64(i), Value: v}
	}
	return out
}

func TestEvaluate(t *testing.T) {
	tests := []struct {
		name       string
		values     []float64
		bound      float64
		wantMax    float64
		wantErr    error
		wantMaxNaN bool
	}{
		{
			name:    "within bound",
			values:  []float64{0.2, -0.5, 0.9, -0.99},
			bound:   1.0,
			wantMax: 0.99,
		},
		{
			name:    "negative sample exceeds",
			values:  []float64{0.2, -1.01, 0.3},
			bound:   1.0,
			wantMax: 1.01,
			wantErr: &ThresholdExceededError{MaxAbs: 1.01, Bound: 1.0},
		},
		{
			name:    "empty",
			bound:   1.0,
			wantErr: &NoSamplesError{},
		},
		{
			name:    "empty with zero bound",
			bound:   0,
			wantErr: &NoSamplesError{},
		},
		{
			name:    "magnitude equal to bound passes",
			values:  []float64{-1.0},
			bound:   1.0,
			wantMax: 1.0,
		},
		{
			name:    "just above bound fails",
			values:  []float64{math.Nextafter(1.0, 2)},
			bound:   1.0,
			wantMax: math.Nextafter(1.0, 2),
			wantErr: &ThresholdExceededError{MaxAbs: math.Nextafter(1.0, 2), Bound: 1.0},
		},
		{
			name:    "zero bound with zero samples passes",
			values:  []float64{0, 0},
			bound:   0,
			wantMax: 0,
		},
		{
			name:    "infinity exceeds",
			values:  []float64{0.1, math.Inf(-1)},
			bound:   1e9,
			wantMax: math.Inf(1),
			wantErr: &ThresholdExceededError{MaxAbs: math.Inf(1), Bound: 1e9},
		},
		{
			name:       "NaN never passes",
			values:     []float64{0.1, math.NaN(), 0.2},
			bound:      1.0,
			wantMaxNaN: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			maxAbs, err := Evaluate(samplesOf(tt.values...), tt.bound)

			if tt.wantMaxNaN {
				assert.True(t, math.IsNaN(maxAbs))
				var exceeded *ThresholdExceededError
				require.ErrorAs(t, err, &exceeded)
				assert.True(t, math.IsNaN(exceeded.MaxAbs))
				return
			}
			assert.Equal(t, tt.wantMax, maxAbs)
			if tt.wantErr == nil {
				assert.NoError(t, err)
			} else {
				assert.Equal(t, tt.wantErr, err)
			}
		})
	}
}

// runScenario runs a 10 s window with bound 1.0 and delivers values on the
// first sleep of the window.
func runScenario(t *testing.T, values []float64) (Report, error, *fakeClock) {
	t.Helper()
	clock := newFakeClock()
	src := &fakeSource{name: "/gem/ct_error"}
	clock.onSleep = func(elapsed time.Duration) {
		if elapsed == DefaultPollInterval {
			src.emit(values...)
		}
	}
	v := &Validator{Clock: clock}
	report, err := v.Run(10*time.Second, 1.0, src)
	assert.Equal(t, 1, src.subscribed)
	assert.Equal(t, 1, src.unsubscribed)
	return report, err, clock
}

func TestRunPasses(t *testing.T) {
	report, err, clock := runScenario(t, []float64{0.2, -0.5, 0.9, -0.99})
	require.NoError(t, err)

	assert.Equal(t, Report{
		Source:   "/gem/ct_error",
		Samples:  4,
		MaxAbs:   0.99,
		Bound:    1.0,
		Duration: 10 * time.Second,
		Elapsed:  10 * time.Second,
	}, report)
	assert.Len(t, clock.sleeps, 100)
	for _, d := range clock.sleeps {
		assert.LessOrEqual(t, d, DefaultPollInterval)
	}
}

func TestRunThresholdExceeded(t *testing.T) {
	report, err, _ := runScenario(t, []float64{0.2, -1.01, 0.3})

	var exceeded *ThresholdExceededError
	require.ErrorAs(t, err, &exceeded)
	assert.Equal(t, 1.01, exceeded.MaxAbs)
	assert.Equal(t, 1.0, exceeded.Bound)
	assert.Equal(t, 3, report.Samples)
	assert.Equal(t, 1.01, report.MaxAbs)
	assert.Contains(t, err.Error(), "1.01")
}

func TestRunNoSamples(t *testing.T) {
	report, err, clock := runScenario(t, nil)

	var noSamples *NoSamplesError
	require.ErrorAs(t, err, &noSamples)
	assert.Equal(t, "/gem/ct_error", noSamples.Source)
	assert.Zero(t, report.Samples)
	assert.Equal(t, 10*time.Second, report.Elapsed)
	assert.Len(t, clock.sleeps, 100)
}

func TestRunIsIdempotent(t *testing.T) {
	for _, values := range [][]float64{
		{0.2, -0.5, 0.9, -0.99},
		{0.2, -1.01, 0.3},
		nil,
	} {
		first, err1, _ := runScenario(t, values)
		second, err2, _ := runScenario(t, values)
		assert.Equal(t, first, second)
		assert.Equal(t, err1, err2)
	}
}

func TestRunWaitsForFullWindow(t *testing.T) {
	clock := newFakeClock()
	src := &fakeSource{name: "early"}
	probe := probeFunc(func() error {
		// Samples delivered before the window opens still count, but do
		// not shorten it.
		src.emit(0.1, 0.2)
		return nil
	})
	v := &Validator{Clock: clock, Probe: probe, PollInterval: 250 * time.Millisecond}

	report, err := v.Run(time.Second, 1.0, src)
	require.NoError(t, err)
	assert.Equal(t, 2, report.Samples)
	assert.Equal(t, time.Second, report.Elapsed)
	assert.Equal(t, []time.Duration{
		250 * time.Millisecond, 250 * time.Millisecond, 250 * time.Millisecond, 250 * time.Millisecond,
	}, clock.sleeps)
}

func TestRunIgnoresSamplesAfterUnsubscribe(t *testing.T) {
	clock := newFakeClock()
	src := &fakeSource{name: "late"}
	clock.onSleep = func(elapsed time.Duration) {
		if elapsed == 100*time.Millisecond {
			src.emit(0.5)
		}
	}
	v := &Validator{Clock: clock}
	report, err := v.Run(time.Second, 1.0, src)
	require.NoError(t, err)

	src.emit(5.0)
	assert.Equal(t, 1, report.Samples)
	assert.Equal(t, 0.5, report.MaxAbs)
}

func TestRunRejectsConfig(t *testing.T) {
	tests := []struct {
		name     string
		duration time.Duration
		bound    float64
	}{
		{"zero duration", 0, 1},
		{"negative duration", -time.Second, 1},
		{"negative bound", time.Second, -0.1},
		{"NaN bound", time.Second, math.NaN()},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := &fakeSource{name: "cfg"}
			v := &Validator{Clock: newFakeClock()}
			_, err := v.Run(tt.duration, tt.bound, src)
			assert.True(t, errors.Is(err, ErrInvalidConfig), "got %v", err)
			assert.Zero(t, src.subscribed)
		})
	}
}

func TestRunProbeFailure(t *testing.T) {
	t.Run("plain error is wrapped", func(t *testing.T) {
		clock := newFakeClock()
		src := &fakeSource{name: "probe"}
		cause := errors.New("connection refused")
		v := &Validator{Clock: clock, Probe: probeFunc(func() error { return cause })}

		_, err := v.Run(time.Second, 1, src)
		var unavailable *ServiceUnavailableError
		require.ErrorAs(t, err, &unavailable)
		assert.True(t, errors.Is(err, cause))
		assert.Equal(t, 1, src.unsubscribed)
		assert.Empty(t, clock.sleeps, "no window runs after a failed probe")
	})

	t.Run("service error is kept", func(t *testing.T) {
		want := &ServiceUnavailableError{Service: "/gazebo/get_model_state", Err: errors.New("timeout")}
		v := &Validator{Clock: newFakeClock(), Probe: probeFunc(func() error { return want })}

		_, err := v.Run(time.Second, 1, &fakeSource{name: "probe"})
		assert.Same(t, want, err)
		assert.Contains(t, err.Error(), "/gazebo/get_model_state")
	})
}

func TestRunSubscribeError(t *testing.T) {
	src := &fakeSource{name: "broken", err: errors.New("master unreachable")}
	v := &Validator{Clock: newFakeClock()}
	_, err := v.Run(time.Second, 1, src)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "subscribe broken")
	assert.Contains(t, err.Error(), "master unreachable")
}

func TestRunLogsNonFiniteSamples(t *testing.T) {
	logger, hook := test.NewNullLogger()
	clock := newFakeClock()
	src := &fakeSource{name: "nan"}
	clock.onSleep = func(elapsed time.Duration) {
		if elapsed == 100*time.Millisecond {
			src.emit(0.1, math.NaN())
		}
	}
	v := &Validator{Clock: clock, Logger: logrus.NewEntry(logger)}

	_, err := v.Run(time.Second, 1, src)
	var exceeded *ThresholdExceededError
	require.ErrorAs(t, err, &exceeded)

	var warnings int
	for _, entry := range hook.AllEntries() {
		if entry.Level == logrus.WarnLevel {
			warnings++
			assert.Equal(t, "nan", entry.Data["source"])
		}
	}
	assert.Equal(t, 1, warnings)
	assert.Equal(t, logrus.ErrorLevel, hook.LastEntry().Level)
}
