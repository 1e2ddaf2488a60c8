package validate

import (
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
)

// Result label values of the runs counter.
const (
	ResultPass        = "pass"
	ResultNoSamples   = "no_samples"
	ResultExceeded    = "exceeded"
	ResultUnavailable = "unavailable"
	ResultError       = "error"
)

// Metrics bundles the collectors updated by a Validator. A nil *Metrics is
// valid and records nothing.
type Metrics struct {
	SamplesTotal  *prometheus.CounterVec
	MaxAbs        *prometheus.GaugeVec
	Bound         *prometheus.GaugeVec
	WindowSeconds *prometheus.GaugeVec
	RunsTotal     *prometheus.CounterVec
}

func NewMetrics(registry prometheus.Registerer) *Metrics {
	m := &Metrics{
		SamplesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "boundcheck_samples_total",
			Help: "Total number of samples recorded.",
		}, []string{"source"}),
		MaxAbs: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "boundcheck_max_abs",
			Help: "Maximum sample magnitude of the last completed window.",
		}, []string{"source"}),
		Bound: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "boundcheck_bound",
			Help: "Bound checked by the last completed window.",
		}, []string{"source"}),
		WindowSeconds: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "boundcheck_window_seconds",
			Help: "Elapsed time of the last completed window in seconds.",
		}, []string{"source"}),
		RunsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "boundcheck_runs_total",
			Help: "Total number of validation runs by result.",
		}, []string{"source", "result"}),
	}

	registry.MustRegister(
		m.SamplesTotal,
		m.MaxAbs,
		m.Bound,
		m.WindowSeconds,
		m.RunsTotal,
	)

	return m
}

func (m *Metrics) observeSample(source string) {
	if m == nil {
		return
	}
	m.SamplesTotal.WithLabelValues(source).Inc()
}

func (m *Metrics) observeRun(report Report, result string) {
	if m == nil {
		return
	}
	if report.Samples > 0 {
		m.MaxAbs.WithLabelValues(report.Source).Set(report.MaxAbs)
	}
	m.Bound.WithLabelValues(report.Source).Set(report.Bound)
	m.WindowSeconds.WithLabelValues(report.Source).Set(report.Elapsed.Seconds())
	m.RunsTotal.WithLabelValues(report.Source, result).Inc()
}

// resultOf maps a Run error to its result label.
func resultOf(err error) string {
	var (
		noSamples   *NoSamplesError
		exceeded    *ThresholdExceededError
		unavailable *ServiceUnavailableError
	)
	switch {
	case err == nil:
		return ResultPass
	case errors.As(err, &noSamples):
		return ResultNoSamples
	case errors.As(err, &exceeded):
		return ResultExceeded
	case errors.As(err, &unavailable):
		return ResultUnavailable
	}
	return ResultError
}
