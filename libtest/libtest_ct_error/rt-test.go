package libtest_ct_error

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/gemsim/boundcheck/ros"
	"github.com/gemsim/boundcheck/validate"
	"github.com/pkg/errors"
)

const (
	NodeName = "/test_ct_error"
	Topic    = "/gem/ct_error"
	Service  = "/gazebo/get_model_state"
	Model    = "gem"

	DefaultDuration   = 10 * time.Second
	DefaultMaxCTError = 1.0

	// Private parameters overriding the defaults.
	MaxCTErrorParam   = "~max_ct_error"
	TestDurationParam = "~test_duration"
)

//RTTest samples the cross-track error published by the pure pursuit
//controller for the test duration and fails if no sample arrived or the
//largest magnitude exceeds the allowed error.
func RTTest(t *testing.T) {
	node, err := ros.NewNode(NodeName, os.Args)
	if err != nil {
		t.Error(err)
		return
	}
	defer node.Shutdown()
	go node.Spin()

	duration, bound, err := Settings(node)
	if err != nil {
		t.Error(err)
		return
	}

	v := &validate.Validator{
		Probe:  &validate.ServiceProbe{Node: node, Service: Service, Model: Model},
		Logger: node.Logger(),
	}
	report, err := v.Run(duration, bound, &validate.TopicSource{Node: node, Topic: Topic})
	if err != nil {
		t.Error(FailureMessage(err))
		return
	}
	t.Logf("%d cross-track error samples, maximum %sm", report.Samples, meters(report.MaxAbs))
}

// Settings reads the window duration and the allowed error from the node's
// private parameters, falling back to the defaults.
func Settings(node ros.Node) (time.Duration, float64, error) {
	duration, bound := DefaultDuration, DefaultMaxCTError

	if v, ok, err := floatParam(node, TestDurationParam); err != nil {
		return 0, 0, err
	} else if ok {
		duration = time.Duration(v * float64(time.Second))
	}
	if v, ok, err := floatParam(node, MaxCTErrorParam); err != nil {
		return 0, 0, err
	} else if ok {
		bound = v
	}
	return duration, bound, nil
}

func floatParam(node ros.Node, key string) (float64, bool, error) {
	has, err := node.HasParam(key)
	if err != nil || !has {
		return 0, false, err
	}
	value, err := node.GetParam(key)
	if err != nil {
		return 0, false, err
	}
	f, err := ros.ParamFloat(value)
	if err != nil {
		return 0, false, errors.Wrapf(err, "parameter %s", key)
	}
	return f, true, nil
}

// FailureMessage renders a validation error the way the test report shows it.
func FailureMessage(err error) string {
	var (
		noSamples *validate.NoSamplesError
		exceeded  *validate.ThresholdExceededError
	)
	switch {
	case err == nil:
		return ""
	case errors.As(err, &noSamples):
		return "Cross-Track Error messages missing"
	case errors.As(err, &exceeded):
		return fmt.Sprintf("Maximum Cross-Track Error (%sm) exceeded %sm",
			meters(exceeded.MaxAbs), meters(exceeded.Bound))
	}
	return err.Error()
}

// meters formats v with the shortest exact representation, keeping a
// decimal point on whole numbers.
func meters(v float64) string {
	s := strconv.FormatFloat(v, 'g', -1, 64)
	if strings.ContainsAny(s, ".eIN") {
		return s
	}
	return s + ".0"
}
