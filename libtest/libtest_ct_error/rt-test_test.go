package libtest_ct_error

import (
	"math"
	"testing"
	"time"

	"github.com/gemsim/boundcheck/ros"
	"github.com/gemsim/boundcheck/validate"
	"github.com/pkg/errors"
)

func TestFailureMessage(t *testing.T) {
	cases := []struct {
		err  error
		want string
	}{
		{nil, ""},
		{&validate.NoSamplesError{Source: Topic}, "Cross-Track Error messages missing"},
		{&validate.ThresholdExceededError{MaxAbs: 1.01, Bound: 1}, "Maximum Cross-Track Error (1.01m) exceeded 1.0m"},
		{&validate.ThresholdExceededError{MaxAbs: 2, Bound: 1.5}, "Maximum Cross-Track Error (2.0m) exceeded 1.5m"},
		{&validate.ThresholdExceededError{MaxAbs: math.NaN(), Bound: 1}, "Maximum Cross-Track Error (NaNm) exceeded 1.0m"},
		{errors.New("boom"), "boom"},
	}
	for _, c := range cases {
		if got := FailureMessage(c.err); got != c.want {
			t.Errorf("FailureMessage(%v) = %q, want %q", c.err, got, c.want)
		}
	}
}

type paramNode struct {
	ros.Node
	params map[string]interface{}
}

func (n *paramNode) HasParam(key string) (bool, error) {
	_, ok := n.params[key]
	return ok, nil
}

func (n *paramNode) GetParam(key string) (interface{}, error) {
	return n.params[key], nil
}

func TestSettings(t *testing.T) {
	duration, bound, err := Settings(&paramNode{params: map[string]interface{}{}})
	if err != nil {
		t.Fatal(err)
	}
	if duration != DefaultDuration || bound != DefaultMaxCTError {
		t.Errorf("defaults: got %v, %v", duration, bound)
	}

	node := &paramNode{params: map[string]interface{}{
		TestDurationParam: int32(3),
		MaxCTErrorParam:   0.5,
	}}
	duration, bound, err = Settings(node)
	if err != nil {
		t.Fatal(err)
	}
	if duration != 3*time.Second || bound != 0.5 {
		t.Errorf("overrides: got %v, %v", duration, bound)
	}

	node.params[MaxCTErrorParam] = true
	if _, _, err := Settings(node); err == nil {
		t.Error("expected an error for a boolean bound")
	}
}
