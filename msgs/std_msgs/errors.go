package std_msgs

import "github.com/pkg/errors"

var errStringOverrun = errors.New("string length exceeds message")
