package ros

import (
	"fmt"

	"github.com/gemsim/boundcheck/xmlrpc"
	"github.com/pkg/errors"
)

const (
	//APIStatusError is an API call which returned an Error
	APIStatusError = -1
	//APIStatusFailure is a failed API call
	APIStatusFailure = 0
	//APIStatusSuccess is a successful API call
	APIStatusSuccess = 1
)

// APIError is a ROS API call that returned a non-success status code.
type APIError struct {
	Method  string
	Code    int32
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("ROS API %s failed with code %d: %s", e.Method, e.Code, e.Message)
}

// callRosAPI performs an XML-RPC call against a ROS master or slave API and
// unpacks the [code, statusMessage, value] triplet.
func callRosAPI(calleeURI string, method string, args ...interface{}) (interface{}, error) {
	result, err := xmlrpc.Call(calleeURI, method, args...)
	if err != nil {
		return nil, errors.Wrapf(err, "%s on %s", method, calleeURI)
	}

	xs, ok := result.([]interface{})
	if !ok {
		return nil, errors.Errorf("malformed ROS API result for %s", method)
	}
	if len(xs) != 3 {
		return nil, errors.Errorf("malformed ROS API result for %s: length must be 3 but %d", method, len(xs))
	}
	code, ok := xs[0].(int32)
	if !ok {
		return nil, errors.Errorf("status code of %s is not int", method)
	}
	message, ok := xs[1].(string)
	if !ok {
		return nil, errors.Errorf("status message of %s is not string", method)
	}

	if code != APIStatusSuccess {
		return nil, &APIError{Method: method, Code: code, Message: message}
	}
	return xs[2], nil
}

// buildRosAPIResult builds the XML-RPC result triplet of a slave API call.
func buildRosAPIResult(code int32, message string, value interface{}) interface{} {
	return []interface{}{code, message, value}
}
