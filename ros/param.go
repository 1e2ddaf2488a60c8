package ros

import (
	"math"
	"strconv"

	"github.com/buger/jsonparser"
	"github.com/pkg/errors"
)

// loadParamFromString decodes the value of a `_name:=value` argument.
// JSON scalars, arrays and objects are decoded; anything else is kept as a
// plain string.
func loadParamFromString(s string) (interface{}, error) {
	data := []byte(s)
	value, dataType, _, err := jsonparser.Get(data)
	if err != nil {
		return s, nil
	}
	return decodeParam(value, dataType)
}

func decodeParam(value []byte, dataType jsonparser.ValueType) (interface{}, error) {
	switch dataType {
	case jsonparser.String:
		return jsonparser.ParseString(value)
	case jsonparser.Boolean:
		return jsonparser.ParseBoolean(value)
	case jsonparser.Number:
		if i, err := jsonparser.ParseInt(value); err == nil && i >= math.MinInt32 && i <= math.MaxInt32 {
			return int32(i), nil
		}
		if f, err := jsonparser.ParseFloat(value); err == nil {
			return f, nil
		}
		return string(value), nil
	case jsonparser.Array:
		list := []interface{}{}
		var itemErr error
		_, err := jsonparser.ArrayEach(value, func(item []byte, itemType jsonparser.ValueType, _ int, _ error) {
			if itemErr != nil {
				return
			}
			var v interface{}
			v, itemErr = decodeParam(item, itemType)
			list = append(list, v)
		})
		if err != nil {
			return nil, errors.Wrap(err, "param array")
		}
		return list, itemErr
	case jsonparser.Object:
		m := make(map[string]interface{})
		err := jsonparser.ObjectEach(value, func(key []byte, item []byte, itemType jsonparser.ValueType, _ int) error {
			v, err := decodeParam(item, itemType)
			if err != nil {
				return err
			}
			m[string(key)] = v
			return nil
		})
		if err != nil {
			return nil, errors.Wrap(err, "param object")
		}
		return m, nil
	}
	return string(value), nil
}

// ParamFloat converts a parameter value returned by GetParam to float64.
func ParamFloat(value interface{}) (float64, error) {
	switch v := value.(type) {
	case float64:
		return v, nil
	case int32:
		return float64(v), nil
	case string:
		f, err := strconv.ParseFloat(v, 64)
		return f, errors.Wrapf(err, "parameter %q is not a number", v)
	}
	return 0, errors.Errorf("parameter of type %T is not a number", value)
}
