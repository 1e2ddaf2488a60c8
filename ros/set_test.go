package ros

import (
	"reflect"
	"testing"
)

func TestDifference(t *testing.T) {
	a := []string{"http://pub1:1", "http://pub2:2", "http://pub3:3", "http://pub1:1"}
	b := []string{"http://pub2:2", "http://pub4:4"}

	result := setDifference(a, b)
	want := []string{"http://pub1:1", "http://pub3:3"}
	if !reflect.DeepEqual(result, want) {
		t.Errorf("Expected %v but %v", want, result)
	}

	if result := setDifference(nil, b); len(result) != 0 {
		t.Error(result)
	}
	if result := setDifference(b, nil); !reflect.DeepEqual(result, b) {
		t.Error(result)
	}
}
