package ros

import (
	"bytes"
	"encoding/binary"
	"testing"
)

func TestConnectionHeaderRoundTrip(t *testing.T) {
	headers := []header{
		{"topic", "/gem/ct_error"},
		{"md5sum", "73fcbf46b49191e672908e50842a83d4"},
		{"type", "std_msgs/Float32"},
		{"callerid", "/test_ct_error"},
		{"message_definition", "float32 data\n"},
	}
	var buf bytes.Buffer
	if err := writeConnectionHeader(headers, &buf); err != nil {
		t.Fatal(err)
	}
	got, err := readConnectionHeader(&buf)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != len(headers) {
		t.Fatalf("got %d fields, want %d", len(got), len(headers))
	}
	for i := range headers {
		if got[i] != headers[i] {
			t.Errorf("field %d: got %v, want %v", i, got[i], headers[i])
		}
	}
}

func TestConnectionHeaderValueWithEquals(t *testing.T) {
	var buf bytes.Buffer
	if err := writeConnectionHeader([]header{{"error", "a=b"}}, &buf); err != nil {
		t.Fatal(err)
	}
	got, err := readConnectionHeader(&buf)
	if err != nil {
		t.Fatal(err)
	}
	if m := headerMap(got); m["error"] != "a=b" {
		t.Errorf("error = %q", m["error"])
	}
}

func TestConnectionHeaderMalformed(t *testing.T) {
	field := []byte("novalue")
	var buf bytes.Buffer
	binary.Write(&buf, binary.LittleEndian, uint32(len(field)+4))
	binary.Write(&buf, binary.LittleEndian, uint32(len(field)))
	buf.Write(field)
	if _, err := readConnectionHeader(&buf); err == nil {
		t.Error("expected an error for a field without '='")
	}

	buf.Reset()
	binary.Write(&buf, binary.LittleEndian, uint32(8))
	binary.Write(&buf, binary.LittleEndian, uint32(100))
	buf.Write([]byte("a=bc"))
	if _, err := readConnectionHeader(&buf); err == nil {
		t.Error("expected an error for a field overrunning the header")
	}

	buf.Reset()
	binary.Write(&buf, binary.LittleEndian, uint32(maxHeaderSize+1))
	if _, err := readConnectionHeader(&buf); err == nil {
		t.Error("expected an error for an oversized header")
	}
}

func TestFrames(t *testing.T) {
	var buf bytes.Buffer
	if err := writeFrame(&buf, []byte{1, 2, 3}); err != nil {
		t.Fatal(err)
	}
	if err := writeFrame(&buf, nil); err != nil {
		t.Fatal(err)
	}
	first, err := readFrame(&buf)
	if err != nil || !bytes.Equal(first, []byte{1, 2, 3}) {
		t.Errorf("first frame %v, %v", first, err)
	}
	second, err := readFrame(&buf)
	if err != nil || len(second) != 0 {
		t.Errorf("second frame %v, %v", second, err)
	}
	if _, err := readFrame(&buf); err == nil {
		t.Error("expected EOF after the last frame")
	}
}

func TestMD5Compatible(t *testing.T) {
	cases := []struct {
		lhs, rhs string
		want     bool
	}{
		{"abc", "abc", true},
		{"abc", "def", false},
		{"*", "def", true},
		{"abc", "*", true},
	}
	for _, c := range cases {
		if got := md5Compatible(c.lhs, c.rhs); got != c.want {
			t.Errorf("md5Compatible(%q, %q) = %v", c.lhs, c.rhs, got)
		}
	}
}
