// Connection header
package ros

import (
	"bytes"
	"encoding/binary"
	"io"

	"github.com/pkg/errors"
)

type header struct {
	key   string
	value string
}

// maxHeaderSize bounds the allocation for a peer-announced header length.
const maxHeaderSize = 1 << 20

func readConnectionHeader(r io.Reader) ([]header, error) {
	var headerSize uint32
	if err := binary.Read(r, binary.LittleEndian, &headerSize); err != nil {
		return nil, err
	}
	if headerSize > maxHeaderSize {
		return nil, errors.Errorf("connection header of %d bytes is too large", headerSize)
	}
	buf := make([]byte, int(headerSize))
	if _, err := io.ReadFull(r, buf); err != nil {
		return nil, err
	}

	var headers []header
	reader := bytes.NewReader(buf)
	for reader.Len() > 0 {
		var size uint32
		if err := binary.Read(reader, binary.LittleEndian, &size); err != nil {
			return nil, errors.Wrap(err, "header field length")
		}
		if int(size) > reader.Len() {
			return nil, errors.New("header length overrun")
		}
		line := make([]byte, int(size))
		_, _ = reader.Read(line)
		sep := bytes.IndexByte(line, '=')
		if sep < 0 {
			return nil, errors.Errorf("malformed header field %q", line)
		}
		headers = append(headers, header{string(line[:sep]), string(line[sep+1:])})
	}
	return headers, nil
}

func writeConnectionHeader(headers []header, w io.Writer) error {
	var buf bytes.Buffer
	for _, h := range headers {
		size := uint32(len(h.key) + len(h.value) + 1)
		_ = binary.Write(&buf, binary.LittleEndian, size)
		buf.WriteString(h.key)
		buf.WriteByte('=')
		buf.WriteString(h.value)
	}
	if err := binary.Write(w, binary.LittleEndian, uint32(buf.Len())); err != nil {
		return err
	}
	_, err := buf.WriteTo(w)
	return err
}

func headerMap(headers []header) map[string]string {
	m := make(map[string]string, len(headers))
	for _, h := range headers {
		m[h.key] = h.value
	}
	return m
}

// md5Compatible reports whether two md5sums can talk to each other; "*"
// matches anything.
func md5Compatible(lhs, rhs string) bool {
	return lhs == "*" || rhs == "*" || lhs == rhs
}

// readFrame reads one length-prefixed TCPROS message body.
func readFrame(r io.Reader) ([]byte, error) {
	var size uint32
	if err := binary.Read(r, binary.LittleEndian, &size); err != nil {
		return nil, err
	}
	buf := make([]byte, int(size))
	if _, err := io.ReadFull(r, buf); err != nil {
		return nil, err
	}
	return buf, nil
}

func writeFrame(w io.Writer, body []byte) error {
	if err := binary.Write(w, binary.LittleEndian, uint32(len(body))); err != nil {
		return err
	}
	_, err := w.Write(body)
	return err
}
