// Package std_msgs holds message types from the definitions in "std_msgs".
package std_msgs

import (
	"bytes"
	"encoding/binary"

	"github.com/gemsim/boundcheck/ros"
)

type _MsgFloat32 struct {
	text   string
	name   string
	md5sum string
}

func (t *_MsgFloat32) Text() string {
	return t.text
}

func (t *_MsgFloat32) Name() string {
	return t.name
}

func (t *_MsgFloat32) MD5Sum() string {
	return t.md5sum
}

func (t *_MsgFloat32) NewMessage() ros.Message {
	return new(Float32)
}

var (
	MsgFloat32 = &_MsgFloat32{
		`float32 data
`,
		"std_msgs/Float32",
		"73fcbf46b49191e672908e50842a83d4",
	}
)

type Float32 struct {
	Data float32 `rosmsg:"data:float32"`
}

func (m *Float32) Type() ros.MessageType {
	return MsgFloat32
}

func (m *Float32) Serialize(buf *bytes.Buffer) error {
	return binary.Write(buf, binary.LittleEndian, m.Data)
}

func (m *Float32) Deserialize(buf *bytes.Reader) error {
	return binary.Read(buf, binary.LittleEndian, &m.Data)
}
