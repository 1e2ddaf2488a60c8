package geometry_msgs

import (
	"bytes"
	"encoding/binary"

	"github.com/gemsim/boundcheck/ros"
)

type _MsgVector3 struct {
	text   string
	name   string
	md5sum string
}

func (t *_MsgVector3) Text() string {
	return t.text
}

func (t *_MsgVector3) Name() string {
	return t.name
}

func (t *_MsgVector3) MD5Sum() string {
	return t.md5sum
}

func (t *_MsgVector3) NewMessage() ros.Message {
	return new(Vector3)
}

var (
	MsgVector3 = &_MsgVector3{
		`float64 x
float64 y
float64 z
`,
		"geometry_msgs/Vector3",
		"4a842b65f413084dc2b10fb484ea7f17",
	}
)

type Vector3 struct {
	X float64 `rosmsg:"x:float64"`
	Y float64 `rosmsg:"y:float64"`
	Z float64 `rosmsg:"z:float64"`
}

func (m *Vector3) Type() ros.MessageType {
	return MsgVector3
}

func (m *Vector3) Serialize(buf *bytes.Buffer) error {
	return binary.Write(buf, binary.LittleEndian, [3]float64{m.X, m.Y, m.Z})
}

func (m *Vector3) Deserialize(buf *bytes.Reader) error {
	var v [3]float64
	if err := binary.Read(buf, binary.LittleEndian, &v); err != nil {
		return err
	}
	m.X, m.Y, m.Z = v[0], v[1], v[2]
	return nil
}
