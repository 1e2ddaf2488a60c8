package geometry_msgs

import (
	"bytes"
	"encoding/binary"

	"github.com/gemsim/boundcheck/ros"
)

type _MsgQuaternion struct {
	text   string
	name   string
	md5sum string
}

func (t *_MsgQuaternion) Text() string {
	return t.text
}

func (t *_MsgQuaternion) Name() string {
	return t.name
}

func (t *_MsgQuaternion) MD5Sum() string {
	return t.md5sum
}

func (t *_MsgQuaternion) NewMessage() ros.Message {
	return new(Quaternion)
}

var (
	MsgQuaternion = &_MsgQuaternion{
		`float64 x
float64 y
float64 z
float64 w
`,
		"geometry_msgs/Quaternion",
		"a779879fadf0160734f906b8c19c7004",
	}
)

type Quaternion struct {
	X float64 `rosmsg:"x:float64"`
	Y float64 `rosmsg:"y:float64"`
	Z float64 `rosmsg:"z:float64"`
	W float64 `rosmsg:"w:float64"`
}

func (m *Quaternion) Type() ros.MessageType {
	return MsgQuaternion
}

func (m *Quaternion) Serialize(buf *bytes.Buffer) error {
	return binary.Write(buf, binary.LittleEndian, [4]float64{m.X, m.Y, m.Z, m.W})
}

func (m *Quaternion) Deserialize(buf *bytes.Reader) error {
	var v [4]float64
	if err := binary.Read(buf, binary.LittleEndian, &v); err != nil {
		return err
	}
	m.X, m.Y, m.Z, m.W = v[0], v[1], v[2], v[3]
	return nil
}
