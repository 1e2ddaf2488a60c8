package geometry_msgs

import (
	"bytes"

	"github.com/gemsim/boundcheck/ros"
)

type _MsgPose struct {
	text   string
	name   string
	md5sum string
}

func (t *_MsgPose) Text() string {
	return t.text
}

func (t *_MsgPose) Name() string {
	return t.name
}

func (t *_MsgPose) MD5Sum() string {
	return t.md5sum
}

func (t *_MsgPose) NewMessage() ros.Message {
	return new(Pose)
}

var (
	MsgPose = &_MsgPose{
		`Point position
Quaternion orientation
`,
		"geometry_msgs/Pose",
		"e45d45a5a1ce597b249e23fb30fc871f",
	}
)

type Pose struct {
	Position    Point      `rosmsg:"position:Point"`
	Orientation Quaternion `rosmsg:"orientation:Quaternion"`
}

func (m *Pose) Type() ros.MessageType {
	return MsgPose
}

func (m *Pose) Serialize(buf *bytes.Buffer) error {
	if err := m.Position.Serialize(buf); err != nil {
		return err
	}
	return m.Orientation.Serialize(buf)
}

func (m *Pose) Deserialize(buf *bytes.Reader) error {
	if err := m.Position.Deserialize(buf); err != nil {
		return err
	}
	return m.Orientation.Deserialize(buf)
}
