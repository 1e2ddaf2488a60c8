package geometry_msgs

import (
	"bytes"

	"github.com/gemsim/boundcheck/ros"
)

type _MsgTwist struct {
	text   string
	name   string
	md5sum string
}

func (t *_MsgTwist) Text() string {
	return t.text
}

func (t *_MsgTwist) Name() string {
	return t.name
}

func (t *_MsgTwist) MD5Sum() string {
	return t.md5sum
}

func (t *_MsgTwist) NewMessage() ros.Message {
	return new(Twist)
}

var (
	MsgTwist = &_MsgTwist{
		`Vector3  linear
Vector3  angular
`,
		"geometry_msgs/Twist",
		"9f195f881246fdfa2798d1d3eebca84a",
	}
)

type Twist struct {
	Linear  Vector3 `rosmsg:"linear:Vector3"`
	Angular Vector3 `rosmsg:"angular:Vector3"`
}

func (m *Twist) Type() ros.MessageType {
	return MsgTwist
}

func (m *Twist) Serialize(buf *bytes.Buffer) error {
	if err := m.Linear.Serialize(buf); err != nil {
		return err
	}
	return m.Angular.Serialize(buf)
}

func (m *Twist) Deserialize(buf *bytes.Reader) error {
	if err := m.Linear.Deserialize(buf); err != nil {
		return err
	}
	return m.Angular.Deserialize(buf)
}
