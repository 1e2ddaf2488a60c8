package gazebo_msgs

import (
	"bytes"
	"encoding/binary"

	"github.com/gemsim/boundcheck/msgs/geometry_msgs"
	"github.com/gemsim/boundcheck/msgs/std_msgs"
	"github.com/gemsim/boundcheck/ros"
)

type _MsgGetModelStateResponse struct {
	text   string
	name   string
	md5sum string
}

func (t *_MsgGetModelStateResponse) Text() string {
	return t.text
}

func (t *_MsgGetModelStateResponse) Name() string {
	return t.name
}

func (t *_MsgGetModelStateResponse) MD5Sum() string {
	return t.md5sum
}

func (t *_MsgGetModelStateResponse) NewMessage() ros.Message {
	return new(GetModelStateResponse)
}

var (
	MsgGetModelStateResponse = &_MsgGetModelStateResponse{
		`Header header
geometry_msgs/Pose pose
geometry_msgs/Twist twist
bool success
string status_message
`,
		"gazebo_msgs/GetModelStateResponse",
		"*",
	}
)

type GetModelStateResponse struct {
	Header        std_msgs.Header     `rosmsg:"header:Header"`
	Pose          geometry_msgs.Pose  `rosmsg:"pose:Pose"`
	Twist         geometry_msgs.Twist `rosmsg:"twist:Twist"`
	Success       bool                `rosmsg:"success:bool"`
	StatusMessage string              `rosmsg:"status_message:string"`
}

func (m *GetModelStateResponse) Type() ros.MessageType {
	return MsgGetModelStateResponse
}

func (m *GetModelStateResponse) Serialize(buf *bytes.Buffer) error {
	if err := m.Header.Serialize(buf); err != nil {
		return err
	}
	if err := m.Pose.Serialize(buf); err != nil {
		return err
	}
	if err := m.Twist.Serialize(buf); err != nil {
		return err
	}
	binary.Write(buf, binary.LittleEndian, m.Success)
	std_msgs.WriteString(buf, m.StatusMessage)
	return nil
}

func (m *GetModelStateResponse) Deserialize(buf *bytes.Reader) error {
	if err := m.Header.Deserialize(buf); err != nil {
		return err
	}
	if err := m.Pose.Deserialize(buf); err != nil {
		return err
	}
	if err := m.Twist.Deserialize(buf); err != nil {
		return err
	}
	if err := binary.Read(buf, binary.LittleEndian, &m.Success); err != nil {
		return err
	}
	var err error
	m.StatusMessage, err = std_msgs.ReadString(buf)
	return err
}
