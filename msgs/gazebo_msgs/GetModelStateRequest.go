package gazebo_msgs

import (
	"bytes"

	"github.com/gemsim/boundcheck/msgs/std_msgs"
	"github.com/gemsim/boundcheck/ros"
)

type _MsgGetModelStateRequest struct {
	text   string
	name   string
	md5sum string
}

func (t *_MsgGetModelStateRequest) Text() string {
	return t.text
}

func (t *_MsgGetModelStateRequest) Name() string {
	return t.name
}

func (t *_MsgGetModelStateRequest) MD5Sum() string {
	return t.md5sum
}

func (t *_MsgGetModelStateRequest) NewMessage() ros.Message {
	return new(GetModelStateRequest)
}

var (
	MsgGetModelStateRequest = &_MsgGetModelStateRequest{
		`string model_name
string relative_entity_name
`,
		"gazebo_msgs/GetModelStateRequest",
		"*",
	}
)

type GetModelStateRequest struct {
	ModelName          string `rosmsg:"model_name:string"`
	RelativeEntityName string `rosmsg:"relative_entity_name:string"`
}

func (m *GetModelStateRequest) Type() ros.MessageType {
	return MsgGetModelStateRequest
}

func (m *GetModelStateRequest) Serialize(buf *bytes.Buffer) error {
	std_msgs.WriteString(buf, m.ModelName)
	std_msgs.WriteString(buf, m.RelativeEntityName)
	return nil
}

func (m *GetModelStateRequest) Deserialize(buf *bytes.Reader) error {
	var err error
	if m.ModelName, err = std_msgs.ReadString(buf); err != nil {
		return err
	}
	m.RelativeEntityName, err = std_msgs.ReadString(buf)
	return err
}
