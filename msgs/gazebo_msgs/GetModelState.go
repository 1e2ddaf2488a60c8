// Package gazebo_msgs holds the gazebo_msgs service types used to query the
// simulator.
package gazebo_msgs

import (
	"github.com/gemsim/boundcheck/ros"
)

// Service type metadata
type _SrvGetModelState struct {
	name    string
	md5sum  string
	text    string
	reqType ros.MessageType
	resType ros.MessageType
}

func (t *_SrvGetModelState) Name() string                  { return t.name }
func (t *_SrvGetModelState) MD5Sum() string                { return t.md5sum }
func (t *_SrvGetModelState) Text() string                  { return t.text }
func (t *_SrvGetModelState) RequestType() ros.MessageType  { return t.reqType }
func (t *_SrvGetModelState) ResponseType() ros.MessageType { return t.resType }
func (t *_SrvGetModelState) NewService() ros.Service {
	return new(GetModelState)
}

// SrvGetModelState carries the wildcard md5sum; gazebo's server accepts it
// and reports its real checksum in the response header.
var (
	SrvGetModelState = &_SrvGetModelState{
		"gazebo_msgs/GetModelState",
		"*",
		`string model_name
string relative_entity_name
---
Header header
geometry_msgs/Pose pose
geometry_msgs/Twist twist
bool success
string status_message
`,
		MsgGetModelStateRequest,
		MsgGetModelStateResponse,
	}
)

type GetModelState struct {
	Request  GetModelStateRequest
	Response GetModelStateResponse
}

func (s *GetModelState) ReqMessage() ros.Message { return &s.Request }
func (s *GetModelState) ResMessage() ros.Message { return &s.Response }
