// Package geometry_msgs holds message types from the definitions in "geometry_msgs".
package geometry_msgs

import (
	"bytes"
	"encoding/binary"

	"github.com/gemsim/boundcheck/ros"
)

type _MsgPoint struct {
	text   string
	name   string
	md5sum string
}

func (t *_MsgPoint) Text() string {
	return t.text
}

func (t *_MsgPoint) Name() string {
	return t.name
}

func (t *_MsgPoint) MD5Sum() string {
	return t.md5sum
}

func (t *_MsgPoint) NewMessage() ros.Message {
	return new(Point)
}

var (
	MsgPoint = &_MsgPoint{
		`float64 x
float64 y
float64 z
`,
		"geometry_msgs/Point",
		"4a842b65f413084dc2b10fb484ea7f17",
	}
)

type Point struct {
	X float64 `rosmsg:"x:float64"`
	Y float64 `rosmsg:"y:float64"`
	Z float64 `rosmsg:"z:float64"`
}

func (m *Point) Type() ros.MessageType {
	return MsgPoint
}

func (m *Point) Serialize(buf *bytes.Buffer) error {
	return binary.Write(buf, binary.LittleEndian, [3]float64{m.X, m.Y, m.Z})
}

func (m *Point) Deserialize(buf *bytes.Reader) error {
	var v [3]float64
	if err := binary.Read(buf, binary.LittleEndian, &v); err != nil {
		return err
	}
	m.X, m.Y, m.Z = v[0], v[1], v[2]
	return nil
}
