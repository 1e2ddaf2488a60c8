package validate

import (
	"github.com/gemsim/boundcheck/msgs/std_msgs"
	"github.com/gemsim/boundcheck/ros"
)

// TopicSource delivers the data field of std_msgs/Float32 messages published
// on Topic. The node must be spinning for callbacks to run.
type TopicSource struct {
	Node  ros.Node
	Topic string
}

func (s *TopicSource) Name() string {
	return s.Topic
}

func (s *TopicSource) Subscribe(callback func(value float64)) (func(), error) {
	_, err := s.Node.NewSubscriber(s.Topic, std_msgs.MsgFloat32, func(msg *std_msgs.Float32) {
		callback(float64(msg.Data))
	})
	if err != nil {
		return nil, err
	}
	return func() { s.Node.RemoveSubscriber(s.Topic) }, nil
}
