// Package ros is a ROS 1 client: a node with the slave XML-RPC API, TCPROS
// topic subscribers, service clients and the parameter server.
package ros

import (
	"time"

	"github.com/sirupsen/logrus"
)

type Node interface {
	// callback should be a function which takes 0, 1, or 2 arguments.
	// If it takes 0 arguments, it will simply be called without the
	// message.  1-argument functions are the normal case, and the
	// argument should be of the generated message type.  If the
	// function takes 2 arguments, the first argument should be of the
	// generated message type and the second argument should be of
	// type MessageEvent.
	NewSubscriber(topic string, msgType MessageType, callback interface{}) (Subscriber, error)
	RemoveSubscriber(topic string)
	NewServiceClient(service string, srvType ServiceType) ServiceClient
	// WaitForService blocks until service is registered with the master and
	// accepts connections. A zero timeout waits as long as the node is OK.
	WaitForService(service string, timeout time.Duration) error

	OK() bool
	SpinOnce()
	Spin()
	Shutdown()

	GetParam(name string) (interface{}, error)
	SetParam(name string, value interface{}) error
	HasParam(name string) (bool, error)

	Name() string
	Logger() *logrus.Entry
	NonRosArgs() []string
}

func NewNode(name string, args []string) (Node, error) {
	return newDefaultNode(name, args)
}

type Subscriber interface {
	GetNumPublishers() int
	Shutdown()
}

// Optional second argument to a Subscriber callback.
type MessageEvent struct {
	PublisherName    string
	ReceiptTime      time.Time
	ConnectionHeader map[string]string
}

type ServiceClient interface {
	Call(srv Service) error
	Shutdown()
}
