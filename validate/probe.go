package validate

import (
	"time"

	"github.com/gemsim/boundcheck/msgs/gazebo_msgs"
	"github.com/gemsim/boundcheck/ros"
)

// ServiceProbe waits for a gazebo_msgs/GetModelState service and, when Model
// is set, queries the model once.
type ServiceProbe struct {
	Node    ros.Node
	Service string
	Model   string
	// Timeout of zero waits until the node shuts down.
	Timeout time.Duration
}

func (p *ServiceProbe) Probe() error {
	logger := p.Node.Logger().WithField("service", p.Service)
	logger.Debug("Waiting for service")
	if err := p.Node.WaitForService(p.Service, p.Timeout); err != nil {
		return &ServiceUnavailableError{Service: p.Service, Err: err}
	}
	if p.Model == "" {
		return nil
	}

	client := p.Node.NewServiceClient(p.Service, gazebo_msgs.SrvGetModelState)
	defer client.Shutdown()
	srv := &gazebo_msgs.GetModelState{
		Request: gazebo_msgs.GetModelStateRequest{ModelName: p.Model},
	}
	if err := client.Call(srv); err != nil {
		return &ServiceUnavailableError{Service: p.Service, Err: err}
	}
	res := srv.Response
	logger.Debugf("Model %s: success=%v status=%q position=(%v, %v)",
		p.Model, res.Success, res.StatusMessage, res.Pose.Position.X, res.Pose.Position.Y)
	return nil
}
