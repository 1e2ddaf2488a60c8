package ros

// ServiceType describes a ROS service: its md5sum, name and the request and
// response message types.
type ServiceType interface {
	MD5Sum() string
	Name() string
	RequestType() MessageType
	ResponseType() MessageType
	NewService() Service
}

// Service holds one request/response pair.
type Service interface {
	ReqMessage() Message
	ResMessage() Message
}
