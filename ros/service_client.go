package ros

import (
	"bytes"
	"io"
	"net"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// serviceCallTimeout bounds a whole service round trip.
const serviceCallTimeout = 10 * time.Second

type defaultServiceClient struct {
	logger    *logrus.Entry
	service   string
	srvType   ServiceType
	masterURI string
	nodeID    string
}

func newDefaultServiceClient(logger *logrus.Entry, nodeID string, masterURI string, service string, srvType ServiceType) *defaultServiceClient {
	return &defaultServiceClient{
		logger:    logger.WithField("service", service),
		service:   service,
		srvType:   srvType,
		masterURI: masterURI,
		nodeID:    nodeID,
	}
}

// lookupService asks the master for the TCPROS address of service.
func lookupService(masterURI string, nodeID string, service string) (string, error) {
	result, err := callRosAPI(masterURI, "lookupService", nodeID, service)
	if err != nil {
		return "", err
	}
	uri, ok := result.(string)
	if !ok {
		return "", errors.New("result of 'lookupService' is not a string")
	}
	return splitServiceURI(uri)
}

// probeService checks that service is registered and that its server
// answers a TCPROS probe header.
func probeService(masterURI string, nodeID string, service string) error {
	addr, err := lookupService(masterURI, nodeID, service)
	if err != nil {
		return err
	}
	conn, err := net.DialTimeout("tcp", addr, serviceCallTimeout)
	if err != nil {
		return errors.Wrapf(err, "connect to %s", service)
	}
	defer conn.Close()
	_ = conn.SetDeadline(time.Now().Add(serviceCallTimeout))

	headers := []header{
		{"service", service},
		{"md5sum", "*"},
		{"callerid", nodeID},
		{"probe", "1"},
	}
	if err := writeConnectionHeader(headers, conn); err != nil {
		return errors.Wrap(err, "write probe header")
	}
	resHeaders, err := readConnectionHeader(conn)
	if err != nil {
		return errors.Wrap(err, "read probe response")
	}
	if msg, ok := headerMap(resHeaders)["error"]; ok {
		return errors.Errorf("service %s refused probe: %s", service, msg)
	}
	return nil
}

func (c *defaultServiceClient) Call(srv Service) error {
	logger := c.logger

	addr, err := lookupService(c.masterURI, c.nodeID, c.service)
	if err != nil {
		return err
	}
	conn, err := net.DialTimeout("tcp", addr, serviceCallTimeout)
	if err != nil {
		return errors.Wrapf(err, "connect to %s", c.service)
	}
	defer conn.Close()
	_ = conn.SetDeadline(time.Now().Add(serviceCallTimeout))

	// 1. Write connection header
	md5sum := c.srvType.MD5Sum()
	msgType := c.srvType.Name()
	headers := []header{
		{"service", c.service},
		{"md5sum", md5sum},
		{"type", msgType},
		{"callerid", c.nodeID},
	}
	if err := writeConnectionHeader(headers, conn); err != nil {
		return errors.Wrap(err, "write connection header")
	}

	// 2. Read response header
	resHeaders, err := readConnectionHeader(conn)
	if err != nil {
		return errors.Wrap(err, "read response header")
	}
	resHeaderMap := headerMap(resHeaders)
	for k, v := range resHeaderMap {
		logger.Debugf("  `%s` = `%s`", k, v)
	}
	if msg, ok := resHeaderMap["error"]; ok {
		return errors.Errorf("service %s refused connection: %s", c.service, msg)
	}
	if !md5Compatible(resHeaderMap["md5sum"], md5sum) {
		return errors.Errorf("incompatible service type for %s: md5sum %s, want %s",
			c.service, resHeaderMap["md5sum"], md5sum)
	}

	// 3. Send request
	var buf bytes.Buffer
	if err := srv.ReqMessage().Serialize(&buf); err != nil {
		return errors.Wrap(err, "serialize request")
	}
	if err := writeFrame(conn, buf.Bytes()); err != nil {
		return errors.Wrap(err, "send request")
	}

	// 4. Read OK byte; on failure the frame carries the error message.
	var ok [1]byte
	if _, err := io.ReadFull(conn, ok[:]); err != nil {
		return errors.Wrap(err, "read response status")
	}
	body, err := readFrame(conn)
	if err != nil {
		return errors.Wrap(err, "read response")
	}
	if ok[0] == 0 {
		return errors.Errorf("service %s failed: %s", c.service, string(body))
	}

	// 5. Decode response
	if err := srv.ResMessage().Deserialize(bytes.NewReader(body)); err != nil {
		return errors.Wrap(err, "deserialize response")
	}
	return nil
}

func (*defaultServiceClient) Shutdown() {}
