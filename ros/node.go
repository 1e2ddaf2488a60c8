package ros

import (
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"reflect"
	"strings"
	"sync"
	"time"

	"github.com/gemsim/boundcheck/xmlrpc"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

var (
	// ErrTimeout is returned when a wait exceeds its timeout.
	ErrTimeout = errors.New("timeout exceeded")
	// ErrShutdown is returned when the node shuts down during a wait.
	ErrShutdown = errors.New("node is shut down")
)

// waitForServicePeriod is the polling period of WaitForService.
const waitForServicePeriod = 300 * time.Millisecond

// *defaultNode implements Node interface
// Subscribers are registered from user goroutines and looked up from the
// XML-RPC server goroutines, hence the mutex.
type defaultNode struct {
	name           string
	namespace      string
	qualifiedName  string
	masterURI      string
	xmlrpcURI      string
	xmlrpcListener net.Listener
	xmlrpcHandler  *xmlrpc.Handler
	subscribers    map[string]*defaultSubscriber
	subMutex       sync.Mutex
	jobChan        chan func()
	interruptChan  chan os.Signal
	logger         *logrus.Entry
	ok             bool
	okMutex        sync.RWMutex
	shutdownOnce   sync.Once
	waitGroup      sync.WaitGroup
	hostname       string
	listenIP       string
	nameResolver   *nameResolver
	nonRosArgs     []string
}

func newDefaultNode(name string, args []string) (*defaultNode, error) {
	node := new(defaultNode)

	namespace, nodeName, err := qualifyNodeName(name)
	if err != nil {
		return nil, err
	}

	remapping, params, specials, rest := processArguments(args)

	node.name = nodeName
	if value, ok := specials["__name"]; ok {
		node.name = value
	}

	node.namespace = namespace
	if ns := os.Getenv("ROS_NAMESPACE"); len(ns) > 0 {
		node.namespace = normalizeNamespace(ns)
	}
	if value, ok := specials["__ns"]; ok {
		node.namespace = normalizeNamespace(value)
	}

	var onlyLocalhost bool
	node.hostname, onlyLocalhost = determineHost()
	if value, ok := specials["__hostname"]; ok {
		node.hostname = value
		onlyLocalhost = (value == "localhost")
	} else if value, ok := specials["__ip"]; ok {
		node.hostname = value
		onlyLocalhost = isLoopbackIP(value)
	}
	if onlyLocalhost {
		node.listenIP = "127.0.0.1"
	} else {
		node.listenIP = "0.0.0.0"
	}

	node.masterURI = os.Getenv("ROS_MASTER_URI")
	if value, ok := specials["__master"]; ok {
		node.masterURI = value
	}
	if node.masterURI == "" {
		return nil, errors.New("ROS_MASTER_URI is not set")
	}

	node.nameResolver = newNameResolver(node.namespace, node.name, remapping)
	node.nonRosArgs = rest
	node.qualifiedName = node.namespace + node.name
	node.subscribers = make(map[string]*defaultSubscriber)
	node.jobChan = make(chan func(), 100)
	node.ok = true

	logger := NewDefaultLogger(node.qualifiedName)
	node.logger = logger
	logger.Debugf("Master URI = %s", node.masterURI)

	for k, v := range params {
		value, err := loadParamFromString(v)
		if err != nil {
			return nil, errors.Wrapf(err, "parameter %s", k)
		}
		if err := node.SetParam(PrivateNS+k, value); err != nil {
			return nil, err
		}
	}

	listener, err := net.Listen("tcp", net.JoinHostPort(node.listenIP, "0"))
	if err != nil {
		return nil, errors.Wrap(err, "listen for slave API")
	}
	_, port, err := net.SplitHostPort(listener.Addr().String())
	if err != nil {
		listener.Close()
		return nil, err
	}
	node.xmlrpcURI = fmt.Sprintf("http://%s/", net.JoinHostPort(node.hostname, port))
	node.xmlrpcListener = listener
	m := map[string]xmlrpc.Method{
		"getBusStats":      func(callerID string) (interface{}, error) { return node.getBusStats(callerID) },
		"getBusInfo":       func(callerID string) (interface{}, error) { return node.getBusInfo(callerID) },
		"getMasterUri":     func(callerID string) (interface{}, error) { return node.getMasterURI(callerID) },
		"shutdown":         func(callerID string, msg string) (interface{}, error) { return node.shutdown(callerID, msg) },
		"getPid":           func(callerID string) (interface{}, error) { return node.getPid(callerID) },
		"getSubscriptions": func(callerID string) (interface{}, error) { return node.getSubscriptions(callerID) },
		"getPublications":  func(callerID string) (interface{}, error) { return node.getPublications(callerID) },
		"paramUpdate": func(callerID string, key string, value interface{}) (interface{}, error) {
			return node.paramUpdate(callerID, key, value)
		},
		"publisherUpdate": func(callerID string, topic string, publishers []interface{}) (interface{}, error) {
			return node.publisherUpdate(callerID, topic, publishers)
		},
		"requestTopic": func(callerID string, topic string, protocols []interface{}) (interface{}, error) {
			return node.requestTopic(callerID, topic, protocols)
		},
	}
	node.xmlrpcHandler = xmlrpc.NewHandler(m)
	go http.Serve(node.xmlrpcListener, node.xmlrpcHandler)
	logger.Debugf("listen on %s", node.xmlrpcURI)

	node.interruptChan = make(chan os.Signal, 1)
	signal.Notify(node.interruptChan, os.Interrupt)
	go func() {
		if _, ok := <-node.interruptChan; ok {
			logger.Info("Interrupted")
			node.setOK(false)
		}
	}()

	logger.Debugf("Started %s", node.qualifiedName)
	return node, nil
}

func (node *defaultNode) OK() bool {
	node.okMutex.RLock()
	defer node.okMutex.RUnlock()
	return node.ok
}

func (node *defaultNode) setOK(ok bool) {
	node.okMutex.Lock()
	node.ok = ok
	node.okMutex.Unlock()
}

func (node *defaultNode) Name() string {
	return node.qualifiedName
}

func (node *defaultNode) getBusStats(callerID string) (interface{}, error) {
	return buildRosAPIResult(APIStatusError, "Not implemented", 0), nil
}

func (node *defaultNode) getBusInfo(callerID string) (interface{}, error) {
	return buildRosAPIResult(APIStatusError, "Not implemented", 0), nil
}

func (node *defaultNode) getMasterURI(callerID string) (interface{}, error) {
	return buildRosAPIResult(APIStatusSuccess, "Success", node.masterURI), nil
}

func (node *defaultNode) shutdown(callerID string, msg string) (interface{}, error) {
	node.logger.Infof("Shutdown requested by %s: %s", callerID, msg)
	node.setOK(false)
	return buildRosAPIResult(APIStatusSuccess, "Success", 0), nil
}

func (node *defaultNode) getPid(callerID string) (interface{}, error) {
	return buildRosAPIResult(APIStatusSuccess, "Success", os.Getpid()), nil
}

func (node *defaultNode) getSubscriptions(callerID string) (interface{}, error) {
	node.subMutex.Lock()
	defer node.subMutex.Unlock()
	result := []interface{}{}
	for t, s := range node.subscribers {
		result = append(result, []interface{}{t, s.msgType.Name()})
	}
	return buildRosAPIResult(APIStatusSuccess, "Success", result), nil
}

// getPublications always reports nothing; this client does not publish.
func (node *defaultNode) getPublications(callerID string) (interface{}, error) {
	return buildRosAPIResult(APIStatusSuccess, "Success", []interface{}{}), nil
}

func (node *defaultNode) paramUpdate(callerID string, key string, value interface{}) (interface{}, error) {
	return buildRosAPIResult(APIStatusError, "Not implemented", 0), nil
}

func (node *defaultNode) publisherUpdate(callerID string, topic string, publishers []interface{}) (interface{}, error) {
	node.logger.Debugf("Slave API publisherUpdate(%s, %s) called.", callerID, topic)
	node.subMutex.Lock()
	sub, ok := node.subscribers[topic]
	node.subMutex.Unlock()
	if !ok {
		node.logger.Debug("publisherUpdate() called without subscribing topic.")
		return buildRosAPIResult(APIStatusFailure, "No such topic", 0), nil
	}

	pubURIs := make([]string, 0, len(publishers))
	for _, uri := range publishers {
		s, ok := uri.(string)
		if !ok {
			return buildRosAPIResult(APIStatusError, "Publisher list contains a non-string", 0), nil
		}
		pubURIs = append(pubURIs, s)
	}
	sub.updatePublishers(pubURIs)
	return buildRosAPIResult(APIStatusSuccess, "Success", 0), nil
}

func (node *defaultNode) requestTopic(callerID string, topic string, protocols []interface{}) (interface{}, error) {
	node.logger.Debugf("Slave API requestTopic(%s, %s, ...) called.", callerID, topic)
	return buildRosAPIResult(APIStatusFailure, "No such topic", 0), nil
}

func (node *defaultNode) NewSubscriber(topic string, msgType MessageType, callback interface{}) (Subscriber, error) {
	if err := checkCallback(callback); err != nil {
		return nil, err
	}
	name := node.nameResolver.remap(topic)
	logger := node.logger.WithField("topic", name)

	node.subMutex.Lock()
	defer node.subMutex.Unlock()
	if sub, ok := node.subscribers[name]; ok {
		if sub.msgType.Name() != msgType.Name() {
			return nil, errors.Errorf("topic %s is already subscribed as %s", name, sub.msgType.Name())
		}
		sub.addCallback(callback)
		return sub, nil
	}

	logger.Debug("Call Master API registerSubscriber")
	result, err := callRosAPI(node.masterURI, "registerSubscriber",
		node.qualifiedName,
		name,
		msgType.Name(),
		node.xmlrpcURI)
	if err != nil {
		return nil, errors.Wrapf(err, "subscribe %s", name)
	}
	list, ok := result.([]interface{})
	if !ok {
		return nil, errors.Errorf("registerSubscriber result is not a list but %s", reflect.TypeOf(result))
	}
	publishers := make([]string, 0, len(list))
	for _, item := range list {
		s, ok := item.(string)
		if !ok {
			return nil, errors.New("publisher list contains a non-string")
		}
		publishers = append(publishers, s)
	}
	logger.Debugf("Publisher URI list: %v", publishers)

	sub := newDefaultSubscriber(name, msgType, callback)
	node.subscribers[name] = sub

	node.waitGroup.Add(1)
	go sub.start(&node.waitGroup, node.qualifiedName, node.xmlrpcURI, node.masterURI, node.jobChan, logger)
	sub.updatePublishers(publishers)
	return sub, nil
}

// RemoveSubscriber shuts down and deletes an existing topic subscriber.
func (node *defaultNode) RemoveSubscriber(topic string) {
	name := node.nameResolver.remap(topic)
	node.subMutex.Lock()
	sub, ok := node.subscribers[name]
	delete(node.subscribers, name)
	node.subMutex.Unlock()
	if ok {
		sub.Shutdown()
	}
}

func (node *defaultNode) NewServiceClient(service string, srvType ServiceType) ServiceClient {
	name := node.nameResolver.remap(service)
	return newDefaultServiceClient(node.logger, node.qualifiedName, node.masterURI, name, srvType)
}

func (node *defaultNode) WaitForService(service string, timeout time.Duration) error {
	name := node.nameResolver.remap(service)
	logger := node.logger.WithField("service", name)
	var deadline time.Time
	if timeout > 0 {
		deadline = time.Now().Add(timeout)
	}
	rate := CycleTime(DurationOf(waitForServicePeriod))
	for node.OK() {
		err := probeService(node.masterURI, node.qualifiedName, name)
		if err == nil {
			logger.Debug("Service is available")
			return nil
		}
		logger.Debugf("Service is not available yet: %v", err)
		if !deadline.IsZero() && time.Now().After(deadline) {
			return errors.Wrapf(ErrTimeout, "wait for service %s (last error: %v)", name, err)
		}
		rate.Sleep()
	}
	return errors.Wrapf(ErrShutdown, "wait for service %s", name)
}

func (node *defaultNode) SpinOnce() {
	timeoutChan := time.After(10 * time.Millisecond)
	select {
	case job := <-node.jobChan:
		job()
	case <-timeoutChan:
	}
}

func (node *defaultNode) Spin() {
	for node.OK() {
		timeoutChan := time.After(100 * time.Millisecond)
		select {
		case job := <-node.jobChan:
			job()
		case <-timeoutChan:
		}
	}
}

func (node *defaultNode) Shutdown() {
	node.shutdownOnce.Do(node.doShutdown)
}

func (node *defaultNode) doShutdown() {
	logger := node.logger
	logger.Debug("Shutting node down")
	node.setOK(false)
	signal.Stop(node.interruptChan)
	close(node.interruptChan)

	node.subMutex.Lock()
	subscribers := node.subscribers
	node.subscribers = make(map[string]*defaultSubscriber)
	node.subMutex.Unlock()
	for _, s := range subscribers {
		s.Shutdown()
	}
	logger.Debug("Wait all goroutines")
	node.waitGroup.Wait()
	node.xmlrpcListener.Close()
	node.xmlrpcHandler.WaitForShutdown()
	logger.Debug("Shutting node down completed")
}

func (node *defaultNode) GetParam(key string) (interface{}, error) {
	name := node.nameResolver.remap(key)
	return callRosAPI(node.masterURI, "getParam", node.qualifiedName, name)
}

func (node *defaultNode) SetParam(key string, value interface{}) error {
	name := node.nameResolver.remap(key)
	_, err := callRosAPI(node.masterURI, "setParam", node.qualifiedName, name, value)
	return err
}

func (node *defaultNode) HasParam(key string) (bool, error) {
	name := node.nameResolver.remap(key)
	result, err := callRosAPI(node.masterURI, "hasParam", node.qualifiedName, name)
	if err != nil {
		return false, err
	}
	hasParam, ok := result.(bool)
	if !ok {
		return false, errors.Errorf("hasParam result is not bool but %T", result)
	}
	return hasParam, nil
}

func (node *defaultNode) Logger() *logrus.Entry {
	return node.logger
}

func (node *defaultNode) NonRosArgs() []string {
	return node.nonRosArgs
}

// checkCallback verifies callback is a function of at most two arguments.
func checkCallback(callback interface{}) error {
	fun := reflect.ValueOf(callback)
	if fun.Kind() != reflect.Func {
		return errors.Errorf("callback must be a function, not %T", callback)
	}
	if n := fun.Type().NumIn(); n > 2 {
		return errors.Errorf("callback takes %d arguments; at most 2 are supported", n)
	}
	return nil
}

// splitServiceURI extracts host:port from a rosrpc:// URI.
func splitServiceURI(uri string) (string, error) {
	const scheme = "rosrpc://"
	if !strings.HasPrefix(uri, scheme) {
		return "", errors.Errorf("service URI %q is not a rosrpc URI", uri)
	}
	return strings.TrimSuffix(strings.TrimPrefix(uri, scheme), "/"), nil
}
