package ros

import (
	"bytes"
	"fmt"
	"net"
	"reflect"
	"sync"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

const publisherDialTimeout = 3 * time.Second

type messageEvent struct {
	bytes []byte
	event MessageEvent
}

// The subscription object runs in own goroutine (start).
// Only the channels may be touched from other goroutines.
type defaultSubscriber struct {
	topic            string
	msgType          MessageType
	pubList          []string
	pubListChan      chan []string
	msgChan          chan messageEvent
	callbacks        []interface{}
	addCallbackChan  chan interface{}
	shutdownChan     chan struct{}
	shutdownOnce     sync.Once
	connections      map[string]chan struct{}
	disconnectedChan chan string
	numPublishers    int32
	numMutex         sync.Mutex
}

func newDefaultSubscriber(topic string, msgType MessageType, callback interface{}) *defaultSubscriber {
	sub := new(defaultSubscriber)
	sub.topic = topic
	sub.msgType = msgType
	sub.msgChan = make(chan messageEvent, 10)
	sub.pubListChan = make(chan []string, 10)
	sub.addCallbackChan = make(chan interface{}, 10)
	sub.shutdownChan = make(chan struct{})
	sub.disconnectedChan = make(chan string, 10)
	sub.connections = make(map[string]chan struct{})
	sub.callbacks = []interface{}{callback}
	return sub
}

func (sub *defaultSubscriber) start(wg *sync.WaitGroup, nodeID string, nodeAPIURI string, masterURI string, jobChan chan func(), logger *logrus.Entry) {
	defer wg.Done()
	logger.Debug("Subscriber goroutine started")
	defer logger.Debug("Subscriber goroutine exit")

	for {
		select {
		case list := <-sub.pubListChan:
			sub.connectPublishers(list, nodeID, logger)
		case callback := <-sub.addCallbackChan:
			sub.callbacks = append(sub.callbacks, callback)
		case msgEvent := <-sub.msgChan:
			// Bind the callbacks now so a later addCallback does not see
			// messages received before it.
			job := sub.bindCallbacks(msgEvent, logger)
			select {
			case jobChan <- job:
			case <-sub.shutdownChan:
				sub.close(nodeID, nodeAPIURI, masterURI, logger)
				return
			}
		case pubURI := <-sub.disconnectedChan:
			logger.Debugf("Connection to %s closed", pubURI)
			if quitChan, ok := sub.connections[pubURI]; ok {
				close(quitChan)
				delete(sub.connections, pubURI)
			}
			sub.setNumPublishers(len(sub.connections))
		case <-sub.shutdownChan:
			sub.close(nodeID, nodeAPIURI, masterURI, logger)
			return
		}
	}
}

func (sub *defaultSubscriber) connectPublishers(list []string, nodeID string, logger *logrus.Entry) {
	deadPubs := setDifference(sub.pubList, list)
	newPubs := setDifference(list, sub.pubList)
	sub.pubList = list

	for _, pub := range deadPubs {
		if quitChan, ok := sub.connections[pub]; ok {
			close(quitChan)
			delete(sub.connections, pub)
		}
	}
	for _, pub := range newPubs {
		addr, err := requestTCPROS(pub, nodeID, sub.topic)
		if err != nil {
			logger.Errorf("requestTopic to %s failed: %v", pub, err)
			continue
		}
		quitChan := make(chan struct{})
		sub.connections[pub] = quitChan
		go startRemotePublisherConn(logger, pub, addr, sub.topic, sub.msgType, nodeID,
			sub.msgChan, quitChan, sub.disconnectedChan)
	}
	sub.setNumPublishers(len(sub.connections))
}

func (sub *defaultSubscriber) bindCallbacks(msgEvent messageEvent, logger *logrus.Entry) func() {
	callbacks := make([]interface{}, len(sub.callbacks))
	copy(callbacks, sub.callbacks)
	return func() {
		m := sub.msgType.NewMessage()
		if err := m.Deserialize(bytes.NewReader(msgEvent.bytes)); err != nil {
			logger.Errorf("Failed to deserialize %s: %v", sub.msgType.Name(), err)
			return
		}
		args := []reflect.Value{reflect.ValueOf(m), reflect.ValueOf(msgEvent.event)}
		for _, callback := range callbacks {
			fun := reflect.ValueOf(callback)
			fun.Call(args[0:fun.Type().NumIn()])
		}
	}
}

func (sub *defaultSubscriber) close(nodeID string, nodeAPIURI string, masterURI string, logger *logrus.Entry) {
	for _, quitChan := range sub.connections {
		close(quitChan)
	}
	sub.connections = map[string]chan struct{}{}
	sub.setNumPublishers(0)
	if _, err := callRosAPI(masterURI, "unregisterSubscriber", nodeID, sub.topic, nodeAPIURI); err != nil {
		logger.Warn(err)
	}
}

// requestTCPROS negotiates a TCPROS connection with a publisher's slave API
// and returns the address to dial.
func requestTCPROS(pubURI string, nodeID string, topic string) (string, error) {
	protocols := []interface{}{[]interface{}{"TCPROS"}}
	result, err := callRosAPI(pubURI, "requestTopic", nodeID, topic, protocols)
	if err != nil {
		return "", err
	}
	params, ok := result.([]interface{})
	if !ok || len(params) < 3 {
		return "", errors.Errorf("malformed protocol parameters %v", result)
	}
	if name, _ := params[0].(string); name != "TCPROS" {
		return "", errors.Errorf("unsupported protocol %v", params[0])
	}
	host, ok := params[1].(string)
	if !ok {
		return "", errors.Errorf("malformed TCPROS host %v", params[1])
	}
	port, ok := params[2].(int32)
	if !ok {
		return "", errors.Errorf("malformed TCPROS port %v", params[2])
	}
	return net.JoinHostPort(host, fmt.Sprint(port)), nil
}

func startRemotePublisherConn(logger *logrus.Entry,
	pubURI string, addr string, topic string, msgType MessageType, nodeID string,
	msgChan chan messageEvent,
	quitChan chan struct{},
	disconnectedChan chan string) {
	logger = logger.WithField("publisher", pubURI)
	logger.Debug("startRemotePublisherConn()")
	defer logger.Debug("startRemotePublisherConn() exit")

	conn, err := net.DialTimeout("tcp", addr, publisherDialTimeout)
	if err != nil {
		logger.Errorf("Failed to connect to %s: %v", addr, err)
		notifyDisconnected(pubURI, quitChan, disconnectedChan)
		return
	}
	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-quitChan:
			conn.Close()
		case <-done:
			conn.Close()
		}
	}()

	// 1. Write connection header
	headers := []header{
		{"topic", topic},
		{"md5sum", msgType.MD5Sum()},
		{"type", msgType.Name()},
		{"callerid", nodeID},
	}
	if err := writeConnectionHeader(headers, conn); err != nil {
		logger.Errorf("Failed to write connection header: %v", err)
		notifyDisconnected(pubURI, quitChan, disconnectedChan)
		return
	}

	// 2. Read response header
	resHeaders, err := readConnectionHeader(conn)
	if err != nil {
		logger.Errorf("Failed to read response header: %v", err)
		notifyDisconnected(pubURI, quitChan, disconnectedChan)
		return
	}
	resHeaderMap := headerMap(resHeaders)
	for k, v := range resHeaderMap {
		logger.Debugf("  `%s` = `%s`", k, v)
	}
	if msg, ok := resHeaderMap["error"]; ok {
		logger.Errorf("Publisher refused connection: %s", msg)
		notifyDisconnected(pubURI, quitChan, disconnectedChan)
		return
	}
	if resHeaderMap["type"] != msgType.Name() || !md5Compatible(resHeaderMap["md5sum"], msgType.MD5Sum()) {
		logger.Errorf("Incompatible message type: %s/%s, want %s/%s",
			resHeaderMap["type"], resHeaderMap["md5sum"], msgType.Name(), msgType.MD5Sum())
		notifyDisconnected(pubURI, quitChan, disconnectedChan)
		return
	}

	event := MessageEvent{
		PublisherName:    resHeaderMap["callerid"],
		ConnectionHeader: resHeaderMap,
	}

	// 3. Start reading messages
	for {
		buffer, err := readFrame(conn)
		if err != nil {
			select {
			case <-quitChan:
			default:
				logger.Debugf("Failed to read a message: %v", err)
				notifyDisconnected(pubURI, quitChan, disconnectedChan)
			}
			return
		}
		event.ReceiptTime = time.Now()
		select {
		case msgChan <- messageEvent{bytes: buffer, event: event}:
		case <-quitChan:
			return
		}
	}
}

func notifyDisconnected(pubURI string, quitChan chan struct{}, disconnectedChan chan string) {
	select {
	case disconnectedChan <- pubURI:
	case <-quitChan:
	}
}

func (sub *defaultSubscriber) updatePublishers(list []string) {
	select {
	case sub.pubListChan <- list:
	case <-sub.shutdownChan:
	}
}

func (sub *defaultSubscriber) addCallback(callback interface{}) {
	select {
	case sub.addCallbackChan <- callback:
	case <-sub.shutdownChan:
	}
}

func (sub *defaultSubscriber) setNumPublishers(n int) {
	sub.numMutex.Lock()
	sub.numPublishers = int32(n)
	sub.numMutex.Unlock()
}

func (sub *defaultSubscriber) Shutdown() {
	sub.shutdownOnce.Do(func() { close(sub.shutdownChan) })
}

// GetNumPublishers returns the number of connected publishers.
func (sub *defaultSubscriber) GetNumPublishers() int {
	sub.numMutex.Lock()
	defer sub.numMutex.Unlock()
	return int(sub.numPublishers)
}
