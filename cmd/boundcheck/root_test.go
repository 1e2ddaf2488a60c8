package main

import (
	"bytes"
	"io"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/fatih/color"
	"github.com/gemsim/boundcheck/msgs/std_msgs"
	"github.com/gemsim/boundcheck/ros"
	"github.com/gemsim/boundcheck/validate"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubNode publishes a fixed trace as soon as a topic is subscribed.
type stubNode struct {
	ros.Node

	values   []float32
	logger   *logrus.Entry
	args     []string
	name     string
	topics   []string
	services []string
	shutdown bool
}

func (n *stubNode) Logger() *logrus.Entry { return n.logger }
func (n *stubNode) Spin()                 {}
func (n *stubNode) Shutdown()             { n.shutdown = true }

func (n *stubNode) NewSubscriber(topic string, msgType ros.MessageType, callback interface{}) (ros.Subscriber, error) {
	n.topics = append(n.topics, topic)
	cb := callback.(func(*std_msgs.Float32))
	for _, v := range n.values {
		cb(&std_msgs.Float32{Data: v})
	}
	return nil, nil
}

func (n *stubNode) RemoveSubscriber(string) {}

func (n *stubNode) WaitForService(service string, _ time.Duration) error {
	n.services = append(n.services, service)
	return nil
}

func (n *stubNode) NewServiceClient(string, ros.ServiceType) ros.ServiceClient {
	return stubClient{}
}

type stubClient struct{}

func (stubClient) Call(ros.Service) error { return nil }
func (stubClient) Shutdown()              {}

func useStubNode(t *testing.T, values ...float32) *stubNode {
	t.Helper()
	logger, _ := test.NewNullLogger()
	node := &stubNode{values: values, logger: logrus.NewEntry(logger)}
	orig := newNode
	newNode = func(name string, args []string) (ros.Node, error) {
		node.name = name
		node.args = args
		return node, nil
	}
	t.Cleanup(func() { newNode = orig })
	color.NoColor = true
	// Keep a config file in the working directory from leaking in.
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(t.TempDir()))
	t.Cleanup(func() { _ = os.Chdir(wd) })
	return node
}

func execute(args ...string) (string, error) {
	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(io.Discard)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestCheckPasses(t *testing.T) {
	node := useStubNode(t, 0.2, -0.5)

	out, err := execute("--duration", "50ms", "--poll-interval", "10ms", "--model", "", "__master:=http://localhost:11311")
	require.NoError(t, err)

	assert.Contains(t, out, "PASS /gem/ct_error: 2 samples")
	assert.Equal(t, "/boundcheck", node.name)
	assert.Equal(t, []string{"__master:=http://localhost:11311"}, node.args)
	assert.Equal(t, []string{"/gem/ct_error"}, node.topics)
	assert.Equal(t, []string{"/gazebo/get_model_state"}, node.services)
	assert.True(t, node.shutdown)
}

func TestCheckFails(t *testing.T) {
	tests := []struct {
		name    string
		values  []float32
		args    []string
		wantOut string
		check   func(t *testing.T, err error)
	}{
		{
			name:    "bound exceeded",
			values:  []float32{0.25, -1.5},
			wantOut: "FAIL /gem/ct_error: maximum magnitude 1.5 exceeded bound 1",
			check: func(t *testing.T, err error) {
				var exceeded *validate.ThresholdExceededError
				assert.ErrorAs(t, err, &exceeded)
			},
		},
		{
			name:    "no samples",
			wantOut: "FAIL /gem/ct_error: no samples received from /gem/ct_error",
			check: func(t *testing.T, err error) {
				var noSamples *validate.NoSamplesError
				assert.ErrorAs(t, err, &noSamples)
			},
		},
		{
			name:   "tighter bound flag",
			values: []float32{0.5},
			args:   []string{"--bound", "0.25"},
			check: func(t *testing.T, err error) {
				var exceeded *validate.ThresholdExceededError
				require.ErrorAs(t, err, &exceeded)
				assert.Equal(t, 0.25, exceeded.Bound)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			useStubNode(t, tt.values...)
			args := append([]string{"--duration", "30ms", "--poll-interval", "10ms", "--service", ""}, tt.args...)
			out, err := execute(args...)
			require.Error(t, err)
			if tt.wantOut != "" {
				assert.Contains(t, out, tt.wantOut)
			}
			tt.check(t, err)
		})
	}
}

func TestCheckSkipsProbeWithoutService(t *testing.T) {
	node := useStubNode(t, 0.1)
	_, err := execute("--duration", "20ms", "--service", "")
	require.NoError(t, err)
	assert.Empty(t, node.services)
}

func TestConfigFromEnvironment(t *testing.T) {
	useStubNode(t, 1.5)
	t.Setenv("BOUNDCHECK_BOUND", "2")
	t.Setenv("BOUNDCHECK_DURATION", "20ms")
	t.Setenv("BOUNDCHECK_SERVICE", "")

	out, err := execute()
	require.NoError(t, err)
	assert.Contains(t, out, "PASS")
}

func TestConfigFile(t *testing.T) {
	node := useStubNode(t, 0.5)
	path := filepath.Join(t.TempDir(), "check.yaml")
	content := "topic: /other/error\nbound: 0.1\nduration: 20ms\nservice: \"\"\nnode: /checker\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	out, err := execute("--config", path)
	require.Error(t, err)
	assert.Contains(t, out, "FAIL /other/error")
	assert.Equal(t, "/checker", node.name)
}

func TestConfigErrors(t *testing.T) {
	useStubNode(t)

	_, err := execute("--topic", "")
	assert.EqualError(t, err, "topic must not be empty")

	_, err = execute("--log-level", "loud", "--service", "")
	assert.ErrorContains(t, err, "log level")

	_, err = execute("--config", filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorContains(t, err, "error reading config file")
}

func TestVersion(t *testing.T) {
	out, err := execute("version")
	require.NoError(t, err)
	assert.Contains(t, out, "boundcheck dev")
}

func TestServeMetrics(t *testing.T) {
	registry := prometheus.NewRegistry()
	metrics := validate.NewMetrics(registry)
	metrics.SamplesTotal.WithLabelValues("/gem/ct_error").Add(3)

	listener, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	logger, _ := test.NewNullLogger()
	server := serveMetrics(listener, registry, logrus.NewEntry(logger))
	defer server.Close()

	res, err := http.Get("http://" + listener.Addr().String() + "/metrics")
	require.NoError(t, err)
	defer res.Body.Close()
	body, err := io.ReadAll(res.Body)
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, res.StatusCode)
	assert.Contains(t, string(body), `boundcheck_samples_total{source="/gem/ct_error"} 3`)
}
