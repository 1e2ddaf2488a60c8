package main

import (
	"fmt"
	"io"
	"net"
	"net/http"
	"time"

	"github.com/fatih/color"
	"github.com/gemsim/boundcheck/validate"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
)

var (
	passColor = color.New(color.FgGreen, color.Bold)
	failColor = color.New(color.FgRed, color.Bold)
)

// runCheck runs one validation and prints its verdict to out.
func runCheck(out io.Writer, cfg *config, rosArgs []string) error {
	if cfg.NoColor {
		color.NoColor = true
	}
	level, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		return errors.Wrap(err, "log level")
	}

	node, err := newNode(cfg.Node, rosArgs)
	if err != nil {
		return errors.Wrap(err, "start node")
	}
	defer node.Shutdown()
	logger := node.Logger()
	logger.Logger.SetLevel(level)
	go node.Spin()

	registry := prometheus.NewRegistry()
	metrics := validate.NewMetrics(registry)
	if cfg.MetricsAddr != "" {
		listener, err := net.Listen("tcp", cfg.MetricsAddr)
		if err != nil {
			return errors.Wrapf(err, "listen for metrics on %s", cfg.MetricsAddr)
		}
		server := serveMetrics(listener, registry, logger)
		defer server.Close()
	}

	v := &validate.Validator{
		PollInterval: cfg.PollInterval,
		Metrics:      metrics,
		Logger:       logger,
	}
	if cfg.Service != "" {
		v.Probe = &validate.ServiceProbe{
			Node:    node,
			Service: cfg.Service,
			Model:   cfg.Model,
			Timeout: cfg.ServiceTimeout,
		}
	}

	report, err := v.Run(cfg.Duration, cfg.Bound, &validate.TopicSource{Node: node, Topic: cfg.Topic})
	if err != nil {
		failColor.Fprint(out, "FAIL")
		fmt.Fprintf(out, " %s: %v\n", cfg.Topic, err)
		return err
	}
	passColor.Fprint(out, "PASS")
	fmt.Fprintf(out, " %s: %d samples in %v, max |v| %v <= %v\n",
		report.Source, report.Samples, report.Elapsed.Round(time.Millisecond), report.MaxAbs, report.Bound)
	return nil
}

// serveMetrics exposes registry on listener until the returned server is
// closed.
func serveMetrics(listener net.Listener, registry *prometheus.Registry, logger *logrus.Entry) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
	server := &http.Server{Handler: mux}
	go func() {
		if err := server.Serve(listener); err != nil && err != http.ErrServerClosed {
			logger.Errorf("Metrics server stopped: %v", err)
		}
	}()
	logger.Infof("Serving metrics on http://%s/metrics", listener.Addr())
	return server
}
