package ros

import (
	"os"

	"github.com/sirupsen/logrus"
)

// LogLevelEnv selects the level of loggers created by NewDefaultLogger.
const LogLevelEnv = "ROSGO_LOG_LEVEL"

// NewDefaultLogger returns a logger entry tagged with the node name. The level
// is read from ROSGO_LOG_LEVEL and defaults to info.
func NewDefaultLogger(nodeName string) *logrus.Entry {
	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	logger.SetLevel(logrus.InfoLevel)
	if s, ok := os.LookupEnv(LogLevelEnv); ok {
		if level, err := logrus.ParseLevel(s); err == nil {
			logger.SetLevel(level)
		} else {
			logger.Warnf("ignoring %s=%q: %v", LogLevelEnv, s, err)
		}
	}
	return logger.WithField("node", nodeName)
}
