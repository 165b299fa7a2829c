package helpers

import (
	"os"
	"time"

	"github.com/sirupsen/logrus"
)

// NewLogger builds the process-wide logrus logger. Production and staging
// emit JSON at info level for log shipping; anything else is treated as a
// developer machine and gets readable text at debug.
func NewLogger(appName, env string) *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(os.Stdout)
	switch env {
	case "production", "staging":
		logger.SetLevel(logrus.InfoLevel)
		logger.SetFormatter(&logrus.JSONFormatter{TimestampFormat: time.RFC3339Nano})
	default:
		logger.SetLevel(logrus.DebugLevel)
		logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}
	logger.WithFields(logrus.Fields{"app": appName, "env": env}).Info("logger ready")
	return logger
}
