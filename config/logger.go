package config

import (
	"io"

	"github.com/sirupsen/logrus"
)

// NewLogger returns a JSON logger. Unknown levels fall back to info.
func NewLogger(level string, out io.Writer) *logrus.Logger {
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})
	logger.SetOutput(out)

	parsed, err := logrus.ParseLevel(level)
	if err != nil {
		logger.WithField("level", level).Warn("unknown log level, using info")
		parsed = logrus.InfoLevel
	}
	logger.SetLevel(parsed)
	return logger
}
