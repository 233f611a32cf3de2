// Package logging configures the process-wide logrus logger.
package logging

import (
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

// Initialize configures the standard logrus logger and returns it.
// Unknown levels fall back to info; format is one of text, json or discard.
func Initialize(level, format string) *logrus.Logger {
	log := logrus.StandardLogger()
	Configure(log, level, format)
	return log
}

// Configure applies level and format to log.
func Configure(log *logrus.Logger, level, format string) {
	lvl, err := logrus.ParseLevel(strings.ToLower(level))
	if err != nil {
		lvl = logrus.InfoLevel
	}
	log.SetLevel(lvl)

	switch strings.ToLower(format) {
	case "json":
		log.SetFormatter(&logrus.JSONFormatter{})
		log.SetOutput(os.Stderr)
	case "discard":
		log.SetOutput(io.Discard)
	default:
		log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
		log.SetOutput(os.Stderr)
	}
}
