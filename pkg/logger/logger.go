// Package logger holds the process-wide structured logger. Commands call
// Init once at startup; library code imports Log directly.
package logger

import (
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

// Log is the shared logger instance. It is usable before Init (default
// settings) so tests and library code never hit a nil logger.
var Log = logrus.New()

// Init configures the shared logger from the environment:
//
//	LOG_LEVEL  - debug, info, warn, error (default info)
//	LOG_FORMAT - "json" for machine collection, anything else for text
func Init() {
	level, err := logrus.ParseLevel(os.Getenv("LOG_LEVEL"))
	if err != nil {
		level = logrus.InfoLevel
	}
	Log.SetLevel(level)

	if strings.EqualFold(os.Getenv("LOG_FORMAT"), "json") {
		Log.SetFormatter(&logrus.JSONFormatter{})
	} else {
		Log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}
	Log.SetOutput(os.Stdout)
}
