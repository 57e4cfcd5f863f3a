package utils

import (
	"os"

	"github.com/sirupsen/logrus"
)

var logger = newLogger()

// LogFn receives every Debug line; CLI actions may replace it to change the output
var LogFn = func(service string, message string) {
	entry := logger.WithField("service", service)

	if hostname, err := os.Hostname(); err == nil {
		entry = entry.WithField("hostname", hostname)
	}

	entry.Debug(message)
}

func newLogger() *logrus.Logger {
	l := logrus.New()
	l.Out = os.Stderr
	l.Formatter = &logrus.JSONFormatter{
		FieldMap: logrus.FieldMap{
			logrus.FieldKeyTime: "time",
			logrus.FieldKeyMsg:  "message",
		},
	}
	l.Level = logrus.InfoLevel

	return l
}

// SetDebug toggles the emission of Debug lines
func SetDebug(enabled bool) {
	if enabled {
		logger.SetLevel(logrus.DebugLevel)
	} else {
		logger.SetLevel(logrus.InfoLevel)
	}
}

func Debug(service string, message string) {
	LogFn(service, message)
}
