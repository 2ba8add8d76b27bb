package logging

import (
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

// GetLogger builds the process logger. The format is "text" unless LOG_FORMAT
// says "json".
func GetLogger(level string) *logrus.Logger {
	return New(level, os.Getenv("LOG_FORMAT"), os.Stderr)
}

func New(level, format string, out io.Writer) *logrus.Logger {
	log := logrus.New()
	log.SetOutput(out)

	if strings.EqualFold(format, "json") {
		log.SetFormatter(&logrus.JSONFormatter{})
	} else {
		log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}

	switch strings.ToLower(level) {
	case "trace":
		log.SetLevel(logrus.TraceLevel)
	case "debug":
		log.SetLevel(logrus.DebugLevel)
	case "info", "":
		log.SetLevel(logrus.InfoLevel)
	case "warn", "warning":
		log.SetLevel(logrus.WarnLevel)
	case "error":
		log.SetLevel(logrus.ErrorLevel)
	case "fatal":
		log.SetLevel(logrus.FatalLevel)
	case "panic":
		log.SetLevel(logrus.PanicLevel)
	default:
		log.SetLevel(logrus.InfoLevel)
		log.Warnf("Invalid log level '%s', defaulting to 'info'", level)
	}

	return log
}

// Discard returns a logger that swallows everything, for tests and CLI dry runs.
func Discard() *logrus.Logger {
	return New("panic", "", io.Discard)
}
