package utils

import (
	"io"
	"strings"

	"github.com/sirupsen/logrus"
)

// ConfigureLogger applies level and format ("json" or "text") to the standard logrus logger.
func ConfigureLogger(level, format string, out io.Writer) {
	lvl, err := logrus.ParseLevel(strings.TrimSpace(level))
	if err != nil {
		lvl = logrus.InfoLevel
	}
	logrus.SetLevel(lvl)
	if out != nil {
		logrus.SetOutput(out)
	}
	if strings.EqualFold(strings.TrimSpace(format), "json") {
		logrus.SetFormatter(&logrus.JSONFormatter{})
		return
	}
	logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
}

// Logger returns an entry tagged with module and request_id.
func Logger(requestID, module string) *logrus.Entry {
	return logrus.WithFields(logrus.Fields{
		"module":     strings.ToLower(module),
		"request_id": strings.TrimSpace(requestID),
	})
}

// LogEvent prints standardized log line with module/action/request_id.
// Avoid logging sensitive payload; message should be summarized.
func LogEvent(requestID, module, action, message string) {
	Logger(requestID, module).WithField("action", action).Info(message)
}

// LogWarn is LogEvent at warning level.
func LogWarn(requestID, module, action, message string) {
	Logger(requestID, module).WithField("action", action).Warn(message)
}
