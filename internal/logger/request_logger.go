// Package logger provides HTTP request logging.
package logger

import (
	"time"

	"github.com/sirupsen/logrus"
)

// RequestLogger records one entry per served HTTP request.
type RequestLogger struct {
	*logrus.Entry
}

// NewRequestLogger creates a new request logger.
func NewRequestLogger(baseLogger *logrus.Logger) *RequestLogger {
	return &RequestLogger{
		Entry: baseLogger.WithField("component", "http"),
	}
}

// LogRequest logs a served request. Server errors are logged at error level.
func (rl *RequestLogger) LogRequest(requestID, method, path string, status, bytes int, duration time.Duration, remoteAddr string) {
	entry := rl.WithFields(logrus.Fields{
		"request_id":  requestID,
		"method":      method,
		"path":        path,
		"status":      status,
		"bytes":       bytes,
		"duration_ms": float64(duration.Microseconds()) / 1000,
		"remote_addr": remoteAddr,
	})
	if status >= 500 {
		entry.Error("Request failed")
		return
	}
	entry.Info("Request served")
}
