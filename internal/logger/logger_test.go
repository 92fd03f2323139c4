package logger

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestLogger() (*logrus.Logger, *bytes.Buffer) {
	log := logrus.New()
	buf := &bytes.Buffer{}
	log.SetOutput(buf)
	log.SetFormatter(&logrus.JSONFormatter{})
	log.SetLevel(logrus.DebugLevel)
	return log, buf
}

func parseLogOutput(buf *bytes.Buffer) map[string]interface{} {
	var logEntry map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &logEntry); err != nil {
		return nil
	}
	return logEntry
}

func TestNewLoggerLevels(t *testing.T) {
	buf := &bytes.Buffer{}

	log := New(buf, "warn", "development")
	assert.Equal(t, logrus.WarnLevel, log.GetLevel())
	assert.IsType(t, &logrus.TextFormatter{}, log.Formatter)

	log = New(buf, "nonsense", "production")
	assert.Equal(t, logrus.InfoLevel, log.GetLevel())
	assert.IsType(t, &logrus.JSONFormatter{}, log.Formatter)
}

func TestPreviewLoggerComputed(t *testing.T) {
	log, buf := setupTestLogger()
	previewLogger := NewPreviewLogger(log)

	previewLogger.LogPreviewComputed("p-1", "http", 3, 0.05, 105, 1, true, 1500*time.Microsecond)

	logEntry := parseLogOutput(buf)
	require.NotNil(t, logEntry)
	assert.Equal(t, "preview", logEntry["component"])
	assert.Equal(t, "p-1", logEntry["preview_id"])
	assert.Equal(t, float64(3), logEntry["outcomes"])
	assert.Equal(t, true, logEntry["cache_hit"])
	assert.Equal(t, 1.5, logEntry["duration_ms"])
}

func TestPreviewLoggerRejected(t *testing.T) {
	log, buf := setupTestLogger()
	NewPreviewLogger(log).LogPreviewRejected("ws", "malformed json")

	logEntry := parseLogOutput(buf)
	require.NotNil(t, logEntry)
	assert.Equal(t, "warning", logEntry["level"])
	assert.Equal(t, "malformed json", logEntry["reason"])
}

func TestPreviewLoggerSessionClosed(t *testing.T) {
	log, buf := setupTestLogger()
	NewPreviewLogger(log).LogSessionClosed("s-1", 12, errors.New("going away"))

	logEntry := parseLogOutput(buf)
	require.NotNil(t, logEntry)
	assert.Equal(t, "session_closed", logEntry["event_type"])
	assert.Equal(t, float64(12), logEntry["messages"])
	assert.Equal(t, "going away", logEntry["error"])
}

func TestRequestLoggerLevels(t *testing.T) {
	log, buf := setupTestLogger()
	requestLogger := NewRequestLogger(log)

	requestLogger.LogRequest("r-1", "POST", "/api/v1/preview", 200, 128, time.Millisecond, "127.0.0.1")
	logEntry := parseLogOutput(buf)
	require.NotNil(t, logEntry)
	assert.Equal(t, "info", logEntry["level"])
	assert.Equal(t, "http", logEntry["component"])

	buf.Reset()
	requestLogger.LogRequest("r-2", "GET", "/ready", 503, 0, time.Millisecond, "127.0.0.1")
	logEntry = parseLogOutput(buf)
	require.NotNil(t, logEntry)
	assert.Equal(t, "error", logEntry["level"])
}

func BenchmarkPreviewLoggerComputed(b *testing.B) {
	log := logrus.New()
	log.SetOutput(&bytes.Buffer{})
	log.SetLevel(logrus.DebugLevel)
	previewLogger := NewPreviewLogger(log)

	for i := 0; i < b.N; i++ {
		previewLogger.LogPreviewComputed("p-1", "http", 3, 0.05, 105, 1, false, time.Millisecond)
	}
}
