// Package logger provides preview-specific logging.
package logger

import (
	"time"

	"github.com/sirupsen/logrus"
)

// PreviewLogger provides dedicated logging for odds preview operations.
type PreviewLogger struct {
	*logrus.Entry
}

// NewPreviewLogger creates a new preview logger.
func NewPreviewLogger(baseLogger *logrus.Logger) *PreviewLogger {
	return &PreviewLogger{
		Entry: baseLogger.WithField("component", "preview"),
	}
}

// LogPreviewComputed logs a completed preview computation.
func (pl *PreviewLogger) LogPreviewComputed(previewID, surface string, outcomes int, margin, bookPercent float64, compressed int, cacheHit bool, duration time.Duration) {
	pl.WithFields(logrus.Fields{
		"preview_id":   previewID,
		"surface":      surface,
		"outcomes":     outcomes,
		"margin":       margin,
		"book_percent": bookPercent,
		"compressed":   compressed,
		"cache_hit":    cacheHit,
		"duration_ms":  float64(duration.Microseconds()) / 1000,
	}).Debug("Preview computed")
}

// LogPreviewRejected logs a preview request that could not be decoded.
func (pl *PreviewLogger) LogPreviewRejected(surface, reason string) {
	pl.WithFields(logrus.Fields{
		"surface": surface,
		"reason":  reason,
	}).Warn("Preview request rejected")
}

// LogSessionOpened logs a live preview connection.
func (pl *PreviewLogger) LogSessionOpened(sessionID, remoteAddr string) {
	pl.WithFields(logrus.Fields{
		"session_id":  sessionID,
		"remote_addr": remoteAddr,
		"event_type":  "session_opened",
	}).Info("Live preview session opened")
}

// LogSessionClosed logs the end of a live preview connection.
func (pl *PreviewLogger) LogSessionClosed(sessionID string, messages int, err error) {
	entry := pl.WithFields(logrus.Fields{
		"session_id": sessionID,
		"messages":   messages,
		"event_type": "session_closed",
	})
	if err != nil {
		entry = entry.WithError(err)
	}
	entry.Info("Live preview session closed")
}
