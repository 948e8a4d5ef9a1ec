package logging

import (
	"log/slog"

	"gopkg.in/natefinch/lumberjack.v2"
)

// File log rotation limits.
const (
	fileMaxSizeMB  = 10
	fileMaxBackups = 3
	fileMaxAgeDays = 28
)

// NewFileHandler returns a JSON handler that appends to path with rotation.
// The file is created on first write. Rotated files are compressed.
func NewFileHandler(path string, level slog.Level) slog.Handler {
	sink := &lumberjack.Logger{
		Filename:   path,
		MaxSize:    fileMaxSizeMB,
		MaxBackups: fileMaxBackups,
		MaxAge:     fileMaxAgeDays,
		Compress:   true,
	}
	return slog.NewJSONHandler(sink, &slog.HandlerOptions{Level: level})
}
