// Package log configures the process-wide structured logger.
package log

import (
	"log/slog"
	"sync"

	"gopkg.in/natefinch/lumberjack.v2"
)

var initOnce sync.Once

// Setup installs a rotating JSON logger as the slog default. Safe to
// call more than once; only the first call takes effect.
func Setup(logFile string, verbose bool) {
	initOnce.Do(func() {
		rotator := &lumberjack.Logger{
			Filename:   logFile,
			MaxSize:    10, // MB
			MaxBackups: 3,
			MaxAge:     30, // days
		}

		level := slog.LevelInfo
		if verbose {
			level = slog.LevelDebug
		}

		handler := slog.NewJSONHandler(rotator, &slog.HandlerOptions{
			Level: level,
		})

		slog.SetDefault(slog.New(handler))
	})
}
