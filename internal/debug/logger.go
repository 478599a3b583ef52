// Package debug provides the library's debug logging on top of log/slog.
// Logging is disabled until Init(true) or SetLogger is called.
package debug

import (
	"io"
	"log/slog"
	"os"
	"sync"
)

var (
	logger  = slog.New(slog.NewTextHandler(io.Discard, nil))
	enabled bool
	mu      sync.RWMutex
)

// Init enables or disables debug output to os.Stderr.
func Init(enable bool) {
	mu.Lock()
	defer mu.Unlock()

	enabled = enable
	if enable {
		logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
		return
	}
	logger = slog.New(slog.NewTextHandler(io.Discard, nil))
}

// SetLogger routes debug output to l. A nil logger disables output.
func SetLogger(l *slog.Logger) {
	mu.Lock()
	defer mu.Unlock()

	if l == nil {
		enabled = false
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
		return
	}
	enabled = true
	logger = l
}

// Enabled reports whether debug logging is on.
func Enabled() bool {
	mu.RLock()
	defer mu.RUnlock()
	return enabled
}

// Debug logs a debug message.
func Debug(msg string, args ...any) {
	mu.RLock()
	l, on := logger, enabled
	mu.RUnlock()
	if on {
		l.Debug(msg, args...)
	}
}

// Logger returns the current logger.
func Logger() *slog.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return logger
}
