package logger

import (
	"sync"
)

// Log levels accepted from configuration.
const (
	DebugLevel = "debug"
	InfoLevel  = "info"
	WarnLevel  = "warn"
	ErrorLevel = "error"
)

var (
	globalLogger *Logger
	once         sync.Once
)

// Get returns the process-wide logger, initialized with the provided level on
// first use. Subsequent calls ignore the level and return the same instance.
func Get(level string) *Logger {
	once.Do(func() {
		globalLogger = newZapLogger(level)
	})
	return globalLogger
}

// Nop returns a logger that discards everything. Meant for tests that do not
// want the singleton.
func Nop() *Logger {
	return newNopLogger()
}
