// Package logger provides centralized logging for tuistrun.
// Output goes to stderr so stdout stays reserved for rendered results.
package logger

import (
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/log"
)

// Logger is the global logger instance used throughout tuistrun.
var Logger *log.Logger

func init() {
	Logger = newLogger(os.Stderr, log.WarnLevel)
}

func newLogger(w io.Writer, level log.Level) *log.Logger {
	l := log.NewWithOptions(w, log.Options{Prefix: "tuistrun"})
	l.SetTimeFormat("")
	l.SetLevel(level)
	return l
}

// Configure replaces the global logger with one writing to w at the named level.
// Unknown level names fall back to warn.
func Configure(w io.Writer, level string) {
	if w == nil {
		w = os.Stderr
	}
	Logger = newLogger(w, ParseLevel(level))
}

// ParseLevel converts a level name to a log level.
func ParseLevel(level string) log.Level {
	switch strings.ToLower(level) {
	case "debug":
		return log.DebugLevel
	case "info":
		return log.InfoLevel
	case "error":
		return log.ErrorLevel
	default:
		return log.WarnLevel
	}
}

// Debug logs a debug message with optional key-value pairs.
func Debug(msg interface{}, keyvals ...interface{}) {
	Logger.Debug(msg, keyvals...)
}

// Info logs an info message with optional key-value pairs.
func Info(msg interface{}, keyvals ...interface{}) {
	Logger.Info(msg, keyvals...)
}

// Warn logs a warning message with optional key-value pairs.
func Warn(msg interface{}, keyvals ...interface{}) {
	Logger.Warn(msg, keyvals...)
}

// Error logs an error message with optional key-value pairs.
func Error(msg interface{}, keyvals ...interface{}) {
	Logger.Error(msg, keyvals...)
}
