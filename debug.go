// Package main - debug.go
//
// Centralized logging for the clicker.
//
// Logging System:
//   - Thread-safe file logging to Debug.log
//   - Four log levels: DEBUG, INFO, WARN, ERROR
//   - Microsecond timestamps for performance analysis
//   - File is truncated (cleared) on each startup
//   - INFO and above are mirrored to stdout, since they carry the user
//     notifications (paused/resumed, replay limit, window lost)
//   - Global logger instance accessible via convenience functions
//
// Logging Best Practices:
//   - DEBUG: Detailed operation info (click coordinates, timing)
//   - INFO: Important events (startup, pause state changes, replays)
//   - WARN: Non-critical issues (cookie load failure, config fallback)
//   - ERROR: Terminal problems (window lost, replay limit)
package main

import (
	"fmt"
	"io"
	"log"
	"os"
	"sync"
)

// Logger provides thread-safe logging to Debug.log and the console.
type Logger struct {
	file    *os.File
	logger  *log.Logger
	console *log.Logger
	closed  bool
	mu      sync.Mutex
}

var globalLogger *Logger

// InitLogger initializes the global logger to write to the given file.
// The log file is truncated (cleared) on each startup.
func InitLogger(path string) error {
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0666)
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}

	globalLogger = newLogger(file, os.Stdout)
	globalLogger.file = file
	globalLogger.Debug("Logger initialized (log file cleared)")
	return nil
}

func newLogger(out io.Writer, console io.Writer) *Logger {
	l := &Logger{
		logger: log.New(out, "", log.LstdFlags|log.Lmicroseconds),
	}
	if console != nil {
		l.console = log.New(console, "", log.Ltime)
	}
	return l
}

// CloseLogger closes the log file
func CloseLogger() {
	if globalLogger != nil {
		globalLogger.Close()
	}
}

// Close stops file output and closes the log file. Console output continues.
func (l *Logger) Close() {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.closed {
		return
	}
	l.logger.Printf("[DEBUG] Logger closing")
	l.closed = true
	if l.file != nil {
		l.file.Close()
		l.file = nil
	}
}

func (l *Logger) write(level string, echo bool, format string, v ...interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if !l.closed {
		l.logger.Printf("["+level+"] "+format, v...)
	}
	if echo && l.console != nil {
		l.console.Printf(format, v...)
	}
}

// Debug logs debug level messages (file only)
func (l *Logger) Debug(format string, v ...interface{}) {
	l.write("DEBUG", false, format, v...)
}

// Info logs info level messages
func (l *Logger) Info(format string, v ...interface{}) {
	l.write("INFO", true, format, v...)
}

// Warn logs warning level messages
func (l *Logger) Warn(format string, v ...interface{}) {
	l.write("WARN", true, format, v...)
}

// Error logs error level messages
func (l *Logger) Error(format string, v ...interface{}) {
	l.write("ERROR", true, format, v...)
}

// LogDebug is a convenience function for debug logging
func LogDebug(format string, v ...interface{}) {
	if globalLogger != nil {
		globalLogger.Debug(format, v...)
	}
}

// LogInfo is a convenience function for info logging
func LogInfo(format string, v ...interface{}) {
	if globalLogger != nil {
		globalLogger.Info(format, v...)
	}
}

// LogWarn is a convenience function for warning logging
func LogWarn(format string, v ...interface{}) {
	if globalLogger != nil {
		globalLogger.Warn(format, v...)
	}
}

// LogError is a convenience function for error logging
func LogError(format string, v ...interface{}) {
	if globalLogger != nil {
		globalLogger.Error(format, v...)
	}
}
