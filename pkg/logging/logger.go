// =============================================================================
// pkg/logging/logger.go - Logger Implementations
// =============================================================================
//
// This package provides two implementations of the interfaces.Logger used by
// the compaction and bulk-load tools:
//
//   - DualLogger: writes informational messages to a log file and errors to a
//     separate error file (errors are duplicated into the log file so the log
//     remains a complete timeline).
//   - ConsoleLogger: writes to stdout/stderr; used by the CLI tools when no
//     log file is configured.
//
// SCOPED LOGGING:
//   Loggers can be scoped with a prefix using WithScope(). This creates a
//   child logger that prefixes all messages with the scope name, e.g.:
//
//     logger, _ := logging.NewDualLogger("compact.log", "compact-error.log")
//     waitLog := logger.WithScope("WAIT")
//     waitLog.Info("still waiting") // → [2006-01-02 15:04:05.000] [WAIT] still waiting
//
// =============================================================================

package logging

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/karthikiyer56/rocksdb-bulk-utils/pkg/interfaces"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// SeparatorLine is the visual separator used in logs
	SeparatorLine = "========================================================================="

	// TimeFormat is the timestamp format for log messages
	TimeFormat = "2006-01-02 15:04:05.000"
)

// =============================================================================
// DualLogger Implementation
// =============================================================================

// DualLogger implements the Logger interface with separate log and error files.
type DualLogger struct {
	mu        sync.Mutex
	logFile   *os.File
	errorFile *os.File
}

// NewDualLogger creates a new DualLogger that writes to the specified files.
// If the files exist, they are truncated.
func NewDualLogger(logPath, errorPath string) (*DualLogger, error) {
	logFile, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file %s: %w", logPath, err)
	}

	errorFile, err := os.OpenFile(errorPath, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0644)
	if err != nil {
		logFile.Close()
		return nil, fmt.Errorf("failed to open error file %s: %w", errorPath, err)
	}

	return &DualLogger{
		logFile:   logFile,
		errorFile: errorFile,
	}, nil
}

// WithScope creates a scoped logger that prefixes all messages with the scope
// name. The returned logger shares the underlying files with its parent.
func (l *DualLogger) WithScope(scope string) interfaces.Logger {
	return &ScopedLogger{parent: l, scope: scope}
}

// Info logs an informational message to the log file.
func (l *DualLogger) Info(format string, args ...interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()

	timestamp := time.Now().Format(TimeFormat)
	msg := fmt.Sprintf(format, args...)
	fmt.Fprintf(l.logFile, "[%s] %s\n", timestamp, msg)
}

// Error logs an error message to both the error file and log file.
func (l *DualLogger) Error(format string, args ...interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()

	timestamp := time.Now().Format(TimeFormat)
	msg := fmt.Sprintf(format, args...)

	fmt.Fprintf(l.errorFile, "[%s] ERROR: %s\n", timestamp, msg)
	fmt.Fprintf(l.logFile, "[%s] ERROR: %s\n", timestamp, msg)
}

// Separator logs a visual separator line to the log file.
func (l *DualLogger) Separator() {
	l.mu.Lock()
	defer l.mu.Unlock()

	fmt.Fprintln(l.logFile, SeparatorLine)
}

// Sync forces a flush of all log data to disk.
func (l *DualLogger) Sync() {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.logFile.Sync()
	l.errorFile.Sync()
}

// Close closes all log files after syncing.
func (l *DualLogger) Close() {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.logFile != nil {
		l.logFile.Sync()
		l.logFile.Close()
		l.logFile = nil
	}

	if l.errorFile != nil {
		l.errorFile.Sync()
		l.errorFile.Close()
		l.errorFile = nil
	}
}

// =============================================================================
// ScopedLogger - Logger with a Prefix
// =============================================================================

// ScopedLogger wraps a DualLogger and prefixes all messages with a scope name.
//
// ScopedLogger shares the underlying files with its parent DualLogger.
// Closing the parent will close the files; do not close ScopedLogger directly.
type ScopedLogger struct {
	parent *DualLogger
	scope  string
}

// WithScope creates a nested scoped logger.
// The scopes are combined: parent.WithScope("A").WithScope("B") → [A:B]
func (l *ScopedLogger) WithScope(scope string) interfaces.Logger {
	return &ScopedLogger{
		parent: l.parent,
		scope:  l.scope + ":" + scope,
	}
}

// Info logs an informational message with the scope prefix.
func (l *ScopedLogger) Info(format string, args ...interface{}) {
	l.parent.mu.Lock()
	defer l.parent.mu.Unlock()

	timestamp := time.Now().Format(TimeFormat)
	msg := fmt.Sprintf(format, args...)
	fmt.Fprintf(l.parent.logFile, "[%s] [%s] %s\n", timestamp, l.scope, msg)
}

// Error logs an error message with the scope prefix.
func (l *ScopedLogger) Error(format string, args ...interface{}) {
	l.parent.mu.Lock()
	defer l.parent.mu.Unlock()

	timestamp := time.Now().Format(TimeFormat)
	msg := fmt.Sprintf(format, args...)

	fmt.Fprintf(l.parent.errorFile, "[%s] [%s] ERROR: %s\n", timestamp, l.scope, msg)
	fmt.Fprintf(l.parent.logFile, "[%s] [%s] ERROR: %s\n", timestamp, l.scope, msg)
}

// Separator logs a visual separator line (no scope prefix for separators).
func (l *ScopedLogger) Separator() {
	l.parent.mu.Lock()
	defer l.parent.mu.Unlock()

	fmt.Fprintln(l.parent.logFile, SeparatorLine)
}

// Sync forces a flush of all log data to disk.
func (l *ScopedLogger) Sync() {
	l.parent.Sync()
}

// Close is a no-op for ScopedLogger. Close the parent DualLogger instead.
func (l *ScopedLogger) Close() {
	// No-op: ScopedLogger does not own the files
}

// =============================================================================
// ConsoleLogger - Logger for Interactive Tool Runs
// =============================================================================

// ConsoleLogger writes informational messages to stdout and errors to stderr.
type ConsoleLogger struct {
	mu  sync.Mutex
	out io.Writer
	err io.Writer
}

// NewConsoleLogger creates a ConsoleLogger writing to stdout/stderr.
func NewConsoleLogger() *ConsoleLogger {
	return &ConsoleLogger{out: os.Stdout, err: os.Stderr}
}

// NewWriterLogger creates a ConsoleLogger writing to the given writers.
func NewWriterLogger(out, errOut io.Writer) *ConsoleLogger {
	return &ConsoleLogger{out: out, err: errOut}
}

// Info logs an informational message to stdout.
func (l *ConsoleLogger) Info(format string, args ...interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()

	timestamp := time.Now().Format(TimeFormat)
	fmt.Fprintf(l.out, "[%s] %s\n", timestamp, fmt.Sprintf(format, args...))
}

// Error logs an error message to stderr.
func (l *ConsoleLogger) Error(format string, args ...interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()

	timestamp := time.Now().Format(TimeFormat)
	fmt.Fprintf(l.err, "[%s] ERROR: %s\n", timestamp, fmt.Sprintf(format, args...))
}

// Separator logs a visual separator line to stdout.
func (l *ConsoleLogger) Separator() {
	l.mu.Lock()
	defer l.mu.Unlock()

	fmt.Fprintln(l.out, SeparatorLine)
}

// Sync is a no-op: stdout/stderr are not buffered by this logger.
func (l *ConsoleLogger) Sync() {}

// Close is a no-op: the process owns stdout/stderr.
func (l *ConsoleLogger) Close() {}

// Compile-Time Interface Checks
var _ interfaces.Logger = (*DualLogger)(nil)
var _ interfaces.Logger = (*ScopedLogger)(nil)
var _ interfaces.Logger = (*ConsoleLogger)(nil)
