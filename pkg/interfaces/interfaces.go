// =============================================================================
// pkg/interfaces/interfaces.go - Core Interfaces
// =============================================================================
//
// This package defines the interfaces shared across the bulk-load and
// compaction packages. By coding to interfaces, the library stays testable
// (mock loggers can be injected) and keeps the progress-notification sink
// under the caller's control.
//
// =============================================================================

package interfaces

// =============================================================================
// Logger Interface
// =============================================================================

// Logger defines the interface for logging operations.
//
// The compaction wait loop and the bulk loader emit progress through this
// interface; a nil Logger disables progress output entirely.
type Logger interface {
	// Info logs an informational message to the log file.
	Info(format string, args ...interface{})

	// Error logs an error message to the error file.
	Error(format string, args ...interface{})

	// Separator logs a visual separator line to the log file.
	Separator()

	// Sync forces a flush of all log buffers to disk.
	Sync()

	// Close closes all log files.
	Close()
}
