// =============================================================================
// pkg/compact/errors.go - Typed Compaction Errors
// =============================================================================

package compact

import "fmt"

// WALRemovalError reports a filesystem failure during the empty-WAL sweep.
// The sweep aborts on the first failure, so some empty WAL files may remain.
type WALRemovalError struct {
	// Dir is the database directory that was being swept.
	Dir string

	// Err is the underlying filesystem error.
	Err error
}

func (e *WALRemovalError) Error() string {
	return fmt.Sprintf("problem with directory access/manipulation in WAL removal in %s: %v", e.Dir, e.Err)
}

func (e *WALRemovalError) Unwrap() error { return e.Err }
