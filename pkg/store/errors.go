// =============================================================================
// pkg/store/errors.go - Typed Store Errors
// =============================================================================

package store

import "fmt"

// OpenError reports a failure to enumerate or open a RocksDB database at a
// filesystem path.
type OpenError struct {
	// Path is the database path that failed to open.
	Path string

	// Err is the underlying engine error.
	Err error
}

func (e *OpenError) Error() string {
	return fmt.Sprintf("problem opening RocksDB at %s: %v", e.Path, e.Err)
}

func (e *OpenError) Unwrap() error { return e.Err }

// ColumnFamilyError reports that a requested column family name could not be
// resolved against the open database. Column families are never created
// implicitly by lookup.
type ColumnFamilyError struct {
	// Name is the column family name that failed to resolve.
	Name string
}

func (e *ColumnFamilyError) Error() string {
	return fmt.Sprintf("problem accessing RocksDB column family: %s", e.Name)
}

// PropertyAccessError reports a failure while querying a RocksDB property
// (the engine returned a value that could not be interpreted).
type PropertyAccessError struct {
	// Name is the property that was queried.
	Name string

	// Err is the underlying failure.
	Err error
}

func (e *PropertyAccessError) Error() string {
	return fmt.Sprintf("problem accessing RocksDB property %s: %v", e.Name, e.Err)
}

func (e *PropertyAccessError) Unwrap() error { return e.Err }

// PropertyNotSetError reports that the engine returned no value for a
// property it is expected to expose.
type PropertyNotSetError struct {
	// Name is the property that was queried.
	Name string
}

func (e *PropertyNotSetError) Error() string {
	return fmt.Sprintf("RocksDB property %s was not set", e.Name)
}
