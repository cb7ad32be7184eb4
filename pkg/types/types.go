// =============================================================================
// pkg/types/types.go - Core Data Types
// =============================================================================
//
// This package contains pure data types shared across the bulk-load and
// compaction packages. It has no dependencies beyond the standard library.
//
// =============================================================================

package types

// =============================================================================
// Constants
// =============================================================================

const (
	// KB is kilobytes in bytes
	KB = 1024

	// MB is megabytes in bytes
	MB = 1024 * 1024

	// GB is gigabytes in bytes
	GB = 1024 * 1024 * 1024
)

// =============================================================================
// Entry - Key-Value Pair for Batch Writes
// =============================================================================

// Entry represents a single key-value pair destined for a column family.
type Entry struct {
	Key   []byte
	Value []byte
}

// =============================================================================
// CFStats - Per-Column Family Statistics
// =============================================================================

// CFLevelStats holds per-level statistics for a column family.
// RocksDB uses levels L0-L6 for its LSM tree structure.
type CFLevelStats struct {
	Level     int   // Level number (0-6)
	FileCount int64 // Number of SST files at this level
}

// CFStats holds statistics for a single column family.
type CFStats struct {
	Name          string         // Column family name
	EstimatedKeys int64          // RocksDB's estimate of key count
	TotalSize     int64          // Total SST size in bytes
	TotalFiles    int64          // Total SST file count
	LevelStats    []CFLevelStats // Per-level breakdown (L0-L6)
}
