// =============================================================================
// pkg/store/store.go - RocksDB Store Wrapper
// =============================================================================
//
// This package wraps a grocksdb.DB together with the column family handles
// that were resolved at open time. grocksdb only hands out column family
// handles when the database is opened, so name->handle resolution for the
// compaction and metadata packages lives here.
//
// OWNERSHIP:
//
//	The Store owns the handles, read/write options and the DB it opened.
//	It does NOT own the *grocksdb.Options passed to Open; the caller created
//	those and remains responsible for destroying them after Close.
//
// THREAD SAFETY:
//
//	All public methods are safe for concurrent use. RocksDB handles internal
//	locking; the Store's mutex only guards its own handle bookkeeping.
//
// =============================================================================

package store

import (
	"strconv"
	"strings"
	"sync"

	"github.com/linxGnu/grocksdb"
	"github.com/pkg/errors"

	"github.com/karthikiyer56/rocksdb-bulk-utils/helpers"
	"github.com/karthikiyer56/rocksdb-bulk-utils/pkg/interfaces"
	"github.com/karthikiyer56/rocksdb-bulk-utils/pkg/types"
)

// =============================================================================
// Property Name Constants
// =============================================================================

const (
	// PropCompactionPending is the aggregate "is a compaction pending" counter.
	PropCompactionPending = "rocksdb.compaction-pending"

	// PropNumRunningCompactions is the aggregate running-compaction counter.
	PropNumRunningCompactions = "rocksdb.num-running-compactions"

	// PropEstimateNumKeys is the estimated key count for a column family.
	PropEstimateNumKeys = "rocksdb.estimate-num-keys"

	// PropTotalSSTFilesSize is the total SST size for a column family.
	PropTotalSSTFilesSize = "rocksdb.total-sst-files-size"
)

// =============================================================================
// Store - Database Handle plus Column Family Directory
// =============================================================================

// Store is an open RocksDB database together with the handles of every
// column family it was opened with.
type Store struct {
	mu sync.RWMutex

	// db is the RocksDB database instance
	db *grocksdb.DB

	// cfNames holds the column family names in open order
	cfNames []string

	// cfHandles holds the column family handles, parallel to cfNames
	cfHandles []*grocksdb.ColumnFamilyHandle

	// cfIndexMap maps CF name to index in cfHandles
	cfIndexMap map[string]int

	// writeOpts is the shared write options for all writes
	writeOpts *grocksdb.WriteOptions

	// readOpts is the shared read options for all reads
	readOpts *grocksdb.ReadOptions

	// path is the filesystem path to the database
	path string
}

// Open enumerates every column family persisted at path and opens the
// database with all of them, applying the same options to the database and
// to each column family.
//
// A failure to list or open is reported as *OpenError wrapping the engine
// error. The path must already contain a database unless opts has
// create-if-missing set.
func Open(path string, opts *grocksdb.Options) (*Store, error) {
	cfNames, err := grocksdb.ListColumnFamilies(opts, path)
	if err != nil {
		// A fresh directory has no CF manifest yet. Fall back to the
		// mandatory default CF; if the database genuinely cannot be opened
		// (missing and create-if-missing unset) the open below reports it.
		cfNames = []string{"default"}
	}

	return openColumnFamilies(path, opts, cfNames, false)
}

// OpenForReadOnly opens the database at path in read-only mode with every
// persisted column family. Write methods on the returned Store fail at the
// engine level.
func OpenForReadOnly(path string, opts *grocksdb.Options) (*Store, error) {
	cfNames, err := grocksdb.ListColumnFamilies(opts, path)
	if err != nil {
		return nil, &OpenError{Path: path, Err: err}
	}

	return openColumnFamilies(path, opts, cfNames, true)
}

// OpenColumnFamilies opens the database at path with exactly the given
// column family names. Names missing on disk are created when opts has
// create-missing-column-families set, otherwise the open fails.
func OpenColumnFamilies(path string, opts *grocksdb.Options, cfNames []string) (*Store, error) {
	return openColumnFamilies(path, opts, cfNames, false)
}

func openColumnFamilies(path string, opts *grocksdb.Options, cfNames []string, readOnly bool) (*Store, error) {
	// The default CF always exists; grocksdb requires it in the open list.
	names := make([]string, 0, len(cfNames)+1)
	hasDefault := false
	for _, name := range cfNames {
		if name == "default" {
			hasDefault = true
		}
		names = append(names, name)
	}
	if !hasDefault {
		names = append([]string{"default"}, names...)
	}

	// The engine copies options into each column family descriptor, so the
	// same staging object can back every CF.
	cfOpts := make([]*grocksdb.Options, len(names))
	for i := range cfOpts {
		cfOpts[i] = opts
	}

	var (
		db        *grocksdb.DB
		cfHandles []*grocksdb.ColumnFamilyHandle
		err       error
	)
	if readOnly {
		db, cfHandles, err = grocksdb.OpenDbForReadOnlyColumnFamilies(opts, path, names, cfOpts, false)
	} else {
		db, cfHandles, err = grocksdb.OpenDbColumnFamilies(opts, path, names, cfOpts)
	}
	if err != nil {
		return nil, &OpenError{Path: path, Err: err}
	}

	writeOpts := grocksdb.NewDefaultWriteOptions()
	writeOpts.SetSync(false) // WAL handles durability

	readOpts := grocksdb.NewDefaultReadOptions()

	cfIndexMap := make(map[string]int, len(names))
	for i, name := range names {
		cfIndexMap[name] = i
	}

	return &Store{
		db:         db,
		cfNames:    names,
		cfHandles:  cfHandles,
		cfIndexMap: cfIndexMap,
		writeOpts:  writeOpts,
		readOpts:   readOpts,
		path:       path,
	}, nil
}

// =============================================================================
// Column Family Resolution
// =============================================================================

// CFHandle resolves a column family name to its handle.
// Returns *ColumnFamilyError if the name was not part of the open set.
func (s *Store) CFHandle(name string) (*grocksdb.ColumnFamilyHandle, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	idx, ok := s.cfIndexMap[name]
	if !ok {
		return nil, &ColumnFamilyError{Name: name}
	}
	return s.cfHandles[idx], nil
}

// HasCF reports whether the store was opened with the given column family.
func (s *Store) HasCF(name string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	_, ok := s.cfIndexMap[name]
	return ok
}

// ColumnFamilyNames returns the column family names in open order.
func (s *Store) ColumnFamilyNames() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	names := make([]string, len(s.cfNames))
	copy(names, s.cfNames)
	return names
}

// Path returns the filesystem path to the database.
func (s *Store) Path() string {
	return s.path
}

// =============================================================================
// Property Access
// =============================================================================

// IntProperty queries an integer-valued database property.
//
// An empty engine answer is reported as *PropertyNotSetError; an answer that
// cannot be parsed as an unsigned integer is reported as
// *PropertyAccessError.
func (s *Store) IntProperty(name string) (uint64, error) {
	value := s.db.GetProperty(name)
	if value == "" {
		return 0, &PropertyNotSetError{Name: name}
	}

	n, err := strconv.ParseUint(strings.TrimSpace(value), 10, 64)
	if err != nil {
		return 0, &PropertyAccessError{Name: name, Err: err}
	}
	return n, nil
}

// IntPropertyCF queries an integer-valued property scoped to a column family.
func (s *Store) IntPropertyCF(name, cfName string) (uint64, error) {
	cfHandle, err := s.CFHandle(cfName)
	if err != nil {
		return 0, err
	}

	value := s.db.GetPropertyCF(name, cfHandle)
	if value == "" {
		return 0, &PropertyNotSetError{Name: name}
	}

	n, parseErr := strconv.ParseUint(strings.TrimSpace(value), 10, 64)
	if parseErr != nil {
		return 0, &PropertyAccessError{Name: name, Err: parseErr}
	}
	return n, nil
}

// =============================================================================
// Data Access
// =============================================================================

// GetCF performs a single-key point read in the named column family.
//
// The returned bytes are a copy and remain valid after the call. found is
// false when no value is stored for the key; that is not an error.
func (s *Store) GetCF(cfName string, key []byte) (value []byte, found bool, err error) {
	cfHandle, err := s.CFHandle(cfName)
	if err != nil {
		return nil, false, err
	}

	slice, err := s.db.GetCF(s.readOpts, cfHandle, key)
	if err != nil {
		return nil, false, err
	}
	defer slice.Free()

	if !slice.Exists() {
		return nil, false, nil
	}

	// Copy: slice data is invalidated by Free()
	value = make([]byte, slice.Size())
	copy(value, slice.Data())
	return value, true, nil
}

// PutCF writes a single key-value pair into the named column family.
func (s *Store) PutCF(cfName string, key, value []byte) error {
	cfHandle, err := s.CFHandle(cfName)
	if err != nil {
		return err
	}

	return s.db.PutCF(s.writeOpts, cfHandle, key, value)
}

// WriteEntries atomically writes a batch of entries grouped by column family.
func (s *Store) WriteEntries(entriesByCF map[string][]types.Entry) error {
	batch := grocksdb.NewWriteBatch()
	defer batch.Destroy()

	for cfName, entries := range entriesByCF {
		cfHandle, err := s.CFHandle(cfName)
		if err != nil {
			return err
		}
		for _, entry := range entries {
			batch.PutCF(cfHandle, entry.Key, entry.Value)
		}
	}

	return s.db.Write(s.writeOpts, batch)
}

// FlushAll flushes every column family MemTable to SST files on disk.
func (s *Store) FlushAll() error {
	flushOpts := grocksdb.NewDefaultFlushOptions()
	defer flushOpts.Destroy()
	flushOpts.SetWait(true) // Block until flush completes

	s.mu.RLock()
	handles := make([]*grocksdb.ColumnFamilyHandle, len(s.cfHandles))
	copy(handles, s.cfHandles)
	s.mu.RUnlock()

	for i, cfHandle := range handles {
		if err := s.db.FlushCF(cfHandle, flushOpts); err != nil {
			return errors.Wrapf(err, "flushing column family %s", s.cfNames[i])
		}
	}
	return nil
}

// =============================================================================
// Compaction Plumbing
// =============================================================================

// CompactRangeCFOpt issues a full-key-range compaction request for the given
// column family handle with the given options. The engine call returns when
// the request's own work is scheduled/performed; aggregate completion must be
// observed through IntProperty on the compaction counters.
func (s *Store) CompactRangeCFOpt(cfHandle *grocksdb.ColumnFamilyHandle, opts *grocksdb.CompactRangeOptions) {
	s.db.CompactRangeCFOpt(cfHandle, grocksdb.Range{Start: nil, Limit: nil}, opts)
}

// =============================================================================
// Statistics
// =============================================================================

// CFStats returns statistics for a single column family.
func (s *Store) CFStats(cfName string) (types.CFStats, error) {
	cfHandle, err := s.CFHandle(cfName)
	if err != nil {
		return types.CFStats{}, err
	}

	var keyCount int64
	if v := s.db.GetPropertyCF(PropEstimateNumKeys, cfHandle); v != "" {
		keyCount, _ = strconv.ParseInt(strings.TrimSpace(v), 10, 64)
	}

	levelStats := make([]types.CFLevelStats, 7) // L0-L6
	var totalFiles int64
	for level := 0; level <= 6; level++ {
		prop := "rocksdb.num-files-at-level" + strconv.Itoa(level)
		var files int64
		if v := s.db.GetPropertyCF(prop, cfHandle); v != "" {
			files, _ = strconv.ParseInt(strings.TrimSpace(v), 10, 64)
		}
		levelStats[level] = types.CFLevelStats{Level: level, FileCount: files}
		totalFiles += files
	}

	var totalSize int64
	if v := s.db.GetPropertyCF(PropTotalSSTFilesSize, cfHandle); v != "" {
		totalSize, _ = strconv.ParseInt(strings.TrimSpace(v), 10, 64)
	}

	return types.CFStats{
		Name:          cfName,
		EstimatedKeys: keyCount,
		TotalSize:     totalSize,
		TotalFiles:    totalFiles,
		LevelStats:    levelStats,
	}, nil
}

// AllCFStats returns statistics for every column family in open order.
func (s *Store) AllCFStats() []types.CFStats {
	names := s.ColumnFamilyNames()
	stats := make([]types.CFStats, 0, len(names))
	for _, name := range names {
		cfStats, err := s.CFStats(name)
		if err != nil {
			continue
		}
		stats = append(stats, cfStats)
	}
	return stats
}

// =============================================================================
// Lifecycle
// =============================================================================

// Close releases the handles, options and database owned by the store.
// The *grocksdb.Options passed to Open are untouched.
func (s *Store) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.writeOpts != nil {
		s.writeOpts.Destroy()
		s.writeOpts = nil
	}

	if s.readOpts != nil {
		s.readOpts.Destroy()
		s.readOpts = nil
	}

	for _, cfHandle := range s.cfHandles {
		if cfHandle != nil {
			cfHandle.Destroy()
		}
	}
	s.cfHandles = nil

	if s.db != nil {
		s.db.Close()
		s.db = nil
	}
}

// =============================================================================
// Utility Functions
// =============================================================================

// LogAllCFStats logs a statistics table for every column family.
func LogAllCFStats(s *Store, logger interfaces.Logger, label string) {
	stats := s.AllCFStats()

	logger.Separator()
	logger.Info("                    %s", label)
	logger.Separator()
	logger.Info("")

	var totalKeys, totalSize, totalFiles int64

	logger.Info("%-12s %15s %15s %10s", "CF", "Est. Keys", "Size", "Files")
	logger.Info("%-12s %15s %15s %10s", "------------", "---------------", "---------------", "----------")

	for _, cfStats := range stats {
		logger.Info("%-12s %15s %15s %10d",
			cfStats.Name,
			helpers.FormatNumber(cfStats.EstimatedKeys),
			helpers.FormatBytes(cfStats.TotalSize),
			cfStats.TotalFiles)

		totalKeys += cfStats.EstimatedKeys
		totalSize += cfStats.TotalSize
		totalFiles += cfStats.TotalFiles
	}

	logger.Info("%-12s %15s %15s %10s", "------------", "---------------", "---------------", "----------")
	logger.Info("%-12s %15s %15s %10d", "TOT", helpers.FormatNumber(totalKeys), helpers.FormatBytes(totalSize), totalFiles)
	logger.Info("")
}
