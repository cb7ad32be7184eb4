// =============================================================================
// pkg/tune/tune.go - Bulk-Load Option Tuning
// =============================================================================
//
// This package centralizes the RocksDB option policy used by the bulk-load
// and compaction tools. A database that is written once by a bulk loader and
// then served read-only wants a very different option set than a general
// purpose store:
//
//   - writes go through big memtables with compaction effectively deferred
//     (universal style, bulk-load prep), so ingestion is sequential-I/O bound
//   - a single forced compaction afterwards rewrites everything into large,
//     heavily-compressed bottommost SSTs
//   - reads are point lookups served through partitioned two-level indexes
//     and full bloom filters that stay pinned in cache
//
// TuneOptions applies that policy to an existing Options object so callers
// can layer their own adjustments before or after.
//
// =============================================================================

package tune

import (
	"github.com/linxGnu/grocksdb"

	"github.com/karthikiyer56/rocksdb-bulk-utils/pkg/types"
)

// =============================================================================
// Tuning Constants
// =============================================================================

const (
	// MaxBackgroundJobs is the shared budget for flush + compaction threads.
	MaxBackgroundJobs = 16

	// MaxSubCompactions splits a single manual compaction across threads.
	MaxSubCompactions = 8

	// ParallelismThreads sizes the low/high priority background pools.
	ParallelismThreads = 8

	// WriteBufferSize is the memtable size; large buffers mean fewer, bigger
	// L0 files during the load phase.
	WriteBufferSize = 1 * types.GB

	// TargetFileSizeBase keeps compaction output files large so the final
	// database consists of few SSTs.
	TargetFileSizeBase = 1 * types.GB

	// CompactionMemtableBudget is handed to OptimizeLevelStyleCompaction to
	// derive write-path buffer settings before the style switch to universal.
	CompactionMemtableBudget = 1 * types.GB

	// BottommostWindowBits is the zlib-convention window-bits knob; zstd
	// interprets negative values as raw log2 window sizes.
	BottommostWindowBits = -14

	// BottommostZstdLevel is the zstd compression level for bottommost SSTs.
	BottommostZstdLevel = 10

	// BottommostDictBytes is the per-SST zstd dictionary size.
	BottommostDictBytes = 16 * types.KB

	// BottommostZstdTrainBytes is how much sample data zstd may use to train
	// each dictionary.
	BottommostZstdTrainBytes = 4 * types.MB

	// PointLookupBlockCacheMB is the block cache size (in MB) handed to
	// OptimizeForPointLookup.
	PointLookupBlockCacheMB = 64

	// BloomFilterBitsPerKey sizes the full bloom filters on every SST.
	BloomFilterBitsPerKey = 10

	// IndexMetadataBlockSize is the partition size for two-level indexes.
	IndexMetadataBlockSize = 4 * types.KB
)

// =============================================================================
// TuneOptions
// =============================================================================

// TuneOptions applies the write-once / read-many option policy to opts and
// returns the same object for chaining.
//
// walDir, when non-empty, redirects the write-ahead log to a separate
// directory (typically a different disk than the SSTs). An empty walDir
// leaves the WAL alongside the database.
//
// The caller keeps ownership of opts and must destroy it after the database
// opened with it is closed.
func TuneOptions(opts *grocksdb.Options, walDir string) *grocksdb.Options {
	opts.SetCreateIfMissing(true)
	opts.SetCreateIfMissingColumnFamilies(true)

	// --- Write path -----------------------------------------------------
	opts.PrepareForBulkLoad()
	opts.SetMaxBackgroundJobs(MaxBackgroundJobs)
	opts.SetMaxSubCompactions(MaxSubCompactions)
	opts.IncreaseParallelism(ParallelismThreads)
	opts.OptimizeLevelStyleCompaction(CompactionMemtableBudget)
	opts.SetMinWriteBufferNumberToMerge(1)
	opts.SetWriteBufferSize(WriteBufferSize)
	opts.SetTargetFileSizeBase(TargetFileSizeBase)
	opts.SetCompactionStyle(grocksdb.UniversalCompactionStyle)

	if walDir != "" {
		opts.SetWalDir(walDir)
	}

	// --- Compression ----------------------------------------------------
	// Non-bottommost levels are transient under universal compaction with a
	// forced final compaction, so they skip compression entirely. The
	// bottommost level, where all data ends up, gets dictionary-trained zstd.
	opts.SetCompression(grocksdb.NoCompression)
	opts.SetBottommostCompressionOptions(
		grocksdb.NewCompressionOptions(BottommostWindowBits, BottommostZstdLevel, 0, BottommostDictBytes), true)
	opts.SetBottommostCompression(grocksdb.ZSTDCompression)
	opts.SetBottommostCompressionOptionsZstdMaxTrainBytes(BottommostZstdTrainBytes, true)

	// --- Read path ------------------------------------------------------
	opts.OptimizeForPointLookup(PointLookupBlockCacheMB)

	bbto := grocksdb.NewDefaultBlockBasedTableOptions()
	bbto.SetIndexType(grocksdb.KTwoLevelIndexSearchIndexType)
	bbto.SetFilterPolicy(grocksdb.NewBloomFilterFull(BloomFilterBitsPerKey))
	bbto.SetPartitionFilters(true)
	bbto.SetMetadataBlockSize(IndexMetadataBlockSize)
	bbto.SetCacheIndexAndFilterBlocks(true)
	bbto.SetPinTopLevelIndexAndFilter(true)
	bbto.SetPinL0FilterAndIndexBlocksInCache(true)
	opts.SetBlockBasedTableFactory(bbto)

	return opts
}

// NewTunedOptions allocates a fresh Options object with the bulk-load policy
// applied. The caller owns the returned object and must Destroy it.
func NewTunedOptions(walDir string) *grocksdb.Options {
	return TuneOptions(grocksdb.NewDefaultOptions(), walDir)
}
