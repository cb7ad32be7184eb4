// =============================================================================
// pkg/compact/compact.go - Forced Manual Compaction
// =============================================================================
//
// After a bulk load the database consists of many uncompressed, overlapping
// SSTs. This package forces a full manual compaction of one or more column
// families and blocks until the engine reports no pending and no running
// compaction work, so callers know the database is in its final serving
// shape before they snapshot, ship or reopen it read-only.
//
// COMPLETION DETECTION:
//
//	The per-CF compact call returns when its own request is done, but the
//	engine may still be running follow-up work it scheduled internally. The
//	wait loop therefore polls two aggregate counters:
//
//	    rocksdb.compaction-pending
//	    rocksdb.num-running-compactions
//
//	and only returns once both read zero in the same poll.
//
// WAL CLEANUP:
//
//	A fully-compacted bulk-load database has fully-flushed WAL segments left
//	behind as zero-length .log files. ForceCompaction removes those so the
//	directory that gets shipped contains only live data; non-empty WAL files
//	are never touched.
//
// =============================================================================

package compact

import (
	"context"
	"os"
	"path/filepath"
	"time"

	"github.com/linxGnu/grocksdb"

	"github.com/karthikiyer56/rocksdb-bulk-utils/helpers"
	"github.com/karthikiyer56/rocksdb-bulk-utils/pkg/interfaces"
	"github.com/karthikiyer56/rocksdb-bulk-utils/pkg/store"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// WALFileExtension identifies write-ahead log segments in the DB directory.
	WALFileExtension = ".log"

	// DefaultPollInterval is how often the wait loop samples the compaction
	// counters when WaitOptions does not override it.
	DefaultPollInterval = 100 * time.Millisecond

	// DefaultNotifyInterval is how often the wait loop emits a progress line
	// when WaitOptions does not override it.
	DefaultNotifyInterval = 1 * time.Second
)

// =============================================================================
// WaitOptions
// =============================================================================

// WaitOptions controls progress reporting and poll cadence while waiting for
// compactions to drain. The zero value waits silently with the default
// intervals.
type WaitOptions struct {
	// Logger receives progress lines. nil disables progress output.
	Logger interfaces.Logger

	// WaitMsgPrefix is prepended to every progress line. Progress output is
	// also disabled when the prefix is empty.
	WaitMsgPrefix string

	// PollInterval overrides DefaultPollInterval when positive.
	PollInterval time.Duration

	// NotifyInterval overrides DefaultNotifyInterval when positive.
	NotifyInterval time.Duration
}

func (w WaitOptions) pollInterval() time.Duration {
	if w.PollInterval > 0 {
		return w.PollInterval
	}
	return DefaultPollInterval
}

func (w WaitOptions) notifyInterval() time.Duration {
	if w.NotifyInterval > 0 {
		return w.NotifyInterval
	}
	return DefaultNotifyInterval
}

// =============================================================================
// ForceCompaction - Whole-Database Entry Point
// =============================================================================

// ForceCompaction opens the database at path with every persisted column
// family, compacts all of them, waits for the engine to go idle and removes
// empty WAL files before closing the database again.
//
// The path must hold an existing database: a failure to enumerate its column
// families is reported as *store.OpenError even when opts has
// create-if-missing set, so a mistyped path never turns into a fresh empty
// database that "compacts" successfully.
//
// opts should normally be the same tuned options the database was loaded
// with; the caller keeps ownership of opts.
func ForceCompaction(ctx context.Context, path string, opts *grocksdb.Options, wait WaitOptions) error {
	cfNames, err := grocksdb.ListColumnFamilies(opts, path)
	if err != nil {
		return &store.OpenError{Path: path, Err: err}
	}

	st, err := store.OpenColumnFamilies(path, opts, cfNames)
	if err != nil {
		return err
	}
	defer st.Close()

	return ForceCompactionCF(ctx, st, st.ColumnFamilyNames(), wait, true)
}

// =============================================================================
// ForceCompactionCF - Column-Family-Scoped Entry Point
// =============================================================================

// ForceCompactionCF compacts the named column families of an already-open
// store and blocks until the engine reports no compaction work at all.
//
// Every name is resolved before any compaction is issued; a single unknown
// name fails the whole call with *store.ColumnFamilyError and no work done.
// Compaction requests are issued sequentially in caller order, each one
// exclusive and forcing a bottommost-level rewrite.
//
// When removeEmptyWALFiles is true, zero-length .log files in the store's
// directory are deleted after the engine goes idle.
//
// ctx cancels the wait between polls; compaction work already handed to the
// engine is not recalled.
func ForceCompactionCF(ctx context.Context, st *store.Store, cfNames []string, wait WaitOptions, removeEmptyWALFiles bool) error {
	// All-or-nothing: resolve every handle before compacting anything.
	cfHandles := make([]*grocksdb.ColumnFamilyHandle, len(cfNames))
	for i, name := range cfNames {
		cfHandle, err := st.CFHandle(name)
		if err != nil {
			return err
		}
		cfHandles[i] = cfHandle
	}

	compactOpts := grocksdb.NewCompactRangeOptions()
	defer compactOpts.Destroy()
	compactOpts.SetExclusiveManualCompaction(true)
	compactOpts.SetBottommostLevelCompaction(grocksdb.KForce)

	for _, cfHandle := range cfHandles {
		st.CompactRangeCFOpt(cfHandle, compactOpts)
	}

	if err := waitForCompactions(ctx, st, wait); err != nil {
		return err
	}

	if removeEmptyWALFiles {
		return RemoveEmptyWALFiles(st.Path())
	}
	return nil
}

// waitForCompactions polls the aggregate compaction counters until both are
// zero in the same poll, emitting progress at the configured cadence.
func waitForCompactions(ctx context.Context, st *store.Store, wait WaitOptions) error {
	start := time.Now()
	lastNotified := start

	pollInterval := wait.pollInterval()
	notifyInterval := wait.notifyInterval()
	notify := wait.Logger != nil && wait.WaitMsgPrefix != ""

	for {
		pending, err := st.IntProperty(store.PropCompactionPending)
		if err != nil {
			return err
		}
		running, err := st.IntProperty(store.PropNumRunningCompactions)
		if err != nil {
			return err
		}
		if pending == 0 && running == 0 {
			return nil
		}

		if notify && time.Since(lastNotified) >= notifyInterval {
			wait.Logger.Info("%sstill waiting for compaction (since %s)",
				wait.WaitMsgPrefix, helpers.FormatDuration(time.Since(start)))
			lastNotified = time.Now()
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(pollInterval):
		}
	}
}

// =============================================================================
// WAL Cleanup
// =============================================================================

// RemoveEmptyWALFiles deletes zero-length .log files directly inside dir.
//
// Only regular files with the .log extension and exactly zero bytes are
// removed; everything else is left alone. Subdirectories are not descended
// into. Any filesystem failure aborts the sweep with *WALRemovalError, which
// may leave some empty files behind.
func RemoveEmptyWALFiles(dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return &WALRemovalError{Dir: dir, Err: err}
	}

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if filepath.Ext(entry.Name()) != WALFileExtension {
			continue
		}

		info, err := entry.Info()
		if err != nil {
			return &WALRemovalError{Dir: dir, Err: err}
		}
		if info.Size() != 0 {
			continue
		}

		if err := os.Remove(filepath.Join(dir, entry.Name())); err != nil {
			return &WALRemovalError{Dir: dir, Err: err}
		}
	}
	return nil
}
