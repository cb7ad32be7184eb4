// =============================================================================
// pkg/ingest/ingest.go - Zstd TSV Bulk Loader
// =============================================================================
//
// This package loads key-value data from zstd-compressed TSV streams into a
// column family of an open store. It is the write side that the tuning and
// compaction packages exist for: big batched writes into a bulk-tuned
// database, followed by a forced compaction.
//
// INPUT FORMAT:
//
//	One record per line, key and value separated by the first tab. Lines
//	without a tab and blank lines are skipped and counted.
//
// =============================================================================

package ingest

import (
	"bufio"
	"bytes"
	"context"
	"io"
	"os"
	"time"

	"github.com/klauspost/compress/zstd"
	"github.com/pkg/errors"

	"github.com/karthikiyer56/rocksdb-bulk-utils/helpers"
	"github.com/karthikiyer56/rocksdb-bulk-utils/pkg/interfaces"
	"github.com/karthikiyer56/rocksdb-bulk-utils/pkg/meta"
	"github.com/karthikiyer56/rocksdb-bulk-utils/pkg/store"
	"github.com/karthikiyer56/rocksdb-bulk-utils/pkg/types"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// DefaultBatchSize is how many records accumulate in a WriteBatch before
	// it is committed.
	DefaultBatchSize = 100_000

	// scannerBufferSize bounds the longest accepted input line.
	scannerBufferSize = 16 * types.MB
)

// =============================================================================
// Options and Result
// =============================================================================

// Options configures a bulk load.
type Options struct {
	// CFName is the target column family.
	CFName string

	// BatchSize overrides DefaultBatchSize when positive.
	BatchSize int

	// Logger receives periodic progress lines. nil disables progress output.
	Logger interfaces.Logger

	// Meta holds provenance records written to the "meta" column family
	// after the data load succeeds. nil writes nothing.
	Meta map[string]string
}

func (o Options) batchSize() int {
	if o.BatchSize > 0 {
		return o.BatchSize
	}
	return DefaultBatchSize
}

// Result summarizes a completed bulk load.
type Result struct {
	// Records is the number of key-value pairs written.
	Records int64

	// Skipped is the number of blank or tab-less lines ignored.
	Skipped int64

	// Bytes is the total uncompressed key+value payload written.
	Bytes int64

	// Elapsed is the wall-clock load duration.
	Elapsed time.Duration
}

// =============================================================================
// Loading
// =============================================================================

// LoadZstdTSV decompresses r and loads its TSV records into the target
// column family. The load is batched; ctx is checked at every batch
// boundary, so cancellation loses at most one uncommitted batch.
func LoadZstdTSV(ctx context.Context, st *store.Store, r io.Reader, opts Options) (Result, error) {
	// Fail fast on a bad target CF before touching the input stream.
	if _, err := st.CFHandle(opts.CFName); err != nil {
		return Result{}, err
	}

	zr, err := zstd.NewReader(r)
	if err != nil {
		return Result{}, errors.Wrap(err, "opening zstd stream")
	}
	defer zr.Close()

	scanner := bufio.NewScanner(zr)
	scanner.Buffer(make([]byte, 0, 64*types.KB), scannerBufferSize)

	var result Result
	start := time.Now()
	batchSize := opts.batchSize()
	lastLogged := start

	entries := make([]types.Entry, 0, batchSize)

	commit := func() error {
		if len(entries) == 0 {
			return nil
		}
		if err := st.WriteEntries(map[string][]types.Entry{opts.CFName: entries}); err != nil {
			return errors.Wrapf(err, "committing batch at record %d", result.Records)
		}
		entries = entries[:0]
		return nil
	}

	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			result.Skipped++
			continue
		}

		tab := bytes.IndexByte(line, '\t')
		if tab < 0 {
			result.Skipped++
			continue
		}

		// The scanner reuses its buffer across lines; copy before keeping.
		key := append([]byte(nil), line[:tab]...)
		value := append([]byte(nil), line[tab+1:]...)
		entries = append(entries, types.Entry{Key: key, Value: value})
		result.Records++
		result.Bytes += int64(len(key) + len(value))

		if len(entries) >= batchSize {
			if err := commit(); err != nil {
				return result, err
			}
			if err := ctx.Err(); err != nil {
				return result, err
			}

			if opts.Logger != nil && time.Since(lastLogged) >= 5*time.Second {
				opts.Logger.Info("loaded %s records (%s, %s)",
					helpers.FormatNumber(result.Records),
					helpers.FormatBytes(result.Bytes),
					helpers.FormatRate(result.Records, time.Since(start)))
				lastLogged = time.Now()
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return result, errors.Wrap(err, "reading TSV stream")
	}

	if err := commit(); err != nil {
		return result, err
	}

	if err := writeMeta(st, opts.Meta); err != nil {
		return result, err
	}

	result.Elapsed = time.Since(start)
	return result, nil
}

// LoadZstdTSVFile opens path and loads it via LoadZstdTSV.
func LoadZstdTSVFile(ctx context.Context, st *store.Store, path string, opts Options) (Result, error) {
	f, err := os.Open(path)
	if err != nil {
		return Result{}, errors.Wrapf(err, "opening input file %s", path)
	}
	defer f.Close()

	return LoadZstdTSV(ctx, st, f, opts)
}

// writeMeta records provenance entries in the "meta" column family.
func writeMeta(st *store.Store, records map[string]string) error {
	if len(records) == 0 {
		return nil
	}
	if !st.HasCF(meta.ColumnFamilyName) {
		return meta.ErrUnknownColumnFamily
	}

	for key, value := range records {
		if err := st.PutCF(meta.ColumnFamilyName, []byte(key), []byte(value)); err != nil {
			return errors.Wrapf(err, "writing metadata key %s", key)
		}
	}
	return nil
}
