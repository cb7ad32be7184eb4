// compact-store forces a full manual compaction of a bulk-loaded RocksDB
// store and blocks until the engine is idle.
//
// It is meant to run once after bulk ingestion into a store tuned with
// auto-compaction effectively deferred: it rewrites every column family down
// to large zstd-compressed bottommost SSTs, waits for the engine to report
// no pending or running compaction work, and optionally removes the empty
// WAL segments the load left behind.
//
// Usage:
//
//	compact-store --config compact.toml
//	compact-store --store /path/to/store --cf foo --cf bar
//
// Options:
//
//	--config PATH     TOML config file (flags override its values)
//	--store PATH      Path to RocksDB store
//	--wal-dir PATH    WAL directory the store was loaded with
//	--cf NAME         Compact only this column family (can be repeated)
//	--keep-wal        Keep empty WAL files after compaction
//	--help            Show help message
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/karthikiyer56/rocksdb-bulk-utils/helpers"
	"github.com/karthikiyer56/rocksdb-bulk-utils/pkg/compact"
	"github.com/karthikiyer56/rocksdb-bulk-utils/pkg/interfaces"
	"github.com/karthikiyer56/rocksdb-bulk-utils/pkg/logging"
	"github.com/karthikiyer56/rocksdb-bulk-utils/pkg/memory"
	"github.com/karthikiyer56/rocksdb-bulk-utils/pkg/store"
	"github.com/karthikiyer56/rocksdb-bulk-utils/pkg/tune"
)

// stringSliceFlag allows multiple --cf flags
type stringSliceFlag []string

func (s *stringSliceFlag) String() string {
	return strings.Join(*s, ", ")
}

func (s *stringSliceFlag) Set(value string) error {
	*s = append(*s, value)
	return nil
}

func main() {
	var cfNames stringSliceFlag

	var (
		configPath = flag.String("config", "", "TOML config file")
		storePath  = flag.String("store", "", "Path to RocksDB store")
		walDir     = flag.String("wal-dir", "", "WAL directory the store was loaded with")
		keepWAL    = flag.Bool("keep-wal", false, "Keep empty WAL files after compaction")
		showHelp   = flag.Bool("help", false, "Show help message")
	)

	flag.Var(&cfNames, "cf", "Compact only this column family (can be repeated)")
	flag.Parse()

	if *showHelp {
		printUsage()
		os.Exit(0)
	}

	cfg := &Config{RemoveEmptyWALFiles: true}
	if *configPath != "" {
		loaded, err := LoadConfig(*configPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		cfg = loaded
	}

	// Flags override config values
	if *storePath != "" {
		cfg.StorePath = *storePath
	}
	if *walDir != "" {
		cfg.WalDir = *walDir
	}
	if len(cfNames) > 0 {
		cfg.ColumnFamilies = cfNames
	}
	if *keepWAL {
		cfg.RemoveEmptyWALFiles = false
	}

	if cfg.StorePath == "" {
		fmt.Fprintf(os.Stderr, "Error: --store or store_path is required\n\n")
		printUsage()
		os.Exit(1)
	}
	if _, err := os.Stat(cfg.StorePath); os.IsNotExist(err) {
		fmt.Fprintf(os.Stderr, "Error: store does not exist: %s\n", cfg.StorePath)
		os.Exit(1)
	}

	// Setup logging
	var logger interfaces.Logger
	if cfg.LogFile != "" {
		dual, err := logging.NewDualLogger(cfg.LogFile, cfg.ErrorFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		logger = dual
	} else {
		logger = logging.NewConsoleLogger()
	}
	defer logger.Close()

	if err := run(cfg, logger); err != nil {
		logger.Error("%v", err)
		logger.Sync()
		os.Exit(1)
	}
}

func run(cfg *Config, logger interfaces.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	opts := tune.NewTunedOptions(cfg.WalDir)
	defer opts.Destroy()

	st, err := store.Open(cfg.StorePath, opts)
	if err != nil {
		return err
	}
	defer st.Close()

	cfsToCompact := cfg.ColumnFamilies
	if len(cfsToCompact) == 0 {
		cfsToCompact = st.ColumnFamilyNames()
	}

	logger.Separator()
	logger.Info("compacting %s", cfg.StorePath)
	logger.Info("column families: %s", strings.Join(cfsToCompact, ", "))
	logger.Separator()

	store.LogAllCFStats(st, logger, "COLUMN FAMILY STATS (BEFORE)")
	memory.TakeMemorySnapshot().Log(logger, "memory before compaction")

	start := time.Now()
	err = compact.ForceCompactionCF(ctx, st, cfsToCompact, compact.WaitOptions{
		Logger:         logger,
		WaitMsgPrefix:  "[compact-store] ",
		PollInterval:   cfg.PollInterval(),
		NotifyInterval: cfg.NotifyInterval(),
	}, cfg.RemoveEmptyWALFiles)
	if err != nil {
		return err
	}

	logger.Info("compaction finished in %s", helpers.FormatDuration(time.Since(start)))
	memory.TakeMemorySnapshot().Log(logger, "memory after compaction")
	store.LogAllCFStats(st, logger, "COLUMN FAMILY STATS (AFTER)")
	logger.Sync()

	return nil
}

func printUsage() {
	fmt.Println("compact-store - force full manual compaction of a RocksDB store")
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  compact-store --config compact.toml")
	fmt.Println("  compact-store --store /path/to/store [--cf NAME]...")
	fmt.Println()
	flag.PrintDefaults()
}
