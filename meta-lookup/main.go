// meta-lookup reads a single value from the "meta" column family of a
// RocksDB store and prints it.
//
// Bulk-loaded stores carry small UTF-8 provenance records (release tags,
// source digests, load timestamps) under the "meta" column family; this tool
// is the quick way to inspect one without writing code. The store is opened
// read-only, so it is safe to run against a store that is being served.
//
// Usage:
//
//	meta-lookup --store /path/to/store --key gnomad-release
//
// Exit codes:
//
//	0  key found, value printed to stdout
//	1  open or read failure
//	2  key not present
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/linxGnu/grocksdb"

	"github.com/karthikiyer56/rocksdb-bulk-utils/pkg/meta"
	"github.com/karthikiyer56/rocksdb-bulk-utils/pkg/store"
)

func main() {
	var (
		storePath = flag.String("store", "", "Path to RocksDB store (required)")
		key       = flag.String("key", "", "Metadata key to read (required)")
	)
	flag.Parse()

	if *storePath == "" || *key == "" {
		fmt.Fprintln(os.Stderr, "Usage: meta-lookup --store PATH --key KEY")
		os.Exit(1)
	}

	opts := grocksdb.NewDefaultOptions()
	defer opts.Destroy()

	st, err := store.OpenForReadOnly(*storePath, opts)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer st.Close()

	value, found, err := meta.Fetch(st, *key)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if !found {
		fmt.Fprintf(os.Stderr, "key not found: %s\n", *key)
		os.Exit(2)
	}

	fmt.Println(value)
}
