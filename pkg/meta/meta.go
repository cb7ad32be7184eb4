// =============================================================================
// pkg/meta/meta.go - Metadata Column Family Access
// =============================================================================
//
// Bulk-loaded databases carry a "meta" column family holding small UTF-8
// provenance records: release tags, source file digests, load timestamps.
// This package is the read side of that convention.
//
// =============================================================================

package meta

import (
	"unicode/utf8"

	"github.com/pkg/errors"

	"github.com/karthikiyer56/rocksdb-bulk-utils/pkg/store"
)

// ColumnFamilyName is the conventional name of the metadata column family.
const ColumnFamilyName = "meta"

// ErrUnknownColumnFamily is returned by Fetch when the database was opened
// without a "meta" column family.
var ErrUnknownColumnFamily = errors.New("unknown column family: " + ColumnFamilyName)

// ReadDataError reports an engine failure while reading a metadata key.
type ReadDataError struct {
	// Key is the metadata key that was being read.
	Key string

	// Err is the underlying engine error.
	Err error
}

func (e *ReadDataError) Error() string {
	return "problem reading data for metadata key " + e.Key + ": " + e.Err.Error()
}

func (e *ReadDataError) Unwrap() error { return e.Err }

// InvalidUTF8Error reports that a metadata value is not valid UTF-8.
// Metadata values are text by convention; a binary value under a metadata
// key means the record was written incorrectly.
type InvalidUTF8Error struct {
	// Key is the metadata key whose value failed validation.
	Key string
}

func (e *InvalidUTF8Error) Error() string {
	return "metadata value for key " + e.Key + " is not valid UTF-8"
}

// Fetch reads a single metadata value from the "meta" column family.
//
// found is false when the key has no value; that is not an error. A database
// without a "meta" column family yields ErrUnknownColumnFamily (test via
// errors.Is). Values that are not valid UTF-8 yield *InvalidUTF8Error.
func Fetch(st *store.Store, key string) (value string, found bool, err error) {
	if !st.HasCF(ColumnFamilyName) {
		return "", false, ErrUnknownColumnFamily
	}

	raw, found, err := st.GetCF(ColumnFamilyName, []byte(key))
	if err != nil {
		return "", false, &ReadDataError{Key: key, Err: err}
	}
	if !found {
		return "", false, nil
	}

	if !utf8.Valid(raw) {
		return "", false, &InvalidUTF8Error{Key: key}
	}
	return string(raw), true, nil
}
