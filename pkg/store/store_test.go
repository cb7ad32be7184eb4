package store

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/linxGnu/grocksdb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/karthikiyer56/rocksdb-bulk-utils/pkg/types"
)

// createTestDB creates a database with the given extra column families and
// returns its path. The database is closed before returning.
func createTestDB(t *testing.T, cfNames ...string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "db")

	opts := grocksdb.NewDefaultOptions()
	defer opts.Destroy()
	opts.SetCreateIfMissing(true)
	opts.SetCreateIfMissingColumnFamilies(true)

	names := append([]string{"default"}, cfNames...)
	cfOpts := make([]*grocksdb.Options, len(names))
	for i := range cfOpts {
		cfOpts[i] = opts
	}

	db, handles, err := grocksdb.OpenDbColumnFamilies(opts, path, names, cfOpts)
	require.NoError(t, err)
	for _, h := range handles {
		h.Destroy()
	}
	db.Close()

	return path
}

func openTestStore(t *testing.T, path string) *Store {
	t.Helper()

	opts := grocksdb.NewDefaultOptions()
	t.Cleanup(opts.Destroy)

	st, err := Open(path, opts)
	require.NoError(t, err)
	t.Cleanup(st.Close)

	return st
}

func TestOpenDiscoversColumnFamilies(t *testing.T) {
	path := createTestDB(t, "foo", "bar")
	st := openTestStore(t, path)

	assert.Equal(t, []string{"default", "foo", "bar"}, st.ColumnFamilyNames())
	assert.True(t, st.HasCF("foo"))
	assert.False(t, st.HasCF("baz"))
	assert.Equal(t, path, st.Path())
}

func TestOpenMissingDatabase(t *testing.T) {
	opts := grocksdb.NewDefaultOptions()
	defer opts.Destroy()

	_, err := Open(filepath.Join(t.TempDir(), "nope"), opts)
	require.Error(t, err)

	var openErr *OpenError
	require.ErrorAs(t, err, &openErr)
	assert.Contains(t, openErr.Path, "nope")
}

func TestCFHandleUnknownName(t *testing.T) {
	st := openTestStore(t, createTestDB(t, "foo"))

	_, err := st.CFHandle("does-not-exist")
	require.Error(t, err)

	var cfErr *ColumnFamilyError
	require.ErrorAs(t, err, &cfErr)
	assert.Equal(t, "does-not-exist", cfErr.Name)
	assert.Contains(t, cfErr.Error(), "does-not-exist")
}

func TestIntProperty(t *testing.T) {
	st := openTestStore(t, createTestDB(t))

	t.Run("real counter parses", func(t *testing.T) {
		n, err := st.IntProperty(PropNumRunningCompactions)
		require.NoError(t, err)
		assert.Equal(t, uint64(0), n)
	})

	t.Run("unknown property not set", func(t *testing.T) {
		_, err := st.IntProperty("rocksdb.no-such-property")
		require.Error(t, err)

		var notSet *PropertyNotSetError
		require.ErrorAs(t, err, &notSet)
		assert.Equal(t, "rocksdb.no-such-property", notSet.Name)
	})

	t.Run("non-numeric property fails access", func(t *testing.T) {
		_, err := st.IntProperty("rocksdb.stats")
		require.Error(t, err)

		var access *PropertyAccessError
		require.ErrorAs(t, err, &access)
	})
}

func TestGetPutCF(t *testing.T) {
	st := openTestStore(t, createTestDB(t, "foo"))

	require.NoError(t, st.PutCF("foo", []byte("key1"), []byte("value1")))

	value, found, err := st.GetCF("foo", []byte("key1"))
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, []byte("value1"), value)

	_, found, err = st.GetCF("foo", []byte("missing"))
	require.NoError(t, err)
	assert.False(t, found)

	// Same key in another CF is independent.
	_, found, err = st.GetCF("default", []byte("key1"))
	require.NoError(t, err)
	assert.False(t, found)
}

func TestWriteEntriesAndFlush(t *testing.T) {
	st := openTestStore(t, createTestDB(t, "foo", "bar"))

	entries := map[string][]types.Entry{
		"foo": {
			{Key: []byte("a"), Value: []byte("1")},
			{Key: []byte("b"), Value: []byte("2")},
		},
		"bar": {
			{Key: []byte("c"), Value: []byte("3")},
		},
	}
	require.NoError(t, st.WriteEntries(entries))
	require.NoError(t, st.FlushAll())

	value, found, err := st.GetCF("bar", []byte("c"))
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, []byte("3"), value)

	stats, err := st.CFStats("foo")
	require.NoError(t, err)
	assert.Equal(t, "foo", stats.Name)
	assert.GreaterOrEqual(t, stats.TotalFiles, int64(1))
}

func TestOpenForReadOnly(t *testing.T) {
	path := createTestDB(t, "foo")

	// Seed a value through a writable store first.
	st := openTestStore(t, path)
	require.NoError(t, st.PutCF("foo", []byte("k"), []byte("v")))
	require.NoError(t, st.FlushAll())
	st.Close()

	opts := grocksdb.NewDefaultOptions()
	defer opts.Destroy()

	ro, err := OpenForReadOnly(path, opts)
	require.NoError(t, err)
	defer ro.Close()

	value, found, err := ro.GetCF("foo", []byte("k"))
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, []byte("v"), value)

	// Writes must fail at the engine level.
	assert.Error(t, ro.PutCF("foo", []byte("k2"), []byte("v2")))
}

func TestFlushAllFailureCarriesEngineError(t *testing.T) {
	path := createTestDB(t, "foo")

	opts := grocksdb.NewDefaultOptions()
	defer opts.Destroy()

	ro, err := OpenForReadOnly(path, opts)
	require.NoError(t, err)
	defer ro.Close()

	// Flushing a read-only store fails inside the engine; the failure names
	// the column family but is not a resolution error.
	flushErr := ro.FlushAll()
	require.Error(t, flushErr)
	assert.Contains(t, flushErr.Error(), "flushing column family")

	var cfErr *ColumnFamilyError
	assert.False(t, errors.As(flushErr, &cfErr))
	assert.Error(t, errors.Unwrap(flushErr))
}
