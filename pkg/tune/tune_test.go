package tune

import (
	"path/filepath"
	"testing"

	"github.com/linxGnu/grocksdb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/karthikiyer56/rocksdb-bulk-utils/pkg/store"
)

func TestTuneOptionsReturnsSameObject(t *testing.T) {
	opts := grocksdb.NewDefaultOptions()
	defer opts.Destroy()

	tuned := TuneOptions(opts, "")
	assert.Same(t, opts, tuned)
}

func TestTuneOptionsAppliedTwice(t *testing.T) {
	dir := t.TempDir()

	// Tuning is idempotent: a double-tuned Options object opens and serves
	// a database the same way a single-tuned one does.
	opts := grocksdb.NewDefaultOptions()
	defer opts.Destroy()
	TuneOptions(TuneOptions(opts, ""), "")

	st, err := store.Open(filepath.Join(dir, "db"), opts)
	require.NoError(t, err)
	defer st.Close()

	require.NoError(t, st.PutCF("default", []byte("k"), []byte("v")))

	value, found, err := st.GetCF("default", []byte("k"))
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, []byte("v"), value)
}

func TestTunedOptionsOpenWriteRead(t *testing.T) {
	dir := t.TempDir()

	opts := NewTunedOptions("")
	defer opts.Destroy()

	st, err := store.Open(filepath.Join(dir, "db"), opts)
	require.NoError(t, err)
	defer st.Close()

	require.NoError(t, st.PutCF("default", []byte("k1"), []byte("v1")))

	value, found, err := st.GetCF("default", []byte("k1"))
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, []byte("v1"), value)
}

func TestTunedOptionsSeparateWALDir(t *testing.T) {
	dir := t.TempDir()
	walDir := filepath.Join(dir, "wal")

	opts := NewTunedOptions(walDir)
	defer opts.Destroy()

	st, err := store.Open(filepath.Join(dir, "db"), opts)
	require.NoError(t, err)
	defer st.Close()

	require.NoError(t, st.PutCF("default", []byte("k"), []byte("v")))

	// The WAL directory must have been created and used.
	assert.DirExists(t, walDir)
}
