package compact

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/karthikiyer56/rocksdb-bulk-utils/pkg/logging"
	"github.com/karthikiyer56/rocksdb-bulk-utils/pkg/store"
	"github.com/karthikiyer56/rocksdb-bulk-utils/pkg/tune"
)

// populateStore opens a tuned store at dir with the given column families
// and writes count records with the given key prefix into each of them.
func populateStore(t *testing.T, dir string, cfNames []string, prefix string, count int) *store.Store {
	t.Helper()

	opts := tune.NewTunedOptions("")
	t.Cleanup(opts.Destroy)

	st, err := store.OpenColumnFamilies(dir, opts, cfNames)
	require.NoError(t, err)
	t.Cleanup(st.Close)

	for _, cfName := range cfNames {
		for i := 0; i < count; i++ {
			key := []byte(fmt.Sprintf("%s%06d", prefix, i))
			require.NoError(t, st.PutCF(cfName, key, []byte("payload")))
		}
	}
	require.NoError(t, st.FlushAll())

	return st
}

func TestForceCompactionCF(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "db")
	st := populateStore(t, dir, []string{"foo", "bar"}, "msg", 1000)

	var out, errOut bytes.Buffer
	err := ForceCompactionCF(context.Background(), st, []string{"foo", "bar"}, WaitOptions{
		Logger:        logging.NewWriterLogger(&out, &errOut),
		WaitMsgPrefix: "msg",
	}, true)
	require.NoError(t, err)
	assert.Empty(t, errOut.String())

	// Engine must be idle afterwards.
	pending, err := st.IntProperty(store.PropCompactionPending)
	require.NoError(t, err)
	assert.Equal(t, uint64(0), pending)

	running, err := st.IntProperty(store.PropNumRunningCompactions)
	require.NoError(t, err)
	assert.Equal(t, uint64(0), running)

	// Data survives compaction.
	value, found, err := st.GetCF("foo", []byte("msg000500"))
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, []byte("payload"), value)
}

func TestForceCompactionCFUnknownName(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "db")
	st := populateStore(t, dir, []string{"foo"}, "msg", 10)

	err := ForceCompactionCF(context.Background(), st, []string{"foo", "does-not-exist"}, WaitOptions{}, false)
	require.Error(t, err)

	var cfErr *store.ColumnFamilyError
	require.ErrorAs(t, err, &cfErr)
	assert.Equal(t, "does-not-exist", cfErr.Name)
}

func TestForceCompactionByPath(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "db")
	st := populateStore(t, dir, []string{"foo", "bar"}, "msg", 100)
	st.Close()

	opts := tune.NewTunedOptions("")
	defer opts.Destroy()

	require.NoError(t, ForceCompaction(context.Background(), dir, opts, WaitOptions{}))

	// Reopen and verify data survived the close/compact/close cycle.
	reopened, err := store.Open(dir, opts)
	require.NoError(t, err)
	defer reopened.Close()

	value, found, err := reopened.GetCF("bar", []byte("msg000042"))
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, []byte("payload"), value)
}

func TestForceCompactionMissingPath(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "no-such-db")

	// Tuned options carry create-if-missing; compact-by-path must still
	// refuse to conjure a fresh database out of a bad path.
	opts := tune.NewTunedOptions("")
	defer opts.Destroy()

	err := ForceCompaction(context.Background(), dir, opts, WaitOptions{})
	require.Error(t, err)

	var openErr *store.OpenError
	require.ErrorAs(t, err, &openErr)
	assert.Equal(t, dir, openErr.Path)

	assert.NoDirExists(t, dir)
}

func TestForceCompactionCFCanceledContextIdleEngine(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "db")
	st := populateStore(t, dir, []string{"foo"}, "msg", 10)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	// The counters are checked before the context, so an already-idle engine
	// completes even under a canceled context.
	err := ForceCompactionCF(ctx, st, []string{"foo"}, WaitOptions{}, false)
	require.NoError(t, err)
}

func TestWaitOptionsDefaults(t *testing.T) {
	var w WaitOptions
	assert.Equal(t, DefaultPollInterval, w.pollInterval())
	assert.Equal(t, DefaultNotifyInterval, w.notifyInterval())

	w = WaitOptions{PollInterval: time.Millisecond, NotifyInterval: 5 * time.Second}
	assert.Equal(t, time.Millisecond, w.pollInterval())
	assert.Equal(t, 5*time.Second, w.notifyInterval())
}

func TestRemoveEmptyWALFiles(t *testing.T) {
	dir := t.TempDir()

	empty := filepath.Join(dir, "000001.log")
	require.NoError(t, os.WriteFile(empty, nil, 0644))

	nonEmpty := filepath.Join(dir, "000002.log")
	require.NoError(t, os.WriteFile(nonEmpty, []byte("wal data"), 0644))

	other := filepath.Join(dir, "CURRENT")
	require.NoError(t, os.WriteFile(other, nil, 0644))

	sub := filepath.Join(dir, "archive")
	require.NoError(t, os.Mkdir(sub, 0755))
	nested := filepath.Join(sub, "000003.log")
	require.NoError(t, os.WriteFile(nested, nil, 0644))

	require.NoError(t, RemoveEmptyWALFiles(dir))

	// Only the empty top-level .log file is gone.
	assert.NoFileExists(t, empty)

	data, err := os.ReadFile(nonEmpty)
	require.NoError(t, err)
	assert.Equal(t, []byte("wal data"), data)

	assert.FileExists(t, other)
	assert.FileExists(t, nested)
}

func TestRemoveEmptyWALFilesMissingDir(t *testing.T) {
	err := RemoveEmptyWALFiles(filepath.Join(t.TempDir(), "nope"))
	require.Error(t, err)

	var walErr *WALRemovalError
	require.ErrorAs(t, err, &walErr)
	assert.ErrorIs(t, err, os.ErrNotExist)
}
