package logging

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDualLoggerWritesBothFiles(t *testing.T) {
	dir := t.TempDir()
	logPath := filepath.Join(dir, "test.log")
	errorPath := filepath.Join(dir, "test-error.log")

	logger, err := NewDualLogger(logPath, errorPath)
	require.NoError(t, err)

	logger.Info("loading %d records", 42)
	logger.Error("something failed: %s", "disk full")
	logger.Separator()
	logger.Close()

	logData, err := os.ReadFile(logPath)
	require.NoError(t, err)
	assert.Contains(t, string(logData), "loading 42 records")
	assert.Contains(t, string(logData), "ERROR: something failed: disk full")
	assert.Contains(t, string(logData), SeparatorLine)

	errorData, err := os.ReadFile(errorPath)
	require.NoError(t, err)
	assert.Contains(t, string(errorData), "ERROR: something failed: disk full")
	assert.NotContains(t, string(errorData), "loading 42 records")
}

func TestScopedLoggerPrefixes(t *testing.T) {
	dir := t.TempDir()
	logPath := filepath.Join(dir, "test.log")
	errorPath := filepath.Join(dir, "test-error.log")

	logger, err := NewDualLogger(logPath, errorPath)
	require.NoError(t, err)

	scoped := logger.WithScope("COMPACT")
	scoped.Info("starting")

	nested := scoped.(*ScopedLogger).WithScope("WAIT")
	nested.Info("still waiting")

	logger.Close()

	logData, err := os.ReadFile(logPath)
	require.NoError(t, err)
	assert.Contains(t, string(logData), "[COMPACT] starting")
	assert.Contains(t, string(logData), "[COMPACT:WAIT] still waiting")
}

func TestConsoleLoggerSplitsStreams(t *testing.T) {
	var out, errOut bytes.Buffer
	logger := NewWriterLogger(&out, &errOut)

	logger.Info("hello")
	logger.Error("oops")
	logger.Separator()

	assert.Contains(t, out.String(), "hello")
	assert.Contains(t, out.String(), SeparatorLine)
	assert.NotContains(t, out.String(), "oops")
	assert.Contains(t, errOut.String(), "ERROR: oops")
}
