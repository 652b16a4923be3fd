package logger

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLevels(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf, INFO)

	l.Infof("copied %d files", 3)
	l.Warnf("code not found: %s", "IMG999")
	l.Errorf("boom")
	l.Debugf("hidden")

	out := buf.String()
	assert.Contains(t, out, "INFO: ")
	assert.Contains(t, out, "copied 3 files")
	assert.Contains(t, out, "WARN: ")
	assert.Contains(t, out, "IMG999")
	assert.Contains(t, out, "ERROR: ")
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "logger_test.go", "short file should point at the caller")
}

func TestDebugEnabled(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf, DEBUG)
	require.True(t, l.Verbose())

	l.Debugf("skipped %s", "notes.txt")
	assert.Contains(t, buf.String(), "DEBUG: ")
	assert.Contains(t, buf.String(), "notes.txt")
}

func TestNilLoggerIsSilent(t *testing.T) {
	var l *Logger
	assert.NotPanics(t, func() {
		l.Infof("x")
		l.Warnf("x")
		l.Errorf("x")
		l.Debugf("x")
		_ = l.Close()
	})
	assert.False(t, l.Verbose())
}

func TestNewFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "twinren.log")
	l, err := NewFile(path, INFO)
	require.NoError(t, err)

	l.Infof("to file")
	require.NoError(t, l.Close())
	require.NoError(t, l.Close())

	b, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(b), "INFO: ")
	assert.Contains(t, string(b), "to file")
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, DEBUG, ParseLevel(" Debug "))
	assert.Equal(t, INFO, ParseLevel("info"))
	assert.Equal(t, INFO, ParseLevel(""))
}

func TestOpen(t *testing.T) {
	var buf bytes.Buffer
	path := filepath.Join(t.TempDir(), "run.log")
	l, err := Open(&buf, path, INFO)
	require.NoError(t, err)

	l.Errorf("copy failed")
	require.NoError(t, l.Close())

	b, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(b), "ERROR: copy failed")
	assert.Contains(t, buf.String(), "ERROR: copy failed")

	_, err = Open(&buf, filepath.Join(t.TempDir(), "missing", "run.log"), INFO)
	assert.Error(t, err)
}
