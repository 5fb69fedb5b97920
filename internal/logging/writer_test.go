package logging

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewWriterCreatesParentDirectory(t *testing.T) {
	tmp := t.TempDir()
	path := filepath.Join(tmp, "nested", "dir", "test.log")

	w, err := NewWriter(path, 0)
	require.NoError(t, err)
	defer w.Close()

	_, err = os.Stat(filepath.Dir(path))
	assert.NoError(t, err)
}

func TestWriteLineAppends(t *testing.T) {
	tmp := t.TempDir()
	path := filepath.Join(tmp, "test.log")

	w, err := NewWriter(path, 0)
	require.NoError(t, err)
	defer w.Close()

	require.NoError(t, w.WriteLine("first"))
	require.NoError(t, w.WriteLine("second"))
	require.NoError(t, w.Flush())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "first\nsecond\n", string(data))
}

func TestWriteRotatesPastThreshold(t *testing.T) {
	tmp := t.TempDir()
	path := filepath.Join(tmp, "test.log")

	w, err := NewWriter(path, 10)
	require.NoError(t, err)
	defer w.Close()

	require.NoError(t, w.WriteLine("0123456789"))

	entries, err := os.ReadDir(tmp)
	require.NoError(t, err)
	var backups int
	for _, e := range entries {
		if e.Name() != "test.log" {
			backups++
		}
	}
	assert.Equal(t, 1, backups, "expected exactly one rotated backup file")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Empty(t, data, "fresh file after rotation should be empty")
}

func TestWriteDoesNotRotateWhenThresholdIsZero(t *testing.T) {
	tmp := t.TempDir()
	path := filepath.Join(tmp, "test.log")

	w, err := NewWriter(path, 0)
	require.NoError(t, err)
	defer w.Close()

	for i := 0; i < 100; i++ {
		require.NoError(t, w.WriteLine(strings.Repeat("x", 50)))
	}

	entries, err := os.ReadDir(tmp)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestUniqueBackupPathAvoidsCollision(t *testing.T) {
	tmp := t.TempDir()
	path := filepath.Join(tmp, "test.log")

	first, err := uniqueBackupPath(path)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(first, []byte("x"), 0o644))

	second, err := uniqueBackupPath(path)
	require.NoError(t, err)
	assert.NotEqual(t, first, second)
	assert.True(t, strings.HasSuffix(second, "(1)"))
}

func TestCloseIsIdempotent(t *testing.T) {
	tmp := t.TempDir()
	path := filepath.Join(tmp, "test.log")

	w, err := NewWriter(path, 0)
	require.NoError(t, err)

	require.NoError(t, w.Close())
	require.NoError(t, w.Close())

	err = w.WriteLine("after close")
	assert.Error(t, err)
}
