package fs

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMkdirExisting(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "d")
	require.NoError(t, Mkdir(dir, 0700))
	require.NoError(t, Mkdir(dir, 0700))

	file := filepath.Join(t.TempDir(), "f")
	require.NoError(t, WriteFile(file, []byte("x"), 0600))
	assert.Error(t, Mkdir(file, 0700))
}

func TestSetSticky(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("no sticky bit on windows")
	}

	dir := t.TempDir()
	require.NoError(t, SetSticky(dir))

	fi, err := os.Stat(dir)
	require.NoError(t, err)
	assert.NotZero(t, fi.Mode()&os.ModeSticky)
}

func TestRemoveIfExists(t *testing.T) {
	file := filepath.Join(t.TempDir(), "f")
	require.NoError(t, RemoveIfExists(file))

	require.NoError(t, WriteFile(file, []byte("x"), 0600))
	require.NoError(t, RemoveIfExists(file))
	_, err := Stat(file)
	assert.True(t, os.IsNotExist(err))
}
