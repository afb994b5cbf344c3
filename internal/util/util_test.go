package util

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFileExists(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "marker")

	require.False(t, FileExists(file))
	require.False(t, FileExists(""))

	require.NoError(t, os.WriteFile(file, nil, 0600))
	require.True(t, FileExists(file))
	require.True(t, FileExists(dir))
}

func TestDirExists(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "file")
	require.NoError(t, os.WriteFile(file, []byte("x"), 0600))

	require.True(t, DirExists(dir))
	require.False(t, DirExists(file))
	require.False(t, DirExists(filepath.Join(dir, "missing")))
}

func TestRemoveIfExists(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "file")
	require.NoError(t, os.WriteFile(file, []byte("x"), 0600))

	require.NoError(t, RemoveIfExists(file))
	require.False(t, FileExists(file))

	// Removing again is not an error.
	require.NoError(t, RemoveIfExists(file))
}
