package marker

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMarker_CreateAndExists(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "scripts", "setup")
	m := New(dir, Installed)

	require.Equal(t, filepath.Join(dir, ".installed"), m.Path())
	require.False(t, m.Exists())

	require.NoError(t, m.Create())
	require.True(t, m.Exists())

	info, err := os.Stat(m.Path())
	require.NoError(t, err)
	require.Zero(t, info.Size())
}

func TestMarker_CreateFailsOnFileParent(t *testing.T) {
	dir := t.TempDir()
	parent := filepath.Join(dir, "not-a-dir")
	require.NoError(t, os.WriteFile(parent, []byte("x"), 0600))

	err := New(parent, Initialized).Create()
	require.Error(t, err)
}
