package workspace

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestManager_Ephemeral(t *testing.T) {
	base := t.TempDir()
	mgr := NewManager(base)
	require.Empty(t, mgr.Path())

	require.NoError(t, mgr.Create())
	dir := mgr.Path()
	require.DirExists(t, dir)
	require.True(t, strings.HasPrefix(filepath.Base(dir), "documentarian-"))
	require.Equal(t, base, filepath.Dir(dir))

	require.NoError(t, mgr.Create())
	require.Equal(t, dir, mgr.Path())

	require.NoError(t, mgr.Cleanup())
	require.NoDirExists(t, dir)
	require.Empty(t, mgr.Path())
	require.NoError(t, mgr.Cleanup())
}

func TestManager_TwoRunsDoNotCollide(t *testing.T) {
	base := t.TempDir()
	a, b := NewManager(base), NewManager(base)
	require.NoError(t, a.Create())
	require.NoError(t, b.Create())
	require.NotEqual(t, a.Path(), b.Path())
}

func TestManager_Persistent(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "scratch")
	mgr := NewPersistentManager(dir)

	require.NoError(t, mgr.Create())
	require.DirExists(t, dir)
	require.NoError(t, mgr.Cleanup())
	require.DirExists(t, dir)
}

func TestManager_DumpFileLifecycle(t *testing.T) {
	mgr := NewManager(t.TempDir())
	_, err := mgr.DumpFile("Core")
	require.Error(t, err)

	require.NoError(t, mgr.Create())
	t.Cleanup(func() { _ = mgr.Cleanup() })

	dump, err := mgr.DumpFile("Core")
	require.NoError(t, err)
	require.Equal(t, filepath.Join(mgr.Path(), "Core.json"), dump)

	require.NoError(t, os.WriteFile(dump, []byte("{}"), 0o600))
	require.NoError(t, mgr.Remove(dump))
	require.NoFileExists(t, dump)
	require.NoError(t, mgr.Remove(dump))
}
