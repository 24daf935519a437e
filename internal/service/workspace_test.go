package service

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWorkspace_JobDirIsUniquePerAttempt(t *testing.T) {
	ws, err := OpenWorkspace(t.TempDir())
	require.NoError(t, err)
	defer func() { _ = ws.Close() }()

	a, err := ws.JobDir(12)
	require.NoError(t, err)
	b, err := ws.JobDir(12)
	require.NoError(t, err)

	assert.NotEqual(t, a, b)
	assert.True(t, strings.HasPrefix(filepath.Base(a), "job-12-"))
	assert.DirExists(t, a)
}

func TestWorkspace_SecondOpenIsRefused(t *testing.T) {
	root := t.TempDir()
	ws, err := OpenWorkspace(root)
	require.NoError(t, err)

	_, err = OpenWorkspace(root)
	assert.ErrorIs(t, err, ErrWorkspaceBusy)

	require.NoError(t, ws.Close())
	again, err := OpenWorkspace(root)
	require.NoError(t, err)
	_ = again.Close()
}

func TestWorkspace_SweepRemovesOnlyJobDirs(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "job-1-abc", "nested"), 0o750))
	require.NoError(t, os.MkdirAll(filepath.Join(root, "keep"), 0o750))

	ws, err := OpenWorkspace(root)
	require.NoError(t, err)
	defer func() { _ = ws.Close() }()

	assert.Equal(t, 1, ws.Sweep())
	assert.NoDirExists(t, filepath.Join(root, "job-1-abc"))
	assert.DirExists(t, filepath.Join(root, "keep"))
	assert.FileExists(t, filepath.Join(root, ".renderfarm.lock"))
}
