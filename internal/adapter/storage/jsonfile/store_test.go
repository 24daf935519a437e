package jsonfile

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bnema/renderfarm/internal/adapter/storage/storetest"
	"github.com/bnema/renderfarm/internal/domain"
	"github.com/bnema/renderfarm/internal/port"
)

func TestStore_JobStore(t *testing.T) {
	storetest.Run(t, func(t *testing.T) port.JobStore {
		s, err := NewStore(filepath.Join(t.TempDir(), "jobs.json"))
		require.NoError(t, err)
		t.Cleanup(func() { _ = s.Close() })
		return s
	})
}

func TestNewStore(t *testing.T) {
	t.Run("creates empty store if file doesn't exist", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "nested", "jobs.json")

		store, err := NewStore(path)
		require.NoError(t, err)
		defer func() { _ = store.Close() }()

		jobs, err := store.List(context.Background(), domain.JobFilter{})
		assert.NoError(t, err)
		assert.Empty(t, jobs)
		_, err = os.Stat(path)
		assert.True(t, os.IsNotExist(err))
	})

	t.Run("returns error for invalid JSON", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "jobs.json")
		require.NoError(t, os.WriteFile(path, []byte("invalid json"), 0o600))

		store, err := NewStore(path)
		assert.Error(t, err)
		assert.Nil(t, store)
	})

	t.Run("handles empty JSON file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "jobs.json")
		require.NoError(t, os.WriteFile(path, []byte(""), 0o600))

		store, err := NewStore(path)
		require.NoError(t, err)
		defer func() { _ = store.Close() }()
	})
}

func TestStore_SharedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "jobs.json")
	ctx := context.Background()

	a, err := NewStore(path)
	require.NoError(t, err)
	defer func() { _ = a.Close() }()
	b, err := NewStore(path)
	require.NoError(t, err)
	defer func() { _ = b.Close() }()

	job, err := domain.NewJob("arc", "run", "https://x/v.mp4", "", []string{"hflip"})
	require.NoError(t, err)
	saved, err := a.Enqueue(ctx, job)
	require.NoError(t, err)

	got, err := b.FetchOldestQueued(ctx)
	require.NoError(t, err)
	assert.Equal(t, saved.ID, got.ID)

	require.NoError(t, b.MarkProcessing(ctx, got.ID, "w-b"))
	assert.ErrorIs(t, a.MarkProcessing(ctx, got.ID, "w-a"), domain.ErrAlreadyClaimed)

	second, err := a.Enqueue(ctx, job)
	require.NoError(t, err)
	assert.Equal(t, saved.ID+1, second.ID, "ids keep increasing across handles")
}

func TestStore_EnqueueDoesNotAliasCaller(t *testing.T) {
	s, err := NewStore(filepath.Join(t.TempDir(), "jobs.json"))
	require.NoError(t, err)
	defer func() { _ = s.Close() }()

	job, err := domain.NewJob("arc", "run", "https://x/v.mp4", "", []string{"hflip"})
	require.NoError(t, err)
	_, err = s.Enqueue(context.Background(), job)
	require.NoError(t, err)

	job.Steps[0] = "zoom2"
	got, err := s.Get(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, []string{"hflip"}, got.Steps)
}
