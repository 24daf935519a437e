package sqlite

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bnema/renderfarm/internal/adapter/storage/storetest"
	"github.com/bnema/renderfarm/internal/domain"
	"github.com/bnema/renderfarm/internal/port"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := NewStore(filepath.Join(t.TempDir(), "data", "renderfarm.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestStore_JobStore(t *testing.T) {
	storetest.Run(t, func(t *testing.T) port.JobStore { return newTestStore(t) })
}

func TestStore_ReopenKeepsJobs(t *testing.T) {
	path := filepath.Join(t.TempDir(), "renderfarm.db")
	ctx := context.Background()

	s, err := NewStore(path)
	require.NoError(t, err)
	job, err := domain.NewJob("arc", "run", "https://x/v.mp4", "", []string{"hflip"})
	require.NoError(t, err)
	saved, err := s.Enqueue(ctx, job)
	require.NoError(t, err)
	require.NoError(t, s.Close())

	s, err = NewStore(path)
	require.NoError(t, err)
	defer func() { _ = s.Close() }()

	got, err := s.Get(ctx, saved.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"hflip"}, got.Steps)
	assert.WithinDuration(t, saved.CreatedAt, got.CreatedAt, 0)
}

func TestTimeLayoutSortsLexically(t *testing.T) {
	a, err := parseTime("2026-01-02T03:04:05.000000001Z")
	require.NoError(t, err)
	b := a.Add(999 * time.Millisecond)
	assert.Less(t, formatTime(a), formatTime(b))
}
