// Package storetest holds the behaviour every port.JobStore must share.
package storetest

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bnema/renderfarm/internal/domain"
	"github.com/bnema/renderfarm/internal/port"
)

// Run exercises a fresh store returned by open for each subtest.
func Run(t *testing.T, open func(t *testing.T) port.JobStore) {
	t.Run("enqueue assigns increasing ids", func(t *testing.T) {
		s := open(t)
		ctx := context.Background()

		a := enqueue(t, s, "arc", "hflip")
		b := enqueue(t, s, "arc", "zoom1.2", "format:webm")
		assert.Greater(t, b.ID, a.ID)
		assert.Equal(t, domain.JobStatusQueued, b.Status)

		got, err := s.Get(ctx, b.ID)
		require.NoError(t, err)
		assert.Equal(t, []string{"zoom1.2", "format:webm"}, got.Steps)
		assert.Equal(t, "https://example.com/v.mp4", got.SourceURL)
		assert.Nil(t, got.ClaimedAt)
	})

	t.Run("get unknown job", func(t *testing.T) {
		s := open(t)
		_, err := s.Get(context.Background(), 999)
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("fetch oldest on empty queue", func(t *testing.T) {
		s := open(t)
		_, err := s.FetchOldestQueued(context.Background())
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("claims are FIFO", func(t *testing.T) {
		s := open(t)
		ctx := context.Background()
		ids := []int64{
			enqueue(t, s, "a", "hflip").ID,
			enqueue(t, s, "b", "hflip").ID,
			enqueue(t, s, "c", "hflip").ID,
		}

		for _, want := range ids {
			job, err := s.FetchOldestQueued(ctx)
			require.NoError(t, err)
			assert.Equal(t, want, job.ID)
			require.NoError(t, s.MarkProcessing(ctx, job.ID, "w1"))
		}
		_, err := s.FetchOldestQueued(ctx)
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("second claim loses", func(t *testing.T) {
		s := open(t)
		ctx := context.Background()
		job := enqueue(t, s, "a", "hflip")

		require.NoError(t, s.MarkProcessing(ctx, job.ID, "w1"))
		assert.ErrorIs(t, s.MarkProcessing(ctx, job.ID, "w2"), domain.ErrAlreadyClaimed)

		got, err := s.Get(ctx, job.ID)
		require.NoError(t, err)
		assert.Equal(t, domain.JobStatusProcessing, got.Status)
		assert.Equal(t, "w1", got.ClaimedBy)
		require.NotNil(t, got.ClaimedAt)
	})

	t.Run("concurrent claims pick one winner", func(t *testing.T) {
		s := open(t)
		ctx := context.Background()
		job := enqueue(t, s, "a", "hflip")

		var (
			wg      sync.WaitGroup
			mu      sync.Mutex
			won     int
			claimed int
		)
		for i := 0; i < 8; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				err := s.MarkProcessing(ctx, job.ID, "w")
				mu.Lock()
				defer mu.Unlock()
				switch {
				case err == nil:
					won++
				case errors.Is(err, domain.ErrAlreadyClaimed):
					claimed++
				}
			}()
		}
		wg.Wait()
		assert.Equal(t, 1, won)
		assert.Equal(t, 7, claimed)
	})

	t.Run("finish records result", func(t *testing.T) {
		s := open(t)
		ctx := context.Background()
		job := enqueue(t, s, "a", "hflip")
		require.NoError(t, s.MarkProcessing(ctx, job.ID, "w1"))

		require.NoError(t, s.MarkFinished(ctx, job.ID, domain.JobResult{
			FinalURL:     "https://cdn/a/1/render.mp4",
			ThumbnailURL: "https://cdn/a/1/thumbnail.jpg",
			Logs:         "step 0 ok",
		}))

		got, err := s.Get(ctx, job.ID)
		require.NoError(t, err)
		assert.Equal(t, domain.JobStatusFinished, got.Status)
		assert.Equal(t, "https://cdn/a/1/render.mp4", got.FinalURL)
		assert.Equal(t, "https://cdn/a/1/thumbnail.jpg", got.ThumbnailURL)
		assert.Equal(t, "step 0 ok", got.Logs)
		assert.NotNil(t, got.FinishedAt)
	})

	t.Run("terminal jobs are never rewritten or reclaimed", func(t *testing.T) {
		s := open(t)
		ctx := context.Background()
		job := enqueue(t, s, "a", "hflip")
		require.NoError(t, s.MarkProcessing(ctx, job.ID, "w1"))
		require.NoError(t, s.MarkError(ctx, job.ID, "step 0 failed", "diag"))

		assert.ErrorIs(t, s.MarkFinished(ctx, job.ID, domain.JobResult{FinalURL: "x"}), domain.ErrInvalidTransition)
		assert.ErrorIs(t, s.MarkError(ctx, job.ID, "again", ""), domain.ErrInvalidTransition)
		assert.ErrorIs(t, s.MarkProcessing(ctx, job.ID, "w2"), domain.ErrAlreadyClaimed)

		_, err := s.FetchOldestQueued(ctx)
		assert.ErrorIs(t, err, domain.ErrNotFound)

		got, err := s.Get(ctx, job.ID)
		require.NoError(t, err)
		assert.Equal(t, domain.JobStatusError, got.Status)
		assert.Equal(t, "step 0 failed", got.StatusText)
		assert.Equal(t, "diag", got.Logs)
		assert.Empty(t, got.FinalURL)
	})

	t.Run("queued jobs cannot finish", func(t *testing.T) {
		s := open(t)
		job := enqueue(t, s, "a", "hflip")
		err := s.MarkFinished(context.Background(), job.ID, domain.JobResult{})
		assert.ErrorIs(t, err, domain.ErrInvalidTransition)
	})

	t.Run("updates on unknown job", func(t *testing.T) {
		s := open(t)
		ctx := context.Background()
		assert.ErrorIs(t, s.MarkProcessing(ctx, 42, "w"), domain.ErrNotFound)
		assert.ErrorIs(t, s.MarkError(ctx, 42, "x", ""), domain.ErrNotFound)
	})

	t.Run("queue position", func(t *testing.T) {
		s := open(t)
		ctx := context.Background()
		a := enqueue(t, s, "a", "hflip")
		b := enqueue(t, s, "b", "hflip")

		pos, err := s.QueuePosition(ctx, b.ID)
		require.NoError(t, err)
		assert.Equal(t, 2, pos)

		require.NoError(t, s.MarkProcessing(ctx, a.ID, "w"))
		pos, err = s.QueuePosition(ctx, b.ID)
		require.NoError(t, err)
		assert.Equal(t, 1, pos)

		pos, err = s.QueuePosition(ctx, a.ID)
		require.NoError(t, err)
		assert.Equal(t, 0, pos)

		_, err = s.QueuePosition(ctx, 999)
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("list filters by status newest first", func(t *testing.T) {
		s := open(t)
		ctx := context.Background()
		a := enqueue(t, s, "a", "hflip")
		b := enqueue(t, s, "b", "hflip")
		c := enqueue(t, s, "c", "hflip")
		require.NoError(t, s.MarkProcessing(ctx, a.ID, "w"))

		all, err := s.List(ctx, domain.JobFilter{})
		require.NoError(t, err)
		require.Len(t, all, 3)
		assert.Equal(t, c.ID, all[0].ID)

		queued, err := s.List(ctx, domain.JobFilter{Status: domain.JobStatusQueued})
		require.NoError(t, err)
		require.Len(t, queued, 2)
		assert.Equal(t, []int64{c.ID, b.ID}, []int64{queued[0].ID, queued[1].ID})

		limited, err := s.List(ctx, domain.JobFilter{Limit: 1})
		require.NoError(t, err)
		assert.Len(t, limited, 1)
	})

	t.Run("reap stale claims", func(t *testing.T) {
		s := open(t)
		ctx := context.Background()
		stale := enqueue(t, s, "a", "hflip")
		waiting := enqueue(t, s, "b", "hflip")
		require.NoError(t, s.MarkProcessing(ctx, stale.ID, "w"))

		n, err := s.ReapStale(ctx, time.Now().Add(-time.Hour))
		require.NoError(t, err)
		assert.Zero(t, n, "fresh claims survive")

		n, err = s.ReapStale(ctx, time.Now().Add(time.Minute))
		require.NoError(t, err)
		assert.Equal(t, int64(1), n)

		got, err := s.Get(ctx, stale.ID)
		require.NoError(t, err)
		assert.Equal(t, domain.JobStatusError, got.Status)
		assert.Contains(t, got.StatusText, "abandoned")

		got, err = s.Get(ctx, waiting.ID)
		require.NoError(t, err)
		assert.Equal(t, domain.JobStatusQueued, got.Status, "queued jobs are never reaped")
	})
}

func enqueue(t *testing.T, s port.JobStore, archive string, steps ...string) *domain.Job {
	t.Helper()
	job, err := domain.NewJob(archive, "run-1", "https://example.com/v.mp4", "", steps)
	require.NoError(t, err)
	saved, err := s.Enqueue(context.Background(), job)
	require.NoError(t, err)
	return saved
}
