package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/bnema/renderfarm/internal/domain"
	"github.com/bnema/renderfarm/internal/port/mocks"
	"github.com/bnema/renderfarm/internal/step"
)

func TestJobService_Submit(t *testing.T) {
	store := mocks.NewJobStoreMock(t)
	svc := NewJobService(store)
	ctx := context.Background()

	store.EXPECT().Enqueue(ctx, mock.MatchedBy(func(j *domain.Job) bool {
		return j.ArchiveID == "arc" && j.Status == domain.JobStatusQueued && len(j.Steps) == 2
	})).RunAndReturn(func(_ context.Context, j *domain.Job) (*domain.Job, error) {
		saved := *j
		saved.ID = 11
		return &saved, nil
	})
	store.EXPECT().QueuePosition(ctx, int64(11)).Return(3, nil)

	job, pos, err := svc.Submit(ctx, SubmitRequest{
		ArchiveID: "arc",
		RunID:     "run",
		URL:       "https://x/v.mp4",
		Steps:     []string{"hflip", "textwithbg::5::40::bottom::black::yellow::12::Hi"},
	})
	require.NoError(t, err)
	assert.Equal(t, int64(11), job.ID)
	assert.Equal(t, 3, pos)
}

func TestJobService_SubmitRejectsBadStep(t *testing.T) {
	store := mocks.NewJobStoreMock(t)
	svc := NewJobService(store)

	_, _, err := svc.Submit(context.Background(), SubmitRequest{
		ArchiveID: "arc",
		RunID:     "run",
		URL:       "https://x/v.mp4",
		Steps:     []string{"hflip", "saturation9"},
	})

	var stepErr *domain.StepError
	require.True(t, errors.As(err, &stepErr))
	assert.Equal(t, 1, stepErr.Index)
	var decErr *step.DecodeError
	require.True(t, errors.As(err, &decErr))
	assert.Equal(t, step.InvalidParameters, decErr.Reason)
	store.AssertNotCalled(t, "Enqueue", mock.Anything, mock.Anything)
}

func TestJobService_SubmitRejectsMissingFields(t *testing.T) {
	svc := NewJobService(mocks.NewJobStoreMock(t))

	_, _, err := svc.Submit(context.Background(), SubmitRequest{RunID: "r", URL: "u"})
	assert.ErrorIs(t, err, ErrInvalidJob)
}

func TestJobService_Reap(t *testing.T) {
	store := mocks.NewJobStoreMock(t)
	svc := NewJobService(store)

	store.EXPECT().ReapStale(mock.Anything, mock.Anything).Return(int64(1), nil)

	n, err := svc.Reap(context.Background(), time.Hour)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	_, err = svc.Reap(context.Background(), 0)
	assert.Error(t, err)
}
