package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/bnema/renderfarm/internal/domain"
	"github.com/bnema/renderfarm/internal/port"
	"github.com/bnema/renderfarm/internal/step"
)

var ErrInvalidJob = errors.New("invalid job")

type SubmitRequest struct {
	ArchiveID  string   `json:"archive_id"`
	RunID      string   `json:"run_id"`
	URL        string   `json:"url"`
	ArchiveURL string   `json:"archive_url,omitempty"`
	Steps      []string `json:"steps"`
}

// JobService is the producer side of the queue.
type JobService struct {
	store port.JobStore
}

func NewJobService(store port.JobStore) *JobService {
	return &JobService{store: store}
}

// Submit validates and enqueues a job and returns it with its queue position.
// Every step token is decoded up front; the first bad one comes back as a
// *domain.StepError. The pipeline decodes again at execution time.
func (s *JobService) Submit(ctx context.Context, req SubmitRequest) (*domain.Job, int, error) {
	job, err := domain.NewJob(req.ArchiveID, req.RunID, req.URL, req.ArchiveURL, req.Steps)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: %w", ErrInvalidJob, err)
	}
	if _, idx, err := step.DecodeAll(job.Steps); err != nil {
		return nil, 0, &domain.StepError{Index: idx, Token: job.Steps[idx], Err: err}
	}

	saved, err := s.store.Enqueue(ctx, job)
	if err != nil {
		return nil, 0, fmt.Errorf("enqueue job: %w", err)
	}

	pos, err := s.store.QueuePosition(ctx, saved.ID)
	if err != nil {
		log.Warn().Err(err).Int64("job_id", saved.ID).Msg("failed to read queue position")
	}

	log.Info().
		Int64("job_id", saved.ID).
		Str("archive_id", saved.ArchiveID).
		Int("steps", len(saved.Steps)).
		Msg("job queued")
	return saved, pos, nil
}

func (s *JobService) Get(ctx context.Context, id int64) (*domain.Job, error) {
	return s.store.Get(ctx, id)
}

func (s *JobService) List(ctx context.Context, filter domain.JobFilter) ([]*domain.Job, error) {
	return s.store.List(ctx, filter)
}

func (s *JobService) QueuePosition(ctx context.Context, id int64) (int, error) {
	return s.store.QueuePosition(ctx, id)
}

// Reap moves jobs claimed more than olderThan ago and still processing to
// error. They are never requeued.
func (s *JobService) Reap(ctx context.Context, olderThan time.Duration) (int64, error) {
	if olderThan <= 0 {
		return 0, fmt.Errorf("reap threshold must be positive, got %s", olderThan)
	}
	n, err := s.store.ReapStale(ctx, time.Now().Add(-olderThan))
	if err != nil {
		return 0, err
	}
	if n > 0 {
		log.Warn().Int64("count", n).Dur("older_than", olderThan).Msg("reaped abandoned jobs")
	}
	return n, nil
}
