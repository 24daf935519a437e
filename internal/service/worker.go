package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/bnema/renderfarm/internal/domain"
	"github.com/bnema/renderfarm/internal/port"
)

// JobRunner executes one claimed job in its scratch directory.
type JobRunner interface {
	Run(ctx context.Context, job *domain.Job, workDir string) (domain.JobResult, error)
}

type WorkerOptions struct {
	ID                 string
	PollMin            time.Duration
	PollMax            time.Duration
	KeepFailedWorkdirs bool
	// ReapAfter > 0 reaps stale claims once at startup.
	ReapAfter time.Duration
}

// Worker runs one job at a time: claim the oldest queued job, run it, write
// the terminal status, report, repeat.
type Worker struct {
	store     port.JobStore
	runner    JobRunner
	reporter  port.StatusReporter
	workspace *Workspace
	backoff   *Backoff
	opts      WorkerOptions
}

func NewWorker(store port.JobStore, runner JobRunner, reporter port.StatusReporter, ws *Workspace, opts WorkerOptions) *Worker {
	if opts.PollMin <= 0 {
		opts.PollMin = 2 * time.Second
	}
	if opts.PollMax < opts.PollMin {
		opts.PollMax = opts.PollMin
	}
	return &Worker{
		store:     store,
		runner:    runner,
		reporter:  reporter,
		workspace: ws,
		backoff:   NewBackoff(opts.PollMin, opts.PollMax, 2),
		opts:      opts,
	}
}

// ClaimNext claims the oldest queued job. A lost race is retried at once;
// an empty queue returns domain.ErrNotFound.
func (w *Worker) ClaimNext(ctx context.Context) (*domain.Job, error) {
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		job, err := w.store.FetchOldestQueued(ctx)
		if err != nil {
			return nil, err
		}

		err = w.store.MarkProcessing(ctx, job.ID, w.opts.ID)
		if errors.Is(err, domain.ErrAlreadyClaimed) {
			log.Debug().Int64("job_id", job.ID).Msg("lost claim race, retrying")
			continue
		}
		if err != nil {
			return nil, err
		}

		now := time.Now().UTC()
		job.Status = domain.JobStatusProcessing
		job.StatusText = "processing"
		job.ClaimedBy = w.opts.ID
		job.ClaimedAt = &now
		return job, nil
	}
}

// RunOnce processes at most one job and reports whether it found one.
// The job runs to completion even if ctx is cancelled meanwhile.
func (w *Worker) RunOnce(ctx context.Context) (bool, error) {
	job, err := w.ClaimNext(ctx)
	if errors.Is(err, domain.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("claim job: %w", err)
	}

	jobCtx := context.WithoutCancel(ctx)
	l := log.With().Int64("job_id", job.ID).Str("worker", w.opts.ID).Logger()
	l.Info().Str("archive_id", job.ArchiveID).Int("steps", len(job.Steps)).Msg("job claimed")
	w.reporter.Report(jobCtx, domain.NewStatusEvent(job, domain.JobStatusProcessing, "processing"))

	dir, err := w.workspace.JobDir(job.ID)
	if err != nil {
		return true, w.fail(jobCtx, job, err, "")
	}

	result, runErr := w.runner.Run(jobCtx, job, dir)
	if runErr != nil {
		if !w.opts.KeepFailedWorkdirs {
			w.workspace.Remove(dir)
		} else {
			l.Info().Str("dir", dir).Msg("keeping failed job directory")
		}
		return true, w.fail(jobCtx, job, runErr, result.Logs)
	}
	w.workspace.Remove(dir)

	if err := w.store.MarkFinished(jobCtx, job.ID, result); err != nil {
		return true, fmt.Errorf("mark job %d finished: %w", job.ID, err)
	}
	l.Info().Str("final_url", result.FinalURL).Msg("job finished")

	ev := domain.NewStatusEvent(job, domain.JobStatusFinished, "finished")
	ev.FinalURL = result.FinalURL
	ev.ThumbnailURL = result.ThumbnailURL
	w.reporter.Report(jobCtx, ev)
	return true, nil
}

func (w *Worker) fail(ctx context.Context, job *domain.Job, cause error, logs string) error {
	msg := cause.Error()
	log.Error().Err(cause).Int64("job_id", job.ID).Msg("job failed")

	if err := w.store.MarkError(ctx, job.ID, msg, logs); err != nil {
		return fmt.Errorf("mark job %d error: %w", job.ID, err)
	}
	w.reporter.Report(ctx, domain.NewStatusEvent(job, domain.JobStatusError, msg))
	return nil
}

// Run polls until ctx is cancelled. An in-flight job is finished before Run
// returns.
func (w *Worker) Run(ctx context.Context) error {
	if n := w.workspace.Sweep(); n > 0 {
		log.Info().Int("count", n).Msg("removed leftover job directories")
	}
	if w.opts.ReapAfter > 0 {
		if n, err := w.store.ReapStale(ctx, time.Now().Add(-w.opts.ReapAfter)); err != nil {
			log.Error().Err(err).Msg("failed to reap stale jobs")
		} else if n > 0 {
			log.Warn().Int64("count", n).Msg("reaped abandoned jobs")
		}
	}

	log.Info().Str("worker", w.opts.ID).Str("scratch", w.workspace.Root()).Msg("worker started")

	idle := 0
	for {
		select {
		case <-ctx.Done():
			log.Info().Str("worker", w.opts.ID).Msg("worker shutting down")
			return nil
		default:
		}

		processed, err := w.RunOnce(ctx)
		if err != nil && !errors.Is(err, context.Canceled) {
			log.Error().Err(err).Str("worker", w.opts.ID).Msg("worker iteration failed")
		}
		if processed {
			idle = 0
			continue
		}

		idle++
		select {
		case <-ctx.Done():
		case <-time.After(w.backoff.Duration(idle)):
		}
	}
}
