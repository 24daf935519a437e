package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/bnema/renderfarm/internal/domain"
	"github.com/bnema/renderfarm/internal/port"
)

// Timestamps are stored as fixed-width UTC text so that string comparison
// orders them chronologically.
const timeLayout = "2006-01-02T15:04:05.000000000Z"

const abandonedText = "abandoned: worker lost"

const jobColumns = `id, archive_id, run_id, source_url, archive_url, steps, status, status_text,
	final_url, thumbnail_url, logs, claimed_by, created_at, claimed_at, finished_at`

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func parseTime(s string) (time.Time, error) {
	return time.Parse(timeLayout, s)
}

func (s *Store) Enqueue(ctx context.Context, job *domain.Job) (*domain.Job, error) {
	steps, err := json.Marshal(job.Steps)
	if err != nil {
		return nil, fmt.Errorf("encode steps: %w", err)
	}
	if job.CreatedAt.IsZero() {
		job.CreatedAt = time.Now().UTC()
	}

	res, err := s.db.ExecContext(ctx, `
		INSERT INTO jobs (archive_id, run_id, source_url, archive_url, steps, status, status_text, created_at)
		VALUES (?, ?, ?, ?, ?, 'queued', ?, ?)`,
		job.ArchiveID, job.RunID, job.SourceURL, job.ArchiveURL, string(steps), job.StatusText, formatTime(job.CreatedAt))
	if err != nil {
		return nil, fmt.Errorf("insert job: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("read job id: %w", err)
	}
	return s.Get(ctx, id)
}

func (s *Store) Get(ctx context.Context, id int64) (*domain.Job, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+jobColumns+` FROM jobs WHERE id = ?`, id)
	job, err := scanJob(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return job, nil
}

func (s *Store) List(ctx context.Context, filter domain.JobFilter) ([]*domain.Job, error) {
	query := `SELECT ` + jobColumns + ` FROM jobs`
	var args []any
	if filter.Status != "" {
		query += ` WHERE status = ?`
		args = append(args, string(filter.Status))
	}
	query += ` ORDER BY id DESC`
	if filter.Limit > 0 {
		query += ` LIMIT ?`
		args = append(args, filter.Limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list jobs: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var jobs []*domain.Job
	for rows.Next() {
		job, err := scanJob(rows)
		if err != nil {
			return nil, err
		}
		jobs = append(jobs, job)
	}
	return jobs, rows.Err()
}

// QueuePosition is 1 for the next job to be claimed and 0 for jobs that are
// no longer queued.
func (s *Store) QueuePosition(ctx context.Context, id int64) (int, error) {
	var status string
	err := s.db.QueryRowContext(ctx, `SELECT status FROM jobs WHERE id = ?`, id).Scan(&status)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, domain.ErrNotFound
		}
		return 0, err
	}
	if domain.JobStatus(status) != domain.JobStatusQueued {
		return 0, nil
	}

	var ahead int
	if err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM jobs WHERE status = 'queued' AND id < ?`, id).Scan(&ahead); err != nil {
		return 0, fmt.Errorf("count queue: %w", err)
	}
	return ahead + 1, nil
}

func (s *Store) FetchOldestQueued(ctx context.Context) (*domain.Job, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+jobColumns+` FROM jobs WHERE status = 'queued' ORDER BY id ASC LIMIT 1`)
	job, err := scanJob(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return job, nil
}

func (s *Store) MarkProcessing(ctx context.Context, id int64, workerID string) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE jobs SET status = 'processing', status_text = 'processing', claimed_by = ?, claimed_at = ?
		WHERE id = ? AND status = 'queued'`,
		workerID, formatTime(time.Now()), id)
	if err != nil {
		return fmt.Errorf("claim job %d: %w", id, err)
	}
	return s.guarded(ctx, res, id, domain.ErrAlreadyClaimed)
}

func (s *Store) MarkFinished(ctx context.Context, id int64, result domain.JobResult) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE jobs SET status = 'finished', status_text = 'finished', final_url = ?, thumbnail_url = ?,
			logs = ?, finished_at = ?
		WHERE id = ? AND status = 'processing'`,
		result.FinalURL, result.ThumbnailURL, result.Logs, formatTime(time.Now()), id)
	if err != nil {
		return fmt.Errorf("finish job %d: %w", id, err)
	}
	return s.guarded(ctx, res, id, domain.ErrInvalidTransition)
}

func (s *Store) MarkError(ctx context.Context, id int64, message, logs string) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE jobs SET status = 'error', status_text = ?, logs = ?, finished_at = ?
		WHERE id = ? AND status = 'processing'`,
		message, logs, formatTime(time.Now()), id)
	if err != nil {
		return fmt.Errorf("fail job %d: %w", id, err)
	}
	return s.guarded(ctx, res, id, domain.ErrInvalidTransition)
}

func (s *Store) ReapStale(ctx context.Context, claimedBefore time.Time) (int64, error) {
	res, err := s.db.ExecContext(ctx, `
		UPDATE jobs SET status = 'error', status_text = ?, finished_at = ?
		WHERE status = 'processing' AND claimed_at < ?`,
		abandonedText, formatTime(time.Now()), formatTime(claimedBefore))
	if err != nil {
		return 0, fmt.Errorf("reap stale jobs: %w", err)
	}
	return res.RowsAffected()
}

// guarded turns a conditional update that touched no row into ErrNotFound
// when the job is missing, or into lost otherwise.
func (s *Store) guarded(ctx context.Context, res sql.Result, id int64, lost error) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 1 {
		return nil
	}
	var exists int
	err = s.db.QueryRowContext(ctx, `SELECT 1 FROM jobs WHERE id = ?`, id).Scan(&exists)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.ErrNotFound
	}
	if err != nil {
		return err
	}
	return lost
}

type scanner interface {
	Scan(dest ...any) error
}

func scanJob(row scanner) (*domain.Job, error) {
	var (
		job                   domain.Job
		steps, status         string
		createdAt             string
		claimedAt, finishedAt sql.NullString
	)
	err := row.Scan(&job.ID, &job.ArchiveID, &job.RunID, &job.SourceURL, &job.ArchiveURL, &steps,
		&status, &job.StatusText, &job.FinalURL, &job.ThumbnailURL, &job.Logs, &job.ClaimedBy,
		&createdAt, &claimedAt, &finishedAt)
	if err != nil {
		return nil, err
	}

	job.Status = domain.JobStatus(status)
	if err := json.Unmarshal([]byte(steps), &job.Steps); err != nil {
		return nil, fmt.Errorf("decode steps of job %d: %w", job.ID, err)
	}
	if job.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, fmt.Errorf("parse created_at of job %d: %w", job.ID, err)
	}
	if job.ClaimedAt, err = parseNullTime(claimedAt); err != nil {
		return nil, fmt.Errorf("parse claimed_at of job %d: %w", job.ID, err)
	}
	if job.FinishedAt, err = parseNullTime(finishedAt); err != nil {
		return nil, fmt.Errorf("parse finished_at of job %d: %w", job.ID, err)
	}
	return &job, nil
}

func parseNullTime(s sql.NullString) (*time.Time, error) {
	if !s.Valid || s.String == "" {
		return nil, nil
	}
	t, err := parseTime(s.String)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

var _ port.JobStore = (*Store)(nil)
