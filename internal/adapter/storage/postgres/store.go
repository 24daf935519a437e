package postgres

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"

	"github.com/bnema/renderfarm/internal/domain"
	"github.com/bnema/renderfarm/internal/port"
)

//go:embed migrations/*.sql
var migrations embed.FS

const abandonedText = "abandoned: worker lost"

const jobColumns = `id, archive_id, run_id, source_url, archive_url, steps, status, status_text,
	final_url, thumbnail_url, logs, claimed_by, created_at, claimed_at, finished_at`

type Store struct {
	pool *pgxpool.Pool
}

// Connect creates a connection pool to PostgreSQL and applies pending
// migrations.
func Connect(ctx context.Context, databaseURL string, maxConns int32) (*Store, error) {
	cfg, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse database url: %w", err)
	}
	if maxConns > 0 {
		cfg.MaxConns = maxConns
	}

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("create pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := Migrate(ctx, pool); err != nil {
		pool.Close()
		return nil, err
	}
	return &Store{pool: pool}, nil
}

// Migrate runs the embedded goose migrations through a database/sql view of
// the pool.
func Migrate(ctx context.Context, pool *pgxpool.Pool) error {
	db := stdlib.OpenDBFromPool(pool)
	defer func() { _ = db.Close() }()

	goose.SetBaseFS(migrations)
	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("set goose dialect: %w", err)
	}
	if err := goose.UpContext(ctx, db, "migrations"); err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}
	return nil
}

func (s *Store) Close() error {
	s.pool.Close()
	return nil
}

func (s *Store) Enqueue(ctx context.Context, job *domain.Job) (*domain.Job, error) {
	if job.CreatedAt.IsZero() {
		job.CreatedAt = time.Now().UTC()
	}
	steps := job.Steps
	if steps == nil {
		steps = []string{}
	}
	row := s.pool.QueryRow(ctx, `
		INSERT INTO jobs (archive_id, run_id, source_url, archive_url, steps, status, status_text, created_at)
		VALUES ($1, $2, $3, $4, $5, 'queued', $6, $7)
		RETURNING `+jobColumns,
		job.ArchiveID, job.RunID, job.SourceURL, job.ArchiveURL, steps, job.StatusText, job.CreatedAt)
	saved, err := scanJob(row)
	if err != nil {
		return nil, fmt.Errorf("insert job: %w", err)
	}
	return saved, nil
}

func (s *Store) Get(ctx context.Context, id int64) (*domain.Job, error) {
	job, err := scanJob(s.pool.QueryRow(ctx, `SELECT `+jobColumns+` FROM jobs WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
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
		args = append(args, string(filter.Status))
		query += fmt.Sprintf(` WHERE status = $%d`, len(args))
	}
	query += ` ORDER BY id DESC`
	if filter.Limit > 0 {
		args = append(args, filter.Limit)
		query += fmt.Sprintf(` LIMIT $%d`, len(args))
	}

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list jobs: %w", err)
	}
	defer rows.Close()

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

func (s *Store) QueuePosition(ctx context.Context, id int64) (int, error) {
	var status string
	if err := s.pool.QueryRow(ctx, `SELECT status FROM jobs WHERE id = $1`, id).Scan(&status); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, domain.ErrNotFound
		}
		return 0, err
	}
	if domain.JobStatus(status) != domain.JobStatusQueued {
		return 0, nil
	}

	var ahead int
	if err := s.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM jobs WHERE status = 'queued' AND id < $1`, id).Scan(&ahead); err != nil {
		return 0, fmt.Errorf("count queue: %w", err)
	}
	return ahead + 1, nil
}

func (s *Store) FetchOldestQueued(ctx context.Context) (*domain.Job, error) {
	job, err := scanJob(s.pool.QueryRow(ctx,
		`SELECT `+jobColumns+` FROM jobs WHERE status = 'queued' ORDER BY id ASC LIMIT 1`))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return job, nil
}

func (s *Store) MarkProcessing(ctx context.Context, id int64, workerID string) error {
	tag, err := s.pool.Exec(ctx, `
		UPDATE jobs SET status = 'processing', status_text = 'processing', claimed_by = $1, claimed_at = NOW()
		WHERE id = $2 AND status = 'queued'`, workerID, id)
	if err != nil {
		return fmt.Errorf("claim job %d: %w", id, err)
	}
	return s.guarded(ctx, tag, id, domain.ErrAlreadyClaimed)
}

func (s *Store) MarkFinished(ctx context.Context, id int64, result domain.JobResult) error {
	tag, err := s.pool.Exec(ctx, `
		UPDATE jobs SET status = 'finished', status_text = 'finished', final_url = $1, thumbnail_url = $2,
			logs = $3, finished_at = NOW()
		WHERE id = $4 AND status = 'processing'`,
		result.FinalURL, result.ThumbnailURL, result.Logs, id)
	if err != nil {
		return fmt.Errorf("finish job %d: %w", id, err)
	}
	return s.guarded(ctx, tag, id, domain.ErrInvalidTransition)
}

func (s *Store) MarkError(ctx context.Context, id int64, message, logs string) error {
	tag, err := s.pool.Exec(ctx, `
		UPDATE jobs SET status = 'error', status_text = $1, logs = $2, finished_at = NOW()
		WHERE id = $3 AND status = 'processing'`, message, logs, id)
	if err != nil {
		return fmt.Errorf("fail job %d: %w", id, err)
	}
	return s.guarded(ctx, tag, id, domain.ErrInvalidTransition)
}

func (s *Store) ReapStale(ctx context.Context, claimedBefore time.Time) (int64, error) {
	tag, err := s.pool.Exec(ctx, `
		UPDATE jobs SET status = 'error', status_text = $1, finished_at = NOW()
		WHERE status = 'processing' AND claimed_at < $2`, abandonedText, claimedBefore)
	if err != nil {
		return 0, fmt.Errorf("reap stale jobs: %w", err)
	}
	return tag.RowsAffected(), nil
}

func (s *Store) guarded(ctx context.Context, tag pgconn.CommandTag, id int64, lost error) error {
	if tag.RowsAffected() == 1 {
		return nil
	}
	var exists bool
	if err := s.pool.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM jobs WHERE id = $1)`, id).Scan(&exists); err != nil {
		return err
	}
	if !exists {
		return domain.ErrNotFound
	}
	return lost
}

func scanJob(row pgx.Row) (*domain.Job, error) {
	var (
		job    domain.Job
		status string
	)
	err := row.Scan(&job.ID, &job.ArchiveID, &job.RunID, &job.SourceURL, &job.ArchiveURL, &job.Steps,
		&status, &job.StatusText, &job.FinalURL, &job.ThumbnailURL, &job.Logs, &job.ClaimedBy,
		&job.CreatedAt, &job.ClaimedAt, &job.FinishedAt)
	if err != nil {
		return nil, err
	}
	job.Status = domain.JobStatus(status)
	job.CreatedAt = job.CreatedAt.UTC()
	return &job, nil
}

var _ port.JobStore = (*Store)(nil)
