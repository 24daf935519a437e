package port

import (
	"context"
	"time"

	"github.com/bnema/renderfarm/internal/domain"
)

// JobStore is the durable job table.
//
// MarkProcessing is a compare-and-swap on status=queued and returns
// domain.ErrAlreadyClaimed when another worker won. MarkFinished and MarkError
// only apply to processing jobs and return domain.ErrInvalidTransition
// otherwise. FetchOldestQueued returns domain.ErrNotFound on an empty queue.
type JobStore interface {
	Enqueue(ctx context.Context, job *domain.Job) (*domain.Job, error)
	Get(ctx context.Context, id int64) (*domain.Job, error)
	List(ctx context.Context, filter domain.JobFilter) ([]*domain.Job, error)
	QueuePosition(ctx context.Context, id int64) (int, error)
	FetchOldestQueued(ctx context.Context) (*domain.Job, error)
	MarkProcessing(ctx context.Context, id int64, workerID string) error
	MarkFinished(ctx context.Context, id int64, result domain.JobResult) error
	MarkError(ctx context.Context, id int64, message, logs string) error
	ReapStale(ctx context.Context, claimedBefore time.Time) (int64, error)
	Close() error
}
