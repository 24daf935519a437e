package service

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/bnema/renderfarm/internal/domain"
	"github.com/bnema/renderfarm/internal/port/mocks"
)

type runnerFunc func(ctx context.Context, job *domain.Job, workDir string) (domain.JobResult, error)

func (f runnerFunc) Run(ctx context.Context, job *domain.Job, workDir string) (domain.JobResult, error) {
	return f(ctx, job, workDir)
}

func newTestWorker(t *testing.T, runner JobRunner, opts WorkerOptions) (*Worker, *mocks.JobStoreMock, *mocks.StatusReporterMock, *Workspace) {
	t.Helper()
	store := mocks.NewJobStoreMock(t)
	reporter := mocks.NewStatusReporterMock(t)
	ws, err := OpenWorkspace(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { _ = ws.Close() })
	if opts.ID == "" {
		opts.ID = "w1"
	}
	return NewWorker(store, runner, reporter, ws, opts), store, reporter, ws
}

func statusIs(s domain.JobStatus) interface{} {
	return mock.MatchedBy(func(ev domain.StatusEvent) bool { return ev.Status == s })
}

func TestWorker_ClaimNextRetriesLostRace(t *testing.T) {
	w, store, _, _ := newTestWorker(t, nil, WorkerOptions{})
	ctx := context.Background()

	store.EXPECT().FetchOldestQueued(ctx).Return(&domain.Job{ID: 1, Status: domain.JobStatusQueued}, nil).Once()
	store.EXPECT().MarkProcessing(ctx, int64(1), "w1").Return(domain.ErrAlreadyClaimed).Once()
	store.EXPECT().FetchOldestQueued(ctx).Return(&domain.Job{ID: 2, Status: domain.JobStatusQueued}, nil).Once()
	store.EXPECT().MarkProcessing(ctx, int64(2), "w1").Return(nil).Once()

	job, err := w.ClaimNext(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), job.ID)
	assert.Equal(t, domain.JobStatusProcessing, job.Status)
	assert.Equal(t, "w1", job.ClaimedBy)
}

func TestWorker_RunOnceEmptyQueue(t *testing.T) {
	w, store, _, _ := newTestWorker(t, nil, WorkerOptions{})
	store.EXPECT().FetchOldestQueued(mock.Anything).Return(nil, domain.ErrNotFound)

	processed, err := w.RunOnce(context.Background())
	assert.NoError(t, err)
	assert.False(t, processed)
}

func TestWorker_RunOnceSuccess(t *testing.T) {
	var workDir string
	runner := runnerFunc(func(_ context.Context, job *domain.Job, dir string) (domain.JobResult, error) {
		workDir = dir
		assert.DirExists(t, dir)
		return domain.JobResult{FinalURL: "https://cdn/a/5/render.mp4", Logs: "ok"}, nil
	})
	w, store, reporter, _ := newTestWorker(t, runner, WorkerOptions{})

	store.EXPECT().FetchOldestQueued(mock.Anything).Return(&domain.Job{ID: 5, ArchiveID: "a"}, nil)
	store.EXPECT().MarkProcessing(mock.Anything, int64(5), "w1").Return(nil)
	store.EXPECT().MarkFinished(mock.Anything, int64(5), domain.JobResult{FinalURL: "https://cdn/a/5/render.mp4", Logs: "ok"}).Return(nil)
	reporter.EXPECT().Report(mock.Anything, statusIs(domain.JobStatusProcessing)).Return().Once()
	reporter.EXPECT().Report(mock.Anything, mock.MatchedBy(func(ev domain.StatusEvent) bool {
		return ev.Status == domain.JobStatusFinished && ev.FinalURL == "https://cdn/a/5/render.mp4"
	})).Return().Once()

	processed, err := w.RunOnce(context.Background())
	require.NoError(t, err)
	assert.True(t, processed)
	assert.NoDirExists(t, workDir, "scratch dir removed after the job")
}

func TestWorker_RunOnceFailure(t *testing.T) {
	var workDir string
	runner := runnerFunc(func(_ context.Context, _ *domain.Job, dir string) (domain.JobResult, error) {
		workDir = dir
		return domain.JobResult{Logs: "diag"}, &domain.StepError{Index: 0, Token: "bogus", Err: errors.New("unknown operation")}
	})
	w, store, reporter, _ := newTestWorker(t, runner, WorkerOptions{})

	store.EXPECT().FetchOldestQueued(mock.Anything).Return(&domain.Job{ID: 9}, nil)
	store.EXPECT().MarkProcessing(mock.Anything, int64(9), "w1").Return(nil)
	store.EXPECT().MarkError(mock.Anything, int64(9), `step 0 ("bogus"): unknown operation`, "diag").Return(nil)
	reporter.EXPECT().Report(mock.Anything, statusIs(domain.JobStatusProcessing)).Return().Once()
	reporter.EXPECT().Report(mock.Anything, statusIs(domain.JobStatusError)).Return().Once()

	processed, err := w.RunOnce(context.Background())
	require.NoError(t, err)
	assert.True(t, processed)
	assert.NoDirExists(t, workDir)
}

func TestWorker_KeepsFailedWorkdir(t *testing.T) {
	var workDir string
	runner := runnerFunc(func(_ context.Context, _ *domain.Job, dir string) (domain.JobResult, error) {
		workDir = dir
		return domain.JobResult{}, errors.New("boom")
	})
	w, store, reporter, _ := newTestWorker(t, runner, WorkerOptions{KeepFailedWorkdirs: true})

	store.EXPECT().FetchOldestQueued(mock.Anything).Return(&domain.Job{ID: 3}, nil)
	store.EXPECT().MarkProcessing(mock.Anything, int64(3), "w1").Return(nil)
	store.EXPECT().MarkError(mock.Anything, int64(3), "boom", "").Return(nil)
	reporter.EXPECT().Report(mock.Anything, mock.Anything).Return()

	_, err := w.RunOnce(context.Background())
	require.NoError(t, err)
	assert.DirExists(t, workDir)
}

func TestWorker_TerminalWriteFailureIsReturned(t *testing.T) {
	runner := runnerFunc(func(context.Context, *domain.Job, string) (domain.JobResult, error) {
		return domain.JobResult{FinalURL: "u"}, nil
	})
	w, store, reporter, _ := newTestWorker(t, runner, WorkerOptions{})

	store.EXPECT().FetchOldestQueued(mock.Anything).Return(&domain.Job{ID: 4}, nil)
	store.EXPECT().MarkProcessing(mock.Anything, int64(4), "w1").Return(nil)
	store.EXPECT().MarkFinished(mock.Anything, int64(4), mock.Anything).Return(domain.ErrInvalidTransition)
	reporter.EXPECT().Report(mock.Anything, statusIs(domain.JobStatusProcessing)).Return().Once()

	processed, err := w.RunOnce(context.Background())
	assert.True(t, processed)
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
}

func TestWorker_InFlightJobSurvivesCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	runner := runnerFunc(func(jobCtx context.Context, _ *domain.Job, _ string) (domain.JobResult, error) {
		cancel()
		assert.NoError(t, jobCtx.Err(), "job context is detached from shutdown")
		return domain.JobResult{FinalURL: "u"}, nil
	})
	w, store, reporter, _ := newTestWorker(t, runner, WorkerOptions{})

	store.EXPECT().FetchOldestQueued(mock.Anything).Return(&domain.Job{ID: 8}, nil).Once()
	store.EXPECT().MarkProcessing(mock.Anything, int64(8), "w1").Return(nil)
	store.EXPECT().MarkFinished(mock.Anything, int64(8), mock.Anything).Return(nil)
	reporter.EXPECT().Report(mock.Anything, mock.Anything).Return()

	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("worker did not stop")
	}
}

func TestWorker_RunSweepsAndReapsOnStart(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	w, store, _, ws := newTestWorker(t, nil, WorkerOptions{ReapAfter: time.Hour, PollMin: time.Millisecond})

	leftover := ws.Root() + "/job-1-dead"
	require.NoError(t, os.Mkdir(leftover, 0o750))

	store.EXPECT().ReapStale(mock.Anything, mock.MatchedBy(func(before time.Time) bool {
		return time.Since(before) > 59*time.Minute
	})).Return(int64(2), nil).Once()
	store.EXPECT().FetchOldestQueued(mock.Anything).RunAndReturn(func(context.Context) (*domain.Job, error) {
		cancel()
		return nil, domain.ErrNotFound
	})

	require.NoError(t, w.Run(ctx))
	assert.NoDirExists(t, leftover)
}
