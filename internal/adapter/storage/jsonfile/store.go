package jsonfile

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/gofrs/flock"

	"github.com/bnema/renderfarm/internal/domain"
	"github.com/bnema/renderfarm/internal/port"
)

const abandonedText = "abandoned: worker lost"

// document is the on-disk layout.
type document struct {
	NextID int64         `json:"next_id"`
	Jobs   []*domain.Job `json:"jobs"`
}

// Store keeps every job in a single JSON file. Each read-modify-write holds
// an exclusive file lock, so several worker processes can share one file.
type Store struct {
	mu   sync.Mutex
	path string
	lock *flock.Flock
}

func NewStore(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return nil, fmt.Errorf("create store dir: %w", err)
	}

	store := &Store{
		path: path,
		lock: flock.New(path + ".lock"),
	}

	// Fail early on a corrupt file.
	if err := store.view(func(*document) error { return nil }); err != nil {
		return nil, err
	}
	return store, nil
}

func (s *Store) load() (*document, error) {
	doc := &document{NextID: 1}

	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return doc, nil
		}
		return nil, err
	}
	if len(data) == 0 {
		return doc, nil
	}

	if err := json.Unmarshal(data, doc); err != nil {
		return nil, fmt.Errorf("decode %s: %w", filepath.Base(s.path), err)
	}
	if doc.NextID < 1 {
		doc.NextID = 1
	}
	return doc, nil
}

func (s *Store) save(doc *document) error {
	tmpPath := s.path + ".tmp"

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return err
	}

	if err := os.WriteFile(tmpPath, data, 0o600); err != nil {
		return err
	}

	return os.Rename(tmpPath, s.path)
}

func (s *Store) view(fn func(doc *document) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.lock.RLock(); err != nil {
		return fmt.Errorf("lock store: %w", err)
	}
	defer func() { _ = s.lock.Unlock() }()

	doc, err := s.load()
	if err != nil {
		return err
	}
	return fn(doc)
}

// update persists doc only when fn succeeds.
func (s *Store) update(fn func(doc *document) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.lock.Lock(); err != nil {
		return fmt.Errorf("lock store: %w", err)
	}
	defer func() { _ = s.lock.Unlock() }()

	doc, err := s.load()
	if err != nil {
		return err
	}
	if err := fn(doc); err != nil {
		return err
	}
	return s.save(doc)
}

func (d *document) find(id int64) *domain.Job {
	for _, j := range d.Jobs {
		if j.ID == id {
			return j
		}
	}
	return nil
}

func clone(j *domain.Job) *domain.Job {
	cp := *j
	cp.Steps = append([]string(nil), j.Steps...)
	return &cp
}

func (s *Store) Enqueue(_ context.Context, job *domain.Job) (*domain.Job, error) {
	var saved *domain.Job
	err := s.update(func(doc *document) error {
		j := clone(job)
		j.ID = doc.NextID
		j.Status = domain.JobStatusQueued
		if j.CreatedAt.IsZero() {
			j.CreatedAt = time.Now().UTC()
		}
		doc.NextID++
		doc.Jobs = append(doc.Jobs, j)
		saved = clone(j)
		return nil
	})
	return saved, err
}

func (s *Store) Get(_ context.Context, id int64) (*domain.Job, error) {
	var found *domain.Job
	err := s.view(func(doc *document) error {
		j := doc.find(id)
		if j == nil {
			return domain.ErrNotFound
		}
		found = j
		return nil
	})
	return found, err
}

func (s *Store) List(_ context.Context, filter domain.JobFilter) ([]*domain.Job, error) {
	var jobs []*domain.Job
	err := s.view(func(doc *document) error {
		for _, j := range doc.Jobs {
			if filter.Status == "" || j.Status == filter.Status {
				jobs = append(jobs, j)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Slice(jobs, func(a, b int) bool { return jobs[a].ID > jobs[b].ID })
	if filter.Limit > 0 && len(jobs) > filter.Limit {
		jobs = jobs[:filter.Limit]
	}
	return jobs, nil
}

func (s *Store) QueuePosition(_ context.Context, id int64) (int, error) {
	pos := 0
	err := s.view(func(doc *document) error {
		j := doc.find(id)
		if j == nil {
			return domain.ErrNotFound
		}
		if j.Status != domain.JobStatusQueued {
			return nil
		}
		pos = 1
		for _, other := range doc.Jobs {
			if other.Status == domain.JobStatusQueued && other.ID < id {
				pos++
			}
		}
		return nil
	})
	return pos, err
}

func (s *Store) FetchOldestQueued(_ context.Context) (*domain.Job, error) {
	var oldest *domain.Job
	err := s.view(func(doc *document) error {
		for _, j := range doc.Jobs {
			if j.Status == domain.JobStatusQueued && (oldest == nil || j.ID < oldest.ID) {
				oldest = j
			}
		}
		if oldest == nil {
			return domain.ErrNotFound
		}
		return nil
	})
	return oldest, err
}

func (s *Store) MarkProcessing(_ context.Context, id int64, workerID string) error {
	return s.update(func(doc *document) error {
		j := doc.find(id)
		if j == nil {
			return domain.ErrNotFound
		}
		if j.Status != domain.JobStatusQueued {
			return domain.ErrAlreadyClaimed
		}
		now := time.Now().UTC()
		j.Status = domain.JobStatusProcessing
		j.StatusText = "processing"
		j.ClaimedBy = workerID
		j.ClaimedAt = &now
		return nil
	})
}

func (s *Store) MarkFinished(_ context.Context, id int64, result domain.JobResult) error {
	return s.finish(id, func(j *domain.Job) {
		j.Status = domain.JobStatusFinished
		j.StatusText = "finished"
		j.FinalURL = result.FinalURL
		j.ThumbnailURL = result.ThumbnailURL
		j.Logs = result.Logs
	})
}

func (s *Store) MarkError(_ context.Context, id int64, message, logs string) error {
	return s.finish(id, func(j *domain.Job) {
		j.Status = domain.JobStatusError
		j.StatusText = message
		j.Logs = logs
	})
}

func (s *Store) finish(id int64, apply func(j *domain.Job)) error {
	return s.update(func(doc *document) error {
		j := doc.find(id)
		if j == nil {
			return domain.ErrNotFound
		}
		if j.Status != domain.JobStatusProcessing {
			return domain.ErrInvalidTransition
		}
		now := time.Now().UTC()
		apply(j)
		j.FinishedAt = &now
		return nil
	})
}

func (s *Store) ReapStale(_ context.Context, claimedBefore time.Time) (int64, error) {
	var n int64
	err := s.update(func(doc *document) error {
		now := time.Now().UTC()
		for _, j := range doc.Jobs {
			if j.Status != domain.JobStatusProcessing || j.ClaimedAt == nil || !j.ClaimedAt.Before(claimedBefore) {
				continue
			}
			j.Status = domain.JobStatusError
			j.StatusText = abandonedText
			j.FinishedAt = &now
			n++
		}
		return nil
	})
	return n, err
}

func (s *Store) Close() error {
	return s.lock.Close()
}

var _ port.JobStore = (*Store)(nil)
