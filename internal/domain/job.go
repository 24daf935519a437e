package domain

import (
	"errors"
	"path"
	"strconv"
	"strings"
	"time"
)

type JobStatus string

const (
	JobStatusQueued     JobStatus = "queued"
	JobStatusProcessing JobStatus = "processing"
	JobStatusFinished   JobStatus = "finished"
	JobStatusError      JobStatus = "error"
)

func (s JobStatus) Valid() bool {
	switch s {
	case JobStatusQueued, JobStatusProcessing, JobStatusFinished, JobStatusError:
		return true
	}
	return false
}

func (s JobStatus) IsTerminal() bool {
	return s == JobStatusFinished || s == JobStatusError
}

// CanTransitionTo reports whether next is a legal successor of s.
// Statuses only move forward: queued -> processing -> finished | error.
func (s JobStatus) CanTransitionTo(next JobStatus) bool {
	switch s {
	case JobStatusQueued:
		return next == JobStatusProcessing
	case JobStatusProcessing:
		return next == JobStatusFinished || next == JobStatusError
	}
	return false
}

func ParseJobStatus(s string) (JobStatus, error) {
	st := JobStatus(strings.ToLower(strings.TrimSpace(s)))
	if !st.Valid() {
		return "", errors.New("unknown job status: " + s)
	}
	return st, nil
}

type Job struct {
	ID           int64      `json:"id"`
	ArchiveID    string     `json:"archive_id"`
	RunID        string     `json:"run_id"`
	SourceURL    string     `json:"source_url"`
	ArchiveURL   string     `json:"archive_url,omitempty"`
	Steps        []string   `json:"steps"`
	Status       JobStatus  `json:"status"`
	StatusText   string     `json:"status_text"`
	FinalURL     string     `json:"final_url,omitempty"`
	ThumbnailURL string     `json:"thumbnail_url,omitempty"`
	Logs         string     `json:"logs,omitempty"`
	ClaimedBy    string     `json:"claimed_by,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	ClaimedAt    *time.Time `json:"claimed_at,omitempty"`
	FinishedAt   *time.Time `json:"finished_at,omitempty"`
}

// NewJob builds a queued job. The store assigns the id.
func NewJob(archiveID, runID, sourceURL, archiveURL string, steps []string) (*Job, error) {
	archiveID = strings.TrimSpace(archiveID)
	runID = strings.TrimSpace(runID)
	sourceURL = strings.TrimSpace(sourceURL)
	switch {
	case archiveID == "":
		return nil, errors.New("archive id is required")
	case runID == "":
		return nil, errors.New("run id is required")
	case sourceURL == "":
		return nil, errors.New("source url is required")
	}
	if strings.ContainsAny(archiveID, "/\\") {
		return nil, errors.New("archive id must not contain path separators")
	}

	cp := make([]string, len(steps))
	copy(cp, steps)

	return &Job{
		ArchiveID:  archiveID,
		RunID:      runID,
		SourceURL:  sourceURL,
		ArchiveURL: strings.TrimSpace(archiveURL),
		Steps:      cp,
		Status:     JobStatusQueued,
		StatusText: "queued",
		CreatedAt:  time.Now().UTC(),
	}, nil
}

// SourceRef is the URL the pipeline fetches. The archived copy wins when present.
func (j *Job) SourceRef() string {
	if j.ArchiveURL != "" {
		return j.ArchiveURL
	}
	return j.SourceURL
}

// RemoteKey returns the artifact key for a file belonging to this job.
func (j *Job) RemoteKey(name string) string {
	return path.Join(j.ArchiveID, strconv.FormatInt(j.ID, 10), name)
}

type JobResult struct {
	FinalURL     string
	ThumbnailURL string
	Logs         string
}

type JobFilter struct {
	Status JobStatus
	Limit  int
}

// StatusEvent is what reporters receive on every status change.
type StatusEvent struct {
	JobID        int64     `json:"job_id"`
	ArchiveID    string    `json:"archive_id"`
	RunID        string    `json:"run_id"`
	Status       JobStatus `json:"status"`
	Message      string    `json:"message"`
	SourceURL    string    `json:"source_url,omitempty"`
	FinalURL     string    `json:"final_url,omitempty"`
	ThumbnailURL string    `json:"thumbnail_url,omitempty"`
	At           time.Time `json:"at"`
}

func NewStatusEvent(j *Job, status JobStatus, message string) StatusEvent {
	return StatusEvent{
		JobID:     j.ID,
		ArchiveID: j.ArchiveID,
		RunID:     j.RunID,
		Status:    status,
		Message:   message,
		SourceURL: j.SourceURL,
		At:        time.Now().UTC(),
	}
}
