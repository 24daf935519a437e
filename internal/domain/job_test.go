package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewJob(t *testing.T) {
	tests := []struct {
		name      string
		archiveID string
		runID     string
		sourceURL string
		wantErr   bool
	}{
		{name: "valid", archiveID: "arch-1", runID: "run-1", sourceURL: "https://example.com/a.mp4"},
		{name: "missing archive", runID: "run-1", sourceURL: "https://example.com/a.mp4", wantErr: true},
		{name: "missing run", archiveID: "arch-1", sourceURL: "https://example.com/a.mp4", wantErr: true},
		{name: "missing url", archiveID: "arch-1", runID: "run-1", wantErr: true},
		{name: "archive with slash", archiveID: "a/b", runID: "r", sourceURL: "https://x", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			job, err := NewJob(tt.archiveID, tt.runID, tt.sourceURL, "", []string{"hflip"})
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, JobStatusQueued, job.Status)
			assert.Equal(t, []string{"hflip"}, job.Steps)
			assert.False(t, job.CreatedAt.IsZero())
		})
	}
}

func TestNewJob_CopiesSteps(t *testing.T) {
	steps := []string{"hflip", "speed2"}
	job, err := NewJob("a", "r", "https://x", "", steps)
	require.NoError(t, err)

	steps[0] = "changed"
	assert.Equal(t, "hflip", job.Steps[0])
}

func TestJob_SourceRef(t *testing.T) {
	job := &Job{SourceURL: "https://social/post"}
	assert.Equal(t, "https://social/post", job.SourceRef())

	job.ArchiveURL = "https://archive/post.mp4"
	assert.Equal(t, "https://archive/post.mp4", job.SourceRef())
}

func TestJob_RemoteKey(t *testing.T) {
	job := &Job{ID: 42, ArchiveID: "arch"}
	assert.Equal(t, "arch/42/render.mp4", job.RemoteKey("render.mp4"))
}

func TestJobStatus_CanTransitionTo(t *testing.T) {
	tests := []struct {
		from, to JobStatus
		want     bool
	}{
		{JobStatusQueued, JobStatusProcessing, true},
		{JobStatusQueued, JobStatusFinished, false},
		{JobStatusQueued, JobStatusError, false},
		{JobStatusProcessing, JobStatusFinished, true},
		{JobStatusProcessing, JobStatusError, true},
		{JobStatusProcessing, JobStatusQueued, false},
		{JobStatusFinished, JobStatusProcessing, false},
		{JobStatusFinished, JobStatusError, false},
		{JobStatusError, JobStatusQueued, false},
		{JobStatusError, JobStatusProcessing, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.from)+"->"+string(tt.to), func(t *testing.T) {
			assert.Equal(t, tt.want, tt.from.CanTransitionTo(tt.to))
		})
	}
}

func TestParseJobStatus(t *testing.T) {
	st, err := ParseJobStatus(" Finished ")
	require.NoError(t, err)
	assert.Equal(t, JobStatusFinished, st)

	_, err = ParseJobStatus("done")
	assert.Error(t, err)
}
