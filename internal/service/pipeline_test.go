package service

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/bnema/renderfarm/internal/domain"
	"github.com/bnema/renderfarm/internal/port/mocks"
	"github.com/bnema/renderfarm/internal/step"
)

type pipelineMocks struct {
	fetcher   *mocks.FetcherMock
	probe     *mocks.MetadataProbeMock
	executor  *mocks.StepExecutorMock
	poster    *mocks.PosterRendererMock
	artifacts *mocks.ArtifactStoreMock
}

func newPipelineMocks(t *testing.T) (*Pipeline, pipelineMocks) {
	m := pipelineMocks{
		fetcher:   mocks.NewFetcherMock(t),
		probe:     mocks.NewMetadataProbeMock(t),
		executor:  mocks.NewStepExecutorMock(t),
		poster:    mocks.NewPosterRendererMock(t),
		artifacts: mocks.NewArtifactStoreMock(t),
	}
	return NewPipeline(m.fetcher, m.probe, m.executor, m.poster, m.artifacts), m
}

var sourceMeta = domain.MediaMetadata{Width: 1080, Height: 1920, Bitrate: 3_000_000, Duration: 12, HasAudio: true}

func testJob(steps ...string) *domain.Job {
	return &domain.Job{
		ID:        7,
		ArchiveID: "arc",
		RunID:     "run",
		SourceURL: "https://cdn.example.com/v.mp4",
		Steps:     steps,
		Status:    domain.JobStatusProcessing,
	}
}

// passThrough makes the executor "produce" the requested output path.
func passThrough(_ context.Context, _ step.Operation, _ string, out string, _ domain.MediaMetadata) (string, error) {
	return out, nil
}

func TestPipeline_RunsStepsInOrder(t *testing.T) {
	p, m := newPipelineMocks(t)
	dir := t.TempDir()
	src := filepath.Join(dir, "source.mp4")

	m.fetcher.EXPECT().Fetch(mock.Anything, "https://cdn.example.com/v.mp4", dir).Return(src, nil)
	m.probe.EXPECT().Probe(mock.Anything, src).Return(sourceMeta, nil).Once()

	var inputs, outputs []string
	m.executor.EXPECT().Execute(mock.Anything, mock.Anything, mock.Anything, mock.Anything, sourceMeta).
		Run(func(_ context.Context, op step.Operation, in, out string, _ domain.MediaMetadata) {
			inputs = append(inputs, in)
			outputs = append(outputs, out)
		}).
		RunAndReturn(func(ctx context.Context, op step.Operation, in, out string, meta domain.MediaMetadata) (string, error) {
			if f, ok := op.(step.Format); ok {
				return out[:len(out)-len(filepath.Ext(out))] + f.Extension(), nil
			}
			return out, nil
		}).Times(3)

	final := filepath.Join(dir, "step-02-format.webm")
	m.artifacts.EXPECT().Upload(mock.Anything, final, "arc/7/render.webm").Return("https://cdn/arc/7/render.webm", nil)
	m.poster.EXPECT().Poster(mock.Anything, final, filepath.Join(dir, "thumbnail.jpg"), 1.0).Return(nil)
	m.artifacts.EXPECT().Upload(mock.Anything, filepath.Join(dir, "thumbnail.jpg"), "arc/7/thumbnail.jpg").
		Return("https://cdn/arc/7/thumbnail.jpg", nil)

	res, err := p.Run(context.Background(), testJob("hflip", "speed1.10", "format:webm"), dir)
	require.NoError(t, err)

	assert.Equal(t, "https://cdn/arc/7/render.webm", res.FinalURL)
	assert.Equal(t, "https://cdn/arc/7/thumbnail.jpg", res.ThumbnailURL)
	assert.Equal(t, []string{src, outputs[0], outputs[1]}, inputs, "each step consumes the previous output")
	assert.Equal(t, []string{
		filepath.Join(dir, "step-00-flip.mp4"),
		filepath.Join(dir, "step-01-speed.mp4"),
		filepath.Join(dir, "step-02-format.mp4"),
	}, outputs)
	assert.Contains(t, res.Logs, "step 1 speed1.1 ok")
	assert.Contains(t, res.Logs, "finished: https://cdn/arc/7/render.webm")
}

func TestPipeline_TracksAddedAudio(t *testing.T) {
	p, m := newPipelineMocks(t)
	dir := t.TempDir()
	src := filepath.Join(dir, "source.mp4")
	silent := sourceMeta
	silent.HasAudio = false

	m.fetcher.EXPECT().Fetch(mock.Anything, mock.Anything, dir).Return(src, nil)
	m.probe.EXPECT().Probe(mock.Anything, src).Return(silent, nil).Once()

	var seen []domain.MediaMetadata
	m.executor.EXPECT().Execute(mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		RunAndReturn(func(ctx context.Context, op step.Operation, in, out string, meta domain.MediaMetadata) (string, error) {
			seen = append(seen, meta)
			return out, nil
		}).Times(3)
	m.artifacts.EXPECT().Upload(mock.Anything, mock.Anything, mock.Anything).Return("u", nil)
	m.poster.EXPECT().Poster(mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(errors.New("no frame"))

	_, err := p.Run(context.Background(), testJob("hflip", "backgroundmusic::50::https://x/m.mp3", "speed1.1"), dir)
	require.NoError(t, err)

	require.Len(t, seen, 3)
	assert.False(t, seen[0].HasAudio)
	assert.False(t, seen[1].HasAudio, "the music step itself reads a silent input")
	assert.True(t, seen[2].HasAudio)

	want := silent
	want.HasAudio = true
	assert.Equal(t, want, seen[2], "geometry and duration stay as probed")
}

func TestPipeline_PrefersArchiveURL(t *testing.T) {
	p, m := newPipelineMocks(t)
	dir := t.TempDir()
	job := testJob()
	job.ArchiveURL = "https://archive/v.mp4"

	m.fetcher.EXPECT().Fetch(mock.Anything, "https://archive/v.mp4", dir).Return(filepath.Join(dir, "v.mp4"), nil)
	m.probe.EXPECT().Probe(mock.Anything, mock.Anything).Return(sourceMeta, nil)
	m.artifacts.EXPECT().Upload(mock.Anything, filepath.Join(dir, "v.mp4"), "arc/7/render.mp4").Return("u", nil)
	m.poster.EXPECT().Poster(mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(errors.New("no frame"))

	res, err := p.Run(context.Background(), job, dir)
	require.NoError(t, err)
	assert.Equal(t, "u", res.FinalURL)
	assert.Empty(t, res.ThumbnailURL, "poster failure does not fail the job")
	assert.Contains(t, res.Logs, "thumbnail skipped")
}

func TestPipeline_UndecodableTokenUploadsNothing(t *testing.T) {
	p, m := newPipelineMocks(t)
	dir := t.TempDir()

	m.fetcher.EXPECT().Fetch(mock.Anything, mock.Anything, dir).Return(filepath.Join(dir, "v.mp4"), nil)
	m.probe.EXPECT().Probe(mock.Anything, mock.Anything).Return(sourceMeta, nil)
	m.executor.EXPECT().Execute(mock.Anything, step.Flip{}, mock.Anything, mock.Anything, mock.Anything).
		RunAndReturn(passThrough).Once()

	res, err := p.Run(context.Background(), testJob("hflip", "sparkle9", "zoom2"), dir)
	require.Error(t, err)

	var stepErr *domain.StepError
	require.True(t, errors.As(err, &stepErr))
	assert.Equal(t, 1, stepErr.Index)
	assert.Equal(t, "sparkle9", stepErr.Token)

	var decErr *step.DecodeError
	require.True(t, errors.As(err, &decErr))
	assert.Equal(t, step.UnknownOperation, decErr.Reason)
	assert.Contains(t, res.Logs, "failed:")
	m.artifacts.AssertNotCalled(t, "Upload", mock.Anything, mock.Anything, mock.Anything)
}

func TestPipeline_ExecutionErrorCarriesStepIndex(t *testing.T) {
	p, m := newPipelineMocks(t)
	dir := t.TempDir()

	m.fetcher.EXPECT().Fetch(mock.Anything, mock.Anything, dir).Return(filepath.Join(dir, "v.mp4"), nil)
	m.probe.EXPECT().Probe(mock.Anything, mock.Anything).Return(sourceMeta, nil)
	m.executor.EXPECT().Execute(mock.Anything, step.Flip{}, mock.Anything, mock.Anything, mock.Anything).
		RunAndReturn(passThrough)
	m.executor.EXPECT().Execute(mock.Anything, step.Zoom{Factor: 2}, mock.Anything, mock.Anything, mock.Anything).
		Return("", &domain.ExecutionError{StepIndex: -1, Kind: "zoom", Diagnostics: "Invalid argument", Err: errors.New("exit status 1")})

	res, err := p.Run(context.Background(), testJob("hflip", "zoom2", "hflip"), dir)

	var execErr *domain.ExecutionError
	require.True(t, errors.As(err, &execErr))
	assert.Equal(t, 1, execErr.StepIndex)
	assert.Equal(t, "step 1 (zoom) failed: exit status 1", err.Error())
	assert.Contains(t, res.Logs, "Invalid argument")
	assert.Empty(t, res.FinalURL)
}

func TestPipeline_PlainExecutorErrorIsWrapped(t *testing.T) {
	p, m := newPipelineMocks(t)
	dir := t.TempDir()

	m.fetcher.EXPECT().Fetch(mock.Anything, mock.Anything, dir).Return(filepath.Join(dir, "v.mp4"), nil)
	m.probe.EXPECT().Probe(mock.Anything, mock.Anything).Return(sourceMeta, nil)
	m.executor.EXPECT().Execute(mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return("", errors.New("boom"))

	_, err := p.Run(context.Background(), testJob("noise5"), dir)

	var execErr *domain.ExecutionError
	require.True(t, errors.As(err, &execErr))
	assert.Equal(t, 0, execErr.StepIndex)
	assert.Equal(t, "noise", execErr.Kind)
}

func TestPipeline_FetchFailure(t *testing.T) {
	p, m := newPipelineMocks(t)
	dir := t.TempDir()

	m.fetcher.EXPECT().Fetch(mock.Anything, mock.Anything, dir).Return("", errors.New("404"))

	_, err := p.Run(context.Background(), testJob("hflip"), dir)

	var fetchErr *domain.FetchError
	require.True(t, errors.As(err, &fetchErr))
	assert.Equal(t, "https://cdn.example.com/v.mp4", fetchErr.URL)
}

func TestPipeline_ProbeFailureRunsNoSteps(t *testing.T) {
	p, m := newPipelineMocks(t)
	dir := t.TempDir()
	src := filepath.Join(dir, "v.mp4")

	m.fetcher.EXPECT().Fetch(mock.Anything, mock.Anything, dir).Return(src, nil)
	m.probe.EXPECT().Probe(mock.Anything, src).Return(domain.MediaMetadata{}, errors.New("no video stream"))

	_, err := p.Run(context.Background(), testJob("hflip"), dir)

	var probeErr *domain.ProbeError
	require.True(t, errors.As(err, &probeErr))
	m.executor.AssertNotCalled(t, "Execute", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestPipeline_UploadFailure(t *testing.T) {
	p, m := newPipelineMocks(t)
	dir := t.TempDir()

	m.fetcher.EXPECT().Fetch(mock.Anything, mock.Anything, dir).Return(filepath.Join(dir, "v.mp4"), nil)
	m.probe.EXPECT().Probe(mock.Anything, mock.Anything).Return(sourceMeta, nil)
	m.executor.EXPECT().Execute(mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).RunAndReturn(passThrough)
	m.artifacts.EXPECT().Upload(mock.Anything, mock.Anything, "arc/7/render.mp4").Return("", errors.New("403"))

	_, err := p.Run(context.Background(), testJob("hflip"), dir)

	var upErr *domain.UploadError
	require.True(t, errors.As(err, &upErr))
	assert.Equal(t, "arc/7/render.mp4", upErr.Key)
	m.poster.AssertNotCalled(t, "Poster", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestPipeline_WithoutPoster(t *testing.T) {
	m := pipelineMocks{
		fetcher:   mocks.NewFetcherMock(t),
		probe:     mocks.NewMetadataProbeMock(t),
		executor:  mocks.NewStepExecutorMock(t),
		artifacts: mocks.NewArtifactStoreMock(t),
	}
	p := NewPipeline(m.fetcher, m.probe, m.executor, nil, m.artifacts)
	dir := t.TempDir()

	m.fetcher.EXPECT().Fetch(mock.Anything, mock.Anything, dir).Return(filepath.Join(dir, "v.mov"), nil)
	m.probe.EXPECT().Probe(mock.Anything, mock.Anything).Return(sourceMeta, nil)
	m.artifacts.EXPECT().Upload(mock.Anything, mock.Anything, "arc/7/render.mov").Return("u", nil).Once()

	res, err := p.Run(context.Background(), testJob(), dir)
	require.NoError(t, err)
	assert.Empty(t, res.ThumbnailURL)
}

func TestPosterAt(t *testing.T) {
	assert.Equal(t, 0.0, posterAt(0))
	assert.Equal(t, 0.5, posterAt(1))
	assert.Equal(t, 1.0, posterAt(30))
}
