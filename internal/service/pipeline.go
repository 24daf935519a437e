package service

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/bnema/renderfarm/internal/domain"
	"github.com/bnema/renderfarm/internal/infrastructure/logger"
	"github.com/bnema/renderfarm/internal/port"
	"github.com/bnema/renderfarm/internal/step"
)

const (
	renderName    = "render"
	thumbnailName = "thumbnail.jpg"
)

// Pipeline turns one job into an uploaded artifact: fetch, probe once, run
// every step in order, upload. The first failure stops it.
type Pipeline struct {
	fetcher   port.Fetcher
	probe     port.MetadataProbe
	executor  port.StepExecutor
	poster    port.PosterRenderer
	artifacts port.ArtifactStore
}

// NewPipeline wires the collaborators. poster may be nil to skip thumbnails.
func NewPipeline(
	fetcher port.Fetcher,
	probe port.MetadataProbe,
	executor port.StepExecutor,
	poster port.PosterRenderer,
	artifacts port.ArtifactStore,
) *Pipeline {
	return &Pipeline{
		fetcher:   fetcher,
		probe:     probe,
		executor:  executor,
		poster:    poster,
		artifacts: artifacts,
	}
}

// Run executes job inside workDir. The returned result always carries the
// run log, also on failure.
func (p *Pipeline) Run(ctx context.Context, job *domain.Job, workDir string) (domain.JobResult, error) {
	rl := newRunLog(log.With().Int64("job_id", job.ID).Logger())

	out, err := p.run(ctx, job, workDir, rl)
	if err != nil {
		rl.add("failed: %v", err)
		var execErr *domain.ExecutionError
		if errors.As(err, &execErr) && execErr.Diagnostics != "" {
			rl.raw(execErr.Diagnostics)
		}
		return domain.JobResult{Logs: rl.String()}, err
	}

	result := domain.JobResult{FinalURL: out.final, ThumbnailURL: out.thumbnail}
	rl.add("finished: %s", out.final)
	result.Logs = rl.String()
	return result, nil
}

type artifactURLs struct {
	final     string
	thumbnail string
}

func (p *Pipeline) run(ctx context.Context, job *domain.Job, workDir string, rl *runLog) (artifactURLs, error) {
	ref := job.SourceRef()
	rl.add("fetching %s", logger.SanitizeForLog(ref))
	current, err := p.fetcher.Fetch(ctx, ref, workDir)
	if err != nil {
		var fe *domain.FetchError
		if !errors.As(err, &fe) {
			err = &domain.FetchError{URL: ref, Err: err}
		}
		return artifactURLs{}, err
	}

	meta, err := p.probe.Probe(ctx, current)
	if err != nil {
		var pe *domain.ProbeError
		if !errors.As(err, &pe) {
			err = &domain.ProbeError{Path: current, Err: err}
		}
		return artifactURLs{}, err
	}
	rl.add("source %s", meta)

	// Geometry and duration stay as probed; only audio presence follows the chain.
	input := meta
	for i, token := range job.Steps {
		op, err := step.Decode(token)
		if err != nil {
			return artifactURLs{}, &domain.StepError{Index: i, Token: token, Err: err}
		}

		out := filepath.Join(workDir, fmt.Sprintf("step-%02d-%s%s", i, op.Kind(), filepath.Ext(current)))
		started := time.Now()
		next, err := p.executor.Execute(ctx, op, current, out, input)
		if err != nil {
			var execErr *domain.ExecutionError
			if errors.As(err, &execErr) {
				execErr.StepIndex = i
			} else {
				err = &domain.ExecutionError{StepIndex: i, Kind: string(op.Kind()), Err: err}
			}
			return artifactURLs{}, err
		}
		rl.add("step %d %s ok in %s", i, logger.SanitizeForLog(op.Token()), time.Since(started).Round(time.Millisecond))
		current = next
		if op.Kind().AddsAudio() {
			input.HasAudio = true
		}
	}

	key := job.RemoteKey(renderName + filepath.Ext(current))
	final, err := p.artifacts.Upload(ctx, current, key)
	if err != nil {
		var ue *domain.UploadError
		if !errors.As(err, &ue) {
			err = &domain.UploadError{Key: key, Err: err}
		}
		return artifactURLs{}, err
	}
	rl.add("uploaded %s", key)

	return artifactURLs{final: final, thumbnail: p.thumbnail(ctx, job, current, workDir, meta, rl)}, nil
}

// thumbnail is best-effort: failures are logged and yield an empty URL.
func (p *Pipeline) thumbnail(ctx context.Context, job *domain.Job, final, workDir string, meta domain.MediaMetadata, rl *runLog) string {
	if p.poster == nil {
		return ""
	}
	out := filepath.Join(workDir, thumbnailName)
	if err := p.poster.Poster(ctx, final, out, posterAt(meta.Duration)); err != nil {
		rl.add("thumbnail skipped: %v", err)
		return ""
	}
	url, err := p.artifacts.Upload(ctx, out, job.RemoteKey(thumbnailName))
	if err != nil {
		rl.add("thumbnail upload skipped: %v", err)
		return ""
	}
	return url
}

// posterAt picks the poster timestamp: one second in, or the middle of
// shorter clips.
func posterAt(duration float64) float64 {
	if duration <= 0 {
		return 0
	}
	if duration < 2 {
		return duration / 2
	}
	return 1
}

// runLog collects the lines stored in the job's logs column and mirrors
// them to the process log.
type runLog struct {
	b   strings.Builder
	log zerolog.Logger
}

func newRunLog(l zerolog.Logger) *runLog {
	return &runLog{log: l}
}

func (r *runLog) add(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	r.log.Info().Msg(msg)
	r.b.WriteString(time.Now().UTC().Format(time.TimeOnly))
	r.b.WriteByte(' ')
	r.b.WriteString(msg)
	r.b.WriteByte('\n')
}

func (r *runLog) raw(s string) {
	r.b.WriteString(strings.TrimRight(s, "\n"))
	r.b.WriteByte('\n')
}

func (r *runLog) String() string {
	return r.b.String()
}
