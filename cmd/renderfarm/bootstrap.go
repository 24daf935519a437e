package main

import (
	"context"
	"fmt"
	"time"

	"github.com/bnema/renderfarm/config"
	"github.com/bnema/renderfarm/internal/adapter/artifact/local"
	"github.com/bnema/renderfarm/internal/adapter/artifact/s3"
	"github.com/bnema/renderfarm/internal/adapter/converter/ffmpeg"
	"github.com/bnema/renderfarm/internal/adapter/fetcher"
	"github.com/bnema/renderfarm/internal/adapter/notify"
	"github.com/bnema/renderfarm/internal/port"
	"github.com/bnema/renderfarm/internal/service"
)

func buildArtifacts(ctx context.Context, cfg *config.Config) (port.ArtifactStore, error) {
	switch cfg.Artifacts.Driver {
	case "local":
		store, err := local.New(cfg.Artifacts.Local.Dir, cfg.Artifacts.Local.BaseURL)
		if err != nil {
			return nil, err
		}
		return store, nil
	case "s3":
		s := cfg.Artifacts.S3
		store, err := s3.New(ctx, s3.Options{
			Bucket:          s.Bucket,
			Region:          s.Region,
			Endpoint:        s.Endpoint,
			AccessKeyID:     s.AccessKeyID,
			SecretAccessKey: s.SecretAccessKey,
			PublicBaseURL:   s.PublicBaseURL,
			PathStyle:       s.PathStyle,
			PublicRead:      s.PublicRead,
		})
		if err != nil {
			return nil, err
		}
		return store, nil
	default:
		return nil, fmt.Errorf("unknown artifacts driver %q", cfg.Artifacts.Driver)
	}
}

func buildFetcher(cfg *config.Config) port.Fetcher {
	f := cfg.Fetcher
	direct := fetcher.NewHTTPFetcher(time.Duration(f.TimeoutSeconds)*time.Second, f.UserAgent, f.MaxBytes)
	social := fetcher.NewYtDlpFetcher(f.YtDlpBinary, f.UserAgent, f.MaxBytes, nil)
	return fetcher.NewRouter(social, direct, f.SocialHosts)
}

func buildCatalog(cfg *config.Config) *ffmpeg.Catalog {
	f := cfg.FFmpeg
	return ffmpeg.NewCatalog(ffmpeg.Options{
		Binary: f.Binary,
		Encoding: ffmpeg.Encoding{
			Preset:       f.Preset,
			CRF:          f.CRF,
			WebmCRF:      f.WebmCRF,
			AudioBitrate: f.AudioBitrate,
			FrameRate:    f.FrameRate,
			GOP:          f.GOP,
		},
		FontFile:         f.FontFile,
		DiagnosticsLimit: f.DiagnosticsLimit,
	})
}

// buildReporter fans events out to the in-process bus and, when configured,
// the webhooks.
func buildReporter(cfg *config.Config, bus *service.EventBus) port.StatusReporter {
	reporters := notify.Multi{bus}
	if cfg.Webhooks.StatusURL != "" || cfg.Webhooks.FinishedURL != "" {
		reporters = append(reporters, notify.NewWebhook(
			cfg.Webhooks.StatusURL,
			cfg.Webhooks.FinishedURL,
			time.Duration(cfg.Webhooks.TimeoutSeconds)*time.Second,
		))
	}
	return reporters
}

type workerRuntime struct {
	worker    *service.Worker
	workspace *service.Workspace
}

func (r *workerRuntime) Close() error {
	return r.workspace.Close()
}

func buildWorker(ctx context.Context, cfg *config.Config, store port.JobStore, bus *service.EventBus) (*workerRuntime, error) {
	artifacts, err := buildArtifacts(ctx, cfg)
	if err != nil {
		return nil, err
	}

	ws, err := service.OpenWorkspace(cfg.Worker.ScratchDir)
	if err != nil {
		return nil, err
	}

	catalog := buildCatalog(cfg)
	pipeline := service.NewPipeline(
		buildFetcher(cfg),
		ffmpeg.NewProber(cfg.FFmpeg.ProbeBinary, nil),
		catalog,
		catalog,
		artifacts,
	)

	opts := service.WorkerOptions{
		ID:                 cfg.Worker.ID,
		PollMin:            time.Duration(cfg.Worker.PollMinSeconds) * time.Second,
		PollMax:            time.Duration(cfg.Worker.PollMaxSeconds) * time.Second,
		KeepFailedWorkdirs: cfg.Worker.KeepFailedWorkdirs,
	}
	if cfg.Worker.ReapOnStart {
		opts.ReapAfter = time.Duration(cfg.Worker.ReapAfterMinutes) * time.Minute
	}

	return &workerRuntime{
		worker:    service.NewWorker(store, pipeline, buildReporter(cfg, bus), ws, opts),
		workspace: ws,
	}, nil
}
