package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	HTTPAdapter "github.com/bnema/renderfarm/internal/adapter/http"
	"github.com/bnema/renderfarm/internal/port"
	"github.com/bnema/renderfarm/internal/service"
)

func newServeCommand(ctx *commandContext) *cobra.Command {
	var noWorker bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP ingress, with a worker unless disabled",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			sigCtx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			return ctx.withStore(cmd, func(store port.JobStore) error {
				bus := service.NewEventBus()

				// Worker pool for the render loop
				workerCtx, workerCancel := context.WithCancel(context.Background())
				defer workerCancel()
				workerDone := make(chan struct{})
				close(workerDone)

				if cfg.Server.RunWorker && !noWorker {
					rt, err := buildWorker(sigCtx, cfg, store, bus)
					if err != nil {
						return err
					}
					defer func() { _ = rt.Close() }()

					workerDone = make(chan struct{})
					go func() {
						defer close(workerDone)
						_ = rt.worker.Run(workerCtx)
					}()
				}

				var artifactDir string
				if cfg.Artifacts.Driver == "local" {
					artifactDir = cfg.Artifacts.Local.Dir
				}

				server := HTTPAdapter.NewServer(HTTPAdapter.Options{
					Jobs:        service.NewJobService(store),
					Events:      bus,
					Auth:        service.NewAPIKeyAuth(cfg.Server.APIKeyHash),
					ArtifactDir: artifactDir,
					BehindProxy: cfg.Server.BehindProxy,
					Version:     version,
				})
				defer server.Close()

				httpServer := &http.Server{
					Addr:              cfg.Server.Addr,
					Handler:           server,
					ReadHeaderTimeout: 10 * time.Second,
					ReadTimeout:       time.Minute,
					IdleTimeout:       120 * time.Second,
				}

				serveErr := make(chan error, 1)
				go func() {
					log.Info().Str("addr", cfg.Server.Addr).Str("version", version).Msg("server listening")
					if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
						serveErr <- err
					}
					close(serveErr)
				}()

				select {
				case <-sigCtx.Done():
					log.Info().Msg("shutting down")
				case err := <-serveErr:
					if err != nil {
						workerCancel()
						<-workerDone
						return err
					}
				}

				// Stop accepting new requests
				shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
				defer shutdownCancel()
				if err := httpServer.Shutdown(shutdownCtx); err != nil {
					log.Error().Err(err).Msg("http shutdown error")
				}

				// Stop the worker (lets the in-flight job finish)
				workerCancel()
				<-workerDone

				log.Info().Msg("shutdown complete")
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&noWorker, "no-worker", false, "Do not start a worker in this process")
	return cmd
}
