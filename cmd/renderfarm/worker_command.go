package main

import (
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/bnema/renderfarm/internal/port"
	"github.com/bnema/renderfarm/internal/service"
)

func newWorkerCommand(ctx *commandContext) *cobra.Command {
	var reap bool

	cmd := &cobra.Command{
		Use:   "worker",
		Short: "Run the render loop without the HTTP ingress",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			if reap {
				cfg.Worker.ReapOnStart = true
			}

			sigCtx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			return ctx.withStore(cmd, func(store port.JobStore) error {
				rt, err := buildWorker(sigCtx, cfg, store, service.NewEventBus())
				if err != nil {
					return err
				}
				defer func() { _ = rt.Close() }()

				return rt.worker.Run(sigCtx)
			})
		},
	}

	cmd.Flags().BoolVar(&reap, "reap", false, "Move stale processing jobs to error before polling")
	return cmd
}
