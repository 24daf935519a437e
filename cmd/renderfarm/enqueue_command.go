package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/bnema/renderfarm/internal/port"
	"github.com/bnema/renderfarm/internal/service"
)

func newEnqueueCommand(ctx *commandContext) *cobra.Command {
	var req service.SubmitRequest

	cmd := &cobra.Command{
		Use:   "enqueue --archive-id ID --run-id ID --url URL [STEP...]",
		Short: "Queue a render job",
		Example: `  renderfarm enqueue --archive-id a1 --run-id r1 --url https://example.com/clip.mp4 hflip speed1.10 format:webm`,
		RunE: func(cmd *cobra.Command, args []string) error {
			req.Steps = args
			return ctx.withStore(cmd, func(store port.JobStore) error {
				job, pos, err := service.NewJobService(store).Submit(cmd.Context(), req)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Queued job %d (position %d)\n", job.ID, pos)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&req.ArchiveID, "archive-id", "", "Archive the job belongs to")
	cmd.Flags().StringVar(&req.RunID, "run-id", "", "Caller's run identifier")
	cmd.Flags().StringVar(&req.URL, "url", "", "Source video URL")
	cmd.Flags().StringVar(&req.ArchiveURL, "archive-url", "", "Archived copy of the source, preferred when set")
	_ = cmd.MarkFlagRequired("archive-id")
	_ = cmd.MarkFlagRequired("run-id")
	_ = cmd.MarkFlagRequired("url")

	return cmd
}
