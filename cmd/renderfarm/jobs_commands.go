package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/bnema/renderfarm/internal/domain"
	"github.com/bnema/renderfarm/internal/port"
	"github.com/bnema/renderfarm/internal/service"
)

func newJobsCommand(ctx *commandContext) *cobra.Command {
	jobsCmd := &cobra.Command{
		Use:   "jobs",
		Short: "Inspect and manage the job queue",
	}

	jobsCmd.AddCommand(newJobsListCommand(ctx))
	jobsCmd.AddCommand(newJobsShowCommand(ctx))
	jobsCmd.AddCommand(newJobsReapCommand(ctx))

	return jobsCmd
}

func newJobsListCommand(ctx *commandContext) *cobra.Command {
	var statusFlag string
	var limit int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List jobs, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			var filter domain.JobFilter
			if statusFlag != "" {
				st, err := domain.ParseJobStatus(statusFlag)
				if err != nil {
					return err
				}
				filter.Status = st
			}
			filter.Limit = limit

			return ctx.withStore(cmd, func(store port.JobStore) error {
				jobs, err := store.List(cmd.Context(), filter)
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				if len(jobs) == 0 {
					fmt.Fprintln(out, "No jobs")
					return nil
				}
				fmt.Fprint(out, renderTable(
					[]string{"ID", "Status", "Archive", "Run", "Steps", "Created", "Detail"},
					buildJobRows(jobs, shouldColorize(out)),
					[]columnAlignment{alignRight, alignLeft, alignLeft, alignLeft, alignRight},
				))
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&statusFlag, "status", "", "Filter by status (queued, processing, finished, error)")
	cmd.Flags().IntVar(&limit, "limit", 50, "Maximum rows, 0 for all")
	return cmd
}

func buildJobRows(jobs []*domain.Job, colorize bool) [][]string {
	rows := make([][]string, 0, len(jobs))
	for _, j := range jobs {
		rows = append(rows, []string{
			strconv.FormatInt(j.ID, 10),
			formatStatus(j.Status, colorize),
			j.ArchiveID,
			j.RunID,
			strconv.Itoa(len(j.Steps)),
			j.CreatedAt.Local().Format("2006-01-02 15:04"),
			jobDetail(j),
		})
	}
	return rows
}

func jobDetail(j *domain.Job) string {
	switch j.Status {
	case domain.JobStatusFinished:
		return j.FinalURL
	case domain.JobStatusProcessing:
		return "on " + j.ClaimedBy
	case domain.JobStatusError:
		return truncate(j.StatusText, 60)
	}
	return ""
}

func truncate(s string, n int) string {
	s = strings.ReplaceAll(s, "\n", " ")
	if len([]rune(s)) <= n {
		return s
	}
	return string([]rune(s)[:n-3]) + "..."
}

func newJobsShowCommand(ctx *commandContext) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "show ID",
		Short: "Show one job with its log",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid job id %q", args[0])
			}

			return ctx.withStore(cmd, func(store port.JobStore) error {
				job, err := store.Get(cmd.Context(), id)
				if err != nil {
					if errors.Is(err, domain.ErrNotFound) {
						return fmt.Errorf("job %d not found", id)
					}
					return err
				}

				out := cmd.OutOrStdout()
				if asJSON {
					enc := json.NewEncoder(out)
					enc.SetIndent("", "  ")
					return enc.Encode(job)
				}

				pos := 0
				if job.Status == domain.JobStatusQueued {
					pos, _ = store.QueuePosition(cmd.Context(), id)
				}
				printJob(cmd, job, pos)
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the job as JSON")
	return cmd
}

func printJob(cmd *cobra.Command, job *domain.Job, pos int) {
	out := cmd.OutOrStdout()
	colorize := shouldColorize(out)

	line := func(label, value string) {
		if value != "" {
			fmt.Fprintf(out, "%-12s %s\n", label+":", value)
		}
	}

	line("ID", strconv.FormatInt(job.ID, 10))
	status := formatStatus(job.Status, colorize)
	if pos > 0 {
		status += fmt.Sprintf(" (position %d)", pos)
	}
	line("Status", status)
	if job.StatusText != string(job.Status) {
		line("Message", job.StatusText)
	}
	line("Archive", job.ArchiveID)
	line("Run", job.RunID)
	line("Source", job.SourceURL)
	line("Archive URL", job.ArchiveURL)
	line("Steps", strings.Join(job.Steps, " "))
	line("Worker", job.ClaimedBy)
	line("Created", job.CreatedAt.Local().Format(time.RFC3339))
	if job.ClaimedAt != nil {
		line("Claimed", job.ClaimedAt.Local().Format(time.RFC3339))
	}
	if job.FinishedAt != nil {
		line("Finished", job.FinishedAt.Local().Format(time.RFC3339))
	}
	line("Render", job.FinalURL)
	line("Thumbnail", job.ThumbnailURL)

	if job.Logs != "" {
		fmt.Fprintln(out)
		fmt.Fprintln(out, "Log:")
		fmt.Fprintln(out, strings.TrimRight(job.Logs, "\n"))
	}
}

func newJobsReapCommand(ctx *commandContext) *cobra.Command {
	var olderThan time.Duration

	cmd := &cobra.Command{
		Use:   "reap",
		Short: "Move jobs stuck in processing to error",
		Long: "Jobs whose claim is older than --older-than and still processing are marked\n" +
			"as error (\"abandoned: worker lost\"). They are never requeued.",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("older-than") {
				olderThan = time.Duration(cfg.Worker.ReapAfterMinutes) * time.Minute
			}

			return ctx.withStore(cmd, func(store port.JobStore) error {
				n, err := service.NewJobService(store).Reap(cmd.Context(), olderThan)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Reaped %d job(s)\n", n)
				return nil
			})
		},
	}

	cmd.Flags().DurationVar(&olderThan, "older-than", 3*time.Hour, "Claim age after which a processing job counts as abandoned (default from worker.reap_after_minutes)")
	return cmd
}
