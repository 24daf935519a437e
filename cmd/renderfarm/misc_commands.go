package main

import (
	"bufio"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/bnema/renderfarm/config"
	"github.com/bnema/renderfarm/internal/port"
	"github.com/bnema/renderfarm/internal/service"
	"github.com/bnema/renderfarm/internal/step"
)

func newDecodeCommand() *cobra.Command {
	return &cobra.Command{
		Use:         "decode TOKEN...",
		Short:       "Decode step tokens and print their canonical form",
		Args:        cobra.MinimumNArgs(1),
		Annotations: map[string]string{"skipConfigLoad": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			ops, idx, err := step.DecodeAll(args)
			if err != nil {
				return fmt.Errorf("step %d (%q): %w", idx, args[idx], err)
			}
			rows := make([][]string, 0, len(ops))
			for i, op := range ops {
				rows = append(rows, []string{strconv.Itoa(i), args[i], string(op.Kind()), op.Token()})
			}
			fmt.Fprint(cmd.OutOrStdout(), renderTable(
				[]string{"#", "Token", "Kind", "Canonical"},
				rows,
				[]columnAlignment{alignRight},
			))
			return nil
		},
	}
}

func newMigrateCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply database migrations for the configured store",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			// Opening the store runs pending migrations.
			return ctx.withStore(cmd, func(port.JobStore) error {
				if cfg.Store.Driver == "json" {
					fmt.Fprintln(cmd.OutOrStdout(), "The json store has no migrations")
					return nil
				}
				log.Info().Str("driver", cfg.Store.Driver).Msg("migrations applied")
				fmt.Fprintf(cmd.OutOrStdout(), "Migrations applied (%s)\n", cfg.Store.Driver)
				return nil
			})
		},
	}
}

func newHashKeyCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "hash-key [KEY]",
		Short: "Print the bcrypt hash of an API key for server.api_key_hash",
		Long: "Hashes KEY, or the first line of stdin when KEY is omitted.\n" +
			"Keys must be 24 to 72 bytes without surrounding whitespace.",
		Args:        cobra.MaximumNArgs(1),
		Annotations: map[string]string{"skipConfigLoad": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			var key string
			if len(args) == 1 {
				key = args[0]
			} else {
				line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
				if err != nil && line == "" {
					return errors.New("no key given on the command line or stdin")
				}
				key = strings.TrimRight(line, "\r\n")
			}

			hash, err := service.HashAPIKey(key)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), hash)
			return nil
		},
	}
}

func newSampleConfigCommand() *cobra.Command {
	return &cobra.Command{
		Use:         "sample-config",
		Short:       "Print a commented configuration file",
		Args:        cobra.NoArgs,
		Annotations: map[string]string{"skipConfigLoad": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprint(cmd.OutOrStdout(), config.SampleConfig())
			return nil
		},
	}
}
