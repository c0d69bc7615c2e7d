package main

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"contentstore/internal/daemon"
	"contentstore/internal/preflight"
	"contentstore/internal/queue"
	"contentstore/internal/spool"
)

func newCheckCommand(ctx *commandContext) *cobra.Command {
	var checkPublic bool

	cmd := &cobra.Command{
		Use:   "check",
		Short: "Run preflight checks against the configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			results := preflight.RunAll(cmd.Context(), cfg)
			if checkPublic {
				client := &http.Client{Timeout: 5 * time.Second}
				results = append(results, preflight.CheckPublicEndpoint(cmd.Context(), client, cfg.Assets.PublicURI))
			}

			out := cmd.OutOrStdout()
			colorize := shouldColorize(out)
			rows := make([][]string, 0, len(results))
			for _, r := range results {
				status := "OK"
				if !r.Passed {
					status = "FAIL"
				}
				rows = append(rows, []string{r.Name, status, r.Detail})
			}
			fmt.Fprint(out, renderTable([]string{"Check", "Status", "Detail"}, rows, nil))

			locked, lockErr := daemon.Locked(cfg.LockPath())
			switch {
			case lockErr != nil:
				fmt.Fprintln(out, renderStatusLine("Daemon", statusWarn, lockErr.Error(), colorize))
			case locked:
				fmt.Fprintln(out, renderStatusLine("Daemon", statusOK, "Running", colorize))
			default:
				fmt.Fprintln(out, renderStatusLine("Daemon", statusInfo, "Not running", colorize))
			}

			if files, size, err := spool.Usage(cfg.SpoolDir()); err != nil {
				fmt.Fprintln(out, renderStatusLine("Spool", statusWarn, err.Error(), colorize))
			} else {
				fmt.Fprintln(out, renderStatusLine("Spool", statusInfo, fmt.Sprintf("%d files, %s", files, humanSize(size)), colorize))
			}

			if err := ctx.withStore(func(store *queue.Store) error {
				health, err := store.CheckHealth(cmd.Context())
				if err != nil {
					return err
				}
				kind, detail := statusOK, fmt.Sprintf("schema v%d, %d items", health.SchemaVersion, health.TotalItems)
				if !health.IntegrityCheck || len(health.MissingColumns) > 0 {
					kind, detail = statusError, health.Error
					if detail == "" {
						detail = fmt.Sprintf("missing columns: %s", strings.Join(health.MissingColumns, ", "))
					}
				}
				fmt.Fprintln(out, renderStatusLine("Queue database", kind, detail, colorize))
				return nil
			}); err != nil {
				fmt.Fprintln(out, renderStatusLine("Queue database", statusError, err.Error(), colorize))
			}

			return preflight.Failures(results)
		},
	}

	cmd.Flags().BoolVar(&checkPublic, "public", false, "Also check the public URI over HTTP")
	return cmd
}
