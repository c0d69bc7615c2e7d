package main

import (
	"github.com/spf13/cobra"

	"contentstore/internal/daemonrun"
)

func newRunCommand(ctx *commandContext) *cobra.Command {
	var development bool

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the migration daemon in the foreground",
		Long: "Run the migration daemon in the foreground until interrupted.\n\n" +
			"The daemon takes an exclusive lock in the data directory, checks directory access,\n" +
			"returns items left in flight by a previous run to pending, then processes the queue.",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			return daemonrun.Run(cmd.Context(), cfg, daemonrun.Options{
				LogLevel:    ctx.logLevel(),
				Development: development,
			})
		},
	}

	cmd.Flags().BoolVar(&development, "dev", false, "Include source locations in log output")
	return cmd
}
