package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewRootCommand assembles the CLI. Configuration is loaded once, before any
// subcommand runs, and shared through env.
func NewRootCommand(env *Env, version string) *cobra.Command {
	root := &cobra.Command{
		Use:   "sugarparser",
		Short: "Convert glucose meter exports into filtered import files",
		Long: `sugarparser reads a tab-delimited glucose meter export and regenerates it
as a time-sorted import file containing only readings at or after a start date.

Commands:
  report    Write the filtered report file
  stats     Print a summary of the export
  serve     Serve report generation over HTTP`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
			if env.Config != nil {
				return nil
			}
			return env.Init()
		},
	}

	root.AddCommand(NewReportCommand(env))
	root.AddCommand(NewStatsCommand(env))
	root.AddCommand(NewServeCommand(env))
	root.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "sugarparser %s\n", version)
		},
	})

	return root
}
