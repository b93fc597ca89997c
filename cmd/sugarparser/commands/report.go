package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/JonMunkholm/SugarParser/internal/core"
	"github.com/JonMunkholm/SugarParser/internal/textfile"
)

// NewReportCommand creates the report subcommand.
func NewReportCommand(env *Env) *cobra.Command {
	var (
		cutoff cutoffFlags
		output string
		dryRun bool
	)

	cmd := &cobra.Command{
		Use:   "report <export-file>",
		Short: "Write a filtered, time-sorted report of a meter export",
		Long: `Loads a tab-delimited meter export and writes every reading at or after the
start date, sorted by time, to <name>_res.txt next to the input.

The start date is given with --since "yyyy/MM/dd HH:mm" or --days N. Without
either, REPORT_DEFAULT_LOOKBACK from the environment is used.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			input := args[0]

			start, err := cutoff.resolve(env.Config.Report.DefaultLookback)
			if err != nil {
				return err
			}

			res, logger, err := env.load(cmd.Context(), input)
			if err != nil {
				return err
			}

			if output == "" {
				output = textfile.OutputPath(input, env.Config.Report.OutputSuffix)
			}

			var sink core.LineSink
			if !dryRun {
				sink = textfile.NewSink(output)
			}
			svc := core.NewService(res.Dataset, sink, logger,
				core.WithHistoryLimit(env.Config.Report.HistoryLimit))

			if dryRun {
				lines, err := svc.Preview(start)
				if err != nil {
					return err
				}
				for _, line := range lines {
					fmt.Fprintln(cmd.OutOrStdout(), line)
				}
				return nil
			}

			result, err := svc.GenerateReport(start)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s (%d records)\n", output, result.Records)
			return nil
		},
	}

	cmd.Flags().StringVar(&cutoff.since, "since", "", `start date, "yyyy/MM/dd HH:mm"`)
	cmd.Flags().IntVar(&cutoff.days, "days", 0, "start N days before now")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default <input dir>/<name>_res.txt)")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "print the report instead of writing it")
	cmd.MarkFlagsMutuallyExclusive("since", "days")

	return cmd
}
