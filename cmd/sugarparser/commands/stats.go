package commands

import (
	"io"

	"github.com/dustin/go-humanize"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/JonMunkholm/SugarParser/internal/core"
)

// NewStatsCommand creates the stats subcommand.
func NewStatsCommand(env *Env) *cobra.Command {
	return &cobra.Command{
		Use:   "stats <export-file>",
		Short: "Summarize a meter export without writing a report",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			res, _, err := env.load(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			writeStats(cmd.OutOrStdout(), res)
			return nil
		},
	}
}

// writeStats renders the load summary as a table.
func writeStats(w io.Writer, res core.LoadResult) {
	tbl := table.NewWriter()
	tbl.SetOutputMirror(w)
	tbl.SetStyle(table.StyleLight)

	h1, _ := res.Dataset.Headers()
	tbl.SetTitle(h1)
	tbl.AppendHeader(table.Row{"Metric", "Value"})

	st := res.Stats
	tbl.AppendRow(table.Row{"Lines", humanize.Comma(int64(st.Lines))})
	tbl.AppendRow(table.Row{"Valid records", humanize.Comma(int64(st.Records))})
	tbl.AppendRow(table.Row{"Malformed rows", humanize.Comma(int64(st.MalformedRows))})
	tbl.AppendRow(table.Row{"Malformed fields", humanize.Comma(int64(st.MalformedFields))})
	tbl.AppendSeparator()

	counts := res.Dataset.KindCounts()
	for _, k := range core.Kinds() {
		tbl.AppendRow(table.Row{k.String(), humanize.Comma(int64(counts[k]))})
	}

	if st.HasRange() {
		tbl.AppendSeparator()
		tbl.AppendRow(table.Row{"Earliest", core.FormatTime(st.Earliest)})
		tbl.AppendRow(table.Row{"Latest", core.FormatTime(st.Latest)})
	}

	tbl.Render()
}
