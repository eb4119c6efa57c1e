package commands

import (
	"github.com/spf13/cobra"

	"github.com/llxisdsh/fairq/eventlog"
	"github.com/llxisdsh/fairq/report"
)

func newReportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "report <log>",
		Short: "Analyze a recorded event log",
		Args:  cobra.ExactArgs(1),
		RunE: func(cc *cobra.Command, args []string) error {
			entries, err := eventlog.ParseFile(args[0])
			if err != nil {
				return err
			}
			report.Build(entries).Render(cc.OutOrStdout())
			return nil
		},
	}
}
