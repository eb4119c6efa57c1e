package commands

import (
	"github.com/spf13/cobra"

	"github.com/llxisdsh/fairq/report"
	"github.com/llxisdsh/fairq/runner"
)

func newRunCmd() *cobra.Command {
	var (
		cfgPath   string
		buffer    string
		capacity  int
		producers int
		consumers int
		logPath   string
	)

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run a simulation and print its analysis report",
		RunE: func(cc *cobra.Command, _ []string) error {
			cfg := runner.Default()
			if cfgPath != "" {
				loaded, err := runner.Load(cfgPath)
				if err != nil {
					return err
				}
				cfg = loaded
			}

			// Flags beat the config file where the user set them.
			flags := cc.Flags()
			if flags.Changed("buffer") {
				cfg.Buffer = runner.Kind(buffer)
			}
			if flags.Changed("capacity") {
				cfg.Capacity = capacity
			}
			if flags.Changed("producers") {
				cfg.Producers = producers
			}
			if flags.Changed("consumers") {
				cfg.Consumers = consumers
			}
			if flags.Changed("out") {
				cfg.LogPath = logPath
			}

			res, err := runner.Run(cc.Context(), cfg)
			if err != nil {
				return err
			}

			rep := report.Build(res.Entries)
			rep.Runtime = res.Elapsed
			rep.ProduceTotal = res.Snapshot.ProduceTotal
			rep.ConsumeTotal = res.Snapshot.ConsumeTotal
			rep.Render(cc.OutOrStdout())
			return nil
		},
	}

	cmd.Flags().StringVarP(&cfgPath, "config", "c", "", "YAML config file")
	cmd.Flags().StringVarP(&buffer, "buffer", "b", string(runner.KindBounded), "Buffer kind (bounded, unbounded)")
	cmd.Flags().IntVar(&capacity, "capacity", 10, "Bounded buffer capacity")
	cmd.Flags().IntVarP(&producers, "producers", "p", 5, "Producer count")
	cmd.Flags().IntVarP(&consumers, "consumers", "n", 3, "Consumer count")
	cmd.Flags().StringVarP(&logPath, "out", "o", "", "Write the event log to this file")
	return cmd
}
