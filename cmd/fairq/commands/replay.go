package commands

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/llxisdsh/fairq/eventlog"
	"github.com/llxisdsh/fairq/replay"
)

func newReplayCmd() *cobra.Command {
	var rate float64

	cmd := &cobra.Command{
		Use:   "replay <log>",
		Short: "Replay a recorded event log on a terminal timeline",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			entries, err := eventlog.ParseFile(args[0])
			if err != nil {
				return err
			}
			if len(entries) == 0 {
				return errors.New("log has no parseable events")
			}
			return replay.Run(entries, rate)
		},
	}

	cmd.Flags().Float64VarP(&rate, "rate", "r", replay.DefaultRate,
		"Playback rate: log time per wall time (1.0 = real time)")
	return cmd
}
