// Package commands wires the fairq CLI: run a simulation, analyze a
// recorded log, or replay one on a terminal timeline.
package commands

import (
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
)

const longDesc = `fairq simulates producer/consumer workloads over fair buffers.

A run drives a set of producer and consumer goroutines against either a
fixed-capacity (bounded) or a growing (unbounded) buffer, records every
completed operation to an event log, and prints an analysis report.
Recorded logs can be re-analyzed or replayed later.`

// NewRootCmd builds the fairq command tree.
func NewRootCmd() *cobra.Command {
	var (
		logLevel  string
		logFormat string
	)

	cmd := &cobra.Command{
		Use:           "fairq",
		Short:         "Producer/consumer buffer simulator",
		Long:          longDesc,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVar(&logLevel, "log_level", "info", "Set the log level (debug, info, warn, error)")
	cmd.PersistentFlags().StringVar(&logFormat, "log_format", "text", "Set the log format (text, logfmt, json)")

	cmd.PersistentPreRunE = func(cc *cobra.Command, _ []string) error {
		logger := log.NewWithOptions(cc.ErrOrStderr(), log.Options{
			ReportTimestamp: true,
		})

		level, err := log.ParseLevel(logLevel)
		if err != nil {
			return fmt.Errorf("parse log level: %w", err)
		}
		logger.SetLevel(level)

		switch logFormat {
		case "text":
			logger.SetFormatter(log.TextFormatter)
		case "logfmt":
			logger.SetFormatter(log.LogfmtFormatter)
		case "json":
			logger.SetFormatter(log.JSONFormatter)
		default:
			return fmt.Errorf("unknown log format %q", logFormat)
		}

		cc.SetContext(log.WithContext(cc.Context(), logger))
		return nil
	}

	cmd.AddCommand(
		newRunCmd(),
		newReportCmd(),
		newReplayCmd(),
	)
	return cmd
}
