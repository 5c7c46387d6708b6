package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"encodeflow/internal/readiness"
)

func newProbeCommand() *cobra.Command {
	var wait bool
	var interval time.Duration
	var stable bool

	cmd := &cobra.Command{
		Use:         "probe <path>",
		Short:       "Report whether a file is ready to be encoded",
		Annotations: map[string]string{"skipConfigLoad": "true"},
		Args:        cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]
			if interval <= 0 {
				return fmt.Errorf("--interval must be positive, got %s", interval)
			}
			if stable {
				wait = true
			}
			checker := readiness.New(stable)
			out := cmd.OutOrStdout()
			colorize := shouldColorize(out)

			ready := checker.IsReady(path)
			for wait && !ready {
				select {
				case <-cmd.Context().Done():
					return cmd.Context().Err()
				case <-time.After(interval):
				}
				ready = checker.IsReady(path)
			}

			if ready {
				fmt.Fprintln(out, renderStatusLine(path, statusOK, "ready", colorize))
				return nil
			}
			fmt.Fprintln(out, renderStatusLine(path, statusWarn, "not ready (locked, empty or missing)", colorize))
			return fmt.Errorf("%s is not ready", path)
		},
	}

	cmd.Flags().BoolVarP(&wait, "wait", "w", false, "Poll until the file becomes ready")
	cmd.Flags().DurationVar(&interval, "interval", 500*time.Millisecond, "Polling interval with --wait")
	cmd.Flags().BoolVar(&stable, "stable", false, "Also require an unchanged size across two probes (implies --wait)")
	return cmd
}
