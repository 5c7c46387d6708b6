package main

import (
	"fmt"
	"path/filepath"
	"strconv"

	"github.com/spf13/cobra"

	"encodeflow/internal/encoding"
)

func newArgsCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "args <input>",
		Short: "Show the encoder command line for an input file",
		Long:  "Print the argument vector the encoder would receive for <input>. Arguments are quoted so empty tokens are visible.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			input, err := filepath.Abs(args[0])
			if err != nil {
				return fmt.Errorf("resolve input path: %w", err)
			}
			invoker := encoding.NewInvoker(cfg)

			rows := make([][]string, 0, 8)
			for i, arg := range invoker.Args(input) {
				rows = append(rows, []string{strconv.Itoa(i + 1), strconv.Quote(arg)})
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Binary: %s\n", invoker.Binary())
			fmt.Fprintln(out, renderTable([]string{"#", "Argument"}, rows, []columnAlignment{alignRight, alignLeft}))
			return nil
		},
	}
}
