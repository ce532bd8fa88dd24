package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/sarchlab/cachesim/isa"
)

var programCmd = &cobra.Command{
	Use:   "program",
	Short: "Print the built-in program.",
	Run: func(cmd *cobra.Command, _ []string) {
		fmt.Fprintln(cmd.OutOrStdout(), strings.Join(isa.DefaultSource, "\n"))
	},
}

var checkCmd = &cobra.Command{
	Use:   "check program-file",
	Short: "Decode a program without running it.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		lines, err := readProgram(args[0], cmd.InOrStdin())
		if err != nil {
			return err
		}

		p, err := isa.ParseProgram(lines, cfg.memorySize)
		if err != nil {
			return fmt.Errorf("%s: %w", args[0], err)
		}

		for i, s := range p.Sources() {
			fmt.Fprintf(cmd.OutOrStdout(), "%d: %s\n", i, s)
		}

		return nil
	},
}

func init() {
	rootCmd.AddCommand(programCmd)
	programCmd.AddCommand(checkCmd)
}
