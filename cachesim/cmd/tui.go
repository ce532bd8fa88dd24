package cmd

import (
	"errors"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/sarchlab/cachesim/tui"
)

var tuiCmd = &cobra.Command{
	Use:   "tui [program-file]",
	Short: "Step through a program in the terminal.",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if !term.IsTerminal(int(os.Stdout.Fd())) {
			return errors.New("tui needs a terminal, use run instead")
		}

		path := ""
		if len(args) > 0 {
			path = args[0]
		}

		e, err := cfg.newEngine(path, cmd.InOrStdin())
		if err != nil {
			return err
		}

		return tui.NewViewer(e).Run()
	},
}

func init() {
	rootCmd.AddCommand(tuiCmd)
}
