package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/pkg/browser"
	"github.com/spf13/cobra"

	"github.com/sarchlab/cachesim/monitoring"
)

var serveCmd = &cobra.Command{
	Use:   "serve [program-file]",
	Short: "Serve the machine over HTTP until interrupted.",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := ""
		if len(args) > 0 {
			path = args[0]
		}

		e, err := cfg.newEngine(path, cmd.InOrStdin())
		if err != nil {
			return err
		}

		port, _ := cmd.Flags().GetInt("port")
		open, _ := cmd.Flags().GetBool("open")

		m := monitoring.NewMonitor().WithPortNumber(port)
		m.RegisterEngine(e)
		url := m.StartServer()

		if open {
			if err := browser.OpenURL(url); err != nil {
				fmt.Fprintf(os.Stderr, "Cannot open browser: %v\n", err)
			}
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
		defer stop()

		<-ctx.Done()

		return ignoreCanceled(ctx.Err())
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().Int("port", 0,
		"Port of the web server, a random port if not set.")
	serveCmd.Flags().Bool("open", false, "Open the web page in a browser.")
}

func ignoreCanceled(err error) error {
	if err == context.Canceled {
		return nil
	}

	return err
}
