// Package cmd provides the command-line interface for cachesim.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/tebeka/atexit"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use: "cachesim",
	Short: "cachesim runs LOAD/STORE/ADD/SUB programs on a CPU with a " +
		"small cache.",
	Long: `cachesim runs LOAD/STORE/ADD/SUB programs on a CPU with a small ` +
		`cache and reports the cycles, the cache hits and misses and, in ` +
		`explanation mode, what happened at every step. Defaults can be set ` +
		`with CACHESIM_* environment variables or in a .env file.`,
	SilenceUsage:      true,
	PersistentPreRunE: loadConfig,
}

// Execute adds all child commands to the root command and sets flags
// appropriately. It exits through atexit so that trace writers are flushed.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		atexit.Exit(1)
	}

	atexit.Exit(0)
}
