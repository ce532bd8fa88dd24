package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/sarchlab/cachesim/cpu"
	"github.com/sarchlab/cachesim/sim"
	"github.com/sarchlab/cachesim/tracing"
)

var runCmd = &cobra.Command{
	Use:   "run [program-file]",
	Short: "Run a program to the end and print the machine state.",
	Long: "`run` executes the program in the given file, or the built-in " +
		"program when no file is given. Use - to read the program from stdin.",
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := ""
		if len(args) > 0 {
			path = args[0]
		}

		traceDB, _ := cmd.Flags().GetString("trace-db")
		maxSteps, _ := cmd.Flags().GetInt("max-steps")

		return runProgram(cmd.OutOrStdout(), cmd.InOrStdin(),
			path, traceDB, maxSteps)
	},
}

func init() {
	rootCmd.AddCommand(runCmd)
	runCmd.Flags().String("trace-db", "",
		"Write every step to this SQLite database (without extension).")
	runCmd.Flags().Int("max-steps", 0,
		"Stop after this many steps, 0 means no limit.")
}

func runProgram(
	out io.Writer,
	in io.Reader,
	path, traceDB string,
	maxSteps int,
) error {
	var dbTracer *tracing.DBTracer
	if traceDB != "" {
		sim.UseUniqueIDGenerator()
	}

	e, err := cfg.newEngine(path, in)
	if err != nil {
		return err
	}

	counter := tracing.NewStepCountTracer(tracing.AllSteps)
	tracing.CollectTrace(e, counter)

	if traceDB != "" {
		writer := tracing.NewSQLiteTraceWriter(traceDB)
		if err := writer.Init(); err != nil {
			return err
		}

		dbTracer = tracing.NewDBTracer(writer, tracing.AllSteps)
		tracing.CollectTrace(e, dbTracer)
	}

	results, err := e.Run(maxSteps)
	for _, r := range results {
		printStep(out, r)
	}

	if dbTracer != nil {
		dbTracer.Terminate()
	}

	if err != nil {
		return err
	}

	printSummary(out, e, counter)

	return nil
}

func printStep(out io.Writer, r cpu.StepResult) {
	fmt.Fprintf(out, "%d: %s (%d ciclos)", r.Index, r.OpText, r.Cost)
	if r.AccessesCache() {
		if r.Hit {
			fmt.Fprint(out, " HIT")
		} else {
			fmt.Fprint(out, " MISS")
		}
	}

	fmt.Fprintln(out)

	if r.ExplanationText != "" {
		fmt.Fprintf(out, "   %s\n", r.ExplanationText)
	}
}

func printSummary(
	out io.Writer,
	e *cpu.Engine,
	counter *tracing.StepCountTracer,
) {
	hits, misses := e.HitMissCounts()

	fmt.Fprintln(out)
	fmt.Fprintf(out, "Registradores: %s\n", e.RegistersText())
	fmt.Fprintf(out, "Memória: %s\n", e.MemoryText())
	fmt.Fprintf(out, "Cache (%s):\n", e.MappingMode())

	for i := 0; i < e.CacheSize(); i++ {
		text, err := e.CacheLineText(i)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			continue
		}

		fmt.Fprintf(out, "  %d: %s\n", i, text)
	}

	fmt.Fprintf(out, "Ciclos: %d  Hits: %d  Misses: %d\n",
		e.TotalCycles(), hits, misses)

	for _, kind := range counter.GetKindNames() {
		fmt.Fprintf(out, "  %-5s %d", kind, counter.GetStepCount(kind))

		if h, m := counter.GetHitCount(kind), counter.GetMissCount(kind); h+m > 0 {
			fmt.Fprintf(out, " (hits %d, misses %d)", h, m)
		}

		fmt.Fprintln(out)
	}
}
