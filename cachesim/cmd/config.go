package cmd

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/sarchlab/cachesim/cpu"
	"github.com/sarchlab/cachesim/isa"
	"github.com/sarchlab/cachesim/mem/cache"
)

type config struct {
	envFile     string
	mapping     string
	explain     bool
	memorySize  int
	cacheLines  int
	replacement string
	verbose     bool
}

var cfg = config{
	envFile:     ".env",
	mapping:     "direct",
	memorySize:  10,
	cacheLines:  4,
	replacement: "fixed",
}

// envFlags maps flags to the environment variables that provide their
// default values.
var envFlags = []struct {
	flag string
	env  string
}{
	{"mapping", "CACHESIM_MAPPING"},
	{"explain", "CACHESIM_EXPLAIN"},
	{"memory-size", "CACHESIM_MEMORY_SIZE"},
	{"cache-lines", "CACHESIM_CACHE_LINES"},
	{"replacement", "CACHESIM_REPLACEMENT"},
	{"verbose", "CACHESIM_VERBOSE"},
	{"trace-db", "CACHESIM_TRACE_DB"},
	{"port", "CACHESIM_PORT"},
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&cfg.envFile, "env-file", cfg.envFile,
		"File with CACHESIM_* variables, ignored if missing.")
	flags.StringVar(&cfg.mapping, "mapping", cfg.mapping,
		"Cache mapping mode, direct or associative.")
	flags.BoolVar(&cfg.explain, "explain", cfg.explain,
		"Describe what every step did.")
	flags.IntVar(&cfg.memorySize, "memory-size", cfg.memorySize,
		"Number of memory words.")
	flags.IntVar(&cfg.cacheLines, "cache-lines", cfg.cacheLines,
		"Number of cache lines.")
	flags.StringVar(&cfg.replacement, "replacement", cfg.replacement,
		"Associative replacement policy, fixed or lru.")
	flags.BoolVarP(&cfg.verbose, "verbose", "v", cfg.verbose,
		"Log every step to stderr.")
}

// loadConfig reads the env file and fills every flag that was not given on
// the command line from its environment variable.
func loadConfig(cmd *cobra.Command, _ []string) error {
	err := godotenv.Load(cfg.envFile)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("loading %s: %w", cfg.envFile, err)
	}

	return applyEnv(cmd)
}

func applyEnv(cmd *cobra.Command) error {
	for _, ef := range envFlags {
		f := cmd.Flags().Lookup(ef.flag)
		if f == nil || f.Changed {
			continue
		}

		v, ok := os.LookupEnv(ef.env)
		if !ok {
			continue
		}

		if err := cmd.Flags().Set(ef.flag, v); err != nil {
			return fmt.Errorf("%s=%q: %w", ef.env, v, err)
		}
	}

	return nil
}

func (c config) builder() (cpu.Builder, error) {
	mode, err := cache.ParseMappingMode(c.mapping)
	if err != nil {
		return cpu.Builder{}, fmt.Errorf("mapping: %w", err)
	}

	if _, err := cache.NewVictimFinder(c.replacement); err != nil {
		return cpu.Builder{}, err
	}

	if c.memorySize <= 0 {
		return cpu.Builder{}, fmt.Errorf(
			"memory size must be positive, got %d", c.memorySize)
	}

	if c.cacheLines <= 0 {
		return cpu.Builder{}, fmt.Errorf(
			"cache lines must be positive, got %d", c.cacheLines)
	}

	return cpu.MakeBuilder().
		WithMemorySize(c.memorySize).
		WithCacheLines(c.cacheLines).
		WithMappingMode(mode).
		WithReplacementPolicy(strings.ToLower(c.replacement)).
		WithExplanationMode(c.explain), nil
}

// newEngine builds an engine and loads the program in path. An empty path
// loads the built-in program; "-" reads the program from stdin.
func (c config) newEngine(path string, stdin io.Reader) (*cpu.Engine, error) {
	b, err := c.builder()
	if err != nil {
		return nil, err
	}

	e := b.Build("CPU")
	if c.verbose {
		e.AcceptHook(cpu.NewStepLogHook(log.New(os.Stderr, "", log.LstdFlags)))
	}

	if path == "" {
		if c.memorySize < isa.DefaultMemorySize {
			return nil, fmt.Errorf(
				"the built-in program needs %d memory words, got %d",
				isa.DefaultMemorySize, c.memorySize)
		}

		if err := e.LoadDefaultProgram(); err != nil {
			return nil, err
		}

		return e, nil
	}

	lines, err := readProgram(path, stdin)
	if err != nil {
		return nil, err
	}

	if err := e.LoadInstructions(lines); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	return e, nil
}

func readProgram(path string, stdin io.Reader) ([]string, error) {
	var data []byte
	var err error

	if path == "-" {
		data, err = io.ReadAll(stdin)
	} else {
		data, err = os.ReadFile(path)
	}

	if err != nil {
		return nil, err
	}

	text := strings.ReplaceAll(string(data), "\r\n", "\n")

	return strings.Split(text, "\n"), nil
}
