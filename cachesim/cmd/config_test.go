package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/spf13/cobra"

	"github.com/sarchlab/cachesim/mem/cache"
)

var _ = Describe("Config", func() {
	var saved config

	BeforeEach(func() {
		saved = cfg
	})

	AfterEach(func() {
		cfg = saved
	})

	It("should build the default engine", func() {
		e, err := cfg.newEngine("", nil)

		Expect(err).NotTo(HaveOccurred())
		Expect(e.InstructionCount()).To(Equal(7))
		Expect(e.MappingMode()).To(Equal(cache.Direct))
		Expect(e.CacheSize()).To(Equal(4))
	})

	It("should reject a bad mapping", func() {
		cfg.mapping = "ring"

		_, err := cfg.newEngine("", nil)

		Expect(err).To(HaveOccurred())
	})

	It("should reject an unknown replacement policy", func() {
		cfg.replacement = "random"

		_, err := cfg.newEngine("", nil)

		Expect(err).To(MatchError(ContainSubstring("random")))
	})

	It("should refuse the built-in program on a small memory", func() {
		cfg.memorySize = 4

		_, err := cfg.newEngine("", nil)

		Expect(err).To(HaveOccurred())
	})

	It("should read a program from stdin", func() {
		e, err := cfg.newEngine("-", strings.NewReader("LOAD R1, 3\r\nSTORE R1, 4\r\n"))

		Expect(err).NotTo(HaveOccurred())
		Expect(e.Instructions()).To(Equal([]string{"LOAD R1, 3", "STORE R1, 4"}))
	})

	It("should read a program from a file", func() {
		path := filepath.Join(GinkgoT().TempDir(), "prog.txt")
		Expect(os.WriteFile(path, []byte("# test\nADD R1+R2->R3\n"), 0644)).
			To(Succeed())

		e, err := cfg.newEngine(path, nil)

		Expect(err).NotTo(HaveOccurred())
		Expect(e.InstructionCount()).To(Equal(1))
	})

	It("should name the file of a program that does not decode", func() {
		_, err := cfg.newEngine("-", strings.NewReader("LOAD R9, 1"))

		Expect(err).To(MatchError(ContainSubstring("line 1")))
	})

	It("should take defaults from the environment", func() {
		cmd := &cobra.Command{Use: "test"}
		cmd.Flags().StringVar(&cfg.mapping, "mapping", "direct", "")
		cmd.Flags().IntVar(&cfg.cacheLines, "cache-lines", 4, "")

		GinkgoT().Setenv("CACHESIM_MAPPING", "associative")
		GinkgoT().Setenv("CACHESIM_CACHE_LINES", "8")
		Expect(cmd.Flags().Set("cache-lines", "2")).To(Succeed())

		Expect(applyEnv(cmd)).To(Succeed())

		Expect(cfg.mapping).To(Equal("associative"))
		Expect(cfg.cacheLines).To(Equal(2))
	})

	It("should reject malformed environment values", func() {
		cmd := &cobra.Command{Use: "test"}
		cmd.Flags().IntVar(&cfg.memorySize, "memory-size", 10, "")

		GinkgoT().Setenv("CACHESIM_MEMORY_SIZE", "ten")

		Expect(applyEnv(cmd)).To(MatchError(ContainSubstring("CACHESIM_MEMORY_SIZE")))
	})
})

var _ = Describe("Run", func() {
	It("should print every step and the final state", func() {
		var out bytes.Buffer

		Expect(runProgram(&out, nil, "", "", 0)).To(Succeed())

		text := out.String()
		Expect(text).To(ContainSubstring("0: LOAD: Memória[5] -> R1 (10 ciclos) MISS"))
		Expect(text).To(ContainSubstring("2: ADD: R1+R2 -> R3 (2 ciclos)\n"))
		Expect(text).To(ContainSubstring("Registradores: R1=-50,R2=90,R3=140,R4=40"))
		Expect(text).To(ContainSubstring("Ciclos: 54  Hits: 0  Misses: 5"))
	})

	It("should stop after the step limit", func() {
		var out bytes.Buffer

		Expect(runProgram(&out, nil, "", "", 2)).To(Succeed())

		Expect(out.String()).NotTo(ContainSubstring("2: ADD"))
		Expect(out.String()).To(ContainSubstring("Ciclos: 20"))
	})
})
