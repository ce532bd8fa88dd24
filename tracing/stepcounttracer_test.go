package tracing

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/cachesim/cpu"
	"github.com/sarchlab/cachesim/mem/cache"
)

var _ = Describe("StepCountTracer", func() {
	var (
		t      *StepCountTracer
		engine *cpu.Engine
	)

	BeforeEach(func() {
		t = NewStepCountTracer(AllSteps)
		engine = cpu.MakeBuilder().WithDefaultProgram().Build("CPU")
		CollectTrace(engine, t)
	})

	It("should count the default program under direct mapping", func() {
		_, err := engine.Run(0)
		Expect(err).NotTo(HaveOccurred())

		Expect(t.GetKindNames()).To(Equal([]string{"LOAD", "ADD", "STORE", "SUB"}))
		Expect(t.GetStepCount("LOAD")).To(Equal(uint64(3)))
		Expect(t.GetStepCount("STORE")).To(Equal(uint64(2)))
		Expect(t.GetMissCount("LOAD")).To(Equal(uint64(3)))
		Expect(t.GetMissCount("STORE")).To(Equal(uint64(2)))
		Expect(t.GetHitCount("ADD")).To(BeZero())
		Expect(t.GetMissCount("ADD")).To(BeZero())
		Expect(t.TotalCycles()).To(Equal(engine.TotalCycles()))
	})

	It("should count hits", func() {
		Expect(engine.SetMappingMode(cache.Associative)).To(Succeed())
		Expect(engine.LoadInstructions([]string{
			"LOAD R1, 2",
			"LOAD R2, 2",
			"STORE R2, 2",
		})).To(Succeed())

		_, err := engine.Run(0)
		Expect(err).NotTo(HaveOccurred())

		Expect(t.GetHitCount("LOAD")).To(Equal(uint64(1)))
		Expect(t.GetMissCount("LOAD")).To(Equal(uint64(1)))
		Expect(t.GetHitCount("STORE")).To(Equal(uint64(1)))
	})

	It("should respect the filter", func() {
		t = NewStepCountTracer(MemorySteps)
		CollectTrace(engine, t)

		_, err := engine.Run(0)
		Expect(err).NotTo(HaveOccurred())

		Expect(t.GetStepCount("ADD")).To(BeZero())
		Expect(t.GetStepCount("LOAD")).To(Equal(uint64(3)))
		Expect(t.TotalCycles()).To(Equal(uint64(50)))
	})

	It("should forget counts on reset", func() {
		_, err := engine.Run(0)
		Expect(err).NotTo(HaveOccurred())

		engine.Reset()

		Expect(t.GetKindNames()).To(BeEmpty())
		Expect(t.TotalCycles()).To(BeZero())
	})
})
