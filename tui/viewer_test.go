package tui

import (
	"github.com/gdamore/tcell/v2"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/cachesim/cpu"
	"github.com/sarchlab/cachesim/mem/cache"
)

var _ = Describe("Viewer", func() {
	var (
		engine *cpu.Engine
		v      *Viewer
	)

	press := func(r rune) *tcell.EventKey {
		return v.handleKey(tcell.NewEventKey(tcell.KeyRune, r, tcell.ModNone))
	}

	BeforeEach(func() {
		engine = cpu.MakeBuilder().WithDefaultProgram().Build("CPU")
		v = NewViewer(engine)
	})

	It("should show the program with the cursor on the first instruction", func() {
		Expect(v.programView.GetText(true)).
			To(HavePrefix("> 0: LOAD R1, 5\n  1: LOAD R2, 9\n"))
	})

	It("should step on s", func() {
		Expect(press('s')).To(BeNil())

		Expect(engine.ProgramCounter()).To(Equal(1))
		Expect(v.programView.GetText(true)).To(ContainSubstring("> 1: LOAD R2, 9"))
		Expect(v.historyView.GetText(true)).To(ContainSubstring("-> R1 (10 ciclos)"))
		Expect(v.cacheView.GetCell(2, 2).Text).To(Equal("5"))
		Expect(v.registerView.GetCell(1, 0).Text).To(Equal("50"))
	})

	It("should step on enter", func() {
		v.handleKey(tcell.NewEventKey(tcell.KeyEnter, 0, tcell.ModNone))

		Expect(engine.ProgramCounter()).To(Equal(1))
	})

	It("should run and report when halted", func() {
		press('r')
		Expect(engine.Halted()).To(BeTrue())
		Expect(v.statusView.GetText(true)).To(Equal("7 instruções executadas."))
		Expect(v.lastView.GetText(true)).To(ContainSubstring("Ciclos: 54"))

		press('s')
		Expect(v.statusView.GetText(true)).
			To(Equal("Não há mais instruções para executar."))
	})

	It("should reset on x", func() {
		press('r')
		press('x')

		Expect(engine.TotalCycles()).To(BeZero())
		Expect(v.historyView.GetText(true)).To(BeEmpty())
		Expect(v.memoryView.GetCell(4, 1).Text).To(Equal("30"))
	})

	It("should toggle the mapping mode on m", func() {
		press('s')
		press('m')

		Expect(engine.MappingMode()).To(Equal(cache.Associative))
		Expect(v.cacheView.GetCell(2, 1).Text).To(Equal("0"))

		press('m')
		Expect(engine.MappingMode()).To(Equal(cache.Direct))
	})

	It("should toggle explanations on e", func() {
		press('e')
		press('s')

		Expect(engine.ExplanationMode()).To(BeTrue())
		Expect(v.lastView.GetText(true)).To(ContainSubstring("MISS"))
	})

	It("should clear the history on c", func() {
		press('s')
		press('c')

		Expect(engine.History()).To(BeEmpty())
		Expect(engine.TotalCycles()).To(Equal(uint64(10)))
	})

	It("should load the default program on d", func() {
		Expect(engine.LoadInstructions([]string{"ADD R1, R2, R3"})).To(Succeed())

		press('d')

		Expect(engine.InstructionCount()).To(Equal(7))
		Expect(v.statusView.GetText(true)).To(Equal("Programa padrão carregado."))
	})

	It("should report a default program that does not fit", func() {
		engine = cpu.MakeBuilder().WithMemorySize(5).Build("CPU")
		Expect(engine.LoadInstructions([]string{"ADD R1, R2, R3"})).To(Succeed())
		v = NewViewer(engine)

		Expect(func() { press('d') }).NotTo(Panic())

		Expect(engine.InstructionCount()).To(Equal(1))
		Expect(v.statusView.GetText(true)).To(ContainSubstring("out of range"))
	})

	It("should pass other keys through", func() {
		Expect(press('z')).NotTo(BeNil())
	})
})
