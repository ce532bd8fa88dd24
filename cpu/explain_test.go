package cpu

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/cachesim/isa"
	"github.com/sarchlab/cachesim/mem/cache"
)

var _ = Describe("DefaultExplainer", func() {
	var x DefaultExplainer

	It("should explain a load hit", func() {
		s := x.Explain(StepResult{
			Instruction: isa.Load{Dest: isa.R1, Addr: 5},
			Kind:        isa.KindLoad,
			Address:     5,
			Line:        1,
			Hit:         true,
			MappingMode: cache.Direct,
			Dest:        isa.R1,
			Value:       50,
			Cost:        5,
		})

		Expect(s).To(Equal("LOAD com HIT: Memória[5] já estava na linha 1 " +
			"da cache (mapeamento direto). Valor 50 copiado da cache para R1. " +
			"Custo: 5 ciclos."))
	})

	It("should explain a store miss with eviction", func() {
		s := x.Explain(StepResult{
			Instruction: isa.Store{Src: isa.R1, Addr: 3},
			Kind:        isa.KindStore,
			Address:     3,
			Line:        0,
			MappingMode: cache.Associative,
			Evicted:     true,
			EvictedTag:  5,
			Src:         isa.R1,
			Value:       -50,
			Cost:        10,
		})

		Expect(s).To(ContainSubstring("STORE com MISS"))
		Expect(s).To(ContainSubstring("mapeamento associativo"))
		Expect(s).To(ContainSubstring("A linha 0 continha Memória[5]"))
		Expect(s).NotTo(ContainSubstring("HIT"))
	})

	It("should explain arithmetic", func() {
		s := x.Explain(StepResult{
			Instruction: isa.Sub{A: isa.R4, B: isa.R2, Dest: isa.R1},
			Kind:        isa.KindSub,
			Dest:        isa.R1,
			OperandA:    40,
			OperandB:    90,
			Value:       -50,
			Cost:        2,
		})

		Expect(s).To(Equal("SUB: R4 (40) - R2 (90) = -50, resultado em R1. " +
			"Sem acesso à cache. Custo: 2 ciclos."))
	})

	It("should be deterministic", func() {
		r := StepResult{
			Instruction: isa.Add{A: isa.R1, B: isa.R2, Dest: isa.R3},
			Kind:        isa.KindAdd,
			Dest:        isa.R3,
		}

		Expect(x.Explain(r)).To(Equal(x.Explain(r)))
	})
})

var _ = Describe("OperationText", func() {
	DescribeTable("grammar",
		func(in isa.Instruction, expected string) {
			Expect(OperationText(in)).To(Equal(expected))
		},
		Entry("load", isa.Load{Dest: isa.R2, Addr: 9}, "LOAD: Memória[9] -> R2"),
		Entry("store", isa.Store{Src: isa.R3, Addr: 2}, "STORE: R3 -> Memória[2]"),
		Entry("add", isa.Add{A: isa.R1, B: isa.R2, Dest: isa.R3},
			"ADD: R1+R2 -> R3"),
		Entry("sub", isa.Sub{A: isa.R4, B: isa.R2, Dest: isa.R1},
			"SUB: R4-R2 -> R1"),
	)
})
