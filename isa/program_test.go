package isa

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Program", func() {
	var p *Program

	BeforeEach(func() {
		p = NewProgram([]Instruction{
			Load{Dest: R1, Addr: 0},
			Add{A: R1, B: R1, Dest: R2},
		}, nil)
	})

	It("should fetch in order and halt at the end", func() {
		in, ok := p.Fetch()
		Expect(ok).To(BeTrue())
		Expect(in).To(Equal(Load{Dest: R1, Addr: 0}))

		_, ok = p.Fetch()
		Expect(ok).To(BeTrue())
		Expect(p.Halted()).To(BeTrue())

		_, ok = p.Fetch()
		Expect(ok).To(BeFalse())
		Expect(p.Cursor()).To(Equal(2))
	})

	It("should rewind", func() {
		p.Fetch()
		p.Rewind()

		Expect(p.Cursor()).To(Equal(0))
		Expect(p.Halted()).To(BeFalse())
	})

	It("should render source from instructions when none is given", func() {
		src, err := p.Source(1)

		Expect(err).NotTo(HaveOccurred())
		Expect(src).To(Equal("ADD R2, R1, R1"))
	})

	It("should reject out-of-range indices", func() {
		_, err := p.Instruction(2)
		Expect(err).To(HaveOccurred())

		_, err = p.Source(-1)
		Expect(err).To(HaveOccurred())
	})

	It("should report memory access kinds", func() {
		Expect(KindLoad.MemoryAccess()).To(BeTrue())
		Expect(KindSub.MemoryAccess()).To(BeFalse())

		addr, ok := Address(Store{Src: R4, Addr: 7})
		Expect(ok).To(BeTrue())
		Expect(addr).To(Equal(7))
	})
})

var _ = Describe("Register", func() {
	It("should round-trip names", func() {
		for _, r := range Registers() {
			parsed, err := ParseRegister(r.String())

			Expect(err).NotTo(HaveOccurred())
			Expect(parsed).To(Equal(r))
		}
	})

	It("should reject lower-case names", func() {
		_, err := ParseRegister("r1")

		Expect(err).To(MatchError(`unknown register "r1"`))
	})
})
