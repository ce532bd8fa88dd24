package isa

import (
	"errors"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/cachesim/sim"
)

var _ = Describe("Parse", func() {
	DescribeTable("accepted forms",
		func(text string, expected Instruction) {
			in, err := Parse(text, 10)

			Expect(err).NotTo(HaveOccurred())
			Expect(in).To(Equal(expected))
		},
		Entry("load, comma", "LOAD R1, 5", Load{Dest: R1, Addr: 5}),
		Entry("load, brackets", "LOAD R1,[0]", Load{Dest: R1, Addr: 0}),
		Entry("load, space brackets", "LOAD R2 [9]", Load{Dest: R2, Addr: 9}),
		Entry("load, tab", "LOAD\tR4 3", Load{Dest: R4, Addr: 3}),
		Entry("store, comma", "STORE R3, 2", Store{Src: R3, Addr: 2}),
		Entry("store, brackets", "STORE R3,[2]", Store{Src: R3, Addr: 2}),
		Entry("add, dest first", "ADD R3, R1, R2", Add{A: R1, B: R2, Dest: R3}),
		Entry("add, arrow", "ADD R1+R2->R3", Add{A: R1, B: R2, Dest: R3}),
		Entry("add, spaced arrow", "ADD R1 + R2 -> R3",
			Add{A: R1, B: R2, Dest: R3}),
		Entry("sub, dest first", "SUB R1, R4, R2", Sub{A: R4, B: R2, Dest: R1}),
		Entry("sub, arrow", "SUB R4-R2->R1", Sub{A: R4, B: R2, Dest: R1}),
	)

	It("should reject unknown opcodes", func() {
		_, err := Parse("FOO R1,[0]", 10)

		Expect(errors.Is(err, ErrUnknownOpcode)).To(BeTrue())
		Expect(err.Error()).To(ContainSubstring(`"FOO"`))
	})

	It("should treat opcodes as case-sensitive", func() {
		_, err := Parse("load R1, 0", 10)

		Expect(errors.Is(err, ErrUnknownOpcode)).To(BeTrue())
	})

	It("should reject unknown registers", func() {
		_, err := Parse("LOAD R9, 0", 10)

		var unknown *UnknownRegisterError
		Expect(errors.As(err, &unknown)).To(BeTrue())
		Expect(unknown.Name).To(Equal("R9"))
	})

	It("should reject out-of-range addresses", func() {
		_, err := Parse("STORE R1, 10", 10)

		var oor *sim.OutOfRangeError
		Expect(errors.As(err, &oor)).To(BeTrue())
		Expect(oor.Index).To(Equal(10))
	})

	It("should reject negative addresses", func() {
		_, err := Parse("LOAD R1, -1", 10)

		var oor *sim.OutOfRangeError
		Expect(errors.As(err, &oor)).To(BeTrue())
	})

	DescribeTable("malformed operands",
		func(text string) {
			_, err := Parse(text, 10)

			Expect(errors.Is(err, ErrMalformedOperand)).To(BeTrue())
		},
		Entry("missing address", "LOAD R1"),
		Entry("address not a number", "LOAD R1, x"),
		Entry("unbalanced bracket", "LOAD R1, [3"),
		Entry("too many registers", "ADD R1, R2, R3, R4"),
		Entry("wrong arrow sign", "ADD R1-R2->R3"),
	)
})

var _ = Describe("ParseProgram", func() {
	It("should parse every line and keep the source text", func() {
		p, err := ParseProgram([]string{
			"LOAD R1, 5",
			"",
			"# comment",
			"  ADD R1+R2->R3  ",
		}, 10)

		Expect(err).NotTo(HaveOccurred())
		Expect(p.Len()).To(Equal(2))
		Expect(p.Sources()).To(Equal([]string{"LOAD R1, 5", "ADD R1+R2->R3"}))
	})

	It("should report the failing line", func() {
		_, err := ParseProgram([]string{"LOAD R1, 5", "", "FOO R1,[0]"}, 10)

		var perr *ParseError
		Expect(errors.As(err, &perr)).To(BeTrue())
		Expect(perr.Line).To(Equal(3))
		Expect(perr.Text).To(Equal("FOO R1,[0]"))
		Expect(perr.Reason()).To(ContainSubstring("unknown opcode"))
	})

	It("should decode the default program", func() {
		p, err := DefaultProgram(10)

		Expect(err).NotTo(HaveOccurred())
		Expect(p.Len()).To(Equal(7))
		Expect(p.Sources()).To(Equal(DefaultSource))
	})

	It("should fail if the default program does not fit", func() {
		p, err := DefaultProgram(4)

		Expect(p).To(BeNil())
		var perr *ParseError
		Expect(errors.As(err, &perr)).To(BeTrue())
		Expect(perr.Line).To(Equal(1))

		var oor *sim.OutOfRangeError
		Expect(errors.As(err, &oor)).To(BeTrue())
		Expect(oor.Index).To(Equal(5))
	})
})
