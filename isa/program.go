package isa

import (
	"github.com/sarchlab/cachesim/sim"
)

// A Program is an ordered list of instructions together with the program
// counter that selects the next one to execute.
type Program struct {
	instructions []Instruction
	source       []string
	cursor       int
}

// NewProgram creates a program positioned at its first instruction. source
// holds the text each instruction was decoded from and may be nil.
func NewProgram(instructions []Instruction, source []string) *Program {
	p := &Program{
		instructions: instructions,
		source:       make([]string, len(instructions)),
	}

	for i, in := range instructions {
		if i < len(source) {
			p.source[i] = source[i]
		} else {
			p.source[i] = in.String()
		}
	}

	return p
}

// Len returns the number of instructions.
func (p *Program) Len() int {
	return len(p.instructions)
}

// Cursor returns the index of the next instruction to execute.
func (p *Program) Cursor() int {
	return p.cursor
}

// Halted reports whether every instruction has been executed.
func (p *Program) Halted() bool {
	return p.cursor >= len(p.instructions)
}

// Peek returns the instruction under the cursor without advancing.
func (p *Program) Peek() (Instruction, bool) {
	if p.Halted() {
		return nil, false
	}

	return p.instructions[p.cursor], true
}

// Fetch returns the instruction under the cursor and advances the cursor.
// The second return value is false when the program is halted.
func (p *Program) Fetch() (Instruction, bool) {
	if p.Halted() {
		return nil, false
	}

	in := p.instructions[p.cursor]
	p.cursor++

	return in, true
}

// Rewind moves the cursor back to the first instruction.
func (p *Program) Rewind() {
	p.cursor = 0
}

// Instruction returns the i-th instruction.
func (p *Program) Instruction(i int) (Instruction, error) {
	if err := sim.CheckRange("instruction", i, len(p.instructions)); err != nil {
		return nil, err
	}

	return p.instructions[i], nil
}

// Source returns the text of the i-th instruction.
func (p *Program) Source(i int) (string, error) {
	if err := sim.CheckRange("instruction", i, len(p.source)); err != nil {
		return "", err
	}

	return p.source[i], nil
}

// Sources returns a copy of the text of every instruction.
func (p *Program) Sources() []string {
	return append([]string(nil), p.source...)
}

// DefaultSource is the built-in demonstration program.
var DefaultSource = []string{
	"LOAD R1, 5",
	"LOAD R2, 9",
	"ADD R3, R1, R2",
	"STORE R3, 2",
	"LOAD R4, 4",
	"SUB R1, R4, R2",
	"STORE R1, 3",
}

// DefaultMemorySize is the smallest memory DefaultSource fits in.
const DefaultMemorySize = 10

// DefaultProgram decodes DefaultSource. It fails with a *ParseError when the
// memory holds fewer than DefaultMemorySize words.
func DefaultProgram(memSize int) (*Program, error) {
	return ParseProgram(DefaultSource, memSize)
}
