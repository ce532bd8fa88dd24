package isa

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/sarchlab/cachesim/sim"
)

// Parse failure causes that are not carried by a more specific error type.
var (
	ErrUnknownOpcode    = errors.New("unknown opcode")
	ErrMalformedOperand = errors.New("malformed operand")
	ErrEmptyLine        = errors.New("empty instruction")
)

// ParseError reports a program line that could not be decoded.
type ParseError struct {
	Line int // 1-based line number in the submitted batch.
	Text string
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("line %d %q: %s", e.Line, e.Text, e.Reason())
}

// Reason returns the human readable cause of the failure.
func (e *ParseError) Reason() string {
	return e.Err.Error()
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// ParseProgram decodes a batch of source lines into a Program. Blank lines
// and lines starting with '#' or ';' are skipped. Addresses must be within
// [0, memSize). Either every line decodes or no Program is returned.
func ParseProgram(lines []string, memSize int) (*Program, error) {
	instructions := make([]Instruction, 0, len(lines))
	source := make([]string, 0, len(lines))

	for i, line := range lines {
		text := strings.TrimSpace(line)
		if skipLine(text) {
			continue
		}

		in, err := Parse(text, memSize)
		if err != nil {
			return nil, &ParseError{Line: i + 1, Text: text, Err: err}
		}

		instructions = append(instructions, in)
		source = append(source, text)
	}

	return NewProgram(instructions, source), nil
}

func skipLine(text string) bool {
	return text == "" ||
		strings.HasPrefix(text, "#") ||
		strings.HasPrefix(text, ";")
}

// Parse decodes a single instruction. Accepted forms are
//
//	LOAD R1, 5      LOAD R1,[5]      LOAD R1 [5]
//	STORE R3, 2     STORE R3,[2]
//	ADD R3, R1, R2  ADD R1+R2->R3
//	SUB R1, R4, R2  SUB R4-R2->R1
//
// The three-register comma form names the destination first.
func Parse(text string, memSize int) (Instruction, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, ErrEmptyLine
	}

	opcode, rest := text, ""
	if i := strings.IndexAny(text, " \t"); i >= 0 {
		opcode, rest = text[:i], text[i+1:]
	}

	switch opcode {
	case "LOAD":
		reg, addr, err := parseMemoryOperands(rest, memSize)
		if err != nil {
			return nil, err
		}

		return Load{Dest: reg, Addr: addr}, nil
	case "STORE":
		reg, addr, err := parseMemoryOperands(rest, memSize)
		if err != nil {
			return nil, err
		}

		return Store{Src: reg, Addr: addr}, nil
	case "ADD":
		a, b, dest, err := parseALUOperands(rest, "+")
		if err != nil {
			return nil, err
		}

		return Add{A: a, B: b, Dest: dest}, nil
	case "SUB":
		a, b, dest, err := parseALUOperands(rest, "-")
		if err != nil {
			return nil, err
		}

		return Sub{A: a, B: b, Dest: dest}, nil
	default:
		return nil, fmt.Errorf("%w %q", ErrUnknownOpcode, opcode)
	}
}

func operandFields(s string) []string {
	return strings.Fields(strings.ReplaceAll(s, ",", " "))
}

func parseMemoryOperands(s string, memSize int) (Register, int, error) {
	fields := operandFields(s)
	if len(fields) != 2 {
		return 0, 0, fmt.Errorf(
			"%w: expected a register and an address, got %q",
			ErrMalformedOperand, strings.TrimSpace(s))
	}

	reg, err := ParseRegister(fields[0])
	if err != nil {
		return 0, 0, err
	}

	addr, err := parseAddress(fields[1], memSize)
	if err != nil {
		return 0, 0, err
	}

	return reg, addr, nil
}

func parseAddress(s string, memSize int) (int, error) {
	if strings.HasPrefix(s, "[") || strings.HasSuffix(s, "]") {
		if !strings.HasPrefix(s, "[") || !strings.HasSuffix(s, "]") {
			return 0, fmt.Errorf("%w: unbalanced brackets in %q",
				ErrMalformedOperand, s)
		}

		s = s[1 : len(s)-1]
	}

	addr, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("%w: address %q is not an integer",
			ErrMalformedOperand, s)
	}

	if err := sim.CheckRange("address", addr, memSize); err != nil {
		return 0, err
	}

	return addr, nil
}

func parseALUOperands(s, sign string) (a, b, dest Register, err error) {
	if strings.Contains(s, "->") {
		return parseArrowOperands(s, sign)
	}

	fields := operandFields(s)
	if len(fields) != 3 {
		err = fmt.Errorf("%w: expected three registers, got %q",
			ErrMalformedOperand, strings.TrimSpace(s))
		return
	}

	regs, err := parseRegisters(fields...)
	if err != nil {
		return
	}

	return regs[1], regs[2], regs[0], nil
}

func parseArrowOperands(s, sign string) (a, b, dest Register, err error) {
	lhs, rhs, _ := strings.Cut(s, "->")

	srcA, srcB, found := strings.Cut(lhs, sign)
	if !found {
		err = fmt.Errorf("%w: expected <reg>%s<reg> before '->', got %q",
			ErrMalformedOperand, sign, strings.TrimSpace(lhs))
		return
	}

	regs, err := parseRegisters(srcA, srcB, rhs)
	if err != nil {
		return
	}

	return regs[0], regs[1], regs[2], nil
}

func parseRegisters(names ...string) ([]Register, error) {
	regs := make([]Register, 0, len(names))

	for _, n := range names {
		r, err := ParseRegister(n)
		if err != nil {
			return nil, err
		}

		regs = append(regs, r)
	}

	return regs, nil
}
