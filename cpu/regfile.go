package cpu

import (
	"strconv"
	"strings"

	"github.com/sarchlab/cachesim/isa"
	"github.com/sarchlab/cachesim/sim"
)

// RegisterFile holds the general purpose registers.
type RegisterFile struct {
	values [isa.NumRegisters]int
}

// NewRegisterFile creates a register file with every register set to 0.
func NewRegisterFile() *RegisterFile {
	return &RegisterFile{}
}

// Get returns the value of a register.
func (f *RegisterFile) Get(r isa.Register) (int, error) {
	if err := sim.CheckRange("register", int(r), isa.NumRegisters); err != nil {
		return 0, err
	}

	return f.values[r], nil
}

// Set updates the value of a register.
func (f *RegisterFile) Set(r isa.Register, value int) error {
	if err := sim.CheckRange("register", int(r), isa.NumRegisters); err != nil {
		return err
	}

	f.values[r] = value

	return nil
}

// Reset sets every register to 0.
func (f *RegisterFile) Reset() {
	f.values = [isa.NumRegisters]int{}
}

// Values returns the register values keyed by register name.
func (f *RegisterFile) Values() map[string]int {
	m := make(map[string]int, isa.NumRegisters)
	for _, r := range isa.Registers() {
		m[r.String()] = f.values[r]
	}

	return m
}

// String renders the registers as "R1=3,R2=0,R3=0,R4=0".
func (f *RegisterFile) String() string {
	var b strings.Builder

	for i, r := range isa.Registers() {
		if i > 0 {
			b.WriteByte(',')
		}

		b.WriteString(r.String())
		b.WriteByte('=')
		b.WriteString(strconv.Itoa(f.values[r]))
	}

	return b.String()
}
