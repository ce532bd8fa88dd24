package isa

import (
	"fmt"
	"strings"
)

// Register identifies one of the general purpose registers.
type Register int

// The register set, in declaration order.
const (
	R1 Register = iota
	R2
	R3
	R4
)

// NumRegisters is the size of the register file.
const NumRegisters = 4

var registerNames = [NumRegisters]string{"R1", "R2", "R3", "R4"}

// Registers returns all the registers in declaration order.
func Registers() []Register {
	return []Register{R1, R2, R3, R4}
}

// Valid reports whether r names a register of the register file.
func (r Register) Valid() bool {
	return r >= 0 && int(r) < NumRegisters
}

func (r Register) String() string {
	if !r.Valid() {
		return fmt.Sprintf("R?(%d)", int(r))
	}

	return registerNames[r]
}

// UnknownRegisterError is returned when a register name is not in the
// register set.
type UnknownRegisterError struct {
	Name string
}

func (e *UnknownRegisterError) Error() string {
	return fmt.Sprintf("unknown register %q", e.Name)
}

// ParseRegister converts a register name such as "R2" into a Register.
func ParseRegister(name string) (Register, error) {
	name = strings.TrimSpace(name)

	for i, n := range registerNames {
		if n == name {
			return Register(i), nil
		}
	}

	return 0, &UnknownRegisterError{Name: name}
}
