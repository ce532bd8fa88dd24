package cpu

import (
	"fmt"
	"log"

	"github.com/sarchlab/cachesim/isa"
)

// OperationText renders an instruction in the operation grammar front-ends
// match against:
//
//	LOAD: Memória[<addr>] -> <Reg>
//	STORE: <Reg> -> Memória[<addr>]
//	ADD: <RegA>+<RegB> -> <RegDest>
//	SUB: <RegA>-<RegB> -> <RegDest>
func OperationText(in isa.Instruction) string {
	switch in := in.(type) {
	case isa.Load:
		return fmt.Sprintf("LOAD: Memória[%d] -> %s", in.Addr, in.Dest)
	case isa.Store:
		return fmt.Sprintf("STORE: %s -> Memória[%d]", in.Src, in.Addr)
	case isa.Add:
		return fmt.Sprintf("ADD: %s+%s -> %s", in.A, in.B, in.Dest)
	case isa.Sub:
		return fmt.Sprintf("SUB: %s-%s -> %s", in.A, in.B, in.Dest)
	default:
		log.Panicf("unknown instruction %T", in)
		return ""
	}
}
