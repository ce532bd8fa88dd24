package isa

import "fmt"

// Kind is the class of an instruction.
type Kind int

// The instruction kinds.
const (
	KindLoad Kind = iota
	KindStore
	KindAdd
	KindSub
)

func (k Kind) String() string {
	switch k {
	case KindLoad:
		return "LOAD"
	case KindStore:
		return "STORE"
	case KindAdd:
		return "ADD"
	case KindSub:
		return "SUB"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// MemoryAccess reports whether instructions of this kind go through the
// cache.
func (k Kind) MemoryAccess() bool {
	return k == KindLoad || k == KindStore
}

// An Instruction is one decoded program line. The set of implementations is
// closed: Load, Store, Add and Sub.
type Instruction interface {
	fmt.Stringer

	Kind() Kind

	sealed()
}

// Load copies the word at Addr into Dest.
type Load struct {
	Dest Register
	Addr int
}

// Store copies Src into the word at Addr.
type Store struct {
	Src  Register
	Addr int
}

// Add sets Dest to A + B.
type Add struct {
	A, B, Dest Register
}

// Sub sets Dest to A - B.
type Sub struct {
	A, B, Dest Register
}

func (Load) Kind() Kind  { return KindLoad }
func (Store) Kind() Kind { return KindStore }
func (Add) Kind() Kind   { return KindAdd }
func (Sub) Kind() Kind   { return KindSub }

func (Load) sealed()  {}
func (Store) sealed() {}
func (Add) sealed()   {}
func (Sub) sealed()   {}

func (i Load) String() string {
	return fmt.Sprintf("LOAD %s, %d", i.Dest, i.Addr)
}

func (i Store) String() string {
	return fmt.Sprintf("STORE %s, %d", i.Src, i.Addr)
}

func (i Add) String() string {
	return fmt.Sprintf("ADD %s, %s, %s", i.Dest, i.A, i.B)
}

func (i Sub) String() string {
	return fmt.Sprintf("SUB %s, %s, %s", i.Dest, i.A, i.B)
}

// Address returns the memory address an instruction accesses. The second
// return value is false for instructions that do not access memory.
func Address(in Instruction) (int, bool) {
	switch in := in.(type) {
	case Load:
		return in.Addr, true
	case Store:
		return in.Addr, true
	default:
		return 0, false
	}
}
