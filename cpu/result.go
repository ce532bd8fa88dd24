package cpu

import (
	"github.com/sarchlab/cachesim/isa"
	"github.com/sarchlab/cachesim/mem/cache"
)

// StepResult describes what a single step did, so that front-ends do not
// need to parse the operation text.
type StepResult struct {
	// Halted is set when the program had no instruction left. No other field
	// is meaningful in that case.
	Halted bool `json:"halted"`

	ID          string          `json:"id"`
	Index       int             `json:"index"`
	Instruction isa.Instruction `json:"-"`
	Kind        isa.Kind        `json:"kind"`

	// Cache access, for LOAD and STORE only. Line is -1 otherwise.
	Address     int               `json:"address"`
	Line        int               `json:"line"`
	Hit         bool              `json:"hit"`
	MappingMode cache.MappingMode `json:"mapping_mode"`
	Evicted     bool              `json:"evicted"`
	EvictedTag  int               `json:"evicted_tag"`

	// Registers. For LOAD, Dest receives Value. For STORE, Src provides
	// Value. For ADD and SUB, Dest receives Value = OperandA op OperandB.
	Src      isa.Register `json:"src"`
	Dest     isa.Register `json:"dest"`
	OperandA int          `json:"operand_a"`
	OperandB int          `json:"operand_b"`
	Value    int          `json:"value"`

	Cost            int    `json:"cost"`
	OpText          string `json:"op_text"`
	ExplanationText string `json:"explanation_text"`
}

// AccessesCache reports whether the step went through the cache.
func (r StepResult) AccessesCache() bool {
	return !r.Halted && r.Kind.MemoryAccess()
}
