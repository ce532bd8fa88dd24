// Package tracing records the steps executed by an engine. Tracers are
// attached to a hookable domain with CollectTrace and receive one Step per
// executed instruction.
package tracing

import (
	"github.com/sarchlab/cachesim/cpu"
	"github.com/sarchlab/cachesim/sim"
)

// NamedHookable represent something both have a name and can be hooked
type NamedHookable interface {
	sim.Hookable
}

// A Step is the record of one executed instruction.
type Step struct {
	ID       string `json:"id"`
	Location string `json:"location"`
	Index    int    `json:"index"`
	Kind     string `json:"kind"`
	What     string `json:"what"`
	Address  int    `json:"address"`
	Line     int    `json:"line"`
	Hit      bool   `json:"hit"`
	Cost     int    `json:"cost"`

	// Cycle is the cycle count of the domain after the step, since its last
	// reset.
	Cycle uint64 `json:"cycle"`
}

// MakeStep converts the result of an engine step into a Step. The cycle
// field is left to the caller.
func MakeStep(where string, r cpu.StepResult) Step {
	return Step{
		ID:       r.ID,
		Location: where,
		Index:    r.Index,
		Kind:     r.Kind.String(),
		What:     r.OpText,
		Address:  r.Address,
		Line:     r.Line,
		Hit:      r.Hit,
		Cost:     r.Cost,
	}
}

// A StepFilter decides if a step should be recorded.
type StepFilter func(step Step) bool

// AllSteps is a StepFilter that accepts every step.
func AllSteps(Step) bool {
	return true
}

// MemorySteps is a StepFilter that accepts only LOAD and STORE steps.
func MemorySteps(s Step) bool {
	return s.Line >= 0
}
