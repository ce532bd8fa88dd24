package tracing

import (
	"log"

	"github.com/sarchlab/cachesim/cpu"
	"github.com/sarchlab/cachesim/sim"
)

// CollectTrace let the tracer to collect trace from a domain
func CollectTrace(domain NamedHookable, tracer Tracer) {
	if tracer == nil {
		log.Panic("tracer must not be nil")
	}

	h := traceHook{t: tracer}
	if c, ok := domain.(cycleCounter); ok {
		h.cycle = c.TotalCycles()
	}

	domain.AcceptHook(&h)
}

// A cycleCounter reports the cycles charged since its last reset.
type cycleCounter interface {
	TotalCycles() uint64
}

// A traceHook is a hook that converts engine steps into Steps
type traceHook struct {
	t     Tracer
	cycle uint64
}

// Func calls the tracer interfaces when the hook is triggered
func (h *traceHook) Func(ctx sim.HookCtx) {
	switch ctx.Pos {
	case sim.HookPosStep:
		r, ok := ctx.Item.(cpu.StepResult)
		if !ok {
			log.Panicf("step hook carries %T, not a step result", ctx.Item)
		}

		h.cycle += uint64(r.Cost)

		step := MakeStep(ctx.Domain.Name(), r)
		step.Cycle = h.cycle
		h.t.StepInstruction(step)
	case sim.HookPosReset:
		h.cycle = 0
		h.t.Reset(ctx.Domain.Name())
	}
}
