package cpu

import (
	"log"

	"github.com/sarchlab/cachesim/sim"
)

// StepLogHook writes one log line per step and per reset.
type StepLogHook struct {
	sim.LogHookBase
}

// NewStepLogHook creates a StepLogHook that writes to the logger.
func NewStepLogHook(logger *log.Logger) *StepLogHook {
	return &StepLogHook{LogHookBase: sim.NewLogHookBase(logger)}
}

// Func logs the step or the reset.
func (h *StepLogHook) Func(ctx sim.HookCtx) {
	switch ctx.Pos {
	case sim.HookPosStep:
		r, ok := ctx.Item.(StepResult)
		if !ok {
			return
		}

		outcome := ""
		if r.AccessesCache() {
			outcome = " MISS"
			if r.Hit {
				outcome = " HIT"
			}
		}

		h.Printf("%s: [%d] %s (%d ciclos)%s",
			ctx.Domain.Name(), r.Index, r.OpText, r.Cost, outcome)
	case sim.HookPosReset:
		h.Printf("%s: reset", ctx.Domain.Name())
	}
}
