package tracing

// A Tracer can collect step traces
type Tracer interface {
	// StepInstruction is called after an instruction retires.
	StepInstruction(step Step)

	// Reset is called after the traced domain is reset.
	Reset(where string)
}
