package tracing

import (
	"log"
	"sync"
)

// A TraceWriter persists steps.
type TraceWriter interface {
	Init() error
	Write(step Step)
	Flush()
	Close() error
}

// CollectorTracer keeps every step in memory.
type CollectorTracer struct {
	lock  sync.Mutex
	steps []Step
}

// NewCollectorTracer creates a new CollectorTracer.
func NewCollectorTracer() *CollectorTracer {
	return &CollectorTracer{}
}

// StepInstruction records the step.
func (t *CollectorTracer) StepInstruction(step Step) {
	t.lock.Lock()
	t.steps = append(t.steps, step)
	t.lock.Unlock()
}

// Reset drops the recorded steps.
func (t *CollectorTracer) Reset(_ string) {
	t.lock.Lock()
	t.steps = nil
	t.lock.Unlock()
}

// Steps returns a copy of the recorded steps.
func (t *CollectorTracer) Steps() []Step {
	t.lock.Lock()
	defer t.lock.Unlock()

	return append([]Step(nil), t.steps...)
}

// DBTracer is a tracer that can store steps into a database.
// DBTracers can connect with different backends so that the steps can be
// stored in different types of databases.
type DBTracer struct {
	filter  StepFilter
	backend TraceWriter
}

// NewDBTracer creates a new DBTracer.
func NewDBTracer(backend TraceWriter, filter StepFilter) *DBTracer {
	return &DBTracer{
		filter:  filter,
		backend: backend,
	}
}

// StepInstruction writes the step to the backend.
func (t *DBTracer) StepInstruction(step Step) {
	if !t.filter(step) {
		return
	}

	t.backend.Write(step)
}

// Reset flushes the steps recorded before the reset.
func (t *DBTracer) Reset(_ string) {
	t.backend.Flush()
}

// Terminate flushes the buffered steps and closes the backend.
func (t *DBTracer) Terminate() {
	t.backend.Flush()

	if err := t.backend.Close(); err != nil {
		log.Printf("closing trace backend: %v", err)
	}
}
