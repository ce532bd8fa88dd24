package tracing

import (
	"sync"
)

// StepCountTracer counts the steps of each kind, and the cache hits and
// misses of each kind.
type StepCountTracer struct {
	filter    StepFilter
	lock      sync.Mutex
	kindNames []string
	stepCount map[string]uint64
	hitCount  map[string]uint64
	missCount map[string]uint64
	cycles    uint64
}

// NewStepCountTracer creates a new StepCountTracer
func NewStepCountTracer(filter StepFilter) *StepCountTracer {
	t := &StepCountTracer{filter: filter}
	t.clear()

	return t
}

func (t *StepCountTracer) clear() {
	t.kindNames = nil
	t.stepCount = make(map[string]uint64)
	t.hitCount = make(map[string]uint64)
	t.missCount = make(map[string]uint64)
	t.cycles = 0
}

// GetKindNames returns the step kinds seen, in order of first appearance.
func (t *StepCountTracer) GetKindNames() []string {
	t.lock.Lock()
	defer t.lock.Unlock()

	return append([]string(nil), t.kindNames...)
}

// GetStepCount returns the number of steps recorded with a certain kind.
func (t *StepCountTracer) GetStepCount(kind string) uint64 {
	t.lock.Lock()
	defer t.lock.Unlock()

	return t.stepCount[kind]
}

// GetHitCount returns the number of cache hits of a certain kind.
func (t *StepCountTracer) GetHitCount(kind string) uint64 {
	t.lock.Lock()
	defer t.lock.Unlock()

	return t.hitCount[kind]
}

// GetMissCount returns the number of cache misses of a certain kind.
func (t *StepCountTracer) GetMissCount(kind string) uint64 {
	t.lock.Lock()
	defer t.lock.Unlock()

	return t.missCount[kind]
}

// TotalCycles returns the cycles of the recorded steps.
func (t *StepCountTracer) TotalCycles() uint64 {
	t.lock.Lock()
	defer t.lock.Unlock()

	return t.cycles
}

// StepInstruction counts the step.
func (t *StepCountTracer) StepInstruction(step Step) {
	if !t.filter(step) {
		return
	}

	t.lock.Lock()
	defer t.lock.Unlock()

	if _, ok := t.stepCount[step.Kind]; !ok {
		t.kindNames = append(t.kindNames, step.Kind)
	}

	t.stepCount[step.Kind]++
	t.cycles += uint64(step.Cost)

	if step.Line < 0 {
		return
	}

	if step.Hit {
		t.hitCount[step.Kind]++
	} else {
		t.missCount[step.Kind]++
	}
}

// Reset forgets all the counts.
func (t *StepCountTracer) Reset(_ string) {
	t.lock.Lock()
	t.clear()
	t.lock.Unlock()
}
