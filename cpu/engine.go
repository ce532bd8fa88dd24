// Package cpu implements the execution engine of the simulated machine: a
// register file, a main memory and a cache driven one instruction at a time.
//
// An Engine is not safe for concurrent use. Front-ends that serve several
// clients must serialize their calls.
package cpu

import (
	"fmt"
	"log"

	"github.com/sarchlab/cachesim/isa"
	"github.com/sarchlab/cachesim/mem/cache"
	"github.com/sarchlab/cachesim/memory"
	"github.com/sarchlab/cachesim/sim"
)

// Engine executes a Program against the register file, the main memory and
// the cache, charging cycles according to a CostModel.
type Engine struct {
	*sim.HookableBase

	name      string
	program   *isa.Program
	regs      *RegisterFile
	memory    *memory.Storage
	cache     *cache.Cache
	costs     CostModel
	explainer Explainer
	history   HistoryLog

	explanationMode bool

	totalCycles uint64
	hits        uint64
	misses      uint64
	stepCount   int

	lastOpText          string
	lastExplanationText string
	lastCost            int
}

// Name returns the name of the engine.
func (e *Engine) Name() string {
	return e.name
}

// Step executes the next instruction. When the program is halted, Step
// returns a result with Halted set and changes nothing.
func (e *Engine) Step() (StepResult, error) {
	in, ok := e.program.Peek()
	if !ok {
		return StepResult{Halted: true, Line: -1, Address: -1}, nil
	}

	if err := e.checkOperands(in); err != nil {
		return StepResult{}, fmt.Errorf(
			"instruction %d %q: %w", e.program.Cursor(), in, err)
	}

	index := e.program.Cursor()
	e.program.Fetch()

	r := StepResult{
		Index:       index,
		Instruction: in,
		Kind:        in.Kind(),
		Address:     -1,
		Line:        -1,
		MappingMode: e.cache.MappingMode(),
	}

	switch in := in.(type) {
	case isa.Load:
		e.load(in, &r)
	case isa.Store:
		e.store(in, &r)
	case isa.Add:
		e.alu(in.A, in.B, in.Dest, &r, func(a, b int) int { return a + b })
	case isa.Sub:
		e.alu(in.A, in.B, in.Dest, &r, func(a, b int) int { return a - b })
	}

	r.Cost = e.costs.Cost(r.Kind, r.Hit)
	e.totalCycles += uint64(r.Cost)
	e.lastCost = r.Cost

	r.OpText = OperationText(in)
	if e.explanationMode {
		r.ExplanationText = e.explainer.Explain(r)
	}

	e.lastOpText = r.OpText
	e.lastExplanationText = r.ExplanationText

	r.ID = sim.GetIDGenerator().Generate()
	e.history.Append(HistoryEntry{
		ID:              r.ID,
		Index:           e.stepCount,
		OpText:          r.OpText,
		ExplanationText: r.ExplanationText,
		Cost:            r.Cost,
	})
	e.stepCount++

	e.InvokeHook(sim.HookCtx{
		Domain: e,
		Pos:    sim.HookPosStep,
		Item:   r,
	})

	return r, nil
}

// checkOperands validates the references of an instruction against the
// machine it is about to run on.
func (e *Engine) checkOperands(in isa.Instruction) error {
	var regs []isa.Register

	switch in := in.(type) {
	case isa.Load:
		regs = []isa.Register{in.Dest}
	case isa.Store:
		regs = []isa.Register{in.Src}
	case isa.Add:
		regs = []isa.Register{in.A, in.B, in.Dest}
	case isa.Sub:
		regs = []isa.Register{in.A, in.B, in.Dest}
	}

	for _, r := range regs {
		if err := sim.CheckRange("register", int(r), isa.NumRegisters); err != nil {
			return err
		}
	}

	if addr, ok := isa.Address(in); ok {
		return sim.CheckRange("address", addr, e.memory.Size())
	}

	return nil
}

func (e *Engine) load(in isa.Load, r *StepResult) {
	r.Address = in.Addr
	r.Dest = in.Dest

	line, hit := e.cache.Lookup(in.Addr)
	if hit {
		r.Value = must(e.cache.ReadHitData(line))
		e.hits++
	} else {
		r.Value = must(e.memory.Read(in.Addr))
		line = e.fill(in.Addr, r.Value, r)
		e.misses++
	}

	r.Line = line
	r.Hit = hit

	mustSucceed(e.regs.Set(in.Dest, r.Value))
}

func (e *Engine) store(in isa.Store, r *StepResult) {
	r.Address = in.Addr
	r.Src = in.Src
	r.Value = must(e.regs.Get(in.Src))

	line, hit := e.cache.Lookup(in.Addr)
	if hit {
		mustSucceed(e.cache.WriteHitData(line, r.Value))
		e.hits++
	} else {
		line = e.fill(in.Addr, r.Value, r)
		e.misses++
	}

	r.Line = line
	r.Hit = hit

	mustSucceed(e.memory.Write(in.Addr, r.Value))
}

func (e *Engine) fill(addr, value int, r *StepResult) int {
	victim := must(e.cache.Line(e.cache.FillTarget(addr)))
	if victim.Valid {
		r.Evicted = true
		r.EvictedTag = victim.Tag
	}

	return e.cache.Fill(addr, value)
}

func (e *Engine) alu(
	a, b, dest isa.Register,
	r *StepResult,
	op func(a, b int) int,
) {
	r.Dest = dest
	r.OperandA = must(e.regs.Get(a))
	r.OperandB = must(e.regs.Get(b))
	r.Value = op(r.OperandA, r.OperandB)

	mustSucceed(e.regs.Set(dest, r.Value))
}

// Run steps until the program halts or maxSteps instructions have executed.
// A maxSteps of zero or less means no limit.
func (e *Engine) Run(maxSteps int) ([]StepResult, error) {
	var results []StepResult

	for maxSteps <= 0 || len(results) < maxSteps {
		r, err := e.Step()
		if err != nil {
			return results, err
		}

		if r.Halted {
			break
		}

		results = append(results, r)
	}

	return results, nil
}

// Halted reports whether the program has no instruction left.
func (e *Engine) Halted() bool {
	return e.program.Halted()
}

// ProgramCounter returns the index of the next instruction.
func (e *Engine) ProgramCounter() int {
	return e.program.Cursor()
}

// Reset restores registers, memory, cache, counters and history to their
// power-on state and rewinds the program. The loaded program, the
// explanation mode and the mapping mode are kept.
func (e *Engine) Reset() {
	e.regs.Reset()
	e.memory.Reset()
	e.cache.Invalidate()
	e.cache.ResetStats()
	e.program.Rewind()
	e.history.Clear()

	e.totalCycles = 0
	e.hits = 0
	e.misses = 0
	e.stepCount = 0
	e.lastOpText = ""
	e.lastExplanationText = ""
	e.lastCost = 0

	e.InvokeHook(sim.HookCtx{Domain: e, Pos: sim.HookPosReset})
}

// LoadInstructions replaces the program with the decoded lines and rewinds
// it. If any line fails to decode, the current program is kept and the
// returned error is an *isa.ParseError. Registers, memory and cache are not
// touched.
func (e *Engine) LoadInstructions(lines []string) error {
	p, err := isa.ParseProgram(lines, e.memory.Size())
	if err != nil {
		return err
	}

	e.program = p

	return nil
}

// LoadDefaultProgram replaces the program with the built-in demonstration
// program. If the program does not fit the memory, the current program is
// kept and the returned error is an *isa.ParseError.
func (e *Engine) LoadDefaultProgram() error {
	p, err := isa.DefaultProgram(e.memory.Size())
	if err != nil {
		return err
	}

	e.program = p

	return nil
}

// InstructionCount returns the number of instructions of the program.
func (e *Engine) InstructionCount() int {
	return e.program.Len()
}

// InstructionText returns the source text of the i-th instruction.
func (e *Engine) InstructionText(i int) (string, error) {
	return e.program.Source(i)
}

// Instructions returns the source text of every instruction.
func (e *Engine) Instructions() []string {
	return e.program.Sources()
}

// Register returns the value of a register by name.
func (e *Engine) Register(name string) (int, error) {
	r, err := isa.ParseRegister(name)
	if err != nil {
		return 0, err
	}

	return e.regs.Get(r)
}

// SetRegister overrides a register by name.
func (e *Engine) SetRegister(name string, value int) error {
	r, err := isa.ParseRegister(name)
	if err != nil {
		return err
	}

	return e.regs.Set(r, value)
}

// Registers returns the register values keyed by name.
func (e *Engine) Registers() map[string]int {
	return e.regs.Values()
}

// RegistersText renders the registers as "R1=3,R2=0,R3=0,R4=0".
func (e *Engine) RegistersText() string {
	return e.regs.String()
}

// MemorySize returns the number of memory words.
func (e *Engine) MemorySize() int {
	return e.memory.Size()
}

// MemoryWord returns a memory word.
func (e *Engine) MemoryWord(addr int) (int, error) {
	return e.memory.Read(addr)
}

// SetMemoryWord overrides a memory word. The cache is not updated.
func (e *Engine) SetMemoryWord(addr int, value int) error {
	return e.memory.Write(addr, value)
}

// Memory returns a copy of the memory content.
func (e *Engine) Memory() []int {
	return e.memory.Words()
}

// MemoryText renders the memory as "[0]: 0,[1]: 10,...".
func (e *Engine) MemoryText() string {
	return e.memory.String()
}

// CacheSize returns the number of cache lines.
func (e *Engine) CacheSize() int {
	return e.cache.NumLines()
}

// CacheLines returns a copy of the cache lines.
func (e *Engine) CacheLines() []cache.Line {
	return e.cache.Lines()
}

// CacheLineText renders a cache line as "V=1,T=5,D=42".
func (e *Engine) CacheLineText(line int) (string, error) {
	return e.cache.LineString(line)
}

// SetCacheLineData overrides the data of a cache line. Memory is not
// updated.
func (e *Engine) SetCacheLineData(line int, value int) error {
	return e.cache.SetLineData(line, value)
}

// CacheStats returns the fill and eviction counts of the cache.
func (e *Engine) CacheStats() cache.Statistics {
	return e.cache.Stats()
}

// MappingMode returns the cache mapping mode.
func (e *Engine) MappingMode() cache.MappingMode {
	return e.cache.MappingMode()
}

// SetMappingMode switches the cache mapping mode. Switching to a different
// mode invalidates the cache; hit and miss counts are kept.
func (e *Engine) SetMappingMode(mode cache.MappingMode) error {
	_, err := e.cache.SetMappingMode(mode)
	return err
}

// ExplanationMode reports whether steps produce explanation text.
func (e *Engine) ExplanationMode() bool {
	return e.explanationMode
}

// SetExplanationMode turns explanation text on or off.
func (e *Engine) SetExplanationMode(on bool) {
	e.explanationMode = on
}

// LastOperationText returns the operation text of the last step.
func (e *Engine) LastOperationText() string {
	return e.lastOpText
}

// LastExplanationText returns the explanation of the last step, or "" when
// explanation mode was off.
func (e *Engine) LastExplanationText() string {
	return e.lastExplanationText
}

// LastCost returns the cycles charged by the last step.
func (e *Engine) LastCost() int {
	return e.lastCost
}

// TotalCycles returns the cycles charged since the last reset.
func (e *Engine) TotalCycles() uint64 {
	return e.totalCycles
}

// HitMissCounts returns the cache hits and misses since the last reset.
func (e *Engine) HitMissCounts() (hits, misses uint64) {
	return e.hits, e.misses
}

// History returns a copy of the history entries.
func (e *Engine) History() []HistoryEntry {
	return e.history.Entries()
}

// HistoryText renders the history one step per line.
func (e *Engine) HistoryText() string {
	return e.history.String()
}

// ClearHistory removes every history entry.
func (e *Engine) ClearHistory() {
	e.history.Clear()
}

func must[T any](v T, err error) T {
	if err != nil {
		log.Panic(err)
	}

	return v
}

func mustSucceed(err error) {
	if err != nil {
		log.Panic(err)
	}
}
