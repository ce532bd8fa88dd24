package cpu

import (
	"log"

	"github.com/sarchlab/cachesim/isa"
	"github.com/sarchlab/cachesim/mem/cache"
	"github.com/sarchlab/cachesim/memory"
	"github.com/sarchlab/cachesim/sim"
)

// Builder can build engines.
type Builder struct {
	memorySize        int
	cacheLines        int
	mappingMode       cache.MappingMode
	replacementPolicy string
	memoryFill        memory.Fill
	costs             CostModel
	explainer         Explainer
	explanationMode   bool
	defaultProgram    bool
}

// MakeBuilder creates a new builder with the teaching machine defaults: 10
// memory words filled with addr*10, 4 direct-mapped cache lines, the fixed
// replacement policy and an empty program.
func MakeBuilder() Builder {
	return Builder{
		memorySize:        10,
		cacheLines:        4,
		mappingMode:       cache.Direct,
		replacementPolicy: "fixed",
		memoryFill:        memory.ScaledFill,
		costs:             DefaultCostModel(),
		explainer:         DefaultExplainer{},
	}
}

// WithMemorySize sets the number of memory words.
func (b Builder) WithMemorySize(words int) Builder {
	b.memorySize = words
	return b
}

// WithCacheLines sets the number of cache lines.
func (b Builder) WithCacheLines(lines int) Builder {
	b.cacheLines = lines
	return b
}

// WithMappingMode sets the initial cache mapping mode.
func (b Builder) WithMappingMode(mode cache.MappingMode) Builder {
	b.mappingMode = mode
	return b
}

// WithReplacementPolicy sets the associative replacement policy, "fixed" or
// "lru".
func (b Builder) WithReplacementPolicy(policy string) Builder {
	b.replacementPolicy = policy
	return b
}

// WithMemoryFill sets the power-on content of the memory.
func (b Builder) WithMemoryFill(fill memory.Fill) Builder {
	b.memoryFill = fill
	return b
}

// WithCostModel sets the cycle costs.
func (b Builder) WithCostModel(costs CostModel) Builder {
	b.costs = costs
	return b
}

// WithExplainer sets the generator of explanation text.
func (b Builder) WithExplainer(explainer Explainer) Builder {
	b.explainer = explainer
	return b
}

// WithExplanationMode sets whether steps produce explanation text.
func (b Builder) WithExplanationMode(on bool) Builder {
	b.explanationMode = on
	return b
}

// WithDefaultProgram makes the engine start with the built-in program loaded.
func (b Builder) WithDefaultProgram() Builder {
	b.defaultProgram = true
	return b
}

// Build builds an engine.
func (b Builder) Build(name string) *Engine {
	b.mustBeValid()

	victimFinder, err := cache.NewVictimFinder(b.replacementPolicy)
	if err != nil {
		log.Panic(err)
	}

	e := &Engine{
		HookableBase:    sim.NewHookableBase(),
		name:            name,
		program:         isa.NewProgram(nil, nil),
		regs:            NewRegisterFile(),
		memory:          memory.NewStorage(b.memorySize, b.memoryFill),
		cache:           cache.NewCache(b.cacheLines, b.mappingMode, victimFinder),
		costs:           b.costs,
		explainer:       b.explainer,
		explanationMode: b.explanationMode,
	}

	if b.defaultProgram {
		if err := e.LoadDefaultProgram(); err != nil {
			log.Panic(err)
		}
	}

	return e
}

func (b Builder) mustBeValid() {
	if b.memorySize <= 0 {
		log.Panicf("memory must have at least one word, got %d", b.memorySize)
	}

	if b.cacheLines <= 0 {
		log.Panicf("cache must have at least one line, got %d", b.cacheLines)
	}

	if !b.mappingMode.Valid() {
		log.Panicf("invalid mapping mode %d", b.mappingMode)
	}

	if b.explainer == nil {
		log.Panic("explainer must not be nil")
	}

	if kind, ok := b.costs.negativeEntry(); ok {
		log.Panicf("cost of %s must not be negative", kind)
	}
}
