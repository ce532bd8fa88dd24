package cpu

import "github.com/sarchlab/cachesim/mem/cache"

// State is a point-in-time copy of everything a front-end displays.
type State struct {
	Name                string           `json:"name"`
	Registers           map[string]int   `json:"registers"`
	Memory              []int            `json:"memory"`
	CacheLines          []cache.Line     `json:"cache_lines"`
	CacheStats          cache.Statistics `json:"cache_stats"`
	MappingMode         string           `json:"mapping_mode"`
	ExplanationMode     bool             `json:"explanation_mode"`
	Instructions        []string         `json:"instructions"`
	ProgramCounter      int              `json:"program_counter"`
	Halted              bool             `json:"halted"`
	TotalCycles         uint64           `json:"total_cycles"`
	Hits                uint64           `json:"hits"`
	Misses              uint64           `json:"misses"`
	LastCost            int              `json:"last_cost"`
	LastOperationText   string           `json:"last_operation_text"`
	LastExplanationText string           `json:"last_explanation_text"`
	History             []HistoryEntry   `json:"history"`
}

// Snapshot copies the current state of the engine.
func (e *Engine) Snapshot() State {
	hits, misses := e.HitMissCounts()

	return State{
		Name:                e.name,
		Registers:           e.Registers(),
		Memory:              e.Memory(),
		CacheLines:          e.CacheLines(),
		CacheStats:          e.CacheStats(),
		MappingMode:         e.MappingMode().String(),
		ExplanationMode:     e.explanationMode,
		Instructions:        e.Instructions(),
		ProgramCounter:      e.ProgramCounter(),
		Halted:              e.Halted(),
		TotalCycles:         e.totalCycles,
		Hits:                hits,
		Misses:              misses,
		LastCost:            e.lastCost,
		LastOperationText:   e.lastOpText,
		LastExplanationText: e.lastExplanationText,
		History:             e.History(),
	}
}
