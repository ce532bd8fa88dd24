package cpu

import (
	"fmt"
	"strings"
)

// A HistoryEntry records one executed step.
type HistoryEntry struct {
	ID              string `json:"id"`
	Index           int    `json:"index"`
	OpText          string `json:"op_text"`
	ExplanationText string `json:"explanation_text"`
	Cost            int    `json:"cost"`
}

// String renders the entry as "<op> (<cost> ciclos)", followed by the
// explanation when there is one.
func (e HistoryEntry) String() string {
	s := fmt.Sprintf("%s (%d ciclos)", e.OpText, e.Cost)
	if e.ExplanationText != "" {
		s += " - " + e.ExplanationText
	}

	return s
}

// HistoryLog is the append-only list of executed steps.
type HistoryLog struct {
	entries []HistoryEntry
}

// Append adds an entry at the end of the log.
func (h *HistoryLog) Append(e HistoryEntry) {
	h.entries = append(h.entries, e)
}

// Len returns the number of entries.
func (h *HistoryLog) Len() int {
	return len(h.entries)
}

// Entries returns a copy of the entries in execution order.
func (h *HistoryLog) Entries() []HistoryEntry {
	return append([]HistoryEntry(nil), h.entries...)
}

// Clear removes every entry.
func (h *HistoryLog) Clear() {
	h.entries = nil
}

// String renders one entry per line, in execution order.
func (h *HistoryLog) String() string {
	var b strings.Builder

	for _, e := range h.entries {
		b.WriteString(e.String())
		b.WriteByte('\n')
	}

	return b.String()
}
