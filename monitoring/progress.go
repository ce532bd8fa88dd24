package monitoring

import (
	"net/http"
)

// A ProgressBar is a tracker of the progress of the loaded program.
type ProgressBar struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Total      uint64 `json:"total"`
	Finished   uint64 `json:"finished"`
	InProgress uint64 `json:"in_progress"`
}

func (m *Monitor) progress(w http.ResponseWriter, _ *http.Request) {
	m.lock.Lock()
	bar := ProgressBar{
		ID:       m.engine.Name(),
		Name:     m.engine.Name() + " program",
		Total:    uint64(m.engine.InstructionCount()),
		Finished: uint64(m.engine.ProgramCounter()),
	}

	if !m.engine.Halted() {
		bar.InProgress = 1
	}
	m.lock.Unlock()

	writeJSON(w, []ProgressBar{bar})
}
