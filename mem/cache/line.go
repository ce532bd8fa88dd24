package cache

import (
	"fmt"
	"strings"

	"github.com/sarchlab/cachesim/sim"
)

// MappingMode selects where an address may be placed in the cache.
type MappingMode int

// The supported mapping modes.
const (
	// Direct places address a only in line a mod numLines.
	Direct MappingMode = iota
	// Associative places an address in any line.
	Associative

	numMappingModes
)

func (m MappingMode) String() string {
	switch m {
	case Direct:
		return "direct"
	case Associative:
		return "associative"
	default:
		return fmt.Sprintf("MappingMode(%d)", int(m))
	}
}

// Valid reports whether m is one of the supported modes.
func (m MappingMode) Valid() bool {
	return sim.CheckRange("mapping mode", int(m), int(numMappingModes)) == nil
}

// ParseMappingMode accepts a mode name ("direct", "associative") or its
// numeric value ("0", "1").
func ParseMappingMode(s string) (MappingMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "direct", "0":
		return Direct, nil
	case "associative", "assoc", "1":
		return Associative, nil
	}

	v, err := sim.ParseValue(s)
	if err != nil {
		return 0, err
	}

	if err := sim.CheckRange("mapping mode", v, int(numMappingModes)); err != nil {
		return 0, err
	}

	return MappingMode(v), nil
}

// A Line is one entry of the cache. The tag of a line is the full memory
// address it holds. An invalid line carries Tag -1 and Data 0.
type Line struct {
	Valid bool `json:"valid"`
	Tag   int  `json:"tag"`
	Data  int  `json:"data"`
}

func invalidLine() Line {
	return Line{Tag: -1}
}

// String renders the line as "V=1,T=5,D=42".
func (l Line) String() string {
	v := 0
	if l.Valid {
		v = 1
	}

	return fmt.Sprintf("V=%d,T=%d,D=%d", v, l.Tag, l.Data)
}

// A Set is a list of lines where a certain piece memory can be stored at,
// along with the order in which the lines were used. The least recently
// used line is at the front of LRUQueue.
type Set struct {
	Lines    []Line
	LRUQueue []int
}

func newSet(numLines int) Set {
	s := Set{
		Lines:    make([]Line, numLines),
		LRUQueue: make([]int, numLines),
	}

	for i := range s.Lines {
		s.Lines[i] = invalidLine()
		s.LRUQueue[i] = i
	}

	return s
}

// visit moves the line to the end of the LRUQueue
func (s *Set) visit(line int) {
	newLRUQueue := make([]int, 0, len(s.LRUQueue))

	for _, l := range s.LRUQueue {
		if l != line {
			newLRUQueue = append(newLRUQueue, l)
		}
	}

	s.LRUQueue = append(newLRUQueue, line)
}
