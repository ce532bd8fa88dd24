package cache

import (
	"fmt"
	"strings"
)

// A VictimFinder decides which line receives a new address under the
// associative mapping.
type VictimFinder interface {
	FindVictim(set *Set) int
}

// FixedVictimFinder takes the first invalid line. When every line is valid it
// always evicts line 0.
type FixedVictimFinder struct {
}

// NewFixedVictimFinder returns a newly constructed fixed evictor
func NewFixedVictimFinder() *FixedVictimFinder {
	return new(FixedVictimFinder)
}

// FindVictim returns the first invalid line, or line 0.
func (e *FixedVictimFinder) FindVictim(set *Set) int {
	if line, ok := firstInvalid(set); ok {
		return line
	}

	return 0
}

// LRUVictimFinder evicts the least recently used line
type LRUVictimFinder struct {
}

// NewLRUVictimFinder returns a newly constructed lru evictor
func NewLRUVictimFinder() *LRUVictimFinder {
	return new(LRUVictimFinder)
}

// FindVictim returns the first invalid line, or the least recently used one.
func (e *LRUVictimFinder) FindVictim(set *Set) int {
	if line, ok := firstInvalid(set); ok {
		return line
	}

	return set.LRUQueue[0]
}

func firstInvalid(set *Set) (int, bool) {
	for i, l := range set.Lines {
		if !l.Valid {
			return i, true
		}
	}

	return 0, false
}

// NewVictimFinder creates the victim finder for a replacement policy name:
// "fixed" or "lru".
func NewVictimFinder(policy string) (VictimFinder, error) {
	switch strings.ToLower(strings.TrimSpace(policy)) {
	case "", "fixed":
		return NewFixedVictimFinder(), nil
	case "lru":
		return NewLRUVictimFinder(), nil
	default:
		return nil, fmt.Errorf("unknown replacement policy %q", policy)
	}
}
