// Package cache models the small single-level cache of the simulated CPU.
package cache

import (
	"log"

	"github.com/sarchlab/cachesim/sim"
)

// Statistics counts the line replacements performed by a cache.
type Statistics struct {
	Fills     uint64 `json:"fills"`
	Evictions uint64 `json:"evictions"`
}

// Cache resolves memory addresses to lines. Its content only changes through
// Fill, WriteHitData, SetLineData and Invalidate.
type Cache struct {
	set          Set
	mode         MappingMode
	victimFinder VictimFinder
	stats        Statistics
}

// NewCache creates an empty cache. A nil victim finder selects the fixed
// replacement policy.
func NewCache(numLines int, mode MappingMode, vf VictimFinder) *Cache {
	if numLines <= 0 {
		log.Panicf("cache must have at least one line, got %d", numLines)
	}

	if !mode.Valid() {
		log.Panicf("invalid mapping mode %d", mode)
	}

	if vf == nil {
		vf = NewFixedVictimFinder()
	}

	return &Cache{
		set:          newSet(numLines),
		mode:         mode,
		victimFinder: vf,
	}
}

// NumLines returns the number of lines.
func (c *Cache) NumLines() int {
	return len(c.set.Lines)
}

// MappingMode returns the current mapping mode.
func (c *Cache) MappingMode() MappingMode {
	return c.mode
}

// SetMappingMode switches the mapping mode. Switching to a different mode
// invalidates every line. It reports whether the mode changed.
func (c *Cache) SetMappingMode(mode MappingMode) (bool, error) {
	if err := sim.CheckRange(
		"mapping mode", int(mode), int(numMappingModes),
	); err != nil {
		return false, err
	}

	if mode == c.mode {
		return false, nil
	}

	c.mode = mode
	c.Invalidate()

	return true, nil
}

// MappedLine returns the only line that may hold addr under the direct
// mapping.
func (c *Cache) MappedLine(addr int) int {
	mustBeValidAddress(addr)

	return addr % len(c.set.Lines)
}

// Lookup finds the line holding addr. It does not change the cache.
func (c *Cache) Lookup(addr int) (line int, hit bool) {
	mustBeValidAddress(addr)

	if c.mode == Direct {
		line = c.MappedLine(addr)
		l := c.set.Lines[line]

		return line, l.Valid && l.Tag == addr
	}

	for i, l := range c.set.Lines {
		if l.Valid && l.Tag == addr {
			return i, true
		}
	}

	return -1, false
}

// FillTarget returns the line a Fill of addr would write. It does not change
// the cache.
func (c *Cache) FillTarget(addr int) int {
	if c.mode == Direct {
		return c.MappedLine(addr)
	}

	mustBeValidAddress(addr)

	return c.victimFinder.FindVictim(&c.set)
}

// Fill places addr with value into the cache after a miss and returns the
// line that received it.
func (c *Cache) Fill(addr int, value int) int {
	line := c.FillTarget(addr)

	if c.set.Lines[line].Valid {
		c.stats.Evictions++
	}

	c.stats.Fills++
	c.set.Lines[line] = Line{Valid: true, Tag: addr, Data: value}
	c.set.visit(line)

	return line
}

// ReadHitData returns the data of a line that produced a hit.
func (c *Cache) ReadHitData(line int) (int, error) {
	if err := c.checkLine(line); err != nil {
		return 0, err
	}

	c.set.visit(line)

	return c.set.Lines[line].Data, nil
}

// WriteHitData updates the data of a line that produced a hit.
func (c *Cache) WriteHitData(line int, value int) error {
	if err := c.checkLine(line); err != nil {
		return err
	}

	c.set.Lines[line].Data = value
	c.set.visit(line)

	return nil
}

// SetLineData overrides the data of a line without touching its tag, its
// valid bit or the replacement order.
func (c *Cache) SetLineData(line int, value int) error {
	if err := c.checkLine(line); err != nil {
		return err
	}

	c.set.Lines[line].Data = value

	return nil
}

// Line returns a copy of a line.
func (c *Cache) Line(line int) (Line, error) {
	if err := c.checkLine(line); err != nil {
		return Line{}, err
	}

	return c.set.Lines[line], nil
}

// LineString renders a line as "V=1,T=5,D=42".
func (c *Cache) LineString(line int) (string, error) {
	l, err := c.Line(line)
	if err != nil {
		return "", err
	}

	return l.String(), nil
}

// Lines returns a copy of every line.
func (c *Cache) Lines() []Line {
	return append([]Line(nil), c.set.Lines...)
}

// LRUOrder returns the line indices from least to most recently used.
func (c *Cache) LRUOrder() []int {
	return append([]int(nil), c.set.LRUQueue...)
}

// Invalidate marks all the lines invalid.
func (c *Cache) Invalidate() {
	c.set = newSet(len(c.set.Lines))
}

// Stats returns the replacement statistics.
func (c *Cache) Stats() Statistics {
	return c.stats
}

// ResetStats clears the replacement statistics.
func (c *Cache) ResetStats() {
	c.stats = Statistics{}
}

func (c *Cache) checkLine(line int) error {
	return sim.CheckRange("cache line", line, len(c.set.Lines))
}

func mustBeValidAddress(addr int) {
	if addr < 0 {
		log.Panicf("negative address %d", addr)
	}
}
