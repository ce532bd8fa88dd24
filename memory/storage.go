// Package memory provides the main memory of the simulated machine.
package memory

import (
	"strconv"
	"strings"

	"github.com/sarchlab/cachesim/sim"
)

// A Fill computes the power-on value of a word.
type Fill func(addr int) int

// ScaledFill initializes every word to addr*10.
func ScaledFill(addr int) int {
	return addr * 10
}

// ZeroFill initializes every word to zero.
func ZeroFill(int) int {
	return 0
}

// A Storage keeps the data of the guest system as a fixed number of signed
// words. Every word is always initialized; Reset restores the power-on
// values.
type Storage struct {
	words []int
	fill  Fill
}

// NewStorage creates a storage object with the specified number of words.
func NewStorage(size int, fill Fill) *Storage {
	if fill == nil {
		fill = ZeroFill
	}

	s := &Storage{
		words: make([]int, size),
		fill:  fill,
	}
	s.Reset()

	return s
}

// Size returns the number of words.
func (s *Storage) Size() int {
	return len(s.words)
}

// Read returns the word at addr.
func (s *Storage) Read(addr int) (int, error) {
	if err := sim.CheckRange("address", addr, len(s.words)); err != nil {
		return 0, err
	}

	return s.words[addr], nil
}

// Write replaces the word at addr.
func (s *Storage) Write(addr int, value int) error {
	if err := sim.CheckRange("address", addr, len(s.words)); err != nil {
		return err
	}

	s.words[addr] = value

	return nil
}

// Reset restores the power-on value of every word.
func (s *Storage) Reset() {
	for i := range s.words {
		s.words[i] = s.fill(i)
	}
}

// Words returns a copy of the memory content.
func (s *Storage) Words() []int {
	return append([]int(nil), s.words...)
}

// String renders the memory as "[0]: 0,[1]: 10,...".
func (s *Storage) String() string {
	var b strings.Builder

	for i, w := range s.words {
		if i > 0 {
			b.WriteByte(',')
		}

		b.WriteByte('[')
		b.WriteString(strconv.Itoa(i))
		b.WriteString("]: ")
		b.WriteString(strconv.Itoa(w))
	}

	return b.String()
}
