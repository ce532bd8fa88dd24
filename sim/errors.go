package sim

import (
	"fmt"
	"strconv"
	"strings"
)

// OutOfRangeError is returned when an address, a register index, or a cache
// line index is outside the configured bounds.
type OutOfRangeError struct {
	What  string
	Index int
	Limit int
}

func (e *OutOfRangeError) Error() string {
	return fmt.Sprintf("%s %d out of range [0, %d)", e.What, e.Index, e.Limit)
}

// CheckRange returns an OutOfRangeError if index is not in [0, limit).
func CheckRange(what string, index, limit int) error {
	if index < 0 || index >= limit {
		return &OutOfRangeError{What: what, Index: index, Limit: limit}
	}

	return nil
}

// InvalidValueError is returned when a value supplied to a setter is not an
// integer.
type InvalidValueError struct {
	Value string
}

func (e *InvalidValueError) Error() string {
	return fmt.Sprintf("invalid value %q: not an integer", e.Value)
}

// ParseValue converts user supplied text into a word value.
func ParseValue(s string) (int, error) {
	v, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, &InvalidValueError{Value: s}
	}

	return v, nil
}
