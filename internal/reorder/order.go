package reorder

import (
	"errors"
	"strconv"
	"strings"
)

var (
	// ErrParse means the input contained a non-numeric token.
	ErrParse = errors.New("order contains non-numeric tokens")
	// ErrCountMismatch means the wrong number of values or a duplicate.
	ErrCountMismatch = errors.New("order has wrong count or duplicate values")
	// ErrRange means the values do not form the sequence 1..expected.
	ErrRange = errors.New("order values out of range")
)

// ParseOrder validates a user-submitted permutation of [1..expected] given
// as whitespace-separated integers. It returns the 1-based permutation and
// has no side effects, so callers may retry on error.
func ParseOrder(input string, expected int) ([]int, error) {
	fields := strings.Fields(input)
	order := make([]int, 0, len(fields))
	for _, f := range fields {
		n, err := strconv.Atoi(f)
		if err != nil {
			return nil, ErrParse
		}
		order = append(order, n)
	}

	if len(order) != expected {
		return nil, ErrCountMismatch
	}
	seen := make(map[int]struct{}, expected)
	for _, n := range order {
		if _, dup := seen[n]; dup {
			return nil, ErrCountMismatch
		}
		seen[n] = struct{}{}
	}
	for _, n := range order {
		if n < 1 || n > expected {
			return nil, ErrRange
		}
	}
	return order, nil
}

// Apply maps a permutation returned by ParseOrder onto the stored file
// references.
func Apply(files []string, order []int) []string {
	out := make([]string, len(order))
	for i, n := range order {
		out[i] = files[n-1]
	}
	return out
}
