// Package util provides string distance primitives shared by the barcode
// clustering strategies.
package util

import "errors"

// ErrLengthMismatch is returned when a distance that is only defined for
// equal-length strings is given strings of different lengths.
var ErrLengthMismatch = errors.New("strings differ in length")

// HammingDistance returns the number of positions at which a and b hold
// different bytes. The two strings must have equal length;
// ErrLengthMismatch is returned otherwise.
func HammingDistance(a, b string) (int, error) {
	if len(a) != len(b) {
		return 0, ErrLengthMismatch
	}
	d := 0
	for i := 0; i < len(a); i++ {
		if a[i] != b[i] {
			d++
		}
	}
	return d, nil
}

// EditDistance returns the unit-cost Levenshtein distance between a and b:
// the minimum number of substitutions, insertions, and deletions needed to
// transform one string into the other. The matrix is kept as two rolling
// rows, so memory is O(len(b)).
func EditDistance(a, b string) int {
	prev := make([]int, len(b)+1)
	curr := make([]int, len(b)+1)
	for j := range prev {
		prev[j] = j
	}
	for i := 1; i <= len(a); i++ {
		curr[0] = i
		for j := 1; j <= len(b); j++ {
			cost := 1
			if a[i-1] == b[j-1] {
				cost = 0
			}
			min := prev[j-1] + cost
			if d := prev[j] + 1; d < min {
				min = d
			}
			if d := curr[j-1] + 1; d < min {
				min = d
			}
			curr[j] = min
		}
		prev, curr = curr, prev
	}
	return prev[len(b)]
}
