package codec

// Package codec expands the run-length encoded amino-acid strings found in
// the sequences file and checks decoded sequences against the standard
// amino-acid alphabet.

import (
	"errors"
	"fmt"
	"strings"
)

// Alphabet holds the 20 standard amino-acid one-letter codes.
const Alphabet = "ACDEFGHIKLMNPQRSTVWY"

var (
	// ErrEmptySequence is returned by Check for an empty sequence.
	ErrEmptySequence = errors.New("amino-acid sequence is empty")
	// ErrInvalidSymbol is returned by Check when a character is not in Alphabet.
	ErrInvalidSymbol = errors.New("invalid amino-acid symbol")
)

// Decode expands a run-length encoded string. A digit followed by another
// character repeats that character digit times ("3A" -> "AAA", "0A" -> "").
// Every other character, including a digit in the last position, is copied
// as is. Decode never fails.
func Decode(compressed string) string {
	if compressed == "" {
		return ""
	}
	var b strings.Builder
	b.Grow(len(compressed))
	for i := 0; i < len(compressed); i++ {
		c := compressed[i]
		if isDigit(c) && i+1 < len(compressed) {
			n := int(c - '0')
			for j := 0; j < n; j++ {
				b.WriteByte(compressed[i+1])
			}
			i++
			continue
		}
		b.WriteByte(c)
	}
	return b.String()
}

// Validate reports whether seq is non-empty and made only of Alphabet symbols.
func Validate(seq string) bool {
	return Check(seq) == nil
}

// Check is Validate with a reason: it wraps ErrEmptySequence or
// ErrInvalidSymbol.
func Check(seq string) error {
	if seq == "" {
		return ErrEmptySequence
	}
	for i := 0; i < len(seq); i++ {
		if !IsSymbol(seq[i]) {
			return fmt.Errorf("%w: %q at position %d", ErrInvalidSymbol, seq[i], i+1)
		}
	}
	return nil
}

// IsSymbol reports whether c is one of the 20 amino-acid codes.
func IsSymbol(c byte) bool {
	return strings.IndexByte(Alphabet, c) >= 0
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }
