// Package kmer converts fixed-length DNA subsequences to and from their
// 2-bit-per-base integer keys.
package kmer

import (
	"strings"

	"github.com/cockroachdb/errors"
)

const (
	MinLength = 1
	MaxLength = 31 // 62 bits, so every key fits in a uint64 with room to spare

	// Unknown marks a base the sequencer could not call. Windows containing it
	// are skipped, never encoded.
	Unknown = 'n'
)

var ErrInvalidInput = errors.New("invalid input")

// base codes: a=00 c=01 g=10 t=11
var alphabet = [4]byte{'a', 'c', 'g', 't'}

func code(b byte) (uint64, bool) {
	switch b {
	case 'a', 'A':
		return 0, true
	case 'c', 'C':
		return 1, true
	case 'g', 'G':
		return 2, true
	case 't', 'T':
		return 3, true
	}
	return 0, false
}

// ValidLength reports whether k is an allowed sequence length.
func ValidLength(k int) bool {
	return k >= MinLength && k <= MaxLength
}

// Encode packs seq into a key, first base in the highest significant bit pair.
func Encode(seq string, k int) (uint64, error) {
	if !ValidLength(k) {
		return 0, errors.Wrapf(ErrInvalidInput, "sequence length %d outside [%d,%d]", k, MinLength, MaxLength)
	}
	if len(seq) != k {
		return 0, errors.Wrapf(ErrInvalidInput, "sequence %q has length %d, want %d", seq, len(seq), k)
	}
	var key uint64
	for i := 0; i < len(seq); i++ {
		c, ok := code(seq[i])
		if !ok {
			return 0, errors.Wrapf(ErrInvalidInput, "sequence %q: symbol %q at %d is not a base", seq, seq[i], i)
		}
		key = key<<2 | c
	}
	return key, nil
}

// Decode is the inverse of Encode. Bits above 2k are ignored.
func Decode(key uint64, k int) string {
	buf := make([]byte, k)
	for i := k - 1; i >= 0; i-- {
		buf[i] = alphabet[key&3]
		key >>= 2
	}
	return string(buf)
}

// HasUnknown reports whether seq contains the unknown base.
func HasUnknown(seq string) bool {
	return strings.ContainsAny(seq, "nN")
}
