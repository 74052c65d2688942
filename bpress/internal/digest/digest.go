// Package digest implements BPRESS's self-extending bucketed prefix code,
// mapping a positive token length to a unique, prefix-free bit string.
//
// Lengths 1 through 17 are served from a literal seed table (below);
// digests for length 18 and up are derived on demand by an extension
// algorithm and cached. The table only ever grows: once a length has been
// assigned a digest, that digest never changes.
//
// The seed table's own bucket structure does not follow a single uniform
// rule (the two-value buckets for lengths 2-3 and 4-5 share a tail width
// but differ in head length), so lengths below 18 are never recomputed —
// they come straight from the literal table. The general rule only
// applies from length 18 onward: tail width t starts at 4 with a bucket
// of 2^t slots, doubling every bucket (t=4 spans [18,33], t=5 spans
// [34,65], and so on), each headed by (t+1) one bits and a terminating
// zero, so that no digest is ever a prefix of another.
package digest

import (
	"fmt"

	"github.com/dsnet/bpress/internal/bitio"
)

// seedStrings holds the literal digests for lengths 1-17, bit-for-bit as
// specified.
var seedStrings = map[int]string{
	1: "0", 2: "100", 3: "101", 4: "1100", 5: "1101",
	6: "111000", 7: "111001", 8: "111010", 9: "111011",
	10: "11110000", 11: "11110001", 12: "11110010", 13: "11110011",
	14: "11110100", 15: "11110101", 16: "11110110", 17: "11110111",
}

// extendMinLength is the first token length not covered by the seed
// table; digests for it and beyond are derived by the bucket algorithm.
const extendMinLength = 18

// extendMinTailWidth is the tail width of the first algorithmic bucket.
const extendMinTailWidth = 4

// Table maps token lengths to digests. A zero-value Table is empty but
// usable; Lookup lazily seeds and extends it. The table is append-only
// for the lifetime of a compression job, matching spec.md's note that a
// digest, once assigned, never changes.
type Table struct {
	m map[int]bitio.Bits
}

func (t *Table) init() {
	if t.m != nil {
		return
	}
	t.m = make(map[int]bitio.Bits, len(seedStrings))
	for l, s := range seedStrings {
		t.m[l] = bitio.FromString(s)
	}
}

// Lookup returns the digest for token length l, computing and caching it
// via the extension algorithm if it is not already known. It returns
// ErrInvalidLength if l is not a positive integer.
func (t *Table) Lookup(l int) (bitio.Bits, error) {
	if l <= 0 {
		return bitio.Bits{}, ErrInvalidLength
	}
	t.init()
	if d, ok := t.m[l]; ok {
		return d, nil
	}
	d := extend(l)
	t.m[l] = d
	return d, nil
}

// ErrInvalidLength is returned by Lookup for any length <= 0.
type invalidLengthError struct{}

func (invalidLengthError) Error() string { return "digest: token length must be positive" }

// ErrInvalidLength is the sentinel error for non-positive token lengths.
var ErrInvalidLength error = invalidLengthError{}

// extend computes the digest for a length beyond the seed table's range
// by walking the bucket sequence described in the package doc comment.
func extend(l int) bitio.Bits {
	if l < extendMinLength {
		panic(fmt.Sprintf("digest: extend called for seeded length %d", l))
	}
	n := extendMinLength
	tailWidth := extendMinTailWidth
	for {
		size := 1 << uint(tailWidth)
		if l < n+size {
			offset := l - n
			return buildDigest(tailWidth, offset)
		}
		n += size
		tailWidth++
	}
}

// buildDigest assembles a digest from a tail width and an in-bucket
// offset: (tailWidth+1) one bits, a terminating zero, then the offset as
// a tailWidth-bit big-endian field.
func buildDigest(tailWidth, offset int) bitio.Bits {
	var w bitio.Builder
	w.AppendN(1, tailWidth+1)
	w.AppendBit(0)
	for i := tailWidth - 1; i >= 0; i-- {
		w.AppendBit(byte((offset >> uint(i)) & 1))
	}
	return w.Bits()
}
