package bpress

import "github.com/dsnet/bpress/internal/bitio"

// countBits returns the number of zero bits and one bits in s.
func countBits(s bitio.Bits) (f0, f1 uint64) {
	n := s.Len()
	for i := 0; i < n; i++ {
		if s.Bit(i) == 0 {
			f0++
		} else {
			f1++
		}
	}
	return f0, f1
}

// countTransitions returns the number of adjacent bit pairs in s that
// differ. It is zero for streams of length 0 or 1.
func countTransitions(s bitio.Bits) int {
	n := s.Len()
	if n <= 1 {
		return 0
	}
	t := 0
	for i := 0; i < n-1; i++ {
		if s.Bit(i) != s.Bit(i+1) {
			t++
		}
	}
	return t
}

// countFlipFlops returns the number of index triples (i, i+1, i+2) in s
// where s[i] != s[i+1] and s[i] == s[i+2] (an "A-B-A" pattern). It is zero
// for streams shorter than 3 bits.
func countFlipFlops(s bitio.Bits) int {
	n := s.Len()
	if n < 3 {
		return 0
	}
	ff := 0
	for i := 0; i < n-2; i++ {
		if s.Bit(i) != s.Bit(i+1) && s.Bit(i) == s.Bit(i+2) {
			ff++
		}
	}
	return ff
}
