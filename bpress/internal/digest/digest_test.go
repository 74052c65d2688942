package digest

import (
	"strings"
	"testing"
)

// TestSeededDigests checks the literal lengths 1-17 from spec.md §4.3
// bit-for-bit.
func TestSeededDigests(t *testing.T) {
	for length, want := range seedStrings {
		var tbl Table
		got, err := tbl.Lookup(length)
		if err != nil {
			t.Fatalf("Lookup(%d) error: %v", length, err)
		}
		if got.String() != want {
			t.Errorf("Lookup(%d) = %q, want %q", length, got.String(), want)
		}
	}
}

// TestExtensionBuckets checks the resolved bucket-sizing rule (SPEC_FULL.md
// "Resolved open question: bucket sizing"): tail width starts at 4 with a
// bucket of 2^t slots, doubling at each subsequent tail width.
func TestExtensionBuckets(t *testing.T) {
	cases := []struct {
		length int
		head   string
		tail   string
	}{
		{18, "111110", "0000"},
		{33, "111110", "1111"},
		{34, "1111110", "00000"},
		{65, "1111110", "11111"},
		{66, "11111110", "000000"},
		{129, "11111110", "111111"},
		{130, "111111110", "0000000"},
		{257, "111111110", "1111111"},
	}
	for _, c := range cases {
		var tbl Table
		got, err := tbl.Lookup(c.length)
		if err != nil {
			t.Fatalf("Lookup(%d) error: %v", c.length, err)
		}
		want := c.head + c.tail
		if got.String() != want {
			t.Errorf("Lookup(%d) = %q, want %q", c.length, got.String(), want)
		}
	}
}

// TestLookupCaches verifies that a second Lookup for the same length
// returns the identical digest computed the first time (the table only
// ever grows, per spec.md §4.3).
func TestLookupCaches(t *testing.T) {
	var tbl Table
	first, err := tbl.Lookup(50)
	if err != nil {
		t.Fatal(err)
	}
	second, err := tbl.Lookup(50)
	if err != nil {
		t.Fatal(err)
	}
	if first.String() != second.String() {
		t.Errorf("Lookup(50) not stable across calls: %q vs %q", first, second)
	}
}

// TestInvalidLength checks spec.md §4.3: digest() fails for L <= 0.
func TestInvalidLength(t *testing.T) {
	var tbl Table
	for _, l := range []int{0, -1, -100} {
		if _, err := tbl.Lookup(l); err != ErrInvalidLength {
			t.Errorf("Lookup(%d) error = %v, want ErrInvalidLength", l, err)
		}
	}
}

// TestPrefixFree checks invariant 3 from spec.md §8: no digest is a
// prefix of any other, across a wide span of lengths including several
// extension buckets.
func TestPrefixFree(t *testing.T) {
	var tbl Table
	var digests []string
	for l := 1; l <= 600; l++ {
		d, err := tbl.Lookup(l)
		if err != nil {
			t.Fatalf("Lookup(%d): %v", l, err)
		}
		digests = append(digests, d.String())
	}
	for i, a := range digests {
		for j, b := range digests {
			if i == j {
				continue
			}
			if strings.HasPrefix(b, a) {
				t.Fatalf("digest for length %d (%q) is a prefix of digest for length %d (%q)",
					i+1, a, j+1, b)
			}
		}
	}
}

// TestMonotonicLength checks that digest length never decreases as the
// token length grows from 1 to 300.
func TestMonotonicLength(t *testing.T) {
	var tbl Table
	prevLen := 0
	for l := 1; l <= 300; l++ {
		d, err := tbl.Lookup(l)
		if err != nil {
			t.Fatal(err)
		}
		if d.Len() < prevLen {
			t.Errorf("digest length decreased at token length %d: %d < %d", l, d.Len(), prevLen)
		}
		prevLen = d.Len()
	}
}
