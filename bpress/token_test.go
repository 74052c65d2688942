package bpress

import (
	"testing"

	"github.com/dsnet/bpress/internal/bitio"
)

func TestPullToken(t *testing.T) {
	tests := []struct {
		bits      string
		delim     byte
		wantLen   int
		wantRem   string
		wantError bool
	}{
		{"0", 0, 1, "", false},
		{"110", 0, 3, "", false},
		{"1101010", 0, 3, "1010", false},
		{"11111", 0, 0, "", true}, // no delimiter present
		{"0001", 1, 4, "", false},
	}
	for _, tt := range tests {
		s := bitio.FromString(tt.bits)
		length, rem, err := pullToken(s, tt.delim)
		if tt.wantError {
			if err == nil {
				t.Errorf("pullToken(%q, %d): want error, got nil", tt.bits, tt.delim)
			}
			continue
		}
		if err != nil {
			t.Fatalf("pullToken(%q, %d): unexpected error: %v", tt.bits, tt.delim, err)
		}
		if length != tt.wantLen {
			t.Errorf("pullToken(%q, %d) length = %d, want %d", tt.bits, tt.delim, length, tt.wantLen)
		}
		if rem.String() != tt.wantRem {
			t.Errorf("pullToken(%q, %d) remainder = %q, want %q", tt.bits, tt.delim, rem.String(), tt.wantRem)
		}
	}
}

// TestPullTokenInvariant checks invariant 5 from spec.md §8: the returned
// remainder has the expected length, bit L-1 equals the delimiter, and no
// earlier bit equals the delimiter.
func TestPullTokenInvariant(t *testing.T) {
	inputs := []string{"100110", "0101", "111110", "1"}
	for _, bits := range inputs {
		for _, delim := range []byte{0, 1} {
			s := bitio.FromString(bits)
			if s.IndexOf(delim) < 0 {
				continue
			}
			length, rem, err := pullToken(s, delim)
			if err != nil {
				t.Fatalf("pullToken(%q, %d): %v", bits, delim, err)
			}
			if rem.Len() != s.Len()-length {
				t.Errorf("pullToken(%q, %d): len(remainder) = %d, want %d", bits, delim, rem.Len(), s.Len()-length)
			}
			if s.Bit(length-1) != delim {
				t.Errorf("pullToken(%q, %d): bit %d = %d, want %d", bits, delim, length-1, s.Bit(length-1), delim)
			}
			for i := 0; i < length-1; i++ {
				if s.Bit(i) == delim {
					t.Errorf("pullToken(%q, %d): earlier bit %d already equals delimiter", bits, delim, i)
				}
			}
		}
	}
}
