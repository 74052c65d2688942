package bpress

import (
	"testing"

	"github.com/dsnet/bpress/internal/bitio"
)

// Scenarios S1-S3 from spec.md §8.
var statsTests = []struct {
	name        string
	bits        string
	f0, f1      uint64
	transitions int
	flipFlops   int
}{
	{"S1_SingleOne", "10000000", 7, 1, 1, 0},
	{"S2_Alternating", "10101010101001", 7, 7, 12, 10},
	{"S3_Empty", "", 0, 0, 0, 0},
}

func TestStats(t *testing.T) {
	for _, tt := range statsTests {
		t.Run(tt.name, func(t *testing.T) {
			s := bitio.FromString(tt.bits)
			f0, f1 := countBits(s)
			if f0 != tt.f0 || f1 != tt.f1 {
				t.Errorf("countBits() = (%d,%d), want (%d,%d)", f0, f1, tt.f0, tt.f1)
			}
			if got := countTransitions(s); got != tt.transitions {
				t.Errorf("countTransitions() = %d, want %d", got, tt.transitions)
			}
			if got := countFlipFlops(s); got != tt.flipFlops {
				t.Errorf("countFlipFlops() = %d, want %d", got, tt.flipFlops)
			}
		})
	}
}

// TestStatsInvariants checks the quantified invariants from spec.md §8
// over a handful of representative streams.
func TestStatsInvariants(t *testing.T) {
	streams := []string{"", "0", "1", "01", "10", "11", "00", "101101011", "1111111111111111"}
	for _, bits := range streams {
		s := bitio.FromString(bits)
		f0, f1 := countBits(s)
		if int(f0+f1) != s.Len() {
			t.Errorf("countBits(%q): sum %d != length %d", bits, f0+f1, s.Len())
		}
		if s.Len() >= 2 {
			if t2 := countTransitions(s); t2 > s.Len()-1 {
				t.Errorf("countTransitions(%q) = %d, want <= %d", bits, t2, s.Len()-1)
			}
		}
	}
}
