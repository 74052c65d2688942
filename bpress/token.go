package bpress

import "github.com/dsnet/bpress/internal/bitio"

// pullToken implements component D. It scans s left to right for the
// first bit equal to delim and returns the token length (the index of
// that bit plus one) along with the remaining bits after it. It returns
// ErrProtocol if delim never occurs in s.
func pullToken(s bitio.Bits, delim byte) (length int, remainder bitio.Bits, err error) {
	idx := s.IndexOf(delim)
	if idx < 0 {
		return 0, bitio.Bits{}, ErrProtocol
	}
	return idx + 1, s.Slice(idx+1, s.Len()), nil
}
