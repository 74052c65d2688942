package bpress

import (
	"io"
	"os"

	"github.com/dsnet/bpress/internal/bitio"
)

// ScannedData accumulates bit-level statistics over an entire input file.
// It is mutable while a scan is in progress and is treated as frozen once
// Scan (or the first pass of Compress) reports completion.
type ScannedData struct {
	// BitFreqs maps each bit value (0 or 1) to the number of times it was
	// observed. BitFreqs[0]+BitFreqs[1] always equals 8*file size in bytes
	// once a scan has run to completion.
	BitFreqs map[int]uint64

	// Transitions counts adjacent bit pairs that differ, summed across
	// every buffer read and across the seams between buffers.
	Transitions int

	// FlipFlops counts "A-B-A" bit triples, summed across every buffer
	// read and across the 4-bit seam window at each buffer boundary.
	FlipFlops int
}

func newScannedData() ScannedData {
	return ScannedData{BitFreqs: map[int]uint64{0: 0, 1: 0}}
}

func (d *ScannedData) update(s bitio.Bits) {
	f0, f1 := countBits(s)
	d.BitFreqs[0] += f0
	d.BitFreqs[1] += f1
	d.Transitions += countTransitions(s)
	d.FlipFlops += countFlipFlops(s)
}

// scanner is the first-pass buffered reader described in §4.5: it reads
// fixed-size buffers until EOF, folding each buffer's statistics into a
// ScannedData while accounting for the seam between consecutive buffers.
type scanner struct {
	r        io.Reader
	bufSize  int
	fileSize int64

	bytesRead int64
	last      bitio.Bits
	haveLast  bool
	data      ScannedData
	complete  bool
}

func newScanner(r io.Reader, bufSize int, fileSize int64) *scanner {
	return &scanner{r: r, bufSize: bufSize, fileSize: fileSize, data: newScannedData()}
}

// run reads the entire underlying reader in fixed-size buffers, updating
// sc.data as it goes. It sets sc.complete only when a short read coincides
// with the expected total file size (see spec.md §4.5 / §9.2).
func (sc *scanner) run() error {
	buf := make([]byte, sc.bufSize)
	for {
		n, rerr := io.ReadFull(sc.r, buf)
		if rerr != nil && rerr != io.ErrUnexpectedEOF && rerr != io.EOF {
			return rerr
		}
		sc.bytesRead += int64(n)
		stream := bitio.FromBytes(buf[:n])
		sc.data.update(stream)

		if sc.haveLast && n > 0 {
			if sc.last.Bit(sc.last.Len()-1) != stream.Bit(0) {
				sc.data.Transitions++
			}
			firstTwo := stream.Slice(0, minInt(2, stream.Len()))
			edge := bitio.Concat(sc.last, firstTwo)
			sc.data.FlipFlops += countFlipFlops(edge)
		}
		if n > 0 {
			start := stream.Len() - minInt(2, stream.Len())
			sc.last = stream.Slice(start, stream.Len())
			sc.haveLast = true
		}

		short := n < len(buf)
		if short && sc.bytesRead == sc.fileSize {
			sc.complete = true
			return nil
		}
		if short {
			return nil
		}
	}
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}

// Scan runs BPRESS's read-only scanning pass (the original format's
// "BPRESS_DATA" mode) over the file at path without ever opening an
// output file. It is useful for inspecting what delimiter a file would
// pick without committing to a compression job.
func Scan(path string, bufSize int) (data ScannedData, err error) {
	if bufSize <= 0 {
		bufSize = defaultBufferSize
	}
	f, err := os.Open(path)
	if err != nil {
		return ScannedData{}, err
	}
	defer f.Close()

	fi, err := f.Stat()
	if err != nil {
		return ScannedData{}, err
	}

	sc := newScanner(f, bufSize, fi.Size())
	if err := sc.run(); err != nil {
		return ScannedData{}, err
	}
	if !sc.complete {
		return ScannedData{}, ErrScan
	}
	return sc.data, nil
}
