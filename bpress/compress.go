package bpress

import (
	"fmt"
	"io"
	"os"

	"github.com/dsnet/bpress/bpress/internal/digest"
	"github.com/dsnet/bpress/internal/bitio"
)

// defaultBufferSize is the default read buffer size (component E, §6).
const defaultBufferSize = 4096

// magicHeaderPrefix is the fixed 16 bits written at the start of every
// non-empty output: the magic byte 'b' (0x62) followed by a placeholder
// byte later patched to the padding flag.
const magicHeaderPrefix = "0110001000000000"

// Options configures a compression job (component E, §6 "Configuration").
type Options struct {
	// BufferSize is the number of bytes read per buffer. Zero selects
	// defaultBufferSize.
	BufferSize int

	// DelimiterMode selects how the delimiter bit is chosen. Zero value
	// is Low.
	DelimiterMode DelimiterMode

	// DelimiterFunc is required when DelimiterMode is Custom and ignored
	// otherwise.
	DelimiterFunc DelimiterFunc

	// OnProgress, if non-nil, is called after every buffer processed
	// during Pass 2 with the running bytesCompressed counter and the
	// total input size, so a caller can drive a progress indicator off
	// the same counter the postlude self-checks validate.
	OnProgress func(done, total int64)
}

// CompressResult reports the outcome of a successful compression job,
// the Go-idiomatic counterpart of the original implementation's
// debug-oriented repr output (spec.md §9 "Supplementary features").
type CompressResult struct {
	InputSize   int64
	OutputSize  int64
	Delimiter   int
	BitStuffed  bool
	PaddingBits int
	Scanned     ScannedData
}

// String renders a human-readable summary of a compression job, in the
// spirit of (but not a literal port of) the original's __repr__ methods.
func (r CompressResult) String() string {
	return fmt.Sprintf(
		"bpress: input=%d bytes, output=%d bytes, delimiter=%d, bit_stuffed=%t, padding_bits=%d, "+
			"scanned={bit_freqs:%v transitions:%d flip_flops:%d}",
		r.InputSize, r.OutputSize, r.Delimiter, r.BitStuffed, r.PaddingBits,
		r.Scanned.BitFreqs, r.Scanned.Transitions, r.Scanned.FlipFlops)
}

// compressor holds all per-job state for a single streaming compression
// pass (component E's CompressorState).
type compressor struct {
	bufSize int

	delimiterBit int

	protocolHeader bitio.Bits
	protocolSet    bool

	bitStuffing bool
	padding     bitio.Bits
	paddingSet  bool

	rawCarryover  bitio.Bits
	compCarryover bitio.Bits

	bytesReadPassOne int64
	bytesReadPassTwo int64
	bytesCompressed  int64

	protocolComplete bool

	table digest.Table

	onProgress func(done, total int64)
	totalSize  int64
}

// Compress reads the file at inPath and writes the BPRESS-encoded form
// of it to outPath, per the Options given. It implements component E:
// a two-pass pipeline that scans the input to choose a delimiter bit,
// then tokenizes and digest-encodes the input in a single streaming
// rewind pass.
//
// If inPath is empty, Compress returns immediately without creating
// outPath.
func Compress(inPath, outPath string, opts Options) (res CompressResult, err error) {
	defer errRecover(&err)

	mode := opts.DelimiterMode
	fn := opts.DelimiterFunc
	if mode != Low && mode != High && mode != Custom {
		return CompressResult{}, ErrConfig
	}
	if mode == Custom && fn == nil {
		return CompressResult{}, ErrConfig
	}
	bufSize := opts.BufferSize
	if bufSize <= 0 {
		bufSize = defaultBufferSize
	}

	fi, err := os.Stat(inPath)
	if err != nil {
		return CompressResult{}, err
	}
	size := fi.Size()
	if size <= 0 {
		return CompressResult{InputSize: size}, nil
	}

	inFile, err := os.Open(inPath)
	if err != nil {
		return CompressResult{}, err
	}
	defer inFile.Close()

	outFile, err := os.OpenFile(outPath, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return CompressResult{}, err
	}
	closeOut := true
	defer func() {
		if closeOut {
			outFile.Close()
		}
	}()

	c := &compressor{bufSize: bufSize, delimiterBit: -1, onProgress: opts.OnProgress, totalSize: size}

	sc := newScanner(inFile, bufSize, size)
	if err := sc.run(); err != nil {
		return CompressResult{}, err
	}
	if !sc.complete {
		return CompressResult{}, ErrScan
	}
	c.bytesReadPassOne = sc.bytesRead

	delim, err := selectDelimiter(sc.data, mode, fn)
	if err != nil {
		return CompressResult{}, err
	}
	c.delimiterBit = delim

	if _, err := inFile.Seek(0, io.SeekStart); err != nil {
		return CompressResult{}, err
	}
	if err := c.runPassTwo(inFile, outFile); err != nil {
		return CompressResult{}, err
	}
	if err := outFile.Close(); err != nil {
		return CompressResult{}, err
	}
	closeOut = false

	patched, err := c.patchPaddingFlag(outPath)
	if err != nil {
		return CompressResult{}, err
	}
	if err := c.selfCheck(patched); err != nil {
		return CompressResult{}, err
	}

	outInfo, err := os.Stat(outPath)
	if err != nil {
		return CompressResult{}, err
	}

	return CompressResult{
		InputSize:   size,
		OutputSize:  outInfo.Size(),
		Delimiter:   c.delimiterBit,
		BitStuffed:  c.bitStuffing,
		PaddingBits: c.paddingLen(),
		Scanned:     sc.data,
	}, nil
}

func (c *compressor) paddingLen() int {
	if !c.paddingSet {
		return 0
	}
	return c.padding.Len()
}

// runPassTwo implements the outer buffered read/write loop of §4.6 Pass 2.
func (c *compressor) runPassTwo(in *os.File, out io.Writer) error {
	delim := byte(c.delimiterBit)
	buf := make([]byte, c.bufSize)
	for {
		n, rerr := io.ReadFull(in, buf)
		if rerr != nil && rerr != io.ErrUnexpectedEOF && rerr != io.EOF {
			return rerr
		}
		c.bytesReadPassTwo += int64(n)

		if n == 0 {
			return c.finishAtEOF(out, delim)
		}

		stream := bitio.FromBytes(buf[:n])
		short := n < len(buf)
		if short && stream.Bit(stream.Len()-1) != delim {
			stream = stream.Append(delim)
			c.bitStuffing = true
		}

		if c.rawCarryover.Len() > 0 {
			stream = bitio.Concat(c.rawCarryover, stream)
			c.rawCarryover = bitio.Bits{}
		}

		var cs bitio.Builder
		cs.AppendBits(c.compCarryover)
		c.compCarryover = bitio.Bits{}

		if !c.protocolComplete {
			if stream.IndexOf(delim) < 0 {
				return ErrProtocol
			}
			var hb bitio.Builder
			hb.AppendBits(bitio.FromString(magicHeaderPrefix))
			hb.AppendBit(delim)
			idx := stream.IndexOf(delim)
			hb.AppendBits(stream.Slice(0, idx+1))
			stream = stream.Slice(idx+1, stream.Len())

			header := hb.Bits()
			cs.AppendBits(header)
			c.protocolHeader = header
			c.protocolSet = true
			c.protocolComplete = true
		}

		if !c.bitStuffing && stream.Len() > 0 {
			if stream.Bit(stream.Len()-1) != delim {
				found := false
				for j := stream.Len() - 2; j >= 0; j-- {
					if stream.Bit(j) == delim {
						c.rawCarryover = stream.Slice(j+1, stream.Len())
						stream = stream.Slice(0, j+1)
						found = true
						break
					}
				}
				if !found {
					// §9.3: no delimiter anywhere in the remaining buffer;
					// carry the whole thing forward instead of failing.
					c.rawCarryover = stream
					c.compCarryover = cs.Bits()
					c.bytesCompressed += int64(n)
					continue
				}
			}
		}

		for stream.Len() > 0 {
			length, rem, err := pullToken(stream, delim)
			if err != nil {
				return err
			}
			d, err := c.table.Lookup(length)
			if err != nil {
				return ErrCodec
			}
			cs.AppendBits(d)
			stream = rem
		}
		c.bytesCompressed += int64(n)

		compressed := cs.Bits()
		r := compressed.Len() % 8
		prefixLen := compressed.Len() - r
		prefix := compressed.Slice(0, prefixLen)
		suffix := compressed.Slice(prefixLen, compressed.Len())

		prefixBytes, err := prefix.Bytes()
		if err != nil {
			return err
		}
		if _, err := out.Write(prefixBytes); err != nil {
			return err
		}
		c.compCarryover = suffix
		if c.onProgress != nil {
			c.onProgress(c.bytesCompressed, c.totalSize)
		}
	}
}

// finishAtEOF implements §4.6 Pass 2's EOF branch: draining any pending
// raw carryover (with bit-stuffing if needed), byte-aligning the final
// compressed carryover with anti-delimiter padding, and writing it out.
func (c *compressor) finishAtEOF(out io.Writer, delim byte) error {
	if c.rawCarryover.Len() == 0 && c.compCarryover.Len() == 0 {
		return nil
	}

	if c.rawCarryover.Len() > 0 {
		if c.bitStuffing {
			return ErrProtocol
		}
		if c.rawCarryover.Last() != delim {
			c.rawCarryover = c.rawCarryover.Append(delim)
			c.bitStuffing = true
		}

		var cs bitio.Builder
		cs.AppendBits(c.compCarryover)
		for c.rawCarryover.Len() > 0 {
			length, rem, err := pullToken(c.rawCarryover, delim)
			if err != nil {
				return err
			}
			d, err := c.table.Lookup(length)
			if err != nil {
				return ErrCodec
			}
			cs.AppendBits(d)
			c.rawCarryover = rem
		}
		c.compCarryover = cs.Bits()
	}

	padLen := c.compCarryover.Len() % 8
	if padLen > 0 {
		padCount := 8 - padLen
		anti := delim ^ 1

		var cs bitio.Builder
		cs.AppendBits(c.compCarryover)
		cs.AppendN(anti, padCount)
		c.compCarryover = cs.Bits()

		var pb bitio.Builder
		pb.AppendN(anti, padCount)
		c.padding = pb.Bits()
		c.paddingSet = true
	}

	outBytes, err := c.compCarryover.Bytes()
	if err != nil {
		return err
	}
	if _, err := out.Write(outBytes); err != nil {
		return err
	}
	if c.onProgress != nil {
		c.onProgress(c.bytesCompressed, c.totalSize)
	}
	return nil
}

// paddingFlagByte builds the single byte recorded at header offset 1
// (§6): bit 0 is the bit-stuffing flag, bits 1-4 are reserved zero, and
// bits 5-7 hold the padding length (0 when no padding was appended).
func (c *compressor) paddingFlagByte() byte {
	var b byte
	if c.bitStuffing {
		b |= 0x80
	}
	if c.paddingSet {
		b |= byte(c.padding.Len()) & 0x07
	}
	return b
}

// patchPaddingFlag reopens the output file to overwrite byte offset 1
// with the final padding flag, mirroring the original's standalone
// patch file descriptor. It returns the patched in-memory header for
// the postlude self-checks.
func (c *compressor) patchPaddingFlag(outPath string) (bitio.Bits, error) {
	flagByte := c.paddingFlagByte()

	f, err := os.OpenFile(outPath, os.O_WRONLY, 0)
	if err != nil {
		return bitio.Bits{}, err
	}
	defer f.Close()
	if _, err := f.Seek(1, io.SeekStart); err != nil {
		return bitio.Bits{}, err
	}
	if _, err := f.Write([]byte{flagByte}); err != nil {
		return bitio.Bits{}, err
	}

	if !c.protocolSet {
		return bitio.Bits{}, nil
	}
	var flagBits bitio.Builder
	for i := 7; i >= 0; i-- {
		flagBits.AppendBit((flagByte >> uint(i)) & 1)
	}
	var hb bitio.Builder
	hb.AppendBits(c.protocolHeader.Slice(0, 8))
	hb.AppendBits(flagBits.Bits())
	hb.AppendBits(c.protocolHeader.Slice(16, c.protocolHeader.Len()))
	return hb.Bits(), nil
}

// selfCheck implements §4.6's postlude self-checks. Any violation is a
// bug in the pipeline itself, not a problem with the input.
func (c *compressor) selfCheck(patchedHeader bitio.Bits) error {
	if c.bytesReadPassOne != c.bytesReadPassTwo {
		return ErrConsistency
	}
	if c.bytesReadPassTwo != c.bytesCompressed {
		return ErrConsistency
	}
	if c.protocolSet {
		if patchedHeader.Len() < 18 {
			return ErrConsistency
		}
		if int(patchedHeader.Bit(16)) != c.delimiterBit {
			return ErrConsistency
		}
		if (patchedHeader.Bit(8) == 1) != c.bitStuffing {
			return ErrConsistency
		}
	}
	if c.paddingSet && int(c.padding.Last()) == c.delimiterBit {
		return ErrConsistency
	}
	return nil
}
