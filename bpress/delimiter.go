package bpress

// DelimiterMode selects how the compressor picks its delimiter bit from
// the scanned statistics of a file.
type DelimiterMode int

const (
	// Low picks the bit value with the smaller observed frequency,
	// breaking ties toward 0.
	Low DelimiterMode = iota
	// High picks the bit value with the larger observed frequency,
	// breaking ties toward 0.
	High
	// Custom invokes a caller-supplied DelimiterFunc.
	Custom
)

// DelimiterFunc picks a delimiter bit (0 or 1) from scanned statistics. It
// is only consulted when a compressor's DelimiterMode is Custom.
type DelimiterFunc func(data ScannedData) int

// selectDelimiter implements component B: given scanned statistics, a
// mode, and (for Custom) a callback, it returns the chosen delimiter bit.
func selectDelimiter(data ScannedData, mode DelimiterMode, fn DelimiterFunc) (int, error) {
	switch mode {
	case Custom:
		if fn == nil {
			return 0, ErrConfig
		}
		return fn(data), nil
	case High:
		if data.BitFreqs[1] > data.BitFreqs[0] {
			return 1, nil
		}
		return 0, nil
	case Low:
		if data.BitFreqs[1] < data.BitFreqs[0] {
			return 1, nil
		}
		return 0, nil
	default:
		return 0, ErrConfig
	}
}
