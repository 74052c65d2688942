// Package bpress implements the BPRESS streaming bit-level compressor.
//
// BPRESS chooses one bit value as a delimiter and treats the input as a
// sequence of tokens, where each token is a run of non-delimiter bits
// terminated by one delimiter bit. Each token is encoded as a
// variable-length digest drawn from a self-extending bucketed prefix code;
// the format is effective when the input is biased so the delimiter bit
// appears sparsely, producing long tokens that encode to short digests.
//
// This package implements only the format's core: the digest code and the
// streaming compression pipeline. No decompressor is provided.
package bpress

import "runtime"

// Error is the wrapper type for errors specific to this library.
type Error string

func (e Error) Error() string { return "bpress: " + string(e) }

// Sentinel error values, one family per failure kind named by the format.
var (
	// ErrConfig reports an invalid compressor configuration, such as an
	// unknown delimiter mode or a missing custom delimiter callback.
	ErrConfig error = Error("invalid configuration")

	// ErrScan reports that the first scanning pass did not run to
	// completion (the observed byte count never matched the file size).
	ErrScan error = Error("scan did not complete")

	// ErrProtocol reports a violation of the wire protocol: a missing
	// delimiter in the first buffer, a delimiter absent entirely from a
	// bit stream being tokenized, or an attempt to bit-stuff twice.
	ErrProtocol error = Error("protocol violation")

	// ErrCodec reports an invalid token length passed to the digest codec.
	ErrCodec error = Error("invalid token length")

	// ErrConsistency reports a failed postlude self-check: a bug in the
	// pipeline itself rather than a problem with the input.
	ErrConsistency error = Error("internal consistency check failed")
)

// errRecover is installed via defer at the boundary of every exported
// entry point that relies on unexported helpers panicking on internal
// invariant violations (mirroring bzip2/common.go and flate/common.go).
func errRecover(err *error) {
	switch ex := recover().(type) {
	case nil:
		// Do nothing.
	case runtime.Error:
		panic(ex)
	case error:
		*err = ex
	default:
		panic(ex)
	}
}
