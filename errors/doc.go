// Package errors provides structured error types for the packetcodec library.
//
// Errors are categorized by Phase (encode or decode) and Kind (failure
// category). The Error type carries the byte offset at which the cursor
// failed plus kind-specific context: the requested and remaining byte counts
// for truncation errors, the offending raw value for discriminant and
// boolean errors, and declared bounds for string-length errors.
//
// Use the convenience constructors:
//
//	err := errors.EOF(buf, pos, 2, "u16")
//	err := errors.InvalidDiscriminant(pos, "Shape", 9)
//	err := errors.StringTooLong(errors.PhaseEncode, pos, 16, 40)
//
// All errors implement the standard error interface and support errors.Is/As.
// Kind equality drives Is, so callers can match categories:
//
//	if errors.IsEOF(err) { /* transport should resync */ }
//
// SetDiagnostics(true) attaches a bounded hex snapshot of the buffer around
// the failure offset to truncation errors. The snapshot is strictly
// additive: it never changes whether a given input succeeds or fails.
package errors
