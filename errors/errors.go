package errors

import (
	"fmt"
	"strings"
)

// Phase indicates whether the error occurred while producing or consuming
// bytes.
type Phase string

const (
	PhaseEncode  Phase = "encode"  // value to wire bytes
	PhaseDecode  Phase = "decode"  // wire bytes to value
	PhaseCompile Phase = "compile" // building a codec from a type declaration
)

// Kind categorizes the failure.
type Kind string

const (
	// Malformed-input kinds. A transport seeing one of these received a
	// corrupt or truncated frame and should treat the connection as
	// unsynchronized.
	KindUnexpectedEOF Kind = "unexpected_eof"
	KindInvalidBool   Kind = "invalid_bool"
	KindInvalidUTF8   Kind = "invalid_utf8"

	// Well-formed-but-unrecognized kinds. The frame was structurally sound;
	// the record can be dropped without losing stream synchronization.
	KindInvalidDiscriminant Kind = "invalid_discriminant"
	KindInvalidOpcode       Kind = "invalid_opcode"
	KindMissingOpcode       Kind = "missing_opcode"

	// Bound and validation kinds, raised on either side.
	KindStringTooLong Kind = "string_too_long"
	KindValidation    Kind = "validation_failed"
	KindOverflow      Kind = "overflow"

	// Schema kinds, raised while compiling a type declaration rather than
	// while moving bytes.
	KindUnsupported Kind = "unsupported_type"
)

// Error is the structured error type used throughout the library.
type Error struct {
	Phase  Phase
	Kind   Kind
	Offset int // cursor byte offset at the point of failure

	// Truncation context (KindUnexpectedEOF).
	Requested int
	Remaining int

	// Offending raw value (discriminant, presence byte, boolean byte,
	// opcode).
	Raw uint64

	// Declared bound and actual size (KindStringTooLong, KindOverflow).
	Max    uint64
	Actual uint64

	TypeName string // type being decoded when the failure occurred
	Detail   string // human-readable context
	Cause    error  // underlying error, if any

	// Diag is populated on truncation errors when SetDiagnostics(true)
	// is in effect. It never influences control flow.
	Diag *Diagnostic
}

// Error implements the error interface.
func (e *Error) Error() string {
	var b strings.Builder

	b.WriteByte('[')
	b.WriteString(string(e.Phase))
	b.WriteString("] ")
	b.WriteString(string(e.Kind))

	switch e.Kind {
	case KindUnexpectedEOF:
		fmt.Fprintf(&b, ": requested %d bytes at offset %d, %d remaining",
			e.Requested, e.Offset, e.Remaining)
	case KindInvalidBool:
		fmt.Fprintf(&b, ": byte 0x%02X at offset %d is not a boolean", e.Raw, e.Offset)
	case KindInvalidDiscriminant:
		fmt.Fprintf(&b, ": value %d has no variant at offset %d", e.Raw, e.Offset)
	case KindInvalidOpcode:
		fmt.Fprintf(&b, ": 0x%04X", e.Raw)
	case KindStringTooLong:
		fmt.Fprintf(&b, ": %d bytes exceeds limit %d", e.Actual, e.Max)
	case KindOverflow:
		fmt.Fprintf(&b, ": %d exceeds maximum %d", e.Actual, e.Max)
	case KindInvalidUTF8:
		fmt.Fprintf(&b, " at offset %d", e.Offset)
	}

	if e.TypeName != "" {
		b.WriteString(" (type ")
		b.WriteString(e.TypeName)
		b.WriteByte(')')
	}

	if e.Detail != "" {
		b.WriteString(": ")
		b.WriteString(e.Detail)
	}

	if e.Cause != nil {
		b.WriteString(": ")
		b.WriteString(e.Cause.Error())
	}

	if e.Diag != nil {
		b.WriteByte('\n')
		b.WriteString(e.Diag.Dump())
	}

	return b.String()
}

// Unwrap returns the underlying error.
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error. Two Errors match when their
// Kinds are equal, so sentinel comparison works at the category level.
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return e.Kind == t.Kind
	}
	return false
}

// IsEOF reports whether err is a truncation error.
func IsEOF(err error) bool {
	e, ok := err.(*Error)
	return ok && e.Kind == KindUnexpectedEOF
}

// EOF creates a truncation error for a read of requested bytes at pos.
// buf is the full buffer under decode; when diagnostics are enabled a
// bounded snapshot around pos is attached.
func EOF(buf []byte, pos, requested int, typeName string) *Error {
	return &Error{
		Phase:     PhaseDecode,
		Kind:      KindUnexpectedEOF,
		Offset:    pos,
		Requested: requested,
		Remaining: len(buf) - pos,
		TypeName:  typeName,
		Diag:      capture(buf, pos, requested),
	}
}

// InvalidBool creates an error for a boolean byte other than 0 or 1.
func InvalidBool(pos int, raw byte) *Error {
	return &Error{
		Phase:  PhaseDecode,
		Kind:   KindInvalidBool,
		Offset: pos,
		Raw:    uint64(raw),
	}
}

// InvalidUTF8 creates an error for string payload bytes that are not valid
// UTF-8. A short preview of the offending bytes is included.
func InvalidUTF8(pos int, data []byte) *Error {
	preview := data
	if len(preview) > 32 {
		preview = preview[:32]
	}
	return &Error{
		Phase:  PhaseDecode,
		Kind:   KindInvalidUTF8,
		Offset: pos,
		Detail: fmt.Sprintf("invalid UTF-8 sequence: %x", preview),
	}
}

// InvalidDiscriminant creates an error for an integer discriminant that maps
// to no declared variant or enum value.
func InvalidDiscriminant(pos int, typeName string, raw uint64) *Error {
	return &Error{
		Phase:    PhaseDecode,
		Kind:     KindInvalidDiscriminant,
		Offset:   pos,
		TypeName: typeName,
		Raw:      raw,
	}
}

// InvalidOpcode creates an error for a message opcode with no mapping.
func InvalidOpcode(raw uint16) *Error {
	return &Error{
		Phase: PhaseDecode,
		Kind:  KindInvalidOpcode,
		Raw:   uint64(raw),
	}
}

// MissingOpcode creates an error for a frame too short to hold an opcode.
func MissingOpcode(length int) *Error {
	return &Error{
		Phase:  PhaseDecode,
		Kind:   KindMissingOpcode,
		Detail: fmt.Sprintf("frame of %d bytes cannot hold an opcode", length),
	}
}

// StringTooLong creates an error for a string exceeding its declared
// maximum byte length.
func StringTooLong(phase Phase, pos int, max, actual int) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindStringTooLong,
		Offset: pos,
		Max:    uint64(max),
		Actual: uint64(actual),
	}
}

// Overflow creates an encode-time error for a value too large for its
// declared fixed-width or length-prefix slot.
func Overflow(what string, max, actual uint64) *Error {
	return &Error{
		Phase:  PhaseEncode,
		Kind:   KindOverflow,
		Max:    max,
		Actual: actual,
		Detail: what,
	}
}

// Unsupported creates a compile-time error for a field shape the derivation
// engine cannot express on the wire.
func Unsupported(typeName, format string, args ...any) *Error {
	return &Error{
		Phase:    PhaseCompile,
		Kind:     KindUnsupported,
		TypeName: typeName,
		Detail:   fmt.Sprintf(format, args...),
	}
}

// Validation creates an error for a per-type validity check, such as an
// out-of-range timestamp.
func Validation(phase Phase, typeName, format string, args ...any) *Error {
	return &Error{
		Phase:    phase,
		Kind:     KindValidation,
		TypeName: typeName,
		Detail:   fmt.Sprintf(format, args...),
	}
}
