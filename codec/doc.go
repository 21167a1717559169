// Package codec derives wire codecs from Go type declarations.
//
// This package handles bidirectional conversion between Go values and the
// protocol's little-endian byte layout:
//
//	┌──────────────────────────────────────────────────────┐
//	│ Go Value ←→ [Compiled Program] ←→ Wire Bytes         │
//	└──────────────────────────────────────────────────────┘
//
// # Derivation
//
// Compile walks a struct's fields in declaration order and produces a
// cached program interpreted by a generic encoder/decoder. Declaration
// order is the single source of truth for wire layout; there is no
// name-based or out-of-order lookup at runtime.
//
//	Shape           Encoding
//	─────────────────────────────────────────────
//	fixed ints      little-endian raw bytes
//	bool            1 byte, 0 or 1
//	string          u16 length prefix + UTF-8
//	[]T             u32 length prefix + elements
//	[N]T            N elements back to back
//	struct          fields in declaration order
//	*T              presence byte + payload
//	interface       registered Union discriminant + variant
//
// # Struct tags
//
// Per-field options use the pkt tag:
//
//	len=u8|u16|u32|u64   length-prefix width for a slice or string
//	lenfrom=Field        element count from an earlier integer field
//	rest                 consume every remaining byte
//	skip=N, skipafter=N  N zero padding bytes before/after the field
//	max=N                string byte-length bound, both directions
//	fixed=N              N-byte zero-padded string block
//	mask=0xNN            undeclared flag bits cleared on decode
//	if=Field, if=!Field  presence conditioned on an earlier field
//	ifbit=Field:0xNN     presence conditioned on a flag bit
//	-                    field carries no bytes
//
// # Failure contract
//
// Types a program cannot express (maps, channels, funcs, unregistered
// interfaces) fail at Compile time. At decode time the first failing
// field aborts the whole decode and the destination value is left
// untouched.
//
// # Hand-written codecs
//
// A type implementing packet.Encoder/packet.Decoder short-circuits
// derivation; the engine calls the methods instead of reflecting. The
// adapter types in this package (Time, Expiration, Uint128, OptionRev,
// DurationMs16/32) work exactly this way.
//
// # Thread safety
//
// Compiled programs, unions, and enums are safe for concurrent use.
// Register unions and enums before the first Encode/Decode call.
package codec
