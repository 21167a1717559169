// Package packetcodec provides byte-exact encoding and decoding of typed
// values against a binary client-server wire protocol.
//
// The library converts in-memory records and tagged unions to and from the
// exact byte layout the protocol requires, and produces structured
// diagnostics when an incoming buffer is malformed or truncated. It performs
// no transport I/O: callers own the buffers, the library owns the layout.
//
// # Architecture Overview
//
// The library is organized into three packages with distinct responsibilities:
//
//	packetcodec/     Root package (documentation only)
//	├── packet/      Cursor Reader/Writer primitives, the Encoder/Decoder
//	│                contract, opcode tables, and message framing buffers
//	├── codec/       Primitive adapters (integers, strings, flags, options,
//	│                lists, enums, timestamps) and the derivation engine that
//	│                compiles struct declarations into encode/decode programs
//	└── errors/      Structured error model shared by every failure path
//
// # Quick Start
//
// Declare a message type; field declaration order is the wire order:
//
//	type Hello struct {
//	    ID    uint16
//	    Flags uint8  `pkt:"mask=0x07"`
//	    Name  string `pkt:"len=u8"`
//	}
//
// Encode and decode it:
//
//	data, err := codec.Marshal(Hello{ID: 300, Flags: 5, Name: "ok"})
//
//	var out Hello
//	err = codec.Unmarshal(data, &out)
//
// Types needing hand-written layouts implement the contract directly:
//
//	func (v *Thing) EncodePacket(w *packet.Writer) error
//	func (v *Thing) DecodePacket(r *packet.Reader) error
//
// # Wire Format
//
// The generated byte layout is the compatibility-critical surface. Integers
// are little-endian. Strings are length-prefixed UTF-8 (u16 prefix unless a
// field declares otherwise). Optionals carry a one-byte presence flag.
// Tagged unions write an integer discriminant followed by the active
// variant's fields. Changing field order, widths, or prefix strategy is a
// breaking wire-format change.
//
// # Failure Semantics
//
// Every decode failure is terminal for that call: the first failing field
// aborts the decode and no partially-constructed value is ever surfaced.
// Truncated input fails with an UnexpectedEOF error carrying the requested
// byte count, remaining bytes, and cursor offset; errors.SetDiagnostics
// additionally attaches a bounded hex snapshot without ever changing
// whether a given input succeeds or fails.
package packetcodec
