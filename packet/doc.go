// Package packet provides the cursor primitives of the packetcodec library:
// a bounded Reader over an immutable byte buffer, an append-only Writer over
// a growable one, and the Encoder/Decoder contract every serializable type
// implements.
//
// # Cursors
//
// A Reader wraps a caller-supplied []byte with a read position. Every read
// checks the remaining length first and advances by exactly the bytes it
// consumed; a short buffer fails with an unexpected_eof error carrying the
// requested count, remaining count, and offset. A Writer's position is its
// current length; every append grows it by exactly the bytes written. There
// is no partial-write rollback — callers needing atomicity encode into a
// scratch Writer first (PacketBuf does this for framing).
//
// Cursors are created per call and never shared: concurrent encodes and
// decodes on distinct buffers need no coordination.
//
// # Wire conventions
//
// All fixed-width integers are little-endian. Strings are length-prefixed
// UTF-8 with a u16 prefix unless a different width is requested. Booleans
// are a single 0/1 byte; any other value is rejected.
//
// # Framing
//
// Packet, Message, PacketBuf and EncodeBuf are the in-memory frame shapes
// handed to transports: an immutable encoded frame, an opcode-tagged frame,
// a buffer of many length-framed messages, and a reusable scratch encoder.
// None of them perform I/O.
package packet
