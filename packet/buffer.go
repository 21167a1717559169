package packet

import (
	"encoding/binary"
	"math"

	"github.com/nervedata/packetcodec/errors"
)

// PacketBuf encodes multiple messages onto one buffer, each framed by a
// u16 little-endian length, while still allowing iteration over the
// individual frames. A failed encode is rolled back to the frame start so
// the buffer only ever holds complete frames.
type PacketBuf struct {
	w     *Writer
	count int
}

// NewPacketBuf creates an empty PacketBuf.
func NewPacketBuf() *PacketBuf {
	return &PacketBuf{w: NewWriter()}
}

// NewPacketBufSize creates a PacketBuf with preallocated capacity.
func NewPacketBufSize(n int) *PacketBuf {
	return &PacketBuf{w: NewWriterSize(n)}
}

// Encode appends one length-framed message: [u16 length][u16 opcode][body].
func (b *PacketBuf) Encode(op Opcode, body Encoder) error {
	start := b.w.Len()

	// Length placeholder, patched once the body size is known.
	b.w.WriteU16(0)
	b.w.WriteU16(uint16(op))

	if err := body.EncodePacket(b.w); err != nil {
		b.w.Truncate(start)
		debugf("packetbuf: rolled back frame after encode error: %v", err)
		return err
	}

	n := b.w.Len() - start - 2
	if n > math.MaxUint16 {
		b.w.Truncate(start)
		return errors.Overflow("u16 frame length", math.MaxUint16, uint64(n))
	}
	binary.LittleEndian.PutUint16(b.w.Bytes()[start:], uint16(n))
	b.count++
	return nil
}

// Count returns the number of complete frames held.
func (b *PacketBuf) Count() int {
	return b.count
}

// Bytes returns the raw framed buffer.
func (b *PacketBuf) Bytes() []byte {
	return b.w.Bytes()
}

// Frames returns the individual frames, length prefixes stripped. The
// slices alias the buffer.
func (b *PacketBuf) Frames() [][]byte {
	frames := make([][]byte, 0, b.count)
	buf := b.w.Bytes()
	for ix := 0; ix < len(buf); {
		n := int(binary.LittleEndian.Uint16(buf[ix:]))
		ix += 2
		frames = append(frames, buf[ix:ix+n])
		ix += n
	}
	return frames
}

// Clear discards all frames, retaining capacity.
func (b *PacketBuf) Clear() {
	b.w.Reset()
	b.count = 0
}

// EncodeBuf is a reusable scratch buffer for producing immutable messages
// without reallocating per encode.
type EncodeBuf struct {
	w *Writer
}

// NewEncodeBuf creates an EncodeBuf with a default capacity.
func NewEncodeBuf() *EncodeBuf {
	return &EncodeBuf{w: NewWriterSize(4096)}
}

// Encode produces a Message for op and body. The returned frame is an
// independent copy, safe to retain after further encodes.
func (b *EncodeBuf) Encode(op Opcode, body Encoder) (Message, error) {
	b.w.Reset()
	b.w.WriteU16(uint16(op))
	if err := body.EncodePacket(b.w); err != nil {
		return Message{}, err
	}
	frame := make(Packet, b.w.Len())
	copy(frame, b.w.Bytes())
	return Message{frame: frame}, nil
}
