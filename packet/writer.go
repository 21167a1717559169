package packet

import (
	"encoding/binary"
	"math"
	"strings"

	"github.com/nervedata/packetcodec/errors"
)

// Writer is an append-only cursor over a growable byte buffer. Its length
// is its position: every append grows it by exactly the bytes written.
// Fixed-width appends cannot fail; only representational overflow (a
// payload too large for its declared prefix slot) produces an error, and a
// failed encode may already have appended bytes — callers needing atomicity
// encode into a scratch Writer first.
type Writer struct {
	buf []byte
}

// NewWriter creates an empty Writer.
func NewWriter() *Writer {
	return &Writer{}
}

// NewWriterSize creates a Writer with preallocated capacity.
func NewWriterSize(n int) *Writer {
	return &Writer{buf: make([]byte, 0, n)}
}

// Bytes returns the written buffer. The slice aliases the Writer's storage
// and is invalidated by further writes.
func (w *Writer) Bytes() []byte {
	return w.buf
}

// Len returns the number of bytes written so far.
func (w *Writer) Len() int {
	return len(w.buf)
}

// Reset truncates the Writer to empty, retaining capacity.
func (w *Writer) Reset() {
	w.buf = w.buf[:0]
}

// Truncate shortens the buffer to n bytes. Used by framing buffers to roll
// back a failed message encode.
func (w *Writer) Truncate(n int) {
	w.buf = w.buf[:n]
}

// Reader returns a Reader over the written bytes.
func (w *Writer) Reader() *Reader {
	return NewReader(w.buf)
}

// WriteBytes appends raw bytes.
func (w *Writer) WriteBytes(p []byte) {
	w.buf = append(w.buf, p...)
}

// WriteZero appends n zero bytes (padding).
func (w *Writer) WriteZero(n int) {
	for i := 0; i < n; i++ {
		w.buf = append(w.buf, 0)
	}
}

// WriteU8 appends an unsigned 8-bit integer.
func (w *Writer) WriteU8(v uint8) {
	w.buf = append(w.buf, v)
}

// WriteI8 appends a signed 8-bit integer.
func (w *Writer) WriteI8(v int8) {
	w.WriteU8(uint8(v))
}

// WriteU16 appends a little-endian unsigned 16-bit integer.
func (w *Writer) WriteU16(v uint16) {
	w.buf = binary.LittleEndian.AppendUint16(w.buf, v)
}

// WriteI16 appends a little-endian signed 16-bit integer.
func (w *Writer) WriteI16(v int16) {
	w.WriteU16(uint16(v))
}

// WriteU32 appends a little-endian unsigned 32-bit integer.
func (w *Writer) WriteU32(v uint32) {
	w.buf = binary.LittleEndian.AppendUint32(w.buf, v)
}

// WriteI32 appends a little-endian signed 32-bit integer.
func (w *Writer) WriteI32(v int32) {
	w.WriteU32(uint32(v))
}

// WriteU64 appends a little-endian unsigned 64-bit integer.
func (w *Writer) WriteU64(v uint64) {
	w.buf = binary.LittleEndian.AppendUint64(w.buf, v)
}

// WriteI64 appends a little-endian signed 64-bit integer.
func (w *Writer) WriteI64(v int64) {
	w.WriteU64(uint64(v))
}

// WriteF32 appends a little-endian 32-bit float.
func (w *Writer) WriteF32(v float32) {
	w.WriteU32(math.Float32bits(v))
}

// WriteF64 appends a little-endian 64-bit float.
func (w *Writer) WriteF64(v float64) {
	w.WriteU64(math.Float64bits(v))
}

// WriteBool appends a boolean as a single 0/1 byte.
func (w *Writer) WriteBool(v bool) {
	if v {
		w.WriteU8(1)
	} else {
		w.WriteU8(0)
	}
}

// WritePrefix appends a length prefix or discriminant of the given width,
// failing with overflow when v does not fit.
func (w *Writer) WritePrefix(width PrefixWidth, v uint64) error {
	if v > width.MaxValue() {
		return errors.Overflow(width.String()+" prefix", width.MaxValue(), v)
	}
	switch width {
	case U8:
		w.WriteU8(uint8(v))
	case U16:
		w.WriteU16(uint16(v))
	case U32:
		w.WriteU32(uint32(v))
	default:
		w.WriteU64(v)
	}
	return nil
}

// WriteLengthPrefixed appends the payload's exact byte count in a prefix of
// the given width, then the payload itself.
func (w *Writer) WriteLengthPrefixed(width PrefixWidth, payload []byte) error {
	if err := w.WritePrefix(width, uint64(len(payload))); err != nil {
		return err
	}
	w.WriteBytes(payload)
	return nil
}

// WriteString appends a u16-length-prefixed UTF-8 string.
func (w *Writer) WriteString(s string) error {
	if len(s) > math.MaxUint16 {
		return errors.Overflow("u16 string prefix", math.MaxUint16, uint64(len(s)))
	}
	w.WriteU16(uint16(len(s)))
	w.buf = append(w.buf, s...)
	return nil
}

// WriteStringMax appends a u16-length-prefixed UTF-8 string, rejecting one
// longer than max bytes.
func (w *Writer) WriteStringMax(s string, max int) error {
	if len(s) > max {
		return errors.StringTooLong(errors.PhaseEncode, w.Len(), max, len(s))
	}
	return w.WriteString(s)
}

// WriteMultiLineString appends a u16-length-prefixed string with every line
// break normalized to CRLF.
func (w *Writer) WriteMultiLineString(s string) error {
	var b strings.Builder
	rest := s
	for {
		line, tail, found := strings.Cut(rest, "\n")
		if !found {
			b.WriteString(rest)
			break
		}
		b.WriteString(strings.TrimSuffix(line, "\r"))
		b.WriteString("\r\n")
		rest = tail
	}
	return w.WriteString(b.String())
}
