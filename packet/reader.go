package packet

import (
	"encoding/binary"
	"math"
	"unicode/utf8"

	"github.com/nervedata/packetcodec/errors"
)

// Reader is a cursor over an immutable byte buffer. Every read checks the
// remaining length before consuming and advances the position by exactly
// the bytes read; the position never passes the end of the buffer.
//
// A Reader is exclusive to the call that created it and must not be shared
// across goroutines.
type Reader struct {
	buf []byte
	pos int
}

// NewReader creates a Reader over b. The buffer is not copied; the caller
// must not mutate it while the Reader is in use.
func NewReader(b []byte) *Reader {
	return &Reader{buf: b}
}

// Len returns the total buffer length.
func (r *Reader) Len() int {
	return len(r.buf)
}

// Position returns the current read offset.
func (r *Reader) Position() int {
	return r.pos
}

// Remaining returns the number of unread bytes.
func (r *Reader) Remaining() int {
	return len(r.buf) - r.pos
}

// Rest returns the unread tail without consuming it. Consume-to-end fields
// pair this with Skip(len).
func (r *Reader) Rest() []byte {
	return r.buf[r.pos:]
}

// check fails with unexpected_eof when fewer than n bytes remain.
func (r *Reader) check(n int, typeName string) error {
	if r.Remaining() < n {
		return errors.EOF(r.buf, r.pos, n, typeName)
	}
	return nil
}

// Peek returns the next n bytes without advancing.
func (r *Reader) Peek(n int) ([]byte, error) {
	if err := r.check(n, "peek"); err != nil {
		return nil, err
	}
	return r.buf[r.pos : r.pos+n], nil
}

// Take consumes and returns the next n bytes. The result aliases the
// underlying buffer.
func (r *Reader) Take(n int) ([]byte, error) {
	return r.take(n, "bytes")
}

func (r *Reader) take(n int, typeName string) ([]byte, error) {
	if err := r.check(n, typeName); err != nil {
		return nil, err
	}
	b := r.buf[r.pos : r.pos+n]
	r.pos += n
	return b, nil
}

// Skip discards n bytes.
func (r *Reader) Skip(n int) error {
	if err := r.check(n, "skip"); err != nil {
		return err
	}
	r.pos += n
	return nil
}

// ReadBytes consumes exactly n raw bytes.
func (r *Reader) ReadBytes(n int) ([]byte, error) {
	return r.take(n, "bytes")
}

// ReadArray fills dst from the buffer, consuming len(dst) bytes.
func (r *Reader) ReadArray(dst []byte) error {
	b, err := r.take(len(dst), "array")
	if err != nil {
		return err
	}
	copy(dst, b)
	return nil
}

// ReadU8 decodes an unsigned 8-bit integer.
func (r *Reader) ReadU8() (uint8, error) {
	if err := r.check(1, "u8"); err != nil {
		return 0, err
	}
	v := r.buf[r.pos]
	r.pos++
	return v, nil
}

// ReadI8 decodes a signed 8-bit integer.
func (r *Reader) ReadI8() (int8, error) {
	v, err := r.ReadU8()
	return int8(v), err
}

// ReadU16 decodes a little-endian unsigned 16-bit integer.
func (r *Reader) ReadU16() (uint16, error) {
	if err := r.check(2, "u16"); err != nil {
		return 0, err
	}
	v := binary.LittleEndian.Uint16(r.buf[r.pos:])
	r.pos += 2
	return v, nil
}

// ReadI16 decodes a little-endian signed 16-bit integer.
func (r *Reader) ReadI16() (int16, error) {
	v, err := r.ReadU16()
	return int16(v), err
}

// ReadU32 decodes a little-endian unsigned 32-bit integer.
func (r *Reader) ReadU32() (uint32, error) {
	if err := r.check(4, "u32"); err != nil {
		return 0, err
	}
	v := binary.LittleEndian.Uint32(r.buf[r.pos:])
	r.pos += 4
	return v, nil
}

// ReadI32 decodes a little-endian signed 32-bit integer.
func (r *Reader) ReadI32() (int32, error) {
	v, err := r.ReadU32()
	return int32(v), err
}

// ReadU64 decodes a little-endian unsigned 64-bit integer.
func (r *Reader) ReadU64() (uint64, error) {
	if err := r.check(8, "u64"); err != nil {
		return 0, err
	}
	v := binary.LittleEndian.Uint64(r.buf[r.pos:])
	r.pos += 8
	return v, nil
}

// ReadI64 decodes a little-endian signed 64-bit integer.
func (r *Reader) ReadI64() (int64, error) {
	v, err := r.ReadU64()
	return int64(v), err
}

// ReadF32 decodes a little-endian 32-bit float.
func (r *Reader) ReadF32() (float32, error) {
	v, err := r.ReadU32()
	return math.Float32frombits(v), err
}

// ReadF64 decodes a little-endian 64-bit float.
func (r *Reader) ReadF64() (float64, error) {
	v, err := r.ReadU64()
	return math.Float64frombits(v), err
}

// ReadBool decodes a single byte as a boolean. Any value other than 0 or 1
// fails with invalid_bool.
func (r *Reader) ReadBool() (bool, error) {
	pos := r.pos
	v, err := r.ReadU8()
	if err != nil {
		return false, err
	}
	if v > 1 {
		return false, errors.InvalidBool(pos, v)
	}
	return v == 1, nil
}

// ReadPrefix decodes a length prefix or discriminant of the given width.
func (r *Reader) ReadPrefix(width PrefixWidth) (uint64, error) {
	switch width {
	case U8:
		v, err := r.ReadU8()
		return uint64(v), err
	case U16:
		v, err := r.ReadU16()
		return uint64(v), err
	case U32:
		v, err := r.ReadU32()
		return uint64(v), err
	default:
		return r.ReadU64()
	}
}

// ReadLengthPrefixed decodes a prefix of the given width, then consumes
// exactly that many payload bytes. A prefix exceeding the remaining buffer
// fails with unexpected_eof at the payload offset.
func (r *Reader) ReadLengthPrefixed(width PrefixWidth) ([]byte, error) {
	n, err := r.ReadPrefix(width)
	if err != nil {
		return nil, err
	}
	if n > uint64(r.Remaining()) {
		return nil, errors.EOF(r.buf, r.pos, clampInt(n), "length-prefixed payload")
	}
	return r.take(int(n), "length-prefixed payload")
}

// ReadString decodes a u16-length-prefixed UTF-8 string.
func (r *Reader) ReadString() (string, error) {
	return r.readString(math.MaxUint16)
}

// ReadStringMax decodes a u16-length-prefixed UTF-8 string, rejecting a
// prefix larger than max before consuming any payload.
func (r *Reader) ReadStringMax(max int) (string, error) {
	return r.readString(max)
}

func (r *Reader) readString(max int) (string, error) {
	n, err := r.ReadU16()
	if err != nil {
		return "", err
	}
	if int(n) > max {
		return "", errors.StringTooLong(errors.PhaseDecode, r.pos, max, int(n))
	}
	pos := r.pos
	b, err := r.take(int(n), "string payload")
	if err != nil {
		return "", err
	}
	if !utf8.Valid(b) {
		return "", errors.InvalidUTF8(pos, b)
	}
	return string(b), nil
}

// Sub creates a speculative reader over the unread tail. Reads on the
// sub-reader do not move this Reader until Commit is called.
func (r *Reader) Sub() *Reader {
	return NewReader(r.Rest())
}

// Commit advances this Reader past everything the sub-reader consumed.
func (r *Reader) Commit(sub *Reader) error {
	return r.Skip(sub.Position())
}

// clampInt converts a wire-supplied count for error reporting without
// overflowing int.
func clampInt(v uint64) int {
	if v > math.MaxInt32 {
		return math.MaxInt32
	}
	return int(v)
}
