package codec

import (
	"bytes"
	"unicode/utf8"

	"github.com/nervedata/packetcodec/errors"
	"github.com/nervedata/packetcodec/packet"
)

// WriteFixedString appends s into a block of exactly n bytes, zero padded
// on the right. A string longer than the block is rejected, never
// truncated.
func WriteFixedString(w *packet.Writer, s string, n int) error {
	if len(s) > n {
		return errors.StringTooLong(errors.PhaseEncode, w.Len(), n, len(s))
	}
	w.WriteBytes([]byte(s))
	w.WriteZero(n - len(s))
	return nil
}

// ReadFixedString consumes exactly n bytes and returns the text up to the
// first NUL.
func ReadFixedString(r *packet.Reader, n int) (string, error) {
	pos := r.Position()
	b, err := r.ReadBytes(n)
	if err != nil {
		return "", err
	}
	if i := bytes.IndexByte(b, 0); i >= 0 {
		b = b[:i]
	}
	if !utf8.Valid(b) {
		return "", errors.InvalidUTF8(pos, b)
	}
	return string(b), nil
}
