package codec

import (
	"github.com/nervedata/packetcodec/errors"
	"github.com/nervedata/packetcodec/packet"
)

// OptionRev is an optional with reversed presence semantics: the presence
// byte is 0 when a value follows and 1 when none does. Some legacy
// messages encode absence this way; plain pointer fields cover the normal
// 1-means-present form.
type OptionRev[T any] struct {
	Value *T
}

// SomeRev wraps a present value.
func SomeRev[T any](v T) OptionRev[T] {
	return OptionRev[T]{Value: &v}
}

// IsSome reports whether a value is present.
func (o OptionRev[T]) IsSome() bool {
	return o.Value != nil
}

// Get returns the value and whether one is present.
func (o OptionRev[T]) Get() (T, bool) {
	if o.Value == nil {
		var zero T
		return zero, false
	}
	return *o.Value, true
}

// EncodePacket implements packet.Encoder.
func (o OptionRev[T]) EncodePacket(w *packet.Writer) error {
	if o.Value == nil {
		w.WriteU8(1)
		return nil
	}
	w.WriteU8(0)
	return Encode(w, o.Value)
}

// DecodePacket implements packet.Decoder.
func (o *OptionRev[T]) DecodePacket(r *packet.Reader) error {
	pos := r.Position()
	b, err := r.ReadU8()
	if err != nil {
		return err
	}
	switch b {
	case 1:
		o.Value = nil
		return nil
	case 0:
		v := new(T)
		if err := Decode(r, v); err != nil {
			return err
		}
		o.Value = v
		return nil
	default:
		return errors.InvalidBool(pos, b)
	}
}
