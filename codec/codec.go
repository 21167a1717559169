package codec

import (
	"fmt"
	"reflect"

	"github.com/nervedata/packetcodec/errors"
	"github.com/nervedata/packetcodec/packet"
)

// Encode appends v's wire representation to w. A type implementing
// packet.Encoder encodes itself; everything else goes through the
// derivation engine.
func Encode(w *packet.Writer, v any) error {
	rv := reflect.ValueOf(v)
	if !rv.IsValid() || (rv.Kind() == reflect.Pointer && rv.IsNil()) {
		return errors.Validation(errors.PhaseEncode, fmt.Sprintf("%T", v),
			"cannot encode a nil value")
	}

	if enc, ok := v.(packet.Encoder); ok {
		return enc.EncodePacket(w)
	}

	for rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return errors.Validation(errors.PhaseEncode, fmt.Sprintf("%T", v),
				"cannot encode a nil pointer")
		}
		rv = rv.Elem()
	}

	vc, err := codecForRoot(rv.Type())
	if err != nil {
		return err
	}
	return vc.enc(w, rv)
}

// Decode populates v, a non-nil pointer, from r. On failure the value
// behind v is left untouched.
func Decode(r *packet.Reader, v any) error {
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Pointer || rv.IsNil() {
		return errors.Validation(errors.PhaseDecode, fmt.Sprintf("%T", v),
			"destination must be a non-nil pointer")
	}

	if _, ok := v.(packet.Decoder); ok {
		// Hand-written codecs decode into a scratch value too, so a failed
		// decode never leaves a half-written destination.
		scratch := reflect.New(rv.Elem().Type())
		if err := scratch.Interface().(packet.Decoder).DecodePacket(r); err != nil {
			return err
		}
		rv.Elem().Set(scratch.Elem())
		return nil
	}

	elem := rv.Elem()
	vc, err := codecForRoot(elem.Type())
	if err != nil {
		return err
	}

	scratch := reflect.New(elem.Type()).Elem()
	if err := vc.dec(r, scratch); err != nil {
		return err
	}
	elem.Set(scratch)
	return nil
}

// Marshal encodes v into a fresh buffer.
func Marshal(v any) ([]byte, error) {
	w := packet.NewWriter()
	if err := Encode(w, v); err != nil {
		return nil, err
	}
	return w.Bytes(), nil
}

// Unmarshal decodes v from the start of b. Trailing bytes are ignored;
// use DecodeComplete to reject them.
func Unmarshal(b []byte, v any) error {
	return Decode(packet.NewReader(b), v)
}

// DecodeComplete decodes v from b and fails unless the whole buffer was
// consumed.
func DecodeComplete(b []byte, v any) error {
	r := packet.NewReader(b)
	if err := Decode(r, v); err != nil {
		return err
	}
	if n := r.Remaining(); n > 0 {
		return errors.Validation(errors.PhaseDecode, fmt.Sprintf("%T", v),
			"%d trailing bytes after a complete value", n)
	}
	return nil
}

// TryDecode attempts to decode an optional tail. Truncation reports
// (false, nil) with the cursor unmoved; any other failure propagates.
// On success the cursor advances past the decoded bytes.
func TryDecode(r *packet.Reader, v any) (bool, error) {
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Pointer || rv.IsNil() {
		return false, errors.Validation(errors.PhaseDecode, fmt.Sprintf("%T", v),
			"destination must be a non-nil pointer")
	}

	sub := r.Sub()
	scratch := reflect.New(rv.Elem().Type())
	if err := Decode(sub, scratch.Interface()); err != nil {
		if errors.IsEOF(err) {
			return false, nil
		}
		return false, err
	}

	rv.Elem().Set(scratch.Elem())
	if err := r.Commit(sub); err != nil {
		return false, err
	}
	return true, nil
}

// codecForRoot resolves a top-level value's codec with no tag options in
// play.
func codecForRoot(t reflect.Type) (valueCodec, error) {
	c := &compiler{inProgress: make(map[reflect.Type]*Program)}
	vc, err := c.codecFor(t, fieldTag{}, t.String())
	if err != nil {
		return valueCodec{}, err
	}
	for ct, cp := range c.inProgress {
		programs.Store(ct, cp)
	}
	return vc, nil
}
