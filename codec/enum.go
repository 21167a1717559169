package codec

import (
	"reflect"
	"sync"

	"github.com/nervedata/packetcodec/errors"
	"github.com/nervedata/packetcodec/packet"
)

// enums maps enum Go types to their registered descriptors for use by the
// derivation engine.
var enums sync.Map // reflect.Type -> valueCodec

type enumValue interface {
	~int8 | ~int16 | ~int32 | ~int64 | ~uint8 | ~uint16 | ~uint32 | ~uint64
}

// Enum restricts an integer type to a declared value set. The set is an
// explicit mapping table; no value outside it crosses the wire in either
// direction.
type Enum[E enumValue] struct {
	width  packet.PrefixWidth
	values map[uint64]struct{}
	name   string
}

// NewEnum builds the enum descriptor for E with the given wire width and
// declared values.
func NewEnum[E enumValue](width packet.PrefixWidth, values ...E) *Enum[E] {
	e := &Enum[E]{
		width:  width,
		values: make(map[uint64]struct{}, len(values)),
		name:   reflect.TypeOf((*E)(nil)).Elem().String(),
	}
	for _, v := range values {
		raw := enumRaw(v)
		if raw > width.MaxValue() {
			panic("codec: enum value does not fit " + width.String())
		}
		e.values[raw] = struct{}{}
	}
	return e
}

// RegisterEnum builds the descriptor and registers it so struct fields of
// type E derive through the table.
func RegisterEnum[E enumValue](width packet.PrefixWidth, values ...E) *Enum[E] {
	e := NewEnum(width, values...)
	enums.Store(reflect.TypeOf((*E)(nil)).Elem(), valueCodec{
		enc: func(w *packet.Writer, v reflect.Value) error {
			return e.Encode(w, E(rawOf(v)))
		},
		dec: func(r *packet.Reader, v reflect.Value) error {
			x, err := e.Decode(r)
			if err != nil {
				return err
			}
			setRaw(v, enumRaw(x))
			return nil
		},
	})
	return e
}

// Encode writes v's underlying integer at the enum's width. A value
// outside the declared set is a caller bug surfaced as ValidationFailed.
func (e *Enum[E]) Encode(w *packet.Writer, v E) error {
	raw := enumRaw(v)
	if _, ok := e.values[raw]; !ok {
		return errors.Validation(errors.PhaseEncode, e.name,
			"%d is not a declared value", raw)
	}
	return w.WritePrefix(e.width, raw)
}

// Decode reads an integer at the enum's width; an undeclared value fails
// InvalidDiscriminant.
func (e *Enum[E]) Decode(r *packet.Reader) (E, error) {
	pos := r.Position()
	raw, err := r.ReadPrefix(e.width)
	if err != nil {
		return 0, err
	}
	if _, ok := e.values[raw]; !ok {
		return 0, errors.InvalidDiscriminant(pos, e.name, raw)
	}
	return E(raw), nil
}

// Contains reports whether v is in the declared set.
func (e *Enum[E]) Contains(v E) bool {
	_, ok := e.values[enumRaw(v)]
	return ok
}

func lookupEnum(t reflect.Type) (valueCodec, bool) {
	stored, ok := enums.Load(t)
	if !ok {
		return valueCodec{}, false
	}
	return stored.(valueCodec), true
}

func enumRaw[E enumValue](v E) uint64 {
	return uint64(v)
}

func rawOf(v reflect.Value) uint64 {
	if isUnsignedKind(v.Kind()) {
		return v.Uint()
	}
	return uint64(v.Int())
}

func setRaw(v reflect.Value, raw uint64) {
	if isUnsignedKind(v.Kind()) {
		v.SetUint(raw)
		return
	}
	v.SetInt(int64(raw))
}
