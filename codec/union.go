package codec

import (
	"reflect"
	"sync"

	"github.com/nervedata/packetcodec/errors"
	"github.com/nervedata/packetcodec/packet"
)

// unions maps interface types to their registered descriptors so derived
// structs can carry interface-typed fields.
var unions sync.Map // reflect.Type -> unionValueCodec

type unionValueCodec interface {
	encodeValue(w *packet.Writer, v reflect.Value) error
	decodeValue(r *packet.Reader) (reflect.Value, error)
}

// UnionCase binds one variant type to its discriminant value.
type UnionCase struct {
	disc uint64
	typ  reflect.Type
}

// Case declares a union variant. V must implement the union's interface,
// by value or through its pointer.
func Case[V any](disc uint64) UnionCase {
	return UnionCase{disc: disc, typ: reflect.TypeOf((*V)(nil)).Elem()}
}

// Union is a tagged-union descriptor for the interface type T: a
// discriminant of fixed width selects which variant's fields follow.
type Union[T any] struct {
	width  packet.PrefixWidth
	byType map[reflect.Type]uint64
	byDisc map[uint64]reflect.Type
	name   string
}

// NewUnion builds and registers the union descriptor for T. Variant
// declaration is explicit; nothing is recovered by introspection.
// Duplicate discriminants or variant types panic, as does a discriminant
// that does not fit the width: these are declaration bugs, not wire
// conditions.
func NewUnion[T any](width packet.PrefixWidth, cases ...UnionCase) *Union[T] {
	iface := reflect.TypeOf((*T)(nil)).Elem()
	if iface.Kind() != reflect.Interface {
		panic("codec: union type parameter must be an interface")
	}

	u := &Union[T]{
		width:  width,
		byType: make(map[reflect.Type]uint64, len(cases)),
		byDisc: make(map[uint64]reflect.Type, len(cases)),
		name:   iface.String(),
	}
	for _, c := range cases {
		if c.disc > width.MaxValue() {
			panic("codec: union discriminant does not fit " + width.String())
		}
		if !c.typ.Implements(iface) && !reflect.PointerTo(c.typ).Implements(iface) {
			panic("codec: union variant " + c.typ.String() + " does not implement " + u.name)
		}
		if _, dup := u.byDisc[c.disc]; dup {
			panic("codec: duplicate union discriminant")
		}
		if _, dup := u.byType[c.typ]; dup {
			panic("codec: duplicate union variant type")
		}
		u.byDisc[c.disc] = c.typ
		u.byType[c.typ] = c.disc
	}

	unions.Store(iface, unionValueCodec(u))
	return u
}

// Encode writes the active variant's discriminant, then its fields.
func (u *Union[T]) Encode(w *packet.Writer, v T) error {
	return u.encodeValue(w, reflect.ValueOf(v))
}

// Decode reads a discriminant and the variant it selects. An unmapped
// discriminant fails InvalidDiscriminant having consumed exactly the
// discriminant's width.
func (u *Union[T]) Decode(r *packet.Reader) (T, error) {
	var zero T
	rv, err := u.decodeValue(r)
	if err != nil {
		return zero, err
	}
	return rv.Interface().(T), nil
}

func (u *Union[T]) encodeValue(w *packet.Writer, v reflect.Value) error {
	if !v.IsValid() || (v.Kind() == reflect.Interface && v.IsNil()) {
		return errors.Validation(errors.PhaseEncode, u.name, "cannot encode a nil variant")
	}
	if v.Kind() == reflect.Interface {
		v = v.Elem()
	}

	vt := v.Type()
	disc, ok := u.byType[vt]
	if !ok {
		// The variant may be registered by value while the field holds a
		// pointer to it.
		if vt.Kind() == reflect.Pointer {
			if d, ok2 := u.byType[vt.Elem()]; ok2 {
				disc, ok = d, true
				v = v.Elem()
			}
		}
	}
	if !ok {
		return errors.Validation(errors.PhaseEncode, u.name,
			"%s is not a declared variant", vt)
	}

	if err := w.WritePrefix(u.width, disc); err != nil {
		return err
	}
	return Encode(w, v.Interface())
}

func (u *Union[T]) decodeValue(r *packet.Reader) (reflect.Value, error) {
	pos := r.Position()
	disc, err := r.ReadPrefix(u.width)
	if err != nil {
		return reflect.Value{}, err
	}

	vt, ok := u.byDisc[disc]
	if !ok {
		return reflect.Value{}, errors.InvalidDiscriminant(pos, u.name, disc)
	}

	nv := reflect.New(vt)
	if err := Decode(r, nv.Interface()); err != nil {
		return reflect.Value{}, err
	}

	iface := reflect.TypeOf((*T)(nil)).Elem()
	if vt.Implements(iface) {
		return nv.Elem(), nil
	}
	return nv, nil
}

// lookupUnion resolves the registered union for an interface type, adapted
// to the valueCodec shape the compiler works with.
func lookupUnion(t reflect.Type) (valueCodec, bool) {
	stored, ok := unions.Load(t)
	if !ok {
		return valueCodec{}, false
	}
	u := stored.(unionValueCodec)

	return valueCodec{
		enc: func(w *packet.Writer, v reflect.Value) error {
			return u.encodeValue(w, v)
		},
		dec: func(r *packet.Reader, v reflect.Value) error {
			rv, err := u.decodeValue(r)
			if err != nil {
				return err
			}
			v.Set(rv)
			return nil
		},
	}, true
}
