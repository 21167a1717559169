package codec

import (
	"math"
	"reflect"
	"unicode/utf8"

	"github.com/nervedata/packetcodec/errors"
	"github.com/nervedata/packetcodec/packet"
)

var (
	encoderIface = reflect.TypeOf((*packet.Encoder)(nil)).Elem()
	decoderIface = reflect.TypeOf((*packet.Decoder)(nil)).Elem()
)

// contractCodec returns a codec backed by the type's own
// EncodePacket/DecodePacket methods, when it has them.
func contractCodec(t reflect.Type) (valueCodec, bool) {
	pt := reflect.PointerTo(t)
	if !pt.Implements(encoderIface) || !pt.Implements(decoderIface) {
		return valueCodec{}, false
	}

	enc := func(w *packet.Writer, v reflect.Value) error {
		if !v.CanAddr() {
			p := reflect.New(t)
			p.Elem().Set(v)
			v = p.Elem()
		}
		return v.Addr().Interface().(packet.Encoder).EncodePacket(w)
	}
	dec := func(r *packet.Reader, v reflect.Value) error {
		return v.Addr().Interface().(packet.Decoder).DecodePacket(r)
	}
	return valueCodec{enc: enc, dec: dec}, true
}

func boolCodec() valueCodec {
	return valueCodec{
		enc: func(w *packet.Writer, v reflect.Value) error {
			w.WriteBool(v.Bool())
			return nil
		},
		dec: func(r *packet.Reader, v reflect.Value) error {
			b, err := r.ReadBool()
			if err != nil {
				return err
			}
			v.SetBool(b)
			return nil
		},
	}
}

func uintCodec(t reflect.Type) valueCodec {
	switch t.Kind() {
	case reflect.Uint8:
		return valueCodec{
			enc: func(w *packet.Writer, v reflect.Value) error {
				w.WriteU8(uint8(v.Uint()))
				return nil
			},
			dec: func(r *packet.Reader, v reflect.Value) error {
				x, err := r.ReadU8()
				if err != nil {
					return err
				}
				v.SetUint(uint64(x))
				return nil
			},
		}
	case reflect.Uint16:
		return valueCodec{
			enc: func(w *packet.Writer, v reflect.Value) error {
				w.WriteU16(uint16(v.Uint()))
				return nil
			},
			dec: func(r *packet.Reader, v reflect.Value) error {
				x, err := r.ReadU16()
				if err != nil {
					return err
				}
				v.SetUint(uint64(x))
				return nil
			},
		}
	case reflect.Uint32:
		return valueCodec{
			enc: func(w *packet.Writer, v reflect.Value) error {
				w.WriteU32(uint32(v.Uint()))
				return nil
			},
			dec: func(r *packet.Reader, v reflect.Value) error {
				x, err := r.ReadU32()
				if err != nil {
					return err
				}
				v.SetUint(uint64(x))
				return nil
			},
		}
	default:
		return valueCodec{
			enc: func(w *packet.Writer, v reflect.Value) error {
				w.WriteU64(v.Uint())
				return nil
			},
			dec: func(r *packet.Reader, v reflect.Value) error {
				x, err := r.ReadU64()
				if err != nil {
					return err
				}
				v.SetUint(x)
				return nil
			},
		}
	}
}

func intCodec(t reflect.Type) valueCodec {
	switch t.Kind() {
	case reflect.Int8:
		return valueCodec{
			enc: func(w *packet.Writer, v reflect.Value) error {
				w.WriteI8(int8(v.Int()))
				return nil
			},
			dec: func(r *packet.Reader, v reflect.Value) error {
				x, err := r.ReadI8()
				if err != nil {
					return err
				}
				v.SetInt(int64(x))
				return nil
			},
		}
	case reflect.Int16:
		return valueCodec{
			enc: func(w *packet.Writer, v reflect.Value) error {
				w.WriteI16(int16(v.Int()))
				return nil
			},
			dec: func(r *packet.Reader, v reflect.Value) error {
				x, err := r.ReadI16()
				if err != nil {
					return err
				}
				v.SetInt(int64(x))
				return nil
			},
		}
	case reflect.Int32:
		return valueCodec{
			enc: func(w *packet.Writer, v reflect.Value) error {
				w.WriteI32(int32(v.Int()))
				return nil
			},
			dec: func(r *packet.Reader, v reflect.Value) error {
				x, err := r.ReadI32()
				if err != nil {
					return err
				}
				v.SetInt(int64(x))
				return nil
			},
		}
	default:
		return valueCodec{
			enc: func(w *packet.Writer, v reflect.Value) error {
				w.WriteI64(v.Int())
				return nil
			},
			dec: func(r *packet.Reader, v reflect.Value) error {
				x, err := r.ReadI64()
				if err != nil {
					return err
				}
				v.SetInt(x)
				return nil
			},
		}
	}
}

func floatCodec(t reflect.Type) valueCodec {
	if t.Kind() == reflect.Float32 {
		return valueCodec{
			enc: func(w *packet.Writer, v reflect.Value) error {
				w.WriteF32(float32(v.Float()))
				return nil
			},
			dec: func(r *packet.Reader, v reflect.Value) error {
				x, err := r.ReadF32()
				if err != nil {
					return err
				}
				v.SetFloat(float64(x))
				return nil
			},
		}
	}
	return valueCodec{
		enc: func(w *packet.Writer, v reflect.Value) error {
			w.WriteF64(v.Float())
			return nil
		},
		dec: func(r *packet.Reader, v reflect.Value) error {
			x, err := r.ReadF64()
			if err != nil {
				return err
			}
			v.SetFloat(x)
			return nil
		},
	}
}

func stringCodec(tag fieldTag) valueCodec {
	switch {
	case tag.fixed > 0:
		n := tag.fixed
		return valueCodec{
			enc: func(w *packet.Writer, v reflect.Value) error {
				return WriteFixedString(w, v.String(), n)
			},
			dec: func(r *packet.Reader, v reflect.Value) error {
				s, err := ReadFixedString(r, n)
				if err != nil {
					return err
				}
				v.SetString(s)
				return nil
			},
		}
	case tag.prefix != 0 && tag.prefix != packet.U16:
		return prefixedStringCodec(tag.prefix, tag.max)
	case tag.max > 0:
		max := tag.max
		return valueCodec{
			enc: func(w *packet.Writer, v reflect.Value) error {
				return w.WriteStringMax(v.String(), max)
			},
			dec: func(r *packet.Reader, v reflect.Value) error {
				s, err := r.ReadStringMax(max)
				if err != nil {
					return err
				}
				v.SetString(s)
				return nil
			},
		}
	default:
		return valueCodec{
			enc: func(w *packet.Writer, v reflect.Value) error {
				return w.WriteString(v.String())
			},
			dec: func(r *packet.Reader, v reflect.Value) error {
				s, err := r.ReadString()
				if err != nil {
					return err
				}
				v.SetString(s)
				return nil
			},
		}
	}
}

// prefixedStringCodec handles strings carrying a non-default prefix width.
func prefixedStringCodec(width packet.PrefixWidth, max int) valueCodec {
	return valueCodec{
		enc: func(w *packet.Writer, v reflect.Value) error {
			s := v.String()
			if max > 0 && len(s) > max {
				return errors.StringTooLong(errors.PhaseEncode, w.Len(), max, len(s))
			}
			return w.WriteLengthPrefixed(width, []byte(s))
		},
		dec: func(r *packet.Reader, v reflect.Value) error {
			pos := r.Position()
			b, err := r.ReadLengthPrefixed(width)
			if err != nil {
				return err
			}
			if max > 0 && len(b) > max {
				return errors.StringTooLong(errors.PhaseDecode, pos, max, len(b))
			}
			if !utf8.Valid(b) {
				return errors.InvalidUTF8(r.Position()-len(b), b)
			}
			v.SetString(string(b))
			return nil
		},
	}
}

func (c *compiler) sliceCodec(t reflect.Type, tag fieldTag, path string) (valueCodec, error) {
	width := tag.prefix
	if width == 0 {
		width = packet.U32
	}

	if t.Elem().Kind() == reflect.Uint8 && t.Elem() == reflect.TypeOf(byte(0)) {
		return valueCodec{
			enc: func(w *packet.Writer, v reflect.Value) error {
				return w.WriteLengthPrefixed(width, v.Bytes())
			},
			dec: func(r *packet.Reader, v reflect.Value) error {
				b, err := r.ReadLengthPrefixed(width)
				if err != nil {
					return err
				}
				if len(b) == 0 {
					v.SetZero()
					return nil
				}
				cp := make([]byte, len(b))
				copy(cp, b)
				v.SetBytes(cp)
				return nil
			},
		}, nil
	}

	elem, err := c.codecFor(t.Elem(), fieldTag{}, path+"[elem]")
	if err != nil {
		return valueCodec{}, err
	}

	return valueCodec{
		enc: func(w *packet.Writer, v reflect.Value) error {
			if err := w.WritePrefix(width, uint64(v.Len())); err != nil {
				return err
			}
			for i := 0; i < v.Len(); i++ {
				if err := elem.enc(w, v.Index(i)); err != nil {
					return err
				}
			}
			return nil
		},
		dec: func(r *packet.Reader, v reflect.Value) error {
			count, err := r.ReadPrefix(width)
			if err != nil {
				return err
			}
			n, err := boundCount(r, count)
			if err != nil {
				return err
			}
			if n == 0 {
				v.SetZero()
				return nil
			}
			out := reflect.MakeSlice(t, n, n)
			for i := 0; i < n; i++ {
				if err := elem.dec(r, out.Index(i)); err != nil {
					return err
				}
			}
			v.Set(out)
			return nil
		},
	}, nil
}

// boundCount rejects element counts that cannot fit in the remaining
// bytes before anything is allocated. Every element is at least one byte,
// so a count beyond Remaining is already a truncation.
func boundCount(r *packet.Reader, count uint64) (int, error) {
	if count > uint64(r.Remaining()) {
		req := count
		if req > math.MaxInt32 {
			req = math.MaxInt32
		}
		_, err := r.Peek(int(req))
		return 0, err
	}
	return int(count), nil
}

func (c *compiler) arrayCodec(t reflect.Type, path string) (valueCodec, error) {
	n := t.Len()

	if t.Elem() == reflect.TypeOf(byte(0)) {
		return valueCodec{
			enc: func(w *packet.Writer, v reflect.Value) error {
				b := make([]byte, n)
				reflect.Copy(reflect.ValueOf(b), v)
				w.WriteBytes(b)
				return nil
			},
			dec: func(r *packet.Reader, v reflect.Value) error {
				b, err := r.ReadBytes(n)
				if err != nil {
					return err
				}
				reflect.Copy(v, reflect.ValueOf(b))
				return nil
			},
		}, nil
	}

	elem, err := c.codecFor(t.Elem(), fieldTag{}, path+"[elem]")
	if err != nil {
		return valueCodec{}, err
	}

	return valueCodec{
		enc: func(w *packet.Writer, v reflect.Value) error {
			for i := 0; i < n; i++ {
				if err := elem.enc(w, v.Index(i)); err != nil {
					return err
				}
			}
			return nil
		},
		dec: func(r *packet.Reader, v reflect.Value) error {
			for i := 0; i < n; i++ {
				if err := elem.dec(r, v.Index(i)); err != nil {
					return err
				}
			}
			return nil
		},
	}, nil
}

// restCodec is the eof-consuming tail: every remaining byte on decode,
// raw elements with no prefix on encode.
func (c *compiler) restCodec(t reflect.Type) (valueCodec, error) {
	if t.Elem() == reflect.TypeOf(byte(0)) {
		return valueCodec{
			enc: func(w *packet.Writer, v reflect.Value) error {
				w.WriteBytes(v.Bytes())
				return nil
			},
			dec: func(r *packet.Reader, v reflect.Value) error {
				b, err := r.Take(r.Remaining())
				if err != nil {
					return err
				}
				if len(b) == 0 {
					v.SetZero()
					return nil
				}
				cp := make([]byte, len(b))
				copy(cp, b)
				v.SetBytes(cp)
				return nil
			},
		}, nil
	}

	elem, err := c.codecFor(t.Elem(), fieldTag{}, t.String()+"[elem]")
	if err != nil {
		return valueCodec{}, err
	}

	return valueCodec{
		enc: func(w *packet.Writer, v reflect.Value) error {
			for i := 0; i < v.Len(); i++ {
				if err := elem.enc(w, v.Index(i)); err != nil {
					return err
				}
			}
			return nil
		},
		dec: func(r *packet.Reader, v reflect.Value) error {
			if r.Remaining() == 0 {
				v.SetZero()
				return nil
			}
			out := reflect.MakeSlice(t, 0, 4)
			for r.Remaining() > 0 {
				pos := r.Position()
				nv := reflect.New(t.Elem())
				if err := elem.dec(r, nv.Elem()); err != nil {
					return err
				}
				if r.Position() == pos {
					return errors.Validation(errors.PhaseDecode, t.String(),
						"tail element consumed no bytes")
				}
				out = reflect.Append(out, nv.Elem())
			}
			v.Set(out)
			return nil
		},
	}, nil
}

// pointerCodec is the presence-byte optional: one boolean byte, then the
// payload when present.
func (c *compiler) pointerCodec(t reflect.Type, path string) (valueCodec, error) {
	elem, err := c.codecFor(t.Elem(), fieldTag{}, path)
	if err != nil {
		return valueCodec{}, err
	}

	return valueCodec{
		enc: func(w *packet.Writer, v reflect.Value) error {
			if v.IsNil() {
				w.WriteBool(false)
				return nil
			}
			w.WriteBool(true)
			return elem.enc(w, v.Elem())
		},
		dec: func(r *packet.Reader, v reflect.Value) error {
			present, err := r.ReadBool()
			if err != nil {
				return err
			}
			if !present {
				v.SetZero()
				return nil
			}
			nv := reflect.New(t.Elem())
			if err := elem.dec(r, nv.Elem()); err != nil {
				return err
			}
			v.Set(nv)
			return nil
		},
	}, nil
}

// condPointerCodec is a pointer field whose presence an earlier field
// already encodes; no presence byte travels with it.
func (c *compiler) condPointerCodec(t reflect.Type, f reflect.StructField) (valueCodec, error) {
	elem, err := c.codecFor(f.Type.Elem(), fieldTag{}, t.String()+"."+f.Name)
	if err != nil {
		return valueCodec{}, err
	}
	typeName := t.String()
	name := f.Name
	elemType := f.Type.Elem()

	return valueCodec{
		enc: func(w *packet.Writer, v reflect.Value) error {
			if v.IsNil() {
				return errors.Validation(errors.PhaseEncode, typeName,
					"field %s: condition holds but value is nil", name)
			}
			return elem.enc(w, v.Elem())
		},
		dec: func(r *packet.Reader, v reflect.Value) error {
			nv := reflect.New(elemType)
			if err := elem.dec(r, nv.Elem()); err != nil {
				return err
			}
			v.Set(nv)
			return nil
		},
	}, nil
}

// countedSliceCodec is a slice whose element count lives in an earlier
// integer field; the slice itself carries no prefix.
func (c *compiler) countedSliceCodec(t reflect.Type, f reflect.StructField, srcIdx int) (valueCodec, error) {
	elem, err := c.codecFor(f.Type.Elem(), fieldTag{}, t.String()+"."+f.Name)
	if err != nil {
		return valueCodec{}, err
	}
	typeName := t.String()
	name := f.Name
	sliceType := f.Type

	countOf := func(parent reflect.Value) uint64 {
		src := parent.Field(srcIdx)
		if isUnsignedKind(src.Kind()) {
			return src.Uint()
		}
		n := src.Int()
		if n < 0 {
			return 0
		}
		return uint64(n)
	}

	// The closures receive the parent struct, not the field, so they can
	// see the count field.
	enc := func(w *packet.Writer, parent reflect.Value) error {
		v := parent.Field(f.Index[0])
		if want := countOf(parent); want != uint64(v.Len()) {
			return errors.Validation(errors.PhaseEncode, typeName,
				"field %s: %d elements but count field holds %d", name, v.Len(), want)
		}
		for i := 0; i < v.Len(); i++ {
			if err := elem.enc(w, v.Index(i)); err != nil {
				return err
			}
		}
		return nil
	}
	dec := func(r *packet.Reader, parent reflect.Value) error {
		n, err := boundCount(r, countOf(parent))
		if err != nil {
			return err
		}
		if n == 0 {
			return nil
		}
		out := reflect.MakeSlice(sliceType, n, n)
		for i := 0; i < n; i++ {
			if err := elem.dec(r, out.Index(i)); err != nil {
				return err
			}
		}
		parent.Field(f.Index[0]).Set(out)
		return nil
	}

	return valueCodec{parentEnc: enc, parentDec: dec}, nil
}
