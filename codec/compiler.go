package codec

import (
	"reflect"
	"sync"

	"github.com/nervedata/packetcodec/errors"
	"github.com/nervedata/packetcodec/packet"
)

// programs caches compiled struct programs by Go type.
var programs sync.Map // reflect.Type -> *Program

// Program is the compiled wire layout of one struct type: its fields in
// declaration order, each bound to the encode and decode logic for its
// shape and tag options. Programs are immutable after Compile returns and
// safe for concurrent use.
type Program struct {
	typ    reflect.Type
	fields []fieldProgram
}

type fieldProgram struct {
	name string
	enc  func(w *packet.Writer, parent reflect.Value) error
	dec  func(r *packet.Reader, parent reflect.Value) error
}

// valueCodec moves one value of a fixed shape. dec requires a settable
// destination. parentEnc/parentDec, when set, replace enc/dec and receive
// the enclosing struct instead of the field; lenfrom needs that to reach
// its count field.
type valueCodec struct {
	enc func(w *packet.Writer, v reflect.Value) error
	dec func(r *packet.Reader, v reflect.Value) error

	parentEnc func(w *packet.Writer, parent reflect.Value) error
	parentDec func(r *packet.Reader, parent reflect.Value) error
}

// Compile builds (or returns the cached) program for a struct type. Field
// shapes the wire cannot express fail here, not at encode time.
func Compile(t reflect.Type) (*Program, error) {
	if cached, ok := programs.Load(t); ok {
		return cached.(*Program), nil
	}

	c := &compiler{inProgress: make(map[reflect.Type]*Program)}
	p, err := c.compileStruct(t)
	if err != nil {
		return nil, err
	}

	// Publish the whole strongly-connected set at once so recursive types
	// never expose a half-built program.
	for ct, cp := range c.inProgress {
		programs.Store(ct, cp)
	}
	debugf("compiled program for %s (%d wire fields)", t, len(p.fields))
	return p, nil
}

type compiler struct {
	inProgress map[reflect.Type]*Program
}

func (c *compiler) compileStruct(t reflect.Type) (*Program, error) {
	if cached, ok := programs.Load(t); ok {
		return cached.(*Program), nil
	}
	if p, ok := c.inProgress[t]; ok {
		return p, nil
	}
	if t.Kind() != reflect.Struct {
		return nil, errors.Unsupported(t.String(), "only structs can be compiled")
	}

	p := &Program{typ: t}
	c.inProgress[t] = p

	// Earlier wire fields by name, for lenfrom= and if= references.
	seen := make(map[string]int)

	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		tag, err := parseTag(t.String(), f.Name, f.Tag.Get("pkt"))
		if err != nil {
			return nil, err
		}
		if !f.IsExported() || tag.omit {
			continue
		}

		fp, err := c.compileField(t, f, tag, seen)
		if err != nil {
			return nil, err
		}
		p.fields = append(p.fields, fp)
		seen[f.Name] = f.Index[0]
	}

	return p, nil
}

// compileField builds the per-field program: the value codec for the
// field's shape, wrapped with padding, conditional presence, and
// count-from-field handling.
func (c *compiler) compileField(t reflect.Type, f reflect.StructField, tag fieldTag, seen map[string]int) (fieldProgram, error) {
	var fp fieldProgram
	fp.name = f.Name
	idx := f.Index[0]

	unsupported := func(format string, args ...any) (fieldProgram, error) {
		return fp, errors.Unsupported(t.String(), "field %s: "+format,
			append([]any{f.Name}, args...)...)
	}

	cond, err := c.compileCond(t, f, tag, seen)
	if err != nil {
		return fp, err
	}

	var vc valueCodec
	switch {
	case tag.lenFrom != "":
		if f.Type.Kind() != reflect.Slice {
			return unsupported("lenfrom applies to slices, not %s", f.Type)
		}
		src, ok := seen[tag.lenFrom]
		if !ok {
			return unsupported("lenfrom=%s does not name an earlier field", tag.lenFrom)
		}
		if !isCountKind(t.Field(src).Type.Kind()) {
			return unsupported("lenfrom=%s is not an integer field", tag.lenFrom)
		}
		vc, err = c.countedSliceCodec(t, f, src)
		if err != nil {
			return fp, err
		}

	case tag.rest:
		if f.Type.Kind() != reflect.Slice {
			return unsupported("rest applies to slices, not %s", f.Type)
		}
		if zeroWire(f.Type.Elem()) {
			return unsupported("rest elements of type %s can occupy zero bytes, so the tail would never drain", f.Type.Elem())
		}
		vc, err = c.restCodec(f.Type)
		if err != nil {
			return fp, err
		}

	case cond != nil && f.Type.Kind() == reflect.Pointer:
		// Presence is decided by the condition, so the pointer carries no
		// presence byte of its own.
		vc, err = c.condPointerCodec(t, f)
		if err != nil {
			return fp, err
		}

	default:
		k := f.Type.Kind()
		if tag.prefix != 0 && k != reflect.Slice && k != reflect.String {
			return unsupported("len applies to slices and strings, not %s", f.Type)
		}
		if (tag.max != 0 || tag.fixed != 0) && k != reflect.String {
			return unsupported("max and fixed apply to strings, not %s", f.Type)
		}
		vc, err = c.codecFor(f.Type, tag, t.String()+"."+f.Name)
		if err != nil {
			return fp, err
		}
	}

	if tag.hasMask {
		if !isUnsignedKind(f.Type.Kind()) {
			return unsupported("mask applies to unsigned integers, not %s", f.Type)
		}
		inner := vc.dec
		mask := tag.mask
		vc.dec = func(r *packet.Reader, v reflect.Value) error {
			if err := inner(r, v); err != nil {
				return err
			}
			v.SetUint(v.Uint() & mask)
			return nil
		}
	}

	// Normalize to parent-level closures.
	enc, dec := vc.parentEnc, vc.parentDec
	if enc == nil {
		fieldEnc := vc.enc
		enc = func(w *packet.Writer, parent reflect.Value) error {
			return fieldEnc(w, parent.Field(idx))
		}
	}
	if dec == nil {
		fieldDec := vc.dec
		dec = func(r *packet.Reader, parent reflect.Value) error {
			return fieldDec(r, parent.Field(idx))
		}
	}

	before, after := tag.skipBefore, tag.skipAfter

	fp.enc = func(w *packet.Writer, parent reflect.Value) error {
		if cond != nil && !cond.eval(parent) {
			return nil
		}
		if before > 0 {
			w.WriteZero(before)
		}
		if err := enc(w, parent); err != nil {
			return err
		}
		if after > 0 {
			w.WriteZero(after)
		}
		return nil
	}
	fp.dec = func(r *packet.Reader, parent reflect.Value) error {
		if cond != nil && !cond.eval(parent) {
			return nil
		}
		if before > 0 {
			if err := r.Skip(before); err != nil {
				return err
			}
		}
		if err := dec(r, parent); err != nil {
			return err
		}
		if after > 0 {
			return r.Skip(after)
		}
		return nil
	}
	return fp, nil
}

// condition gates a field's presence on an earlier field's value.
type condition struct {
	index  int
	negate bool
	bit    uint64 // nonzero for ifbit=
}

func (c *condition) eval(parent reflect.Value) bool {
	f := parent.Field(c.index)
	var on bool
	switch {
	case c.bit != 0:
		on = f.Uint()&c.bit != 0
	case f.Kind() == reflect.Bool:
		on = f.Bool()
	default:
		on = !f.IsNil()
	}
	if c.negate {
		return !on
	}
	return on
}

func (c *compiler) compileCond(t reflect.Type, f reflect.StructField, tag fieldTag, seen map[string]int) (*condition, error) {
	if tag.cond == "" {
		return nil, nil
	}

	name := tag.cond
	cond := &condition{bit: tag.condBit}
	if tag.condBit == 0 && name[0] == '!' {
		cond.negate = true
		name = name[1:]
	}

	src, ok := seen[name]
	if !ok {
		return nil, errors.Unsupported(t.String(),
			"field %s: condition %q does not name an earlier field", f.Name, name)
	}
	cond.index = src

	srcKind := t.Field(src).Type.Kind()
	if cond.bit != 0 {
		if !isUnsignedKind(srcKind) {
			return nil, errors.Unsupported(t.String(),
				"field %s: ifbit source %s is not an unsigned integer", f.Name, name)
		}
	} else if srcKind != reflect.Bool && srcKind != reflect.Pointer {
		return nil, errors.Unsupported(t.String(),
			"field %s: if source %s is not a bool or pointer", f.Name, name)
	}
	return cond, nil
}

// codecFor dispatches on a value's shape. path names the location for
// compile errors.
func (c *compiler) codecFor(t reflect.Type, tag fieldTag, path string) (valueCodec, error) {
	// Hand-written codecs win over derivation.
	if vc, ok := contractCodec(t); ok {
		return vc, nil
	}
	if vc, ok := lookupEnum(t); ok {
		return vc, nil
	}

	switch t.Kind() {
	case reflect.Bool:
		return boolCodec(), nil
	case reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return uintCodec(t), nil
	case reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return intCodec(t), nil
	case reflect.Float32, reflect.Float64:
		return floatCodec(t), nil
	case reflect.String:
		return stringCodec(tag), nil
	case reflect.Slice:
		return c.sliceCodec(t, tag, path)
	case reflect.Array:
		return c.arrayCodec(t, path)
	case reflect.Struct:
		p, err := c.compileStruct(t)
		if err != nil {
			return valueCodec{}, err
		}
		return valueCodec{enc: p.encode, dec: p.decode}, nil
	case reflect.Pointer:
		return c.pointerCodec(t, path)
	case reflect.Interface:
		if vc, ok := lookupUnion(t); ok {
			return vc, nil
		}
		return valueCodec{}, errors.Unsupported(path,
			"interface %s has no registered union", t)
	default:
		return valueCodec{}, errors.Unsupported(path,
			"%s values have no wire form", t.Kind())
	}
}

func (p *Program) encode(w *packet.Writer, v reflect.Value) error {
	for i := range p.fields {
		if err := p.fields[i].enc(w, v); err != nil {
			return err
		}
	}
	return nil
}

func (p *Program) decode(r *packet.Reader, v reflect.Value) error {
	for i := range p.fields {
		if err := p.fields[i].dec(r, v); err != nil {
			return err
		}
	}
	return nil
}

// zeroWire reports whether a value of type t can legally occupy zero bytes
// on the wire. Decoding an eof-consuming tail of such elements would never
// drain the buffer, so rest fields reject them at compile time.
func zeroWire(t reflect.Type) bool {
	pt := reflect.PointerTo(t)
	if pt.Implements(encoderIface) && pt.Implements(decoderIface) {
		// Hand-written codecs decide their own width; the decode loop
		// guards against the ones that read nothing.
		return false
	}

	switch t.Kind() {
	case reflect.Array:
		return t.Len() == 0 || zeroWire(t.Elem())
	case reflect.Struct:
		for i := 0; i < t.NumField(); i++ {
			f := t.Field(i)
			tag, err := parseTag(t.String(), f.Name, f.Tag.Get("pkt"))
			if err != nil {
				// The bad tag surfaces when the field itself compiles.
				return false
			}
			if !f.IsExported() || tag.omit {
				continue
			}
			// Conditional fields can be absent, and counted or tail
			// slices can be empty; none guarantees a byte.
			if tag.cond != "" || tag.lenFrom != "" || tag.rest {
				continue
			}
			if tag.skipBefore > 0 || tag.skipAfter > 0 {
				return false
			}
			if !zeroWire(f.Type) {
				return false
			}
		}
		return true
	}
	return false
}

func isUnsignedKind(k reflect.Kind) bool {
	switch k {
	case reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return true
	}
	return false
}

func isCountKind(k reflect.Kind) bool {
	switch k {
	case reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return true
	}
	return false
}
