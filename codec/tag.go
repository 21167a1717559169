package codec

import (
	"strconv"
	"strings"

	"github.com/nervedata/packetcodec/errors"
	"github.com/nervedata/packetcodec/packet"
)

// fieldTag is the parsed form of a pkt struct tag.
type fieldTag struct {
	omit bool // pkt:"-"

	prefix  packet.PrefixWidth // len=; zero means the type's default
	lenFrom string             // lenfrom=
	rest    bool

	skipBefore int // skip=
	skipAfter  int // skipafter=

	max   int // max=; zero means unbounded
	fixed int // fixed=; zero means variable length

	mask    uint64 // mask=
	hasMask bool

	cond    string // if= (may carry a leading '!'), or ifbit= field name
	condBit uint64 // ifbit= bit mask; zero means plain if=
}

func parseTag(typeName, fieldName, raw string) (fieldTag, error) {
	var t fieldTag
	if raw == "" {
		return t, nil
	}
	if raw == "-" {
		t.omit = true
		return t, nil
	}

	fail := func(format string, args ...any) (fieldTag, error) {
		return t, errors.Unsupported(typeName, "field %s: "+format,
			append([]any{fieldName}, args...)...)
	}

	for _, opt := range strings.Split(raw, ",") {
		key, val, _ := strings.Cut(opt, "=")
		switch key {
		case "rest":
			t.rest = true
		case "len":
			switch val {
			case "u8":
				t.prefix = packet.U8
			case "u16":
				t.prefix = packet.U16
			case "u32":
				t.prefix = packet.U32
			case "u64":
				t.prefix = packet.U64
			default:
				return fail("len=%q is not u8, u16, u32 or u64", val)
			}
		case "lenfrom":
			if val == "" {
				return fail("lenfrom needs a field name")
			}
			t.lenFrom = val
		case "skip", "skipafter":
			n, err := strconv.Atoi(val)
			if err != nil || n < 0 {
				return fail("%s=%q is not a byte count", key, val)
			}
			if key == "skip" {
				t.skipBefore = n
			} else {
				t.skipAfter = n
			}
		case "max":
			n, err := strconv.Atoi(val)
			if err != nil || n <= 0 {
				return fail("max=%q is not a positive byte count", val)
			}
			t.max = n
		case "fixed":
			n, err := strconv.Atoi(val)
			if err != nil || n <= 0 {
				return fail("fixed=%q is not a positive byte count", val)
			}
			t.fixed = n
		case "mask":
			m, err := strconv.ParseUint(strings.TrimPrefix(val, "0x"), 16, 64)
			if err != nil || m == 0 {
				return fail("mask=%q is not a hex bit mask", val)
			}
			t.mask = m
			t.hasMask = true
		case "if":
			if val == "" || val == "!" {
				return fail("if needs a field name")
			}
			t.cond = val
		case "ifbit":
			name, bits, ok := strings.Cut(val, ":")
			if !ok || name == "" {
				return fail("ifbit=%q is not Field:0xNN", val)
			}
			m, err := strconv.ParseUint(strings.TrimPrefix(bits, "0x"), 16, 64)
			if err != nil || m == 0 {
				return fail("ifbit=%q is not Field:0xNN", val)
			}
			t.cond = name
			t.condBit = m
		default:
			return fail("unknown tag option %q", opt)
		}
	}

	if t.rest && (t.prefix != 0 || t.lenFrom != "") {
		return fail("rest excludes len and lenfrom")
	}
	if t.prefix != 0 && t.lenFrom != "" {
		return fail("len and lenfrom are mutually exclusive")
	}
	if t.fixed != 0 && (t.prefix != 0 || t.max != 0 || t.rest) {
		return fail("fixed excludes len, max and rest")
	}
	return t, nil
}
