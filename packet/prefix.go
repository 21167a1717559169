package packet

import "math"

// PrefixWidth selects the integer width of a length prefix or union
// discriminant. The numeric value is the width in bytes.
type PrefixWidth uint8

const (
	U8  PrefixWidth = 1
	U16 PrefixWidth = 2
	U32 PrefixWidth = 4
	U64 PrefixWidth = 8
)

// Size returns the width in bytes.
func (p PrefixWidth) Size() int {
	return int(p)
}

// MaxValue returns the largest value the width can represent.
func (p PrefixWidth) MaxValue() uint64 {
	switch p {
	case U8:
		return math.MaxUint8
	case U16:
		return math.MaxUint16
	case U32:
		return math.MaxUint32
	default:
		return math.MaxUint64
	}
}

func (p PrefixWidth) String() string {
	switch p {
	case U8:
		return "u8"
	case U16:
		return "u16"
	case U32:
		return "u32"
	case U64:
		return "u64"
	default:
		return "invalid"
	}
}

// Valid reports whether p is one of the declared widths.
func (p PrefixWidth) Valid() bool {
	switch p {
	case U8, U16, U32, U64:
		return true
	}
	return false
}
