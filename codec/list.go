package codec

import (
	"github.com/nervedata/packetcodec/errors"
	"github.com/nervedata/packetcodec/packet"
)

// IndexEntry pairs a slot index with its value inside a terminated index
// list.
type IndexEntry[T any] struct {
	Index uint64
	Value T
}

// IndexTerm selects which index value terminates the list on the wire.
type IndexTerm int

const (
	// TermMax terminates on the index width's maximum value.
	TermMax IndexTerm = iota
	// TermZero terminates on index zero.
	TermZero
)

func (t IndexTerm) value(width packet.PrefixWidth) uint64 {
	if t == TermZero {
		return 0
	}
	return width.MaxValue()
}

// EncodeIndexList writes (index, value) pairs followed by the terminator
// index. An entry whose index equals the terminator cannot be represented
// and is rejected.
func EncodeIndexList[T any](w *packet.Writer, width packet.PrefixWidth, term IndexTerm, entries []IndexEntry[T]) error {
	stop := term.value(width)
	for i := range entries {
		if entries[i].Index == stop {
			return errors.Validation(errors.PhaseEncode, "codec.IndexEntry",
				"index %d collides with the list terminator", entries[i].Index)
		}
		if err := w.WritePrefix(width, entries[i].Index); err != nil {
			return err
		}
		if err := Encode(w, &entries[i].Value); err != nil {
			return err
		}
	}
	return w.WritePrefix(width, stop)
}

// DecodeIndexList reads (index, value) pairs until the terminator index.
func DecodeIndexList[T any](r *packet.Reader, width packet.PrefixWidth, term IndexTerm) ([]IndexEntry[T], error) {
	stop := term.value(width)
	var out []IndexEntry[T]
	for {
		idx, err := r.ReadPrefix(width)
		if err != nil {
			return nil, err
		}
		if idx == stop {
			return out, nil
		}
		var v T
		if err := Decode(r, &v); err != nil {
			return nil, err
		}
		out = append(out, IndexEntry[T]{Index: idx, Value: v})
	}
}
