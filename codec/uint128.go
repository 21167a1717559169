package codec

import (
	"fmt"

	"github.com/nervedata/packetcodec/packet"
)

// Uint128 is a 128-bit unsigned integer carried as four little-endian u32
// blocks in reversed block order: most significant block first.
type Uint128 struct {
	Hi uint64
	Lo uint64
}

// EncodePacket implements packet.Encoder.
func (u Uint128) EncodePacket(w *packet.Writer) error {
	w.WriteU32(uint32(u.Hi >> 32))
	w.WriteU32(uint32(u.Hi))
	w.WriteU32(uint32(u.Lo >> 32))
	w.WriteU32(uint32(u.Lo))
	return nil
}

// DecodePacket implements packet.Decoder.
func (u *Uint128) DecodePacket(r *packet.Reader) error {
	var blocks [4]uint32
	for i := range blocks {
		v, err := r.ReadU32()
		if err != nil {
			return err
		}
		blocks[i] = v
	}
	u.Hi = uint64(blocks[0])<<32 | uint64(blocks[1])
	u.Lo = uint64(blocks[2])<<32 | uint64(blocks[3])
	return nil
}

func (u Uint128) String() string {
	if u.Hi == 0 {
		return fmt.Sprintf("%d", u.Lo)
	}
	return fmt.Sprintf("0x%016x%016x", u.Hi, u.Lo)
}
